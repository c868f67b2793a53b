package automate

import (
	"strings"

	"github.com/zyedidia/generic/mapset"

	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

// Factory constructs automatables for world objects. Returning nil means the
// factory doesn't handle the object.
type Factory interface {
	GetFor(obj *farm.Object, loc *farm.Location) Automatable
}

// TileFactory is implemented by factories that also create ad-hoc
// automatables for tiles with no object on them.
type TileFactory interface {
	GetForTile(loc *farm.Location, tile world.Tile) Automatable
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(obj *farm.Object, loc *farm.Location) Automatable

// GetFor calls f
func (f FactoryFunc) GetFor(obj *farm.Object, loc *farm.Location) Automatable {
	return f(obj, loc)
}

// builtinFactory handles chests, machines with recipes, configured connector
// kinds matched case-insensitively, and shipping bin tiles.
type builtinFactory struct {
	connectors mapset.Set[string]
}

func newBuiltinFactory(connectorKinds []string) *builtinFactory {
	f := &builtinFactory{connectors: mapset.New[string]()}
	for _, kind := range connectorKinds {
		f.connectors.Put(strings.ToLower(kind))
	}
	return f
}

func (f *builtinFactory) GetFor(obj *farm.Object, loc *farm.Location) Automatable {
	switch {
	case obj.Kind == "chest":
		return NewChest(obj, loc)
	case loc.World() != nil && loc.World().IsMachineKind(obj.Kind):
		return NewMachine(obj, loc)
	case f.connectors.Has(strings.ToLower(obj.Kind)):
		return &ObjectConnector{objectEntity{obj: obj, location: loc}}
	default:
		return nil
	}
}

func (f *builtinFactory) GetForTile(loc *farm.Location, tile world.Tile) Automatable {
	action, ok := loc.ActionAt(tile)
	if !ok || !isShippingBinAction(action) {
		return nil
	}
	return NewShippingBin(loc, tile)
}
