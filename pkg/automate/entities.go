package automate

import (
	"strings"

	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

type objectEntity struct {
	obj      *farm.Object
	location *farm.Location
}

func (e objectEntity) Location() string     { return e.location.Name }
func (e objectEntity) TileArea() world.Rect { return e.obj.TileArea() }
func (e objectEntity) Instance() any        { return e.obj }

// ChestContainer is a chest placed in the world.
type ChestContainer struct {
	objectEntity
}

// NewChest wraps a chest object
func NewChest(obj *farm.Object, loc *farm.Location) *ChestContainer {
	return &ChestContainer{objectEntity{obj: obj, location: loc}}
}

func (c *ChestContainer) Role() Role                { return Container }
func (c *ChestContainer) Items() []farm.Item        { return c.obj.Items }
func (c *ChestContainer) Store(item farm.Item) bool { return c.obj.Store(item) }
func (c *ChestContainer) Take(name string) bool     { return c.obj.Take(name) }
func (c *ChestContainer) AutomationDisabled() bool  { return c.obj.HasFlag(farm.FlagAutomateDisabled) }

// ObjectMachine is a placed machine that turns recipe inputs into outputs.
type ObjectMachine struct {
	objectEntity
}

// NewMachine wraps a machine object
func NewMachine(obj *farm.Object, loc *farm.Location) *ObjectMachine {
	return &ObjectMachine{objectEntity{obj: obj, location: loc}}
}

func (m *ObjectMachine) Role() Role { return Machine }

// State reports Done when output is waiting, Processing while working, else Empty.
func (m *ObjectMachine) State() MachineState {
	switch {
	case m.obj.Ready:
		return Done
	case m.obj.Processing():
		return Processing
	default:
		return Empty
	}
}

// PushOutput offers the finished output to into.
func (m *ObjectMachine) PushOutput(into func(farm.Item) bool) bool {
	if !m.obj.Ready || m.obj.Output == "" {
		return false
	}
	if !into(farm.Item{Name: m.obj.Output, Stack: 1}) {
		return false
	}
	m.obj.Harvest()
	return true
}

// TryStart takes the first recipe input found in the containers, in recipe order.
func (m *ObjectMachine) TryStart(containers []ContainerEntity) bool {
	if m.State() != Empty {
		return false
	}
	w := m.location.World()
	if w == nil {
		return false
	}
	for _, recipe := range w.Recipes[m.obj.Kind] {
		for _, c := range containers {
			if c.Take(recipe.Input) {
				m.obj.StartProcessing(recipe)
				return true
			}
		}
	}
	return false
}

// ObjectConnector is a placed object that only links others, like a path tile.
type ObjectConnector struct {
	objectEntity
}

func (c *ObjectConnector) Role() Role { return Connector }

// ShippingBin is an ad-hoc container backed by a tile action rather than an
// object: anything stored in it is shipped. Machines can never take from it.
type ShippingBin struct {
	location *farm.Location
	tile     world.Tile
	info     CustomInfo
	Shipped  []farm.Item
}

// NewShippingBin creates the bin for the given action tile. The bin covers
// the action tile and the one to its right.
func NewShippingBin(loc *farm.Location, tile world.Tile) *ShippingBin {
	return &ShippingBin{
		location: loc,
		tile:     tile,
		info:     CustomInfo{ID: loc.Name + "/shipping_bin@" + tile.String(), Kind: "ShippingBin"},
	}
}

func (b *ShippingBin) Location() string { return b.location.Name }
func (b *ShippingBin) TileArea() world.Rect {
	return world.Rect{X: b.tile.X, Y: b.tile.Y, Width: 2, Height: 1}
}
func (b *ShippingBin) Role() Role               { return Container }
func (b *ShippingBin) Instance() any            { return b.info }
func (b *ShippingBin) Items() []farm.Item       { return nil }
func (b *ShippingBin) Take(string) bool         { return false }
func (b *ShippingBin) AutomationDisabled() bool { return false }
func (b *ShippingBin) Store(item farm.Item) bool {
	b.Shipped = append(b.Shipped, item)
	return true
}

func isShippingBinAction(a farm.TileAction) bool {
	args := a.Args()
	return len(args) > 0 && strings.EqualFold(args[0], "ShippingBin")
}
