package datalayers

import (
	"errors"
	"fmt"
	"log/slog"

	"farmkit/pkg/engine/monitor"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
	"farmkit/pkg/host"
)

var (
	ErrDuplicateLayer     = errors.New("the mod already has a layer with that ID")
	ErrRegistrationClosed = errors.New("layer registration is closed")
)

// DataLayer is a layer implemented by another mod.
type DataLayer interface {
	// Name is shown in the overlay header and menus.
	Name() string

	// Configure sets up the legend once. Every tile type the layer uses in
	// Update must be added here.
	Configure(legend LegendBuilder)

	// Update adds the layer's current tile groups.
	Update(builder LayerBuilder, loc *farm.Location, visibleArea world.Rect, visibleTiles []world.Tile, cursorTile world.Tile)
}

// LegendBuilder collects a layer's legend entries.
type LegendBuilder interface {
	// Add registers a tile type. colorID is looked up in the color scheme as
	// "<layer id>_<colorID>", with def used when the scheme doesn't set it.
	Add(id, name, colorID string, def Color) LegendBuilder
}

// LayerBuilder collects a layer's tile groups during an update.
type LayerBuilder interface {
	// AddTileGroup starts a group whose tiles default to defaultTypeID.
	AddTileGroup(defaultTypeID string, build func(TileGroupBuilder)) LayerBuilder
}

// TileGroupBuilder adds tiles to a tile group.
type TileGroupBuilder interface {
	// AddTile adds a tile. An empty typeID uses the group's default type.
	AddTile(tile world.Tile, typeID string) TileGroupBuilder
	// AddTiles adds tiles, with typeOf choosing each tile's type (nil uses the group default).
	AddTiles(tiles []world.Tile, typeOf func(world.Tile) string) TileGroupBuilder
	// SetOuterBorderColor draws a border around the group's outer edges; nil removes it.
	SetOuterBorderColor(c *Color) TileGroupBuilder
}

// LayerRegistration is a layer registered through the API.
type LayerRegistration struct {
	// UniqueID is "<mod id>:<local id>".
	UniqueID string
	// LocalID is the ID given by the mod, used as the color scheme prefix.
	LocalID string
	Layer   DataLayer
}

// API lets other mods add layers and color schemes.
type API struct {
	colors        *ColorRegistry
	monitor       *monitor.Monitor
	registrations []LayerRegistration
	byID          map[string]bool
	sealed        bool
}

// NewAPI creates the API over a color registry
func NewAPI(colors *ColorRegistry, mon *monitor.Monitor) *API {
	if mon == nil {
		mon = monitor.Discard()
	}
	return &API{colors: colors, monitor: mon, byID: make(map[string]bool)}
}

// RegisterLayer adds a layer. Invalid registrations are logged and ignored.
func (a *API) RegisterLayer(mod host.Manifest, id string, layer DataLayer) {
	if err := a.register(mod, id, layer); err != nil {
		a.monitor.Log(slog.LevelError, fmt.Sprintf("Couldn't register layer with ID '%s' for mod '%s'.", id, mod.UniqueID), "error", err)
	}
}

func (a *API) register(mod host.Manifest, id string, layer DataLayer) error {
	switch {
	case layer == nil:
		return errors.New("layer is nil")
	case mod.UniqueID == "":
		return errors.New("mod has no unique ID")
	case a.sealed:
		return ErrRegistrationClosed
	}
	globalID := mod.UniqueID + ":" + id
	if a.byID[globalID] {
		return ErrDuplicateLayer
	}
	a.byID[globalID] = true
	a.registrations = append(a.registrations, LayerRegistration{UniqueID: globalID, LocalID: id, Layer: layer})
	return nil
}

// RegisterColorSchemes merges scheme data into the color registry. The asset
// name is only used in log messages.
func (a *API) RegisterColorSchemes(data map[string]map[string]string, assetName string) {
	a.colors.LoadSchemes(data, assetName)
}

// Registrations returns the registered layers in registration order
func (a *API) Registrations() []LayerRegistration {
	return append([]LayerRegistration(nil), a.registrations...)
}

func (a *API) seal() {
	a.sealed = true
}
