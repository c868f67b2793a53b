// Package checkerboard is an example mod that adds a Data Layers layer
// colouring visible tiles in a checkerboard pattern.
package checkerboard

import (
	"github.com/leonelquinteros/gotext"

	"farmkit/pkg/datalayers"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
	"farmkit/pkg/host"
)

const (
	ModID   = "farmkit.ExampleDataLayer"
	LayerID = "checkerboard"

	EvenType = "example.layer.even"
	OddType  = "example.layer.odd"
)

// Layer colours every visible tile by the parity of its coordinates.
type Layer struct{}

func (Layer) Name() string { return gotext.Get("Checkerboard") }

func (Layer) Configure(legend datalayers.LegendBuilder) {
	legend.
		Add(EvenType, gotext.Get("Even"), "evencolor", datalayers.RGB(0, 128, 0)).
		Add(OddType, gotext.Get("Odd"), "oddcolor", datalayers.RGB(255, 0, 0))
}

func (Layer) Update(builder datalayers.LayerBuilder, _ *farm.Location, _ world.Rect, visibleTiles []world.Tile, _ world.Tile) {
	builder.AddTileGroup("", func(g datalayers.TileGroupBuilder) {
		g.AddTiles(visibleTiles, TypeOf)
	})
}

// TypeOf returns EvenType when exactly one of x and y is even.
func TypeOf(t world.Tile) string {
	if (t.X%2 == 0) != (t.Y%2 == 0) {
		return EvenType
	}
	return OddType
}

// Mod registers the layer once Data Layers is ready for registrations.
type Mod struct {
	helper *host.Helper
}

func (m *Mod) Manifest() host.Manifest {
	return host.Manifest{UniqueID: ModID, Name: "Example Data Layer", Version: "1.0.0"}
}

func (m *Mod) Entry(h *host.Helper) {
	m.helper = h
	h.Events.GameLaunched.AddWithPriority(host.PriorityNormal-1, m.onGameLaunched)
}

func (m *Mod) onGameLaunched(host.GameLaunchedArgs) {
	api, ok := m.helper.Registry.GetAPI(datalayers.ModID).(*datalayers.API)
	if !ok {
		m.helper.Monitor.Warn("Data Layers isn't installed, so the checkerboard layer won't be added.")
		return
	}
	api.RegisterLayer(m.Manifest(), LayerID, Layer{})
}
