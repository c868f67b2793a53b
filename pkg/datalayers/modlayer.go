package datalayers

import (
	"farmkit/pkg/engine/monitor"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

// ModLayer adapts a layer registered through the API to Layer.
type ModLayer struct {
	source  LayerRegistration
	config  *LayerConfig
	colors  *ColorScheme
	monitor *monitor.Monitor

	legend  map[string]LegendEntry
	ordered []LegendEntry
}

// NewModLayer wraps a registration
func NewModLayer(source LayerRegistration, config *LayerConfig, colors *ColorScheme, mon *monitor.Monitor) *ModLayer {
	if config == nil {
		def := DefaultLayerConfig()
		config = &def
	}
	if mon == nil {
		mon = monitor.Discard()
	}
	return &ModLayer{source: source, config: config, colors: colors, monitor: mon}
}

// ID returns the registration's unique ID
func (l *ModLayer) ID() string { return l.source.UniqueID }

func (l *ModLayer) Name() string { return l.source.Layer.Name() }

func (l *ModLayer) UpdateTickRate() int { return l.config.TickRate() }

func (l *ModLayer) UpdateWhenVisibleTilesChange() bool { return l.config.UpdateWhenViewChange }

// Legend returns the legend, configuring the layer on first use.
func (l *ModLayer) Legend() []LegendEntry {
	if l.legend == nil {
		b := &legendBuilder{layerID: l.source.LocalID, colors: l.colors}
		l.source.Layer.Configure(b)
		l.legend = make(map[string]LegendEntry, len(b.entries))
		for _, e := range b.entries {
			if _, dup := l.legend[e.ID]; !dup {
				l.ordered = append(l.ordered, e)
			}
			l.legend[e.ID] = e
		}
	}
	return append([]LegendEntry(nil), l.ordered...)
}

// Update returns the layer's tile groups. Nothing is drawn until the legend exists.
func (l *ModLayer) Update(loc *farm.Location, visibleArea world.Rect, visibleTiles []world.Tile, cursorTile world.Tile) []TileGroup {
	if l.legend == nil {
		return nil
	}
	b := newLayerBuilder(l.ID(), l.Name(), l.legend, l.monitor)
	l.source.Layer.Update(b, loc, visibleArea, visibleTiles, cursorTile)
	return b.groups
}
