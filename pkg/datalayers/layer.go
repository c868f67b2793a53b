package datalayers

import (
	"fmt"
	"log/slog"

	"farmkit/pkg/engine/monitor"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

// Layer is a layer the overlay can show.
type Layer interface {
	ID() string
	Name() string
	// UpdateTickRate is the number of ticks between updates.
	UpdateTickRate() int
	// UpdateWhenVisibleTilesChange forces an update when the view moves.
	UpdateWhenVisibleTilesChange() bool
	Legend() []LegendEntry
	Update(loc *farm.Location, visibleArea world.Rect, visibleTiles []world.Tile, cursorTile world.Tile) []TileGroup
}

// LegendEntry is a tile type shown in a layer's legend.
type LegendEntry struct {
	ID    string
	Name  string
	Color Color
}

// TileData is one coloured tile.
type TileData struct {
	Tile world.Tile
	Type LegendEntry
}

// TileGroup is a set of related tiles with an optional outer border.
type TileGroup struct {
	Tiles       []TileData
	OuterBorder *Color
}

// legendBuilder resolves legend colors against a scheme.
type legendBuilder struct {
	layerID string
	colors  *ColorScheme
	entries []LegendEntry
}

func (b *legendBuilder) Add(id, name, colorID string, def Color) LegendBuilder {
	c := def
	if b.colors != nil {
		c = b.colors.Get(b.layerID, colorID, def)
	}
	b.entries = append(b.entries, LegendEntry{ID: id, Name: name, Color: c})
	return b
}

// layerBuilder collects tile groups, resolving tile types against the legend.
type layerBuilder struct {
	layerID   string
	layerName string
	legend    map[string]LegendEntry
	monitor   *monitor.Monitor
	groups    []TileGroup
}

func newLayerBuilder(layerID, layerName string, legend map[string]LegendEntry, mon *monitor.Monitor) *layerBuilder {
	return &layerBuilder{layerID: layerID, layerName: layerName, legend: legend, monitor: mon}
}

func (b *layerBuilder) AddTileGroup(defaultTypeID string, build func(TileGroupBuilder)) LayerBuilder {
	g := &tileGroupBuilder{layer: b, defaultTypeID: defaultTypeID}
	if build != nil {
		build(g)
	}
	b.groups = append(b.groups, TileGroup{Tiles: g.tiles, OuterBorder: g.border})
	return b
}

type tileGroupBuilder struct {
	layer         *layerBuilder
	defaultTypeID string
	tiles         []TileData
	border        *Color
}

func (g *tileGroupBuilder) AddTile(tile world.Tile, typeID string) TileGroupBuilder {
	if typeID == "" {
		typeID = g.defaultTypeID
	}
	if typeID == "" {
		return g
	}
	entry, found := g.layer.legend[typeID]
	if !found {
		// the tile is deliberately left out of the message so one bad type logs once
		g.layer.monitor.LogOnce(slog.LevelWarn, fmt.Sprintf("Invalid (unregistered) tile type %s provided in layer %s (%s).", typeID, g.layer.layerName, g.layer.layerID))
		return g
	}
	g.tiles = append(g.tiles, TileData{Tile: tile, Type: entry})
	return g
}

func (g *tileGroupBuilder) AddTiles(tiles []world.Tile, typeOf func(world.Tile) string) TileGroupBuilder {
	for _, t := range tiles {
		typeID := ""
		if typeOf != nil {
			typeID = typeOf(t)
		}
		g.AddTile(t, typeID)
	}
	return g
}

func (g *tileGroupBuilder) SetOuterBorderColor(c *Color) TileGroupBuilder {
	g.border = c
	return g
}
