package datalayers

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

type countingLayer struct {
	id         string
	rate       int
	onMove     bool
	updates    int
	groups     []TileGroup
	panicValue any
}

func (l *countingLayer) ID() string                         { return l.id }
func (l *countingLayer) Name() string                       { return l.id }
func (l *countingLayer) UpdateTickRate() int                { return l.rate }
func (l *countingLayer) UpdateWhenVisibleTilesChange() bool { return l.onMove }
func (l *countingLayer) Legend() []LegendEntry              { return nil }

func (l *countingLayer) Update(*farm.Location, world.Rect, []world.Tile, world.Tile) []TileGroup {
	l.updates++
	if l.panicValue != nil {
		panic(l.panicValue)
	}
	return l.groups
}

func testView() View {
	loc := farm.NewLocation("Farm", 10, 10)
	return View{Location: loc, Area: world.R(0, 0, 5, 5)}
}

func TestOverlay_CyclesLayers(t *testing.T) {
	a, b, c := &countingLayer{id: "a"}, &countingLayer{id: "b"}, &countingLayer{id: "c"}
	o := NewOverlay([]Layer{a, b, c}, OverlayOptions{}, nil)

	assert.Same(t, a, o.CurrentLayer())
	o.NextLayer()
	assert.Same(t, b, o.CurrentLayer())
	o.PrevLayer()
	o.PrevLayer()
	assert.Same(t, c, o.CurrentLayer())
	o.NextLayer()
	assert.Same(t, a, o.CurrentLayer())

	assert.True(t, o.TrySetLayer("B"))
	assert.Same(t, b, o.CurrentLayer())
	assert.False(t, o.TrySetLayer("missing"))
	assert.False(t, o.TrySetLayer(""))
	assert.Same(t, b, o.CurrentLayer())

	o.SetLayer(c)
	assert.Same(t, c, o.CurrentLayer())
}

func TestOverlay_NoLayers(t *testing.T) {
	o := NewOverlay(nil, OverlayOptions{}, nil)
	o.NextLayer()
	o.PrevLayer()
	assert.Nil(t, o.CurrentLayer())
	assert.False(t, o.Update(1, testView()))
}

func TestOverlay_UpdateRespectsTickRate(t *testing.T) {
	layer := &countingLayer{id: "a", rate: 10}
	o := NewOverlay([]Layer{layer}, OverlayOptions{}, nil)
	view := testView()

	assert.True(t, o.Update(1, view))
	assert.False(t, o.Update(5, view))
	assert.True(t, o.Update(11, view))
	assert.Equal(t, 2, layer.updates)
}

func TestOverlay_UpdateWhenViewMoves(t *testing.T) {
	still := &countingLayer{id: "still", rate: 100}
	moving := &countingLayer{id: "moving", rate: 100, onMove: true}
	view := testView()
	moved := view
	moved.Area = world.R(1, 0, 5, 5)

	for _, layer := range []*countingLayer{still, moving} {
		o := NewOverlay([]Layer{layer}, OverlayOptions{}, nil)
		o.Update(1, view)
		o.Update(2, moved)
	}
	assert.Equal(t, 1, still.updates)
	assert.Equal(t, 2, moving.updates)
}

func TestOverlay_LayerChangeForcesUpdate(t *testing.T) {
	a := &countingLayer{id: "a", rate: 100}
	b := &countingLayer{id: "b", rate: 100}
	o := NewOverlay([]Layer{a, b}, OverlayOptions{}, nil)
	view := testView()

	o.Update(1, view)
	o.NextLayer()
	assert.True(t, o.Update(2, view))
	assert.Equal(t, 1, b.updates)
}

func TestOverlay_PanickingLayerLoggedOnce(t *testing.T) {
	mon, buf := newTestMonitor()
	layer := &countingLayer{id: "broken", rate: 1, panicValue: errors.New("boom")}
	o := NewOverlay([]Layer{layer}, OverlayOptions{}, mon)

	for tick := uint64(1); tick <= 3; tick++ {
		assert.True(t, o.Update(tick, testView()))
	}
	assert.Empty(t, o.TileGroups())
	assert.Equal(t, 3, layer.updates)
	assert.Equal(t, 1, strings.Count(buf.String(), "Something went wrong updating layer broken."))
}

func groupOf(c *Color, tiles ...world.Tile) TileGroup {
	g := TileGroup{OuterBorder: c}
	for _, t := range tiles {
		g.Tiles = append(g.Tiles, TileData{Tile: t, Type: LegendEntry{ID: "x", Color: RGB(1, 2, 3)}})
	}
	return g
}

func TestOverlay_Borders(t *testing.T) {
	red := RGB(255, 0, 0)
	layer := &countingLayer{id: "a", rate: 1, groups: []TileGroup{
		groupOf(&red, world.T(0, 0)),
		groupOf(&red, world.T(1, 0)),
		groupOf(nil, world.T(5, 5)),
	}}

	separate := NewOverlay([]Layer{layer}, OverlayOptions{}, nil)
	separate.Update(1, testView())
	assert.Len(t, separate.Borders(), 8)

	combined := NewOverlay([]Layer{layer}, OverlayOptions{CombineOverlappingBorders: true}, nil)
	combined.Update(1, testView())
	borders := combined.Borders()
	require.Len(t, borders, 6)
	for _, b := range borders {
		assert.False(t, b.Tile == world.T(0, 0) && b.Side == world.Right, "shared edge drawn")
	}

	assert.Equal(t, map[world.Tile]Color{
		world.T(0, 0): RGB(1, 2, 3),
		world.T(1, 0): RGB(1, 2, 3),
		world.T(5, 5): RGB(1, 2, 3),
	}, combined.Tiles())
}
