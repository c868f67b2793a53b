package datalayers

import (
	"log/slog"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"farmkit/pkg/engine/monitor"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

// View is what the player currently sees.
type View struct {
	Location *farm.Location
	Area     world.Rect
	Cursor   world.Tile
}

// Border is one outer edge of a tile group.
type Border struct {
	Tile  world.Tile
	Side  world.Direction
	Color Color
}

// OverlayOptions are the display settings of an overlay.
type OverlayOptions struct {
	CombineOverlappingBorders bool
	ShowGrid                  bool
}

// Overlay shows one layer at a time and refreshes it as ticks pass.
type Overlay struct {
	layers  []Layer
	current int
	options OverlayOptions
	monitor *monitor.Monitor

	groups      []TileGroup
	lastArea    world.Rect
	lastUpdate  uint64
	needsUpdate bool
}

// NewOverlay creates an overlay showing the first layer
func NewOverlay(layers []Layer, options OverlayOptions, mon *monitor.Monitor) *Overlay {
	if mon == nil {
		mon = monitor.Discard()
	}
	return &Overlay{layers: layers, options: options, monitor: mon, needsUpdate: true}
}

// Options returns the overlay's display settings
func (o *Overlay) Options() OverlayOptions {
	return o.options
}

// Layers returns the layers the overlay cycles through
func (o *Overlay) Layers() []Layer {
	return o.layers
}

// CurrentLayer returns the shown layer, or nil if there are no layers
func (o *Overlay) CurrentLayer() Layer {
	if len(o.layers) == 0 {
		return nil
	}
	return o.layers[o.current]
}

// NextLayer switches to the next layer, wrapping around.
func (o *Overlay) NextLayer() {
	if len(o.layers) == 0 {
		return
	}
	o.setIndex((o.current + 1) % len(o.layers))
}

// PrevLayer switches to the previous layer, wrapping around.
func (o *Overlay) PrevLayer() {
	if len(o.layers) == 0 {
		return
	}
	o.setIndex((o.current - 1 + len(o.layers)) % len(o.layers))
}

// SetLayer switches to the given layer if the overlay has it.
func (o *Overlay) SetLayer(layer Layer) {
	for i, l := range o.layers {
		if l == layer {
			o.setIndex(i)
			return
		}
	}
}

// TrySetLayer switches to the layer with the given ID (case-insensitive).
// Returns false if there's no such layer.
func (o *Overlay) TrySetLayer(id string) bool {
	if id == "" {
		return false
	}
	for i, l := range o.layers {
		if strings.EqualFold(l.ID(), id) {
			o.setIndex(i)
			return true
		}
	}
	return false
}

func (o *Overlay) setIndex(i int) {
	if i == o.current && !o.needsUpdate {
		return
	}
	o.current = i
	o.groups = nil
	o.needsUpdate = true
}

// Update refreshes the current layer if it's due: on the first update after a
// layer change, every UpdateTickRate ticks, or when the view moved and the
// layer asks for it. Returns true if the layer was updated.
func (o *Overlay) Update(tick uint64, view View) bool {
	layer := o.CurrentLayer()
	if layer == nil || view.Location == nil {
		return false
	}

	due := o.needsUpdate
	if !due {
		rate := uint64(layer.UpdateTickRate())
		due = rate <= 1 || tick-o.lastUpdate >= rate
	}
	if !due && layer.UpdateWhenVisibleTilesChange() && view.Area != o.lastArea {
		due = true
	}
	if !due {
		return false
	}

	var groups []TileGroup
	err := monitor.Recover(func() error {
		// the legend must exist before a mod layer returns any groups
		layer.Legend()
		groups = layer.Update(view.Location, view.Area, view.Area.Tiles(), view.Cursor)
		return nil
	})
	if err != nil {
		o.monitor.LogOnce(slog.LevelError, "Something went wrong updating layer "+layer.ID()+".", "error", err)
		groups = nil
	}

	o.groups = groups
	o.lastArea = view.Area
	o.lastUpdate = tick
	o.needsUpdate = false
	return true
}

// TileGroups returns the groups from the last update
func (o *Overlay) TileGroups() []TileGroup {
	return o.groups
}

// Tiles returns the colour of each tile from the last update. Later groups
// draw over earlier ones.
func (o *Overlay) Tiles() map[world.Tile]Color {
	out := make(map[world.Tile]Color)
	for _, g := range o.groups {
		for _, t := range g.Tiles {
			out[t.Tile] = t.Type.Color
		}
	}
	return out
}

// Borders returns the outer edges of every bordered group. With
// CombineOverlappingBorders, groups sharing a border colour are outlined as one.
func (o *Overlay) Borders() []Border {
	var sets []borderSet
	for _, g := range o.groups {
		if g.OuterBorder == nil {
			continue
		}
		if o.options.CombineOverlappingBorders {
			merged := false
			for i := range sets {
				if sets[i].color == *g.OuterBorder {
					sets[i].add(g)
					merged = true
					break
				}
			}
			if merged {
				continue
			}
		}
		s := borderSet{color: *g.OuterBorder, tiles: mapset.New[world.Tile]()}
		s.add(g)
		sets = append(sets, s)
	}

	var out []Border
	for _, s := range sets {
		out = append(out, s.edges()...)
	}
	return out
}

type borderSet struct {
	color Color
	tiles mapset.Set[world.Tile]
	order []world.Tile
}

func (s *borderSet) add(g TileGroup) {
	for _, t := range g.Tiles {
		if s.tiles.Has(t.Tile) {
			continue
		}
		s.tiles.Put(t.Tile)
		s.order = append(s.order, t.Tile)
	}
}

func (s *borderSet) edges() []Border {
	var out []Border
	for _, t := range s.order {
		for _, dir := range world.AllDirections() {
			if !s.tiles.Has(t.Neighbor(dir)) {
				out = append(out, Border{Tile: t, Side: dir, Color: s.color})
			}
		}
	}
	return out
}
