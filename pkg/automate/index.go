package automate

import (
	"errors"
	"fmt"

	"farmkit/pkg/engine/world"
)

var (
	ErrTileOccupied   = errors.New("tile already has an automatable")
	ErrEmptyFootprint = errors.New("automatable covers no tiles")
	ErrWrongLocation  = errors.New("automatable belongs to another location")
)

// entry is the index's handle on one automatable. Discovery tracks entries
// rather than the automatables themselves, which needn't be comparable.
type entry struct {
	value Automatable
	area  world.Rect
	role  Role
}

// Index maps occupied tiles to the automatable covering them, for one location.
// It never polls the world; Add and RemoveAt are driven by the caller.
type Index struct {
	location string
	tiles    map[world.Tile]*entry
	entries  []*entry
	watchers []func(location string, area world.Rect)
}

// NewIndex creates an empty index for the named location
func NewIndex(location string) *Index {
	return &Index{
		location: location,
		tiles:    make(map[world.Tile]*entry),
	}
}

// Location returns the name of the indexed location
func (ix *Index) Location() string {
	return ix.location
}

// Len returns the number of indexed automatables
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Add indexes an automatable. Footprints must not overlap.
func (ix *Index) Add(a Automatable) error {
	area := a.TileArea()
	if area.Empty() {
		return fmt.Errorf("add at %v: %w", area, ErrEmptyFootprint)
	}
	if loc := a.Location(); loc != ix.location {
		return fmt.Errorf("add %s automatable to %s: %w", loc, ix.location, ErrWrongLocation)
	}
	for _, t := range area.Tiles() {
		if _, found := ix.tiles[t]; found {
			return fmt.Errorf("add at %s: %w", t, ErrTileOccupied)
		}
	}
	e := &entry{value: a, area: area, role: EffectiveRole(a)}
	for _, t := range area.Tiles() {
		ix.tiles[t] = e
	}
	ix.entries = append(ix.entries, e)
	ix.changed(area)
	return nil
}

// RemoveAt removes the automatable covering the tile. Returns nil if the tile is empty.
func (ix *Index) RemoveAt(t world.Tile) Automatable {
	e, found := ix.tiles[t]
	if !found {
		return nil
	}
	for _, covered := range e.area.Tiles() {
		delete(ix.tiles, covered)
	}
	for i, candidate := range ix.entries {
		if candidate == e {
			ix.entries = append(ix.entries[:i], ix.entries[i+1:]...)
			break
		}
	}
	ix.changed(e.area)
	return e.value
}

// Clear removes everything from the index
func (ix *Index) Clear() {
	if len(ix.entries) == 0 {
		return
	}
	ix.tiles = make(map[world.Tile]*entry)
	ix.entries = nil
	ix.changed(world.Rect{})
}

// Watch registers fn to be called after every insertion or removal, with
// the footprint that changed (an empty rect after Clear).
func (ix *Index) Watch(fn func(location string, area world.Rect)) {
	ix.watchers = append(ix.watchers, fn)
}

func (ix *Index) changed(area world.Rect) {
	for _, fn := range ix.watchers {
		fn(ix.location, area)
	}
}

// At returns the automatable covering the tile
func (ix *Index) At(t world.Tile) (Automatable, bool) {
	e, found := ix.tiles[t]
	if !found {
		return nil, false
	}
	return e.value, true
}

// Query returns the occupied tiles inside area, keyed by tile. A nil area
// means the whole location. An empty index yields an empty map.
func (ix *Index) Query(area *world.Rect) map[world.Tile]Automatable {
	out := make(map[world.Tile]Automatable)
	for _, e := range ix.seeds(area) {
		for _, t := range e.area.Tiles() {
			if area == nil || area.Contains(t) {
				out[t] = e.value
			}
		}
	}
	return out
}

// Entities returns the automatables whose footprint intersects area, in
// insertion order. A nil area means the whole location.
func (ix *Index) Entities(area *world.Rect) []Automatable {
	seeds := ix.seeds(area)
	out := make([]Automatable, 0, len(seeds))
	for _, e := range seeds {
		out = append(out, e.value)
	}
	return out
}

// seeds returns entries intersecting area in insertion order.
func (ix *Index) seeds(area *world.Rect) []*entry {
	if area == nil {
		return append([]*entry(nil), ix.entries...)
	}
	var out []*entry
	for _, e := range ix.entries {
		if e.area.Intersects(*area) {
			out = append(out, e)
		}
	}
	return out
}

// neighbors returns the distinct entries orthogonally adjacent to e's
// footprint, scanning the footprint in row-major order and each tile's
// neighbours in the fixed direction order.
func (ix *Index) neighbors(e *entry) []*entry {
	var out []*entry
	for _, t := range e.area.Tiles() {
		for _, n := range t.Neighbors() {
			other, found := ix.tiles[n]
			if !found || other == e {
				continue
			}
			dup := false
			for _, seen := range out {
				if seen == other {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, other)
			}
		}
	}
	return out
}
