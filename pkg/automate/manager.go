package automate

import (
	"errors"
	"fmt"
	"log/slog"

	"farmkit/pkg/engine/monitor"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

// ErrRegistrationClosed is returned for factories added after the save loaded.
var ErrRegistrationClosed = errors.New("factory registration is closed")

// Manager owns the per-location grid indexes and the group cache, and keeps
// them in sync with object placement notifications.
type Manager struct {
	monitor   *monitor.Monitor
	factories []Factory
	sealed    bool
	indexes   map[string]*Index
	cache     *Cache

	// tileBacked maps each location's action tiles that have an indexed
	// automatable to the origin of its footprint.
	tileBacked map[string]map[world.Tile]world.Tile
}

// NewManager creates a manager with no factories
func NewManager(mon *monitor.Monitor) *Manager {
	if mon == nil {
		mon = monitor.Discard()
	}
	return &Manager{
		monitor:    mon,
		indexes:    make(map[string]*Index),
		cache:      NewCache(),
		tileBacked: make(map[string]map[world.Tile]world.Tile),
	}
}

// AddFactory registers a factory. Factories are consulted in registration
// order and the first to return an automatable wins.
func (m *Manager) AddFactory(f Factory) error {
	if f == nil {
		return errors.New("nil factory")
	}
	if m.sealed {
		return ErrRegistrationClosed
	}
	m.factories = append(m.factories, f)
	return nil
}

// Seal closes factory registration.
func (m *Manager) Seal() {
	m.sealed = true
}

// Cache returns the group cache
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Reset drops every index and cached group, e.g. when the save is unloaded.
func (m *Manager) Reset() {
	m.indexes = make(map[string]*Index)
	m.cache = NewCache()
	m.tileBacked = make(map[string]map[world.Tile]world.Tile)
}

// Index returns the location's index, scanning it on first use.
func (m *Manager) Index(loc *farm.Location) *Index {
	if ix, found := m.indexes[loc.Name]; found {
		return ix
	}
	return m.ScanLocation(loc)
}

// ScanLocation rebuilds the location's index from its objects and action tiles.
func (m *Manager) ScanLocation(loc *farm.Location) *Index {
	ix, found := m.indexes[loc.Name]
	if !found {
		ix = NewIndex(loc.Name)
		m.cache.Track(ix)
		m.indexes[loc.Name] = ix
	}
	ix.Clear()
	m.cache.Invalidate(loc.Name)
	backed := make(map[world.Tile]world.Tile)
	m.tileBacked[loc.Name] = backed

	for _, obj := range loc.Objects {
		m.add(ix, m.getFor(obj, loc))
	}
	m.addActionTiles(ix, backed, loc)
	m.monitor.Debug("scanned location", "location", loc.Name, "automatables", ix.Len())
	return ix
}

// OnObjectsChanged applies placement notifications to an already-scanned
// location. The index ends up as a fresh scan would build it: objects placed
// over an action tile's automatable replace it, and action tiles freed by a
// removal get theirs back.
func (m *Manager) OnObjectsChanged(loc *farm.Location, added, removed []*farm.Object) {
	ix, found := m.indexes[loc.Name]
	if !found {
		return
	}
	backed := m.tileBacked[loc.Name]
	for _, obj := range removed {
		if isTileBacked(ix, backed, obj.Tile) {
			continue
		}
		ix.RemoveAt(obj.Tile)
	}
	for _, obj := range added {
		dropTileBacked(ix, backed, obj.TileArea())
		m.add(ix, m.getFor(obj, loc))
	}
	if len(removed) > 0 {
		m.addActionTiles(ix, backed, loc)
	}
}

// addActionTiles indexes the automatables of free action tiles that don't
// have one yet.
func (m *Manager) addActionTiles(ix *Index, backed map[world.Tile]world.Tile, loc *farm.Location) {
	for _, action := range loc.Actions {
		if _, served := backed[action.Tile]; served || loc.ObjectAt(action.Tile) != nil {
			continue
		}
		a := m.getForTile(loc, action.Tile)
		if m.add(ix, a) {
			area := a.TileArea()
			backed[action.Tile] = world.Tile{X: area.X, Y: area.Y}
		}
	}
}

// isTileBacked returns true if the automatable covering t belongs to an action tile.
func isTileBacked(ix *Index, backed map[world.Tile]world.Tile, t world.Tile) bool {
	a, found := ix.At(t)
	if !found {
		return false
	}
	area := a.TileArea()
	origin := world.Tile{X: area.X, Y: area.Y}
	for _, o := range backed {
		if o == origin {
			return true
		}
	}
	return false
}

// dropTileBacked removes action tile automatables that overlap area or whose
// action tile lies inside it.
func dropTileBacked(ix *Index, backed map[world.Tile]world.Tile, area world.Rect) {
	for action, origin := range backed {
		a, found := ix.At(origin)
		if !found {
			delete(backed, action)
			continue
		}
		if area.Contains(action) || a.TileArea().Intersects(area) {
			ix.RemoveAt(origin)
			delete(backed, action)
		}
	}
}

func (m *Manager) add(ix *Index, a Automatable) bool {
	if a == nil {
		return false
	}
	if err := ix.Add(a); err != nil {
		m.monitor.Warn("ignored automatable", "location", ix.Location(), "error", err)
		return false
	}
	return true
}

// getFor asks each factory in turn. A factory that panics is logged once and
// treated as not handling the object.
func (m *Manager) getFor(obj *farm.Object, loc *farm.Location) Automatable {
	for i, f := range m.factories {
		var a Automatable
		err := monitor.Recover(func() error {
			a = f.GetFor(obj, loc)
			return nil
		})
		if err != nil {
			m.monitor.LogOnce(slog.LevelError, fmt.Sprintf("automation factory #%d failed", i), "error", err)
			continue
		}
		if a != nil {
			return a
		}
	}
	return nil
}

func (m *Manager) getForTile(loc *farm.Location, tile world.Tile) Automatable {
	for i, f := range m.factories {
		tf, ok := f.(TileFactory)
		if !ok {
			continue
		}
		var a Automatable
		err := monitor.Recover(func() error {
			a = tf.GetForTile(loc, tile)
			return nil
		})
		if err != nil {
			m.monitor.LogOnce(slog.LevelError, fmt.Sprintf("automation factory #%d failed", i), "error", err)
			continue
		}
		if a != nil {
			return a
		}
	}
	return nil
}

// Groups returns the location's groups intersecting area (nil for all).
func (m *Manager) Groups(loc *farm.Location, area *world.Rect, includeDisabled bool) []*Group {
	return m.cache.GroupsIn(m.Index(loc), area, includeDisabled)
}

// Automate runs one automation pass over the location's enabled groups:
// finished machines push output into the first container with room, then
// empty machines pull an input they accept. Returns the number of machines
// that did something.
func (m *Manager) Automate(loc *farm.Location) int {
	acted := 0
	for _, g := range m.Groups(loc, nil, false) {
		containers := g.usableContainers()
		for _, a := range g.Machines {
			machine, ok := a.(MachineEntity)
			if !ok {
				continue
			}
			moved := machine.PushOutput(func(item farm.Item) bool {
				for _, c := range containers {
					if c.Store(item) {
						return true
					}
				}
				return false
			})
			started := machine.TryStart(containers)
			if moved || started {
				acted++
			}
		}
	}
	return acted
}
