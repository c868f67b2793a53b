package farm

import (
	"errors"
	"fmt"
	"strings"

	"farmkit/pkg/engine/world"
)

var (
	ErrUnknownLocation = errors.New("unknown location")
	ErrTileOccupied    = errors.New("tile already occupied")
	ErrNoObject        = errors.New("no object at tile")
)

// TileAction is an Action tile property, like "CentralStation Boat".
type TileAction struct {
	Tile   world.Tile `yaml:"tile"`
	Action string     `yaml:"action"`
}

// Args splits the action into its space-separated arguments.
func (a TileAction) Args() []string {
	return strings.Fields(a.Action)
}

// Location is one map in the world (the farm, the bus stop, a greenhouse...).
type Location struct {
	Name        string       `yaml:"name"`
	Width       int          `yaml:"width"`
	Height      int          `yaml:"height"`
	DefaultWarp *world.Tile  `yaml:"default_warp"`
	Actions     []TileAction `yaml:"actions"`
	Objects     []*Object    `yaml:"objects"`

	byTile map[world.Tile]*Object
	world  *World
}

// NewLocation creates an empty location
func NewLocation(name string, width, height int) *Location {
	return &Location{
		Name:   name,
		Width:  width,
		Height: height,
		byTile: make(map[world.Tile]*Object),
	}
}

func (l *Location) rebuild() error {
	l.byTile = make(map[world.Tile]*Object)
	for _, o := range l.Objects {
		o.normalize(l.Name)
		for _, t := range o.TileArea().Tiles() {
			if other, found := l.byTile[t]; found {
				return fmt.Errorf("location %s: %s overlaps %s at %s: %w", l.Name, o.ID, other.ID, t, ErrTileOccupied)
			}
			l.byTile[t] = o
		}
	}
	return nil
}

// World returns the world containing the location, or nil if it isn't attached
func (l *Location) World() *World {
	return l.world
}

// Bounds returns the full tile area of the location
func (l *Location) Bounds() world.Rect {
	return world.Rect{Width: l.Width, Height: l.Height}
}

// ObjectAt returns the object covering the tile, if any
func (l *Location) ObjectAt(t world.Tile) *Object {
	if l.byTile == nil {
		return nil
	}
	return l.byTile[t]
}

// Place adds an object to the location and notifies the world's listener.
func (l *Location) Place(o *Object) error {
	o.normalize(l.Name)
	if l.byTile == nil {
		l.byTile = make(map[world.Tile]*Object)
	}
	for _, t := range o.TileArea().Tiles() {
		if other, found := l.byTile[t]; found {
			return fmt.Errorf("place %s at %s: occupied by %s: %w", o.Kind, t, other.ID, ErrTileOccupied)
		}
	}
	for _, t := range o.TileArea().Tiles() {
		l.byTile[t] = o
	}
	l.Objects = append(l.Objects, o)
	l.notify([]*Object{o}, nil)
	return nil
}

// Remove removes the object covering the tile and notifies the world's listener.
func (l *Location) Remove(t world.Tile) (*Object, error) {
	o := l.ObjectAt(t)
	if o == nil {
		return nil, fmt.Errorf("remove at %s in %s: %w", t, l.Name, ErrNoObject)
	}
	for _, covered := range o.TileArea().Tiles() {
		delete(l.byTile, covered)
	}
	for i, candidate := range l.Objects {
		if candidate == o {
			l.Objects = append(l.Objects[:i], l.Objects[i+1:]...)
			break
		}
	}
	l.notify(nil, []*Object{o})
	return o, nil
}

func (l *Location) notify(added, removed []*Object) {
	if l.world != nil && l.world.OnObjectsChanged != nil {
		l.world.OnObjectsChanged(ObjectsChanged{Location: l, Added: added, Removed: removed})
	}
}

// ActionAt returns the tile action property at the tile, if any
func (l *Location) ActionAt(t world.Tile) (TileAction, bool) {
	for _, a := range l.Actions {
		if a.Tile == t {
			return a, true
		}
	}
	return TileAction{}, false
}

// FindAction returns the first tile whose action's arguments match the
// given prefix case-insensitively, like ("CentralStation", "Boat").
func (l *Location) FindAction(prefix ...string) (world.Tile, bool) {
	for _, a := range l.Actions {
		args := a.Args()
		if len(args) < len(prefix) {
			continue
		}
		match := true
		for i, p := range prefix {
			if !strings.EqualFold(args[i], p) {
				match = false
				break
			}
		}
		if match {
			return a.Tile, true
		}
	}
	return world.Tile{}, false
}
