// Package farm is the in-memory world model the mod frameworks read from:
// locations, placed objects, their inventories and the player.
package farm

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"farmkit/pkg/engine/world"
)

// ObjectsChanged describes objects placed in or removed from a location.
type ObjectsChanged struct {
	Location *Location
	Added    []*Object
	Removed  []*Object
}

// Player is the farmer
type Player struct {
	Location string          `yaml:"location"`
	Tile     world.Tile      `yaml:"tile"`
	Facing   world.Direction `yaml:"facing"`
	Money    int             `yaml:"money"`
}

// World holds all locations of a loaded save
type World struct {
	Player    Player              `yaml:"player"`
	Locations []*Location         `yaml:"locations"`
	Recipes   map[string][]Recipe `yaml:"recipes"`

	// OnObjectsChanged is called after Place/Remove; the host wires it to its event bus.
	OnObjectsChanged func(ObjectsChanged) `yaml:"-"`

	byName map[string]*Location
}

// NewWorld creates an empty world with the default recipes
func NewWorld() *World {
	w := &World{byName: make(map[string]*Location)}
	w.normalize()
	return w
}

// LoadWorld reads a world from YAML.
func LoadWorld(r io.Reader) (*World, error) {
	w := &World{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(w); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode world: %w", err)
	}
	w.normalize()
	w.byName = make(map[string]*Location, len(w.Locations))
	for _, loc := range w.Locations {
		if _, dup := w.byName[strings.ToLower(loc.Name)]; dup {
			return nil, fmt.Errorf("duplicate location %q", loc.Name)
		}
		if err := loc.rebuild(); err != nil {
			return nil, err
		}
		loc.world = w
		w.byName[strings.ToLower(loc.Name)] = loc
	}
	return w, nil
}

func (w *World) normalize() {
	if w.Recipes == nil {
		w.Recipes = make(map[string][]Recipe)
	}
	for kind, recipes := range DefaultRecipes {
		if _, found := w.Recipes[kind]; !found {
			w.Recipes[kind] = recipes
		}
	}
}

// AddLocation adds a location to the world.
func (w *World) AddLocation(loc *Location) error {
	key := strings.ToLower(loc.Name)
	if _, dup := w.byName[key]; dup {
		return fmt.Errorf("duplicate location %q", loc.Name)
	}
	if err := loc.rebuild(); err != nil {
		return err
	}
	loc.world = w
	w.Locations = append(w.Locations, loc)
	w.byName[key] = loc
	return nil
}

// Location returns a location by name (case-insensitive), or nil
func (w *World) Location(name string) *Location {
	return w.byName[strings.ToLower(name)]
}

// MustLocation returns the named location or ErrUnknownLocation.
func (w *World) MustLocation(name string) (*Location, error) {
	loc := w.Location(name)
	if loc == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownLocation)
	}
	return loc, nil
}

// CurrentLocation returns the player's location
func (w *World) CurrentLocation() *Location {
	return w.Location(w.Player.Location)
}

// RecipeFor returns the recipe a machine kind uses for an input
func (w *World) RecipeFor(kind, input string) (Recipe, bool) {
	for _, r := range w.Recipes[kind] {
		if r.Input == input {
			return r, true
		}
	}
	return Recipe{}, false
}

// IsMachineKind returns true if the kind has recipes
func (w *World) IsMachineKind(kind string) bool {
	return len(w.Recipes[kind]) > 0
}

// Advance progresses every machine in every location by the given number of minutes.
func (w *World) Advance(minutes int) {
	for _, loc := range w.Locations {
		for _, o := range loc.Objects {
			o.Advance(minutes)
		}
	}
}
