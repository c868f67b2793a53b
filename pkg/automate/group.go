package automate

import (
	"github.com/google/uuid"

	"farmkit/pkg/engine/world"
)

// Group is a set of mutually connected containers and machines.
//
// The ID is session-local: it identifies the same group across queries served
// from the same cached discovery, so callers can dedupe results for several
// tile areas. It must never be persisted.
type Group struct {
	ID         string
	Containers []Automatable
	Machines   []Automatable

	location string
	members  []*entry
}

func newGroup(location string, members []*entry) *Group {
	g := &Group{
		ID:       uuid.New().String(),
		location: location,
		members:  members,
	}
	for _, e := range members {
		switch e.role {
		case Container:
			g.Containers = append(g.Containers, e.value)
		case Machine:
			g.Machines = append(g.Machines, e.value)
		}
	}
	return g
}

// Location returns the name of the location containing the group
func (g *Group) Location() string {
	return g.location
}

// Size returns the number of members, connectors included
func (g *Group) Size() int {
	return len(g.members)
}

// Disabled is true when the group has no machines, or when it has containers
// and every one of them was flagged off. Containers that carry only a role
// never count as flagged off.
func (g *Group) Disabled() bool {
	if len(g.Machines) == 0 {
		return true
	}
	if len(g.Containers) == 0 {
		return false
	}
	for _, c := range g.Containers {
		ce, ok := c.(ContainerEntity)
		if !ok || !ce.AutomationDisabled() {
			return false
		}
	}
	return true
}

// usableContainers returns the containers the automation pass can move items
// through, in group order.
func (g *Group) usableContainers() []ContainerEntity {
	var out []ContainerEntity
	for _, c := range g.Containers {
		ce, ok := c.(ContainerEntity)
		if !ok || ce.AutomationDisabled() {
			continue
		}
		out = append(out, ce)
	}
	return out
}

// Tiles returns every tile covered by the group, connectors included.
func (g *Group) Tiles() []world.Tile {
	var out []world.Tile
	for _, e := range g.members {
		out = append(out, e.area.Tiles()...)
	}
	return out
}

// Intersects returns true if any member's footprint intersects the area.
func (g *Group) Intersects(area world.Rect) bool {
	for _, e := range g.members {
		if e.area.Intersects(area) {
			return true
		}
	}
	return false
}

// Members returns every member in discovery order, connectors included.
func (g *Group) Members() []Automatable {
	out := make([]Automatable, 0, len(g.members))
	for _, e := range g.members {
		out = append(out, e.value)
	}
	return out
}
