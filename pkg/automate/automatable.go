package automate

import (
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

// Automatable is anything automation can link: a chest, a machine, a path tile.
// The index references it; the host world owns the underlying object.
type Automatable interface {
	// Location is the name of the location containing the automatable.
	Location() string
	// TileArea is the footprint covered by the automatable.
	TileArea() world.Rect
	// Role is the role performed, or Unspecified.
	Role() Role
}

// Instanced is implemented by automatables that wrap an addressable world object.
type Instanced interface {
	Instance() any
}

// MachineEntity is the capability set of a machine.
type MachineEntity interface {
	Automatable
	State() MachineState
	// PushOutput offers the finished output to into, and clears it if into
	// accepted it. Returns true if the output moved.
	PushOutput(into func(farm.Item) bool) bool
	// TryStart pulls an input the machine accepts from the containers and
	// starts processing. Returns false if nothing suitable was found.
	TryStart(containers []ContainerEntity) bool
}

// ContainerEntity is the capability set of a container.
type ContainerEntity interface {
	Automatable
	Items() []farm.Item
	Store(item farm.Item) bool
	Take(name string) bool
	// AutomationDisabled is true when the player flagged the container off.
	AutomationDisabled() bool
}

// CustomInfo describes an ad-hoc automatable that doesn't correspond to an
// addressable world object. It can be the Instance of such automatables.
type CustomInfo struct {
	ID   string
	Kind string
}

// EffectiveRole resolves the role used for grouping: an explicit role wins,
// otherwise the capability interfaces decide, otherwise it's a connector.
func EffectiveRole(a Automatable) Role {
	if r := a.Role(); r != Unspecified {
		return r
	}
	switch a.(type) {
	case MachineEntity:
		return Machine
	case ContainerEntity:
		return Container
	default:
		return Connector
	}
}
