// Package automate finds connected groups of chests and machines in a
// location and moves items between them.
package automate

// Role describes what an Automatable does in a group.
type Role int

// Roles
const (
	// Unspecified means the automatable predates roles; its capabilities decide.
	Unspecified Role = iota
	// Container holds items machines can take from or push into.
	Container
	// Connector passively links other automatables together.
	Connector
	// Machine processes items from containers.
	Machine
)

// String returns the role name
func (r Role) String() string {
	switch r {
	case Unspecified:
		return "Unspecified"
	case Container:
		return "Container"
	case Connector:
		return "Connector"
	case Machine:
		return "Machine"
	default:
		return "Unknown"
	}
}

// MachineState is the state reported by a machine. The numeric values are
// part of the GetMachineStates contract.
type MachineState int

// Machine states
const (
	Disabled MachineState = iota
	Empty
	Processing
	Done
)

// String returns the state name
func (s MachineState) String() string {
	switch s {
	case Disabled:
		return "Disabled"
	case Empty:
		return "Empty"
	case Processing:
		return "Processing"
	case Done:
		return "Done"
	default:
		return "Unknown"
	}
}
