package automate

import (
	"log/slog"

	"farmkit/pkg/engine/monitor"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

// API lets other mods interact with automation.
type API struct {
	manager *Manager
	monitor *monitor.Monitor
}

// NewAPI creates the API over a manager
func NewAPI(manager *Manager, mon *monitor.Monitor) *API {
	if mon == nil {
		mon = monitor.Discard()
	}
	return &API{manager: manager, monitor: mon}
}

// AddFactory adds an automation factory. Factories added after the save has
// loaded are logged and ignored.
func (a *API) AddFactory(f Factory) {
	if err := a.manager.AddFactory(f); err != nil {
		a.monitor.Log(slog.LevelError, "Couldn't add automation factory.", "error", err)
	}
}

// GetAutomationGroups returns the groups in a location with at least one
// member inside tileArea (nil for the whole location). Members may lie
// outside the area.
func (a *API) GetAutomationGroups(loc *farm.Location, tileArea *world.Rect, includeDisabled bool) []*Group {
	if loc == nil {
		return nil
	}
	return a.manager.Groups(loc, tileArea, includeDisabled)
}

// GetMachineStates returns the state of every tile covered by a machine in a
// group intersecting tileArea, as MachineState values. Machines in disabled
// groups report Disabled.
func (a *API) GetMachineStates(loc *farm.Location, tileArea world.Rect) map[world.Tile]int {
	states := make(map[world.Tile]int)
	if loc == nil {
		return states
	}
	for _, g := range a.manager.Groups(loc, &tileArea, true) {
		disabled := g.Disabled()
		for _, m := range g.Machines {
			state := Empty
			if disabled {
				state = Disabled
			} else if me, ok := m.(MachineEntity); ok {
				state = me.State()
			}
			for _, t := range m.TileArea().Tiles() {
				states[t] = int(state)
			}
		}
	}
	return states
}
