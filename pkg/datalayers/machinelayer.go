package datalayers

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/leonelquinteros/gotext"

	"farmkit/pkg/engine/monitor"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

// AutomateModID is the unique ID of the mod providing machine states.
const AutomateModID = "farmkit.Automate"

// AutomateIntegration is the part of the Automate API the machine layer reads.
// States use the Automate machine state values.
type AutomateIntegration interface {
	GetMachineStates(loc *farm.Location, tileArea world.Rect) map[world.Tile]int
}

// machine states as reported by Automate
const (
	stateDisabled = iota
	stateEmpty
	stateProcessing
	stateDone
)

// MachineLayer colours machine tiles by their automation state.
type MachineLayer struct {
	config      *LayerConfig
	integration AutomateIntegration
	monitor     *monitor.Monitor
	legend      []LegendEntry
	byState     map[int]LegendEntry
}

// NewMachineLayer creates the layer over the Automate integration.
func NewMachineLayer(config *LayerConfig, colors *ColorScheme, integration AutomateIntegration, mon *monitor.Monitor) *MachineLayer {
	if mon == nil {
		mon = monitor.Discard()
	}
	if config == nil {
		def := DefaultLayerConfig()
		config = &def
	}
	b := &legendBuilder{layerID: "Machines", colors: colors}
	b.Add("disabled", gotext.Get("Not automated"), "Disabled", RGB(128, 128, 128))
	b.Add("empty", gotext.Get("Empty"), "Empty", RGB(255, 0, 0))
	b.Add("processing", gotext.Get("Processing"), "Processing", RGB(255, 165, 0))
	b.Add("finished", gotext.Get("Finished"), "Finished", RGB(0, 128, 0))

	return &MachineLayer{
		config:      config,
		integration: integration,
		monitor:     mon,
		legend:      b.entries,
		byState: map[int]LegendEntry{
			stateDisabled:   b.entries[0],
			stateEmpty:      b.entries[1],
			stateProcessing: b.entries[2],
			stateDone:       b.entries[3],
		},
	}
}

func (l *MachineLayer) ID() string                         { return "machines" }
func (l *MachineLayer) Name() string                       { return gotext.Get("Machine activity") }
func (l *MachineLayer) UpdateTickRate() int                { return l.config.TickRate() }
func (l *MachineLayer) UpdateWhenVisibleTilesChange() bool { return l.config.UpdateWhenViewChange }
func (l *MachineLayer) Legend() []LegendEntry              { return append([]LegendEntry(nil), l.legend...) }

// Update returns one tile group per machine state. If Automate fails the
// error is logged once and the layer shows nothing.
func (l *MachineLayer) Update(loc *farm.Location, visibleArea world.Rect, _ []world.Tile, _ world.Tile) []TileGroup {
	if l.integration == nil || loc == nil {
		return nil
	}

	var states map[world.Tile]int
	err := monitor.Recover(func() error {
		states = l.integration.GetMachineStates(loc, visibleArea)
		return nil
	})
	if err != nil {
		l.monitor.LogOnce(slog.LevelError, "Failed to get machine states from Automate.", "error", err)
		return nil
	}

	byEntry := make(map[string][]world.Tile)
	for tile, state := range states {
		if !visibleArea.Contains(tile) {
			continue
		}
		entry, found := l.byState[state]
		if !found {
			l.monitor.LogOnce(slog.LevelWarn, fmt.Sprintf("Automate returned unknown machine state %d.", state))
			continue
		}
		byEntry[entry.ID] = append(byEntry[entry.ID], tile)
	}

	var groups []TileGroup
	for _, entry := range l.legend {
		tiles := byEntry[entry.ID]
		if len(tiles) == 0 {
			continue
		}
		sortTiles(tiles)
		group := TileGroup{Tiles: make([]TileData, 0, len(tiles))}
		for _, t := range tiles {
			group.Tiles = append(group.Tiles, TileData{Tile: t, Type: entry})
		}
		groups = append(groups, group)
	}
	return groups
}

// sortTiles orders tiles row-major.
func sortTiles(tiles []world.Tile) {
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Y != tiles[j].Y {
			return tiles[i].Y < tiles[j].Y
		}
		return tiles[i].X < tiles[j].X
	})
}
