package datalayers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

type fakeAutomate struct {
	states map[world.Tile]int
	panics bool
}

func (f *fakeAutomate) GetMachineStates(*farm.Location, world.Rect) map[world.Tile]int {
	if f.panics {
		panic("automate exploded")
	}
	return f.states
}

func TestMachineLayer_GroupsByState(t *testing.T) {
	automate := &fakeAutomate{states: map[world.Tile]int{
		world.T(1, 0): stateEmpty,
		world.T(0, 0): stateEmpty,
		world.T(2, 2): stateDone,
		world.T(3, 3): stateDisabled,
		world.T(9, 9): stateProcessing,
	}}
	layer := NewMachineLayer(nil, nil, automate, nil)
	loc := farm.NewLocation("Farm", 10, 10)

	groups := layer.Update(loc, world.R(0, 0, 5, 5), nil, world.Tile{})
	require.Len(t, groups, 3)

	assert.Equal(t, "disabled", groups[0].Tiles[0].Type.ID)
	assert.Equal(t, "empty", groups[1].Tiles[0].Type.ID)
	assert.Equal(t, []world.Tile{world.T(0, 0), world.T(1, 0)}, []world.Tile{groups[1].Tiles[0].Tile, groups[1].Tiles[1].Tile})
	assert.Equal(t, "finished", groups[2].Tiles[0].Type.ID)
	assert.Len(t, layer.Legend(), 4)
}

func TestMachineLayer_SchemeColors(t *testing.T) {
	scheme := NewColorScheme("Default", map[string]Color{"Machines_Empty": RGB(1, 2, 3)}, nil)
	layer := NewMachineLayer(nil, scheme, &fakeAutomate{}, nil)
	assert.Equal(t, RGB(1, 2, 3), layer.Legend()[1].Color)
}

func TestMachineLayer_IntegrationFailureShowsNothing(t *testing.T) {
	mon, buf := newTestMonitor()
	layer := NewMachineLayer(nil, nil, &fakeAutomate{panics: true}, mon)
	loc := farm.NewLocation("Farm", 10, 10)

	assert.Nil(t, layer.Update(loc, loc.Bounds(), nil, world.Tile{}))
	assert.Nil(t, layer.Update(loc, loc.Bounds(), nil, world.Tile{}))
	assert.Equal(t, 1, strings.Count(buf.String(), "Failed to get machine states from Automate."))

	unknown := NewMachineLayer(nil, nil, &fakeAutomate{states: map[world.Tile]int{world.T(0, 0): 42}}, mon)
	assert.Empty(t, unknown.Update(loc, loc.Bounds(), nil, world.Tile{}))
	assert.Contains(t, buf.String(), "unknown machine state 42")
}
