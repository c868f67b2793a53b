package automate

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmkit/pkg/engine/monitor"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
	"farmkit/pkg/host"
)

func newFarm(t *testing.T, objects ...*farm.Object) (*farm.World, *farm.Location) {
	t.Helper()
	w := farm.NewWorld()
	loc := farm.NewLocation("Farm", 20, 20)
	require.NoError(t, w.AddLocation(loc))
	for _, o := range objects {
		require.NoError(t, loc.Place(o))
	}
	return w, loc
}

func chestWith(x, y int, items ...farm.Item) *farm.Object {
	o := farm.NewObject("chest", world.T(x, y))
	o.Items = items
	return o
}

func newTestManager(t *testing.T) (*Manager, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := NewManager(monitor.New(logger, ModID))
	require.NoError(t, m.AddFactory(newBuiltinFactory(DefaultConfig().ConnectorKinds)))
	return m, &buf
}

func TestManager_AutomationLoadsAndEmptiesMachines(t *testing.T) {
	chest := chestWith(0, 0, farm.Item{Name: "hops", Stack: 2})
	keg := farm.NewObject("keg", world.T(2, 0))
	w, loc := newFarm(t, chest, farm.NewObject("path", world.T(1, 0)), keg)
	m, _ := newTestManager(t)

	assert.Equal(t, 1, m.Automate(loc))
	assert.Equal(t, "hops", keg.Input)
	assert.Equal(t, 1, chest.Count("hops"))

	w.Advance(2250)
	require.True(t, keg.Ready)

	assert.Equal(t, 1, m.Automate(loc))
	assert.Equal(t, 1, chest.Count("pale ale"))
	assert.Equal(t, 0, chest.Count("hops"))
	assert.True(t, keg.Processing())
}

func TestManager_OutputStaysWhenContainersAreFull(t *testing.T) {
	chest := chestWith(0, 0, farm.Item{Name: "stone", Stack: 1})
	chest.Capacity = 1
	keg := farm.NewObject("keg", world.T(1, 0))
	keg.StartProcessing(farm.Recipe{Input: "wheat", Output: "beer"})
	_, loc := newFarm(t, chest, keg)
	m, _ := newTestManager(t)

	assert.Equal(t, 0, m.Automate(loc))
	assert.True(t, keg.Ready)
	assert.Equal(t, "beer", keg.Output)
}

func TestManager_FlaggedChestIsSkipped(t *testing.T) {
	chest := chestWith(0, 0, farm.Item{Name: "hops", Stack: 1})
	chest.Flags = []string{farm.FlagAutomateDisabled}
	keg := farm.NewObject("keg", world.T(1, 0))
	_, loc := newFarm(t, chest, keg)
	m, _ := newTestManager(t)

	assert.Equal(t, 0, m.Automate(loc))
	assert.False(t, keg.Processing())
	assert.Len(t, m.Groups(loc, nil, true), 1)
	assert.Empty(t, m.Groups(loc, nil, false))
}

func TestManager_ShippingBinTile(t *testing.T) {
	keg := farm.NewObject("keg", world.T(4, 4))
	keg.StartProcessing(farm.Recipe{Input: "wheat", Output: "beer"})
	w := farm.NewWorld()
	loc := farm.NewLocation("Farm", 20, 20)
	loc.Actions = []farm.TileAction{{Tile: world.T(3, 3), Action: "ShippingBin"}}
	require.NoError(t, w.AddLocation(loc))
	require.NoError(t, loc.Place(keg))
	m, _ := newTestManager(t)

	assert.Equal(t, 1, m.Automate(loc))

	a, found := m.Index(loc).At(world.T(4, 3))
	require.True(t, found)
	bin, ok := a.(*ShippingBin)
	require.True(t, ok)
	assert.Equal(t, []farm.Item{{Name: "beer", Stack: 1}}, bin.Shipped)
	assert.Equal(t, CustomInfo{ID: "Farm/shipping_bin@3,3", Kind: "ShippingBin"}, bin.Instance())
	assert.False(t, keg.Processing())
}

func TestBuiltinFactory_ConnectorKindsIgnoreCase(t *testing.T) {
	cfg := Config{ConnectorKinds: []string{" Path ", "path"}}
	cfg.normalize()
	require.Equal(t, []string{"path"}, cfg.ConnectorKinds)

	_, loc := newFarm(t)
	f := newBuiltinFactory(cfg.ConnectorKinds)
	for _, kind := range []string{"path", "Path", "PATH"} {
		a := f.GetFor(&farm.Object{Kind: kind, Width: 1, Height: 1}, loc)
		_, ok := a.(*ObjectConnector)
		assert.True(t, ok, "kind %q", kind)
	}
	assert.Nil(t, f.GetFor(farm.NewObject("stone", world.T(0, 0)), loc))
}

func TestManager_ShippingBinTileFollowsPlacement(t *testing.T) {
	w := farm.NewWorld()
	loc := farm.NewLocation("Farm", 20, 20)
	loc.Actions = []farm.TileAction{{Tile: world.T(3, 3), Action: "ShippingBin"}}
	require.NoError(t, w.AddLocation(loc))
	m, buf := newTestManager(t)
	isBin := func(tile world.Tile) bool {
		a, found := m.Index(loc).At(tile)
		_, ok := a.(*ShippingBin)
		return found && ok
	}
	require.True(t, isBin(world.T(3, 3)))

	stone := farm.NewObject("stone", world.T(3, 3))
	require.NoError(t, loc.Place(stone))
	m.OnObjectsChanged(loc, []*farm.Object{stone}, nil)
	assert.False(t, isBin(world.T(3, 3)))
	assert.False(t, isBin(world.T(4, 3)))

	_, err := loc.Remove(world.T(3, 3))
	require.NoError(t, err)
	m.OnObjectsChanged(loc, nil, []*farm.Object{stone})
	assert.True(t, isBin(world.T(3, 3)))

	chest := chestWith(4, 3)
	require.NoError(t, loc.Place(chest))
	m.OnObjectsChanged(loc, []*farm.Object{chest}, nil)
	a, found := m.Index(loc).At(world.T(4, 3))
	require.True(t, found)
	assert.IsType(t, &ChestContainer{}, a)

	_, err = loc.Remove(world.T(4, 3))
	require.NoError(t, err)
	m.OnObjectsChanged(loc, nil, []*farm.Object{chest})
	assert.True(t, isBin(world.T(4, 3)))

	// unrelated removals leave the bin alone
	other := chestWith(9, 9)
	require.NoError(t, loc.Place(other))
	m.OnObjectsChanged(loc, []*farm.Object{other}, nil)
	_, err = loc.Remove(world.T(9, 9))
	require.NoError(t, err)
	m.OnObjectsChanged(loc, nil, []*farm.Object{other})
	assert.True(t, isBin(world.T(3, 3)))
	assert.NotContains(t, buf.String(), "ignored automatable")
}

func TestManager_FactoryOrderFirstWins(t *testing.T) {
	_, loc := newFarm(t, chestWith(0, 0), farm.NewObject("keg", world.T(1, 0)))
	m := NewManager(nil)
	require.NoError(t, m.AddFactory(FactoryFunc(func(obj *farm.Object, loc *farm.Location) Automatable {
		if obj.Kind == "chest" {
			return &ObjectConnector{objectEntity{obj: obj, location: loc}}
		}
		return nil
	})))
	require.NoError(t, m.AddFactory(newBuiltinFactory(nil)))

	// the chest is a connector now, leaving the keg alone in its group
	groups := m.Groups(loc, nil, true)
	require.Len(t, groups, 1)
	assert.Empty(t, groups[0].Containers)
	assert.Len(t, groups[0].Machines, 1)
}

func TestManager_FactoryPanicIsLoggedOnce(t *testing.T) {
	_, loc := newFarm(t, chestWith(0, 0), farm.NewObject("keg", world.T(1, 0)))
	var buf bytes.Buffer
	m := NewManager(monitor.New(slog.New(slog.NewTextHandler(&buf, nil)), ModID))
	require.NoError(t, m.AddFactory(FactoryFunc(func(*farm.Object, *farm.Location) Automatable {
		panic("boom")
	})))
	require.NoError(t, m.AddFactory(newBuiltinFactory(nil)))

	m.ScanLocation(loc)
	m.ScanLocation(loc)

	assert.Equal(t, 1, strings.Count(buf.String(), "automation factory #0 failed"))
	assert.Len(t, m.Groups(loc, nil, false), 1)
}

func TestManager_AddFactoryAfterSeal(t *testing.T) {
	m := NewManager(nil)
	m.Seal()
	assert.ErrorIs(t, m.AddFactory(newBuiltinFactory(nil)), ErrRegistrationClosed)
	assert.Error(t, NewManager(nil).AddFactory(nil))
}

func TestManager_ObjectChangesUpdateGroups(t *testing.T) {
	_, loc := newFarm(t, chestWith(0, 0))
	m, _ := newTestManager(t)
	require.Empty(t, m.Groups(loc, nil, false))

	keg := farm.NewObject("keg", world.T(0, 1))
	require.NoError(t, loc.Place(keg))
	m.OnObjectsChanged(loc, []*farm.Object{keg}, nil)
	assert.Len(t, m.Groups(loc, nil, false), 1)

	_, err := loc.Remove(world.T(0, 1))
	require.NoError(t, err)
	m.OnObjectsChanged(loc, nil, []*farm.Object{keg})
	assert.Empty(t, m.Groups(loc, nil, false))
}

func TestAPI_GetMachineStates(t *testing.T) {
	wide := farm.NewObject("keg", world.T(1, 0))
	wide.Width = 2
	lonely := farm.NewObject("furnace", world.T(10, 10))
	flagged := chestWith(12, 12)
	flagged.Flags = []string{farm.FlagAutomateDisabled}
	off := farm.NewObject("keg", world.T(13, 12))
	busy := farm.NewObject("preserves_jar", world.T(0, 1))
	busy.StartProcessing(farm.Recipe{Input: "tomato", Output: "pickled tomato", Minutes: 10})
	_, loc := newFarm(t, chestWith(0, 0), wide, busy, lonely, flagged, off)
	m, _ := newTestManager(t)
	api := NewAPI(m, nil)

	states := api.GetMachineStates(loc, loc.Bounds())
	assert.Equal(t, map[world.Tile]int{
		world.T(1, 0):   int(Empty),
		world.T(2, 0):   int(Empty),
		world.T(0, 1):   int(Processing),
		world.T(10, 10): int(Empty),
		world.T(13, 12): int(Disabled),
	}, states)

	// the group reaches past the queried area
	near := api.GetMachineStates(loc, world.R(0, 0, 1, 1))
	assert.Len(t, near, 3)
	assert.Empty(t, api.GetMachineStates(nil, loc.Bounds()))
}

func TestAPI_GetAutomationGroups(t *testing.T) {
	_, loc := newFarm(t, chestWith(0, 0), farm.NewObject("keg", world.T(1, 0)), chestWith(9, 9))
	m, _ := newTestManager(t)
	api := NewAPI(m, nil)

	assert.Len(t, api.GetAutomationGroups(loc, nil, true), 2)
	assert.Len(t, api.GetAutomationGroups(loc, nil, false), 1)
	area := world.R(8, 8, 2, 2)
	assert.Len(t, api.GetAutomationGroups(loc, &area, true), 1)
	assert.Empty(t, api.GetAutomationGroups(loc, &area, false))
}

func TestMod_RunsOnTicksAndTracksPlacement(t *testing.T) {
	var buf bytes.Buffer
	h := host.New(slog.New(slog.NewTextHandler(&buf, nil)), "")
	require.NoError(t, h.Load(NewMod()))
	h.Launch()

	chest := chestWith(0, 0, farm.Item{Name: "copper ore", Stack: 1})
	w, loc := newFarm(t, chest)
	h.LoadSave(w)

	api, ok := h.Registry().GetAPI(ModID).(*API)
	require.True(t, ok)
	assert.Empty(t, api.GetAutomationGroups(loc, nil, false))

	api.AddFactory(newBuiltinFactory(nil))
	assert.Contains(t, buf.String(), ErrRegistrationClosed.Error())

	furnace := farm.NewObject("furnace", world.T(1, 0))
	require.NoError(t, loc.Place(furnace))
	assert.Len(t, api.GetAutomationGroups(loc, nil, false), 1)

	for i := 0; i < 59; i++ {
		h.Tick()
	}
	assert.False(t, furnace.Processing())
	h.Tick()
	assert.True(t, furnace.Processing())
	assert.Equal(t, 0, chest.Count("copper ore"))

	h.ReturnToTitle()
	assert.False(t, api.manager.Cache().Cached("Farm"))
}
