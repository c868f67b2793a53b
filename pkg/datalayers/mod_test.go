package datalayers

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
	"farmkit/pkg/host"
)

// registeringMod adds a layer in a normal-priority GameLaunched handler.
type registeringMod struct {
	layer DataLayer
	late  bool
}

func (m *registeringMod) Manifest() host.Manifest {
	return host.Manifest{UniqueID: "Test.Layers", Name: "Test layers", Version: "1.0.0"}
}

func (m *registeringMod) Entry(h *host.Helper) {
	register := func(host.GameLaunchedArgs) {
		h.Registry.GetAPI(ModID).(*API).RegisterLayer(m.Manifest(), "fake", m.layer)
	}
	if m.late {
		h.Events.GameLaunched.AddWithPriority(host.PriorityLow-1, register)
		return
	}
	h.Events.GameLaunched.Add(register)
}

func newTestWorld(t *testing.T) *farm.World {
	t.Helper()
	w := farm.NewWorld()
	require.NoError(t, w.AddLocation(farm.NewLocation("Farm", 4, 3)))
	w.Player.Location = "Farm"
	return w
}

func TestMod_OverlayShowsRegisteredLayer(t *testing.T) {
	var buf bytes.Buffer
	h := host.New(slog.New(slog.NewTextHandler(&buf, nil)), "")
	layer := &fakeLayer{update: func(b LayerBuilder, tiles []world.Tile) {
		b.AddTileGroup("a", func(g TileGroupBuilder) { g.AddTiles(tiles, nil) })
	}}
	mod := NewMod()
	require.NoError(t, h.Load(mod, &registeringMod{layer: layer}))
	h.Launch()
	h.LoadSave(newTestWorld(t))

	require.Len(t, mod.Layers(), 1)
	assert.Equal(t, "Test.Layers:fake", mod.Layers()[0].ID())

	mod.ToggleLayers()
	require.NotNil(t, mod.Overlay())
	h.Tick()
	assert.Len(t, mod.Overlay().Tiles(), 12)

	area := world.R(0, 0, 2, 1)
	mod.SetView(&area)
	h.Tick()
	assert.Len(t, mod.Overlay().Tiles(), 2)

	mod.ToggleLayers()
	assert.Nil(t, mod.Overlay())

	h.ReturnToTitle()
	assert.Empty(t, mod.Layers())
}

func TestMod_LateRegistrationIsRejected(t *testing.T) {
	var buf bytes.Buffer
	h := host.New(slog.New(slog.NewTextHandler(&buf, nil)), "")
	mod := NewMod()
	require.NoError(t, h.Load(mod, &registeringMod{layer: &fakeLayer{}, late: true}))
	h.Launch()

	assert.Empty(t, mod.Layers())
	assert.Contains(t, buf.String(), ErrRegistrationClosed.Error())
}

func TestMod_UnknownColorSchemeFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ModID+".yaml"), []byte("color_scheme: Neon\n"), 0o644))
	var buf bytes.Buffer
	h := host.New(slog.New(slog.NewTextHandler(&buf, nil)), dir)
	mod := NewMod()
	require.NoError(t, h.Load(mod))

	assert.Contains(t, buf.String(), "Color scheme 'Neon' not found")
	assert.Equal(t, DefaultSchemeID, mod.scheme.ID)

	saved, err := os.ReadFile(filepath.Join(dir, ModID+".yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(saved), "color_scheme: Default")
}
