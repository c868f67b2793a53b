package checkerboard

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmkit/pkg/datalayers"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
	"farmkit/pkg/host"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		tile world.Tile
		want string
	}{
		{world.T(0, 0), OddType},
		{world.T(1, 0), EvenType},
		{world.T(0, 1), EvenType},
		{world.T(1, 1), OddType},
		{world.T(-1, 0), EvenType},
	}
	for _, tt := range tests {
		if got := TypeOf(tt.tile); got != tt.want {
			t.Errorf("TypeOf(%v) = %v, want %v", tt.tile, got, tt.want)
		}
	}
}

func TestMod_RegistersWithDataLayers(t *testing.T) {
	var buf bytes.Buffer
	h := host.New(slog.New(slog.NewTextHandler(&buf, nil)), "")
	dl := datalayers.NewMod()
	require.NoError(t, h.Load(dl, &Mod{}))
	h.Launch()

	w := farm.NewWorld()
	require.NoError(t, w.AddLocation(farm.NewLocation("Farm", 3, 3)))
	w.Player.Location = "Farm"
	h.LoadSave(w)

	require.Len(t, dl.Layers(), 1)
	layer := dl.Layers()[0]
	assert.Equal(t, ModID+":"+LayerID, layer.ID())

	dl.ToggleLayers()
	h.Tick()
	tiles := dl.Overlay().Tiles()
	require.Len(t, tiles, 9)

	legend := layer.Legend()
	require.Len(t, legend, 2)
	assert.Equal(t, legend[1].Color, tiles[world.T(0, 0)])
	assert.Equal(t, legend[0].Color, tiles[world.T(1, 0)])
}

func TestMod_WithoutDataLayers(t *testing.T) {
	var buf bytes.Buffer
	h := host.New(slog.New(slog.NewTextHandler(&buf, nil)), "")
	require.NoError(t, h.Load(&Mod{}))
	h.Launch()
	assert.Contains(t, buf.String(), "Data Layers isn't installed")
}
