package datalayers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
	"farmkit/pkg/host"
)

type fakeLayer struct {
	configured int
	update     func(b LayerBuilder, visibleTiles []world.Tile)
}

func (l *fakeLayer) Name() string { return "Fake" }

func (l *fakeLayer) Configure(legend LegendBuilder) {
	l.configured++
	legend.Add("a", "A", "acolor", RGB(1, 1, 1)).Add("b", "B", "bcolor", RGB(2, 2, 2))
}

func (l *fakeLayer) Update(b LayerBuilder, _ *farm.Location, _ world.Rect, visibleTiles []world.Tile, _ world.Tile) {
	if l.update != nil {
		l.update(b, visibleTiles)
	}
}

func TestModLayer_NoGroupsBeforeLegend(t *testing.T) {
	layer := &fakeLayer{update: func(b LayerBuilder, _ []world.Tile) {
		b.AddTileGroup("a", func(g TileGroupBuilder) { g.AddTile(world.T(0, 0), "") })
	}}
	ml := NewModLayer(LayerRegistration{UniqueID: "mod:fake", LocalID: "fake", Layer: layer}, nil, nil, nil)
	loc := farm.NewLocation("Farm", 4, 4)

	assert.Nil(t, ml.Update(loc, loc.Bounds(), nil, world.Tile{}))
	assert.Len(t, ml.Legend(), 2)
	ml.Legend()
	assert.Equal(t, 1, layer.configured)
	assert.Len(t, ml.Update(loc, loc.Bounds(), nil, world.Tile{}), 1)
}

func TestModLayer_LegendUsesSchemeColors(t *testing.T) {
	scheme := NewColorScheme("Default", map[string]Color{"fake_acolor": RGB(9, 9, 9)}, nil)
	ml := NewModLayer(LayerRegistration{UniqueID: "mod:fake", LocalID: "fake", Layer: &fakeLayer{}}, nil, scheme, nil)

	legend := ml.Legend()
	require.Len(t, legend, 2)
	assert.Equal(t, LegendEntry{ID: "a", Name: "A", Color: RGB(9, 9, 9)}, legend[0])
	assert.Equal(t, RGB(2, 2, 2), legend[1].Color)
	assert.Equal(t, "mod:fake", ml.ID())
}

func TestModLayer_UnknownTypesLoggedOnceAndSkipped(t *testing.T) {
	mon, buf := newTestMonitor()
	border := RGB(5, 5, 5)
	layer := &fakeLayer{update: func(b LayerBuilder, tiles []world.Tile) {
		b.AddTileGroup("", func(g TileGroupBuilder) {
			g.AddTiles(tiles, func(t world.Tile) string {
				switch t.X {
				case 0:
					return "a"
				case 1:
					return "nope"
				default:
					return ""
				}
			})
			g.SetOuterBorderColor(&border)
		})
	}}
	ml := NewModLayer(LayerRegistration{UniqueID: "mod:fake", LocalID: "fake", Layer: layer}, nil, nil, mon)
	ml.Legend()
	loc := farm.NewLocation("Farm", 3, 2)
	tiles := loc.Bounds().Tiles()

	groups := ml.Update(loc, loc.Bounds(), tiles, world.Tile{})
	ml.Update(loc, loc.Bounds(), tiles, world.Tile{})

	require.Len(t, groups, 1)
	assert.Equal(t, []TileData{
		{Tile: world.T(0, 0), Type: LegendEntry{ID: "a", Name: "A", Color: RGB(1, 1, 1)}},
		{Tile: world.T(0, 1), Type: LegendEntry{ID: "a", Name: "A", Color: RGB(1, 1, 1)}},
	}, groups[0].Tiles)
	assert.Equal(t, &border, groups[0].OuterBorder)
	assert.Equal(t, 1, strings.Count(buf.String(), "Invalid (unregistered) tile type nope"))
}

func TestAPI_RegisterLayer(t *testing.T) {
	mon, buf := newTestMonitor()
	api := NewAPI(NewColorRegistry(mon), mon)
	mod := host.Manifest{UniqueID: "Example.Mod"}

	api.RegisterLayer(mod, "one", &fakeLayer{})
	api.RegisterLayer(mod, "two", &fakeLayer{})
	api.RegisterLayer(mod, "one", &fakeLayer{})
	api.RegisterLayer(host.Manifest{UniqueID: "Other.Mod"}, "one", &fakeLayer{})
	api.seal()
	api.RegisterLayer(mod, "late", &fakeLayer{})

	var ids []string
	for _, r := range api.Registrations() {
		ids = append(ids, r.UniqueID)
	}
	assert.Equal(t, []string{"Example.Mod:one", "Example.Mod:two", "Other.Mod:one"}, ids)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), ErrDuplicateLayer.Error())
	assert.Contains(t, buf.String(), ErrRegistrationClosed.Error())
}

func TestConfig_GetModLayerConfig(t *testing.T) {
	cfg := Config{}
	cfg.normalize()
	assert.Equal(t, DefaultSchemeID, cfg.ColorScheme)

	layer := cfg.GetModLayerConfig("mod:one")
	layer.UpdatesPerSecond = 2
	assert.Same(t, layer, cfg.GetModLayerConfig("mod:one"))
	assert.Equal(t, 30, layer.TickRate())

	layer.UpdatesPerSecond = 0
	assert.Equal(t, 1, layer.TickRate())
	layer.UpdatesPerSecond = 120
	assert.Equal(t, 1, layer.TickRate())
}
