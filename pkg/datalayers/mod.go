package datalayers

import (
	"bytes"
	_ "embed"
	"log/slog"

	"farmkit/pkg/engine/world"
	"farmkit/pkg/host"
)

// ModID is the unique ID of the Data Layers mod.
const ModID = "farmkit.DataLayers"

//go:embed assets/colors.yaml
var defaultColorSchemes []byte

// Mod shows overlays that colour tiles by what's on them.
type Mod struct {
	helper   *host.Helper
	config   Config
	colors   *ColorRegistry
	scheme   *ColorScheme
	api      *API
	automate AutomateIntegration
	launched bool

	layers      []Layer
	overlay     *Overlay
	lastLayerID string
	viewArea    *world.Rect
}

// NewMod creates the mod
func NewMod() *Mod {
	return &Mod{config: DefaultConfig()}
}

func (m *Mod) Manifest() host.Manifest {
	return host.Manifest{UniqueID: ModID, Name: "Data Layers", Version: "1.16.0"}
}

// API returns the API for registering layers
func (m *Mod) API() any {
	return m.api
}

func (m *Mod) Entry(h *host.Helper) {
	m.helper = h
	if err := h.ReadConfig(&m.config); err != nil {
		h.Monitor.Warn("couldn't read config, using defaults", "error", err)
		m.config = DefaultConfig()
	}
	m.config.normalize()

	m.colors = NewColorRegistry(h.Monitor)
	if err := m.colors.LoadYAML(bytes.NewReader(defaultColorSchemes), AssetName); err != nil {
		h.Monitor.Error("couldn't load the built-in color schemes", "error", err)
	}
	m.api = NewAPI(m.colors, h.Monitor)
	m.scheme = m.loadColorScheme()

	if !m.config.Layers.AnyLayersEnabled() {
		h.Monitor.Log(slog.LevelWarn, "You have all layers disabled in the mod settings, so the mod won't do anything currently.")
	}

	h.Events.GameLaunched.Add(m.onGameLaunched)
	// other mods register their layers in normal-priority handlers
	h.Events.GameLaunched.AddWithPriority(host.PriorityLow, m.onGameLaunchedLate)
	h.Events.SaveLoaded.Add(func(host.SaveLoadedArgs) { m.reapplyConfig() })
	h.Events.ReturnedToTitle.Add(m.onReturnedToTitle)
	h.Events.UpdateTicked.Add(m.onUpdateTicked)
}

func (m *Mod) onGameLaunched(host.GameLaunchedArgs) {
	if !m.helper.Registry.IsLoaded(AutomateModID) {
		return
	}
	integration, ok := m.helper.Registry.GetAPI(AutomateModID).(AutomateIntegration)
	if !ok {
		m.helper.Monitor.Warn("Automate is installed but its API isn't compatible; the machine layer is disabled.")
		return
	}
	m.automate = integration
}

func (m *Mod) onGameLaunchedLate(host.GameLaunchedArgs) {
	m.api.seal()
	m.launched = true
	m.reapplyConfig()
}

func (m *Mod) onReturnedToTitle(host.ReturnedToTitleArgs) {
	m.overlay = nil
	m.layers = nil
}

func (m *Mod) onUpdateTicked(e host.UpdateTickedArgs) {
	if m.overlay == nil || !m.helper.IsWorldReady() {
		return
	}
	m.overlay.Update(e.Ticks, m.currentView())
	if layer := m.overlay.CurrentLayer(); layer != nil {
		m.lastLayerID = layer.ID()
	}
}

func (m *Mod) currentView() View {
	w := m.helper.World()
	loc := w.CurrentLocation()
	view := View{Location: loc, Cursor: w.Player.Tile}
	switch {
	case m.viewArea != nil:
		view.Area = *m.viewArea
	case loc != nil:
		view.Area = loc.Bounds()
	}
	return view
}

// SetView sets the visible tile area; nil shows the whole location.
func (m *Mod) SetView(area *world.Rect) {
	m.viewArea = area
}

// Layers returns the layers available in the overlay
func (m *Mod) Layers() []Layer {
	return m.layers
}

// Overlay returns the open overlay, or nil
func (m *Mod) Overlay() *Overlay {
	return m.overlay
}

// ToggleLayers opens the overlay on the last used layer, or closes it.
func (m *Mod) ToggleLayers() {
	if m.overlay != nil {
		m.overlay = nil
		return
	}
	if len(m.layers) == 0 {
		return
	}
	m.overlay = NewOverlay(m.layers, OverlayOptions{
		CombineOverlappingBorders: m.config.CombineOverlappingBorders,
		ShowGrid:                  m.config.ShowGrid,
	}, m.helper.Monitor)
	m.overlay.TrySetLayer(m.lastLayerID)
}

// reapplyConfig reloads the color scheme and rebuilds the layers.
func (m *Mod) reapplyConfig() {
	m.scheme = m.loadColorScheme()
	if !m.launched {
		return
	}
	m.layers = m.buildLayers()
}

func (m *Mod) buildLayers() []Layer {
	var layers []Layer
	if m.config.Layers.Machines.IsEnabled() && m.automate != nil {
		layers = append(layers, NewMachineLayer(&m.config.Layers.Machines, m.scheme, m.automate, m.helper.Monitor))
	}
	for _, reg := range m.api.Registrations() {
		cfg := m.config.GetModLayerConfig(reg.UniqueID)
		if !cfg.IsEnabled() {
			continue
		}
		layers = append(layers, NewModLayer(reg, cfg, m.scheme, m.helper.Monitor))
	}
	return layers
}

// loadColorScheme returns the configured scheme, falling back to the default.
func (m *Mod) loadColorScheme() *ColorScheme {
	if scheme, found := m.colors.TryGetScheme(m.config.ColorScheme); found {
		return scheme
	}

	if !IsDefaultColorScheme(m.config.ColorScheme) {
		if scheme, found := m.colors.TryGetScheme(DefaultSchemeID); found {
			m.helper.Monitor.Log(slog.LevelWarn, "Color scheme '"+m.config.ColorScheme+"' not found in '"+AssetName+"', reset to default.")
			m.config.ColorScheme = DefaultSchemeID
			if err := m.helper.WriteConfig(&m.config); err != nil {
				m.helper.Monitor.Warn("couldn't save config", "error", err)
			}
			return scheme
		}
	}

	m.helper.Monitor.Log(slog.LevelWarn, "Color scheme '"+m.config.ColorScheme+"' not found in '"+AssetName+"'. The mod may be installed incorrectly.")
	return NewColorScheme(DefaultSchemeID, nil, m.helper.Monitor)
}
