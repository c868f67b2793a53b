package automate

import (
	"log/slog"

	"farmkit/pkg/host"
)

// ModID is the unique ID of the Automate mod.
const ModID = "farmkit.Automate"

// Mod connects machines to chests so they're loaded and emptied automatically.
type Mod struct {
	config  Config
	helper  *host.Helper
	manager *Manager
	api     *API
}

// NewMod creates the mod
func NewMod() *Mod {
	return &Mod{config: DefaultConfig()}
}

// Manifest identifies the mod
func (m *Mod) Manifest() host.Manifest {
	return host.Manifest{UniqueID: ModID, Name: "Automate", Version: "2.4.0"}
}

// API returns the mod's public API
func (m *Mod) API() any {
	return m.api
}

// Entry reads the config and hooks up events.
func (m *Mod) Entry(h *host.Helper) {
	m.helper = h
	if err := h.ReadConfig(&m.config); err != nil {
		h.Monitor.Warn("couldn't read config, using defaults", "error", err)
		m.config = DefaultConfig()
	}
	m.config.normalize()

	m.manager = NewManager(h.Monitor)
	m.api = NewAPI(m.manager, h.Monitor)
	m.api.AddFactory(newBuiltinFactory(m.config.ConnectorKinds))

	h.Events.SaveLoaded.Add(m.onSaveLoaded)
	h.Events.ReturnedToTitle.Add(func(host.ReturnedToTitleArgs) { m.manager.Reset() })
	h.Events.ObjectListChanged.Add(m.onObjectListChanged)
	h.Events.Warped.Add(m.onWarped)
	h.Events.UpdateTicked.Add(m.onUpdateTicked)
}

func (m *Mod) onSaveLoaded(e host.SaveLoadedArgs) {
	m.manager.Seal()
	m.manager.Reset()
	for _, loc := range e.World.Locations {
		m.manager.ScanLocation(loc)
	}
	if !m.config.Enabled {
		m.helper.Monitor.Log(slog.LevelWarn, "Automation is disabled in the config; groups are still discovered but machines won't run.")
	}
}

func (m *Mod) onObjectListChanged(e host.ObjectListChangedArgs) {
	m.manager.OnObjectsChanged(e.Location, e.Added, e.Removed)
}

func (m *Mod) onWarped(e host.WarpedArgs) {
	if e.NewLocation != nil {
		m.manager.Index(e.NewLocation)
	}
}

func (m *Mod) onUpdateTicked(e host.UpdateTickedArgs) {
	if !m.config.Enabled || !m.helper.IsWorldReady() {
		return
	}
	if !e.IsMultipleOf(uint64(m.config.AutomationInterval)) {
		return
	}
	for _, loc := range m.helper.World().Locations {
		if n := m.manager.Automate(loc); n > 0 {
			m.helper.Monitor.Debug("automated machines", "location", loc.Name, "machines", n)
		}
	}
}
