package centralstation

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
	"farmkit/pkg/host"
)

// ModID is the unique ID of the Central Station mod.
const ModID = "farmkit.CentralStation"

var (
	ErrUnknownStop    = errors.New("unknown stop")
	ErrNotEnoughMoney = errors.New("not enough money for the ticket")
	ErrNoMenu         = errors.New("no destination menu is open")
	ErrWorldNotLoaded = errors.New("no save loaded")
)

//go:embed assets/stops.yaml
var builtinStops []byte

// Config is the Central Station mod configuration.
type Config struct {
	// ContentPacks are YAML files with extra stops, loaded after the built-in ones.
	ContentPacks []string `yaml:"content_packs"`
}

// Mod opens the destination menu from station tiles and warps the player.
type Mod struct {
	helper  *host.Helper
	config  Config
	content *ContentStopProvider
	stops   *StopManager
	menu    *Menu
	api     *API
}

// NewMod creates the mod
func NewMod() *Mod {
	return &Mod{}
}

func (m *Mod) Manifest() host.Manifest {
	return host.Manifest{UniqueID: ModID, Name: "Central Station", Version: "1.0.0"}
}

// API returns the API for adding stop providers
func (m *Mod) API() any {
	return m.api
}

func (m *Mod) Entry(h *host.Helper) {
	m.helper = h
	if err := h.ReadConfig(&m.config); err != nil {
		h.Monitor.Warn("couldn't read config, using defaults", "error", err)
	}

	m.content = NewContentStopProvider(h.Monitor)
	if _, err := m.content.Load(bytes.NewReader(builtinStops), "built-in"); err != nil {
		h.Monitor.Error("couldn't load the built-in stops", "error", err)
	}
	for _, path := range m.config.ContentPacks {
		m.loadContentPack(path)
	}

	m.stops = NewStopManager(h.Monitor)
	m.stops.AddProvider("Central Station", m.content)
	m.api = &API{mod: m}

	h.RegisterTileAction("CentralStation", m.onCentralStation)
	h.RegisterTileAction("BoatTicket", func(*farm.Location, []string, *farm.Player, world.Tile) bool {
		m.OpenMenu(Boat)
		return true
	})
	h.RegisterTileAction("TrainStation", func(*farm.Location, []string, *farm.Player, world.Tile) bool {
		m.OpenMenu(Train)
		return true
	})
	h.Events.ReturnedToTitle.Add(func(host.ReturnedToTitleArgs) { m.menu = nil })
}

func (m *Mod) loadContentPack(path string) {
	f, err := os.Open(path)
	if err != nil {
		m.helper.Monitor.Error("couldn't open content pack", "path", path, "error", err)
		return
	}
	defer f.Close()

	n, err := m.content.Load(f, path)
	if err != nil {
		m.helper.Monitor.Error("couldn't load content pack", "path", path, "error", err)
		return
	}
	m.helper.Monitor.Info("loaded content pack", "path", path, "stops", n)
}

func (m *Mod) onCentralStation(loc *farm.Location, args []string, _ *farm.Player, _ world.Tile) bool {
	network := Train
	if len(args) > 1 {
		parsed, ok := ParseStopNetwork(args[1])
		if !ok {
			m.helper.Monitor.LogOnce(slog.LevelWarn, fmt.Sprintf("Location %s has invalid CentralStation property '%s'; the second argument should be one of %s.", loc.Name, args[1], networkNames()))
			return false
		}
		network = parsed
	}
	m.OpenMenu(network)
	return true
}

// GetAvailableStops returns the stops on a network reachable from the player's location.
func (m *Mod) GetAvailableStops(network StopNetwork) []Stop {
	current := ""
	if w := m.helper.World(); w != nil {
		current = w.Player.Location
	}
	return m.stops.GetAvailableStops(network, current)
}

// OpenMenu opens the destination menu for a network. If there are no stops
// the menu stays closed.
func (m *Mod) OpenMenu(network StopNetwork) {
	stops := m.GetAvailableStops(network)
	if len(stops) == 0 {
		m.menu = nil
		m.helper.Monitor.Info("no destinations available; out of service", "network", network)
		return
	}
	m.menu = NewMenu(network, stops)
}

// Menu returns the open destination menu, or nil
func (m *Mod) Menu() *Menu {
	return m.menu
}

// Choose answers the open menu. Choosing Cancel closes it.
func (m *Mod) Choose(id string) error {
	menu := m.menu
	if menu == nil {
		return ErrNoMenu
	}
	if id == CancelID {
		m.menu = nil
		return nil
	}
	stop, ok := menu.Stop(id)
	if !ok {
		return fmt.Errorf("%q: %w", id, ErrUnknownStop)
	}
	if err := m.Travel(stop, menu.Network); err != nil {
		return err
	}
	m.menu = nil
	return nil
}

// Travel charges the ticket and warps the player to the stop.
func (m *Mod) Travel(stop Stop, network StopNetwork) error {
	w := m.helper.World()
	if w == nil {
		return ErrWorldNotLoaded
	}
	dest, err := w.MustLocation(stop.ToLocation)
	if err != nil {
		return fmt.Errorf("travel to %s: %w", stop.ID, err)
	}
	if w.Player.Money < stop.Cost {
		return fmt.Errorf("travel to %s costs %d: %w", stop.ID, stop.Cost, ErrNotEnoughMoney)
	}
	w.Player.Money -= stop.Cost

	tile := ArrivalTile(dest, stop, network)
	if err := m.helper.Warp(dest.Name, tile, stop.Facing()); err != nil {
		w.Player.Money += stop.Cost
		return fmt.Errorf("travel to %s: %w", stop.ID, err)
	}
	m.helper.Monitor.Info("travelled", "stop", stop.ID, "network", network, "location", dest.Name, "tile", tile)
	return nil
}

// ArrivalTile picks where the player lands: the stop's tile, else the tile
// below the destination's station for the network, else the location's
// default warp.
func ArrivalTile(dest *farm.Location, stop Stop, network StopNetwork) world.Tile {
	if stop.ToTile != nil {
		return *stop.ToTile
	}
	if station, ok := StationTile(dest, network); ok {
		return station.Below()
	}
	if dest.DefaultWarp != nil {
		return *dest.DefaultWarp
	}
	return world.Tile{}
}

// StationTile returns the first tile in the location whose action opens the network's menu.
func StationTile(loc *farm.Location, network StopNetwork) (world.Tile, bool) {
	for _, a := range loc.Actions {
		if n, ok := actionNetwork(a.Args()); ok && n == network {
			return a.Tile, true
		}
	}
	return world.Tile{}, false
}

func actionNetwork(args []string) (StopNetwork, bool) {
	if len(args) == 0 {
		return 0, false
	}
	switch strings.ToLower(args[0]) {
	case "centralstation":
		if len(args) > 1 {
			return ParseStopNetwork(args[1])
		}
		return Train, true
	case "trainstation":
		return Train, true
	case "boatticket":
		return Boat, true
	default:
		return 0, false
	}
}

// API lets other mods add destinations.
type API struct {
	mod *Mod
}

// AddStopProvider adds a provider after the built-in ones.
func (a *API) AddStopProvider(name string, p StopProvider) {
	a.mod.stops.AddProvider(name, p)
}

// GetAvailableStops returns the stops on a network reachable from the player's location.
func (a *API) GetAvailableStops(network StopNetwork) []Stop {
	return a.mod.GetAvailableStops(network)
}
