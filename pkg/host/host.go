// Package host is the in-process mod host: it loads mods, gives each one a
// helper with its own logger, config and event hooks, and drives the
// lifecycle events (launch, save loaded, update ticks) on a single thread.
package host

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"farmkit/pkg/engine/monitor"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

var (
	ErrDuplicateMod = errors.New("duplicate mod ID")
	ErrInvalidMod   = errors.New("invalid mod manifest")
)

// Manifest identifies a mod.
type Manifest struct {
	UniqueID string
	Name     string
	Version  string
}

// Mod is a plugin loaded by the host.
type Mod interface {
	Manifest() Manifest
	Entry(h *Helper)
}

// APIProvider is implemented by mods that expose an API to other mods.
type APIProvider interface {
	API() any
}

// TileActionHandler handles an Action tile property. Returns true if the action was handled.
type TileActionHandler func(loc *farm.Location, args []string, player *farm.Player, tile world.Tile) bool

// Helper is a mod's handle to the host.
type Helper struct {
	ModID    string
	Monitor  *monitor.Monitor
	Events   *Events
	Registry *ModRegistry

	host *Host
}

// ReadConfig decodes the mod's YAML config into v. If there's no config file,
// v keeps its defaults.
func (h *Helper) ReadConfig(v any) error {
	path := h.configPath()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// WriteConfig saves v as the mod's YAML config.
func (h *Helper) WriteConfig(v any) error {
	path := h.configPath()
	if path == "" {
		return nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

func (h *Helper) configPath() string {
	if h.host.configDir == "" {
		return ""
	}
	return filepath.Join(h.host.configDir, h.ModID+".yaml")
}

// RegisterTileAction registers a handler for an Action tile property name.
func (h *Helper) RegisterTileAction(name string, fn TileActionHandler) {
	key := strings.ToLower(name)
	if _, dup := h.host.actions[key]; dup {
		h.Monitor.Warn("tile action already registered, ignoring", "action", name)
		return
	}
	h.host.actions[key] = fn
}

// World returns the loaded world, or nil before a save is loaded.
func (h *Helper) World() *farm.World {
	return h.host.world
}

// Warp moves the player to a location and raises Warped.
func (h *Helper) Warp(locationName string, tile world.Tile, facing world.Direction) error {
	return h.host.Warp(locationName, tile, facing)
}

// IsWorldReady returns true once a save is loaded
func (h *Helper) IsWorldReady() bool {
	return h.host.world != nil
}

// ModRegistry gives mods access to each other.
type ModRegistry struct {
	mods  map[string]Mod
	order []string
}

// IsLoaded returns true if a mod with the ID is loaded
func (r *ModRegistry) IsLoaded(id string) bool {
	_, ok := r.mods[strings.ToLower(id)]
	return ok
}

// GetAPI returns the API of a loaded mod, or nil.
func (r *ModRegistry) GetAPI(id string) any {
	mod, ok := r.mods[strings.ToLower(id)]
	if !ok {
		return nil
	}
	if p, ok := mod.(APIProvider); ok {
		return p.API()
	}
	return nil
}

// IDs returns the loaded mod IDs in load order
func (r *ModRegistry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Host loads mods and drives their lifecycle.
type Host struct {
	logger    *slog.Logger
	monitor   *monitor.Monitor
	configDir string
	bus       *bus
	registry  *ModRegistry
	actions   map[string]TileActionHandler
	world     *farm.World
	ticks     uint64
}

// New creates a host. Mod configs are read from configDir ("" disables config files).
func New(logger *slog.Logger, configDir string) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		logger:    logger,
		monitor:   monitor.New(logger, "host"),
		configDir: configDir,
		bus:       newBus(),
		registry:  &ModRegistry{mods: make(map[string]Mod)},
		actions:   make(map[string]TileActionHandler),
	}
}

// Registry returns the mod registry
func (h *Host) Registry() *ModRegistry {
	return h.registry
}

// Load loads mods in order and calls their Entry. Mods with a missing or
// duplicate ID are skipped; the returned error joins every skipped mod.
func (h *Host) Load(mods ...Mod) error {
	var errs []error
	for _, mod := range mods {
		manifest := mod.Manifest()
		if manifest.UniqueID == "" {
			err := fmt.Errorf("mod %q has no unique ID: %w", manifest.Name, ErrInvalidMod)
			h.monitor.Error("skipped mod", "error", err)
			errs = append(errs, err)
			continue
		}
		key := strings.ToLower(manifest.UniqueID)
		if _, dup := h.registry.mods[key]; dup {
			err := fmt.Errorf("mod %s: %w", manifest.UniqueID, ErrDuplicateMod)
			h.monitor.Error("skipped mod", "error", err)
			errs = append(errs, err)
			continue
		}
		h.registry.mods[key] = mod
		h.registry.order = append(h.registry.order, manifest.UniqueID)

		mon := monitor.New(h.logger, manifest.UniqueID)
		helper := &Helper{
			ModID:    manifest.UniqueID,
			Monitor:  mon,
			Events:   h.bus.forMod(mon),
			Registry: h.registry,
			host:     h,
		}
		if !mon.InterceptErrors("loading the mod", func() { mod.Entry(helper) }) {
			errs = append(errs, fmt.Errorf("mod %s failed to load", manifest.UniqueID))
			continue
		}
		h.monitor.Info("loaded mod", "id", manifest.UniqueID, "version", manifest.Version)
	}
	return errors.Join(errs...)
}

// Launch raises GameLaunched.
func (h *Host) Launch() {
	h.bus.gameLaunched.raise(GameLaunchedArgs{})
}

// LoadSave makes w the active world and raises SaveLoaded.
func (h *Host) LoadSave(w *farm.World) {
	h.world = w
	w.OnObjectsChanged = func(e farm.ObjectsChanged) {
		h.bus.objectListChanged.raise(ObjectListChangedArgs{Location: e.Location, Added: e.Added, Removed: e.Removed})
	}
	h.bus.saveLoaded.raise(SaveLoadedArgs{World: w})
}

// Run launches the game, loads the world and runs the given number of ticks.
func (h *Host) Run(w *farm.World, ticks int) {
	h.Launch()
	h.LoadSave(w)
	for i := 0; i < ticks; i++ {
		h.Tick()
	}
}

// ReturnToTitle unloads the world and raises ReturnedToTitle.
func (h *Host) ReturnToTitle() {
	if h.world != nil {
		h.world.OnObjectsChanged = nil
	}
	h.world = nil
	h.bus.returnedToTitle.raise(ReturnedToTitleArgs{})
}

// Tick advances one game tick and raises UpdateTicked.
func (h *Host) Tick() {
	h.ticks++
	h.bus.updateTicked.raise(UpdateTickedArgs{Ticks: h.ticks})
}

// Ticks returns the number of ticks run so far
func (h *Host) Ticks() uint64 {
	return h.ticks
}

// World returns the loaded world, or nil
func (h *Host) World() *farm.World {
	return h.world
}

// Warp moves the player and raises Warped.
func (h *Host) Warp(locationName string, tile world.Tile, facing world.Direction) error {
	if h.world == nil {
		return errors.New("no save loaded")
	}
	next, err := h.world.MustLocation(locationName)
	if err != nil {
		return err
	}
	player := &h.world.Player
	old := h.world.CurrentLocation()
	player.Location = next.Name
	player.Tile = tile
	player.Facing = facing
	h.bus.warped.raise(WarpedArgs{Player: player, OldLocation: old, NewLocation: next, Tile: tile})
	return nil
}

// ActivateTile invokes the Action property on a tile in the player's location.
// Returns true if a registered handler handled it.
func (h *Host) ActivateTile(tile world.Tile) bool {
	if h.world == nil {
		return false
	}
	loc := h.world.CurrentLocation()
	if loc == nil {
		return false
	}
	action, ok := loc.ActionAt(tile)
	if !ok {
		return false
	}
	args := action.Args()
	if len(args) == 0 {
		return false
	}
	fn, ok := h.actions[strings.ToLower(args[0])]
	if !ok {
		return false
	}
	handled := false
	h.monitor.InterceptErrors("handling tile action "+args[0], func() {
		handled = fn(loc, args, &h.world.Player, tile)
	})
	return handled
}
