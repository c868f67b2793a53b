package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"

	"farmkit/pkg/automate"
	"farmkit/pkg/centralstation"
	"farmkit/pkg/datalayers"
	"farmkit/pkg/devtools"
	"farmkit/pkg/engine/terminal"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
	"farmkit/pkg/host"
	"farmkit/pkg/mods/checkerboard"
	"farmkit/pkg/render"
)

type options struct {
	worldPath string
	configDir string
	location  string
	layer     string
	area      string
	ticks     int
	minutes   int
	activate  string
	groups    bool
	stops     string
	travel    string
	dump      string
	verbose   bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.worldPath, "world", "examples/world.yaml", "world file to load")
	flag.StringVar(&o.configDir, "config", "", "directory with per-mod config files (empty disables config files)")
	flag.StringVar(&o.location, "location", "", "start the player in this location")
	flag.StringVar(&o.layer, "layer", "", "data layer to show (e.g. farmkit.ExampleDataLayer:checkerboard); empty shows no overlay")
	flag.StringVar(&o.area, "area", "", "visible tile area as x,y,w,h (default: the whole location)")
	flag.IntVar(&o.ticks, "ticks", 60, "number of game ticks to run")
	flag.IntVar(&o.minutes, "minutes", 0, "in-game minutes to advance after the first ticks, followed by the same number of ticks again")
	flag.StringVar(&o.activate, "activate", "", "activate the tile action at x,y in the player's location")
	flag.BoolVar(&o.groups, "groups", false, "print the automation groups of the player's location")
	flag.StringVar(&o.stops, "stops", "", "open the destination menu for a network (Boat, Bus, Train)")
	flag.StringVar(&o.travel, "travel", "", "stop ID to choose from the open destination menu")
	flag.StringVar(&o.dump, "dump", "", "write an automation group dump to this file")
	flag.BoolVar(&o.verbose, "v", false, "verbose logging")
	flag.Parse()
	return o
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadWorld(path string) (*farm.World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return farm.LoadWorld(f)
}

func parseTile(s string) (world.Tile, error) {
	var t world.Tile
	if _, err := fmt.Sscanf(s, "%d,%d", &t.X, &t.Y); err != nil {
		return t, fmt.Errorf("invalid tile %q, expected x,y: %w", s, err)
	}
	return t, nil
}

func main() {
	o := parseFlags()
	logger := newLogger(o.verbose)
	slog.SetDefault(logger)

	useColor := terminal.IsInteractive()
	if !useColor {
		color.Disable()
	}
	render.InitColors()

	w, err := loadWorld(o.worldPath)
	if err != nil {
		logger.Error("couldn't load world", "path", o.worldPath, "error", err)
		os.Exit(1)
	}
	if o.location != "" {
		w.Player.Location = o.location
	}
	if w.CurrentLocation() == nil {
		logger.Error("player location doesn't exist", "location", w.Player.Location)
		os.Exit(1)
	}

	h := host.New(logger, o.configDir)
	auto := automate.NewMod()
	layers := datalayers.NewMod()
	station := centralstation.NewMod()
	if err := h.Load(auto, layers, &checkerboard.Mod{}, station); err != nil {
		logger.Warn("some mods weren't loaded", "error", err)
	}

	h.Run(w, o.ticks)
	if o.minutes > 0 {
		w.Advance(o.minutes)
		for i := 0; i < o.ticks; i++ {
			h.Tick()
		}
	}

	out := os.Stdout
	loc := w.CurrentLocation()
	render.PrintString(out, "GT{Day summary:} LOC{%s}, %s ticks, GOLD{%sg}\n\n", loc.Name, humanize.Comma(int64(h.Ticks())), humanize.Comma(int64(w.Player.Money)))

	if o.activate != "" {
		tile, err := parseTile(o.activate)
		if err != nil {
			logger.Error("couldn't activate tile", "error", err)
			os.Exit(2)
		}
		if !h.ActivateTile(tile) {
			logger.Warn("nothing to activate", "location", loc.Name, "tile", tile)
		}
	}

	if o.layer != "" {
		showOverlay(h, layers, w, o, useColor)
	}

	autoAPI, _ := auto.API().(*automate.API)
	if o.groups && autoAPI != nil {
		fmt.Fprintln(out)
		render.PrintGroups(out, loc, autoAPI.GetAutomationGroups(loc, nil, true))
	}
	if o.dump != "" && autoAPI != nil {
		path, err := devtools.DumpGroupsToFile(o.dump, loc, autoAPI.GetAutomationGroups(loc, nil, true))
		if err != nil {
			logger.Error("couldn't write group dump", "error", err)
			os.Exit(1)
		}
		logger.Info("wrote group dump", "path", path)
	}

	if o.stops != "" {
		network, ok := centralstation.ParseStopNetwork(o.stops)
		if !ok {
			logger.Error("unknown network", "network", o.stops)
			os.Exit(2)
		}
		station.OpenMenu(network)
	}
	if station.Menu() != nil || o.stops != "" {
		fmt.Fprintln(out)
		render.PrintMenu(out, station.Menu())
	}
	if o.travel != "" {
		if err := station.Choose(o.travel); err != nil {
			fmt.Fprintln(out, render.ColorDenied.Sprint(err))
			os.Exit(1)
		}
		render.PrintString(out, "\nGT{Arrived at} LOC{%s}, GOLD{%sg} left\n", w.Player.Location, humanize.Comma(int64(w.Player.Money)))
	}
}

// showOverlay opens the data layers overlay on a layer and prints it.
func showOverlay(h *host.Host, layers *datalayers.Mod, w *farm.World, o options, useColor bool) {
	loc := w.CurrentLocation()
	area := loc.Bounds()
	if o.area != "" {
		parsed, err := world.ParseRect(o.area)
		if err != nil {
			slog.Error("invalid area", "error", err)
			os.Exit(2)
		}
		area = parsed
	}
	if cols := terminal.Columns(render.CellWidth, render.RowLabelWidth); area.Width > cols {
		area.Width = cols
	}

	layers.SetView(&area)
	layers.ToggleLayers()
	overlay := layers.Overlay()
	if overlay == nil {
		fmt.Println(render.ColorDenied.Sprint("No data layers are enabled."))
		return
	}
	if !overlay.TrySetLayer(o.layer) {
		slog.Warn("unknown layer, showing the first one", "layer", o.layer)
	}
	h.Tick()

	render.PrintOverlay(os.Stdout, overlay, area, w.Player.Tile, useColor)
	render.PrintLegend(os.Stdout, overlay.CurrentLayer(), useColor)
}
