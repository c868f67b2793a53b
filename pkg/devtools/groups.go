// Package devtools provides developer tools for testing and debugging.
package devtools

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"farmkit/pkg/automate"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

const groupDumpFilename = "groups.txt"

// ErrNoLocation is returned when there is no location to dump.
var ErrNoLocation = errors.New("no location")

// roleSymbol returns the single-character symbol for a group member role.
func roleSymbol(r automate.Role) rune {
	switch r {
	case automate.Container:
		return 'C'
	case automate.Machine:
		return 'M'
	default:
		return '+'
	}
}

// groupSymbols maps each tile covered by a group member to its symbol.
// Disabled groups use lowercase symbols.
func groupSymbols(groups []*automate.Group) map[world.Tile]rune {
	symbols := make(map[world.Tile]rune)
	for _, g := range groups {
		disabled := g.Disabled()
		for _, m := range g.Members() {
			sym := roleSymbol(automate.EffectiveRole(m))
			if disabled && sym != '+' {
				sym += 'a' - 'A'
			}
			for _, t := range m.TileArea().Tiles() {
				symbols[t] = sym
			}
		}
	}
	return symbols
}

// writeGroupGrid writes the location grid, one symbol per tile.
func writeGroupGrid(w io.Writer, loc *farm.Location, symbols map[world.Tile]rune) {
	for y := 0; y < loc.Height; y++ {
		for x := 0; x < loc.Width; x++ {
			t := world.Tile{X: x, Y: y}
			if sym, ok := symbols[t]; ok {
				fmt.Fprintf(w, "%c", sym)
				continue
			}
			if loc.ObjectAt(t) != nil {
				fmt.Fprint(w, "o")
				continue
			}
			fmt.Fprint(w, ".")
		}
		fmt.Fprintln(w)
	}
}

// DumpGroups writes a debug dump of the automation groups in a location:
// metadata, legend, a grid of group members, and a per-group member list.
func DumpGroups(w io.Writer, loc *farm.Location, groups []*automate.Group) error {
	if loc == nil {
		return ErrNoLocation
	}

	fmt.Fprintln(w, "=== GROUP DUMP DEBUG (automation groups, members) ===")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "--- Metadata ---")
	fmt.Fprintf(w, "location: %q\n", loc.Name)
	fmt.Fprintf(w, "width: %d\n", loc.Width)
	fmt.Fprintf(w, "height: %d\n", loc.Height)
	fmt.Fprintf(w, "coordinate_system: x,y (0-based, x=horizontal, y=vertical)\n")
	fmt.Fprintf(w, "objects: %d\n", len(loc.Objects))
	fmt.Fprintf(w, "groups: %d\n", len(groups))
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, "--- Legend (tile symbols) ---")
	fmt.Fprintln(w, "C=container M=machine +=connector o=ungrouped object .=empty; lowercase=disabled group")
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, "--- Map ---")
	writeGroupGrid(w, loc, groupSymbols(groups))
	fmt.Fprintln(w, "")

	fmt.Fprintln(w, "Groups:")
	if len(groups) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, g := range groups {
		fmt.Fprintf(w, "  id: %s disabled: %v containers: %d machines: %d size: %d\n", g.ID, g.Disabled(), len(g.Containers), len(g.Machines), g.Size())
		for _, m := range g.Members() {
			area := m.TileArea()
			state := ""
			if me, ok := m.(automate.MachineEntity); ok {
				state = me.State().String()
			}
			fmt.Fprintf(w, "    x: %d y: %d width: %d height: %d role: %s state: %q\n", area.X, area.Y, area.Width, area.Height, automate.EffectiveRole(m), state)
		}
	}
	fmt.Fprintln(w, "")

	_, err := fmt.Fprintln(w, "=== END GROUP DUMP ===")
	return err
}

// DumpGroupsToFile writes DumpGroups output to path, or groups.txt when path
// is empty, and returns the absolute path written.
func DumpGroupsToFile(path string, loc *farm.Location, groups []*automate.Group) (string, error) {
	if path == "" {
		path = groupDumpFilename
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := DumpGroups(f, loc, groups); err != nil {
		return absPath, err
	}
	if err := f.Sync(); err != nil {
		return absPath, err
	}
	return absPath, nil
}
