// Package render prints the overlay, automation groups and menus to a terminal.
package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"

	"farmkit/pkg/automate"
	"farmkit/pkg/centralstation"
	"farmkit/pkg/datalayers"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

// Icon constants
const (
	PlayerIcon = "@"
	IconEmpty  = "."
)

// CellWidth is the number of characters each tile is drawn with.
const CellWidth = 2

// RowLabelWidth is the width of the row number printed before each map row.
const RowLabelWidth = 4

var (
	ColorTitle       color.Style
	ColorLocation    color.Style
	ColorAction      color.Style
	ColorActionShort color.Style
	ColorDenied      color.Style
	ColorItem        color.Style
	ColorGold        color.Style
	ColorSubtle      color.Style
	ColorPlayer      color.Style

	regexpStringFunctions = regexp.MustCompile(`([A-Z_]*){([a-z A-Z0-9_,:'.-]+)}`)
)

// InitColors initializes the color styles
func InitColors() {
	ColorTitle = color.Style{color.FgCyan, color.OpBold}
	ColorLocation = color.Style{color.FgBlue}
	ColorAction = color.Style{color.FgMagenta}
	ColorActionShort = color.Style{color.FgMagenta, color.OpBold}
	ColorDenied = color.Style{color.FgRed, color.OpBold}
	ColorItem = color.Style{color.FgGreen, color.OpBold}
	ColorGold = color.Style{color.FgYellow, color.OpBold}
	ColorSubtle = color.Style{color.FgGray}
	ColorPlayer = color.Style{color.FgGreen, color.BgBlack, color.OpBold}
}

// FormatString formats a string with markup like GT{msgid}, ITEM{name},
// LOC{location}, ACTION{verb}, GOLD{amount} and DENIED{text}. msg is only
// used as a format when arguments are given.
func FormatString(msg string, a ...any) string {
	ret := msg
	if len(a) > 0 {
		ret = fmt.Sprintf(msg, a...)
	}

	for _, match := range regexpStringFunctions.FindAllStringSubmatch(ret, -1) {
		function := match[1]
		operand := match[2]

		var val string
		switch function {
		case "GT":
			val = gotext.Get(operand)
		case "ITEM":
			val = ColorItem.Sprint(operand)
		case "LOC":
			val = ColorLocation.Sprint(operand)
		case "ACTION":
			val = ColorActionShort.Sprint(operand[0:1]) + ColorAction.Sprint(operand[1:])
		case "GOLD":
			val = ColorGold.Sprint(operand)
		case "DENIED":
			val = ColorDenied.Sprint(operand)
		default:
			return fmt.Sprintf("ERROR, function not found: %v -> %v", function, operand)
		}

		ret = strings.Replace(ret, match[0], val, 1)
	}

	return ret
}

// PrintString prints a formatted string
func PrintString(w io.Writer, msg string, a ...any) {
	fmt.Fprint(w, FormatString(msg, a...))
}

// legendSymbol returns the plain-text symbol for the i-th legend entry.
func legendSymbol(i int) string {
	if i < 9 {
		return string(rune('1' + i))
	}
	return string(rune('a' + i - 9))
}

// RenderTile returns the string for one tile. entry is -1 for a tile the
// layer didn't colour.
func RenderTile(legend []datalayers.LegendEntry, entry int, player, useColor bool) string {
	glyph := IconEmpty
	if entry >= 0 {
		glyph = legendSymbol(entry)
	}
	if player {
		glyph = PlayerIcon
	}
	cell := glyph + strings.Repeat(" ", CellWidth-1)

	if !useColor {
		return cell
	}
	switch {
	case entry >= 0 && player:
		return legend[entry].Color.Background().Sprint(cell)
	case entry >= 0:
		return legend[entry].Color.Background().Sprint(strings.Repeat(" ", CellWidth))
	case player:
		return ColorPlayer.Sprint(cell)
	default:
		return ColorSubtle.Sprint(cell)
	}
}

// tileEntries maps each coloured tile to its legend index. Later groups draw
// over earlier ones.
func tileEntries(legend []datalayers.LegendEntry, groups []datalayers.TileGroup) map[world.Tile]int {
	index := make(map[string]int, len(legend))
	for i, e := range legend {
		index[e.ID] = i
	}
	out := make(map[world.Tile]int)
	for _, g := range groups {
		for _, t := range g.Tiles {
			if i, ok := index[t.Type.ID]; ok {
				out[t.Tile] = i
			}
		}
	}
	return out
}

// PrintOverlay prints the area of the overlay's current layer, one row per
// line, prefixed with the row number.
func PrintOverlay(w io.Writer, overlay *datalayers.Overlay, area world.Rect, player world.Tile, useColor bool) {
	layer := overlay.CurrentLayer()
	if layer == nil {
		PrintString(w, "GT{No layers available.}\n")
		return
	}
	legend := layer.Legend()
	entries := tileEntries(legend, overlay.TileGroups())

	PrintString(w, "%s ", ColorTitle.Sprint(layer.Name()))
	fmt.Fprintln(w, ColorSubtle.Sprintf("(%s)", area))

	for y := area.Y; y < area.Bottom(); y++ {
		fmt.Fprintf(w, "%*d ", RowLabelWidth-1, y)
		for x := area.X; x < area.Right(); x++ {
			t := world.Tile{X: x, Y: y}
			entry, ok := entries[t]
			if !ok {
				entry = -1
			}
			fmt.Fprint(w, RenderTile(legend, entry, t == player, useColor))
		}
		fmt.Fprintln(w)
	}
}

// PrintLegend prints the legend of a layer with each entry's symbol.
func PrintLegend(w io.Writer, layer datalayers.Layer, useColor bool) {
	if layer == nil {
		return
	}
	fmt.Fprintln(w)
	for i, e := range layer.Legend() {
		fmt.Fprintf(w, "  %s %s %s\n", RenderTile(layer.Legend(), i, false, useColor), legendSymbol(i), e.Name)
	}
}

// PrintGroups prints a summary of the automation groups in a location.
func PrintGroups(w io.Writer, loc *farm.Location, groups []*automate.Group) {
	disabled := 0
	tiles := 0
	for _, g := range groups {
		if g.Disabled() {
			disabled++
		}
		tiles += len(g.Tiles())
	}

	PrintString(w, "GT{Automation groups in} LOC{%s}: %s (%s disabled, %s tiles)\n",
		loc.Name, humanize.Comma(int64(len(groups))), humanize.Comma(int64(disabled)), humanize.Comma(int64(tiles)))

	for _, g := range groups {
		status := ColorItem.Sprint(gotext.Get("active"))
		if g.Disabled() {
			status = ColorDenied.Sprint(gotext.Get("disabled"))
		}
		fmt.Fprintf(w, "- %s %s: %s containers, %s machines, %s members\n",
			ColorSubtle.Sprint(g.ID[:8]), status,
			humanize.Comma(int64(len(g.Containers))), humanize.Comma(int64(len(g.Machines))), humanize.Comma(int64(g.Size())))
	}
}

// PrintMenu prints a destination menu with numbered options.
func PrintMenu(w io.Writer, menu *centralstation.Menu) {
	if menu == nil {
		PrintString(w, "DENIED{%s}\n", gotext.Get("Out of service"))
		return
	}
	fmt.Fprintf(w, "%s %s\n", ColorTitle.Sprint(menu.Network), menu.Title())
	for i, o := range menu.Options {
		fmt.Fprintf(w, "%3d) %s %s\n", i+1, ColorActionShort.Sprint(o.ID), o.Label)
	}
}
