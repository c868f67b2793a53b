package datalayers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gookit/color"
)

// Color is an RGBA overlay color.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// Hex formats the color as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Background returns a terminal background style for the color.
func (c Color) Background() color.RGBColor {
	return color.RGB(c.R, c.G, c.B, true)
}

// Foreground returns a terminal foreground style for the color.
func (c Color) Foreground() color.RGBColor {
	return color.RGB(c.R, c.G, c.B)
}

var namedColors = map[string]Color{
	"black":       RGB(0, 0, 0),
	"blue":        RGB(0, 0, 255),
	"brown":       RGB(165, 42, 42),
	"cyan":        RGB(0, 255, 255),
	"darkgreen":   RGB(0, 100, 0),
	"gold":        RGB(255, 215, 0),
	"gray":        RGB(128, 128, 128),
	"green":       RGB(0, 128, 0),
	"lime":        RGB(0, 255, 0),
	"limegreen":   RGB(50, 205, 50),
	"magenta":     RGB(255, 0, 255),
	"orange":      RGB(255, 165, 0),
	"purple":      RGB(128, 0, 128),
	"red":         RGB(255, 0, 0),
	"transparent": {},
	"white":       RGB(255, 255, 255),
	"yellow":      RGB(255, 255, 0),
}

// ParseColor reads a color written as a hex code (#rgb, #rrggbb or
// #rrggbbaa), as space-separated "r g b [a]" components, or as a color name.
func ParseColor(raw string) (Color, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Color{}, false
	}

	if strings.HasPrefix(raw, "#") {
		return parseHex(raw[1:])
	}

	if fields := strings.Fields(raw); len(fields) >= 3 {
		return parseComponents(fields)
	}

	c, found := namedColors[strings.ToLower(raw)]
	return c, found
}

func isHexDigits(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}

func parseHex(hex string) (Color, bool) {
	if !isHexDigits(hex) {
		return Color{}, false
	}
	alpha := uint8(255)
	if len(hex) == 8 {
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return Color{}, false
		}
		alpha = uint8(a)
		hex = hex[:6]
	}
	if len(hex) != 3 && len(hex) != 6 {
		return Color{}, false
	}
	rgb := color.HexToRgb(hex)
	if len(rgb) != 3 {
		return Color{}, false
	}
	return Color{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2]), A: alpha}, true
}

func parseComponents(fields []string) (Color, bool) {
	if len(fields) > 4 {
		return Color{}, false
	}
	parts := []uint8{0, 0, 0, 255}
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return Color{}, false
		}
		parts[i] = uint8(v)
	}
	return Color{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}, true
}
