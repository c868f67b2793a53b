package datalayers

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"farmkit/pkg/engine/monitor"
)

const (
	// DefaultSchemeID is the color scheme used when the configured one doesn't exist.
	DefaultSchemeID = "Default"

	// AssetName is the name of the built-in color scheme file.
	AssetName = "colors.yaml"
)

// IsDefaultColorScheme returns true if the ID names the default scheme
func IsDefaultColorScheme(id string) bool {
	return strings.EqualFold(id, DefaultSchemeID)
}

// ColorScheme is a named set of overlay colors. Keys are "<layer>_<color>"
// and match case-insensitively.
type ColorScheme struct {
	ID      string
	colors  map[string]Color
	monitor *monitor.Monitor
}

// NewColorScheme creates a scheme from a map of color keys
func NewColorScheme(id string, colors map[string]Color, mon *monitor.Monitor) *ColorScheme {
	s := &ColorScheme{ID: id, colors: make(map[string]Color, len(colors)), monitor: mon}
	s.Merge(colors)
	return s
}

// Get returns a layer's color, or def if the scheme doesn't set it.
func (s *ColorScheme) Get(layerID, colorID string, def Color) Color {
	if c, found := s.colors[colorKey(layerID, colorID)]; found {
		return c
	}
	return def
}

// Merge overwrites the scheme's colors with the given ones.
func (s *ColorScheme) Merge(colors map[string]Color) {
	for key, c := range colors {
		s.colors[strings.ToLower(key)] = c
	}
}

// Len returns the number of colors in the scheme
func (s *ColorScheme) Len() int {
	return len(s.colors)
}

func colorKey(layerID, colorID string) string {
	return strings.ToLower(layerID + "_" + colorID)
}

// ColorRegistry tracks every loaded color scheme.
type ColorRegistry struct {
	monitor *monitor.Monitor
	schemes map[string]*ColorScheme
	order   []string
}

// NewColorRegistry creates an empty registry
func NewColorRegistry(mon *monitor.Monitor) *ColorRegistry {
	if mon == nil {
		mon = monitor.Discard()
	}
	return &ColorRegistry{monitor: mon, schemes: make(map[string]*ColorScheme)}
}

// LoadSchemes adds raw scheme data, keyed by scheme ID then color key.
// Invalid colors are logged and skipped. Schemes that already exist are
// merged rather than replaced. The asset name is only used in log messages.
func (r *ColorRegistry) LoadSchemes(data map[string]map[string]string, assetName string) {
	if assetName == "" {
		assetName = AssetName
	}
	ids := make([]string, 0, len(data))
	for id := range data {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, schemeID := range ids {
		raw := data[schemeID]
		colors := make(map[string]Color, len(raw))
		for name, value := range raw {
			c, ok := ParseColor(value)
			if !ok {
				from := ""
				if !IsDefaultColorScheme(schemeID) {
					from = fmt.Sprintf(" color scheme '%s'", schemeID)
				}
				r.monitor.Log(slog.LevelWarn, fmt.Sprintf("Can't load color '%s' from%s '%s'. The value '%s' isn't a valid color format.", name, from, assetName, value))
				continue
			}
			colors[name] = c
		}

		key := strings.ToLower(schemeID)
		if existing, found := r.schemes[key]; found {
			existing.Merge(colors)
			continue
		}
		r.schemes[key] = NewColorScheme(schemeID, colors, r.monitor)
		r.order = append(r.order, schemeID)
	}
}

// LoadYAML reads schemes from a YAML document shaped like LoadSchemes' data.
func (r *ColorRegistry) LoadYAML(in io.Reader, assetName string) error {
	var data map[string]map[string]string
	if err := yaml.NewDecoder(in).Decode(&data); err != nil && err != io.EOF {
		return fmt.Errorf("decode color schemes %s: %w", assetName, err)
	}
	r.LoadSchemes(data, assetName)
	return nil
}

// TryGetScheme returns a scheme by ID (case-insensitive)
func (r *ColorRegistry) TryGetScheme(id string) (*ColorScheme, bool) {
	s, found := r.schemes[strings.ToLower(id)]
	return s, found
}

// SchemeIDs returns the loaded scheme IDs in load order
func (r *ColorRegistry) SchemeIDs() []string {
	return append([]string(nil), r.order...)
}
