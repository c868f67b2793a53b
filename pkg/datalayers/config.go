package datalayers

import "strings"

// LayerConfig holds the generic settings of one layer.
type LayerConfig struct {
	Enabled bool `yaml:"enabled"`
	// UpdatesPerSecond is how often the layer refreshes while shown.
	UpdatesPerSecond float64 `yaml:"updates_per_second"`
	// UpdateWhenViewChange refreshes the layer as soon as the visible tiles change.
	UpdateWhenViewChange bool `yaml:"update_when_view_change"`
}

// DefaultLayerConfig returns the settings used for layers missing from the config
func DefaultLayerConfig() LayerConfig {
	return LayerConfig{Enabled: true, UpdatesPerSecond: 60, UpdateWhenViewChange: true}
}

// IsEnabled returns true if the layer should be shown
func (c *LayerConfig) IsEnabled() bool {
	return c.Enabled
}

// TickRate converts UpdatesPerSecond to ticks between updates, at 60 ticks a
// second. Non-positive rates fall back to every tick.
func (c *LayerConfig) TickRate() int {
	if c.UpdatesPerSecond <= 0 {
		return 1
	}
	rate := int(60 / c.UpdatesPerSecond)
	if rate < 1 {
		return 1
	}
	return rate
}

// BuiltinLayers holds the settings of the layers provided by Data Layers itself.
type BuiltinLayers struct {
	Machines LayerConfig `yaml:"machines"`
}

// AnyLayersEnabled returns true if at least one built-in layer is enabled
func (l BuiltinLayers) AnyLayersEnabled() bool {
	return l.Machines.IsEnabled()
}

// Config is the Data Layers mod configuration.
type Config struct {
	// CombineOverlappingBorders draws one border around same-colored groups that touch.
	CombineOverlappingBorders bool `yaml:"combine_overlapping_borders"`
	ShowGrid                  bool `yaml:"show_grid"`
	// ColorScheme is the scheme ID to use.
	ColorScheme string        `yaml:"color_scheme"`
	Layers      BuiltinLayers `yaml:"layers"`
	// ModLayers holds the settings of layers registered through the API, by unique ID.
	ModLayers map[string]*LayerConfig `yaml:"mod_layers"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		CombineOverlappingBorders: true,
		ColorScheme:               DefaultSchemeID,
		Layers:                    BuiltinLayers{Machines: DefaultLayerConfig()},
		ModLayers:                 make(map[string]*LayerConfig),
	}
}

func (c *Config) normalize() {
	c.ColorScheme = strings.TrimSpace(c.ColorScheme)
	if c.ColorScheme == "" {
		c.ColorScheme = DefaultSchemeID
	}
	if c.ModLayers == nil {
		c.ModLayers = make(map[string]*LayerConfig)
	}
	for id, layer := range c.ModLayers {
		if layer == nil {
			def := DefaultLayerConfig()
			c.ModLayers[id] = &def
		}
	}
}

// GetModLayerConfig returns the settings of a layer registered through the
// API, adding defaults if the config doesn't have any.
func (c *Config) GetModLayerConfig(id string) *LayerConfig {
	if c.ModLayers == nil {
		c.ModLayers = make(map[string]*LayerConfig)
	}
	layer, found := c.ModLayers[id]
	if !found || layer == nil {
		def := DefaultLayerConfig()
		layer = &def
		c.ModLayers[id] = layer
	}
	return layer
}
