package automate

import "strings"

// Config is the Automate mod configuration.
type Config struct {
	// Enabled toggles the automation pass; discovery stays available.
	Enabled bool `yaml:"enabled"`
	// AutomationInterval is the number of update ticks between automation passes.
	AutomationInterval int `yaml:"automation_interval"`
	// ConnectorKinds are object kinds that link machines and chests.
	ConnectorKinds []string `yaml:"connector_kinds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Enabled:            true,
		AutomationInterval: 60,
		ConnectorKinds:     []string{"path", "flooring", "workbench"},
	}
}

func (c *Config) normalize() {
	if c.AutomationInterval <= 0 {
		c.AutomationInterval = 60
	}
	seen := make(map[string]bool, len(c.ConnectorKinds))
	kinds := c.ConnectorKinds[:0]
	for _, kind := range c.ConnectorKinds {
		kind = strings.ToLower(strings.TrimSpace(kind))
		if kind == "" || seen[kind] {
			continue
		}
		seen[kind] = true
		kinds = append(kinds, kind)
	}
	c.ConnectorKinds = kinds
}
