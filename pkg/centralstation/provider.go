package centralstation

import (
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"farmkit/pkg/engine/monitor"
)

// StopProvider supplies stops. Providers may fail; the stop manager treats a
// failing provider as having no stops.
type StopProvider interface {
	GetAvailableStops(network StopNetwork) ([]Stop, error)
}

// StopProviderFunc adapts a function to StopProvider.
type StopProviderFunc func(network StopNetwork) ([]Stop, error)

// GetAvailableStops calls f
func (f StopProviderFunc) GetAvailableStops(network StopNetwork) ([]Stop, error) {
	return f(network)
}

// contentPack is the YAML layout of a content pack.
type contentPack struct {
	Stops []yaml.Node `yaml:"stops"`
}

// ContentStopProvider serves stops loaded from content packs.
type ContentStopProvider struct {
	monitor *monitor.Monitor
	stops   []Stop
}

// NewContentStopProvider creates an empty provider
func NewContentStopProvider(mon *monitor.Monitor) *ContentStopProvider {
	if mon == nil {
		mon = monitor.Discard()
	}
	return &ContentStopProvider{monitor: mon}
}

// Load adds the stops in a content pack. Invalid stops are logged and skipped;
// only an unreadable pack is an error. Returns the number of stops added.
func (p *ContentStopProvider) Load(in io.Reader, packName string) (int, error) {
	var pack contentPack
	if err := yaml.NewDecoder(in).Decode(&pack); err != nil && err != io.EOF {
		return 0, fmt.Errorf("decode content pack %s: %w", packName, err)
	}

	added := 0
	for i := range pack.Stops {
		var stop Stop
		err := pack.Stops[i].Decode(&stop)
		if err == nil {
			err = stop.validate()
		}
		if err != nil {
			p.monitor.Log(slog.LevelWarn, fmt.Sprintf("Ignored invalid stop #%d in content pack '%s'.", i+1, packName), "error", err)
			continue
		}
		p.stops = append(p.stops, stop)
		added++
	}
	return added, nil
}

// Len returns the number of loaded stops
func (p *ContentStopProvider) Len() int {
	return len(p.stops)
}

func (p *ContentStopProvider) GetAvailableStops(network StopNetwork) ([]Stop, error) {
	var out []Stop
	for _, s := range p.stops {
		if s.Serves(network) {
			out = append(out, s)
		}
	}
	return out, nil
}
