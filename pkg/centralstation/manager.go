package centralstation

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/zyedidia/generic/mapset"

	"farmkit/pkg/engine/monitor"
)

type namedProvider struct {
	name     string
	provider StopProvider
}

// StopManager merges the stops from every provider.
type StopManager struct {
	monitor   *monitor.Monitor
	providers []namedProvider
}

// NewStopManager creates a manager with no providers
func NewStopManager(mon *monitor.Monitor) *StopManager {
	if mon == nil {
		mon = monitor.Discard()
	}
	return &StopManager{monitor: mon}
}

// AddProvider adds a provider. Earlier providers win when stop IDs collide.
func (m *StopManager) AddProvider(name string, p StopProvider) {
	if p == nil {
		return
	}
	m.providers = append(m.providers, namedProvider{name: name, provider: p})
}

// GetAvailableStops returns the network's stops, excluding those in the
// current location, in provider order. A provider that fails is logged once
// and skipped.
func (m *StopManager) GetAvailableStops(network StopNetwork, currentLocation string) []Stop {
	seen := mapset.New[string]()
	var out []Stop

	for _, np := range m.providers {
		var stops []Stop
		err := monitor.Recover(func() error {
			var err error
			stops, err = np.provider.GetAvailableStops(network)
			return err
		})
		if err != nil {
			m.monitor.LogOnce(slog.LevelWarn, fmt.Sprintf("Could not load stops from %s because it returned an unexpected error.", np.name), "network", network, "error", err)
			continue
		}

		for _, s := range stops {
			if s.ID == "" || seen.Has(s.ID) || !s.Serves(network) {
				continue
			}
			seen.Put(s.ID)
			if currentLocation != "" && strings.EqualFold(s.ToLocation, currentLocation) {
				continue
			}
			out = append(out, s)
		}
	}
	return out
}
