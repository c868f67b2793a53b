// Package centralstation adds a transit hub: tile actions open a menu of
// boat, bus and train stops, and picking one charges the ticket and warps
// the player.
package centralstation

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"farmkit/pkg/engine/world"
)

// StopNetwork is a transport network.
type StopNetwork int

const (
	Boat StopNetwork = iota
	Bus
	Train
)

// AllNetworks returns every network in declaration order
func AllNetworks() []StopNetwork {
	return []StopNetwork{Boat, Bus, Train}
}

func (n StopNetwork) String() string {
	switch n {
	case Boat:
		return "Boat"
	case Bus:
		return "Bus"
	case Train:
		return "Train"
	default:
		return fmt.Sprintf("StopNetwork(%d)", int(n))
	}
}

// ParseStopNetwork reads a network name, ignoring case.
func ParseStopNetwork(s string) (StopNetwork, bool) {
	for _, n := range AllNetworks() {
		if strings.EqualFold(strings.TrimSpace(s), n.String()) {
			return n, true
		}
	}
	return 0, false
}

func networkNames() string {
	names := make([]string, 0, 3)
	for _, n := range AllNetworks() {
		names = append(names, n.String())
	}
	return "'" + strings.Join(names, "', '") + "'"
}

func (n *StopNetwork) UnmarshalYAML(value *yaml.Node) error {
	parsed, ok := ParseStopNetwork(value.Value)
	if !ok {
		return fmt.Errorf("line %d: invalid network %q, should be one of %s", value.Line, value.Value, networkNames())
	}
	*n = parsed
	return nil
}

func (n StopNetwork) MarshalYAML() (any, error) {
	return n.String(), nil
}

// Stop is a destination in the transit networks.
type Stop struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	ToLocation  string `yaml:"to_location"`
	// ToTile is the arrival tile; nil means next to the destination's station.
	ToTile *world.Tile `yaml:"to_tile"`
	// ToFacingDirection is the direction the player faces on arrival (default down).
	ToFacingDirection string        `yaml:"to_facing_direction"`
	Cost              int           `yaml:"cost"`
	Networks          []StopNetwork `yaml:"networks"`
}

// Serves returns true if the stop is on the network
func (s Stop) Serves(n StopNetwork) bool {
	for _, candidate := range s.Networks {
		if candidate == n {
			return true
		}
	}
	return false
}

// Name returns the display name, or the ID if there's none
func (s Stop) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.ID
}

// Label returns the menu label, like "Ginger Island - 1,000g".
func (s Stop) Label() string {
	if s.Cost > 0 {
		return fmt.Sprintf("%s - %sg", s.Name(), humanize.Comma(int64(s.Cost)))
	}
	return s.Name()
}

// Facing returns the arrival facing direction.
func (s Stop) Facing() world.Direction {
	dir, _ := world.ParseDirection(s.ToFacingDirection)
	return dir
}

func (s *Stop) validate() error {
	s.ID = strings.TrimSpace(s.ID)
	s.ToLocation = strings.TrimSpace(s.ToLocation)
	switch {
	case s.ID == "":
		return fmt.Errorf("stop has no id")
	case s.ToLocation == "":
		return fmt.Errorf("stop %s has no to_location", s.ID)
	case len(s.Networks) == 0:
		return fmt.Errorf("stop %s has no networks", s.ID)
	case s.Cost < 0:
		return fmt.Errorf("stop %s has a negative cost", s.ID)
	}
	return nil
}
