package centralstation

import "github.com/leonelquinteros/gotext"

// CancelID is the ID of the menu option that closes the menu.
const CancelID = "Cancel"

// MenuOption is one answer in the destination menu.
type MenuOption struct {
	ID    string
	Label string
}

// Menu is an open destination menu for one network.
type Menu struct {
	Network StopNetwork
	Stops   []Stop
	Options []MenuOption
}

// NewMenu builds the menu for a set of stops, with a trailing Cancel option.
func NewMenu(network StopNetwork, stops []Stop) *Menu {
	m := &Menu{Network: network, Stops: stops}
	for _, s := range stops {
		m.Options = append(m.Options, MenuOption{ID: s.ID, Label: s.Label()})
	}
	m.Options = append(m.Options, MenuOption{ID: CancelID, Label: gotext.Get("Cancel")})
	return m
}

// Title returns the menu prompt
func (m *Menu) Title() string {
	return gotext.Get("Choose destination:")
}

// Stop returns the stop with the given ID
func (m *Menu) Stop(id string) (Stop, bool) {
	for _, s := range m.Stops {
		if s.ID == id {
			return s, true
		}
	}
	return Stop{}, false
}
