package farm

import (
	"fmt"
	"strings"

	"farmkit/pkg/engine/world"
)

// FlagAutomateDisabled marks a chest that automation must not use.
const FlagAutomateDisabled = "automate:disabled"

// DefaultChestCapacity is the number of item stacks a chest holds when the world file doesn't say.
const DefaultChestCapacity = 36

// Item is a stack of a named item.
type Item struct {
	Name  string `yaml:"name"`
	Stack int    `yaml:"stack"`
}

// Object is a placed object in a location: a chest, a machine, a path tile, etc.
type Object struct {
	ID       string     `yaml:"id"`
	Kind     string     `yaml:"kind"`
	Tile     world.Tile `yaml:"tile"`
	Width    int        `yaml:"width"`
	Height   int        `yaml:"height"`
	Flags    []string   `yaml:"flags"`
	Items    []Item     `yaml:"items"`
	Capacity int        `yaml:"capacity"`

	// Machine state
	Input             string `yaml:"input"`
	Output            string `yaml:"output"`
	MinutesUntilReady int    `yaml:"minutes_until_ready"`
	Ready             bool   `yaml:"ready"`
}

// NewObject creates a 1x1 object of the given kind.
func NewObject(kind string, tile world.Tile) *Object {
	o := &Object{Kind: kind, Tile: tile}
	o.normalize("")
	return o
}

func (o *Object) normalize(location string) {
	o.Kind = strings.ToLower(strings.TrimSpace(o.Kind))
	if o.Width <= 0 {
		o.Width = 1
	}
	if o.Height <= 0 {
		o.Height = 1
	}
	if o.Capacity <= 0 {
		o.Capacity = DefaultChestCapacity
	}
	if o.ID == "" && location != "" {
		o.ID = fmt.Sprintf("%s/%s@%s", location, o.Kind, o.Tile)
	}
}

// TileArea returns the tiles covered by the object.
func (o *Object) TileArea() world.Rect {
	return world.Rect{X: o.Tile.X, Y: o.Tile.Y, Width: o.Width, Height: o.Height}
}

// HasFlag returns true if the object carries the given flag
func (o *Object) HasFlag(flag string) bool {
	for _, f := range o.Flags {
		if strings.EqualFold(f, flag) {
			return true
		}
	}
	return false
}

// Processing returns true if the machine is working on an input
func (o *Object) Processing() bool {
	return o.Input != "" && !o.Ready
}

// StartProcessing loads an input into the machine.
func (o *Object) StartProcessing(r Recipe) {
	o.Input = r.Input
	o.Output = r.Output
	o.MinutesUntilReady = r.Minutes
	o.Ready = r.Minutes <= 0
}

// Harvest removes the finished output from the machine. Returns false if
// there's nothing ready.
func (o *Object) Harvest() (Item, bool) {
	if !o.Ready || o.Output == "" {
		return Item{}, false
	}
	item := Item{Name: o.Output, Stack: 1}
	o.Input, o.Output, o.Ready, o.MinutesUntilReady = "", "", false, 0
	return item, true
}

// Advance progresses machine timing by the given number of minutes.
func (o *Object) Advance(minutes int) {
	if !o.Processing() {
		return
	}
	o.MinutesUntilReady -= minutes
	if o.MinutesUntilReady <= 0 {
		o.MinutesUntilReady = 0
		o.Ready = true
	}
}

// Store adds an item to a chest, merging stacks. Returns false if the chest is full.
func (o *Object) Store(item Item) bool {
	if item.Stack <= 0 {
		item.Stack = 1
	}
	for i := range o.Items {
		if o.Items[i].Name == item.Name {
			o.Items[i].Stack += item.Stack
			return true
		}
	}
	if len(o.Items) >= o.Capacity {
		return false
	}
	o.Items = append(o.Items, item)
	return true
}

// Take removes one unit of the named item from a chest.
func (o *Object) Take(name string) bool {
	for i := range o.Items {
		if o.Items[i].Name != name {
			continue
		}
		o.Items[i].Stack--
		if o.Items[i].Stack <= 0 {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
		}
		return true
	}
	return false
}

// Count returns how many units of the named item a chest holds
func (o *Object) Count(name string) int {
	n := 0
	for _, it := range o.Items {
		if it.Name == name {
			n += it.Stack
		}
	}
	return n
}
