package host

import (
	"sort"

	"farmkit/pkg/engine/monitor"
	"farmkit/pkg/engine/world"
	"farmkit/pkg/farm"
)

// Priority orders handlers of the same event; higher runs first.
type Priority int

// Event priorities
const (
	PriorityLow    Priority = -1000
	PriorityNormal Priority = 0
	PriorityHigh   Priority = 1000
)

// GameLaunchedArgs is raised once after all mods are loaded.
type GameLaunchedArgs struct{}

// SaveLoadedArgs is raised after a world is loaded.
type SaveLoadedArgs struct {
	World *farm.World
}

// ReturnedToTitleArgs is raised when the save is unloaded.
type ReturnedToTitleArgs struct{}

// UpdateTickedArgs is raised once per game tick.
type UpdateTickedArgs struct {
	Ticks uint64
}

// IsMultipleOf returns true if the tick count is a multiple of n
func (a UpdateTickedArgs) IsMultipleOf(n uint64) bool {
	return n != 0 && a.Ticks%n == 0
}

// ObjectListChangedArgs is raised when objects are placed or removed.
type ObjectListChangedArgs struct {
	Location *farm.Location
	Added    []*farm.Object
	Removed  []*farm.Object
}

// WarpedArgs is raised when the player changes location.
type WarpedArgs struct {
	Player      *farm.Player
	OldLocation *farm.Location
	NewLocation *farm.Location
	Tile        world.Tile
}

type handler[T any] struct {
	owner    *monitor.Monitor
	priority Priority
	order    int
	fn       func(T)
}

// Event is a dispatch table of handlers for one kind of event.
type Event[T any] struct {
	name     string
	handlers []*handler[T]
	sorted   bool
}

func newEvent[T any](name string) *Event[T] {
	return &Event[T]{name: name}
}

func (e *Event[T]) add(owner *monitor.Monitor, p Priority, fn func(T)) {
	e.handlers = append(e.handlers, &handler[T]{owner: owner, priority: p, order: len(e.handlers), fn: fn})
	e.sorted = false
}

// Len returns the number of subscribed handlers
func (e *Event[T]) Len() int {
	return len(e.handlers)
}

// raise calls every handler in priority order, then registration order.
// A panicking handler is logged against its mod and doesn't stop the others.
func (e *Event[T]) raise(args T) {
	if !e.sorted {
		sort.SliceStable(e.handlers, func(i, j int) bool {
			if e.handlers[i].priority != e.handlers[j].priority {
				return e.handlers[i].priority > e.handlers[j].priority
			}
			return e.handlers[i].order < e.handlers[j].order
		})
		e.sorted = true
	}
	for _, h := range e.handlers {
		h.owner.InterceptErrors("handling the "+e.name+" event", func() { h.fn(args) })
	}
}

// Hook is a mod's view of an event; handlers added through it are logged against that mod.
type Hook[T any] struct {
	event *Event[T]
	owner *monitor.Monitor
}

// Add subscribes a handler at normal priority.
func (h Hook[T]) Add(fn func(T)) {
	h.event.add(h.owner, PriorityNormal, fn)
}

// AddWithPriority subscribes a handler at the given priority.
func (h Hook[T]) AddWithPriority(p Priority, fn func(T)) {
	h.event.add(h.owner, p, fn)
}

type bus struct {
	gameLaunched      *Event[GameLaunchedArgs]
	saveLoaded        *Event[SaveLoadedArgs]
	returnedToTitle   *Event[ReturnedToTitleArgs]
	updateTicked      *Event[UpdateTickedArgs]
	objectListChanged *Event[ObjectListChangedArgs]
	warped            *Event[WarpedArgs]
}

func newBus() *bus {
	return &bus{
		gameLaunched:      newEvent[GameLaunchedArgs]("GameLaunched"),
		saveLoaded:        newEvent[SaveLoadedArgs]("SaveLoaded"),
		returnedToTitle:   newEvent[ReturnedToTitleArgs]("ReturnedToTitle"),
		updateTicked:      newEvent[UpdateTickedArgs]("UpdateTicked"),
		objectListChanged: newEvent[ObjectListChangedArgs]("ObjectListChanged"),
		warped:            newEvent[WarpedArgs]("Warped"),
	}
}

// Events are the hooks available to one mod.
type Events struct {
	GameLaunched      Hook[GameLaunchedArgs]
	SaveLoaded        Hook[SaveLoadedArgs]
	ReturnedToTitle   Hook[ReturnedToTitleArgs]
	UpdateTicked      Hook[UpdateTickedArgs]
	ObjectListChanged Hook[ObjectListChangedArgs]
	Warped            Hook[WarpedArgs]
}

func (b *bus) forMod(m *monitor.Monitor) *Events {
	return &Events{
		GameLaunched:      Hook[GameLaunchedArgs]{b.gameLaunched, m},
		SaveLoaded:        Hook[SaveLoadedArgs]{b.saveLoaded, m},
		ReturnedToTitle:   Hook[ReturnedToTitleArgs]{b.returnedToTitle, m},
		UpdateTicked:      Hook[UpdateTickedArgs]{b.updateTicked, m},
		ObjectListChanged: Hook[ObjectListChangedArgs]{b.objectListChanged, m},
		Warped:            Hook[WarpedArgs]{b.warped, m},
	}
}
