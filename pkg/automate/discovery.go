package automate

import (
	"github.com/zyedidia/generic/mapset"

	"farmkit/pkg/engine/world"
)

// DiscoverOptions controls Discover.
type DiscoverOptions struct {
	// IncludeDisabled keeps groups that can't automate anything.
	IncludeDisabled bool
}

// Discover finds every connected group with at least one member intersecting
// area (nil means the whole location). Groups extend past the area as far as
// adjacency reaches. Adjacency is orthogonal only: two automatables connect
// when any tile of one is directly above, below, left or right of a tile of
// the other. Connectors bridge groups but are not listed as containers or
// machines; components made only of connectors yield no group.
//
// Work is bounded by the number of indexed automatables reached.
func Discover(ix *Index, area *world.Rect, opts DiscoverOptions) []*Group {
	if ix == nil {
		return nil
	}
	visited := mapset.New[*entry]()
	var groups []*Group

	for _, seed := range ix.seeds(area) {
		if visited.Has(seed) {
			continue
		}
		members := ix.collect(seed, visited)
		g := newGroup(ix.location, members)
		if len(g.Containers) == 0 && len(g.Machines) == 0 {
			continue
		}
		if !opts.IncludeDisabled && g.Disabled() {
			continue
		}
		groups = append(groups, g)
	}
	return groups
}

// collect does a breadth-first walk from start, marking every reached entry visited.
func (ix *Index) collect(start *entry, visited mapset.Set[*entry]) []*entry {
	var members []*entry
	queue := []*entry{start}
	visited.Put(start)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		members = append(members, current)

		for _, n := range ix.neighbors(current) {
			if visited.Has(n) {
				continue
			}
			visited.Put(n)
			queue = append(queue, n)
		}
	}
	return members
}
