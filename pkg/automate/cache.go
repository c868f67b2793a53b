package automate

import (
	"farmkit/pkg/engine/world"
)

// Cache memoizes the latest discovery per location. Entries hold the full
// location partition, disabled groups included, so area queries are answered
// by filtering without walking the grid again.
//
// Invalidation is per location: any change in a location drops that
// location's entry and nothing else.
type Cache struct {
	byLocation map[string][]*Group
	tracked    map[*Index]bool
	hits       int
	misses     int
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		byLocation: make(map[string][]*Group),
		tracked:    make(map[*Index]bool),
	}
}

// Track subscribes the cache to the index's changes, so insertions and
// removals invalidate the location automatically.
func (c *Cache) Track(ix *Index) {
	if c.tracked[ix] {
		return
	}
	c.tracked[ix] = true
	ix.Watch(func(location string, area world.Rect) {
		c.Invalidate(location)
	})
}

// Groups returns every group in the index's location, computing it on a miss.
func (c *Cache) Groups(ix *Index) []*Group {
	if groups, found := c.byLocation[ix.Location()]; found {
		c.hits++
		return groups
	}
	c.misses++
	groups := Discover(ix, nil, DiscoverOptions{IncludeDisabled: true})
	c.byLocation[ix.Location()] = groups
	return groups
}

// GroupsIn returns the cached groups with at least one member intersecting
// area (nil means all), in discovery order.
func (c *Cache) GroupsIn(ix *Index, area *world.Rect, includeDisabled bool) []*Group {
	var out []*Group
	for _, g := range c.Groups(ix) {
		if !includeDisabled && g.Disabled() {
			continue
		}
		if area != nil && !g.Intersects(*area) {
			continue
		}
		out = append(out, g)
	}
	return out
}

// Cached returns true if the location has a memoized result
func (c *Cache) Cached(location string) bool {
	_, found := c.byLocation[location]
	return found
}

// Invalidate drops the memoized result for one location.
func (c *Cache) Invalidate(location string) {
	delete(c.byLocation, location)
}

// InvalidateTile drops the memoized result for the location containing the tile.
// Invalidation is per location, so the tile only identifies the location.
func (c *Cache) InvalidateTile(location string, _ world.Tile) {
	c.Invalidate(location)
}

// Reset drops every memoized result
func (c *Cache) Reset() {
	c.byLocation = make(map[string][]*Group)
}

// Stats returns the number of cache hits and misses so far
func (c *Cache) Stats() (hits, misses int) {
	return c.hits, c.misses
}
