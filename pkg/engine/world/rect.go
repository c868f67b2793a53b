package world

import (
	"fmt"
	"strconv"
	"strings"
)

// Rect is a tile-aligned rectangle. A rect with a non-positive width or height
// covers no tiles.
type Rect struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// R is shorthand for Rect{X: x, Y: y, Width: w, Height: h}.
func R(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// TileRect returns the 1x1 rect covering a single tile.
func TileRect(t Tile) Rect {
	return Rect{X: t.X, Y: t.Y, Width: 1, Height: 1}
}

// ParseRect parses "x,y,w,h".
func ParseRect(s string) (Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Rect{}, fmt.Errorf("rect %q: want x,y,w,h", s)
	}
	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Rect{}, fmt.Errorf("rect %q: %w", s, err)
		}
		vals[i] = v
	}
	return Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// String returns "x,y,w,h".
func (r Rect) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height)
}

// Empty returns true if the rect covers no tiles
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Right returns the exclusive right edge
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the exclusive bottom edge
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Area returns the number of tiles covered
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Contains returns true if the tile lies inside the rect
func (r Rect) Contains(t Tile) bool {
	return t.X >= r.X && t.X < r.Right() && t.Y >= r.Y && t.Y < r.Bottom()
}

// Intersects returns true if the two rects share at least one tile
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Expand grows the rect by n tiles on every side
func (r Rect) Expand(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

// Tiles returns every covered tile in row-major order.
func (r Rect) Tiles() []Tile {
	if r.Empty() {
		return nil
	}
	out := make([]Tile, 0, r.Area())
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			out = append(out, Tile{X: x, Y: y})
		}
	}
	return out
}

// ForEachTile calls fn for every covered tile in row-major order.
func (r Rect) ForEachTile(fn func(t Tile)) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			fn(Tile{X: x, Y: y})
		}
	}
}
