// Package world provides generic 2D tile geometry shared by the mod frameworks.
package world

import "fmt"

// Tile is a tile coordinate within a location.
type Tile struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// T is shorthand for Tile{X: x, Y: y}.
func T(x, y int) Tile {
	return Tile{X: x, Y: y}
}

// String returns "x,y".
func (t Tile) String() string {
	return fmt.Sprintf("%d,%d", t.X, t.Y)
}

// Neighbor returns the tile adjacent in the given direction.
func (t Tile) Neighbor(dir Direction) Tile {
	dx, dy := dir.Delta()
	return Tile{X: t.X + dx, Y: t.Y + dy}
}

// Neighbors returns the four orthogonally adjacent tiles, in AllDirections order.
// Diagonals are never included.
func (t Tile) Neighbors() []Tile {
	dirs := AllDirections()
	out := make([]Tile, 0, len(dirs))
	for _, dir := range dirs {
		out = append(out, t.Neighbor(dir))
	}
	return out
}

// Below returns the tile directly under this one.
func (t Tile) Below() Tile {
	return t.Neighbor(Down)
}
