// Package terminal reports properties of the terminal attached to stdout.
package terminal

import (
	"os"

	"golang.org/x/term"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// GetSize returns the current terminal width and height.
// Falls back to defaults if the size cannot be determined.
func GetSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return width, height
}

// GetWidth returns the current terminal width.
// Falls back to DefaultWidth if the width cannot be determined.
func GetWidth() int {
	width, _ := GetSize()
	return width
}

// IsInteractive returns true if stdout is a terminal, i.e. color output will be seen.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Columns returns how many tile columns fit on one line when each tile is
// drawn cellWidth characters wide, leaving room for a row label of labelWidth.
func Columns(cellWidth, labelWidth int) int {
	if cellWidth <= 0 {
		cellWidth = 1
	}
	cols := (GetWidth() - labelWidth) / cellWidth
	if cols < 1 {
		return 1
	}
	return cols
}
