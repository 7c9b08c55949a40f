package core

import "fmt"

// ByteGrid stores a 2D grid of byte-sized cell values in row-major order.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g *ByteGrid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// Index returns the linear slice index for coordinates (x, y). Callers must
// bounds-check first; an out of range index is a programming error.
func (g *ByteGrid) Index(x, y int) int {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("core: index (%d,%d) outside %dx%d grid", x, y, g.W, g.H))
	}
	return y*g.W + x
}

// Get returns the value at (x, y) or fallback when the coordinates are outside
// the grid.
func (g *ByteGrid) Get(x, y int, fallback uint8) uint8 {
	if !g.InBounds(x, y) {
		return fallback
	}
	return g.data[y*g.W+x]
}

// Set writes v at (x, y). Writes outside the grid are dropped.
func (g *ByteGrid) Set(x, y int, v uint8) {
	if !g.InBounds(x, y) {
		return
	}
	g.data[y*g.W+x] = v
}

// Fill sets every cell to v.
func (g *ByteGrid) Fill(v uint8) {
	for i := range g.data {
		g.data[i] = v
	}
}

// Clear fills the grid with zeros.
func (g *ByteGrid) Clear() { g.Fill(0) }
