// Package grid owns the material field and advances it one tick at a time:
// a bottom-to-top movement pass followed by a top-to-bottom reaction pass.
package grid

import (
	"mad-sand/internal/core"
	"mad-sand/internal/material"
)

// Mask states for the per-tick update mask.
const (
	untouched uint8 = iota
	visited
	moved
)

// Grid stores cells, per-cell timers and the update mask as parallel arrays
// indexed identically.
type Grid struct {
	w, h    int
	cells   *core.ByteGrid
	timer   []uint16
	updated []uint8
	audit   []uint8

	rng *core.RNG
}

// New allocates an empty grid drawing randomness from rng.
func New(w, h int, rng *core.RNG) *Grid {
	cells := core.NewByteGrid(w, h)
	total := cells.W * cells.H
	return &Grid{
		w:       cells.W,
		h:       cells.H,
		cells:   cells,
		timer:   make([]uint16, total),
		updated: make([]uint8, total),
		rng:     rng,
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Cells exposes the material identifiers in row-major order for rendering.
// Callers must treat the slice as read-only.
func (g *Grid) Cells() []uint8 { return g.cells.Cells() }

// InBounds reports whether (x, y) is inside the grid.
func (g *Grid) InBounds(x, y int) bool { return g.cells.InBounds(x, y) }

// At returns the material at (x, y). Outside the grid everything is stone.
func (g *Grid) At(x, y int) material.Material {
	return material.Material(g.cells.Get(x, y, uint8(material.Stone)))
}

// Solid reports whether (x, y) blocks actors. The world edge is solid.
func (g *Grid) Solid(x, y int) bool { return g.At(x, y).Solid() }

// Liquid reports whether (x, y) holds a liquid.
func (g *Grid) Liquid(x, y int) bool { return g.At(x, y).Liquid() }

// Set writes m at (x, y) and primes the cell timer for time-limited
// materials. Writes outside the grid are ignored.
func (g *Grid) Set(x, y int, m material.Material) {
	if !g.InBounds(x, y) || !m.Valid() {
		return
	}
	g.put(y*g.w+x, m)
}

// Timer returns the remaining lifetime of the cell at (x, y).
func (g *Grid) Timer(x, y int) int {
	if !g.InBounds(x, y) {
		return 0
	}
	return int(g.timer[y*g.w+x])
}

// PaintCircle sets every cell whose centre lies within radius of (cx, cy).
func (g *Grid) PaintCircle(cx, cy, radius int, m material.Material) {
	if radius < 0 {
		radius = 0
	}
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			g.Set(cx+dx, cy+dy, m)
		}
	}
}

// Clear empties every cell.
func (g *Grid) Clear() {
	g.cells.Clear()
	for i := range g.timer {
		g.timer[i] = 0
		g.updated[i] = untouched
	}
}

// Count returns how many cells currently hold m.
func (g *Grid) Count(m material.Material) int {
	n := 0
	for _, c := range g.cells.Cells() {
		if material.Material(c) == m {
			n++
		}
	}
	return n
}

// EnableAudit turns on per-cell write counting for the movement pass.
func (g *Grid) EnableAudit() {
	if g.audit == nil {
		g.audit = make([]uint8, len(g.updated))
	}
}

// MoveWrites returns how many times each cell was written by the most recent
// movement pass. It is nil unless EnableAudit was called.
func (g *Grid) MoveWrites() []uint8 { return g.audit }

func (g *Grid) put(idx int, m material.Material) {
	g.cells.Cells()[idx] = uint8(m)
	g.timer[idx] = g.lifetime(m)
}

func (g *Grid) lifetime(m material.Material) uint16 {
	switch m {
	case material.Ember:
		return uint16(g.rng.Range(emberLifeMin, emberLifeMax))
	case material.Plasma:
		return uint16(g.rng.Range(plasmaLifeMin, plasmaLifeMax))
	case material.Electricity:
		return uint16(g.rng.Range(sparkLifeMin, sparkLifeMax))
	}
	return 0
}
