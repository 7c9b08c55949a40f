package grid

import "mad-sand/internal/material"

// Step advances the material field by one tick.
func (g *Grid) Step() {
	for i := range g.updated {
		g.updated[i] = untouched
	}
	for i := range g.audit {
		g.audit[i] = 0
	}

	for y := g.h - 1; y >= 0; y-- {
		if g.rng.Bool() {
			for x := 0; x < g.w; x++ {
				g.update(x, y)
			}
		} else {
			for x := g.w - 1; x >= 0; x-- {
				g.update(x, y)
			}
		}
	}

	g.react()
}

func (g *Grid) update(x, y int) {
	idx := y*g.w + x
	if g.updated[idx] != untouched {
		return
	}
	m := material.Material(g.cells.Cells()[idx])
	if m == material.Empty {
		return
	}
	if !g.move(m, x, y, idx) && g.updated[idx] == untouched {
		g.updated[idx] = visited
	}
}

func (g *Grid) move(m material.Material, x, y, idx int) bool {
	switch m {
	case material.Sand:
		return g.movePowder(x, y, idx)
	case material.Water:
		return g.moveWater(x, y, idx)
	case material.Oil:
		return g.moveOil(x, y, idx)
	case material.Acid:
		return g.moveAcid(x, y, idx)
	case material.Lava:
		return g.moveLava(x, y, idx)
	case material.Fire:
		return g.moveFire(x, y, idx)
	case material.Smoke:
		return g.moveSmoke(x, y, idx)
	case material.Steam:
		return g.moveSteam(x, y, idx)
	case material.Plasma:
		return g.rise(x, y, idx)
	case material.Electricity:
		return g.moveSpark(x, y, idx)
	case material.Ember:
		return g.moveEmber(x, y, idx)
	}
	return false
}

// target returns the index of (x, y) if a move may write it this tick.
func (g *Grid) target(x, y int) (int, bool) {
	if !g.InBounds(x, y) {
		return 0, false
	}
	idx := y*g.w + x
	if g.updated[idx] == moved {
		return 0, false
	}
	return idx, true
}

func (g *Grid) swap(a, b int) {
	cells := g.cells.Cells()
	cells[a], cells[b] = cells[b], cells[a]
	g.timer[a], g.timer[b] = g.timer[b], g.timer[a]
	g.mark(a)
	g.mark(b)
}

// transmute rewrites a cell in place as part of the movement pass.
func (g *Grid) transmute(idx int, m material.Material) {
	g.put(idx, m)
	g.mark(idx)
}

func (g *Grid) mark(idx int) {
	g.updated[idx] = moved
	if g.audit != nil {
		g.audit[idx]++
	}
}
