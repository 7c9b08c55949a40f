package grid

import "mad-sand/internal/material"

const (
	fireIgniteWood  = 0.02
	fireIgniteOil   = 0.3
	fireBoilWater   = 0.5
	lavaGlassChance = 0.01
	lavaIgniteWood  = 0.05
	lavaIgniteOil   = 0.5
	emberFlareUp    = 0.005
	iceMeltChance   = 0.05
	acidEatChance   = 0.05
	acidSpentChance = 0.3
	plasmaEatChance = 0.3
	sparkIgnite     = 0.1
)

// react runs the neighbour-triggered state changes top to bottom. Reactions
// are local enough that a single in-place pass is acceptable.
func (g *Grid) react() {
	cells := g.cells.Cells()
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			idx := y*g.w + x
			switch material.Material(cells[idx]) {
			case material.Fire:
				g.reactFire(x, y)
			case material.Lava:
				g.reactLava(x, y)
			case material.Ember:
				g.reactEmber(x, y, idx)
			case material.Ice:
				g.reactIce(x, y, idx)
			case material.Acid:
				g.reactAcid(x, y, idx)
			case material.Plasma:
				g.reactPlasma(x, y, idx)
			case material.Electricity:
				g.reactSpark(x, y, idx)
			}
		}
	}
}

// eachNeighbour calls fn with the index and material of every in-bounds
// 4-neighbour. fn returns false to stop early.
func (g *Grid) eachNeighbour(x, y int, fn func(idx int, m material.Material) bool) {
	cells := g.cells.Cells()
	for _, d := range neighbours4 {
		nx, ny := x+d[0], y+d[1]
		if !g.InBounds(nx, ny) {
			continue
		}
		nidx := ny*g.w + nx
		if !fn(nidx, material.Material(cells[nidx])) {
			return
		}
	}
}

func (g *Grid) reactFire(x, y int) {
	g.eachNeighbour(x, y, func(n int, m material.Material) bool {
		switch {
		case m == material.Wood && g.rng.Chance(fireIgniteWood):
			g.put(n, material.Ember)
		case m == material.Oil && g.rng.Chance(fireIgniteOil):
			g.put(n, material.Fire)
		case m == material.Water && g.rng.Chance(fireBoilWater):
			g.put(n, material.Steam)
		}
		return true
	})
}

func (g *Grid) reactLava(x, y int) {
	g.eachNeighbour(x, y, func(n int, m material.Material) bool {
		switch {
		case m == material.Water:
			g.put(n, material.Stone)
		case m == material.Ice:
			g.put(n, material.Water)
		case m == material.Sand && g.rng.Chance(lavaGlassChance):
			g.put(n, material.Glass)
		case m == material.Wood && g.rng.Chance(lavaIgniteWood):
			g.put(n, material.Fire)
		case m == material.Oil && g.rng.Chance(lavaIgniteOil):
			g.put(n, material.Fire)
		}
		return true
	})
}

func (g *Grid) reactEmber(x, y, idx int) {
	quenched, fuel := false, false
	g.eachNeighbour(x, y, func(_ int, m material.Material) bool {
		if m.Props().Quenches {
			quenched = true
			return false
		}
		if m.Flammable() {
			fuel = true
		}
		return true
	})
	if quenched {
		g.put(idx, material.Ash)
		return
	}
	if g.timer[idx] <= 1 {
		g.put(idx, material.Ash)
		return
	}
	g.timer[idx]--
	if fuel && g.rng.Chance(emberFlareUp) {
		g.put(idx, material.Fire)
	}
}

func (g *Grid) reactIce(x, y, idx int) {
	if g.touches(x, y, material.Material.Hot) && g.rng.Chance(iceMeltChance) {
		g.put(idx, material.Water)
	}
}

func corrodes(m material.Material) bool {
	if m == material.Stone || m == material.Empty {
		return false
	}
	return m.Flammable() || m.Solid()
}

func (g *Grid) reactAcid(x, y, idx int) {
	g.eachNeighbour(x, y, func(n int, m material.Material) bool {
		if !corrodes(m) || !g.rng.Chance(acidEatChance) {
			return true
		}
		g.put(n, material.Empty)
		if g.rng.Chance(acidSpentChance) {
			g.put(idx, material.Empty)
			return false
		}
		return true
	})
}

func (g *Grid) reactPlasma(x, y, idx int) {
	if g.timer[idx] <= 1 {
		g.put(idx, material.Empty)
		return
	}
	g.timer[idx]--
	g.eachNeighbour(x, y, func(n int, m material.Material) bool {
		switch m {
		case material.Empty, material.Stone, material.Plasma:
		case material.Water, material.Ice:
			g.put(n, material.Steam)
		default:
			if g.rng.Chance(plasmaEatChance) {
				g.put(n, material.Empty)
			}
		}
		return true
	})
}

func (g *Grid) reactSpark(x, y, idx int) {
	if g.timer[idx] <= 1 {
		g.put(idx, material.Empty)
		return
	}
	g.timer[idx]--
	g.eachNeighbour(x, y, func(n int, m material.Material) bool {
		if m.Flammable() && g.rng.Chance(sparkIgnite) {
			g.put(n, material.Fire)
		}
		return true
	})
}
