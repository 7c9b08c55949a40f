package grid

import "mad-sand/internal/material"

// Rule probabilities and ranges. These are tuned together; changing one
// shifts the look of the whole field.
const (
	waterSpreadMin = 5
	waterSpreadMax = 10
	oilSpreadMin   = 4
	oilSpreadMax   = 7
	acidSpreadMin  = 3
	acidSpreadMax  = 6
	lavaSpreadMin  = 1
	lavaSpreadMax  = 2
	lavaMoveChance = 0.5

	fireDecayChance     = 0.1
	fireDecayNearFuel   = 0.02
	smokeVanishChance   = 0.02
	steamVanishChance   = 0.01
	steamCondenseChance = 0.002
	sparkConductChance  = 0.5
	emberDriftChance    = 0.3
	emberSmokeChance    = 0.02

	emberLifeMin  = 120
	emberLifeMax  = 239
	plasmaLifeMin = 20
	plasmaLifeMax = 39
	sparkLifeMin  = 8
	sparkLifeMax  = 15
)

var neighbours4 = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

func isEmpty(m material.Material) bool { return m == material.Empty }

func emptyOrLiquid(m material.Material) bool { return m == material.Empty || m.Liquid() }

func emptyOrOil(m material.Material) bool { return m == material.Empty || m == material.Oil }

// tryMove swaps idx with (x, y) when that cell may be written and its
// material satisfies accept.
func (g *Grid) tryMove(idx, x, y int, accept func(material.Material) bool) bool {
	t, ok := g.target(x, y)
	if !ok || !accept(g.At(x, y)) {
		return false
	}
	g.swap(idx, t)
	return true
}

// fallDiagonal tries the lower diagonals, first toward side then away.
func (g *Grid) fallDiagonal(idx, x, y, side int, accept func(material.Material) bool) bool {
	if g.tryMove(idx, x+side, y+1, accept) {
		return true
	}
	return g.tryMove(idx, x-side, y+1, accept)
}

// spread moves a liquid sideways to the farthest reachable empty cell within
// dist, trying first then the opposite side. A run stops early above a hole
// so the liquid drops on the next tick instead of skating over it.
func (g *Grid) spread(idx, x, y, dist, first int) bool {
	for _, dir := range [2]int{first, -first} {
		best := -1
		for i := 1; i <= dist; i++ {
			nx := x + dir*i
			t, ok := g.target(nx, y)
			if !ok || g.At(nx, y) != material.Empty {
				break
			}
			best = t
			if g.At(nx, y+1) == material.Empty {
				break
			}
		}
		if best >= 0 {
			g.swap(idx, best)
			return true
		}
	}
	return false
}

func (g *Grid) movePowder(x, y, idx int) bool {
	if g.tryMove(idx, x, y+1, emptyOrLiquid) {
		return true
	}
	return g.fallDiagonal(idx, x, y, g.rng.Sign(), emptyOrLiquid)
}

// Water tries its diagonals left then right without randomising the side,
// unlike oil. The asymmetry is part of the rule set.
func (g *Grid) moveWater(x, y, idx int) bool {
	if g.tryMove(idx, x, y+1, emptyOrOil) {
		return true
	}
	if g.fallDiagonal(idx, x, y, -1, isEmpty) {
		return true
	}
	return g.spread(idx, x, y, g.rng.Range(waterSpreadMin, waterSpreadMax), g.rng.Sign())
}

func (g *Grid) moveOil(x, y, idx int) bool {
	if g.tryMove(idx, x, y+1, isEmpty) {
		return true
	}
	if g.fallDiagonal(idx, x, y, g.rng.Sign(), isEmpty) {
		return true
	}
	return g.spread(idx, x, y, g.rng.Range(oilSpreadMin, oilSpreadMax), g.rng.Sign())
}

func (g *Grid) moveAcid(x, y, idx int) bool {
	if g.tryMove(idx, x, y+1, isEmpty) {
		return true
	}
	if g.fallDiagonal(idx, x, y, -1, isEmpty) {
		return true
	}
	return g.spread(idx, x, y, g.rng.Range(acidSpreadMin, acidSpreadMax), g.rng.Sign())
}

func (g *Grid) moveLava(x, y, idx int) bool {
	if !g.rng.Chance(lavaMoveChance) {
		return false
	}
	if g.tryMove(idx, x, y+1, isEmpty) {
		return true
	}
	if g.fallDiagonal(idx, x, y, g.rng.Sign(), isEmpty) {
		return true
	}
	return g.spread(idx, x, y, g.rng.Range(lavaSpreadMin, lavaSpreadMax), g.rng.Sign())
}

func (g *Grid) moveFire(x, y, idx int) bool {
	fuel := g.touches(x, y, material.Material.Flammable)
	decay := fireDecayChance
	if fuel {
		decay = fireDecayNearFuel
	}
	if g.rng.Chance(decay) {
		g.transmute(idx, material.Smoke)
		return true
	}
	if fuel {
		return false
	}
	return g.rise(x, y, idx)
}

func (g *Grid) moveSmoke(x, y, idx int) bool {
	if g.rng.Chance(smokeVanishChance) {
		g.transmute(idx, material.Empty)
		return true
	}
	return g.rise(x, y, idx)
}

func (g *Grid) moveSteam(x, y, idx int) bool {
	if g.rng.Chance(steamVanishChance) {
		g.transmute(idx, material.Empty)
		return true
	}
	if g.Solid(x, y-1) && g.rng.Chance(steamCondenseChance) {
		g.transmute(idx, material.Water)
		return true
	}
	return g.rise(x, y, idx)
}

func (g *Grid) rise(x, y, idx int) bool {
	if g.tryMove(idx, x, y-1, isEmpty) {
		return true
	}
	side := g.rng.Sign()
	if g.tryMove(idx, x+side, y-1, isEmpty) {
		return true
	}
	return g.tryMove(idx, x-side, y-1, isEmpty)
}

func (g *Grid) moveSpark(x, y, idx int) bool {
	if g.rng.Chance(sparkConductChance) {
		var options [4]int
		n := 0
		for _, d := range neighbours4 {
			nx, ny := x+d[0], y+d[1]
			t, ok := g.target(nx, ny)
			if ok && g.At(nx, ny).Props().Conductive {
				options[n] = t
				n++
			}
		}
		if n > 0 {
			g.swap(idx, options[g.rng.IntN(n)])
			return true
		}
	}
	return g.tryMove(idx, x, y+1, isEmpty)
}

func (g *Grid) moveEmber(x, y, idx int) bool {
	if g.rng.Chance(emberDriftChance) && g.tryMove(idx, x, y+1, isEmpty) {
		return true
	}
	if g.rng.Chance(emberSmokeChance) {
		if t, ok := g.target(x, y-1); ok && g.At(x, y-1) == material.Empty {
			g.transmute(t, material.Smoke)
		}
	}
	return false
}

// touches reports whether any 4-neighbour of (x, y) satisfies pred.
func (g *Grid) touches(x, y int, pred func(material.Material) bool) bool {
	for _, d := range neighbours4 {
		nx, ny := x+d[0], y+d[1]
		if g.InBounds(nx, ny) && pred(g.At(nx, ny)) {
			return true
		}
	}
	return false
}
