package ragdoll

import "math"

// Terrain is the read side of the grid seen by actors.
type Terrain interface {
	Width() int
	Height() int
	Solid(x, y int) bool
	Liquid(x, y int) bool
}

// Contact classifies how a point was resolved against the terrain.
type Contact int

const (
	NoContact Contact = iota
	GroundContact
	WallContact
)

const (
	// surfaceEpsilon keeps a resting point just above the row below it.
	surfaceEpsilon = 0.05
	wallScan       = 4
	groundScan     = 8
	// minY is the ceiling of the playfield for actors.
	minY = 5.0
)

func cellOf(v float64) int { return int(math.Floor(v)) }

// ResolvePoint pushes a point that ended inside a solid cell back out. A
// point with solid above it is treated as hitting a wall and is moved to the
// nearest clear column; otherwise it is lifted onto the surface.
func ResolvePoint(t Terrain, p *Point, cfg Config) Contact {
	cx, cy := cellOf(p.Pos.X()), cellOf(p.Pos.Y())
	if !t.Solid(cx, cy) {
		return NoContact
	}
	if t.Solid(cx, cy-1) {
		if x, ok := clearColumn(t, cx, cy, p.Velocity().X()); ok {
			p.Pos[0] = x
			p.Prev[0] = x
			return WallContact
		}
	}
	for up := 1; up <= groundScan; up++ {
		if t.Solid(cx, cy-up) {
			continue
		}
		vx := (p.Pos.X() - p.Prev.X()) * cfg.GroundFriction
		p.Pos[1] = float64(cy-up+1) - surfaceEpsilon
		p.Prev[1] = p.Pos[1]
		p.Prev[0] = p.Pos[0] - vx
		return GroundContact
	}
	// Buried too deep to find a surface; undo the step.
	p.Pos = p.Prev
	return GroundContact
}

// clearColumn finds the nearest non-solid column on the point's row. Ties go
// against the direction of travel.
func clearColumn(t Terrain, cx, cy int, vx float64) (float64, bool) {
	for d := 1; d <= wallScan; d++ {
		left := !t.Solid(cx-d, cy)
		right := !t.Solid(cx+d, cy)
		switch {
		case left && right:
			if vx > 0 {
				return float64(cx-d+1) - surfaceEpsilon, true
			}
			return float64(cx+d) + surfaceEpsilon, true
		case left:
			return float64(cx-d+1) - surfaceEpsilon, true
		case right:
			return float64(cx+d) + surfaceEpsilon, true
		}
	}
	return 0, false
}

// ClampToWorld keeps a point inside the playfield, zeroing the velocity
// component that was clipped.
func ClampToWorld(p *Point, w, h int) {
	maxX := float64(w - 1)
	maxY := float64(h) - surfaceEpsilon
	if x := p.Pos.X(); x < 1 || x > maxX {
		p.Pos[0] = math.Min(math.Max(x, 1), maxX)
		p.Prev[0] = p.Pos[0]
	}
	if y := p.Pos.Y(); y < minY || y > maxY {
		p.Pos[1] = math.Min(math.Max(y, minY), maxY)
		p.Prev[1] = p.Pos[1]
	}
}

// Collide resolves every point and reports whether any touched ground.
func (b *Body) Collide(t Terrain, cfg Config) bool {
	w, h := t.Width(), t.Height()
	ground := false
	for i := range b.Points {
		p := &b.Points[i]
		ClampToWorld(p, w, h)
		if ResolvePoint(t, p, cfg) == GroundContact {
			ground = true
		}
	}
	return ground
}

// footing returns the top of the ground supporting a foot: the foot's own
// cell or the one below it.
func footing(t Terrain, p *Point) (float64, bool) {
	cx, cy := cellOf(p.Pos.X()), cellOf(p.Pos.Y())
	for dy := 0; dy <= 1; dy++ {
		if t.Solid(cx, cy+dy) {
			return float64(cy+dy) - surfaceEpsilon, true
		}
	}
	return 0, false
}

// Footing reports the ground height under the body's feet. The higher of the
// two supports wins.
func (b *Body) Footing(t Terrain) (float64, bool) {
	l, okL := footing(t, &b.Points[FootL])
	r, okR := footing(t, &b.Points[FootR])
	switch {
	case okL && okR:
		return math.Min(l, r), true
	case okL:
		return l, true
	case okR:
		return r, true
	}
	return 0, false
}

// InLiquid counts the points sitting in liquid cells and reports whether the
// hip is one of them.
func (b *Body) InLiquid(t Terrain) (count int, hip bool) {
	for j := range b.Points {
		p := &b.Points[j]
		if t.Liquid(cellOf(p.Pos.X()), cellOf(p.Pos.Y())) {
			count++
			if Joint(j) == Hip {
				hip = true
			}
		}
	}
	return count, hip
}
