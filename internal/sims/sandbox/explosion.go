package sandbox

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"mad-sand/internal/material"
	"mad-sand/internal/ragdoll"
)

const (
	blastReach     = 1.5
	blastLift      = 0.3
	blastScatter   = 0.2
	coreFraction   = 0.3
	detachFraction = 0.5
	detachDamage   = 30
	gibFraction    = 0.2
	bloodPerHit    = 8
)

var limbEnds = []ragdoll.Joint{ragdoll.HandL, ragdoll.HandR, ragdoll.FootL, ragdoll.FootR}

// bodyParts are the pieces a body breaks into: each gib is tagged with part
// and spawned where joint at currently is.
var bodyParts = []struct{ part, at ragdoll.Joint }{
	{ragdoll.Head, ragdoll.Head},
	{ragdoll.Hip, ragdoll.Hip},
	{ragdoll.HandL, ragdoll.ElbowL},
	{ragdoll.HandR, ragdoll.ElbowR},
	{ragdoll.FootL, ragdoll.KneeL},
	{ragdoll.FootR, ragdoll.KneeR},
}

// TriggerExplosion detonates at (x, y). Cells inside radius are burnt or
// blown away (stone survives), actors within 1.5 radius are thrown and hurt,
// and bombs or grenades inside radius have their fuses cut short.
func (w *World) TriggerExplosion(x, y float64, radius int, power float64) {
	if radius <= 0 {
		return
	}
	prm := w.cfg.Params
	w.detonations++
	w.explosions = append(w.explosions, Explosion{
		X: x, Y: y,
		MaxRadius: float64(radius),
		MaxAge:    prm.ExplosionMaxAge,
	})
	w.log.WithFields(logrus.Fields{
		"x": x, "y": y, "radius": radius, "power": power, "tick": w.tick,
	}).Debug("explosion")

	w.blastCells(x, y, radius)

	origin := mgl64.Vec2{x, y}
	r := float64(radius)
	reach := r * blastReach
	for _, p := range w.people {
		w.blastPerson(p, origin, r, reach, power)
	}
	for _, wp := range w.weapons {
		if wp.Holder != 0 || (wp.Kind != Bomb && wp.Kind != Grenade) {
			continue
		}
		if wp.Pos.Sub(origin).Len() > r {
			continue
		}
		if !wp.Armed || wp.Fuse > prm.ChainFuse {
			wp.Fuse = prm.ChainFuse
		}
		wp.Armed = true
	}
	for _, v := range w.vehicles {
		d := v.Pos.Sub(origin)
		dist := d.Len()
		if dist > reach || dist == 0 {
			continue
		}
		f := 1 - dist/reach
		v.Vel = v.Vel.Add(d.Normalize().Mul(power * f * prm.ImpulseScale))
	}
}

// blastCells converts every cell whose centre lies within radius of (ox, oy).
func (w *World) blastCells(ox, oy float64, radius int) {
	r := float64(radius)
	r2 := r * r
	for y := cellOf(oy - r); y <= cellOf(oy+r); y++ {
		for x := cellOf(ox - r); x <= cellOf(ox+r); x++ {
			dx, dy := float64(x)+0.5-ox, float64(y)+0.5-oy
			if dx*dx+dy*dy > r2 {
				continue
			}
			if !w.grid.InBounds(x, y) {
				continue
			}
			m := w.grid.At(x, y)
			if m == material.Empty || m == material.Stone {
				continue
			}
			roll := w.rng.Float64()
			switch {
			case roll < 0.15:
				w.grid.Set(x, y, material.Fire)
			case roll < 0.40:
				w.grid.Set(x, y, material.Smoke)
			default:
				w.grid.Set(x, y, material.Empty)
			}
		}
	}
}

func (w *World) blastPerson(p *ragdoll.Person, origin mgl64.Vec2, r, reach, power float64) {
	prm := w.cfg.Params
	hip := p.Position()
	offset := hip.Sub(origin)
	dist := offset.Len()
	if dist > reach {
		return
	}
	dir := mgl64.Vec2{0, -1}
	if dist > 1e-6 {
		dir = offset.Mul(1 / dist)
	}
	f := 1 - dist/reach

	if v := w.vehicle(p.Riding); v != nil {
		v.Driver = 0
	}
	p.Riding = 0

	impulse := power * f * prm.ImpulseScale
	for j := range p.Body.Points {
		kick := dir.Mul(impulse * (1 + w.rng.Spread(blastScatter)))
		kick[1] -= blastLift * impulse
		p.Body.Points[j].Push(kick)
	}
	p.Knockdown = prm.KnockdownTicks

	if p.Alive {
		damage := power * f * prm.DamageScale
		if dist < r*coreFraction {
			damage += prm.CoreDamage
		}
		w.hurt(p, damage, "explosion")
		w.spawnBlood(hip, bloodPerHit)

		if dist < r*detachFraction && damage > detachDamage && w.rng.Chance(prm.DetachChance) {
			w.detachRandomLimb(p, dir.Mul(impulse))
		}
	}
	if dist < r*gibFraction {
		w.die(p, "explosion")
		if !p.Flags.GibsSpawned {
			p.Flags.GibsSpawned = true
			w.breakUp(p, origin, impulse)
		}
	}
}

// breakUp scatters the body into one gib per remaining part, each thrown
// away from origin.
func (w *World) breakUp(p *ragdoll.Person, origin mgl64.Vec2, impulse float64) {
	speed := 1 + impulse
	for _, bp := range bodyParts {
		if bp.part != ragdoll.Head && bp.part != ragdoll.Hip && limbGone(p.Flags, bp.part) {
			continue
		}
		at := p.Point(bp.at).Pos
		dir := mgl64.Vec2{0, -1}
		if d := at.Sub(origin); d.Len() > 1e-6 {
			dir = d.Normalize()
		}
		// Scatter is at most 0.29*speed, so every gib keeps moving away from origin.
		scatter := mgl64.Vec2{w.rng.Spread(blastScatter), w.rng.Spread(blastScatter)}.Mul(speed)
		w.spawnGib(at, dir.Mul(speed).Add(scatter), bp.part)
	}
}

func (w *World) detachRandomLimb(p *ragdoll.Person, vel mgl64.Vec2) {
	var remaining []ragdoll.Joint
	for _, j := range limbEnds {
		if !limbGone(p.Flags, j) {
			remaining = append(remaining, j)
		}
	}
	if len(remaining) == 0 {
		return
	}
	limb := remaining[w.rng.IntN(len(remaining))]
	if p.Detach(limb) {
		w.spawnGib(p.Point(limb).Pos, vel, limb)
	}
}

func limbGone(f ragdoll.Flags, j ragdoll.Joint) bool {
	switch j {
	case ragdoll.HandL:
		return f.ArmLDetached
	case ragdoll.HandR:
		return f.ArmRDetached
	case ragdoll.FootL:
		return f.LegLDetached
	case ragdoll.FootR:
		return f.LegRDetached
	}
	return true
}

func (w *World) ageExplosions() {
	kept := w.explosions[:0]
	for _, e := range w.explosions {
		e.Age++
		if e.Age >= e.MaxAge {
			continue
		}
		grow := float64(e.Age) / float64(e.MaxAge) * 2
		e.Radius = e.MaxRadius * math.Min(1, grow)
		kept = append(kept, e)
	}
	w.explosions = kept
}
