package sandbox

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"mad-sand/internal/material"
	"mad-sand/internal/ragdoll"
)

const (
	pickupReach    = 4.0
	aimVertical    = 10.0
	grenadeDrag    = 0.99
	grenadeBounceY = -0.5
	grenadeBounceX = 0.7
	grenadeRest    = 0.5
	hitReach       = 2.0
	bloodPerShot   = 6
	bloodPerSlash  = 4
)

func (w *World) stepWeapons() {
	w.cullWeapons()
	var spent []uint32
	for _, wp := range w.weapons {
		switch wp.Kind {
		case Bomb:
			w.fall(wp)
			if w.countdown(wp) {
				spent = append(spent, wp.ID)
			}
		case Grenade:
			if !wp.Armed {
				w.flyGrenade(wp)
				continue
			}
			w.fall(wp)
			if w.countdown(wp) {
				spent = append(spent, wp.ID)
			}
		case Gun:
			if holder := w.wield(wp); holder != nil {
				w.fireGun(wp, holder)
			}
		case Sword:
			if holder := w.wield(wp); holder != nil {
				w.swingSword(wp, holder)
			}
		}
	}
	for _, id := range spent {
		w.detonate(id)
	}
}

// cullWeapons drops loose weapons that are outside the grid. Out-of-bounds
// cells read as stone, so such a weapon would otherwise rest there forever.
func (w *World) cullWeapons() {
	kept := w.weapons[:0]
	for _, wp := range w.weapons {
		if wp.Holder == 0 && !w.inWorld(wp.Pos) {
			w.log.WithField("weapon", wp.Kind.String()).Debug("weapon left the world")
			continue
		}
		kept = append(kept, wp)
	}
	clear(w.weapons[len(kept):])
	w.weapons = kept
}

// countdown runs an armed fuse and reports when it hits zero.
func (w *World) countdown(wp *Weapon) bool {
	if !wp.Armed {
		return false
	}
	wp.Fuse--
	return wp.Fuse <= 0
}

// detonate removes a bomb or grenade and explodes it. Fuses cut short by the
// blast go off on later ticks.
func (w *World) detonate(id uint32) {
	idx := -1
	for i, wp := range w.weapons {
		if wp.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	wp := w.weapons[idx]
	w.weapons = append(w.weapons[:idx], w.weapons[idx+1:]...)
	radius, power := w.cfg.Params.BombRadius, w.cfg.Params.BombPower
	if wp.Kind == Grenade {
		radius, power = w.cfg.Params.GrenadeRadius, w.cfg.Params.GrenadePower
	}
	w.TriggerExplosion(wp.Pos.X(), wp.Pos.Y(), radius, power)
}

// fall drops an object one cell per tick while the cell below is empty.
func (w *World) fall(wp *Weapon) {
	if wp.Holder != 0 {
		return
	}
	below := w.grid.At(cellOf(wp.Pos.X()), cellOf(wp.Pos.Y())+1)
	wp.Grounded = below != material.Empty
	if !wp.Grounded {
		wp.Pos[1]++
	}
}

// flyGrenade integrates a grenade in flight, bouncing it off anything that
// is neither empty, gas nor water. It arms once a bounce leaves it slow.
func (w *World) flyGrenade(wp *Weapon) {
	prm := w.cfg.Params
	wp.Vel[1] += prm.GrenadeGravity
	wp.Vel = wp.Vel.Mul(grenadeDrag)
	next := wp.Pos.Add(wp.Vel)
	m := w.cellAt(next)
	if !w.inWorld(next) || m.Solid() || (m.Liquid() && m != material.Water) {
		wp.Vel[1] *= grenadeBounceY
		wp.Vel[0] *= grenadeBounceX
		if wp.Vel.Len() < grenadeRest {
			wp.Vel = mgl64.Vec2{}
			wp.Grounded = true
			wp.Armed = true
			wp.Fuse = prm.GrenadeFuse
		}
		return
	}
	wp.Pos = next
}

// wield handles pickup and dropping of hand weapons and returns the live
// holder, if any.
func (w *World) wield(wp *Weapon) *ragdoll.Person {
	if wp.Holder != 0 {
		holder := w.Person(wp.Holder)
		if holder != nil && holder.Alive {
			wp.Pos = holder.Point(ragdoll.HandR).Pos
			wp.Facing = holder.WalkDir
			if wp.Cooldown > 0 {
				wp.Cooldown--
			}
			return holder
		}
		wp.Holder = 0
		wp.Cooldown = 0
	}
	w.fall(wp)
	var best *ragdoll.Person
	bestDist := pickupReach
	for _, p := range w.people {
		if !p.Alive || p.Riding != 0 || w.holding(p.ID) {
			continue
		}
		if d := p.Position().Sub(wp.Pos).Len(); d <= bestDist {
			best, bestDist = p, d
		}
	}
	if best != nil {
		wp.Holder = best.ID
		wp.Grounded = false
	}
	return nil
}

func (w *World) holding(id uint32) bool {
	for _, wp := range w.weapons {
		if wp.Holder == id {
			return true
		}
	}
	return false
}

func (w *World) fireGun(wp *Weapon, holder *ragdoll.Person) {
	if wp.Cooldown > 0 {
		return
	}
	prm := w.cfg.Params
	var target *ragdoll.Person
	bestDist := math.Inf(1)
	for _, p := range w.people {
		if p == holder || !p.Alive {
			continue
		}
		d := p.Position().Sub(wp.Pos)
		ahead := d.X() * float64(wp.Facing)
		if ahead <= 0 || ahead > prm.GunRange || math.Abs(d.Y()) > aimVertical {
			continue
		}
		if ahead < bestDist {
			target, bestDist = p, ahead
		}
	}
	if target == nil {
		return
	}
	dir := target.Position().Sub(wp.Pos).Normalize()
	w.projectiles = append(w.projectiles, Projectile{
		Pos:   wp.Pos.Add(dir),
		Vel:   dir.Mul(prm.ProjectileSpeed),
		Life:  prm.ProjectileLife,
		Owner: holder.ID,
	})
	wp.Cooldown = prm.GunCooldown
}

func (w *World) swingSword(wp *Weapon, holder *ragdoll.Person) {
	if wp.Cooldown > 0 {
		return
	}
	prm := w.cfg.Params
	for _, p := range w.people {
		if p == holder || !p.Alive {
			continue
		}
		if p.Position().Sub(wp.Pos).Len() > prm.SwordReach {
			continue
		}
		w.hurt(p, prm.SwordDamage, "sword")
		w.spawnBlood(p.Position(), bloodPerSlash)
		wp.Cooldown = prm.SwordCooldown
		return
	}
}

// stepProjectiles moves bullets in sub-steps no longer than one cell so they
// cannot tunnel through thin walls or actors.
func (w *World) stepProjectiles() {
	prm := w.cfg.Params
	kept := w.projectiles[:0]
	for _, pr := range w.projectiles {
		if w.flyProjectile(&pr, prm.ProjectileHit) {
			kept = append(kept, pr)
		}
	}
	w.projectiles = kept
}

func (w *World) flyProjectile(pr *Projectile, damage float64) bool {
	steps := int(math.Ceil(pr.Vel.Len()))
	if steps < 1 {
		steps = 1
	}
	inc := pr.Vel.Mul(1 / float64(steps))
	for i := 0; i < steps; i++ {
		pr.Pos = pr.Pos.Add(inc)
		if !w.inWorld(pr.Pos) || w.cellAt(pr.Pos).Solid() {
			return false
		}
		if p := w.personNear(pr.Pos, hitReach, pr.Owner); p != nil {
			w.hurt(p, damage, "shot")
			w.spawnBlood(pr.Pos, bloodPerShot)
			return false
		}
	}
	pr.Life--
	return pr.Life > 0
}

// personNear returns a live actor with any point within reach of pos.
func (w *World) personNear(pos mgl64.Vec2, reach float64, skip uint32) *ragdoll.Person {
	for _, p := range w.people {
		if !p.Alive || p.ID == skip {
			continue
		}
		for j := range p.Body.Points {
			if p.Body.Points[j].Pos.Sub(pos).Len() <= reach {
				return p
			}
		}
	}
	return nil
}
