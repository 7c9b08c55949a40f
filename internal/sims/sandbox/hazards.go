package sandbox

import (
	"math"

	"github.com/sirupsen/logrus"

	"mad-sand/internal/material"
	"mad-sand/internal/ragdoll"
)

// acidDissolvePoints is how many points of a corpse must sit in acid before
// it falls apart.
const acidDissolvePoints = 4

// applyHazards samples the grid under every point of an actor and applies
// contact damage, burning, quenching and the water flag.
func (w *World) applyHazards(p *ragdoll.Person) {
	prm := w.cfg.Params
	var (
		total, worst float64
		cause        material.Material
		burns        bool
		quench       bool
		liquid, acid int
		hipLiquid    bool
	)
	for j := range p.Body.Points {
		m := w.cellAt(p.Body.Points[j].Pos)
		props := m.Props()
		total += props.Hazard
		if props.Hazard > worst {
			worst, cause = props.Hazard, m
		}
		burns = burns || props.Burns
		quench = quench || props.Quenches
		if props.Liquid {
			liquid++
			if ragdoll.Joint(j) == ragdoll.Hip {
				hipLiquid = true
			}
		}
		if m == material.Acid {
			acid++
		}
	}
	p.InWater = hipLiquid || liquid >= 3

	if !p.Alive {
		if acid >= acidDissolvePoints && !p.Flags.AcidDissolved {
			w.dissolve(p)
		}
		return
	}

	if burns {
		p.OnFire = true
		p.BurnTimer = prm.BurnTicks
	}
	if quench {
		p.OnFire = false
		p.BurnTimer = 0
		p.Health = math.Min(ragdoll.MaxHealth, p.Health+prm.QuenchHeal)
	}

	damage := total * prm.HazardScale
	reason := cause.String()
	if p.OnFire {
		damage += prm.BurnDamage
		if worst == 0 {
			reason = "burning"
		}
		p.BurnTimer--
		if p.BurnTimer <= 0 {
			p.OnFire = false
		}
		if prm.FlickerPeriod > 0 && w.tick%uint64(prm.FlickerPeriod) == 0 {
			p.Flicker = !p.Flicker
		}
		if w.rng.Chance(prm.BurnSpread) {
			pt := p.Body.Points[w.rng.IntN(int(ragdoll.JointCount))].Pos
			x, y := cellOf(pt.X()), cellOf(pt.Y())
			if w.grid.At(x, y).Flammable() {
				w.grid.Set(x, y, material.Fire)
			}
		}
	} else {
		p.Flicker = false
	}
	w.hurt(p, damage, reason)
}

// hurt lowers an actor's health and kills it at zero.
func (w *World) hurt(p *ragdoll.Person, amount float64, cause string) {
	if !p.Alive || amount <= 0 {
		return
	}
	p.Health -= amount
	if p.Health <= 0 {
		w.die(p, cause)
	}
}

// die kills an actor once. Repeated calls are no-ops.
func (w *World) die(p *ragdoll.Person, cause string) {
	rider := p.Riding
	if !p.Kill(cause) {
		return
	}
	if v := w.vehicle(rider); v != nil && v.Driver == p.ID {
		v.Driver = 0
	}
	w.deaths++
	hip := p.Position()
	w.log.WithFields(logrus.Fields{
		"person": p.ID,
		"cause":  cause,
		"x":      hip.X(),
		"y":      hip.Y(),
		"tick":   w.tick,
	}).Info("actor died")
}

// dissolve breaks a corpse apart in acid.
func (w *World) dissolve(p *ragdoll.Person) {
	p.Flags.AcidDissolved = true
	for _, limb := range []ragdoll.Joint{ragdoll.HandL, ragdoll.HandR, ragdoll.FootL, ragdoll.FootR} {
		if p.Detach(limb) {
			w.spawnGib(p.Point(limb).Pos, p.Point(limb).Velocity(), limb)
		}
	}
	w.spawnBlood(p.Position(), 4)
}
