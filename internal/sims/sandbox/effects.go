package sandbox

import (
	"github.com/go-gl/mathgl/mgl64"

	"mad-sand/internal/ragdoll"
)

func (w *World) spawnBlood(at mgl64.Vec2, n int) {
	for i := 0; i < n; i++ {
		w.blood = append(w.blood, Blood{
			Pos:  at,
			Vel:  mgl64.Vec2{w.rng.Spread(1), -w.rng.Float64() * 1.5},
			Life: bloodLife,
		})
	}
}

func (w *World) spawnGib(at, vel mgl64.Vec2, part ragdoll.Joint) {
	w.gibs = append(w.gibs, Gib{Pos: at, Vel: vel, Life: gibLife, Part: part})
}

func (w *World) stepBlood() {
	kept := w.blood[:0]
	for _, b := range w.blood {
		b.Life--
		if b.Life <= 0 {
			continue
		}
		if !b.Stuck {
			b.Vel[1] += bloodGravity
			next := b.Pos.Add(b.Vel)
			if !w.inWorld(next) {
				continue
			}
			if w.cellAt(next).Solid() {
				b.Stuck = true
				b.Vel = mgl64.Vec2{}
				b.Life = min(b.Life, bloodStuckLife)
			} else {
				b.Pos = next
			}
		}
		kept = append(kept, b)
	}
	w.blood = kept
}

func (w *World) stepGibs() {
	kept := w.gibs[:0]
	for _, g := range w.gibs {
		g.Life--
		if g.Life <= 0 {
			continue
		}
		g.Vel[1] += gibGravity
		next := g.Pos.Add(g.Vel)
		if !w.inWorld(next) {
			continue
		}
		g.Grounded = false
		if w.cellAt(mgl64.Vec2{next.X(), g.Pos.Y()}).Solid() {
			g.Vel[0] *= -0.5
			next[0] = g.Pos.X()
		}
		if w.cellAt(next).Solid() {
			next[1] = float64(cellOf(next.Y())) - 0.05
			if w.cellAt(next).Solid() {
				next[1] = g.Pos.Y()
			}
			g.Vel[1] = 0
			g.Vel[0] *= gibFriction
			g.Grounded = true
		}
		g.Pos = next
		kept = append(kept, g)
	}
	w.gibs = kept
}
