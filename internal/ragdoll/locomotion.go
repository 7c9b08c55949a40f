package ragdoll

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"mad-sand/internal/core"
)

const (
	probeAhead   = 4
	stepAhead    = 1.5
	cliffDepth   = 6
	panicFlip    = 0.02
	jumpTimeout  = 60
	swimStroke   = 0.08
	armSwingRate = 0.6
)

// Probe heights above the foot row.
const (
	probeFeet  = 0
	probeKnee  = 3
	probeWaist = 6
	probeChest = 9
	probeHead  = 12
)

func (p *Person) enter(s State, rng *core.RNG) {
	p.State = s
	switch s {
	case Idle:
		p.StateTimer = rng.Range(60, 179)
	case Walk:
		p.StateTimer = rng.Range(120, 299)
	case Panic:
		p.StateTimer = rng.Range(90, 179)
	case Jump:
		p.StateTimer = jumpTimeout
	}
}

// choose rolls the next state once a timer runs out.
func (p *Person) choose(rng *core.RNG, cfg Config) {
	r := rng.Float64()
	switch {
	case r < 0.5:
		p.enter(Walk, rng)
	case r < 0.85:
		p.enter(Idle, rng)
	default:
		if p.Upright() {
			p.enter(Jump, rng)
			p.jump(cfg)
			return
		}
		p.enter(Walk, rng)
	}
}

func (p *Person) think(t Terrain, rng *core.RNG, cfg Config) {
	if p.OnFire && p.State != Panic {
		p.enter(Panic, rng)
	}
	p.StateTimer--
	switch p.State {
	case Jump:
		if p.Grounded && p.StateTimer < jumpTimeout-2 || p.StateTimer <= 0 {
			p.enter(Walk, rng)
		}
		return
	case Panic:
		if rng.Chance(panicFlip) {
			p.WalkDir = -p.WalkDir
		}
	}
	if p.StateTimer <= 0 {
		if p.OnFire {
			p.enter(Panic, rng)
		} else {
			p.choose(rng, cfg)
		}
	}
	if p.Upright() && (p.State == Walk || p.State == Panic) {
		p.probe(t, rng, cfg)
	}
}

// probe samples the terrain ahead of the actor and turns it around at walls
// and cliffs. A single-cell step right in front lifts the body instead.
func (p *Person) probe(t Terrain, rng *core.RNG, cfg Config) {
	fy := cellOf(p.groundY)
	fx := cellOf(p.CenterX + float64(p.WalkDir*probeAhead))
	blocked := func(h int) bool { return t.Solid(fx, fy-h) }

	if blocked(probeWaist) || blocked(probeChest) || blocked(probeHead) {
		p.WalkDir = -p.WalkDir
		if p.State != Panic {
			p.enter(Idle, rng)
		}
		return
	}
	if blocked(probeKnee) {
		p.WalkDir = -p.WalkDir
		return
	}
	if blocked(probeFeet) {
		near := cellOf(p.CenterX + float64(p.WalkDir)*stepAhead)
		if t.Solid(near, fy) && !t.Solid(near, fy-1) {
			p.Body.Translate(mgl64.Vec2{0, -cfg.StepUp})
		}
		return
	}
	for d := 1; d <= cliffDepth; d++ {
		if t.Solid(fx, fy+d) || t.Liquid(fx, fy+d) {
			return
		}
	}
	p.WalkDir = -p.WalkDir
}

// stride moves the balance point forward and swings the legs and arms in
// opposite phase.
func (p *Person) stride(cfg Config) {
	speed, phase := cfg.WalkSpeed, cfg.WalkPhaseStep
	if p.State == Panic {
		speed, phase = cfg.PanicSpeed, cfg.PanicPhaseStep
	}
	p.CenterX += float64(p.WalkDir) * speed
	p.WalkPhase += phase

	swing := math.Sin(p.WalkPhase) * cfg.StepLength
	pts := &p.Body.Points
	if !p.Flags.LegLDetached {
		pts[FootL].Pos[0] = p.CenterX + swing
		pts[FootL].Prev[0] = pts[FootL].Pos[0]
	}
	if !p.Flags.LegRDetached {
		pts[FootR].Pos[0] = p.CenterX - swing
		pts[FootR].Prev[0] = pts[FootR].Pos[0]
	}
	arm := swing * armSwingRate
	if !p.Flags.ArmLDetached {
		pts[HandL].Pos[0] += (p.CenterX - shoulderGap - arm - pts[HandL].Pos[0]) * limbPull
	}
	if !p.Flags.ArmRDetached {
		pts[HandR].Pos[0] += (p.CenterX + shoulderGap + arm - pts[HandR].Pos[0]) * limbPull
	}
}

// jump launches the whole body up and slightly forward.
func (p *Person) jump(cfg Config) {
	p.Body.Push(mgl64.Vec2{float64(p.WalkDir) * cfg.JumpForward, -cfg.JumpUp})
	p.Grounded = false
}

// swim applies buoyancy and drag to submerged points. Living actors also
// paddle in their walking direction.
func (p *Person) swim(t Terrain, cfg Config) {
	for j := range p.Body.Points {
		pt := &p.Body.Points[j]
		if !t.Liquid(cellOf(pt.Pos.X()), cellOf(pt.Pos.Y())) {
			continue
		}
		vel := pt.Velocity().Mul(cfg.WaterDrag)
		pt.Prev = pt.Pos.Sub(vel)
		pt.Push(mgl64.Vec2{0, -cfg.Buoyancy})
	}
	if !p.Alive {
		return
	}
	p.WalkPhase += cfg.WalkPhaseStep
	stroke := math.Sin(p.WalkPhase)
	p.Body.Points[Hip].Push(mgl64.Vec2{float64(p.WalkDir) * swimStroke, 0})
	p.Body.Points[HandL].Push(mgl64.Vec2{0, stroke * swimStroke})
	p.Body.Points[HandR].Push(mgl64.Vec2{0, -stroke * swimStroke})
}
