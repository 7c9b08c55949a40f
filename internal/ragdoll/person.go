package ragdoll

import (
	"github.com/go-gl/mathgl/mgl64"

	"mad-sand/internal/core"
)

// State is the behaviour an actor is currently following.
type State int

const (
	Idle State = iota
	Walk
	Panic
	Jump
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Walk:
		return "walk"
	case Panic:
		return "panic"
	case Jump:
		return "jump"
	}
	return "unknown"
}

// Flags is the set of one-shot status bits of an actor.
type Flags struct {
	ArmLDetached  bool
	ArmRDetached  bool
	LegLDetached  bool
	LegRDetached  bool
	GibsSpawned   bool
	AcidDissolved bool
}

// Limbless reports whether every limb is gone.
func (f Flags) Limbless() bool {
	return f.ArmLDetached && f.ArmRDetached && f.LegLDetached && f.LegRDetached
}

// Person is an actor: a body plus the health and behaviour state layered on
// top of it.
type Person struct {
	ID   uint32
	Body Body

	Alive  bool
	Health float64
	Cause  string

	OnFire    bool
	BurnTimer int
	Flicker   bool
	InWater   bool
	Grounded  bool
	Knockdown int

	State      State
	StateTimer int
	WalkDir    int
	WalkPhase  float64
	CenterX    float64

	Flags Flags
	// Riding is the id of the vehicle carrying the actor, or zero.
	Riding uint32

	groundY float64
}

// MaxHealth is the health of a fresh actor.
const MaxHealth = 100.0

// NewPerson spawns an actor standing with its feet at (x, y).
func NewPerson(id uint32, x, y float64, rng *core.RNG) *Person {
	p := &Person{
		ID:      id,
		Body:    NewBody(x, y),
		Alive:   true,
		Health:  MaxHealth,
		WalkDir: rng.Sign(),
		CenterX: x,
	}
	p.enter(Idle, rng)
	return p
}

// Point returns one of the actor's points.
func (p *Person) Point(j Joint) *Point { return &p.Body.Points[j] }

// Position returns the hip position.
func (p *Person) Position() mgl64.Vec2 { return p.Body.Center() }

// GroundY returns the last measured ground height under the feet.
func (p *Person) GroundY() float64 { return p.groundY }

// Upright reports whether the actor is currently held upright by its
// controller.
func (p *Person) Upright() bool {
	return p.Alive && p.Grounded && p.Knockdown == 0 && !p.InWater && p.Riding == 0 &&
		!p.Flags.LegLDetached && !p.Flags.LegRDetached
}

// Step advances the actor's behaviour and physics by one tick.
func (p *Person) Step(t Terrain, rng *core.RNG, cfg Config) {
	if p.Riding != 0 {
		return
	}
	if p.Alive {
		p.think(t, rng, cfg)
		if p.Upright() && (p.State == Walk || p.State == Panic) {
			p.stride(cfg)
		}
	}
	if p.InWater {
		p.swim(t, cfg)
	}

	p.Body.Integrate(cfg)
	p.Body.Relax(cfg.Iterations)
	p.Body.Collide(t, cfg)

	p.groundY, p.Grounded = p.Body.Footing(t)
	if p.Knockdown > 0 {
		p.Knockdown--
	}
	if p.Upright() {
		p.KeepUpright(p.groundY, p.CenterX)
	} else {
		p.CenterX = p.Body.Center().X()
	}
}

const (
	uprightPull = 0.5
	limbPull    = 0.5
)

// KeepUpright poses the body as standing on groundY. The spine chain is set
// rigidly, the hip only partially follows centerX, and the limbs are eased
// toward their rest offsets so they keep some sway.
func (p *Person) KeepUpright(groundY, centerX float64) {
	pts := &p.Body.Points
	for _, f := range []Joint{FootL, FootR} {
		pts[f].Pos[1] = groundY
		pts[f].Prev[1] = groundY
	}

	hip := &pts[Hip]
	hip.Pos = mgl64.Vec2{hip.Pos.X() + (centerX-hip.Pos.X())*uprightPull, groundY - hipHeight}
	hip.Stop()
	hx, hy := hip.Pos.X(), hip.Pos.Y()

	lean := 0.0
	if p.State == Walk || p.State == Panic {
		lean = 0.3 * float64(p.WalkDir)
	}
	set := func(j Joint, x, y float64) {
		pts[j].Pos = mgl64.Vec2{x, y}
		pts[j].Stop()
	}
	set(HipL, hx-hipGap, hy)
	set(HipR, hx+hipGap, hy)
	set(Neck, hx+lean, groundY-neckHeight)
	set(Head, hx+lean, groundY-headHeight)

	ease := func(j Joint, target mgl64.Vec2) {
		pt := &pts[j]
		pt.Pos = pt.Pos.Add(target.Sub(pt.Pos).Mul(limbPull))
		pt.Prev = pt.Prev.Add(pt.Pos.Sub(pt.Prev).Mul(limbPull))
	}
	neck := pts[Neck].Pos
	ease(ShoulderL, neck.Add(mgl64.Vec2{-shoulderGap, 1}))
	ease(ShoulderR, neck.Add(mgl64.Vec2{shoulderGap, 1}))
	ease(KneeL, mgl64.Vec2{(hx - hipGap + pts[FootL].Pos.X()) / 2, groundY - kneeHeight})
	ease(KneeR, mgl64.Vec2{(hx + hipGap + pts[FootR].Pos.X()) / 2, groundY - kneeHeight})
	if !p.Flags.ArmLDetached {
		ease(ElbowL, pts[ShoulderL].Pos.Add(mgl64.Vec2{-0.5, 2.5}))
	}
	if !p.Flags.ArmRDetached {
		ease(ElbowR, pts[ShoulderR].Pos.Add(mgl64.Vec2{0.5, 2.5}))
	}
}

// Kill marks the actor dead. It reports false if it already was.
func (p *Person) Kill(cause string) bool {
	if !p.Alive {
		return false
	}
	p.Alive = false
	p.Health = 0
	p.Cause = cause
	p.OnFire = false
	p.Riding = 0
	return true
}

// Detach severs a limb by dropping the sticks that connect it to the torso.
// It reports false when the limb was already gone.
func (p *Person) Detach(limb Joint) bool {
	var root Joint
	switch limb {
	case HandL, ElbowL:
		if p.Flags.ArmLDetached {
			return false
		}
		p.Flags.ArmLDetached, root = true, ShoulderL
		limb = ElbowL
	case HandR, ElbowR:
		if p.Flags.ArmRDetached {
			return false
		}
		p.Flags.ArmRDetached, root = true, ShoulderR
		limb = ElbowR
	case FootL, KneeL:
		if p.Flags.LegLDetached {
			return false
		}
		p.Flags.LegLDetached, root = true, HipL
		limb = KneeL
	case FootR, KneeR:
		if p.Flags.LegRDetached {
			return false
		}
		p.Flags.LegRDetached, root = true, HipR
		limb = KneeR
	default:
		return false
	}
	kept := p.Body.Sticks[:0]
	for _, s := range p.Body.Sticks {
		if (s.A == root && s.B == limb) || (s.A == limb && s.B == root) {
			continue
		}
		if limb == KneeL || limb == KneeR {
			if (s.A == KneeL && s.B == KneeR) || (s.A == KneeR && s.B == KneeL) {
				continue
			}
		}
		kept = append(kept, s)
	}
	p.Body.Sticks = kept
	return true
}
