package ragdoll

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"mad-sand/internal/core"
)

type slab struct {
	w, h  int
	solid map[[2]int]bool
	water map[[2]int]bool
}

func newSlab(w, h int) *slab {
	return &slab{w: w, h: h, solid: map[[2]int]bool{}, water: map[[2]int]bool{}}
}

func (s *slab) Width() int  { return s.w }
func (s *slab) Height() int { return s.h }
func (s *slab) Solid(x, y int) bool {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return true
	}
	return s.solid[[2]int{x, y}]
}
func (s *slab) Liquid(x, y int) bool { return s.water[[2]int{x, y}] }

func (s *slab) fill(x0, x1, y0, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s.solid[[2]int{x, y}] = true
		}
	}
}

func hold(p *Person, s State, dir int) {
	p.State, p.StateTimer, p.WalkDir = s, 100000, dir
}

func TestSkeletonShape(t *testing.T) {
	b := NewBody(10, 20)
	if len(b.Sticks) != 22 {
		t.Fatalf("expected 22 sticks, got %d", len(b.Sticks))
	}
	if got := b.ConstraintError(); got > 1e-9 {
		t.Fatalf("rest pose should satisfy every stick, error %f", got)
	}
	if y := b.Points[Head].Pos.Y(); y != 20-headHeight {
		t.Fatalf("head at %f", y)
	}
}

func TestInvalidStickPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out of range joint")
		}
	}()
	NewStick(Head, JointCount, 1)
}

func TestRelaxConverges(t *testing.T) {
	rng := core.NewRNG(5)
	b := NewBody(30, 30)
	for i := range b.Points {
		d := mgl64.Vec2{rng.Spread(0.4), rng.Spread(0.4)}
		b.Points[i].Pos = b.Points[i].Pos.Add(d)
		b.Points[i].Prev = b.Points[i].Pos
	}
	start := b.ConstraintError()
	if start == 0 {
		t.Fatalf("perturbation had no effect")
	}
	b.Relax(4)
	early := b.ConstraintError()
	if early >= start {
		t.Fatalf("error grew from %f to %f", start, early)
	}
	b.Relax(28)
	late := b.ConstraintError()
	if late > early || late > start*0.25 {
		t.Fatalf("error did not converge: start %f, after 4 passes %f, after 32 %f", start, early, late)
	}
}

// Small disturbances shrink on every pass. Displacements of a couple of cells
// can overshoot by a few percent on a single pass while still converging.
func TestRelaxDecreasesEachPass(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		rng := core.NewRNG(seed)
		b := NewBody(30, 30)
		for i := range b.Points {
			d := mgl64.Vec2{rng.Spread(0.1), rng.Spread(0.1)}
			b.Points[i].Pos = b.Points[i].Pos.Add(d)
			b.Points[i].Prev = b.Points[i].Pos
		}
		prev := b.ConstraintError()
		for pass := 1; pass <= 8; pass++ {
			b.Relax(1)
			cur := b.ConstraintError()
			if cur > prev+1e-9 {
				t.Fatalf("seed %d pass %d: error rose from %f to %f", seed, pass, prev, cur)
			}
			prev = cur
		}
	}
}

func TestPinnedPointDoesNotMove(t *testing.T) {
	b := NewBody(10, 20)
	b.Points[Head].Pinned = true
	at := b.Points[Head].Pos
	for i := 0; i < 10; i++ {
		b.Integrate(DefaultConfig())
		b.Relax(8)
	}
	if b.Points[Head].Pos != at {
		t.Fatalf("pinned head moved to %v", b.Points[Head].Pos)
	}
}

func TestVelocityIsClamped(t *testing.T) {
	cfg := DefaultConfig()
	b := NewBody(50, 50)
	b.Push(mgl64.Vec2{40, 0})
	b.Integrate(cfg)
	v := b.Points[Hip].Velocity()
	if v.Len() > cfg.MaxSpeed+cfg.Gravity+1e-9 {
		t.Fatalf("velocity %v exceeds clamp", v)
	}
}

func TestGroundSnapsToSurface(t *testing.T) {
	s := newSlab(20, 20)
	s.fill(0, 19, 10, 19)
	p := Point{Pos: mgl64.Vec2{5.5, 10.4}, Prev: mgl64.Vec2{5.3, 9.4}}
	if c := ResolvePoint(s, &p, DefaultConfig()); c != GroundContact {
		t.Fatalf("expected ground contact, got %d", c)
	}
	if y := p.Pos.Y(); math.Abs(y-(10-surfaceEpsilon)) > 1e-9 {
		t.Fatalf("snapped to %f", y)
	}
	if vy := p.Velocity().Y(); vy != 0 {
		t.Fatalf("vertical velocity not cleared: %f", vy)
	}
	if vx := p.Velocity().X(); math.Abs(vx-0.16) > 1e-9 {
		t.Fatalf("horizontal velocity should be damped to 0.16, got %f", vx)
	}
}

func TestWallPushesSideways(t *testing.T) {
	s := newSlab(20, 20)
	s.fill(10, 10, 0, 19)
	p := Point{Pos: mgl64.Vec2{10.3, 8.5}, Prev: mgl64.Vec2{9.8, 8.5}}
	if c := ResolvePoint(s, &p, DefaultConfig()); c != WallContact {
		t.Fatalf("expected wall contact, got %d", c)
	}
	if x := p.Pos.X(); x >= 10 {
		t.Fatalf("point should be pushed back left of the wall, at %f", x)
	}
	if vx := p.Velocity().X(); vx != 0 {
		t.Fatalf("horizontal velocity not cleared: %f", vx)
	}
}

func TestClampToWorld(t *testing.T) {
	p := Point{Pos: mgl64.Vec2{-3, 2}, Prev: mgl64.Vec2{-1, 3}}
	ClampToWorld(&p, 40, 30)
	if p.Pos.X() != 1 || p.Pos.Y() != minY {
		t.Fatalf("clamped to %v", p.Pos)
	}
	if p.Velocity() != (mgl64.Vec2{}) {
		t.Fatalf("velocity should be zeroed, got %v", p.Velocity())
	}
}

func TestPersonStandsOnPlatform(t *testing.T) {
	s := newSlab(100, 80)
	s.fill(40, 60, 60, 60)
	rng := core.NewRNG(1)
	p := NewPerson(1, 50, 50, rng)
	hold(p, Idle, 1)
	cfg := DefaultConfig()
	for i := 0; i < 200; i++ {
		p.Step(s, rng, cfg)
	}
	if !p.Grounded {
		t.Fatalf("actor should be grounded")
	}
	avg := (p.Point(FootL).Pos.Y() + p.Point(FootR).Pos.Y()) / 2
	if math.Floor(avg) != 59 {
		t.Fatalf("feet should rest in row 59, average y %f", avg)
	}
	if head := p.Point(Head).Pos.Y(); head > avg-headHeight+0.5 {
		t.Fatalf("actor is not upright: head %f feet %f", head, avg)
	}
}

func TestWalkerTurnsAtWall(t *testing.T) {
	s := newSlab(100, 80)
	s.fill(0, 99, 60, 79)
	s.fill(70, 70, 0, 59)
	rng := core.NewRNG(2)
	p := NewPerson(1, 60, 59.95, rng)
	hold(p, Walk, 1)
	turned := false
	for i := 0; i < 80; i++ {
		p.Step(s, rng, DefaultConfig())
		if p.Position().X() >= 70 {
			t.Fatalf("walked into the wall at tick %d", i)
		}
		if p.WalkDir == -1 {
			turned = true
			break
		}
	}
	if !turned {
		t.Fatalf("walker never turned around")
	}
}

func TestWalkerTurnsAtCliff(t *testing.T) {
	s := newSlab(100, 80)
	s.fill(20, 50, 60, 60)
	rng := core.NewRNG(3)
	p := NewPerson(1, 40, 59.95, rng)
	hold(p, Walk, 1)
	for i := 0; i < 200; i++ {
		p.Step(s, rng, DefaultConfig())
	}
	if x := p.Position().X(); x < 20 || x > 51 {
		t.Fatalf("walker left the platform, hip at %f", x)
	}
	if !p.Grounded {
		t.Fatalf("walker should still be on the platform")
	}
}

func TestDeadBodyIsNotHeldUpright(t *testing.T) {
	s := newSlab(100, 80)
	s.fill(0, 99, 60, 79)
	rng := core.NewRNG(4)
	p := NewPerson(1, 50, 59.95, rng)
	if !p.Kill("test") {
		t.Fatalf("first kill should report true")
	}
	if p.Kill("again") {
		t.Fatalf("second kill should report false")
	}
	p.Body.Push(mgl64.Vec2{1.5, 0})
	for i := 0; i < 5; i++ {
		p.Step(s, rng, DefaultConfig())
	}
	if p.Upright() {
		t.Fatalf("dead actor reported upright")
	}
	if p.Cause != "test" {
		t.Fatalf("cause overwritten: %q", p.Cause)
	}
}

func TestDetachLimbOnce(t *testing.T) {
	rng := core.NewRNG(6)
	p := NewPerson(1, 50, 50, rng)
	n := len(p.Body.Sticks)
	if !p.Detach(HandL) {
		t.Fatalf("expected detach to succeed")
	}
	if p.Detach(ElbowL) {
		t.Fatalf("arm detached twice")
	}
	if len(p.Body.Sticks) != n-1 {
		t.Fatalf("expected one stick removed, have %d of %d", len(p.Body.Sticks), n)
	}
	if p.Detach(Head) {
		t.Fatalf("head is not a limb")
	}
}

func TestBuoyancyLiftsSwimmer(t *testing.T) {
	s := newSlab(40, 60)
	s.fill(0, 39, 50, 59)
	for y := 20; y < 50; y++ {
		for x := 0; x < 40; x++ {
			s.water[[2]int{x, y}] = true
		}
	}
	rng := core.NewRNG(7)
	p := NewPerson(1, 20, 45, rng)
	p.InWater = true
	start := p.Position().Y()
	for i := 0; i < 60; i++ {
		p.Step(s, rng, DefaultConfig())
	}
	if p.Position().Y() >= start {
		t.Fatalf("swimmer sank from %f to %f", start, p.Position().Y())
	}
}
