// Package ragdoll implements the articulated Verlet skeleton used by actors,
// its collision against the material grid, and the walking controller.
package ragdoll

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Joint names a point of the skeleton.
type Joint int

const (
	Head Joint = iota
	Neck
	ShoulderL
	ShoulderR
	ElbowL
	ElbowR
	HandL
	HandR
	Hip
	HipL
	HipR
	KneeL
	KneeR
	FootL
	FootR

	// JointCount is the number of points in a skeleton.
	JointCount
)

// Heights of the rigid spine chain above the feet, in cells.
const (
	hipHeight   = 6.0
	neckHeight  = 11.0
	headHeight  = 13.0
	kneeHeight  = 3.0
	shoulderGap = 2.0
	hipGap      = 1.0
)

// restPose places every joint relative to the midpoint between the feet,
// with y growing downward.
var restPose = [JointCount]mgl64.Vec2{
	Head:      {0, -headHeight},
	Neck:      {0, -neckHeight},
	ShoulderL: {-shoulderGap, -neckHeight + 1},
	ShoulderR: {shoulderGap, -neckHeight + 1},
	ElbowL:    {-2.5, -7.5},
	ElbowR:    {2.5, -7.5},
	HandL:     {-2.5, -5},
	HandR:     {2.5, -5},
	Hip:       {0, -hipHeight},
	HipL:      {-hipGap, -hipHeight},
	HipR:      {hipGap, -hipHeight},
	KneeL:     {-hipGap, -kneeHeight},
	KneeR:     {hipGap, -kneeHeight},
	FootL:     {-hipGap, 0},
	FootR:     {hipGap, 0},
}

// skeleton lists the bones followed by the braces. The braces keep the torso
// from folding and the knees from crossing; without them the body collapses.
var skeleton = [][2]Joint{
	{Head, Neck},
	{Neck, ShoulderL},
	{Neck, ShoulderR},
	{ShoulderL, ElbowL},
	{ElbowL, HandL},
	{ShoulderR, ElbowR},
	{ElbowR, HandR},
	{Neck, Hip},
	{Hip, HipL},
	{Hip, HipR},
	{HipL, KneeL},
	{KneeL, FootL},
	{HipR, KneeR},
	{KneeR, FootR},

	{ShoulderL, ShoulderR},
	{HipL, HipR},
	{ShoulderL, HipL},
	{ShoulderR, HipR},
	{ShoulderL, HipR},
	{ShoulderR, HipL},
	{Head, Hip},
	{KneeL, KneeR},
}

// Point is one Verlet particle. Velocity is implicit in Pos - Prev.
type Point struct {
	Pos    mgl64.Vec2
	Prev   mgl64.Vec2
	Pinned bool
}

// Velocity returns the implicit per-tick velocity.
func (p *Point) Velocity() mgl64.Vec2 { return p.Pos.Sub(p.Prev) }

// Push adds v to the point's velocity by moving its previous position.
func (p *Point) Push(v mgl64.Vec2) { p.Prev = p.Prev.Sub(v) }

// Stop zeroes the velocity.
func (p *Point) Stop() { p.Prev = p.Pos }

// Stick is a soft distance constraint between two joints of the same body.
type Stick struct {
	A, B Joint
	Rest float64
}

// NewStick validates the joints and returns a constraint. Joints outside the
// skeleton are a programming error.
func NewStick(a, b Joint, rest float64) Stick {
	if a < 0 || a >= JointCount || b < 0 || b >= JointCount || a == b {
		panic(fmt.Sprintf("ragdoll: invalid stick %d-%d", a, b))
	}
	return Stick{A: a, B: b, Rest: rest}
}

// Body is the point and stick set of one actor.
type Body struct {
	Points [JointCount]Point
	Sticks []Stick
}

// NewBody builds a skeleton standing with its feet at (x, y).
func NewBody(x, y float64) Body {
	var b Body
	origin := mgl64.Vec2{x, y}
	for j := Joint(0); j < JointCount; j++ {
		pos := origin.Add(restPose[j])
		b.Points[j] = Point{Pos: pos, Prev: pos}
	}
	b.Sticks = make([]Stick, 0, len(skeleton))
	for _, pair := range skeleton {
		rest := restPose[pair[0]].Sub(restPose[pair[1]]).Len()
		b.Sticks = append(b.Sticks, NewStick(pair[0], pair[1], rest))
	}
	return b
}

// Point returns the joint's point.
func (b *Body) Point(j Joint) *Point { return &b.Points[j] }

// Integrate advances every free point by one Verlet step.
func (b *Body) Integrate(cfg Config) {
	gravity := mgl64.Vec2{0, cfg.Gravity}
	for i := range b.Points {
		p := &b.Points[i]
		if p.Pinned {
			continue
		}
		vel := p.Pos.Sub(p.Prev).Mul(cfg.Friction)
		if l := vel.Len(); l > cfg.MaxSpeed {
			vel = vel.Mul(cfg.MaxSpeed / l)
		}
		p.Prev = p.Pos
		p.Pos = p.Pos.Add(vel).Add(gravity)
	}
}

// Relax runs the given number of constraint passes over every stick.
func (b *Body) Relax(passes int) {
	for i := 0; i < passes; i++ {
		for _, s := range b.Sticks {
			b.satisfy(s)
		}
	}
}

func (b *Body) satisfy(s Stick) {
	pa, pb := &b.Points[s.A], &b.Points[s.B]
	delta := pb.Pos.Sub(pa.Pos)
	dist := delta.Len()
	if dist == 0 {
		return
	}
	diff := (dist - s.Rest) / dist
	switch {
	case pa.Pinned && pb.Pinned:
	case pa.Pinned:
		pb.Pos = pb.Pos.Sub(delta.Mul(diff))
	case pb.Pinned:
		pa.Pos = pa.Pos.Add(delta.Mul(diff))
	default:
		half := delta.Mul(diff * 0.5)
		pa.Pos = pa.Pos.Add(half)
		pb.Pos = pb.Pos.Sub(half)
	}
}

// ConstraintError is the summed absolute deviation of every stick from its
// rest length.
func (b *Body) ConstraintError() float64 {
	total := 0.0
	for _, s := range b.Sticks {
		d := b.Points[s.B].Pos.Sub(b.Points[s.A].Pos).Len()
		total += math.Abs(d - s.Rest)
	}
	return total
}

// Translate moves every point by d without changing velocities.
func (b *Body) Translate(d mgl64.Vec2) {
	for i := range b.Points {
		b.Points[i].Pos = b.Points[i].Pos.Add(d)
		b.Points[i].Prev = b.Points[i].Prev.Add(d)
	}
}

// Push adds v to the velocity of every free point.
func (b *Body) Push(v mgl64.Vec2) {
	for i := range b.Points {
		if !b.Points[i].Pinned {
			b.Points[i].Push(v)
		}
	}
}

// Center returns the hip position.
func (b *Body) Center() mgl64.Vec2 { return b.Points[Hip].Pos }
