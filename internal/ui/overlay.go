//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"mad-sand/internal/core"
	"mad-sand/internal/ragdoll"
	"mad-sand/internal/sims/sandbox"
)

type actorProvider interface {
	People() []ragdoll.Person
}

type equipmentProvider interface {
	Weapons() []sandbox.Weapon
	Vehicles() []sandbox.Vehicle
	Projectiles() []sandbox.Projectile
}

type effectProvider interface {
	Explosions() []sandbox.Explosion
	Blood() []sandbox.Blood
	Gibs() []sandbox.Gib
}

var (
	skinColor   = color.RGBA{R: 240, G: 200, B: 160, A: 255}
	corpseColor = color.RGBA{R: 120, G: 110, B: 100, A: 255}
	burnColor   = color.RGBA{R: 255, G: 120, B: 20, A: 255}
	bloodColor  = color.RGBA{R: 150, G: 0, B: 0, A: 255}
	gibColor    = color.RGBA{R: 170, G: 40, B: 40, A: 255}
	blastColor  = color.NRGBA{R: 255, G: 200, B: 60, A: 160}
	bulletColor = color.RGBA{R: 255, G: 255, B: 160, A: 255}
	metalColor  = color.RGBA{R: 90, G: 90, B: 100, A: 255}
	fuseColor   = color.RGBA{R: 255, G: 40, B: 40, A: 255}
	healthBack  = color.RGBA{R: 100, A: 255}
	healthFront = color.RGBA{G: 255, A: 255}
)

// Overlay draws actors, equipment and effects on top of the material grid.
type Overlay struct {
	sim   core.Sim
	scale int

	showActors  bool
	showEffects bool
	showHealth  bool
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	return &Overlay{sim: sim, scale: scale, showActors: true, showEffects: true}
}

// Update toggles layers: 1 actors, 2 effects, 3 health bars.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showActors = !o.showActors
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showEffects = !o.showEffects
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showHealth = !o.showHealth
	}
}

// Draw renders the enabled layers.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.showEffects {
		if fx, ok := o.sim.(effectProvider); ok {
			o.drawEffects(screen, fx)
		}
	}
	if eq, ok := o.sim.(equipmentProvider); ok {
		o.drawEquipment(screen, eq)
	}
	if o.showActors {
		if ap, ok := o.sim.(actorProvider); ok {
			for _, p := range ap.People() {
				o.drawPerson(screen, &p)
			}
		}
	}
}

func (o *Overlay) px(v float64) float32 { return float32(v * float64(o.scale)) }

func (o *Overlay) drawPerson(screen *ebiten.Image, p *ragdoll.Person) {
	clr := skinColor
	switch {
	case !p.Alive:
		clr = corpseColor
	case p.OnFire && p.Flicker:
		clr = burnColor
	}
	width := float32(o.scale) * 0.6
	for _, s := range p.Body.Sticks {
		a, b := p.Body.Points[s.A].Pos, p.Body.Points[s.B].Pos
		vector.StrokeLine(screen, o.px(a.X()), o.px(a.Y()), o.px(b.X()), o.px(b.Y()), width, clr, true)
	}
	head := p.Point(ragdoll.Head).Pos
	vector.DrawFilledCircle(screen, o.px(head.X()), o.px(head.Y()), float32(o.scale)*1.2, clr, true)

	if o.showHealth && p.Alive {
		w := float32(o.scale) * 4
		h := float32(o.scale) * 0.5
		x := o.px(head.X()) - w/2
		y := o.px(head.Y()) - float32(o.scale)*2.5
		vector.DrawFilledRect(screen, x, y, w, h, healthBack, true)
		vector.DrawFilledRect(screen, x, y, w*float32(p.Health/ragdoll.MaxHealth), h, healthFront, true)
	}
}

func (o *Overlay) drawEquipment(screen *ebiten.Image, eq equipmentProvider) {
	s := float32(o.scale)
	for _, v := range eq.Vehicles() {
		x, y := o.px(v.Pos.X()), o.px(v.Pos.Y())
		switch v.Kind {
		case sandbox.Car:
			vector.DrawFilledRect(screen, x-3*s, y-1.5*s, 6*s, 1.5*s, color.RGBA{R: 200, G: 40, B: 40, A: 255}, true)
			vector.DrawFilledCircle(screen, x-2*s, y, 0.7*s, metalColor, true)
			vector.DrawFilledCircle(screen, x+2*s, y, 0.7*s, metalColor, true)
		case sandbox.Boat:
			vector.DrawFilledRect(screen, x-3*s, y-s, 6*s, s, color.RGBA{R: 140, G: 90, B: 40, A: 255}, true)
		case sandbox.Plane:
			vector.DrawFilledRect(screen, x-4*s, y-0.5*s, 8*s, s, color.RGBA{R: 200, G: 200, B: 210, A: 255}, true)
			vector.StrokeLine(screen, x, y-2*s, x, y+2*s, s*0.6, metalColor, true)
		}
	}
	for _, w := range eq.Weapons() {
		x, y := o.px(w.Pos.X()), o.px(w.Pos.Y())
		switch w.Kind {
		case sandbox.Bomb, sandbox.Grenade:
			r := s * 0.8
			if w.Kind == sandbox.Bomb {
				r = s * 1.2
			}
			vector.DrawFilledCircle(screen, x, y, r, metalColor, true)
			if w.Armed && w.Fuse%10 < 5 {
				vector.DrawFilledCircle(screen, x, y-r, s*0.3, fuseColor, true)
			}
		case sandbox.Gun:
			vector.StrokeLine(screen, x, y, x+float32(w.Facing)*2*s, y, s*0.5, metalColor, true)
		case sandbox.Sword:
			vector.StrokeLine(screen, x, y, x+float32(w.Facing)*3*s, y-2*s, s*0.4, color.RGBA{R: 210, G: 210, B: 230, A: 255}, true)
		}
	}
	for _, pr := range eq.Projectiles() {
		tail := pr.Pos.Sub(pr.Vel.Mul(0.5))
		vector.StrokeLine(screen, o.px(tail.X()), o.px(tail.Y()), o.px(pr.Pos.X()), o.px(pr.Pos.Y()), s*0.4, bulletColor, true)
	}
}

func (o *Overlay) drawEffects(screen *ebiten.Image, fx effectProvider) {
	s := float32(o.scale)
	for _, e := range fx.Explosions() {
		fade := 1 - float64(e.Age)/float64(e.MaxAge)
		clr := blastColor
		clr.A = uint8(float64(clr.A) * fade)
		vector.DrawFilledCircle(screen, o.px(e.X), o.px(e.Y), o.px(e.Radius), clr, true)
	}
	for _, b := range fx.Blood() {
		vector.DrawFilledRect(screen, o.px(b.Pos.X()), o.px(b.Pos.Y()), s, s, bloodColor, false)
	}
	for _, g := range fx.Gibs() {
		vector.DrawFilledCircle(screen, o.px(g.Pos.X()), o.px(g.Pos.Y()), s*0.7, gibColor, true)
	}
}
