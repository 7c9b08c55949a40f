// Package sandbox is the falling-sand world: the material grid, the actors
// living in it and everything that can hurt them.
package sandbox

import (
	"image/color"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"

	"mad-sand/internal/core"
	"mad-sand/internal/grid"
	"mad-sand/internal/logger"
	"mad-sand/internal/material"
	"mad-sand/internal/ragdoll"
)

// World owns the grid and every entity in it. All mutation happens inside
// Step or through the methods below on the stepping goroutine; other
// goroutines use Queue.
type World struct {
	cfg Config

	w, h int

	grid *grid.Grid
	rng  *core.RNG
	log  *logrus.Entry

	people      []*ragdoll.Person
	weapons     []*Weapon
	projectiles []Projectile
	vehicles    []*Vehicle
	explosions  []Explosion
	blood       []Blood
	gibs        []Gib

	nextID      uint32
	tick        uint64
	detonations int
	deaths      int

	mu      deadlock.Mutex
	intents []Intent
}

// New returns a sandbox with the provided dimensions using defaults.
func New(w, h int) *World {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns a sandbox configured from the provided options.
func NewWithConfig(cfg Config) *World {
	if cfg.Width < 0 {
		cfg.Width = 0
	}
	if cfg.Height < 0 {
		cfg.Height = 0
	}
	rng := core.NewRNG(cfg.Seed)
	return &World{
		cfg:  cfg,
		w:    cfg.Width,
		h:    cfg.Height,
		grid: grid.New(cfg.Width, cfg.Height, rng),
		rng:  rng,
		log:  logger.Component("sandbox"),
	}
}

// SetLogger replaces the entry used for world events.
func (w *World) SetLogger(l *logrus.Entry) { w.log = l }

// Name returns the simulation identifier.
func (w *World) Name() string { return "sandbox" }

// Size reports the grid dimensions.
func (w *World) Size() core.Size { return core.Size{W: w.w, H: w.h} }

// Cells exposes the material ids of the grid, row-major.
func (w *World) Cells() []uint8 { return w.grid.Cells() }

// Palette maps material ids to colours.
func (w *World) Palette() []color.RGBA { return material.Palette() }

// Grid exposes the material grid.
func (w *World) Grid() *grid.Grid { return w.grid }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Tick returns the number of completed steps.
func (w *World) Tick() uint64 { return w.tick }

// Detonations counts explosions triggered since the last reset.
func (w *World) Detonations() int { return w.detonations }

// Deaths counts actors that have died since the last reset.
func (w *World) Deaths() int { return w.deaths }

// Reset clears the world and reseeds the random source. A zero seed uses the
// configured one.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng.Seed(effective)
	w.clear()
	w.tick = 0
	w.detonations = 0
	w.deaths = 0
	w.nextID = 0
	w.log.WithField("seed", effective).Info("world reset")
}

// Clear empties the grid and removes every entity, corpses included.
func (w *World) Clear() {
	w.clear()
	w.log.Info("world cleared")
}

func (w *World) clear() {
	w.grid.Clear()
	w.people = nil
	w.weapons = nil
	w.projectiles = nil
	w.vehicles = nil
	w.explosions = nil
	w.blood = nil
	w.gibs = nil
}

// Step advances the whole world by one tick.
func (w *World) Step() {
	w.drainIntents()
	w.grid.Step()
	w.stepPeople()
	w.stepWeapons()
	w.stepVehicles()
	w.stepProjectiles()
	w.stepBlood()
	w.stepGibs()
	w.ageExplosions()
	w.tick++
}

// At returns the material at (x, y). Outside the grid reads as stone.
func (w *World) At(x, y int) material.Material { return w.grid.At(x, y) }

// Set writes a material; writes outside the grid are ignored.
func (w *World) Set(x, y int, m material.Material) { w.grid.Set(x, y, m) }

// PaintCircle fills a disc of cells with m.
func (w *World) PaintCircle(cx, cy, radius int, m material.Material) {
	w.grid.PaintCircle(cx, cy, radius, m)
}

func (w *World) id() uint32 {
	w.nextID++
	return w.nextID
}

// SpawnPerson places a new actor with its feet at (x, y).
func (w *World) SpawnPerson(x, y float64) uint32 {
	p := ragdoll.NewPerson(w.id(), x, y, w.rng)
	w.people = append(w.people, p)
	return p.ID
}

// SpawnBomb places an armed bomb.
func (w *World) SpawnBomb(x, y float64) uint32 {
	return w.addWeapon(&Weapon{Kind: Bomb, Pos: mgl64.Vec2{x, y}, Fuse: w.cfg.Params.BombFuse, Armed: true})
}

// SpawnGrenade drops a grenade; it arms when it comes to rest.
func (w *World) SpawnGrenade(x, y float64) uint32 {
	return w.addWeapon(&Weapon{Kind: Grenade, Pos: mgl64.Vec2{x, y}})
}

// ThrowGrenade launches a grenade with the given velocity.
func (w *World) ThrowGrenade(x, y, vx, vy float64) uint32 {
	return w.addWeapon(&Weapon{Kind: Grenade, Pos: mgl64.Vec2{x, y}, Vel: mgl64.Vec2{vx, vy}, Thrown: true})
}

// SpawnGun drops a gun that the nearest actor can pick up.
func (w *World) SpawnGun(x, y float64) uint32 {
	return w.addWeapon(&Weapon{Kind: Gun, Pos: mgl64.Vec2{x, y}, Facing: 1})
}

// SpawnSword drops a sword that the nearest actor can pick up.
func (w *World) SpawnSword(x, y float64) uint32 {
	return w.addWeapon(&Weapon{Kind: Sword, Pos: mgl64.Vec2{x, y}, Facing: 1})
}

// SpawnWeapon dispatches on kind.
func (w *World) SpawnWeapon(kind WeaponKind, x, y float64) uint32 {
	switch kind {
	case Bomb:
		return w.SpawnBomb(x, y)
	case Grenade:
		return w.SpawnGrenade(x, y)
	case Gun:
		return w.SpawnGun(x, y)
	case Sword:
		return w.SpawnSword(x, y)
	}
	return 0
}

func (w *World) addWeapon(wp *Weapon) uint32 {
	wp.ID = w.id()
	w.weapons = append(w.weapons, wp)
	return wp.ID
}

// SpawnCar places a car.
func (w *World) SpawnCar(x, y float64) uint32 { return w.SpawnVehicle(Car, x, y) }

// SpawnBoat places a boat.
func (w *World) SpawnBoat(x, y float64) uint32 { return w.SpawnVehicle(Boat, x, y) }

// SpawnPlane places a plane.
func (w *World) SpawnPlane(x, y float64) uint32 { return w.SpawnVehicle(Plane, x, y) }

// SpawnVehicle places a driverless vehicle facing a random direction.
func (w *World) SpawnVehicle(kind VehicleKind, x, y float64) uint32 {
	v := &Vehicle{ID: w.id(), Kind: kind, Pos: mgl64.Vec2{x, y}, Dir: w.rng.Sign()}
	w.vehicles = append(w.vehicles, v)
	return v.ID
}

// Person returns the live pointer for an actor id, or nil.
func (w *World) Person(id uint32) *ragdoll.Person {
	if id == 0 {
		return nil
	}
	for _, p := range w.people {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// People returns a snapshot of every actor, corpses included.
func (w *World) People() []ragdoll.Person {
	out := make([]ragdoll.Person, len(w.people))
	for i, p := range w.people {
		out[i] = *p
		out[i].Body.Sticks = slices.Clone(p.Body.Sticks)
	}
	return out
}

// Weapons returns a snapshot of every weapon.
func (w *World) Weapons() []Weapon {
	out := make([]Weapon, len(w.weapons))
	for i, wp := range w.weapons {
		out[i] = *wp
	}
	return out
}

// Vehicles returns a snapshot of every vehicle.
func (w *World) Vehicles() []Vehicle {
	out := make([]Vehicle, len(w.vehicles))
	for i, v := range w.vehicles {
		out[i] = *v
	}
	return out
}

// Projectiles returns a snapshot of bullets in flight.
func (w *World) Projectiles() []Projectile { return slices.Clone(w.projectiles) }

// Explosions returns a snapshot of the active explosion visuals.
func (w *World) Explosions() []Explosion { return slices.Clone(w.explosions) }

// Blood returns a snapshot of blood droplets.
func (w *World) Blood() []Blood { return slices.Clone(w.blood) }

// Gibs returns a snapshot of body fragments.
func (w *World) Gibs() []Gib { return slices.Clone(w.gibs) }

func (w *World) stepPeople() {
	for _, p := range w.people {
		p.Step(w.grid, w.rng, w.cfg.Body)
		w.applyHazards(p)
	}
}

func cellOf(v float64) int { return int(math.Floor(v)) }

func (w *World) cellAt(pos mgl64.Vec2) material.Material {
	return w.grid.At(cellOf(pos.X()), cellOf(pos.Y()))
}

func (w *World) inWorld(pos mgl64.Vec2) bool {
	return pos.X() >= 0 && pos.Y() >= 0 && pos.X() < float64(w.w) && pos.Y() < float64(w.h)
}

func init() {
	core.Register("sandbox", func(cfg map[string]string) core.Sim {
		c := FromMap(cfg)
		return NewWithConfig(c)
	})
}
