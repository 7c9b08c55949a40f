package sandbox

import (
	"github.com/go-gl/mathgl/mgl64"

	"mad-sand/internal/ragdoll"
)

// WeaponKind enumerates the equipment that can be spawned.
type WeaponKind int

const (
	Bomb WeaponKind = iota
	Grenade
	Gun
	Sword
)

func (k WeaponKind) String() string {
	switch k {
	case Bomb:
		return "bomb"
	case Grenade:
		return "grenade"
	case Gun:
		return "gun"
	case Sword:
		return "sword"
	}
	return "unknown"
}

// Weapon is a bomb, grenade, gun or sword lying in the world or held by an
// actor. Holder is zero when nobody carries it.
type Weapon struct {
	ID       uint32
	Kind     WeaponKind
	Pos      mgl64.Vec2
	Vel      mgl64.Vec2
	Fuse     int
	Thrown   bool
	Armed    bool
	Grounded bool
	Holder   uint32
	Cooldown int
	Facing   int
}

// Projectile is a bullet in flight.
type Projectile struct {
	Pos   mgl64.Vec2
	Vel   mgl64.Vec2
	Life  int
	Owner uint32
}

// VehicleKind enumerates the vehicles.
type VehicleKind int

const (
	Car VehicleKind = iota
	Boat
	Plane
)

func (k VehicleKind) String() string {
	switch k {
	case Car:
		return "car"
	case Boat:
		return "boat"
	case Plane:
		return "plane"
	}
	return "unknown"
}

// Vehicle carries at most one actor. Driver is zero when empty.
type Vehicle struct {
	ID       uint32
	Kind     VehicleKind
	Pos      mgl64.Vec2
	Vel      mgl64.Vec2
	Dir      int
	Driver   uint32
	Grounded bool
	Wrecked  bool
}

// Explosion is the visual record of a detonation. It has no effect on the
// simulation after the tick it was triggered.
type Explosion struct {
	X, Y      float64
	Radius    float64
	MaxRadius float64
	Age       int
	MaxAge    int
}

// Blood is a droplet that sticks where it lands.
type Blood struct {
	Pos   mgl64.Vec2
	Vel   mgl64.Vec2
	Life  int
	Stuck bool
}

// Gib is a body fragment that slides on the ground until it expires.
type Gib struct {
	Pos      mgl64.Vec2
	Vel      mgl64.Vec2
	Life     int
	Grounded bool
	Part     ragdoll.Joint
}

const (
	bloodLife      = 200
	bloodStuckLife = 120
	bloodGravity   = 0.15
	gibLife        = 600
	gibFriction    = 0.8
	gibGravity     = 0.2
)
