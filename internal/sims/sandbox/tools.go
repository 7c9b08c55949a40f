package sandbox

import "mad-sand/internal/material"

// ToolKind groups what a click in a front-end does.
type ToolKind int

const (
	ToolPaint ToolKind = iota
	ToolPerson
	ToolWeapon
	ToolVehicle
	ToolExplode
	ToolGrenadeThrow
)

// Tool is one entry of the front-end toolbox.
type Tool struct {
	Name     string
	Kind     ToolKind
	Material material.Material
	Weapon   WeaponKind
	Vehicle  VehicleKind
}

// explodeRadius and explodePower are used by the explosion tool.
const (
	explodeRadius = 10
	explodePower  = 50
	throwSpeed    = 2.0
)

// Tools lists every material brush followed by the spawn tools.
func Tools() []Tool {
	var out []Tool
	for _, m := range material.All() {
		out = append(out, Tool{Name: m.String(), Kind: ToolPaint, Material: m})
	}
	return append(out,
		Tool{Name: "person", Kind: ToolPerson},
		Tool{Name: "bomb", Kind: ToolWeapon, Weapon: Bomb},
		Tool{Name: "grenade", Kind: ToolGrenadeThrow, Weapon: Grenade},
		Tool{Name: "gun", Kind: ToolWeapon, Weapon: Gun},
		Tool{Name: "sword", Kind: ToolWeapon, Weapon: Sword},
		Tool{Name: "car", Kind: ToolVehicle, Vehicle: Car},
		Tool{Name: "boat", Kind: ToolVehicle, Vehicle: Boat},
		Tool{Name: "plane", Kind: ToolVehicle, Vehicle: Plane},
		Tool{Name: "explode", Kind: ToolExplode},
	)
}

// Continuous reports whether the tool should repeat while the button is held.
func (t Tool) Continuous() bool { return t.Kind == ToolPaint }

// Intent converts a click at cell (x, y) into a queued world mutation. dir is
// the horizontal throw direction for grenades.
func (t Tool) Intent(x, y float64, brush, dir int) Intent {
	switch t.Kind {
	case ToolPerson:
		return Intent{Kind: IntentSpawnPerson, X: x, Y: y}
	case ToolWeapon:
		return Intent{Kind: IntentSpawnWeapon, X: x, Y: y, Weapon: t.Weapon}
	case ToolVehicle:
		return Intent{Kind: IntentSpawnVehicle, X: x, Y: y, Vehicle: t.Vehicle}
	case ToolExplode:
		return Intent{Kind: IntentExplode, X: x, Y: y, Radius: explodeRadius, Power: explodePower}
	case ToolGrenadeThrow:
		if dir == 0 {
			dir = 1
		}
		return Intent{Kind: IntentThrowGrenade, X: x, Y: y, VX: float64(dir) * throwSpeed, VY: -throwSpeed}
	}
	return Intent{Kind: IntentPaint, X: x, Y: y, Radius: brush, Material: t.Material}
}
