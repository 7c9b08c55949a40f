package sandbox

import "mad-sand/internal/material"

// IntentKind enumerates the requests a front-end can queue.
type IntentKind int

const (
	IntentPaint IntentKind = iota
	IntentSpawnPerson
	IntentSpawnWeapon
	IntentSpawnVehicle
	IntentThrowGrenade
	IntentExplode
	IntentClear
)

// Intent is a deferred world mutation. Only the fields relevant to Kind are
// read.
type Intent struct {
	Kind     IntentKind
	X, Y     float64
	VX, VY   float64
	Radius   int
	Power    float64
	Material material.Material
	Weapon   WeaponKind
	Vehicle  VehicleKind
}

// Queue records an intent to apply at the start of the next Step. It is safe
// to call from any goroutine.
func (w *World) Queue(in Intent) {
	w.mu.Lock()
	w.intents = append(w.intents, in)
	w.mu.Unlock()
}

// Pending reports how many intents wait for the next Step.
func (w *World) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.intents)
}

func (w *World) drainIntents() {
	w.mu.Lock()
	pending := w.intents
	w.intents = nil
	w.mu.Unlock()

	for _, in := range pending {
		w.apply(in)
	}
}

func (w *World) apply(in Intent) {
	switch in.Kind {
	case IntentPaint:
		w.PaintCircle(cellOf(in.X), cellOf(in.Y), in.Radius, in.Material)
	case IntentSpawnPerson:
		w.SpawnPerson(in.X, in.Y)
	case IntentSpawnWeapon:
		w.SpawnWeapon(in.Weapon, in.X, in.Y)
	case IntentSpawnVehicle:
		w.SpawnVehicle(in.Vehicle, in.X, in.Y)
	case IntentThrowGrenade:
		w.ThrowGrenade(in.X, in.Y, in.VX, in.VY)
	case IntentExplode:
		w.TriggerExplosion(in.X, in.Y, in.Radius, in.Power)
	case IntentClear:
		w.Clear()
	}
}
