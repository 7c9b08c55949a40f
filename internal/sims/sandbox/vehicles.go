package sandbox

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"mad-sand/internal/ragdoll"
)

const (
	boardReach     = 5.0
	vehicleGravity = 0.2
	vehicleMaxFall = 3.0
	boatLift       = 0.25
	boatDrag       = 0.8
	coastDrag      = 0.9
	planeGlide     = 0.99
	planeClimb     = -0.5
	planeLookAhead = 6
	crashSpeed     = 1.0
	crashRadius    = 12
	crashPower     = 60
	seatHeight     = 4.0
)

func (w *World) vehicle(id uint32) *Vehicle {
	if id == 0 {
		return nil
	}
	for _, v := range w.vehicles {
		if v.ID == id {
			return v
		}
	}
	return nil
}

func (w *World) stepVehicles() {
	for _, v := range w.vehicles {
		w.updateDriver(v)
		switch v.Kind {
		case Car:
			w.driveCar(v)
		case Boat:
			w.driveBoat(v)
		case Plane:
			w.flyPlane(v)
		}
		w.moveVehicle(v)
		if d := w.Person(v.Driver); d != nil {
			seat(d, v)
		}
	}
	kept := w.vehicles[:0]
	for _, v := range w.vehicles {
		if v.Wrecked {
			continue
		}
		kept = append(kept, v)
	}
	w.vehicles = kept
}

// updateDriver drops dead or bored drivers and lets nearby actors climb into
// empty vehicles.
func (w *World) updateDriver(v *Vehicle) {
	prm := w.cfg.Params
	if v.Driver != 0 {
		d := w.Person(v.Driver)
		if d == nil || !d.Alive || d.Riding != v.ID || w.rng.Chance(prm.UnboardChance) {
			w.unboard(v, d)
		}
		return
	}
	for _, p := range w.people {
		if !p.Alive || !p.Grounded || p.Riding != 0 {
			continue
		}
		if feet(p).Sub(v.Pos).Len() > boardReach || !w.rng.Chance(prm.BoardChance) {
			continue
		}
		v.Driver = p.ID
		p.Riding = v.ID
		w.log.WithFields(logrus.Fields{"person": p.ID, "vehicle": v.ID, "kind": v.Kind.String()}).Debug("boarded")
		return
	}
}

func (w *World) unboard(v *Vehicle, d *ragdoll.Person) {
	v.Driver = 0
	if d == nil || d.Riding != v.ID {
		return
	}
	d.Riding = 0
	d.Body.Translate(mgl64.Vec2{float64(-v.Dir) * 3, 0})
}

// feet returns the midpoint between an actor's feet.
func feet(p *ragdoll.Person) mgl64.Vec2 {
	return p.Point(ragdoll.FootL).Pos.Add(p.Point(ragdoll.FootR).Pos).Mul(0.5)
}

// seat pins a rider's body above the vehicle.
func seat(p *ragdoll.Person, v *Vehicle) {
	target := v.Pos.Add(mgl64.Vec2{0, -seatHeight})
	p.Body.Translate(target.Sub(p.Position()))
	for j := range p.Body.Points {
		p.Body.Points[j].Prev = p.Body.Points[j].Pos.Sub(v.Vel)
	}
	p.CenterX = v.Pos.X()
}

func (w *World) supported(v *Vehicle) bool {
	return w.grid.Solid(cellOf(v.Pos.X()), cellOf(v.Pos.Y())+1)
}

func (w *World) gravity(v *Vehicle) {
	v.Vel[1] = math.Min(v.Vel[1]+vehicleGravity, vehicleMaxFall)
}

func (w *World) driveCar(v *Vehicle) {
	v.Grounded = w.supported(v)
	if !v.Grounded {
		w.gravity(v)
	} else if v.Vel[1] > 0 {
		v.Vel[1] = 0
	}
	if v.Driver == 0 {
		v.Vel[0] *= coastDrag
		return
	}
	x, y := cellOf(v.Pos.X())+2*v.Dir, cellOf(v.Pos.Y())
	if w.grid.Solid(x, y) && w.grid.Solid(x, y-1) {
		v.Dir = -v.Dir
	}
	v.Vel[0] = float64(v.Dir) * w.cfg.Params.CarSpeed
}

func (w *World) driveBoat(v *Vehicle) {
	x, y := cellOf(v.Pos.X()), cellOf(v.Pos.Y())
	afloat := w.grid.Liquid(x, y) || w.grid.Liquid(x, y+1)
	v.Grounded = w.supported(v)
	switch {
	case w.grid.Liquid(x, y):
		v.Vel[1] = (v.Vel[1] - boatLift) * boatDrag
	case !v.Grounded && !afloat:
		w.gravity(v)
	default:
		v.Vel[1] = math.Min(v.Vel[1], 0)
	}
	if v.Driver == 0 || !afloat {
		v.Vel[0] *= coastDrag
		return
	}
	ahead := x + 3*v.Dir
	if w.grid.Solid(ahead, y) || !w.grid.Liquid(ahead, y+1) {
		v.Dir = -v.Dir
	}
	v.Vel[0] = float64(v.Dir) * w.cfg.Params.BoatSpeed
}

func (w *World) flyPlane(v *Vehicle) {
	if v.Driver == 0 {
		w.gravity(v)
		v.Vel[0] *= planeGlide
		return
	}
	x, y := cellOf(v.Pos.X()), cellOf(v.Pos.Y())
	if x+planeLookAhead*v.Dir <= 0 || x+planeLookAhead*v.Dir >= w.w-1 {
		v.Dir = -v.Dir
	}
	v.Vel[0] = float64(v.Dir) * w.cfg.Params.PlaneSpeed
	v.Vel[1] = 0
	for d := 1; d <= planeLookAhead; d++ {
		if w.grid.Solid(x+d*v.Dir, y) {
			v.Vel[1] = planeClimb
			break
		}
	}
}

// moveVehicle advances a vehicle one cell at a time, stopping at solid
// cells. A plane hitting something fast enough is wrecked.
func (w *World) moveVehicle(v *Vehicle) {
	speed := v.Vel.Len()
	steps := int(math.Ceil(speed))
	if steps == 0 {
		return
	}
	inc := v.Vel.Mul(1 / float64(steps))
	for i := 0; i < steps; i++ {
		next := v.Pos.Add(inc)
		if !w.cellAt(next).Solid() {
			v.Pos = next
			continue
		}
		if v.Kind == Plane && speed > crashSpeed {
			w.crash(v)
			return
		}
		if w.cellAt(mgl64.Vec2{next.X(), v.Pos.Y()}).Solid() {
			v.Vel[0] = 0
		}
		if w.cellAt(mgl64.Vec2{v.Pos.X(), next.Y()}).Solid() {
			v.Vel[1] = 0
			v.Grounded = true
		}
		return
	}
}

func (w *World) crash(v *Vehicle) {
	v.Wrecked = true
	w.unboard(v, w.Person(v.Driver))
	w.log.WithFields(logrus.Fields{"vehicle": v.ID, "x": v.Pos.X(), "y": v.Pos.Y()}).Info("plane crashed")
	w.TriggerExplosion(v.Pos.X(), v.Pos.Y(), crashRadius, crashPower)
}
