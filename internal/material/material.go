// Package material holds the closed table of cell materials and their
// physical properties.
package material

import (
	"image/color"
	"strings"
)

// Material identifies the contents of one grid cell.
type Material uint8

const (
	Empty Material = iota
	Stone
	Sand
	Water
	Concrete
	Oil
	Wood
	Fire
	Smoke
	Steam
	Lava
	Glass
	Ember
	Ash
	Ice
	Acid
	Plasma
	Electricity

	// Count is the number of defined materials.
	Count
)

// Properties describes how a material behaves. Density orders liquids and
// powders; only Empty has zero density.
type Properties struct {
	Name       string
	Solid      bool
	Liquid     bool
	Gas        bool
	Flammable  bool
	Conductive bool
	// Quenches extinguishes burning actors and heals them slightly.
	Quenches bool
	Density  uint8
	// Hazard is the damage dealt per overlapping body point per tick.
	Hazard float64
	// Burns sets actors alight on contact.
	Burns bool
	Color color.RGBA
}

var table = [Count]Properties{
	Empty:       {Name: "empty", Color: rgb(0, 0, 0)},
	Stone:       {Name: "stone", Solid: true, Density: 9, Color: rgb(120, 120, 125)},
	Sand:        {Name: "sand", Solid: true, Density: 6, Color: rgb(220, 196, 120)},
	Water:       {Name: "water", Liquid: true, Conductive: true, Quenches: true, Density: 4, Color: rgb(50, 110, 220)},
	Concrete:    {Name: "concrete", Solid: true, Density: 9, Color: rgb(170, 170, 165)},
	Oil:         {Name: "oil", Liquid: true, Flammable: true, Density: 3, Color: rgb(70, 50, 30)},
	Wood:        {Name: "wood", Solid: true, Flammable: true, Density: 8, Color: rgb(120, 80, 40)},
	Fire:        {Name: "fire", Gas: true, Density: 1, Hazard: 0.05, Burns: true, Color: rgb(255, 120, 30)},
	Smoke:       {Name: "smoke", Gas: true, Density: 1, Color: rgb(70, 70, 75)},
	Steam:       {Name: "steam", Gas: true, Density: 1, Color: rgb(200, 210, 225)},
	Lava:        {Name: "lava", Liquid: true, Density: 7, Hazard: 0.4, Burns: true, Color: rgb(255, 80, 20)},
	Glass:       {Name: "glass", Solid: true, Density: 9, Color: rgb(190, 230, 235)},
	Ember:       {Name: "ember", Density: 2, Hazard: 0.03, Burns: true, Color: rgb(230, 90, 30)},
	Ash:         {Name: "ash", Solid: true, Density: 2, Color: rgb(90, 88, 85)},
	Ice:         {Name: "ice", Solid: true, Density: 8, Color: rgb(170, 220, 255)},
	Acid:        {Name: "acid", Liquid: true, Conductive: true, Density: 4, Hazard: 0.15, Color: rgb(120, 255, 60)},
	Plasma:      {Name: "plasma", Gas: true, Density: 1, Hazard: 0.6, Burns: true, Color: rgb(230, 90, 255)},
	Electricity: {Name: "electricity", Gas: true, Density: 1, Hazard: 0.3, Burns: true, Color: rgb(255, 255, 120)},
}

func rgb(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 255} }

// Valid reports whether m is part of the table.
func (m Material) Valid() bool { return m < Count }

// Props returns the properties of m. Unknown identifiers read as Stone so a
// corrupted cell behaves like the world edge.
func (m Material) Props() Properties {
	if !m.Valid() {
		return table[Stone]
	}
	return table[m]
}

func (m Material) String() string { return m.Props().Name }

// Solid reports whether actors and projectiles collide with m.
func (m Material) Solid() bool { return m.Props().Solid }

// Liquid reports whether m flows.
func (m Material) Liquid() bool { return m.Props().Liquid }

// Gas reports whether m rises.
func (m Material) Gas() bool { return m.Props().Gas }

// Flammable reports whether fire can consume m.
func (m Material) Flammable() bool { return m.Props().Flammable }

// Hot reports whether m melts ice and ignites neighbours.
func (m Material) Hot() bool {
	return m == Fire || m == Lava || m == Plasma
}

// Parse resolves a material by name, case-insensitively.
func Parse(name string) (Material, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := Material(0); i < Count; i++ {
		if table[i].Name == name {
			return i, true
		}
	}
	return Empty, false
}

// All returns every material in identifier order.
func All() []Material {
	out := make([]Material, Count)
	for i := range out {
		out[i] = Material(i)
	}
	return out
}

// Palette returns one colour per material identifier, suitable for indexed
// rendering of grid cells.
func Palette() []color.RGBA {
	out := make([]color.RGBA, Count)
	for i := range out {
		out[i] = table[i].Color
	}
	return out
}
