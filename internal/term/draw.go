package term

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"mad-sand/internal/ragdoll"
	"mad-sand/internal/sims/sandbox"
)

// halfBlock shows the upper of two stacked grid cells in the foreground
// colour and the lower one in the background colour.
const halfBlock = '▀'

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// cellStyle returns the style for a terminal cell covering grid rows y and
// y+1 of column x.
func cellStyle(top, bottom uint8, palette []color.RGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(rgb(paletteAt(palette, top))).Background(rgb(paletteAt(palette, bottom)))
}

func paletteAt(palette []color.RGBA, id uint8) color.RGBA {
	if len(palette) == 0 {
		return color.RGBA{A: 255}
	}
	if int(id) >= len(palette) {
		id = uint8(len(palette) - 1)
	}
	return palette[id]
}

func weaponGlyph(k sandbox.WeaponKind) rune {
	switch k {
	case sandbox.Bomb:
		return 'ó'
	case sandbox.Grenade:
		return '*'
	case sandbox.Gun:
		return '¬'
	case sandbox.Sword:
		return '/'
	}
	return '?'
}

func vehicleGlyph(k sandbox.VehicleKind) rune {
	switch k {
	case sandbox.Car:
		return '='
	case sandbox.Boat:
		return 'u'
	case sandbox.Plane:
		return '>'
	}
	return '?'
}

// personGlyph picks the glyph for joint j of a living or dead person.
func personGlyph(alive bool, j ragdoll.Joint) rune {
	switch {
	case j == ragdoll.Head && !alive:
		return 'x'
	case j == ragdoll.Head:
		return 'o'
	case j == ragdoll.Hip:
		return 'A'
	}
	return '.'
}

var (
	liveColor   = tcell.NewRGBColor(240, 200, 160)
	deadColor   = tcell.NewRGBColor(120, 110, 100)
	fireColor   = tcell.NewRGBColor(255, 120, 20)
	metalColor  = tcell.NewRGBColor(200, 200, 210)
	bloodColor  = tcell.NewRGBColor(170, 0, 0)
	blastColor  = tcell.NewRGBColor(255, 220, 80)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
)

// canvas maps world coordinates onto screen cells.
type canvas struct {
	screen tcell.Screen
	cells  []uint8
	w, h   int
	pal    []color.RGBA
	cols   int
	rows   int
}

func (c canvas) background(x, row int) tcell.Style {
	top := c.cells[2*row*c.w+x]
	var bottom uint8
	if 2*row+1 < c.h {
		bottom = c.cells[(2*row+1)*c.w+x]
	}
	return cellStyle(top, bottom, c.pal)
}

// put draws r at world position (x, y) on the colour of the grid cell it
// covers.
func (c canvas) put(x, y float64, r rune, fg tcell.Color) {
	cx, cy := int(math.Floor(x)), int(math.Floor(y))
	if cx < 0 || cy < 0 || cx >= c.w || cy >= c.h {
		return
	}
	row := cy / 2
	if cx >= c.cols || row >= c.rows {
		return
	}
	bg := rgb(paletteAt(c.pal, c.cells[cy*c.w+cx]))
	c.screen.SetContent(cx, row, r, nil, tcell.StyleDefault.Foreground(fg).Background(bg))
}
