//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"mad-sand/internal/core"
	"mad-sand/internal/sims/sandbox"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

type statusProvider interface {
	Tick() uint64
	Detonations() int
	Deaths() int
}

var (
	panelColor   = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleColor   = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor   = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor     = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonColor  = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	disableColor = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	selectColor  = color.RGBA{R: 90, G: 110, B: 170, A: 255}
)

// HUD renders the toolbox and parameter panel to the right of the view.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot

	tools    []toolState
	selected int
	brush    int

	controls     []hudControlState
	controlsTop  int
	intSetter    core.IntParameterSetter
	floatSetter  core.FloatParameterSetter
	panelOffsetX int
	title        string

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{sim: sim, width: width, brush: 3}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	h.title = sim.Name()
	h.layoutTools(sandbox.Tools())
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		controls := provider.ParameterControls()
		h.controls = make([]hudControlState, len(controls))
		for i, ctrl := range controls {
			h.controls[i] = hudControlState{control: ctrl, value: "--"}
		}
		h.layoutControls()
	}
	if setter, ok := sim.(core.IntParameterSetter); ok {
		h.intSetter = setter
	}
	if setter, ok := sim.(core.FloatParameterSetter); ok {
		h.floatSetter = setter
	}
	return h
}

// Tool returns the selected toolbox entry.
func (h *HUD) Tool() sandbox.Tool { return h.tools[h.selected].tool }

// Brush returns the paint radius in cells.
func (h *HUD) Brush() int { return h.brush }

// Update refreshes the cached parameter snapshot and handles clicks on the
// panel. It reports whether the click was consumed by the panel.
func (h *HUD) Update(panelOffsetX int) bool {
	if h == nil {
		return false
	}
	h.panelOffsetX = panelOffsetX
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) && h.brush > 0 {
		h.brush--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) && h.brush < 20 {
		h.brush++
	}
	if provider, ok := h.sim.(parameterProvider); ok {
		h.snapshot = provider.Parameters()
		h.refreshControlValues()
	}
	return h.handleInput()
}

// Draw paints the HUD panel anchored to the right edge of the simulation view.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelColor)
	h.drawHeader()
	h.drawTools()
	h.drawControls()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawHeader() {
	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, y, titleColor)
	if st, ok := h.sim.(statusProvider); ok {
		line := fmt.Sprintf("tick %d  dead %d  boom %d", st.Tick(), st.Deaths(), st.Detonations())
		text.Draw(h.panel, line, face, panelPadding, y+statusSpacing, dimColor)
	}
	text.Draw(h.panel, fmt.Sprintf("brush %d  [ ]", h.brush), face, panelPadding, y+2*statusSpacing, dimColor)
}

func (h *HUD) layoutTools(tools []sandbox.Tool) {
	colWidth := (h.width - 2*panelPadding - toolGap) / 2
	for i, t := range tools {
		col, row := i%2, i/2
		x := panelPadding + col*(colWidth+toolGap)
		y := toolsTop + row*(toolHeight+toolGap)
		h.tools = append(h.tools, toolState{tool: t, rect: image.Rect(x, y, x+colWidth, y+toolHeight)})
	}
	rows := (len(tools) + 1) / 2
	h.controlsTop = toolsTop + rows*(toolHeight+toolGap) + sectionGap
}

func (h *HUD) drawTools() {
	for i, t := range h.tools {
		bg := buttonColor
		if i == h.selected {
			bg = selectColor
		}
		h.fillRect(t.rect, bg)
		if t.tool.Kind == sandbox.ToolPaint {
			swatch := image.Rect(t.rect.Min.X+3, t.rect.Min.Y+3, t.rect.Min.X+t.rect.Dy()-3, t.rect.Max.Y-3)
			h.fillRect(swatch, t.tool.Material.Props().Color)
		}
		text.Draw(h.panel, t.tool.Name, basicfont.Face7x13, t.rect.Min.X+t.rect.Dy()+2, t.rect.Max.Y-5, labelColor)
	}
}

func (h *HUD) refreshControlValues() {
	for i := range h.controls {
		state := &h.controls[i]
		state.hasValue = false
		state.value = "--"
		param, ok := h.snapshot.Lookup(state.control.Key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			continue
		}
		state.floatValue = parsed
		state.intValue = int(math.Round(parsed))
		state.hasValue = true
		if state.control.Type == core.ParamTypeInt {
			state.value = strconv.Itoa(state.intValue)
		} else {
			state.value = formatFloat(state.control, parsed)
		}
	}
}

func (h *HUD) handleInput() bool {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return false
	}
	px := mx - h.panelOffsetX
	for i, t := range h.tools {
		if pointInRect(px, my, t.rect) {
			h.selected = i
			return true
		}
	}
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.adjust(state, -1)
		} else if pointInRect(px, my, state.plusRect) {
			h.adjust(state, 1)
		}
	}
	return true
}

// target computes the next value for a control in direction and reports
// whether the move stays inside the control's bounds and has a setter.
func (h *HUD) target(state *hudControlState, direction int) (float64, bool) {
	step := state.control.Step
	switch state.control.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return 0, false
		}
		step = math.Max(1, math.Round(step))
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return 0, false
		}
		if step <= 0 {
			step = 0.05
		}
	default:
		return 0, false
	}
	next := state.floatValue + float64(direction)*step
	clamped := state.control.Clamp(next)
	if math.Abs(clamped-state.floatValue) < 1e-9 {
		return 0, false
	}
	return clamped, true
}

func (h *HUD) adjust(state *hudControlState, direction int) {
	next, ok := h.target(state, direction)
	if !ok {
		return
	}
	if state.control.Type == core.ParamTypeInt {
		if h.intSetter.SetIntParameter(state.control.Key, int(math.Round(next))) {
			state.intValue = int(math.Round(next))
			state.floatValue = next
			state.value = strconv.Itoa(state.intValue)
		}
		return
	}
	if h.floatSetter.SetFloatParameter(state.control.Key, next) {
		state.floatValue = next
		state.value = formatFloat(state.control, next)
	}
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	for i := range h.controls {
		state := &h.controls[i]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, labelColor)
		valueColor := labelColor
		if !state.hasValue {
			valueColor = dimColor
		}
		bounds := text.BoundString(face, state.value)
		valueX := state.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(h.panel, state.value, face, valueX, labelY, valueColor)

		_, minus := h.target(state, -1)
		_, plus := h.target(state, 1)
		h.drawButton(state.minusRect, "-", state.hasValue && minus)
		h.drawButton(state.plusRect, "+", state.hasValue && plus)
	}
}

func (h *HUD) fillRect(rect image.Rectangle, c color.RGBA) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(c)
	h.panel.DrawImage(h.pixel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := buttonColor, labelColor
	if !enabled {
		bg, fg = disableColor, dimColor
	}
	h.fillRect(rect, bg)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	for i := range h.controls {
		top := h.controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
	}
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	precision := 1
	switch step := ctrl.Step; {
	case step <= 0:
		precision = 2
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

type toolState struct {
	tool sandbox.Tool
	rect image.Rectangle
}

type hudControlState struct {
	control core.ParameterControl
	value   string

	intValue   int
	floatValue float64
	hasValue   bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	statusSpacing  = 16
	toolsTop       = panelPadding + headerBaseline + 3*statusSpacing
	toolHeight     = 18
	toolGap        = 4
	sectionGap     = 12
)
