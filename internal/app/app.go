//go:build ebiten

package app

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"mad-sand/internal/core"
	"mad-sand/internal/logger"
	"mad-sand/internal/render"
	"mad-sand/internal/sims/sandbox"
	"mad-sand/internal/ui"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

type intentQueue interface {
	Queue(sandbox.Intent)
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	log     *logrus.Entry

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64
	lastX    int
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, scale int, seed int64, hudWidth int) *Game {
	if scale <= 0 {
		scale = 1
	}
	gp := render.NewGridPainter(sim.Size().W, sim.Size().H)
	return &Game{
		sim:      sim,
		painter:  gp,
		overlay:  ui.NewOverlay(sim, scale),
		hud:      ui.NewHUD(sim, hudWidth),
		log:      logger.Component("app"),
		scale:    scale,
		hudWidth: hudWidth,
		seed:     seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if c, ok := g.sim.(interface{ Clear() }); ok {
			c.Clear()
		}
	}

	if g.overlay != nil {
		g.overlay.Update()
	}
	consumed := false
	if g.hud != nil {
		consumed = g.hud.Update(g.viewWidth())
	}
	if !consumed {
		g.handleMouse()
	}

	if (!g.paused) || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// handleMouse turns clicks over the grid into queued intents for the
// selected tool. Paint tools repeat while the button is held.
func (g *Game) handleMouse() {
	q, ok := g.sim.(intentQueue)
	if !ok || g.hud == nil {
		return
	}
	tool := g.hud.Tool()
	pressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	if tool.Continuous() {
		pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	}
	mx, my := ebiten.CursorPosition()
	dir := 1
	if mx < g.lastX {
		dir = -1
	}
	g.lastX = mx
	if !pressed {
		return
	}
	x, y, ok := g.cellAt(mx, my)
	if !ok {
		return
	}
	q.Queue(tool.Intent(x, y, g.hud.Brush(), dir))
	if !tool.Continuous() {
		g.log.WithField("tool", tool.Name).Debug("tool used")
	}
}

// cellAt maps a cursor position to fractional grid coordinates.
func (g *Game) cellAt(mx, my int) (float64, float64, bool) {
	s := g.sim.Size()
	if mx < 0 || my < 0 || mx >= s.W*g.scale || my >= s.H*g.scale {
		return 0, 0, false
	}
	return float64(mx) / float64(g.scale), float64(my) / float64(g.scale), true
}

func (g *Game) viewWidth() int { return g.sim.Size().W * g.scale }

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	var palette []color.RGBA
	if p, ok := g.sim.(paletteProvider); ok {
		palette = p.Palette()
	}
	g.painter.Blit(screen, g.sim.Cells(), palette, g.scale)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
	if g.hud != nil {
		g.hud.Draw(screen, g.viewWidth(), g.scale)
	}
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
