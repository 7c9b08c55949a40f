// Package term is a terminal front-end for the sandbox built on tcell.
package term

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"mad-sand/internal/audio"
	"mad-sand/internal/core"
	"mad-sand/internal/ragdoll"
	"mad-sand/internal/sims/sandbox"
)

const (
	frameInterval = 16 * time.Millisecond
	maxBrush      = 12
)

// Viewer draws a sandbox world into a tcell screen and turns keys and mouse
// clicks into queued intents.
type Viewer struct {
	screen tcell.Screen
	world  *sandbox.World
	clock  *core.FixedStep
	log    *logrus.Entry
	cues   *audio.Watcher

	tools    []sandbox.Tool
	selected int
	brush    int
	paused   bool
	stepOnce bool
	seed     int64

	lastX   int
	holding bool
}

// New wires a viewer to an initialised screen. play may be nil.
func New(screen tcell.Screen, world *sandbox.World, tps int, log *logrus.Entry, play func(audio.Cue)) *Viewer {
	if play == nil {
		play = func(audio.Cue) {}
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Viewer{
		screen: screen,
		world:  world,
		clock:  core.NewFixedStep(tps),
		log:    log,
		cues:   audio.NewWatcher(play),
		tools:  sandbox.Tools(),
		brush:  2,
		seed:   world.Config().Seed,
	}
}

// Tool returns the selected tool.
func (v *Viewer) Tool() sandbox.Tool { return v.tools[v.selected] }

// Brush returns the paint radius.
func (v *Viewer) Brush() int { return v.brush }

// Paused reports whether stepping is suspended.
func (v *Viewer) Paused() bool { return v.paused }

// Run polls input and advances the world at the configured rate until ctx is
// cancelled or the user quits.
func (v *Viewer) Run(ctx context.Context) error {
	v.screen.EnableMouse()
	v.screen.HideCursor()

	done := make(chan struct{})
	defer close(done)
	events := v.pollEvents(ctx, done)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok || !v.handleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			v.advance(v.clock.Pending(now))
			v.Draw()
			v.screen.Show()
		}
	}
}

// pollEvents forwards screen events until the screen is finalised, ctx is
// cancelled or done is closed.
func (v *Viewer) pollEvents(ctx context.Context, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 64)
	go func() {
		defer close(events)
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()
	return events
}

// advance runs up to n ticks, or one when a single step was requested while
// paused, and reports audio cues for what happened.
func (v *Viewer) advance(n int) {
	if v.paused {
		n = 0
		if v.stepOnce {
			n = 1
		}
	}
	v.stepOnce = false
	for i := 0; i < n; i++ {
		v.world.Step()
	}
	v.cues.Observe(v.world)
}

func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		v.handleMouse(x, y, ev.Buttons()&tcell.Button1 != 0)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// handleKey applies one key press and reports whether the viewer keeps
// running.
func (v *Viewer) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyTab:
		v.selected = (v.selected + 1) % len(v.tools)
		return true
	case tcell.KeyBacktab:
		v.selected = (v.selected + len(v.tools) - 1) % len(v.tools)
		return true
	case tcell.KeyRune:
	default:
		return true
	}
	switch r {
	case 'q':
		return false
	case ' ':
		v.paused = !v.paused
	case 'n':
		v.stepOnce = true
	case '[', '-':
		if v.brush > 0 {
			v.brush--
		}
	case ']', '+':
		if v.brush < maxBrush {
			v.brush++
		}
	case 'c':
		v.world.Queue(sandbox.Intent{Kind: sandbox.IntentClear})
	case 'r':
		v.world.Reset(v.seed)
	case 's':
		v.seed = time.Now().UnixNano()
		v.world.Reset(v.seed)
	}
	return true
}

// handleMouse maps a terminal cell to the world. Each terminal row covers
// two grid rows; clicks land on the upper one.
func (v *Viewer) handleMouse(x, y int, pressed bool) {
	dir := 1
	if x < v.lastX {
		dir = -1
	}
	v.lastX = x
	if !pressed {
		v.holding = false
		return
	}
	tool := v.Tool()
	if v.holding && !tool.Continuous() {
		return
	}
	v.holding = true
	size := v.world.Size()
	wx, wy := float64(x)+0.5, float64(2*y)+0.5
	if wx >= float64(size.W) || wy >= float64(size.H) || x < 0 || y < 0 {
		return
	}
	v.world.Queue(tool.Intent(wx, wy, v.brush, dir))
	if !tool.Continuous() {
		v.log.WithFields(logrus.Fields{"tool": tool.Name, "x": wx, "y": wy}).Debug("tool used")
	}
}

// Draw renders the world and the status line without calling Show.
func (v *Viewer) Draw() {
	cols, rows := v.screen.Size()
	size := v.world.Size()
	c := canvas{screen: v.screen, cells: v.world.Cells(), w: size.W, h: size.H, pal: v.world.Palette(), cols: cols, rows: rows - 1}

	v.screen.Clear()
	for row := 0; row < c.rows && 2*row < size.H; row++ {
		for x := 0; x < cols && x < size.W; x++ {
			v.screen.SetContent(x, row, halfBlock, nil, c.background(x, row))
		}
	}
	for _, b := range v.world.Blood() {
		c.put(b.Pos.X(), b.Pos.Y(), ',', bloodColor)
	}
	for _, g := range v.world.Gibs() {
		c.put(g.Pos.X(), g.Pos.Y(), '%', bloodColor)
	}
	for _, veh := range v.world.Vehicles() {
		c.put(veh.Pos.X(), veh.Pos.Y(), vehicleGlyph(veh.Kind), metalColor)
	}
	for _, p := range v.world.People() {
		fg := liveColor
		switch {
		case p.OnFire:
			fg = fireColor
		case !p.Alive:
			fg = deadColor
		}
		for j := ragdoll.Joint(0); j < ragdoll.JointCount; j++ {
			pos := p.Point(j).Pos
			c.put(pos.X(), pos.Y(), personGlyph(p.Alive, j), fg)
		}
	}
	for _, w := range v.world.Weapons() {
		c.put(w.Pos.X(), w.Pos.Y(), weaponGlyph(w.Kind), metalColor)
	}
	for _, pr := range v.world.Projectiles() {
		c.put(pr.Pos.X(), pr.Pos.Y(), '-', metalColor)
	}
	for _, e := range v.world.Explosions() {
		c.put(e.X, e.Y, '#', blastColor)
	}
	v.drawStatus(cols, rows)
}

func (v *Viewer) drawStatus(cols, rows int) {
	if rows <= 0 {
		return
	}
	line := fmt.Sprintf(" %s  brush %d  tick %d  people %d  dead %d  boom %d",
		v.Tool().Name, v.brush, v.world.Tick(), len(v.world.People()), v.world.Deaths(), v.world.Detonations())
	if v.paused {
		line += "  [paused]"
	}
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		v.screen.SetContent(x, rows-1, r, nil, statusStyle)
	}
}
