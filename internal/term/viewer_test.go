package term

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"mad-sand/internal/audio"
	"mad-sand/internal/material"
	"mad-sand/internal/sims/sandbox"
)

func newViewer(t *testing.T, w, h int) (*Viewer, tcell.SimulationScreen, *[]audio.Cue) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(w, h/2+1)

	log, _ := test.NewNullLogger()
	world := sandbox.New(w, h)
	world.SetLogger(logrus.NewEntry(log))

	var cues []audio.Cue
	v := New(screen, world, 60, logrus.NewEntry(log), func(c audio.Cue) { cues = append(cues, c) })
	return v, screen, &cues
}

func selectTool(t *testing.T, v *Viewer, name string) {
	t.Helper()
	for i, tool := range v.tools {
		if tool.Name == name {
			v.selected = i
			return
		}
	}
	t.Fatalf("no tool named %q", name)
}

func TestCellStyleUsesPalette(t *testing.T) {
	pal := []color.RGBA{{A: 255}, {R: 10, G: 20, B: 30, A: 255}}
	got := cellStyle(1, 0, pal)
	want := tcell.StyleDefault.Foreground(tcell.NewRGBColor(10, 20, 30)).Background(tcell.NewRGBColor(0, 0, 0))
	if got != want {
		t.Fatalf("unexpected style")
	}
	if cellStyle(200, 0, pal) != want {
		t.Fatalf("out of range ids should clamp to the last palette entry")
	}
}

func TestDrawRendersGridAndStatus(t *testing.T) {
	v, screen, _ := newViewer(t, 20, 20)
	v.world.Set(3, 4, material.Stone)
	v.Draw()

	r, _, _, _ := screen.GetContent(3, 2)
	if r != halfBlock {
		t.Fatalf("expected half block at grid cell, got %q", r)
	}
	_, rows := screen.Size()
	status := ""
	for x := 0; x < 20; x++ {
		r, _, _, _ := screen.GetContent(x, rows-1)
		status += string(r)
	}
	if want := " " + v.Tool().Name; status[:len(want)] != want {
		t.Fatalf("status line %q does not start with tool name", status)
	}
}

func TestDrawShowsPeople(t *testing.T) {
	v, screen, _ := newViewer(t, 40, 40)
	for x := 0; x < 40; x++ {
		v.world.Set(x, 38, material.Stone)
	}
	v.world.SpawnPerson(20, 38)
	v.Draw()

	found := false
	cols, rows := screen.Size()
	for y := 0; y < rows-1; y++ {
		for x := 0; x < cols; x++ {
			if r, _, _, _ := screen.GetContent(x, y); r == 'o' {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected a head glyph on screen")
	}
}

func TestKeysCycleToolsAndBrush(t *testing.T) {
	v, _, _ := newViewer(t, 20, 20)
	if !v.handleKey(tcell.KeyTab, 0) || v.selected != 1 {
		t.Fatalf("tab should select the next tool, got %d", v.selected)
	}
	v.handleKey(tcell.KeyBacktab, 0)
	v.handleKey(tcell.KeyBacktab, 0)
	if v.selected != len(v.tools)-1 {
		t.Fatalf("backtab should wrap, got %d", v.selected)
	}
	for i := 0; i < 20; i++ {
		v.handleKey(tcell.KeyRune, ']')
	}
	if v.Brush() != maxBrush {
		t.Fatalf("brush should cap at %d, got %d", maxBrush, v.Brush())
	}
	for i := 0; i < 20; i++ {
		v.handleKey(tcell.KeyRune, '[')
	}
	if v.Brush() != 0 {
		t.Fatalf("brush should floor at 0, got %d", v.Brush())
	}
	if v.handleKey(tcell.KeyRune, 'q') || v.handleKey(tcell.KeyEscape, 0) {
		t.Fatalf("q and escape should quit")
	}
}

func TestMousePaintsThroughQueue(t *testing.T) {
	v, _, _ := newViewer(t, 20, 20)
	selectTool(t, v, "stone")
	v.handleKey(tcell.KeyRune, '[')
	v.handleKey(tcell.KeyRune, '[')
	v.handleMouse(5, 3, true)
	v.handleMouse(5, 3, true)
	if v.world.Pending() != 2 {
		t.Fatalf("paint tools repeat while held, pending %d", v.world.Pending())
	}
	v.advance(1)
	if v.world.At(5, 6) != material.Stone {
		t.Fatalf("expected stone at (5,6), got %v", v.world.At(5, 6))
	}
}

func TestSpawnToolsFireOncePerClick(t *testing.T) {
	v, _, _ := newViewer(t, 20, 20)
	selectTool(t, v, "person")
	v.handleMouse(5, 3, true)
	v.handleMouse(6, 3, true)
	v.handleMouse(6, 3, false)
	v.handleMouse(6, 3, true)
	if v.world.Pending() != 2 {
		t.Fatalf("expected two spawns, pending %d", v.world.Pending())
	}
	v.handleMouse(100, 3, false)
	v.handleMouse(100, 3, true)
	if v.world.Pending() != 2 {
		t.Fatalf("clicks outside the world should be ignored")
	}
}

func TestPauseAndSingleStep(t *testing.T) {
	v, _, _ := newViewer(t, 20, 20)
	v.handleKey(tcell.KeyRune, ' ')
	v.advance(3)
	if v.world.Tick() != 0 {
		t.Fatalf("paused viewer should not step, tick %d", v.world.Tick())
	}
	v.handleKey(tcell.KeyRune, 'n')
	v.advance(3)
	if v.world.Tick() != 1 {
		t.Fatalf("single step should run one tick, tick %d", v.world.Tick())
	}
}

func TestExplosionPlaysCue(t *testing.T) {
	v, _, cues := newViewer(t, 40, 40)
	selectTool(t, v, "explode")
	v.handleMouse(20, 10, true)
	v.advance(1)
	if len(*cues) == 0 || (*cues)[0] != audio.CueExplosion {
		t.Fatalf("expected an explosion cue, got %v", *cues)
	}
}

func TestEventPumpStopsWhenCancelled(t *testing.T) {
	v, screen, _ := newViewer(t, 20, 20)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := v.pollEvents(ctx, make(chan struct{}))

	deadline := time.Now().Add(2 * time.Second)
	for len(events) < cap(events) {
		if time.Now().After(deadline) {
			t.Fatalf("event buffer never filled: %d of %d", len(events), cap(events))
		}
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		time.Sleep(time.Millisecond)
	}
	for i := 0; i < 4; i++ {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
	time.Sleep(10 * time.Millisecond)
	cancel()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-timeout:
			t.Fatalf("event pump still running after cancel")
		}
	}
}
