package core

import (
	"testing"
	"time"
)

func TestByteGridBounds(t *testing.T) {
	g := NewByteGrid(4, 3)
	g.Set(1, 2, 7)
	if got := g.Get(1, 2, 0); got != 7 {
		t.Fatalf("expected 7 at (1,2), got %d", got)
	}
	g.Set(-1, 0, 9)
	g.Set(4, 0, 9)
	for i, v := range g.Cells() {
		if v == 9 {
			t.Fatalf("out of bounds write leaked into index %d", i)
		}
	}
	if got := g.Get(10, 10, 42); got != 42 {
		t.Fatalf("expected fallback for out of range read, got %d", got)
	}
}

func TestByteGridIndexPanicsOutsideGrid(t *testing.T) {
	g := NewByteGrid(2, 2)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for raw index outside grid")
		}
	}()
	g.Index(2, 0)
}

func TestRNGDeterministic(t *testing.T) {
	a := NewRNG(5)
	b := NewRNG(5)
	for i := 0; i < 64; i++ {
		if a.IntN(1000) != b.IntN(1000) {
			t.Fatalf("sequences diverged at draw %d", i)
		}
	}
	for i := 0; i < 100; i++ {
		if v := a.Range(5, 10); v < 5 || v > 10 {
			t.Fatalf("Range produced %d outside [5,10]", v)
		}
	}
	if a.Chance(0) {
		t.Fatal("Chance(0) must never fire")
	}
}

func TestFixedStepPending(t *testing.T) {
	fs := NewFixedStep(10)
	start := time.Unix(100, 0)
	if n := fs.Pending(start); n != 1 {
		t.Fatalf("expected the primed tick on first call, got %d", n)
	}
	if n := fs.Pending(start.Add(250 * time.Millisecond)); n != 2 {
		t.Fatalf("expected 2 ticks after 250ms at 10 TPS, got %d", n)
	}
	if n := fs.Pending(start.Add(10 * time.Second)); n != maxCatchUp {
		t.Fatalf("expected catch-up cap %d after a stall, got %d", maxCatchUp, n)
	}
	if n := fs.Pending(start.Add(10*time.Second + 50*time.Millisecond)); n != 0 {
		t.Fatalf("expected surplus to be dropped after a stall, got %d", n)
	}
}
