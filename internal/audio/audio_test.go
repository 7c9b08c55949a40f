package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/sirupsen/logrus/hooks/test"
)

func drain(s beep.Streamer) (int, float64) {
	buf := make([][2]float64, 512)
	total, peak := 0, 0.0
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestToneLengthAndRange(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, w := range []Wave{Sine, Square, Noise} {
		n, peak := drain(NewTone(440, 220, 100*time.Millisecond, w, rate, 1))
		if n != rate.N(100*time.Millisecond) {
			t.Fatalf("wave %d: expected %d samples, got %d", w, rate.N(100*time.Millisecond), n)
		}
		if peak > 1 {
			t.Fatalf("wave %d: sample out of range %f", w, peak)
		}
	}
}

func TestSquareIsBipolar(t *testing.T) {
	buf := make([][2]float64, 64)
	n, _ := NewTone(100, 100, time.Second, Square, beep.SampleRate(8000), 1).Stream(buf)
	for i := 0; i < n; i++ {
		if v := buf[i][0]; v != 1 && v != -1 {
			t.Fatalf("sample %d = %f", i, v)
		}
	}
}

func TestDecayFadesOut(t *testing.T) {
	rate := beep.SampleRate(8000)
	s := NewDecay(NewTone(0, 0, time.Second, Square, rate, 1), 0, 50*time.Millisecond, rate)
	buf := make([][2]float64, rate.N(time.Second))
	n, _ := s.Stream(buf)
	if math.Abs(buf[0][0]) < 0.99 {
		t.Fatalf("expected full level at start, got %f", buf[0][0])
	}
	if tail := math.Abs(buf[n-1][0]); tail > 0.01 {
		t.Fatalf("expected faded tail, got %f", tail)
	}
}

func TestBuildCues(t *testing.T) {
	rate := beep.SampleRate(8000)
	for _, c := range []Cue{CueExplosion, CueDeath} {
		n, peak := drain(Build(c, rate, 1, 3))
		if n == 0 || peak == 0 {
			t.Fatalf("%s: expected audible output, got %d samples peak %f", c, n, peak)
		}
	}
	if Build(Cue(99), rate, 1, 0) != nil {
		t.Fatalf("unknown cue should build nothing")
	}
}

func TestSilentPlayerIgnoresCues(t *testing.T) {
	logger, _ := test.NewNullLogger()
	p := NewPlayer(logger.WithField("component", "audio"), 1)
	if p.Enabled() {
		t.Fatalf("player should start disabled")
	}
	p.Play(CueExplosion)
	p.Close()
}

type counters struct{ det, dead int }

func (c counters) Detonations() int { return c.det }
func (c counters) Deaths() int      { return c.dead }

func TestWatcherPlaysOnIncrease(t *testing.T) {
	var got []Cue
	w := NewWatcher(func(c Cue) { got = append(got, c) })
	w.Observe(counters{})
	w.Observe(counters{det: 2})
	w.Observe(counters{det: 2, dead: 1})
	w.Observe(counters{})
	w.Observe(counters{det: 1})
	want := []Cue{CueExplosion, CueDeath, CueExplosion}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
