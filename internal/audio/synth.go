package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Wave selects an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
	Noise
)

// tone is a fixed-length oscillator whose pitch can glide from freq to end.
type tone struct {
	freq, end float64
	phase     float64
	pos, n    int
	wave      Wave
	rate      beep.SampleRate
	rng       *rand.Rand
}

// NewTone returns a streamer producing d worth of the given wave, gliding
// linearly from freq to end Hz.
func NewTone(freq, end float64, d time.Duration, wave Wave, rate beep.SampleRate, seed int64) beep.Streamer {
	return &tone{freq: freq, end: end, n: rate.N(d), wave: wave, rate: rate, rng: rand.New(rand.NewSource(seed))}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if t.pos >= t.n {
			return i, i > 0
		}
		var v float64
		switch t.wave {
		case Sine:
			v = math.Sin(2 * math.Pi * t.phase)
		case Square:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		case Noise:
			v = t.rng.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v

		f := t.freq + (t.end-t.freq)*float64(t.pos)/float64(t.n)
		t.phase += f / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// decay fades a stream in over attack and then exponentially out.
type decay struct {
	s       beep.Streamer
	pos     int
	attack  int
	falloff float64
}

// NewDecay shapes s with a linear attack followed by an exponential decay
// whose level halves every half.
func NewDecay(s beep.Streamer, attack, half time.Duration, rate beep.SampleRate) beep.Streamer {
	h := rate.N(half)
	if h < 1 {
		h = 1
	}
	return &decay{s: s, attack: rate.N(attack), falloff: math.Ln2 / float64(h)}
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.s.Stream(samples)
	for i := 0; i < n; i++ {
		vol := math.Exp(-d.falloff * float64(d.pos))
		if d.pos < d.attack {
			vol *= float64(d.pos) / float64(d.attack)
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		d.pos++
	}
	return n, ok
}

func (d *decay) Err() error { return d.s.Err() }

func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
