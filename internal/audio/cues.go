package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Cue names a sound the front-ends can trigger.
type Cue int

const (
	CueExplosion Cue = iota
	CueDeath
)

func (c Cue) String() string {
	switch c {
	case CueExplosion:
		return "explosion"
	case CueDeath:
		return "death"
	}
	return "unknown"
}

const (
	explosionLength = 900 * time.Millisecond
	deathLength     = 250 * time.Millisecond
)

// Build synthesises the streamer for a cue at the given volume.
func Build(c Cue, rate beep.SampleRate, volume float64, seed int64) beep.Streamer {
	switch c {
	case CueExplosion:
		crack := NewDecay(NewTone(0, 0, explosionLength, Noise, rate, seed), 5*time.Millisecond, 120*time.Millisecond, rate)
		thump := NewDecay(NewTone(90, 30, explosionLength, Sine, rate, seed), 10*time.Millisecond, 200*time.Millisecond, rate)
		return withVolume(beep.Mix(withVolume(crack, 0.6), withVolume(thump, 0.8)), volume)
	case CueDeath:
		grunt := NewDecay(NewTone(220, 110, deathLength, Square, rate, seed), 10*time.Millisecond, 60*time.Millisecond, rate)
		return withVolume(grunt, volume*0.4)
	}
	return nil
}
