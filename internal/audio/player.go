// Package audio plays short synthesized cues for world events.
package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

const sampleRate = beep.SampleRate(44100)

// maxVoices caps how many cues may overlap in the mixer.
const maxVoices = 8

// Player mixes cues into the system speaker. A Player whose Init failed stays
// silent and every call on it is a no-op.
type Player struct {
	mu      deadlock.Mutex
	mixer   *beep.Mixer
	volume  float64
	enabled bool
	seed    int64
	log     *logrus.Entry
}

// NewPlayer constructs a silent player. Call Init to open the speaker.
func NewPlayer(log *logrus.Entry, volume float64) *Player {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Player{mixer: &beep.Mixer{}, volume: volume, log: log}
}

// Init opens the speaker. On failure the player logs a warning, stays silent
// and returns the error.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		p.log.WithError(err).Warn("audio disabled")
		return err
	}
	speaker.Play(p.mixer)
	p.enabled = true
	return nil
}

// Enabled reports whether cues reach the speaker.
func (p *Player) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Play queues a cue. It never blocks on audio output.
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	s := Build(c, sampleRate, p.volume, p.seed)
	p.seed++
	if s == nil {
		return
	}
	speaker.Lock()
	if p.mixer.Len() < maxVoices {
		p.mixer.Add(s)
	}
	speaker.Unlock()
}

// Close silences everything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.enabled = false
}

// Counters is the part of the world the watcher samples.
type Counters interface {
	Detonations() int
	Deaths() int
}

// Watcher turns increases in the world counters into cues.
type Watcher struct {
	play        func(Cue)
	detonations int
	deaths      int
}

// NewWatcher returns a watcher that calls play for each new event.
func NewWatcher(play func(Cue)) *Watcher {
	return &Watcher{play: play}
}

// Observe compares c with the previous sample. A counter that went down
// (after a reset) only resynchronises.
func (w *Watcher) Observe(c Counters) {
	if d := c.Detonations(); d > w.detonations {
		w.play(CueExplosion)
		w.detonations = d
	} else {
		w.detonations = d
	}
	if d := c.Deaths(); d > w.deaths {
		w.play(CueDeath)
		w.deaths = d
	} else {
		w.deaths = d
	}
}
