package core

import "time"

// maxCatchUp bounds how many ticks a single frame may run after a stall.
const maxCatchUp = 5

// FixedStep helps run simulation updates at a steady ticks-per-second rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	fs := &FixedStep{}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Pending accumulates the wall-clock time elapsed since the previous call and
// reports how many ticks should run now. After a long stall the count is
// capped and the surplus time dropped.
func (f *FixedStep) Pending(now time.Time) int {
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	n := 0
	for f.accumulator >= f.step {
		f.accumulator -= f.step
		n++
		if n == maxCatchUp {
			f.accumulator = 0
			break
		}
	}
	return n
}
