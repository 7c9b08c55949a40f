package sandbox

import (
	"sync"
	"time"

	"mad-sand/internal/material"
)

// Scenario is a scripted starting state used for benchmarks and regression
// runs.
type Scenario struct {
	Name  string
	Steps int
	Setup func(w *World)
}

// ScenarioResult captures telemetry from one deterministic scenario run.
type ScenarioResult struct {
	Name string
	Seed int64
	// StepsSimulated reports how many ticks were executed.
	StepsSimulated int
	// Alive and Dead count actors at the end of the run.
	Alive int
	Dead  int
	// Detonations counts explosions over the run.
	Detonations int
	// PeakFire tracks the largest number of fire cells seen on any tick.
	PeakFire int
	// Materials holds the final cell count per material.
	Materials [material.Count]int
	Elapsed   time.Duration
}

// TicksPerSecond is the simulation throughput of the run.
func (r ScenarioResult) TicksPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.StepsSimulated) / r.Elapsed.Seconds()
}

// floor lays a stone slab along the bottom rows.
func floor(w *World, rows int) {
	for y := w.h - rows; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			w.Set(x, y, material.Stone)
		}
	}
}

// Scenarios returns the built-in scenario set.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:  "standing",
			Steps: 300,
			Setup: func(w *World) {
				floor(w, 4)
				for i := 0; i < 6; i++ {
					w.SpawnPerson(float64(20+i*w.w/8), float64(w.h-30))
				}
			},
		},
		{
			Name:  "sandfall",
			Steps: 400,
			Setup: func(w *World) {
				floor(w, 2)
				for i := 0; i < 5; i++ {
					w.PaintCircle(w.w*(i+1)/6, w.h/4, 8, material.Sand)
				}
				w.PaintCircle(w.w/2, w.h/2, 10, material.Water)
			},
		},
		{
			Name:  "firestorm",
			Steps: 400,
			Setup: func(w *World) {
				floor(w, 2)
				for x := 10; x < w.w-10; x++ {
					for y := w.h - 12; y < w.h-2; y++ {
						w.Set(x, y, material.Wood)
					}
				}
				w.PaintCircle(w.w/2, w.h-14, 3, material.Fire)
				w.PaintCircle(w.w/4, w.h-16, 4, material.Oil)
				w.SpawnPerson(float64(w.w/3), float64(w.h-13))
			},
		},
		{
			Name:  "demolition",
			Steps: 300,
			Setup: func(w *World) {
				floor(w, 4)
				for x := w.w / 3; x < 2*w.w/3; x++ {
					for y := w.h - 40; y < w.h-4; y++ {
						w.Set(x, y, material.Concrete)
					}
				}
				for i := 0; i < 4; i++ {
					w.SpawnBomb(float64(w.w/3+i*w.w/12), float64(w.h-45))
					w.SpawnPerson(float64(w.w/3+i*w.w/12+3), float64(w.h-41))
				}
			},
		},
		{
			Name:  "battle",
			Steps: 400,
			Setup: func(w *World) {
				floor(w, 4)
				y := float64(w.h - 4)
				for i := 0; i < 4; i++ {
					x := float64(30 + i*12)
					w.SpawnPerson(x, y-0.05)
					w.SpawnGun(x, y-4)
				}
				w.SpawnPerson(float64(w.w-40), y-0.05)
				w.SpawnSword(float64(w.w-40), y-4)
				w.ThrowGrenade(float64(w.w/2), 20, 1.5, -1)
				w.SpawnCar(float64(w.w/2), y-1)
			},
		},
	}
}

// RunScenario builds a world from cfg, applies the scenario and runs it.
func RunScenario(cfg Config, sc Scenario) ScenarioResult {
	world := NewWithConfig(cfg)
	world.Reset(cfg.Seed)
	if sc.Setup != nil {
		sc.Setup(world)
	}
	result := ScenarioResult{Name: sc.Name, Seed: cfg.Seed}
	start := time.Now()
	for step := 1; step <= sc.Steps; step++ {
		world.Step()
		result.StepsSimulated = step
		if fire := world.grid.Count(material.Fire); fire > result.PeakFire {
			result.PeakFire = fire
		}
	}
	result.Elapsed = time.Since(start)
	for _, p := range world.people {
		if p.Alive {
			result.Alive++
		} else {
			result.Dead++
		}
	}
	result.Detonations = world.Detonations()
	for _, c := range world.Cells() {
		if int(c) < len(result.Materials) {
			result.Materials[c]++
		}
	}
	return result
}

// RunScenarios runs every scenario once per seed using a bounded worker pool.
// Results are ordered by scenario, then seed.
func RunScenarios(base Config, scenarios []Scenario, seeds []int64, workers int) []ScenarioResult {
	if workers <= 0 {
		workers = 1
	}
	results := make([]ScenarioResult, len(scenarios)*len(seeds))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for i, sc := range scenarios {
		for j, seed := range seeds {
			wg.Add(1)
			sem <- struct{}{}
			go func(idx int, sc Scenario, seed int64) {
				defer wg.Done()
				cfg := base
				cfg.Seed = seed
				results[idx] = RunScenario(cfg, sc)
				<-sem
			}(i*len(seeds)+j, sc, seed)
		}
	}

	wg.Wait()
	return results
}
