package sandbox

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"mad-sand/internal/material"
	"mad-sand/internal/ragdoll"
)

func quietWorld(w, h int) (*World, *test.Hook) {
	world := New(w, h)
	log, hook := test.NewNullLogger()
	world.SetLogger(logrus.NewEntry(log))
	return world, hook
}

func slab(w *World, x0, x1, y0, y1 int, m material.Material) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			w.Set(x, y, m)
		}
	}
}

func idle(p *ragdoll.Person, dir int) {
	p.State, p.StateTimer, p.WalkDir = ragdoll.Idle, 100000, dir
}

func countMessages(hook *test.Hook, msg string) int {
	n := 0
	for _, e := range hook.AllEntries() {
		if e.Message == msg {
			n++
		}
	}
	return n
}

func TestExplosionStaysInsideRadius(t *testing.T) {
	world, _ := quietWorld(60, 60)
	slab(world, 0, 59, 0, 59, material.Concrete)
	world.Set(30, 31, material.Stone)

	world.TriggerExplosion(30, 30, 8, 40)

	for y := 0; y < 60; y++ {
		for x := 0; x < 60; x++ {
			dx, dy := float64(x)+0.5-30, float64(y)+0.5-30
			m := world.At(x, y)
			inside := dx*dx+dy*dy <= 64
			switch {
			case x == 30 && y == 31:
				if m != material.Stone {
					t.Fatalf("stone inside the blast was destroyed")
				}
			case inside:
				if m != material.Fire && m != material.Smoke && m != material.Empty {
					t.Fatalf("cell (%d,%d) inside radius still %s", x, y, m)
				}
			default:
				if m != material.Concrete {
					t.Fatalf("cell (%d,%d) outside radius changed to %s", x, y, m)
				}
			}
		}
	}
	if world.Detonations() != 1 || len(world.Explosions()) != 1 {
		t.Fatalf("expected one detonation and one visual")
	}
}

func TestExplosionVisualExpires(t *testing.T) {
	world, _ := quietWorld(40, 40)
	world.TriggerExplosion(20, 20, 5, 10)
	for i := 0; i < DefaultConfig().Params.ExplosionMaxAge; i++ {
		world.Step()
	}
	if n := len(world.Explosions()); n != 0 {
		t.Fatalf("explosion visual should expire, %d left", n)
	}
}

func TestDeathIsLoggedOnce(t *testing.T) {
	world, hook := quietWorld(40, 40)
	id := world.SpawnPerson(20, 30)
	p := world.Person(id)

	world.die(p, "test")
	world.die(p, "again")
	world.hurt(p, 500, "overkill")

	if got := countMessages(hook, "actor died"); got != 1 {
		t.Fatalf("expected one death log, got %d", got)
	}
	if world.Deaths() != 1 || p.Cause != "test" || p.Alive {
		t.Fatalf("unexpected state after repeated death: deaths %d cause %q alive %v", world.Deaths(), p.Cause, p.Alive)
	}
}

func TestLavaKillsOnce(t *testing.T) {
	world, hook := quietWorld(40, 40)
	slab(world, 0, 39, 10, 39, material.Lava)
	id := world.SpawnPerson(20, 30)
	for i := 0; i < 80; i++ {
		world.Step()
	}
	p := world.Person(id)
	if p.Alive {
		t.Fatalf("actor survived a lava bath with %f health", p.Health)
	}
	if got := countMessages(hook, "actor died"); got != 1 {
		t.Fatalf("expected one death log, got %d", got)
	}
}

func TestPersonStandsOnPlatform(t *testing.T) {
	world, _ := quietWorld(100, 80)
	slab(world, 40, 60, 60, 60, material.Stone)
	id := world.SpawnPerson(50, 50)
	p := world.Person(id)
	idle(p, 1)

	for i := 0; i < 200; i++ {
		world.Step()
	}

	snap := world.People()[0]
	if !snap.Grounded {
		t.Fatalf("actor should be grounded")
	}
	avg := (snap.Point(ragdoll.FootL).Pos.Y() + snap.Point(ragdoll.FootR).Pos.Y()) / 2
	if math.Floor(avg) != 59 {
		t.Fatalf("feet should rest in row 59, got %f", avg)
	}
}

func TestBombDetonatesOnce(t *testing.T) {
	world, _ := quietWorld(64, 128)
	world.SpawnBomb(10, 10)
	at := 0
	for i := 1; i <= 120; i++ {
		world.Step()
		if world.Detonations() > 0 && at == 0 {
			at = i
		}
	}
	if world.Detonations() != 1 {
		t.Fatalf("expected exactly one detonation, got %d", world.Detonations())
	}
	if at != DefaultConfig().Params.BombFuse {
		t.Fatalf("bomb went off at tick %d", at)
	}
	if n := len(world.Weapons()); n != 0 {
		t.Fatalf("bomb should be removed, %d weapons left", n)
	}
}

func TestOffGridWeaponsAreRemoved(t *testing.T) {
	world, _ := quietWorld(40, 40)
	world.SpawnBomb(-5, 10)
	world.SpawnBomb(10, 45)
	world.SpawnGun(50, 10)
	kept := world.SpawnBomb(10, 10)
	world.Step()

	weapons := world.Weapons()
	if len(weapons) != 1 || weapons[0].ID != kept {
		t.Fatalf("expected only the in-world bomb to remain, got %d weapons", len(weapons))
	}
	for i := 0; i < DefaultConfig().Params.BombFuse; i++ {
		world.Step()
	}
	if world.Detonations() != 1 {
		t.Fatalf("off-grid bombs must not detonate, got %d detonations", world.Detonations())
	}
}

func TestChainReactionShortensFuse(t *testing.T) {
	world, _ := quietWorld(60, 60)
	slab(world, 0, 59, 41, 59, material.Stone)
	world.SpawnBomb(25, 40)
	world.TriggerExplosion(20, 40, 8, 30)
	if fuse := world.Weapons()[0].Fuse; fuse != DefaultConfig().Params.ChainFuse {
		t.Fatalf("fuse should be cut to %d, got %d", DefaultConfig().Params.ChainFuse, fuse)
	}
	for i := 0; i < 3; i++ {
		world.Step()
	}
	if world.Detonations() != 2 {
		t.Fatalf("expected the second bomb to go off, detonations %d", world.Detonations())
	}
}

func TestExplosionOffCellCentreStaysInsideRadius(t *testing.T) {
	world, _ := quietWorld(40, 40)
	slab(world, 0, 39, 0, 39, material.Concrete)

	ox, oy, r := 20.9, 20.9, 4.0
	world.TriggerExplosion(ox, oy, int(r), 40)

	changed := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			dx, dy := float64(x)+0.5-ox, float64(y)+0.5-oy
			inside := dx*dx+dy*dy <= r*r
			m := world.At(x, y)
			if !inside && m != material.Concrete {
				t.Fatalf("cell (%d,%d) outside radius changed to %s", x, y, m)
			}
			if inside && m == material.Concrete {
				t.Fatalf("cell (%d,%d) inside radius untouched", x, y)
			}
			if inside {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Fatalf("blast changed nothing")
	}
}

func TestBlastBreaksBodyIntoParts(t *testing.T) {
	world, _ := quietWorld(60, 60)
	world.cfg.Params.DetachChance = 0
	id := world.SpawnPerson(30, 40)
	p := world.Person(id)
	hip := p.Position()
	origin := hip.Sub(mgl64.Vec2{1.5, 0})

	world.TriggerExplosion(origin.X(), origin.Y(), 10, 50)
	gibs := world.Gibs()
	want := []ragdoll.Joint{ragdoll.Head, ragdoll.Hip, ragdoll.HandL, ragdoll.HandR, ragdoll.FootL, ragdoll.FootR}
	if len(gibs) != len(want) {
		t.Fatalf("expected %d gibs, got %d", len(want), len(gibs))
	}
	for i, g := range gibs {
		if g.Part != want[i] {
			t.Fatalf("gib %d: expected part %d, got %d", i, want[i], g.Part)
		}
		if g.Pos != p.Point(bodyParts[i].at).Pos {
			t.Fatalf("gib %d spawned at %v, part is at %v", i, g.Pos, p.Point(bodyParts[i].at).Pos)
		}
		if g.Vel.Dot(g.Pos.Sub(origin)) <= 0 {
			t.Fatalf("gib %d (part %d) flies toward the blast: pos %v vel %v", i, g.Part, g.Pos, g.Vel)
		}
	}
}

func TestBlastSkipsDetachedLimbs(t *testing.T) {
	world, _ := quietWorld(60, 60)
	world.cfg.Params.DetachChance = 0
	id := world.SpawnPerson(30, 40)
	p := world.Person(id)
	if !p.Detach(ragdoll.HandL) {
		t.Fatalf("arm should detach")
	}
	hip := p.Position()

	world.TriggerExplosion(hip.X(), hip.Y(), 10, 50)
	gibs := world.Gibs()
	if len(gibs) != len(bodyParts)-1 {
		t.Fatalf("expected %d gibs, got %d", len(bodyParts)-1, len(gibs))
	}
	for _, g := range gibs {
		if g.Part == ragdoll.HandL {
			t.Fatalf("detached arm gibbed again")
		}
	}
}

func TestBlastGibsOnce(t *testing.T) {
	world, _ := quietWorld(60, 60)
	id := world.SpawnPerson(30, 40)
	p := world.Person(id)
	hip := p.Position()

	world.TriggerExplosion(hip.X(), hip.Y(), 10, 50)
	if p.Alive || !p.Flags.GibsSpawned {
		t.Fatalf("actor at ground zero should be gibbed")
	}
	gibs := len(world.Gibs())
	if gibs != len(bodyParts) {
		t.Fatalf("expected %d gibs, got %d", len(bodyParts), gibs)
	}
	world.TriggerExplosion(hip.X(), hip.Y(), 10, 50)
	if n := len(world.Gibs()); n != gibs {
		t.Fatalf("corpse gibbed twice: %d then %d", gibs, n)
	}
	if world.Deaths() != 1 {
		t.Fatalf("expected one death, got %d", world.Deaths())
	}
}

func TestFireIgnitesAndWaterQuenches(t *testing.T) {
	world, _ := quietWorld(40, 40)
	slab(world, 0, 39, 35, 39, material.Stone)
	id := world.SpawnPerson(20, 34.95)
	p := world.Person(id)
	idle(p, 1)

	world.PaintCircle(20, 28, 4, material.Fire)
	world.Step()
	if !p.OnFire || p.BurnTimer <= 0 {
		t.Fatalf("actor standing in fire should burn")
	}

	world.PaintCircle(20, 28, 6, material.Water)
	world.Step()
	if p.OnFire {
		t.Fatalf("water should put the actor out")
	}
}

func TestIntentsApplyOnNextStep(t *testing.T) {
	world, _ := quietWorld(40, 40)
	world.Queue(Intent{Kind: IntentPaint, X: 5, Y: 39, Radius: 0, Material: material.Sand})
	if world.At(5, 39) != material.Empty {
		t.Fatalf("intent applied before the step")
	}
	if world.Pending() != 1 {
		t.Fatalf("expected one pending intent")
	}
	world.Step()
	if world.At(5, 39) != material.Sand {
		t.Fatalf("paint intent not applied, cell is %s", world.At(5, 39))
	}
	if world.Pending() != 0 {
		t.Fatalf("intents should be drained")
	}
}

func TestConcurrentQueue(t *testing.T) {
	world, _ := quietWorld(80, 60)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			world.Queue(Intent{Kind: IntentSpawnPerson, X: float64(10 + i*8), Y: 40})
		}(i)
	}
	wg.Wait()
	world.Step()
	if n := len(world.People()); n != 8 {
		t.Fatalf("expected 8 actors, got %d", n)
	}
}

func TestGrenadeLandsThenDetonates(t *testing.T) {
	world, _ := quietWorld(80, 80)
	slab(world, 0, 79, 70, 79, material.Stone)
	world.ThrowGrenade(10, 20, 1, 0)

	armed := false
	for i := 0; i < 600 && world.Detonations() == 0; i++ {
		world.Step()
		if ws := world.Weapons(); len(ws) == 1 && ws[0].Armed {
			armed = true
		}
	}
	if !armed {
		t.Fatalf("grenade never came to rest")
	}
	if world.Detonations() != 1 {
		t.Fatalf("expected one detonation, got %d", world.Detonations())
	}
	if len(world.Weapons()) != 0 {
		t.Fatalf("grenade should be consumed")
	}
}

func TestGunShootsTargetAhead(t *testing.T) {
	world, _ := quietWorld(120, 60)
	slab(world, 0, 119, 50, 59, material.Stone)
	shooter := world.Person(world.SpawnPerson(20, 49.95))
	target := world.Person(world.SpawnPerson(50, 49.95))
	idle(shooter, 1)
	idle(target, -1)
	world.SpawnGun(20, 44)

	for i := 0; i < 30; i++ {
		world.Step()
	}
	if target.Health >= ragdoll.MaxHealth {
		t.Fatalf("target was never hit")
	}
	if shooter.Health < ragdoll.MaxHealth {
		t.Fatalf("shooter hit itself")
	}
	held := world.Weapons()[0]
	if held.Holder != shooter.ID {
		t.Fatalf("gun should be held by the shooter, holder %d", held.Holder)
	}
}

func TestSwordHitsNeighbour(t *testing.T) {
	world, _ := quietWorld(60, 60)
	slab(world, 0, 59, 50, 59, material.Stone)
	fighter := world.Person(world.SpawnPerson(20, 49.95))
	victim := world.Person(world.SpawnPerson(24, 49.95))
	idle(fighter, 1)
	idle(victim, -1)
	world.SpawnSword(20, 44)

	for i := 0; i < 5; i++ {
		world.Step()
	}
	if victim.Health != ragdoll.MaxHealth-DefaultConfig().Params.SwordDamage {
		t.Fatalf("expected one sword hit, victim health %f", victim.Health)
	}
}

func TestPlaneCrashExplodes(t *testing.T) {
	world, _ := quietWorld(80, 80)
	slab(world, 0, 79, 70, 79, material.Stone)
	world.SpawnPlane(40, 10)
	for i := 0; i < 100 && world.Detonations() == 0; i++ {
		world.Step()
	}
	if world.Detonations() != 1 {
		t.Fatalf("falling plane should crash")
	}
	if len(world.Vehicles()) != 0 {
		t.Fatalf("wreck should be removed")
	}
}

func TestCarCarriesDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 100, 80
	cfg.Params.BoardChance = 1
	cfg.Params.UnboardChance = 0
	world := NewWithConfig(cfg)
	log, _ := test.NewNullLogger()
	world.SetLogger(logrus.NewEntry(log))
	slab(world, 0, 99, 60, 79, material.Stone)

	p := world.Person(world.SpawnPerson(52, 59.95))
	idle(p, 1)
	car := world.SpawnCar(50, 59.5)
	for i := 0; i < 3; i++ {
		world.Step()
	}
	if p.Riding != car {
		t.Fatalf("actor should have boarded the car")
	}
	start := world.Vehicles()[0].Pos.X()
	for i := 0; i < 20; i++ {
		world.Step()
	}
	v := world.Vehicles()[0]
	if v.Pos.X() == start {
		t.Fatalf("car with a driver should move")
	}
	if math.Abs(p.Position().X()-v.Pos.X()) > 0.01 {
		t.Fatalf("driver should sit on the car: %f vs %f", p.Position().X(), v.Pos.X())
	}

	world.die(p, "test")
	world.Step()
	if world.Vehicles()[0].Driver != 0 {
		t.Fatalf("dead driver should be unlinked")
	}
}

func TestDeterministicForSeed(t *testing.T) {
	run := func() ([]uint8, []float64) {
		cfg := DefaultConfig()
		cfg.Width, cfg.Height = 120, 80
		world := NewWithConfig(cfg)
		world.Reset(99)
		Scenarios()[4].Setup(world)
		for i := 0; i < 150; i++ {
			world.Step()
		}
		var xs []float64
		for _, p := range world.People() {
			xs = append(xs, p.Position().X())
		}
		return slices.Clone(world.Cells()), xs
	}
	cellsA, xsA := run()
	cellsB, xsB := run()
	if !slices.Equal(cellsA, cellsB) || !slices.Equal(xsA, xsB) {
		t.Fatalf("same seed produced different worlds")
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sand.yaml")
	data := "width: 64\nheight: 48\nparams:\n  bomb_fuse: 10\nbody:\n  gravity: 0.3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 48 || cfg.Params.BombFuse != 10 || cfg.Body.Gravity != 0.3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Params.HazardScale != 1 || cfg.Body.Iterations != 8 {
		t.Fatalf("defaults lost: hazard %f iterations %d", cfg.Params.HazardScale, cfg.Body.Iterations)
	}

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{"w": "32", "h": "24", "seed": "7", "bomb_fuse": "-3", "gravity": "0.4"})
	if cfg.Width != 32 || cfg.Height != 24 || cfg.Seed != 7 {
		t.Fatalf("size or seed not applied: %+v", cfg)
	}
	if cfg.Params.BombFuse != DefaultConfig().Params.BombFuse {
		t.Fatalf("negative fuse should be ignored")
	}
	if cfg.Body.Gravity != 0.4 {
		t.Fatalf("gravity not applied")
	}
}

func TestParameterSetters(t *testing.T) {
	world, _ := quietWorld(40, 40)
	if !world.SetIntParameter("bomb_fuse", 5000) {
		t.Fatalf("bomb_fuse should be settable")
	}
	if world.cfg.Params.BombFuse != 600 {
		t.Fatalf("fuse should clamp to 600, got %d", world.cfg.Params.BombFuse)
	}
	if world.SetFloatParameter("bomb_fuse", 1) {
		t.Fatalf("int parameter accepted a float")
	}
	if world.SetFloatParameter("nope", 1) {
		t.Fatalf("unknown key accepted")
	}
	if !world.SetFloatParameter("hazard_scale", 2.5) {
		t.Fatalf("hazard_scale should be settable")
	}
	if p, ok := world.Parameters().Lookup("hazard_scale"); !ok || p.Value != "2.5" {
		t.Fatalf("snapshot should reflect the new hazard scale, got %+v", p)
	}
}

func TestRunScenariosKeepsOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 120, 80
	scs := Scenarios()[:2]
	for i := range scs {
		scs[i].Steps = 20
	}
	results := RunScenarios(cfg, scs, []int64{1, 2}, 3)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Name != scs[i/2].Name || r.Seed != int64(i%2+1) {
			t.Fatalf("result %d out of order: %s seed %d", i, r.Name, r.Seed)
		}
		if r.StepsSimulated != 20 {
			t.Fatalf("result %d ran %d steps", i, r.StepsSimulated)
		}
	}
	if results[0].Alive != 6 {
		t.Fatalf("standing scenario should keep everyone alive, got %d", results[0].Alive)
	}
}

func TestToolsCoverMaterialsAndSpawns(t *testing.T) {
	tools := Tools()
	if len(tools) != int(material.Count)+9 {
		t.Fatalf("unexpected toolbox size %d", len(tools))
	}
	world, _ := quietWorld(60, 60)
	for _, tool := range tools {
		world.Queue(tool.Intent(30, 30, 2, 1))
	}
	world.Step()
	if len(world.People()) != 1 || len(world.Vehicles()) != 3 {
		t.Fatalf("spawn tools not applied: %d people, %d vehicles", len(world.People()), len(world.Vehicles()))
	}
	if world.Detonations() != 1 {
		t.Fatalf("explode tool should detonate once, got %d", world.Detonations())
	}
}
