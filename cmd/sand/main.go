//go:build ebiten

package main

import (
	"errors"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"mad-sand/internal/app"
	"mad-sand/internal/core"
	"mad-sand/internal/logger"
	"mad-sand/internal/sims/sandbox"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger.Init(os.Stderr)
	log := logger.Component("main")

	if cfg.ConfigPath != "" {
		if _, err := sandbox.LoadConfig(cfg.ConfigPath); err != nil {
			log.WithError(err).Fatal("load config")
		}
	}

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.WithField("sim", cfg.Sim).Fatal("unknown sim")
	}

	sim := factory(cfg.SimConfig())
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg.Scale, cfg.Seed, cfg.HUDWidth)
	size := sim.Size()

	ebiten.SetWindowTitle("mad-sand: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.WithError(err).Fatal("run game")
	}
}
