package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"mad-sand/internal/audio"
	"mad-sand/internal/logger"
	"mad-sand/internal/sims/sandbox"
	"mad-sand/internal/term"
)

func main() {
	configPath := flag.String("config", "", "YAML world configuration")
	seed := flag.Int64("seed", 1337, "world seed")
	width := flag.Int("w", 0, "world width (0 fits the terminal)")
	height := flag.Int("h", 0, "world height (0 fits the terminal)")
	tps := flag.Int("tps", 30, "ticks per second")
	sound := flag.Bool("audio", true, "play explosion and death cues")
	volume := flag.Float64("volume", 0.5, "cue volume between 0 and 1")
	logPath := flag.String("log", "sand-term.log", "log file (the terminal is busy drawing)")
	flag.Parse()

	var out io.Writer = io.Discard
	if f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		defer f.Close()
		out = f
	}
	logger.Init(out)
	log := logger.Component("term")

	if *configPath != "" {
		if _, err := sandbox.LoadConfig(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer screen.Fini()

	cols, rows := screen.Size()
	if *width <= 0 {
		*width = cols
	}
	if *height <= 0 {
		*height = 2 * (rows - 1)
	}
	settings := map[string]string{
		"seed": strconv.FormatInt(*seed, 10),
		"w":    strconv.Itoa(*width),
		"h":    strconv.Itoa(*height),
	}
	if *configPath != "" {
		settings["config"] = *configPath
	}
	world := sandbox.NewWithConfig(sandbox.FromMap(settings))
	world.Reset(*seed)

	var play func(audio.Cue)
	if *sound {
		player := audio.NewPlayer(logger.Component("audio"), *volume)
		if player.Init() == nil {
			defer player.Close()
			play = player.Play
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.WithFields(logrus.Fields{"w": *width, "h": *height, "seed": *seed}).Info("terminal viewer started")
	if err := term.New(screen, world, *tps, log, play).Run(ctx); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("viewer stopped")
	}
}
