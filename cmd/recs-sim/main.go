package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	recs "github.com/isaac-mason/rapida-sub001"
	"github.com/isaac-mason/rapida-sub001/config"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a .toml or .yaml config file")
	worlds := flag.Int("worlds", 0, "number of worlds to simulate")
	ticks := flag.Int("ticks", 0, "number of updates per world")
	entities := flag.Int("entities", 0, "target population per world")
	profileMode := flag.String("profile", "", "write a cpu or mem profile")
	flag.Parse()

	cfg := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}

		cfg = loaded
	}

	// flags override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "worlds":
			cfg.Sim.Worlds = *worlds
		case "ticks":
			cfg.Sim.Ticks = *ticks
		case "entities":
			cfg.Sim.EntitiesPerWorld = *entities
		case "profile":
			cfg.Sim.Profile = *profileMode
		}
	})

	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := config.NewLogger(cfg.World.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	defer func() { _ = log.Sync() }()

	zap.ReplaceGlobals(log)

	switch cfg.Sim.Profile {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting simulation",
		zap.Int("worlds", cfg.Sim.Worlds),
		zap.Int("ticks", cfg.Sim.Ticks),
		zap.Int("entities", cfg.Sim.EntitiesPerWorld),
		zap.Duration("tickRate", cfg.Sim.TickRate),
	)

	startTime := time.Now()

	// worlds share nothing, each one is driven by its own goroutine
	group, ctx := errgroup.WithContext(ctx)
	for idx := range cfg.Sim.Worlds {
		group.Go(func() error {
			return simulate(ctx, log, cfg, idx)
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	log.Info("Simulation finished", zap.Duration("elapsed", time.Since(startTime)))

	return nil
}

func simulate(ctx context.Context, log *zap.Logger, cfg *config.Config, idx int) error {
	w, err := buildWorld(log, cfg, idx)
	if err != nil {
		return fmt.Errorf("world %d: %w", idx, err)
	}

	delta := cfg.Sim.TickRate.Seconds()

	startTime := time.Now()

	for tick := range cfg.Sim.Ticks {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := w.Update(delta); err != nil {
			return fmt.Errorf("world %d, tick %d: %w", idx, tick, err)
		}
	}

	stats := w.Stats()
	log.Info("World finished",
		zap.String("world", w.ID()),
		zap.Duration("elapsed", time.Since(startTime)),
		zap.Float64("time", stats.Time),
		zap.Int("entities", stats.Entities),
		zap.Int("queries", stats.Queries),
		zap.Int("freeEntities", stats.FreeEntities),
		zap.Int("freeComponents", stats.FreeComponents),
		zap.Int("allocatedEntities", stats.AllocatedEntities),
		zap.Int("allocatedComponents", stats.AllocatedComponents),
	)

	return w.Destroy()
}

func buildWorld(log *zap.Logger, cfg *config.Config, idx int) (*recs.World, error) {
	w := recs.NewWorld(
		recs.WithLogger(log),
		recs.WithConfig(cfg.World),
		recs.WithWorldId(fmt.Sprintf("sim-%d", idx)),
	)

	space, err := w.CreateSpace(recs.WithSpaceId("arena"))
	if err != nil {
		return nil, err
	}

	for _, system := range newSystems(space, cfg.Sim, int64(idx)) {
		if _, err := w.AddSystem(system); err != nil {
			return nil, err
		}
	}

	if err := w.Init(); err != nil {
		return nil, err
	}

	return w, nil
}
