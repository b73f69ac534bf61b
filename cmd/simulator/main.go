package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/db"
	"github.com/udisondev/nightfall/internal/script"
	"github.com/udisondev/nightfall/internal/spawn"
	"github.com/udisondev/nightfall/internal/telemetry"
	"github.com/udisondev/nightfall/internal/world"
)

const (
	ConfigPath = "config/simulator.yaml"

	// Simulated time between status log lines
	statusInterval = 10 * time.Second
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("NIGHTFALL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulator(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("nightfall simulator starting",
		"config", cfgPath,
		"tick_interval", cfg.TickInterval,
		"max_zombies", cfg.MaxZombies)

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rnd := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	slog.Info("random source seeded", "seed", seed)

	arena := world.NewArena(cfg.World)
	ticks := ai.NewTickManager(cfg.TickInterval)
	arena.Attach(ticks)

	watcher := config.NewWatcher(cfgPath, cfg.TuningTable())
	loader := script.NewLoader(filepath.Dir(cfgPath))
	watcher.OnReload(func(config.Simulator) {
		loader.Invalidate()
	})

	spawner := spawn.NewManager(ticks, arena, arena.Env(rnd), watcher, spawn.NewPopulation(cfg.MaxZombies))
	spawner.SetHookLoader(loader.Hook)
	if err := spawner.LoadAreas(cfg); err != nil {
		return fmt.Errorf("loading spawn areas: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Database.Enabled {
		recorder, closeDB, err := openLedger(ctx, cfg.Database, ticks)
		if err != nil {
			return err
		}
		defer closeDB()

		g.Go(func() error {
			slog.Info("starting encounter recorder")
			if err := recorder.Run(gctx); err != nil {
				return fmt.Errorf("encounter recorder: %w", err)
			}
			slog.Info("encounter recorder stopped",
				"written", recorder.Written(),
				"dropped", recorder.Dropped())
			return nil
		})
	}

	if cfg.Telemetry.Enabled {
		hub := telemetry.NewHub()
		publisher := telemetry.NewPublisher(hub, ticks, cfg.Telemetry.Every)
		publisher.SetPlayer(arena.Player())
		publisher.Attach()

		server := telemetry.NewServer(cfg.Telemetry.Addr(), hub)
		g.Go(func() error {
			if err := server.Run(gctx); err != nil {
				return fmt.Errorf("telemetry server: %w", err)
			}
			return nil
		})
	}

	if cfg.Watch {
		g.Go(func() error {
			if err := watcher.Run(gctx); err != nil {
				return fmt.Errorf("config watcher: %w", err)
			}
			return nil
		})
	}

	logStatus(ticks, arena, spawner)
	spawner.Start()

	g.Go(func() error {
		if err := ticks.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("tick manager: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulator error: %w", err)
	}

	stats := arena.Player().Stats()
	slog.Info("simulator stopped",
		"ticks", ticks.Ticks(),
		"spawned", spawner.Spawned(),
		"player_hits", stats.Hits,
		"player_deaths", stats.Deaths)
	return nil
}

// openLedger connects to PostgreSQL, applies migrations and subscribes a recorder to ticks.
func openLedger(ctx context.Context, cfg config.DatabaseConfig, ticks *ai.TickManager) (*db.Recorder, func(), error) {
	database, err := db.New(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	slog.Info("database connected")

	if err := db.RunMigrations(ctx, cfg.DSN()); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	runID := time.Now().UTC().Format("20060102T150405")
	recorder := db.NewRecorder(database.Encounters(), runID, ticks.Clock(), db.DefaultRecorderBuffer)
	ticks.AddObserver(recorder)
	slog.Info("encounter ledger enabled", "run", runID)

	return recorder, database.Close, nil
}

// logStatus logs a population summary every statusInterval of simulated time.
func logStatus(ticks *ai.TickManager, arena *world.Arena, spawner *spawn.Manager) {
	var last time.Duration
	ticks.AfterTick(func(tick uint64, now time.Duration) {
		if now-last < statusInterval {
			return
		}
		last = now

		player := arena.Player()
		slog.Info("simulation status",
			"tick", tick,
			"agents", ticks.Count(),
			"zombies", spawner.Population().Current(),
			"player_hp", player.Health().Current(),
			"gunshots", arena.Gunshots(),
			"areas", spawner.AreaStats())
	})
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
