package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/plomlompom/plomrogue-sub000/internal/domain"
	"github.com/plomlompom/plomrogue-sub000/internal/engine"
	"github.com/plomlompom/plomrogue-sub000/internal/infrastructure/storage"
	"github.com/plomlompom/plomrogue-sub000/internal/network"
	"github.com/plomlompom/plomrogue-sub000/internal/server"
	"github.com/plomlompom/plomrogue-sub000/pkg/logger"
	"golang.org/x/sync/errgroup"
)

func init() {
	logger.Init()
}

func main() {
	if err := run(); err != nil {
		logger.Log.Fatal(err)
	}
}

func run() error {
	// 1. Парсинг конфигурации
	var (
		configPath string
		seed       int64
	)
	flag.StringVar(&configPath, "config", "config/hexworld.yaml", "Path to YAML config")
	// 0 - взять из конфига (или случайный, если и там 0)
	flag.Int64Var(&seed, "seed", 0, "World seed (0 for config value)")
	flag.Parse()

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if port := os.Getenv("HEX_PORT"); port != "" {
		cfg.Port = port
	}
	if _, ok := os.LookupEnv("LOG_LEVEL"); !ok {
		logger.Configure(cfg.LogLevel, cfg.LogFormat)
	}

	logger.Log.Info("Starting hex world server...")

	// 2. Мир и хранилища
	// Память прошлого запуска годится, только если местность та же, то есть зерно задано явно
	seedFixed := cfg.Seed != 0
	cfg.ResolveSeed()
	world, err := engine.BuildWorld(cfg)
	if err != nil {
		return fmt.Errorf("building world: %w", err)
	}
	logger.Log.Infof("Using seed: %d", cfg.Seed)

	states, err := storage.NewWorldStateService(cfg.SaveDir)
	if err != nil {
		return err
	}
	store, err := storage.OpenMemoryStore(cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("opening memory store: %w", err)
	}
	defer store.Close()

	if seedFixed {
		if _, err := storage.RestoreMemories(context.Background(), store, states, world); err != nil {
			return fmt.Errorf("restoring memory: %w", err)
		}
	} else {
		logger.Log.Info("Random seed, stored memory maps are not restored")
	}

	hub := network.NewBroadcaster()
	inst, err := engine.NewInstance(world, cfg.Nav, hub)
	if err != nil {
		return fmt.Errorf("starting instance: %w", err)
	}

	// 3. Цикл ходов и HTTP сервер до сигнала
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return inst.Run(gctx, cfg.TurnInterval)
	})
	g.Go(func() error {
		if err := server.New(inst, hub, cfg.Port).Run(gctx); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	runErr := g.Wait()
	logger.Log.Info("Shutting down...")

	// 4. Сохраняем память всех сущностей
	saveErr := inst.Snapshot(func(w *domain.GameWorld) error {
		if err := store.SaveAll(context.Background(), w.Tick, w.Things); err != nil {
			return err
		}
		for _, t := range w.Things {
			if t.Type != domain.ThingHuman || t.Memory == nil {
				continue
			}
			path, err := states.Save(w.Tick, t)
			if err != nil {
				return err
			}
			logger.Log.WithField("path", path).Info("World state saved")
		}
		return nil
	})

	if runErr != nil {
		return runErr
	}
	if saveErr != nil {
		return fmt.Errorf("saving: %w", saveErr)
	}
	logger.Log.Info("Done.")
	return nil
}
