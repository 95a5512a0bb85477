package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lumina/iris-studio/internal/api"
	"github.com/lumina/iris-studio/internal/auth"
	"github.com/lumina/iris-studio/internal/config"
	"github.com/lumina/iris-studio/internal/db"
	"github.com/lumina/iris-studio/internal/generate"
	"github.com/lumina/iris-studio/internal/logging"
	"github.com/lumina/iris-studio/internal/media"
	"github.com/lumina/iris-studio/internal/moderation"
	"github.com/lumina/iris-studio/internal/persist"
	"github.com/lumina/iris-studio/internal/playback"
	"github.com/lumina/iris-studio/internal/project"
	"github.com/lumina/iris-studio/internal/store"
	"github.com/lumina/iris-studio/internal/ui"
)

var Version = "0.1.0"

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.MediaDir(), 0755); err != nil {
		return fmt.Errorf("failed to create media dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting lumina studio", "version", Version, "data_dir", cfg.DataDir())

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	kv := store.NewSQLiteStore(database.Conn())
	registry := moderation.NewSQLiteRegistry(database.Conn())

	initial := persist.Load(context.Background(), kv, store.KeyProject, logger)
	proj := project.NewStore(initial, logger)

	snapshotter := persist.NewSnapshotter(kv, store.KeyProject, cfg.SnapshotQuiet(), logger)
	proj.OnChange(snapshotter.Notify)

	events := api.NewHub(logger)
	proj.OnChange(events.Broadcast)

	authSvc := auth.NewService(registry, kv, logger)

	gate := moderation.NewGate(moderation.GateConfig{
		Registry:     registry,
		KV:           kv,
		Project:      proj,
		OwnerEmail:   cfg.OwnerEmail(),
		Tick:         cfg.GateTick(),
		RegistryPoll: cfg.RegistryPoll(),
		Logger:       logger,
	})
	if session := authSvc.CurrentSession(context.Background()); session != nil {
		gate.SetIdentity(session.Email)
		logger.Info("restored session", "email", logging.SanitizeEmail(session.Email))
	}

	var genClient generate.Client
	if cfg.GenEnabled() && cfg.GenBaseURL() != "" {
		genClient = generate.NewHTTPClient(cfg.GenBaseURL(), cfg.GenToken(), logger)
		logger.Info("generation backend enabled", "base_url", cfg.GenBaseURL())
	} else {
		genClient = generate.NewStubClient(logger)
	}

	jobs := generate.NewRepository(database.Conn())
	runner := generate.NewRunner(jobs, genClient, proj, logger, cfg.GenPollInterval())

	clock := playback.NewClock(proj, playback.NewTicker(cfg.FrameInterval()), logger)

	library := media.NewLibrary(database.Conn(), cfg.MediaDir(), logger)

	apiServer := api.NewServer(api.ServerConfig{
		Port:      cfg.Port(),
		Project:   proj,
		Auth:      authSvc,
		Gate:      gate,
		Registry:  registry,
		Jobs:      jobs,
		Library:   library,
		Streamer:  media.NewStreamer(logger),
		Events:    events,
		Logger:    logger,
		StartTime: startTime,
		Version:   Version,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return clock.Run(gctx) })
	g.Go(func() error { return gate.Run(gctx) })
	g.Go(func() error {
		runner.Run(gctx)
		return nil
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	logger.Info("studio ready", "addr", apiServer.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Project: proj,
			Runner:  runner,
			Logger:  logger,
			OnQuit: func() {
				close(quitCh)
			},
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()
	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("background loop error", "error", err)
	}

	snapshotter.Flush()
	events.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
