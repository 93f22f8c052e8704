package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/silver-potato-kebab/trade-tracker/internal/api"
	"github.com/silver-potato-kebab/trade-tracker/internal/config"
	"github.com/silver-potato-kebab/trade-tracker/internal/database"
	"github.com/silver-potato-kebab/trade-tracker/internal/logging"
	"github.com/silver-potato-kebab/trade-tracker/internal/repository"
	"github.com/silver-potato-kebab/trade-tracker/internal/scheduler"
	"github.com/silver-potato-kebab/trade-tracker/internal/service"
	"github.com/silver-potato-kebab/trade-tracker/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trade-tracker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Logging.Version = version.AppVersion
	if err := logging.Init(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = logging.Shutdown(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	logging.Info(ctx, "Connected to database", "path", cfg.Database.Path, "migrations_applied", applied)

	ledgerService, err := service.NewLedgerService(
		cfg.Grid.Kinds,
		service.WithStatusCallback(func() {
			logging.Debug(context.Background(), "Ledger changed")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create ledger: %w", err)
	}
	snapshotService := service.NewSnapshotService(db, repository.NewSnapshotRepository(db), ledgerService)
	riskService := service.NewRiskService(cfg.Risk.Percentage, cfg.Risk.AccountSize)
	systemService := service.NewSystemService(db)

	router := api.NewRouter(api.Services{
		System:   systemService,
		Ledger:   ledgerService,
		Snapshot: snapshotService,
		Risk:     riskService,
	}, cfg)

	var runner *scheduler.Runner
	if cfg.Snapshot.Cron != "" {
		runner = scheduler.New(ctx)
		if _, err := runner.Add(cfg.Snapshot.Cron, "snapshot_autosave", snapshotService.Autosave); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logging.Info(gctx, "Starting server", "addr", cfg.Server.Addr, "version", version.AppVersion)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logging.Info(context.Background(), "Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if runner != nil {
		g.Go(func() error {
			return runner.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logging.Info(context.Background(), "Server exited")
	return nil
}
