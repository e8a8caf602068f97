package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/verdantcrew/crewcal/internal/app"
	"github.com/verdantcrew/crewcal/internal/config"
	"github.com/verdantcrew/crewcal/internal/expand"
	"github.com/verdantcrew/crewcal/internal/repository"
	"github.com/verdantcrew/crewcal/internal/server"
	"github.com/verdantcrew/crewcal/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("starting crewcal",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to reach database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("failed to apply migrations", zap.Error(err))
	}
	_ = migrator.Close()

	eventRepo := repository.NewAvailabilityEventRepository(pool, logger)
	teamRepo := repository.NewTeamMemberRepository(pool, logger)
	expander := expand.NewExpander(logger)
	availability := service.NewAvailabilityService(eventRepo, teamRepo, expander, logger)

	purge := app.NewPurgeTask(availability, cfg.RetentionDays, logger)
	purge.Start(ctx)
	defer purge.Stop()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(availability, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}
}
