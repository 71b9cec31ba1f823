package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmacy/m/internal/alerts"
	"pharmacy/m/internal/api"
	"pharmacy/m/internal/config"
	"pharmacy/m/internal/database"
	"pharmacy/m/internal/logging"
	"pharmacy/m/internal/migrations"
	"pharmacy/m/internal/ratelimit"
	"pharmacy/m/internal/seed"
	"pharmacy/m/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("console", "info")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logging.New(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	st := store.New(db)
	if cfg.SeedCSV != "" {
		if _, err := seed.LoadInventoryFile(ctx, st, cfg.SeedCSV, log); err != nil {
			log.Error().Err(err).Str("path", cfg.SeedCSV).Msg("inventory seed failed")
		}
	}

	sweeper := alerts.NewScheduler(st, cfg.LowStockThreshold, cfg.ExpiryWindowDays, cfg.AlertInterval, log)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("alert scheduler failed to start")
	}
	defer sweeper.Stop()

	limiter := ratelimit.New(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	go limiter.RunCleanup(ctx, 30*time.Minute)

	handler := api.New(st, api.Options{
		Logger:            log,
		LowStockThreshold: cfg.LowStockThreshold,
		PharmacyName:      cfg.PharmacyName,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		Limiter:           limiter,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	log.Info().Str("addr", server.Addr).Str("env", cfg.AppEnv).Str("driver", cfg.DBDriver).Msg("pharmacy server starting")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server stopped")
}
