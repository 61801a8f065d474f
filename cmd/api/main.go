package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/bryanwahyu/sandai/src/app/battles"
	"github.com/bryanwahyu/sandai/src/app/teams"
	"github.com/bryanwahyu/sandai/src/infra/config"
	"github.com/bryanwahyu/sandai/src/infra/logging"
	"github.com/bryanwahyu/sandai/src/infra/metrics"
	"github.com/bryanwahyu/sandai/src/infra/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	baseCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	shutdownTelemetry, err := telemetry.Setup(baseCtx, cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownTelemetry(ctx)
		}()
	}

	st, closeStore, err := openStore(baseCtx, cfg)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("store", cfg.Store), zap.Error(err))
	}
	defer func() { _ = closeStore() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	teamService := teams.NewService(st, st)
	battleService := battles.NewService(st, st, st, st)
	battleService.TurnCap = cfg.TurnCap
	battleService.Logger = logger.Named("battles")
	battleService.Metrics = m

	server := NewServer(ServerConfig{
		Logger:        logger,
		Metrics:       m,
		Gatherer:      registry,
		TeamService:   teamService,
		BattleService: battleService,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Sand-ai API listening", zap.String("addr", cfg.HTTPAddress), zap.String("store", cfg.Store))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-baseCtx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
