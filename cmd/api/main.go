package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"paperpulse/internal/author"
	"paperpulse/internal/config"
	"paperpulse/internal/httpx"
	"paperpulse/internal/logger"
	"paperpulse/internal/paper"
	"paperpulse/internal/platform/postgres"
)

func main() {
	config.LoadEnvFiles()
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, "paperpulse-api")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Open(ctx, cfg.DSN, cfg.DBTimeout)
	if err != nil {
		zl.Fatal("cannot open database", zap.Error(err))
	}
	defer pool.Close()
	zl.Info("database connection OK", zap.String("dsn", postgres.RedactDSN(cfg.DSN)))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	limiter := httpx.NewRateLimitMiddleware(50, 100)
	go limiter.Run(ctx.Done())

	handler, err := newRouter(routerDeps{
		authors:     author.NewPostgresRepo(pool, cfg.DBTimeout),
		papers:      paper.NewPostgresRepo(pool, cfg.DBTimeout),
		db:          pool,
		log:         zl,
		registry:    registry,
		corsOrigins: cfg.CORSOrigins,
		hsts:        cfg.HSTS,
		limiter:     limiter,
	})
	if err != nil {
		zl.Fatal("cannot build router", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			zl.Error("shutdown", zap.Error(err))
		}
	}()

	zl.Info("starting server", zap.String("addr", cfg.Addr))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zl.Fatal("server error", zap.Error(err))
	}
}
