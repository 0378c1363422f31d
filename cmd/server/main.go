package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	webAdapter "github.com/quinceleaf/conference-catering-browser/internal/adapters/web"
	"github.com/quinceleaf/conference-catering-browser/internal/app"
	"github.com/quinceleaf/conference-catering-browser/internal/config"
	"github.com/quinceleaf/conference-catering-browser/internal/core"
	"github.com/quinceleaf/conference-catering-browser/internal/db"
	"github.com/quinceleaf/conference-catering-browser/internal/logger"
	"github.com/quinceleaf/conference-catering-browser/internal/metrics"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	directory := core.NewDirectoryService(pool)
	orderService := core.NewOrderService(pool, cfg.Location)
	reportingService := core.NewReportingService(pool, directory)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}
	svc := app.NewAppService(orderService, reportingService, log, m)

	handler := webAdapter.NewHandler(svc, webAdapter.Options{
		AllowedOrigins: cfg.Origins(),
		JWTSecret:      cfg.JWTSecret,
		Log:            log,
		Metrics:        m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("server starting",
		zap.String("port", cfg.ServerPort),
		zap.String("timezone", cfg.Location.String()),
		zap.Bool("metrics", cfg.MetricsEnabled),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server", zap.Error(err))
	}
	log.Info("server stopped")
}
