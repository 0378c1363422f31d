package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/quinceleaf/conference-catering-browser/internal/adapters/cli"
	"github.com/quinceleaf/conference-catering-browser/internal/app"
	"github.com/quinceleaf/conference-catering-browser/internal/config"
	"github.com/quinceleaf/conference-catering-browser/internal/core"
	"github.com/quinceleaf/conference-catering-browser/internal/db"
	"github.com/quinceleaf/conference-catering-browser/internal/logger"
)

// Usage: app <cost|packages|report|export> ...
func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("unable to connect to database", zap.Error(err))
	}
	defer pool.Close()

	directory := core.NewDirectoryService(pool)
	svc := app.NewAppService(
		core.NewOrderService(pool, cfg.Location),
		core.NewReportingService(pool, directory),
		log,
		nil,
	)

	if err := cli.Run(ctx, svc, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		pool.Close()
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
