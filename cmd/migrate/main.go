package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/quinceleaf/conference-catering-browser/internal/config"
	"github.com/quinceleaf/conference-catering-browser/internal/logger"
	"github.com/quinceleaf/conference-catering-browser/migrations"
)

// migrationLockID guards against two migrators running at once.
const migrationLockID = 7462839

// Usage: migrate [up|down|status|version]
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

	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal("config", zap.Error(err))
	}

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx := context.Background()
	sqlDB := connectDB(ctx, log, cfg.DatabaseURL)
	defer sqlDB.Close()

	conn := acquireLock(ctx, log, sqlDB)
	defer func() {
		_, _ = conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID)
		conn.Close()
	}()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("set dialect", zap.Error(err))
	}

	if err := goose.RunContext(ctx, command, sqlDB, "."); err != nil {
		log.Fatal("migration failed", zap.String("command", command), zap.Error(err))
	}
	log.Info("migrations processed", zap.String("command", command))
}

func connectDB(ctx context.Context, log *zap.Logger, url string) *sql.DB {
	sqlDB, err := goose.OpenDBWithDriver("pgx", url)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		log.Fatal("failed to ping database", zap.Error(err))
	}

	log.Info("connected to database")
	return sqlDB
}

func acquireLock(ctx context.Context, log *zap.Logger, sqlDB *sql.DB) *sql.Conn {
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		log.Fatal("failed to acquire connection for lock", zap.Error(err))
	}

	var locked bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", migrationLockID).Scan(&locked); err != nil {
		log.Fatal("failed to query advisory lock", zap.Error(err))
	}
	if !locked {
		log.Fatal("another migrator is currently running")
	}

	log.Info("migration lock acquired")
	return conn
}
