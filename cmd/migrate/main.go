package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"warehouse/internal/config"
	"warehouse/pkg/logger"
)

// Applies the SQL files under db/migrations in lexical order, recording each
// applied file in schema_migrations so reruns are idempotent.
func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	dir := "db/migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		log.Fatal("failed to create schema_migrations table", zap.Error(err))
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		log.Fatal("failed to list migration files", zap.Error(err))
	}
	sort.Strings(files)

	applied := 0
	for _, file := range files {
		name := filepath.Base(file)

		var exists bool
		if err := conn.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE filename = $1)", name,
		).Scan(&exists); err != nil {
			log.Fatal("failed to check migration state", zap.String("file", name), zap.Error(err))
		}
		if exists {
			continue
		}

		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			log.Fatal("failed to read migration file", zap.String("file", name), zap.Error(err))
		}

		tx, err := conn.Begin(ctx)
		if err != nil {
			log.Fatal("failed to begin transaction", zap.Error(err))
		}
		if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
			tx.Rollback(ctx)
			log.Fatal("migration failed", zap.String("file", name), zap.Error(err))
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO schema_migrations (filename) VALUES ($1)", name,
		); err != nil {
			tx.Rollback(ctx)
			log.Fatal("failed to record migration", zap.String("file", name), zap.Error(err))
		}
		if err := tx.Commit(ctx); err != nil {
			log.Fatal("failed to commit migration", zap.String("file", name), zap.Error(err))
		}

		log.Info("applied migration", zap.String("file", name))
		applied++
	}

	log.Info("migrations complete", zap.Int("applied", applied), zap.Int("total", len(files)))
}
