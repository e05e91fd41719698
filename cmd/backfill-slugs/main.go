// Command backfill-slugs assigns a slug to every recipe stored before slugs
// existed. It is safe to run repeatedly; recipes that already have a slug
// are left alone.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkordes/recipe-box/backend/internal/config"
	"github.com/pkordes/recipe-box/backend/internal/repo"
	"github.com/pkordes/recipe-box/backend/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		slog.Error("configuration error", "error", "DATABASE_URL is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	n, err := service.NewRecipeService(repo.NewRecipeRepo(pool)).BackfillSlugs(ctx)
	if err != nil {
		slog.Error("backfill failed", "updated", n, "error", err)
		os.Exit(1)
	}
	slog.Info("backfill complete", "updated", n)
}
