package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	postgres "github.com/attend-app/attend-api/internal/adapters/postgres"
	"github.com/attend-app/attend-api/internal/platform/config"
)

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}

	run := func(name string, fn func(context.Context, *config.Config) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: name + " migrations",
			Args:  cobra.NoArgs,
			RunE: func(c *cobra.Command, _ []string) error {
				return fn(c.Context(), cfg)
			},
		}
	}
	cmd.AddCommand(
		run("up", withPool(postgres.MigrateUp)),
		run("down", withPool(postgres.MigrateDown)),
		run("status", withPool(postgres.MigrationStatus)),
	)
	return cmd
}

func withPool(fn func(context.Context, *pgxpool.Pool) error) func(context.Context, *config.Config) error {
	return func(ctx context.Context, cfg *config.Config) error {
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for migrations")
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{MaxConns: 2})
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := fn(ctx, pool); err != nil {
			return err
		}
		slog.Info("migrations done")
		return nil
	}
}
