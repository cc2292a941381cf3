package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// Migrate creates the overrides table named by cfg.OverridesTable and records
// the applied version in cfg.MigrationsTable. Applied versions are logged.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, log logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration connection", "error", err)
		}
	}()

	versions := cfg.MigrationsTable
	if versions == "" {
		versions = "schema_migrations"
	}
	store, err := database.NewStore(database.DialectPostgres, versions)
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	provider, err := goose.NewProvider("", db, nil,
		goose.WithStore(store),
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(overridesMigration(cfg.OverridesTable)),
	)
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	for _, r := range results {
		log.InfoContext(ctx, "migration applied",
			slog.Int64("version", r.Source.Version), slog.Duration("duration", r.Duration))
	}
	return nil
}

// overridesMigration is version 1 of the schema: the (subject, key) keyed
// overrides table.
func overridesMigration(table string) *goose.Migration {
	up, down := overridesSchema(table)
	return goose.NewGoMigration(1,
		&goose.GoFunc{RunTx: execTx(up)},
		&goose.GoFunc{RunTx: execTx(down)},
	)
}

func overridesSchema(table string) (up, down string) {
	name := quoteTable(table)
	up = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    subject    TEXT        NOT NULL DEFAULT '',
    key        TEXT        NOT NULL,
    value      TEXT        NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (subject, key)
)`, name)
	down = fmt.Sprintf(`DROP TABLE IF EXISTS %s`, name)
	return up, down
}

func execTx(query string) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query)
		return err
	}
}
