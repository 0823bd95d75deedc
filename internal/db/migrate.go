package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/mapnav/internal/db/migrations"
)

// RunMigrations applies the embedded route cost schema to the database at
// dsn and returns the versions applied by this call, oldest first.
func RunMigrations(ctx context.Context, dsn string) ([]int64, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()
	return Migrate(ctx, sqlDB)
}

// Migrate applies the embedded migrations through an open database/sql handle.
func Migrate(ctx context.Context, sqlDB *sql.DB) ([]int64, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("creating migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	applied := make([]int64, 0, len(results))
	for _, r := range results {
		applied = append(applied, r.Source.Version)
	}
	return applied, nil
}
