package database

import (
	"context"
	"embed"
	"fmt"

	"creation-server/pkg/migration"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ApplyMigrations применяет все миграции схемы к базе данных.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrator := migration.NewMigrator(migration.Config{
		MigrationsPath: "migrations",
		MigrationsFS:   migrationsFS,
	}, pool)

	if err := migrator.Up(ctx); err != nil {
		return fmt.Errorf("ошибка применения миграций: %w", err)
	}
	return nil
}
