package postgresql

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies all pending SQL migrations embedded in the binary.
func (sImpl *storeImpl) RunMigrations(ctx context.Context) error {
	sqlDB, err := sImpl.db.DB()
	if err != nil {
		return fmt.Errorf("obtain sql.DB for migrations: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// MigrationVersion reports the current schema version.
func (sImpl *storeImpl) MigrationVersion(ctx context.Context) (int64, error) {
	sqlDB, err := sImpl.db.DB()
	if err != nil {
		return 0, fmt.Errorf("obtain sql.DB for migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return 0, fmt.Errorf("get migration version: %w", err)
	}
	return version, nil
}
