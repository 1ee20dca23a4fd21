// Package migrations хранит SQL-миграции схемы и применяет их через golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql sqlite/*.sql
var migrationsFS embed.FS

// NewMigrator создаёт экземпляр мигратора для диалекта ("postgres" или "sqlite").
// databaseURL - URL в формате golang-migrate (postgres://..., sqlite://<path>)
func NewMigrator(dialect, databaseURL string) (*migrate.Migrate, error) {
	switch dialect {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("no migrations for dialect %q", dialect)
	}

	source, err := iofs.New(migrationsFS, dialect)
	if err != nil {
		return nil, fmt.Errorf("create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

// Up применяет все доступные миграции; актуальная схема не считается ошибкой
func Up(dialect, databaseURL string, logger *slog.Logger) error {
	m, err := NewMigrator(dialect, databaseURL)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migrations not required, schema is up to date", "dialect", dialect)
		return nil
	case err != nil:
		return fmt.Errorf("run migrations: %w", err)
	}

	version, _, _ := m.Version()
	logger.Info("migrations applied", "dialect", dialect, "version", version)
	return nil
}
