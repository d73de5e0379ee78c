package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"SearchAPI/internal/logger"
)

// sourceURL builds the file:// URL golang-migrate wants: absolute path, forward slashes.
func sourceURL(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs migrations: %w", err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// MigratePostgres applies every pending migration of dir to the database at dsn.
func MigratePostgres(dsn, dir string) error {
	src, err := sourceURL(dir)
	if err != nil {
		return err
	}
	m, err := migrate.New(src, dsn)
	if err != nil {
		return fmt.Errorf("migrate.New: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	return up(m, "postgres")
}

// MigrateSQLite applies the migrations of dir through an open connection, so
// in-memory databases can be migrated too. conn stays open afterwards.
func MigrateSQLite(conn *sql.DB, dir string) error {
	src, err := sourceURL(dir)
	if err != nil {
		return err
	}
	driver, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("migrate.New: %w", err)
	}
	// m.Close would close conn as well.
	return up(m, "sqlite")
}

func up(m *migrate.Migrate, backend string) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migrate version: %w", err)
	}
	logger.Info("migrations_applied", map[string]any{
		"backend": backend,
		"version": version,
		"dirty":   dirty,
	})
	return nil
}
