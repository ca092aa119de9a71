package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/cory-johannsen/spellbook/internal/storage/sqlite/migrations"
)

// migrationTable records the applied schema version.
const migrationTable = "schema_version"

// migrateUp applies every embedded migration newer than the recorded version
// and returns the resulting version.
//
// The migrate instance is never closed: closing it would close sqlDB.
func migrateUp(sqlDB *sql.DB) (uint, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return 0, fmt.Errorf("reading embedded migrations: %w", err)
	}
	defer src.Close()

	driver, err := migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{MigrationsTable: migrationTable})
	if err != nil {
		return 0, fmt.Errorf("creating migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("creating migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("applying migrations: %w", err)
	}
	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}
