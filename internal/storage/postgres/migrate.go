package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationResult reports the schema state after Migrate.
type MigrationResult struct {
	Version  uint
	Dirty    bool
	NoChange bool
}

// Migrate applies the *.sql files in dir to the database at dsn. Up with
// steps 0 applies everything; down with steps 0 reverts everything.
//
// Precondition: direction is "up" or "down"; steps >= 0.
// Postcondition: an already current schema is not an error and sets NoChange.
func Migrate(dsn, dir, direction string, steps int) (MigrationResult, error) {
	if steps < 0 {
		return MigrationResult{}, fmt.Errorf("steps must be >= 0, got %d", steps)
	}
	if direction != "up" && direction != "down" {
		return MigrationResult{}, fmt.Errorf("invalid direction %q: must be 'up' or 'down'", direction)
	}

	m, err := migrate.New("file://"+dir, dsn)
	if err != nil {
		return MigrationResult{}, fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	switch {
	case direction == "up" && steps > 0:
		err = m.Steps(steps)
	case direction == "up":
		err = m.Up()
	case steps > 0:
		err = m.Steps(-steps)
	default:
		err = m.Down()
	}
	var res MigrationResult
	if errors.Is(err, migrate.ErrNoChange) {
		res.NoChange = true
	} else if err != nil {
		return res, fmt.Errorf("migrating %s: %w", direction, err)
	}

	res.Version, res.Dirty, err = m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return res, fmt.Errorf("reading schema version: %w", err)
	}
	return res, nil
}
