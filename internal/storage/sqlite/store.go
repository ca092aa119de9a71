// Package sqlite persists character sheets in a single local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/storage"
)

// Store is a storage.CharacterStore backed by SQLite.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

var _ storage.CharacterStore = (*Store)(nil)

// Open opens and migrates the store at path.
//
// Precondition: path is non-blank.
// Postcondition: Returns a ready Store or a non-nil error; the db is closed on failure.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &Store{sqlDB: sqlDB, now: time.Now}
	if _, err := migrateUp(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save upserts c and stamps c.UpdatedAt.
//
// Precondition: c passes Validate.
func (s *Store) Save(ctx context.Context, c *character.Character) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	c.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)
	sheet, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding character %q: %w", c.ID, err)
	}
	_, err = s.sqlDB.ExecContext(ctx, `
		INSERT INTO characters (id, name, class, level, sheet, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, class = excluded.class, level = excluded.level,
			sheet = excluded.sheet, updated_at = excluded.updated_at`,
		c.ID, c.Name, c.Class, c.Level, string(sheet), c.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("upsert character %q: %w", c.ID, err)
	}
	return nil
}

// Get loads character id.
//
// Postcondition: Returns storage.ErrCharacterNotFound when no row matches.
func (s *Store) Get(ctx context.Context, id string) (*character.Character, error) {
	var sheet string
	var updated int64
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT sheet, updated_at FROM characters WHERE id = ?`, id,
	).Scan(&sheet, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCharacterNotFound
		}
		return nil, fmt.Errorf("get character: %w", err)
	}
	var c character.Character
	if err := json.Unmarshal([]byte(sheet), &c); err != nil {
		return nil, fmt.Errorf("decoding character %q: %w", id, err)
	}
	c.UpdatedAt = time.UnixMilli(updated).UTC()
	return &c, nil
}

// List returns every character ordered by id.
func (s *Store) List(ctx context.Context) ([]storage.Summary, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, class, level, updated_at FROM characters ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	out := make([]storage.Summary, 0)
	for rows.Next() {
		var sum storage.Summary
		var updated int64
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Class, &sum.Level, &updated); err != nil {
			return nil, fmt.Errorf("scan character row: %w", err)
		}
		sum.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes character id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	if n == 0 {
		return storage.ErrCharacterNotFound
	}
	return nil
}
