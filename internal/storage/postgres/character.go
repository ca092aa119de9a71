package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/storage"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = storage.ErrCharacterNotFound

// CharacterRepository stores each character sheet as one JSONB document.
// Name, class and level are duplicated into columns for listing.
type CharacterRepository struct {
	db *pgxpool.Pool
}

var _ storage.CharacterStore = (*CharacterRepository)(nil)

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// Save upserts c and sets c.UpdatedAt from the database clock.
//
// Precondition: c passes Validate.
// Postcondition: Returns nil on success; c.UpdatedAt matches the stored row.
func (r *CharacterRepository) Save(ctx context.Context, c *character.Character) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	sheet, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding character %q: %w", c.ID, err)
	}
	var updated time.Time
	err = r.db.QueryRow(ctx, `
		INSERT INTO characters (id, name, class, level, sheet)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, class = EXCLUDED.class, level = EXCLUDED.level,
			    sheet = EXCLUDED.sheet, updated_at = NOW()
		RETURNING updated_at`,
		c.ID, c.Name, c.Class, c.Level, sheet,
	).Scan(&updated)
	if err != nil {
		return fmt.Errorf("upserting character %q: %w", c.ID, err)
	}
	c.UpdatedAt = updated
	return nil
}

// Get retrieves a character by id.
//
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	var (
		sheet   []byte
		updated time.Time
	)
	err := r.db.QueryRow(ctx, `SELECT sheet, updated_at FROM characters WHERE id = $1`, id).
		Scan(&sheet, &updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	var c character.Character
	if err := json.Unmarshal(sheet, &c); err != nil {
		return nil, fmt.Errorf("decoding character %q: %w", id, err)
	}
	c.UpdatedAt = updated
	return &c, nil
}

// List returns every character ordered by id.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]storage.Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, class, level, updated_at
		FROM characters ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	out := make([]storage.Summary, 0)
	for rows.Next() {
		var s storage.Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.Class, &s.Level, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a character and, by cascade, its battle log.
//
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row was deleted.
func (r *CharacterRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}
