// Package storage defines the character store contract shared by the
// memory, sqlite and postgres backends.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/cory-johannsen/spellbook/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// Summary is the list view of a stored character.
type Summary struct {
	ID        string
	Name      string
	Class     string
	Level     int
	UpdatedAt time.Time
}

// CharacterStore persists whole character sheets keyed by character id.
type CharacterStore interface {
	// Get returns the sheet for id or ErrCharacterNotFound.
	Get(ctx context.Context, id string) (*character.Character, error)
	// Save inserts or replaces c and stamps c.UpdatedAt.
	Save(ctx context.Context, c *character.Character) error
	// List returns every stored character ordered by id.
	List(ctx context.Context) ([]Summary, error)
	// Delete removes id or returns ErrCharacterNotFound.
	Delete(ctx context.Context, id string) error
}

// Locker is implemented by stores that can run a read-modify-write of one
// character under that character's lock.
type Locker interface {
	// Do hands fn a private copy of character id and stores it when fn
	// returns nil. Calls for the same id never overlap.
	Do(id string, fn func(c *character.Character) error) error
}

// SummaryOf builds the list view of c.
func SummaryOf(c *character.Character) Summary {
	return Summary{ID: c.ID, Name: c.Name, Class: c.Class, Level: c.Level, UpdatedAt: c.UpdatedAt}
}
