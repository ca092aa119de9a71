package importer

import "github.com/cory-johannsen/spellbook/internal/game/character"

// Result is one converted character plus the repairs the source made on the way.
type Result struct {
	Character *character.Character
	// Warnings lists dropped or corrected fields, one human-readable entry each.
	Warnings []string
}

// Source loads characters from a format-specific roster file.
//
// Precondition: path must name a readable file in the source's format.
// Postcondition: returns at least one Result, or a non-nil error.
type Source interface {
	Load(path string) ([]Result, error)
}
