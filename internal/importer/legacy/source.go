package legacy

import (
	"fmt"
	"os"

	"github.com/cory-johannsen/spellbook/internal/game/inventory"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
	"github.com/cory-johannsen/spellbook/internal/importer"
)

var _ importer.Source = (*Source)(nil)

// Source implements importer.Source for a browser-sheet roster export file.
type Source struct {
	rules *ruleset.Ruleset
	items *inventory.Registry
}

// NewSource constructs a Source. items may be nil to drop backpacks.
//
// Precondition: rules must be non-nil.
func NewSource(rules *ruleset.Ruleset, items *inventory.Registry) *Source {
	return &Source{rules: rules, items: items}
}

// Load reads the roster at path and converts every sheet.
//
// Postcondition: returns one Result per sheet, or the first conversion error.
func (s *Source) Load(path string) ([]importer.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %s: %w", path, err)
	}
	sheets, err := ParseRoster(data)
	if err != nil {
		return nil, fmt.Errorf("parsing roster %s: %w", path, err)
	}

	results := make([]importer.Result, 0, len(sheets))
	seen := make(map[string]bool, len(sheets))
	for i, sheet := range sheets {
		c, warnings, err := Convert(sheet, s.rules, s.items)
		if err != nil {
			return nil, fmt.Errorf("converting sheet %d (%q): %w", i, sheet.Name, err)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("converting sheet %d: duplicate character id %q", i, c.ID)
		}
		seen[c.ID] = true
		results = append(results, importer.Result{Character: c, Warnings: warnings})
	}
	return results, nil
}
