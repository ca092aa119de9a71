package engine

import (
	"fmt"
	"path/filepath"

	"github.com/cory-johannsen/spellbook/internal/game/inventory"
	"github.com/cory-johannsen/spellbook/internal/game/modifier"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
)

// LoadContent reads every static table under dir: classes, spells and
// subclasses, items, kits.yaml and modifiers/.
//
// Postcondition: kit grants all name registered items, or an error is returned.
func LoadContent(dir string) (Content, error) {
	rules, err := ruleset.Load(dir)
	if err != nil {
		return Content{}, fmt.Errorf("loading ruleset: %w", err)
	}
	items, err := inventory.Load(dir)
	if err != nil {
		return Content{}, fmt.Errorf("loading items: %w", err)
	}
	kits, err := inventory.LoadKits(filepath.Join(dir, "kits.yaml"))
	if err != nil {
		return Content{}, err
	}
	if err := kits.Validate(items); err != nil {
		return Content{}, fmt.Errorf("validating kits: %w", err)
	}
	mods, err := modifier.LoadDirectory(filepath.Join(dir, "modifiers"))
	if err != nil {
		return Content{}, err
	}
	return Content{Rules: rules, Items: items, Kits: kits, Modifiers: mods}, nil
}
