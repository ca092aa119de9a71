// Package inventory holds item definitions, the per-character backpack and the
// starting and auto-add kits.
package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/spellbook/internal/game/dice"
)

// Kind constants for ItemDef.Kind.
const (
	KindWeapon     = "weapon"
	KindArmor      = "armor"
	KindAmmunition = "ammunition"
	KindGear       = "gear"
	KindConsumable = "consumable"
)

var validKinds = map[string]bool{
	KindWeapon:     true,
	KindArmor:      true,
	KindAmmunition: true,
	KindGear:       true,
	KindConsumable: true,
}

// ItemDef defines the static properties of an item loaded from YAML.
type ItemDef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Icon        string `yaml:"icon"`
	Kind        string `yaml:"kind"`
	Description string `yaml:"description"`
	Stackable   bool   `yaml:"stackable"`
	// Heal is dice notation rolled when the item is used; empty for non-healing items.
	Heal string `yaml:"heal"`
}

// Validate checks that the ItemDef satisfies its invariants.
//
// Precondition: d is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (d *ItemDef) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !validKinds[d.Kind] {
		errs = append(errs, fmt.Errorf("kind must be one of weapon, armor, ammunition, gear, consumable; got %q", d.Kind))
	}
	if d.Heal != "" {
		if d.Kind != KindConsumable {
			errs = append(errs, fmt.Errorf("heal is only valid on consumables, got kind %q", d.Kind))
		}
		if _, err := dice.Parse(d.Heal); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// Equippable reports whether instances of d carry an Equipped flag.
func (d *ItemDef) Equippable() bool {
	return d.Kind == KindWeapon || d.Kind == KindArmor
}

type itemFile struct {
	Items []ItemDef `yaml:"items"`
}

// LoadItems reads all *.yaml and *.yml files from dir. Each file holds a list
// of items under the "items" key.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid ItemDefs or the first encountered error.
func LoadItems(dir string) ([]*ItemDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*ItemDef
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")) {
			continue
		}
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var f itemFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		for i := range f.Items {
			d := f.Items[i]
			if err := d.Validate(); err != nil {
				return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
			}
			items = append(items, &d)
		}
	}
	return items, nil
}
