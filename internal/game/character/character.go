// Package character defines the character sheet model and its builder.
package character

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/cory-johannsen/spellbook/internal/game/inventory"
	"github.com/cory-johannsen/spellbook/internal/game/modifier"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
)

// EntityType is the rpg-toolkit entity type reported by Character.
const EntityType = "character"

// Character is one player character's full sheet.
//
// Invariants: 0 <= HP.Current <= HP.Max; 0 <= slot.Current <= slot.Max for
// every SpellSlots entry; Abilities are unique by ID.
type Character struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Icon          string               `json:"icon,omitempty"`
	Class         string               `json:"class"`
	Subclass      ruleset.SubclassID   `json:"subclass,omitempty"`
	Race          string               `json:"race,omitempty"`
	Alignment     string               `json:"alignment,omitempty"`
	Level         int                  `json:"level"`
	AC            int                  `json:"ac"`
	Stats         Stats                `json:"stats"`
	HP            HP                   `json:"hp"`
	CastingType   ruleset.CastingType  `json:"casting_type"`
	Spells        Spellbook            `json:"spells"`
	SpellSlots    SpellSlots           `json:"spell_slots"`
	Abilities     []ruleset.AbilityDef `json:"abilities"`
	Inventory     inventory.Backpack   `json:"inventory"`
	TempModifiers modifier.Set         `json:"temp_modifiers,omitempty"`
	UpdatedAt     time.Time            `json:"updated_at,omitzero"`
}

var _ core.Entity = (*Character)(nil)

// GetID returns the character id.
func (c *Character) GetID() string { return c.ID }

// GetType returns EntityType.
func (c *Character) GetType() string { return EntityType }

// Ability returns the ability with id and whether it was found.
func (c *Character) Ability(id string) (ruleset.AbilityDef, bool) {
	for _, a := range c.Abilities {
		if a.ID == id {
			return a, true
		}
	}
	return ruleset.AbilityDef{}, false
}

// Clone returns a deep copy. Engine operations mutate a clone and swap it in
// only on success.
func (c *Character) Clone() *Character {
	out := *c
	out.Spells = c.Spells.Clone()
	out.SpellSlots = c.SpellSlots.Clone()
	if c.Abilities != nil {
		out.Abilities = append([]ruleset.AbilityDef(nil), c.Abilities...)
	}
	out.Inventory = c.Inventory.Clone()
	out.TempModifiers = c.TempModifiers.Clone()
	return &out
}

// Validate checks the sheet invariants.
func (c *Character) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("character: id must not be empty")
	}
	if c.Level < 1 || c.Level > ruleset.MaxLevel {
		return fmt.Errorf("character %q: level %d out of range 1-%d", c.ID, c.Level, ruleset.MaxLevel)
	}
	if !c.Stats.Valid() {
		return fmt.Errorf("character %q: ability scores must be positive", c.ID)
	}
	if c.HP.Max < 0 || c.HP.Current < 0 || c.HP.Current > c.HP.Max {
		return fmt.Errorf("character %q: hp %d/%d violates 0 <= current <= max", c.ID, c.HP.Current, c.HP.Max)
	}
	for lvl, s := range c.SpellSlots {
		if lvl < 1 || lvl > 9 {
			return fmt.Errorf("character %q: spell slot level %d out of range 1-9", c.ID, lvl)
		}
		if s.Current < 0 || s.Current > s.Max {
			return fmt.Errorf("character %q: level %d slots %d/%d violate 0 <= current <= max", c.ID, lvl, s.Current, s.Max)
		}
	}
	seen := make(map[string]bool, len(c.Abilities))
	for _, a := range c.Abilities {
		if seen[a.ID] {
			return fmt.Errorf("character %q: duplicate ability %q", c.ID, a.ID)
		}
		seen[a.ID] = true
	}
	return nil
}
