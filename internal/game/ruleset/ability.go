package ruleset

import (
	"errors"
	"fmt"
)

// AbilityDef is a class feature. A non-empty Damage makes it an attack.
type AbilityDef struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Icon        string `yaml:"icon" json:"icon,omitempty"`
	Damage      string `yaml:"damage" json:"damage,omitempty"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// Validate checks the definition invariants.
func (a *AbilityDef) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("ability %q: %w", a.ID, errors.Join(errs...))
	}
	return nil
}

// HasDamage reports whether using the ability rolls attack and damage.
func (a *AbilityDef) HasDamage() bool { return a.Damage != "" }

// ExtraAttack is granted to martial classes at their extra_attack_level.
var ExtraAttack = AbilityDef{
	ID:          "extra_attack",
	Name:        "Extra Attack",
	Icon:        "⚔️",
	Description: "Attack twice when you take the Attack action",
}

// BasicAttack is given to characters whose class lists no abilities.
var BasicAttack = AbilityDef{
	ID:          "basic_attack",
	Name:        "Basic Attack",
	Icon:        "⚔️",
	Damage:      "1d8+2",
	Description: "Standard weapon attack",
}
