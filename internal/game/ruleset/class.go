package ruleset

import (
	"errors"
	"fmt"
	"os"
)

// SpellsPerLevel controls how many spells populate each accessible level.
// A non-zero Flat wins; otherwise min(Cap, floor(known/maxSpellLevel)+Bonus).
type SpellsPerLevel struct {
	Cap   int `yaml:"cap"`
	Bonus int `yaml:"bonus"`
	Flat  int `yaml:"flat"`
}

// FallbackSpells is the generic per-class list used when no subclass theme applies.
type FallbackSpells struct {
	Cantrips []string         `yaml:"cantrips"`
	Levels   map[int][]string `yaml:"levels"`
}

// ClassDef defines a playable class.
//
// Precondition: ID and Name must be non-empty after loading.
type ClassDef struct {
	ID             string         `yaml:"id"`
	Name           string         `yaml:"name"`
	Icon           string         `yaml:"icon"`
	Caster         CasterKind     `yaml:"caster"`
	CastingType    CastingType    `yaml:"casting_type"`
	HitDie         int            `yaml:"hit_die"`
	SlotTable      string         `yaml:"slot_table"`
	CantripsKnown  []int          `yaml:"cantrips_known"`
	SpellsKnown    []int          `yaml:"spells_known"`
	SpellsPerLevel SpellsPerLevel `yaml:"spells_per_level"`
	// ShortRestSlots restores every spell slot on a short rest.
	ShortRestSlots bool `yaml:"short_rest_slots"`
	// ExtraAttackLevel grants ExtraAttack from this level on; 0 never.
	ExtraAttackLevel int            `yaml:"extra_attack_level"`
	Abilities        []AbilityDef   `yaml:"abilities"`
	Fallback         FallbackSpells `yaml:"fallback_spells"`
}

// IsCaster reports whether the class casts spells at all.
func (c *ClassDef) IsCaster() bool {
	return c.Caster == CasterFull || c.Caster == CasterHalf
}

// CantripsAt returns the number of cantrips known at level.
// Full casters without a table fall back to min(4, 2+floor(level/4)).
//
// Precondition: 1 <= level <= MaxLevel.
func (c *ClassDef) CantripsAt(level int) int {
	if len(c.CantripsKnown) > level {
		return c.CantripsKnown[level]
	}
	if c.Caster == CasterFull {
		return min(4, 2+level/4)
	}
	return 0
}

// SpellsKnownAt returns the spells-known table entry at level, or 0.
func (c *ClassDef) SpellsKnownAt(level int) int {
	if len(c.SpellsKnown) > level {
		return c.SpellsKnown[level]
	}
	return 0
}

// MaxSpellLevel returns the highest spell level accessible at character level:
// min(5, ceil(level/4)) for half casters, min(9, ceil(level/2)) for full casters.
func (c *ClassDef) MaxSpellLevel(level int) int {
	switch c.Caster {
	case CasterHalf:
		return min(5, ceilDiv(level, 4))
	case CasterFull:
		return min(9, ceilDiv(level, 2))
	}
	return 0
}

// SpellsPerSpellLevel returns how many spells populate each accessible level.
//
// Postcondition: result >= 0.
func (c *ClassDef) SpellsPerSpellLevel(level int) int {
	if c.SpellsPerLevel.Flat > 0 {
		return c.SpellsPerLevel.Flat
	}
	maxLvl := c.MaxSpellLevel(level)
	if maxLvl == 0 {
		return 0
	}
	return max(0, min(c.SpellsPerLevel.Cap, c.SpellsKnownAt(level)/maxLvl+c.SpellsPerLevel.Bonus))
}

// Validate checks class invariants including table monotonicity.
func (c *ClassDef) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	switch c.Caster {
	case CasterNone:
		if c.CastingType != CastingNone {
			errs = append(errs, fmt.Errorf("non-caster must have casting_type none, got %q", c.CastingType))
		}
	case CasterFull, CasterHalf:
		if c.CastingType != CastingPrepared && c.CastingType != CastingKnown {
			errs = append(errs, fmt.Errorf("caster must have casting_type prepared or known, got %q", c.CastingType))
		}
		switch c.SlotTable {
		case SlotTableFull, SlotTableHalf, SlotTablePact:
		default:
			errs = append(errs, fmt.Errorf("slot_table must be one of full, half, pact; got %q", c.SlotTable))
		}
		if c.SpellsPerLevel.Flat == 0 && c.SpellsPerLevel.Cap < 1 {
			errs = append(errs, errors.New("spells_per_level needs flat or cap >= 1"))
		}
	default:
		errs = append(errs, fmt.Errorf("caster must be one of none, full, half; got %q", c.Caster))
	}
	switch c.HitDie {
	case 6, 8, 10, 12:
	default:
		errs = append(errs, fmt.Errorf("hit_die must be one of 6, 8, 10, 12; got %d", c.HitDie))
	}
	if err := validateProgression("cantrips_known", c.CantripsKnown); err != nil {
		errs = append(errs, err)
	}
	if err := validateProgression("spells_known", c.SpellsKnown); err != nil {
		errs = append(errs, err)
	}
	for i := range c.Abilities {
		if err := c.Abilities[i].Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("class %q: %w", c.ID, errors.Join(errs...))
	}
	return nil
}

// validateProgression requires an absent table or 21 non-decreasing entries.
func validateProgression(name string, table []int) error {
	if len(table) == 0 {
		return nil
	}
	if len(table) != MaxLevel+1 {
		return fmt.Errorf("%s must have %d entries (levels 0..%d), got %d", name, MaxLevel+1, MaxLevel, len(table))
	}
	for i := 1; i < len(table); i++ {
		if table[i] < table[i-1] {
			return fmt.Errorf("%s must be non-decreasing: level %d has %d after %d", name, i, table[i], table[i-1])
		}
	}
	return nil
}

// LoadClasses reads all .yaml files in dir and parses each as a ClassDef.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all valid classes (may be empty slice) or a non-nil error.
func LoadClasses(dir string) ([]*ClassDef, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	classes := make([]*ClassDef, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var c ClassDef
		if err := decodeStrict(data, &c); err != nil {
			return nil, fmt.Errorf("parsing class file %s: %w", path, err)
		}
		if c.Caster == "" {
			c.Caster = CasterNone
		}
		if c.CastingType == "" {
			c.CastingType = CastingNone
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		classes = append(classes, &c)
	}
	return classes, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
