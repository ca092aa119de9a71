package ruleset

import (
	"errors"
	"fmt"
	"os"
)

// SpellDef is the static definition of a spell.
//
// Invariant: AttackRoll and Save are never both set.
type SpellDef struct {
	ID            string `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	Icon          string `yaml:"icon" json:"icon,omitempty"`
	Level         int    `yaml:"-" json:"level"`
	Damage        string `yaml:"damage" json:"damage,omitempty"`
	Description   string `yaml:"description" json:"description,omitempty"`
	School        string `yaml:"school" json:"school,omitempty"`
	CastingTime   string `yaml:"casting_time" json:"casting_time,omitempty"`
	Range         string `yaml:"range" json:"range,omitempty"`
	Components    string `yaml:"components" json:"components,omitempty"`
	Duration      string `yaml:"duration" json:"duration,omitempty"`
	Concentration bool   `yaml:"concentration" json:"concentration,omitempty"`
	AttackRoll    bool   `yaml:"attack_roll" json:"attack_roll,omitempty"`
	Save          string `yaml:"save" json:"save,omitempty"`
}

// Validate checks the definition invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (s *SpellDef) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if s.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if s.Level < 0 || s.Level > 9 {
		errs = append(errs, fmt.Errorf("level must be 0-9, got %d", s.Level))
	}
	if s.AttackRoll && s.Save != "" {
		errs = append(errs, errors.New("attack_roll and save are mutually exclusive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("spell %q: %w", s.ID, errors.Join(errs...))
	}
	return nil
}

// IsCantrip reports whether the spell is level 0.
func (s *SpellDef) IsCantrip() bool { return s.Level == 0 }

type spellFile struct {
	Level  int        `yaml:"level"`
	Spells []SpellDef `yaml:"spells"`
}

// LoadSpells reads every YAML file in dir. Each file holds the spells of one level.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all valid spells with Level set from their file, or the first error.
func LoadSpells(dir string) ([]*SpellDef, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	var spells []*SpellDef
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var f spellFile
		if err := decodeStrict(data, &f); err != nil {
			return nil, fmt.Errorf("parsing spell file %s: %w", path, err)
		}
		for i := range f.Spells {
			s := f.Spells[i]
			s.Level = f.Level
			if err := s.Validate(); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			spells = append(spells, &s)
		}
	}
	return spells, nil
}
