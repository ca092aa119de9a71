package ruleset

import (
	"fmt"
	"os"
)

// SpellPool is the expanded per-level list used to top up a spellbook.
type SpellPool struct {
	// Cantrips is how many cantrips one top-up adds.
	Cantrips int `yaml:"cantrips"`
	// PerLevel caps how many spells one top-up adds per leveled spell level.
	PerLevel int              `yaml:"per_level"`
	Levels   map[int][]string `yaml:"levels"`
}

// LoadSpellPool reads the pool from path.
func LoadSpellPool(path string) (*SpellPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var p SpellPool
	if err := decodeStrict(data, &p); err != nil {
		return nil, fmt.Errorf("parsing spell pool %s: %w", path, err)
	}
	if p.Cantrips < 0 || p.PerLevel < 0 {
		return nil, fmt.Errorf("spell pool %s: counts must be >= 0", path)
	}
	return &p, nil
}
