package ruleset

import (
	"fmt"
	"os"
)

// PactRow is one level of the warlock pact table: Slots slots, all of SlotLevel.
type PactRow struct {
	Slots     int `yaml:"slots"`
	SlotLevel int `yaml:"level"`
}

// Progression holds the spell slot tables keyed by character level.
type Progression struct {
	Full map[int][]int   `yaml:"full"`
	Half map[int][]int   `yaml:"half"`
	Pact map[int]PactRow `yaml:"pact"`
}

// Validate requires every table to cover levels 1..MaxLevel with spell levels 1..9.
func (p *Progression) Validate() error {
	for name, table := range map[string]map[int][]int{SlotTableFull: p.Full, SlotTableHalf: p.Half} {
		for lvl := 1; lvl <= MaxLevel; lvl++ {
			row, ok := table[lvl]
			if !ok {
				return fmt.Errorf("progression %s: missing level %d", name, lvl)
			}
			if len(row) > 9 {
				return fmt.Errorf("progression %s: level %d lists %d spell levels, max 9", name, lvl, len(row))
			}
		}
	}
	for lvl := 1; lvl <= MaxLevel; lvl++ {
		row, ok := p.Pact[lvl]
		if !ok {
			return fmt.Errorf("progression pact: missing level %d", lvl)
		}
		if row.SlotLevel < 1 || row.SlotLevel > 9 || row.Slots < 0 {
			return fmt.Errorf("progression pact: level %d has invalid row %+v", lvl, row)
		}
	}
	return nil
}

// Slots returns spell level -> slot count for the named table at character level.
// Levels with zero slots are omitted.
//
// Postcondition: every key is in 1..9 and every value is > 0.
func (p *Progression) Slots(table string, level int) map[int]int {
	out := make(map[int]int)
	switch table {
	case SlotTableFull, SlotTableHalf:
		src := p.Full
		if table == SlotTableHalf {
			src = p.Half
		}
		for i, n := range src[level] {
			if n > 0 {
				out[i+1] = n
			}
		}
	case SlotTablePact:
		if row, ok := p.Pact[level]; ok && row.Slots > 0 {
			out[row.SlotLevel] = row.Slots
		}
	}
	return out
}

// LoadProgression reads the slot tables from path.
func LoadProgression(path string) (*Progression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var p Progression
	if err := decodeStrict(data, &p); err != nil {
		return nil, fmt.Errorf("parsing progression %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
