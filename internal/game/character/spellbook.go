package character

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
)

// SpellInstance is a spell held in a spellbook. The set of variants is closed:
// KnownSpell and PreparedSpell.
type SpellInstance interface {
	Definition() ruleset.SpellDef
	sealed()
}

// KnownSpell is held by known casters and for every cantrip. It is always castable.
type KnownSpell struct {
	Spell ruleset.SpellDef
}

// Definition returns the spell definition.
func (k KnownSpell) Definition() ruleset.SpellDef { return k.Spell }
func (KnownSpell) sealed()                        {}

// PreparedSpell is a leveled spell held by a prepared caster.
type PreparedSpell struct {
	Spell    ruleset.SpellDef
	Prepared bool
}

// Definition returns the spell definition.
func (p PreparedSpell) Definition() ruleset.SpellDef { return p.Spell }
func (PreparedSpell) sealed()                        {}

// NewSpellInstance picks the variant for def under casting type ct.
// Prepared casters get PreparedSpell{Prepared: true} for leveled spells.
func NewSpellInstance(def ruleset.SpellDef, ct ruleset.CastingType) SpellInstance {
	if ct == ruleset.CastingPrepared && !def.IsCantrip() {
		return PreparedSpell{Spell: def, Prepared: true}
	}
	return KnownSpell{Spell: def}
}

// Spellbook maps spell level (0 = cantrip) to an ordered list of instances.
// Order within a level is display order.
type Spellbook map[int][]SpellInstance

// Levels returns the populated levels in ascending order.
func (b Spellbook) Levels() []int {
	out := make([]int, 0, len(b))
	for lvl, list := range b {
		if len(list) > 0 {
			out = append(out, lvl)
		}
	}
	sort.Ints(out)
	return out
}

// Find returns the first instance of id at level and its index.
func (b Spellbook) Find(level int, id string) (SpellInstance, int, bool) {
	for i, inst := range b[level] {
		if inst.Definition().ID == id {
			return inst, i, true
		}
	}
	return nil, -1, false
}

// Contains reports whether id appears at any level.
func (b Spellbook) Contains(id string) bool {
	for _, list := range b {
		for _, inst := range list {
			if inst.Definition().ID == id {
				return true
			}
		}
	}
	return false
}

// Count returns the number of instances across all levels.
func (b Spellbook) Count() int {
	n := 0
	for _, list := range b {
		n += len(list)
	}
	return n
}

// Add appends inst at level.
func (b Spellbook) Add(level int, inst SpellInstance) {
	b[level] = append(b[level], inst)
}

// RemoveAt deletes the instance at index i of level. Empty levels are dropped.
//
// Precondition: 0 <= i < len(b[level]).
func (b Spellbook) RemoveAt(level, i int) {
	list := b[level]
	next := make([]SpellInstance, 0, len(list)-1)
	next = append(next, list[:i]...)
	next = append(next, list[i+1:]...)
	if len(next) == 0 {
		delete(b, level)
		return
	}
	b[level] = next
}

// Clone returns an independent copy. Instances are values, so copying the slices suffices.
func (b Spellbook) Clone() Spellbook {
	if b == nil {
		return nil
	}
	out := make(Spellbook, len(b))
	for lvl, list := range b {
		out[lvl] = append([]SpellInstance(nil), list...)
	}
	return out
}

// spellRecord is the wire form of one instance. A present "prepared" key
// selects the PreparedSpell variant.
type spellRecord struct {
	ruleset.SpellDef
	Prepared *bool `json:"prepared,omitempty"`
}

// MarshalJSON encodes the book as {"<level>": [spell, ...]}.
func (b Spellbook) MarshalJSON() ([]byte, error) {
	out := make(map[int][]spellRecord, len(b))
	for lvl, list := range b {
		recs := make([]spellRecord, 0, len(list))
		for _, inst := range list {
			switch v := inst.(type) {
			case KnownSpell:
				recs = append(recs, spellRecord{SpellDef: v.Spell})
			case PreparedSpell:
				p := v.Prepared
				recs = append(recs, spellRecord{SpellDef: v.Spell, Prepared: &p})
			}
		}
		out[lvl] = recs
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON. Each record's level
// is taken from its map key.
func (b *Spellbook) UnmarshalJSON(data []byte) error {
	var in map[int][]spellRecord
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decoding spellbook: %w", err)
	}
	book := make(Spellbook, len(in))
	for lvl, recs := range in {
		if lvl < 0 || lvl > 9 {
			return fmt.Errorf("decoding spellbook: level %d out of range", lvl)
		}
		for _, r := range recs {
			def := r.SpellDef
			def.Level = lvl
			if r.Prepared != nil {
				book.Add(lvl, PreparedSpell{Spell: def, Prepared: *r.Prepared})
			} else {
				book.Add(lvl, KnownSpell{Spell: def})
			}
		}
	}
	*b = book
	return nil
}
