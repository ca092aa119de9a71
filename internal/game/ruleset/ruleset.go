package ruleset

import (
	"fmt"
	"sort"
)

// Ruleset indexes every static table by id. It is immutable once loaded.
type Ruleset struct {
	classes     map[string]*ClassDef
	spells      map[string]*SpellDef
	subclasses  map[SubclassID]*SubclassDef
	progression *Progression
	pool        *SpellPool
}

// New returns an empty Ruleset with an empty progression and pool.
//
// Postcondition: all internal maps are initialised.
func New() *Ruleset {
	return &Ruleset{
		classes:     make(map[string]*ClassDef),
		spells:      make(map[string]*SpellDef),
		subclasses:  make(map[SubclassID]*SubclassDef),
		progression: &Progression{},
		pool:        &SpellPool{},
	}
}

// RegisterClass adds c.
//
// Postcondition: Class(c.ID) returns c; returns error if c.ID is already registered.
func (r *Ruleset) RegisterClass(c *ClassDef) error {
	if _, exists := r.classes[c.ID]; exists {
		return fmt.Errorf("ruleset: class %q already registered", c.ID)
	}
	r.classes[c.ID] = c
	return nil
}

// RegisterSpell adds s.
//
// Postcondition: Spell(s.ID) returns s; returns error if s.ID is already registered.
func (r *Ruleset) RegisterSpell(s *SpellDef) error {
	if _, exists := r.spells[s.ID]; exists {
		return fmt.Errorf("ruleset: spell %q already registered", s.ID)
	}
	r.spells[s.ID] = s
	return nil
}

// RegisterSubclass adds s. Its class must already be registered.
func (r *Ruleset) RegisterSubclass(s *SubclassDef) error {
	if _, exists := r.subclasses[s.ID]; exists {
		return fmt.Errorf("ruleset: subclass %q already registered", s.ID)
	}
	if _, ok := r.classes[s.Class]; !ok {
		return fmt.Errorf("ruleset: subclass %q references unknown class %q", s.ID, s.Class)
	}
	r.subclasses[s.ID] = s
	return nil
}

// SetProgression replaces the slot tables.
func (r *Ruleset) SetProgression(p *Progression) { r.progression = p }

// SetPool replaces the expanded spell pool.
func (r *Ruleset) SetPool(p *SpellPool) { r.pool = p }

// Class returns the class for id and whether it was found.
func (r *Ruleset) Class(id string) (*ClassDef, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// Spell returns the spell for id and whether it was found.
func (r *Ruleset) Spell(id string) (*SpellDef, bool) {
	s, ok := r.spells[id]
	return s, ok
}

// Subclass returns the theme for id and whether it was found.
func (r *Ruleset) Subclass(id SubclassID) (*SubclassDef, bool) {
	s, ok := r.subclasses[id]
	return s, ok
}

// Classes returns all classes sorted by id.
func (r *Ruleset) Classes() []*ClassDef {
	out := make([]*ClassDef, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Spells returns all spells sorted by level then id.
func (r *Ruleset) Spells() []*SpellDef {
	out := make([]*SpellDef, 0, len(r.spells))
	for _, s := range r.spells {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SlotsFor returns spell level -> max slots for class at character level.
// Non-casters and unknown classes get an empty map.
func (r *Ruleset) SlotsFor(classID string, level int) map[int]int {
	c, ok := r.classes[classID]
	if !ok || !c.IsCaster() {
		return map[int]int{}
	}
	return r.progression.Slots(c.SlotTable, level)
}

// SpellSource returns the cantrip and per-level id lists used to populate
// a spellbook: the subclass theme when registered, else the class fallback.
func (r *Ruleset) SpellSource(c *ClassDef, sub SubclassID) (cantrips []string, levels map[int][]string) {
	if theme, ok := r.subclasses[sub]; ok {
		return theme.Cantrips, theme.Levels
	}
	return c.Fallback.Cantrips, c.Fallback.Levels
}

// Pool returns the expanded spell pool.
func (r *Ruleset) Pool() *SpellPool { return r.pool }
