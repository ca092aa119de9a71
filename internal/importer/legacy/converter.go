package legacy

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/inventory"
	"github.com/cory-johannsen/spellbook/internal/game/modifier"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
)

// Convert maps s onto a character. Fields that cannot be carried over are
// dropped or repaired and described in the returned warnings. rules supplies
// the class casting type when the sheet omits it; items resolves backpack
// entries and may be nil, in which case the backpack is dropped.
//
// Precondition: rules must be non-nil.
// Postcondition: on success the character passes Validate.
func Convert(s *Sheet, rules *ruleset.Ruleset, items *inventory.Registry) (*character.Character, []string, error) {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return nil, nil, fmt.Errorf("sheet %q: name must not be empty", s.ID)
	}
	id := legacyID(s.ID, name)
	if id == "" {
		return nil, nil, fmt.Errorf("sheet %q: cannot derive an id", name)
	}
	if s.Level < 1 || s.Level > ruleset.MaxLevel {
		return nil, nil, fmt.Errorf("sheet %q: level %d out of range 1-%d", id, s.Level, ruleset.MaxLevel)
	}

	var warnings []string
	warnf := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	c := &character.Character{
		ID:        id,
		Name:      name,
		Class:     strings.ToLower(strings.TrimSpace(s.Class)),
		Subclass:  ruleset.SubclassID(s.Subclass),
		Race:      s.Race,
		Alignment: s.Alignment,
		Level:     s.Level,
		AC:        s.AC,
		Icon:      firstNonEmpty(s.Icon, s.Portrait),
	}

	class, known := rules.Class(c.Class)
	if !known {
		warnf("unknown class %q", s.Class)
	}
	c.CastingType = ruleset.CastingType(s.CastingType)
	if !c.CastingType.Valid() {
		if known {
			c.CastingType = class.CastingType
		} else {
			c.CastingType = ruleset.CastingNone
		}
		if s.CastingType != "" {
			warnf("casting type %q replaced with %q", s.CastingType, c.CastingType)
		}
	}
	if c.Icon == "" && known {
		c.Icon = class.Icon
	}

	c.Stats = character.Stats{Str: s.Stats.Str, Dex: s.Stats.Dex, Con: s.Stats.Con, Int: s.Stats.Int, Wis: s.Stats.Wis, Cha: s.Stats.Cha}
	if !c.Stats.Valid() {
		warnf("ability scores %+v replaced with the standard array", s.Stats)
		c.Stats = character.StandardArray
	}
	if c.AC <= 0 {
		c.AC = 10 + c.Stats.Modifier(character.Dexterity)
	}

	c.HP = convertHP(s.HP, c.Level, warnf)
	c.Spells = convertSpells(s.Spells, c.CastingType, warnf)
	c.SpellSlots = convertSlots(s.SpellSlots, warnf)
	c.Abilities = convertAbilities(s.Abilities, warnf)
	c.Inventory = convertInventory(s.Inventory, items, warnf)
	for _, m := range s.TempModifiers {
		if m.Value == 0 || strings.TrimSpace(m.Description) == "" {
			warnf("dropped empty temp modifier")
			continue
		}
		c.TempModifiers.Add(modifier.TempModifier{Value: m.Value, Description: m.Description})
	}

	if err := c.Validate(); err != nil {
		return nil, warnings, err
	}
	return c, warnings, nil
}

func convertHP(hp Resource, level int, warnf func(string, ...any)) character.HP {
	out := character.HP{Current: hp.Current, Max: hp.Max}
	if out.Max <= 0 {
		out.Max = character.MaxHPFor(level)
		out.Current = out.Max
		warnf("missing max hp; using %d", out.Max)
		return out
	}
	if out.Current < 0 || out.Current > out.Max {
		clamped := min(max(out.Current, 0), out.Max)
		warnf("hp %d/%d clamped to %d", out.Current, out.Max, clamped)
		out.Current = clamped
	}
	return out
}

// parseLevel accepts "0".."9" and the older "cantrips" key.
func parseLevel(key string) (int, bool) {
	if strings.EqualFold(key, "cantrips") {
		return 0, true
	}
	lvl, err := strconv.Atoi(key)
	if err != nil || lvl < 0 || lvl > 9 {
		return 0, false
	}
	return lvl, true
}

func convertSpells(in map[string][]Spell, ct ruleset.CastingType, warnf func(string, ...any)) character.Spellbook {
	book := make(character.Spellbook)
	for key, list := range in {
		lvl, ok := parseLevel(key)
		if !ok {
			warnf("dropped spells under level key %q", key)
			continue
		}
		for _, sp := range list {
			def := ruleset.SpellDef{
				ID:            legacyID(sp.ID, sp.Name),
				Name:          strings.TrimSpace(sp.Name),
				Icon:          sp.Icon,
				Level:         lvl,
				Description:   sp.Description,
				School:        sp.School,
				CastingTime:   sp.CastingTime,
				Range:         sp.Range,
				Components:    sp.Components,
				Duration:      sp.Duration,
				Concentration: sp.Concentration,
				AttackRoll:    sp.AttackRoll,
				Save:          strings.ToLower(sp.Save),
			}
			if sp.Damage != nil {
				def.Damage = *sp.Damage
			}
			if def.Name == "" {
				def.Name = sp.ID
			}
			if err := def.Validate(); err != nil {
				warnf("dropped spell %q: %v", sp.Name, err)
				continue
			}
			if book.Contains(def.ID) {
				warnf("dropped duplicate spell %q", def.ID)
				continue
			}
			inst := character.NewSpellInstance(def, ct)
			if p, ok := inst.(character.PreparedSpell); ok && sp.Prepared != nil {
				p.Prepared = *sp.Prepared
				inst = p
			}
			book.Add(lvl, inst)
		}
	}
	return book
}

func convertSlots(in map[string]Resource, warnf func(string, ...any)) character.SpellSlots {
	slots := make(character.SpellSlots, len(in))
	for key, r := range in {
		lvl, err := strconv.Atoi(key)
		if err != nil || lvl < 1 || lvl > 9 {
			warnf("dropped spell slots under key %q", key)
			continue
		}
		if r.Max <= 0 {
			continue
		}
		cur := min(max(r.Current, 0), r.Max)
		if cur != r.Current {
			warnf("level %d slots %d/%d clamped to %d", lvl, r.Current, r.Max, cur)
		}
		slots[lvl] = character.Slot{Current: cur, Max: r.Max}
	}
	return slots
}

func convertAbilities(in []Ability, warnf func(string, ...any)) []ruleset.AbilityDef {
	out := make([]ruleset.AbilityDef, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		def := ruleset.AbilityDef{
			ID:          legacyID(a.ID, a.Name),
			Name:        strings.TrimSpace(a.Name),
			Icon:        a.Icon,
			Description: a.Description,
		}
		if a.Damage != nil {
			def.Damage = *a.Damage
		}
		if err := def.Validate(); err != nil {
			warnf("dropped ability %q: %v", a.Name, err)
			continue
		}
		if seen[def.ID] {
			warnf("dropped duplicate ability %q", def.ID)
			continue
		}
		seen[def.ID] = true
		out = append(out, def)
	}
	return out
}

func convertInventory(in []Item, items *inventory.Registry, warnf func(string, ...any)) inventory.Backpack {
	var pack inventory.Backpack
	if items == nil {
		if len(in) > 0 {
			warnf("dropped %d backpack item(s): no item registry", len(in))
		}
		return pack
	}
	byName := make(map[string]*inventory.ItemDef)
	for _, d := range items.All() {
		byName[strings.ToLower(d.Name)] = d
	}
	for _, it := range in {
		def, ok := items.Item(legacyID(it.ID, ""))
		if !ok {
			def, ok = byName[strings.ToLower(strings.TrimSpace(it.Name))]
		}
		if !ok {
			warnf("dropped unknown item %q", firstNonEmpty(it.Name, it.ID))
			continue
		}
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		if _, err := pack.Add(def, qty, it.Equipped); err != nil {
			warnf("dropped item %q: %v", def.ID, err)
		}
	}
	return pack
}

// legacyID slugs id, or name when id is blank. The browser sheet used
// kebab-case ids, so hyphens become underscores.
func legacyID(id, name string) string {
	return ruleset.Slug(strings.ReplaceAll(firstNonEmpty(id, name), "-", "_"))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
