// Package spellcasting populates spellbooks and resolves casting, forgetting,
// preparing and learning spells.
package spellcasting

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/errors"
	"github.com/cory-johannsen/spellbook/internal/game/battlelog"
	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/dice"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
)

// Settings are the fixed bonuses used when resolving spells.
type Settings struct {
	SpellAttackBonus int
	SpellSaveDC      int
}

// DefaultSettings matches the legacy sheet: +7 to hit, DC 15.
var DefaultSettings = Settings{SpellAttackBonus: 7, SpellSaveDC: 15}

// Caster resolves spellcasting operations against a character.
type Caster struct {
	rules    *ruleset.Ruleset
	roller   *dice.Roller
	sink     battlelog.Sink
	logger   *zap.Logger
	settings Settings
}

// NewCaster wires a Caster.
//
// Precondition: every argument is non-nil.
func NewCaster(rules *ruleset.Ruleset, roller *dice.Roller, sink battlelog.Sink, logger *zap.Logger, settings Settings) *Caster {
	return &Caster{
		rules:    rules,
		roller:   roller,
		sink:     sink,
		logger:   logger.Named("spellcasting"),
		settings: settings,
	}
}

// CastResult is the outcome of a cast.
type CastResult struct {
	battlelog.Outcome
	// Attack is set when the spell rolls to hit.
	Attack *dice.CheckResult
	// Damage is set when the spell has parseable damage.
	Damage *dice.RollResult
	// SlotsLeft is the remaining slot count at the cast level; -1 for cantrips.
	SlotsLeft int
}

// Populate replaces c's spellbook and slots from its class, level and subclass.
// Non-casters are cleared. Manual additions are discarded.
//
// Precondition: c.Level is within 1..20.
// Postcondition: c.CastingType matches the class; every slot is full.
func (s *Caster) Populate(c *character.Character) (battlelog.Outcome, error) {
	class, ok := s.rules.Class(c.Class)
	if !ok {
		return battlelog.Outcome{}, errors.NotFoundf("class %q", c.Class)
	}
	if !class.IsCaster() {
		c.CastingType = ruleset.CastingNone
		c.Spells = character.Spellbook{}
		c.SpellSlots = character.SpellSlots{}
		return battlelog.Outcome{}, nil
	}

	ct := class.CastingType
	cantrips, levels := s.rules.SpellSource(class, c.Subclass)
	book := character.Spellbook{}

	n := min(class.CantripsAt(c.Level), len(cantrips))
	for _, id := range cantrips[:n] {
		s.addByID(book, id, 0, ct)
	}
	per := class.SpellsPerSpellLevel(c.Level)
	for lvl := 1; lvl <= class.MaxSpellLevel(c.Level); lvl++ {
		ids := levels[lvl]
		for _, id := range ids[:min(per, len(ids))] {
			s.addByID(book, id, lvl, ct)
		}
	}

	c.CastingType = ct
	c.Spells = book
	c.SpellSlots = character.NewSpellSlots(s.rules.SlotsFor(class.ID, c.Level))
	s.logger.Debug("spells populated",
		zap.String("character", c.ID),
		zap.String("class", class.ID),
		zap.String("subclass", string(c.Subclass)),
		zap.Int("spells", book.Count()),
	)
	return battlelog.Outcome{}, nil
}

// addByID adds the spell with id at level, skipping ids with no definition.
func (s *Caster) addByID(book character.Spellbook, id string, level int, ct ruleset.CastingType) {
	def, ok := s.rules.Spell(id)
	if !ok {
		s.logger.Debug("skipping unknown spell id", zap.String("spell", id))
		return
	}
	d := *def
	d.Level = level
	book.Add(level, character.NewSpellInstance(d, ct))
}

// Cast casts spellID from level. Leveled casts spend one slot. Spell attacks
// add active temp modifiers.
//
// Precondition: c is non-nil.
// Postcondition: on error c is unchanged; on success exactly one slot at level
// was spent (none for cantrips) and one line was logged.
func (s *Caster) Cast(c *character.Character, spellID string, level int) (CastResult, error) {
	inst, _, ok := c.Spells.Find(level, spellID)
	if !ok {
		return CastResult{}, errors.NotFoundf("spell %q is not in %s's level %d spells", spellID, c.Name, level)
	}
	res := CastResult{SlotsLeft: -1}
	if level > 0 {
		slot, ok := c.SpellSlots[level]
		if !ok || slot.Current <= 0 {
			return CastResult{}, errors.InsufficientResourcef("no level %d spell slots available", level).
				WithMeta("level", level)
		}
		if p, isPrepared := inst.(character.PreparedSpell); isPrepared && !p.Prepared {
			return CastResult{}, errors.NotPreparedf("%s is not prepared", p.Spell.Name)
		}
		slot.Current--
		c.SpellSlots[level] = slot
		res.SlotsLeft = slot.Current
	}

	def := inst.Definition()
	icon := def.Icon
	if icon == "" {
		icon = "✨"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s ✨ %s", icon, def.Name)
	if def.AttackRoll {
		check := s.roller.RollD20Check(s.settings.SpellAttackBonus, c.TempModifiers.Total())
		res.Attack = &check
		fmt.Fprintf(&b, " | Attack: %d (d20: %d+%d)%s", check.Total, check.Natural, s.settings.SpellAttackBonus, check.TempNote())
		switch {
		case check.Critical:
			b.WriteString(" **CRITICAL HIT!**")
		case check.Fumble:
			b.WriteString(" (Critical Miss)")
		}
	}
	if def.Save != "" {
		fmt.Fprintf(&b, " | %s DC %d", def.Save, s.settings.SpellSaveDC)
	}
	if def.Damage != "" {
		if roll, err := s.roller.RollDice(def.Damage, 0); err != nil {
			s.logger.Warn("skipping malformed spell damage",
				zap.String("spell", def.ID), zap.String("damage", def.Damage), zap.Error(err))
		} else {
			res.Damage = &roll
			fmt.Fprintf(&b, " | Damage: %d (%s) %s", roll.Total(), def.Damage, roll.DiceList())
		}
	}
	if level > 0 {
		fmt.Fprintf(&b, " | %d slot%s of level %d left", res.SlotsLeft, battlelog.Plural(res.SlotsLeft), level)
	}
	res.Lines = []string{b.String()}
	res.Publish(s.sink)
	s.logger.Debug("spell cast", zap.String("character", c.ID), zap.String("spell", def.ID), zap.Int("level", level))
	return res, nil
}

// Delete removes one instance of spellID at level after confirmation.
// Only known casters may forget spells.
//
// Postcondition: on error c is unchanged.
func (s *Caster) Delete(c *character.Character, spellID string, level int, prompter battlelog.Prompter) (battlelog.Outcome, error) {
	if c.CastingType != ruleset.CastingKnown {
		return battlelog.Outcome{}, errors.InvalidOperationf("%s prepares spells and cannot forget them", c.Name)
	}
	inst, idx, ok := c.Spells.Find(level, spellID)
	if !ok {
		return battlelog.Outcome{}, errors.NotFoundf("spell %q is not in %s's level %d spells", spellID, c.Name, level)
	}
	name := inst.Definition().Name
	if !prompter.Confirm(fmt.Sprintf("Remove %s from %s's spellbook?", name, c.Name)) {
		return battlelog.Outcome{}, errors.Cancelledf("kept %s", name)
	}
	c.Spells.RemoveAt(level, idx)

	var out battlelog.Outcome
	out.Addf("📖 %s forgot %s", c.Name, name)
	out.Publish(s.sink)
	return out, nil
}

// SetPrepared toggles preparation of a leveled spell for a prepared caster.
//
// Postcondition: on error c is unchanged.
func (s *Caster) SetPrepared(c *character.Character, spellID string, level int, prepared bool) (battlelog.Outcome, error) {
	if c.CastingType != ruleset.CastingPrepared {
		return battlelog.Outcome{}, errors.InvalidOperationf("%s does not prepare spells", c.Name)
	}
	if level == 0 {
		return battlelog.Outcome{}, errors.InvalidOperationf("cantrips are always prepared")
	}
	inst, idx, ok := c.Spells.Find(level, spellID)
	if !ok {
		return battlelog.Outcome{}, errors.NotFoundf("spell %q is not in %s's level %d spells", spellID, c.Name, level)
	}
	p, isPrepared := inst.(character.PreparedSpell)
	if !isPrepared {
		return battlelog.Outcome{}, errors.InvalidOperationf("%s cannot be prepared", inst.Definition().Name)
	}
	p.Prepared = prepared
	c.Spells[level][idx] = p

	var out battlelog.Outcome
	if prepared {
		out.Addf("📘 %s prepared %s", c.Name, p.Spell.Name)
	} else {
		out.Addf("📕 %s unprepared %s", c.Name, p.Spell.Name)
	}
	out.Publish(s.sink)
	return out, nil
}

// LearnMore tops up every accessible level from the expanded spell pool:
// Pool().Cantrips cantrips for full casters and up to Pool().PerLevel spells
// per leveled spell level. Spells already in the book are skipped.
//
// Postcondition: on error c is unchanged; the returned count may be zero.
func (s *Caster) LearnMore(c *character.Character) (battlelog.Outcome, int, error) {
	class, ok := s.rules.Class(c.Class)
	if !ok {
		return battlelog.Outcome{}, 0, errors.NotFoundf("class %q", c.Class)
	}
	if !class.IsCaster() {
		return battlelog.Outcome{}, 0, errors.InvalidOperationf("%s is not a spellcaster", c.Name)
	}
	if c.Spells == nil {
		c.Spells = character.Spellbook{}
	}
	pool := s.rules.Pool()
	added := 0
	for lvl := 0; lvl <= class.MaxSpellLevel(c.Level); lvl++ {
		want := pool.PerLevel
		if lvl == 0 {
			if class.Caster != ruleset.CasterFull {
				continue
			}
			want = pool.Cantrips
		}
		for _, id := range pool.Levels[lvl] {
			if want == 0 {
				break
			}
			if c.Spells.Contains(id) {
				continue
			}
			def, ok := s.rules.Spell(id)
			if !ok {
				continue
			}
			d := *def
			d.Level = lvl
			c.Spells.Add(lvl, character.NewSpellInstance(d, c.CastingType))
			want--
			added++
		}
	}

	var out battlelog.Outcome
	if added > 0 {
		out.Addf("📚 %s learned %d new spell%s!", c.Name, added, battlelog.Plural(added))
		out.Publish(s.sink)
	}
	return out, added, nil
}
