// Package abilities populates and resolves class features, and adds custom
// abilities and spells to a character.
package abilities

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

// DefaultAttackBonus is the fixed to-hit bonus for ability attacks.
const DefaultAttackBonus = 7

// DefaultIcon is used for custom abilities created without an icon.
const DefaultIcon = "⚔️"

// Service resolves ability operations.
type Service struct {
	rules       *ruleset.Ruleset
	roller      *dice.Roller
	sink        battlelog.Sink
	logger      *zap.Logger
	attackBonus int
}

// NewService wires a Service.
//
// Precondition: rules, roller, sink and logger are non-nil.
func NewService(rules *ruleset.Ruleset, roller *dice.Roller, sink battlelog.Sink, logger *zap.Logger, attackBonus int) *Service {
	return &Service{
		rules:       rules,
		roller:      roller,
		sink:        sink,
		logger:      logger.Named("abilities"),
		attackBonus: attackBonus,
	}
}

// UseResult is the outcome of using an ability.
type UseResult struct {
	battlelog.Outcome
	// Attack and Damage are set only for abilities with parseable damage.
	Attack *dice.CheckResult
	Damage *dice.RollResult
}

// Populate merges the class ability list into c.Abilities and grants
// Extra Attack from the class extra_attack_level on. Existing entries,
// custom ones included, are kept; ids are never duplicated.
//
// Postcondition: c.Abilities is unique by ID and non-empty.
func (s *Service) Populate(c *character.Character) (battlelog.Outcome, error) {
	class, ok := s.rules.Class(c.Class)
	if !ok {
		return battlelog.Outcome{}, errors.NotFoundf("class %q", c.Class)
	}
	merged := make([]ruleset.AbilityDef, 0, len(c.Abilities)+len(class.Abilities)+1)
	seen := make(map[string]bool, cap(merged))
	add := func(a ruleset.AbilityDef) {
		if seen[a.ID] {
			return
		}
		seen[a.ID] = true
		merged = append(merged, a)
	}
	for _, a := range c.Abilities {
		add(a)
	}
	for _, a := range class.Abilities {
		add(a)
	}
	if class.ExtraAttackLevel > 0 && c.Level >= class.ExtraAttackLevel {
		add(ruleset.ExtraAttack)
	}
	if len(merged) == 0 {
		add(ruleset.BasicAttack)
	}
	c.Abilities = merged
	s.logger.Debug("abilities populated",
		zap.String("character", c.ID),
		zap.String("class", class.ID),
		zap.Int("abilities", len(merged)),
	)
	return battlelog.Outcome{}, nil
}

// Use resolves abilityID. Damage abilities roll d20 plus the attack bonus and
// active temp modifiers, then their damage dice; a natural 20 is annotated but never doubles dice.
// Abilities without usable damage log their description instead.
//
// Postcondition: c is never mutated.
func (s *Service) Use(c *character.Character, abilityID string) (UseResult, error) {
	a, ok := c.Ability(abilityID)
	if !ok {
		return UseResult{}, errors.NotFoundf("ability %q is not on %s's sheet", abilityID, c.Name)
	}
	var res UseResult
	if a.HasDamage() {
		if _, err := dice.Parse(a.Damage); err != nil {
			s.logger.Warn("skipping malformed ability damage",
				zap.String("ability", a.ID), zap.String("damage", a.Damage), zap.Error(err))
		} else {
			check := s.roller.RollD20Check(s.attackBonus, c.TempModifiers.Total())
			roll, _ := s.roller.RollDice(a.Damage, 0)
			res.Attack, res.Damage = &check, &roll

			var b strings.Builder
			fmt.Fprintf(&b, "%s %s: Attack %d%s", a.Icon, a.Name, check.Total, check.TempNote())
			switch {
			case check.Critical:
				b.WriteString(" **CRITICAL HIT!**")
			case check.Fumble:
				b.WriteString(" (Critical Miss)")
			}
			fmt.Fprintf(&b, " | Damage: %d (%s) %s", roll.Total(), a.Damage, roll.DiceList())
			res.Lines = []string{b.String()}
		}
	}
	if len(res.Lines) == 0 {
		res.Addf("%s %s - %s", a.Icon, a.Name, a.Description)
	}
	res.Publish(s.sink)
	s.logger.Debug("ability used", zap.String("character", c.ID), zap.String("ability", a.ID))
	return res, nil
}

// AddCustomAbility appends a user-defined ability whose id is the slug of name.
// A non-empty damage must be valid dice notation.
//
// Postcondition: on error c is unchanged.
func (s *Service) AddCustomAbility(c *character.Character, name, icon, damage, description string) (battlelog.Outcome, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return battlelog.Outcome{}, errors.InvalidOperationf("ability name and description are required")
	}
	id := ruleset.Slug(name)
	if id == "" {
		return battlelog.Outcome{}, errors.InvalidOperationf("ability name %q has no usable characters", name)
	}
	if _, exists := c.Ability(id); exists {
		return battlelog.Outcome{}, errors.DuplicateIDf("%s already has an ability with id %q", c.Name, id).
			WithMeta("id", id)
	}
	damage = strings.TrimSpace(damage)
	if err := checkDamage(damage); err != nil {
		return battlelog.Outcome{}, err
	}
	if icon = strings.TrimSpace(icon); icon == "" {
		icon = DefaultIcon
	}
	c.Abilities = append(c.Abilities, ruleset.AbilityDef{
		ID:          id,
		Name:        name,
		Icon:        icon,
		Damage:      damage,
		Description: description,
	})

	var out battlelog.Outcome
	out.Addf("✨ %s created custom ability: %s!", c.Name, name)
	out.Publish(s.sink)
	return out, nil
}

// AddCustomSpell adds def to c.Spells at level. The id is the slug of
// def.Name and must be unique across every level. Prepared casters receive
// the spell prepared. A non-empty damage must be valid dice notation.
//
// Postcondition: on error c is unchanged.
func (s *Service) AddCustomSpell(c *character.Character, level int, def ruleset.SpellDef) (battlelog.Outcome, error) {
	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" {
		return battlelog.Outcome{}, errors.InvalidOperationf("spell name is required")
	}
	def.ID = ruleset.Slug(def.Name)
	if def.ID == "" {
		return battlelog.Outcome{}, errors.InvalidOperationf("spell name %q has no usable characters", def.Name)
	}
	def.Level = level
	if err := def.Validate(); err != nil {
		return battlelog.Outcome{}, errors.Wrap(err, errors.CodeInvalidOperation, "invalid custom spell")
	}
	def.Damage = strings.TrimSpace(def.Damage)
	if err := checkDamage(def.Damage); err != nil {
		return battlelog.Outcome{}, err
	}
	if c.Spells.Contains(def.ID) {
		return battlelog.Outcome{}, errors.DuplicateIDf("%s already knows a spell with id %q", c.Name, def.ID).
			WithMeta("id", def.ID)
	}
	if c.Spells == nil {
		c.Spells = character.Spellbook{}
	}
	c.Spells.Add(level, character.NewSpellInstance(def, c.CastingType))

	var out battlelog.Outcome
	if level == 0 {
		out.Addf("✨ %s created custom cantrip: %s!", c.Name, def.Name)
	} else {
		out.Addf("✨ %s created custom level %d spell: %s!", c.Name, level, def.Name)
	}
	out.Publish(s.sink)
	return out, nil
}

// checkDamage rejects damage that is set but not valid dice notation.
func checkDamage(notation string) error {
	if notation == "" {
		return nil
	}
	_, err := dice.Parse(notation)
	return err
}
