// Package rest resolves short and long rests.
package rest

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/game/battlelog"
	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/dice"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
)

// DefaultHitDie is rolled when a character's class is unknown.
const DefaultHitDie = 8

// Service resolves rests. Rests never fail.
type Service struct {
	rules  *ruleset.Ruleset
	roller *dice.Roller
	sink   battlelog.Sink
	logger *zap.Logger
	hitDie int
}

// NewService wires a Service. A non-positive defaultHitDie selects DefaultHitDie.
func NewService(rules *ruleset.Ruleset, roller *dice.Roller, sink battlelog.Sink, logger *zap.Logger, defaultHitDie int) *Service {
	if defaultHitDie <= 0 {
		defaultHitDie = DefaultHitDie
	}
	return &Service{
		rules:  rules,
		roller: roller,
		sink:   sink,
		logger: logger.Named("rest"),
		hitDie: defaultHitDie,
	}
}

// ShortResult is the outcome of a short rest.
type ShortResult struct {
	battlelog.Outcome
	Healed        int
	SlotsRestored bool
}

// Short rolls one hit die plus the CON modifier and heals that much, floored
// at zero and capped at missing HP. Classes with short_rest_slots also
// regain every spell slot.
//
// Postcondition: 0 <= c.HP.Current <= c.HP.Max.
func (s *Service) Short(c *character.Character) ShortResult {
	die := s.hitDie
	class, known := s.rules.Class(c.Class)
	if known && class.HitDie > 0 {
		die = class.HitDie
	}
	roll := s.roller.RollDie(die) + c.Stats.Modifier(character.Constitution)

	var res ShortResult
	res.Healed = c.HP.Heal(max(0, roll))
	res.Addf("☀️ %s took a short rest and regained %d HP!", c.Name, res.Healed)
	if known && class.ShortRestSlots && len(c.SpellSlots) > 0 {
		c.SpellSlots.RestoreAll()
		res.SlotsRestored = true
		res.Addf("💫 %s regained all spell slots!", c.Name)
	}
	res.Publish(s.sink)
	s.logger.Debug("short rest",
		zap.String("character", c.ID),
		zap.Int("hit_die", die),
		zap.Int("healed", res.Healed),
		zap.Bool("slots_restored", res.SlotsRestored),
	)
	return res
}

// LongResult is the outcome of a long rest.
type LongResult struct {
	battlelog.Outcome
	Healed           int
	SlotsRestored    int
	ModifiersCleared int
}

// Long restores full HP and every slot and clears temporary modifiers.
// Repeating it changes nothing further and reports zero deltas.
//
// Postcondition: c.HP.Current == c.HP.Max; every slot is full; no temp modifiers.
func (s *Service) Long(c *character.Character) LongResult {
	var res LongResult
	res.Healed = c.HP.Heal(c.HP.Missing())
	res.SlotsRestored = c.SpellSlots.RestoreAll()
	res.ModifiersCleared = len(c.TempModifiers)
	c.TempModifiers.Clear()

	res.Addf("🌙 %s took a long rest!", c.Name)
	res.Addf("❤️ Fully healed (+%d HP)! HP: %d/%d", res.Healed, c.HP.Current, c.HP.Max)
	res.Addf("✨ %d spell slot%s restored!", res.SlotsRestored, battlelog.Plural(res.SlotsRestored))
	res.Addf("🧹 %d temporary effect%s cleared!", res.ModifiersCleared, battlelog.Plural(res.ModifiersCleared))
	res.Publish(s.sink)
	s.logger.Debug("long rest",
		zap.String("character", c.ID),
		zap.Int("healed", res.Healed),
		zap.Int("slots_restored", res.SlotsRestored),
		zap.Int("modifiers_cleared", res.ModifiersCleared),
	)
	return res
}
