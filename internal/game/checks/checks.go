// Package checks resolves d20 rolls made from a character's sheet: saving
// throws, initiative and generic ability checks. Active temporary modifiers
// apply to every roll.
package checks

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/game/battlelog"
	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/dice"
)

// Service resolves checks. Checks never mutate the character.
type Service struct {
	roller *dice.Roller
	sink   battlelog.Sink
	logger *zap.Logger
}

// NewService wires a Service.
func NewService(roller *dice.Roller, sink battlelog.Sink, logger *zap.Logger) *Service {
	return &Service{roller: roller, sink: sink, logger: logger.Named("checks")}
}

// Result is one resolved check and the line it logged.
type Result struct {
	battlelog.Outcome
	dice.CheckResult
}

// SavingThrow rolls d20 + the ability modifier + temp modifiers.
// Proficiency is never added.
//
// Line: "🎲 {Ability} Save: T (d20: X ±M)[ [Temp: ±N]][ **CRITICAL SUCCESS!**| (Critical Failure)]".
func (s *Service) SavingThrow(c *character.Character, ability character.Ability) Result {
	check := s.roller.RollD20Check(c.Stats.Modifier(ability), c.TempModifiers.Total())
	var b strings.Builder
	fmt.Fprintf(&b, "🎲 %s Save: %d (d20: %d %+d)", ability.Title(), check.Total, check.Natural, check.Modifier)
	b.WriteString(check.TempNote())
	switch {
	case check.Critical:
		b.WriteString(" **CRITICAL SUCCESS!**")
	case check.Fumble:
		b.WriteString(" (Critical Failure)")
	}
	return s.finish(c, "saving throw", string(ability), check, b.String())
}

// Initiative rolls d20 + DEX modifier + temp modifiers.
//
// Line: "🎲 Initiative: T (d20: X ±M)[ [Temp: ±N]][ **CRITICAL!**| (Natural 1)]".
func (s *Service) Initiative(c *character.Character) Result {
	check := s.roller.RollD20Check(c.Stats.Modifier(character.Dexterity), c.TempModifiers.Total())
	var b strings.Builder
	fmt.Fprintf(&b, "🎲 Initiative: %d (d20: %d %+d)", check.Total, check.Natural, check.Modifier)
	b.WriteString(check.TempNote())
	switch {
	case check.Critical:
		b.WriteString(" **CRITICAL!**")
	case check.Fumble:
		b.WriteString(" (Natural 1)")
	}
	return s.finish(c, "initiative", string(character.Dexterity), check, b.String())
}

// Roll is a generic labelled d20 roll with an explicit modifier.
// The modifier shown is the combined modifier; temp modifiers are also
// called out separately.
//
// Line: "🎲 {label}: T (d20: X[ ±M+N])[ [Temp: ±N]]".
func (s *Service) Roll(c *character.Character, label string, modifier int) Result {
	check := s.roller.RollD20Check(modifier, c.TempModifiers.Total())
	var b strings.Builder
	fmt.Fprintf(&b, "🎲 %s: %d (d20: %d", label, check.Total, check.Natural)
	if combined := check.Modifier + check.Temp; combined != 0 {
		fmt.Fprintf(&b, " %+d", combined)
	}
	b.WriteString(")")
	b.WriteString(check.TempNote())
	return s.finish(c, "check", label, check, b.String())
}

func (s *Service) finish(c *character.Character, kind, label string, check dice.CheckResult, line string) Result {
	res := Result{CheckResult: check}
	res.Lines = []string{line}
	res.Publish(s.sink)
	s.logger.Debug("check rolled",
		zap.String("character", c.ID),
		zap.String("kind", kind),
		zap.String("label", label),
		zap.Int("natural", check.Natural),
		zap.Int("total", check.Total),
	)
	return res
}
