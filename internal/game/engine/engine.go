// Package engine is the single entry point for every character operation.
// It composes the spellcasting, abilities, rest and checks services over one
// roller and one battle log sink, and owns the operations that touch several
// parts of the sheet at once (creation, level up, hit points, items and
// temporary modifiers).
//
// Every method takes the character explicitly. A returned error implies the
// character was not modified.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/config"
	"github.com/cory-johannsen/spellbook/internal/game/abilities"
	"github.com/cory-johannsen/spellbook/internal/game/battlelog"
	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/checks"
	"github.com/cory-johannsen/spellbook/internal/game/dice"
	"github.com/cory-johannsen/spellbook/internal/game/inventory"
	"github.com/cory-johannsen/spellbook/internal/game/modifier"
	"github.com/cory-johannsen/spellbook/internal/game/rest"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
	"github.com/cory-johannsen/spellbook/internal/game/spellcasting"
)

// Settings are the fixed numbers the engine resolves with.
type Settings struct {
	AttackBonus      int
	SpellAttackBonus int
	SpellSaveDC      int
	DefaultHitDie    int
}

// DefaultSettings mirrors the legacy sheet.
var DefaultSettings = Settings{
	AttackBonus:      abilities.DefaultAttackBonus,
	SpellAttackBonus: spellcasting.DefaultSettings.SpellAttackBonus,
	SpellSaveDC:      spellcasting.DefaultSettings.SpellSaveDC,
	DefaultHitDie:    rest.DefaultHitDie,
}

// SettingsFromConfig copies the engine section of cfg.
func SettingsFromConfig(cfg config.EngineConfig) Settings {
	return Settings{
		AttackBonus:      cfg.AttackBonus,
		SpellAttackBonus: cfg.SpellAttackBonus,
		SpellSaveDC:      cfg.SpellSaveDC,
		DefaultHitDie:    cfg.DefaultHitDie,
	}
}

// SourceFromConfig selects the randomness backend named by cfg.DiceSource.
func SourceFromConfig(cfg config.EngineConfig) (dice.Source, error) {
	switch cfg.DiceSource {
	case "", "crypto":
		return dice.NewCryptoSource(), nil
	case "toolkit":
		return dice.NewToolkitSource(nil), nil
	default:
		return nil, fmt.Errorf("engine: unknown dice source %q", cfg.DiceSource)
	}
}

// Content bundles the static tables the engine reads.
type Content struct {
	Rules     *ruleset.Ruleset
	Items     *inventory.Registry
	Kits      *inventory.Kits
	Modifiers *modifier.Registry
}

// Engine resolves character operations.
type Engine struct {
	content   Content
	roller    *dice.Roller
	sink      battlelog.Sink
	logger    *zap.Logger
	builder   *character.Builder
	caster    *spellcasting.Caster
	abilities *abilities.Service
	rest      *rest.Service
	checks    *checks.Service
}

// New wires an Engine. A nil sink discards battle log lines.
//
// Precondition: every content table, src and logger are non-nil.
func New(content Content, src dice.Source, sink battlelog.Sink, logger *zap.Logger, settings Settings) *Engine {
	if sink == nil {
		sink = battlelog.Discard
	}
	roller := dice.NewLoggedRoller(src, logger.Named("dice"))
	return &Engine{
		content: content,
		roller:  roller,
		sink:    sink,
		logger:  logger.Named("engine"),
		builder: character.NewBuilder(content.Rules, content.Items, content.Kits),
		caster: spellcasting.NewCaster(content.Rules, roller, sink, logger, spellcasting.Settings{
			SpellAttackBonus: settings.SpellAttackBonus,
			SpellSaveDC:      settings.SpellSaveDC,
		}),
		abilities: abilities.NewService(content.Rules, roller, sink, logger, settings.AttackBonus),
		rest:      rest.NewService(content.Rules, roller, sink, logger, settings.DefaultHitDie),
		checks:    checks.NewService(roller, sink, logger),
	}
}

// Content returns the static tables.
func (e *Engine) Content() Content { return e.content }

// Create builds a new character and populates its spells and abilities.
func (e *Engine) Create(req character.Request) (*character.Character, battlelog.Outcome, error) {
	c, err := e.builder.Build(req)
	if err != nil {
		return nil, battlelog.Outcome{}, err
	}
	if _, err := e.caster.Populate(c); err != nil {
		return nil, battlelog.Outcome{}, err
	}
	if _, err := e.abilities.Populate(c); err != nil {
		return nil, battlelog.Outcome{}, err
	}
	var out battlelog.Outcome
	out.Addf("%s %s the level %d %s joined the party!", c.Icon, c.Name, c.Level, e.className(c))
	out.Publish(e.sink)
	e.logger.Info("character created", zap.String("character", c.ID), zap.String("class", c.Class), zap.Int("level", c.Level))
	return c, out, nil
}

func (e *Engine) className(c *character.Character) string {
	if class, ok := e.content.Rules.Class(c.Class); ok {
		return class.Name
	}
	return c.Class
}

// PopulateSpells rebuilds c's spellbook and slots from its class and level.
func (e *Engine) PopulateSpells(c *character.Character) (battlelog.Outcome, error) {
	return e.caster.Populate(c)
}

// PopulateAbilities merges c's class abilities into its sheet.
func (e *Engine) PopulateAbilities(c *character.Character) (battlelog.Outcome, error) {
	return e.abilities.Populate(c)
}

// CastSpell casts spellID from level, spending a slot for leveled spells.
func (e *Engine) CastSpell(c *character.Character, spellID string, level int) (spellcasting.CastResult, error) {
	return e.caster.Cast(c, spellID, level)
}

// DeleteSpell forgets spellID at level after confirmation through p.
func (e *Engine) DeleteSpell(c *character.Character, spellID string, level int, p battlelog.Prompter) (battlelog.Outcome, error) {
	return e.caster.Delete(c, spellID, level, p)
}

// SetPrepared toggles preparation of a leveled spell.
func (e *Engine) SetPrepared(c *character.Character, spellID string, level int, prepared bool) (battlelog.Outcome, error) {
	return e.caster.SetPrepared(c, spellID, level, prepared)
}

// LearnMoreSpells tops up c's spellbook from the expanded pool.
func (e *Engine) LearnMoreSpells(c *character.Character) (battlelog.Outcome, int, error) {
	return e.caster.LearnMore(c)
}

// UseAbility resolves abilityID.
func (e *Engine) UseAbility(c *character.Character, abilityID string) (abilities.UseResult, error) {
	return e.abilities.Use(c, abilityID)
}

// AddCustomAbility adds a user-defined ability.
func (e *Engine) AddCustomAbility(c *character.Character, name, icon, damage, description string) (battlelog.Outcome, error) {
	return e.abilities.AddCustomAbility(c, name, icon, damage, description)
}

// AddCustomSpell adds a user-defined spell at level.
func (e *Engine) AddCustomSpell(c *character.Character, level int, def ruleset.SpellDef) (battlelog.Outcome, error) {
	return e.abilities.AddCustomSpell(c, level, def)
}

// ShortRest spends one hit die and restores pact slots where the class allows.
func (e *Engine) ShortRest(c *character.Character) rest.ShortResult {
	return e.rest.Short(c)
}

// LongRest restores HP and slots and clears temporary modifiers.
func (e *Engine) LongRest(c *character.Character) rest.LongResult {
	return e.rest.Long(c)
}

// RollSavingThrow rolls a saving throw for ability.
func (e *Engine) RollSavingThrow(c *character.Character, ability character.Ability) checks.Result {
	return e.checks.SavingThrow(c, ability)
}

// RollInitiative rolls initiative.
func (e *Engine) RollInitiative(c *character.Character) checks.Result {
	return e.checks.Initiative(c)
}

// RollCheck rolls a labelled d20 check with modifier.
func (e *Engine) RollCheck(c *character.Character, label string, modifier int) checks.Result {
	return e.checks.Roll(c, label, modifier)
}
