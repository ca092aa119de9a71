package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/errors"
	"github.com/cory-johannsen/spellbook/internal/game/battlelog"
	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/inventory"
	"github.com/cory-johannsen/spellbook/internal/game/modifier"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
)

// EditHP asks p for a new current HP value. The answer is capped at max.
//
// Postcondition: on error c is unchanged.
func (e *Engine) EditHP(c *character.Character, p battlelog.Prompter) (battlelog.Outcome, error) {
	v, ok := p.Number(fmt.Sprintf("Edit Current HP (max: %d):", c.HP.Max), c.HP.Current)
	if !ok {
		return battlelog.Outcome{}, errors.Cancelledf("hp edit cancelled")
	}
	if v < 0 {
		return battlelog.Outcome{}, errors.InvalidOperationf("hp must not be negative, got %d", v)
	}
	c.HP.Set(v)

	var out battlelog.Outcome
	out.Addf("%s's HP updated to %d/%d", c.Name, c.HP.Current, c.HP.Max)
	out.Publish(e.sink)
	return out, nil
}

// ApplyDamage removes up to n HP.
func (e *Engine) ApplyDamage(c *character.Character, n int) (battlelog.Outcome, error) {
	if n < 0 {
		return battlelog.Outcome{}, errors.InvalidOperationf("damage must not be negative, got %d", n)
	}
	taken := c.HP.Damage(n)

	var out battlelog.Outcome
	out.Addf("💥 %s took %d damage! HP: %d/%d", c.Name, taken, c.HP.Current, c.HP.Max)
	if c.HP.Current == 0 {
		out.Addf("💀 %s is down!", c.Name)
	}
	out.Publish(e.sink)
	return out, nil
}

// Heal restores up to n HP.
func (e *Engine) Heal(c *character.Character, n int) (battlelog.Outcome, error) {
	if n < 0 {
		return battlelog.Outcome{}, errors.InvalidOperationf("healing must not be negative, got %d", n)
	}
	healed := c.HP.Heal(n)

	var out battlelog.Outcome
	out.Addf("💚 %s healed %d HP! HP: %d/%d", c.Name, healed, c.HP.Current, c.HP.Max)
	out.Publish(e.sink)
	return out, nil
}

// LevelUp moves c to level and repopulates spells and abilities. Max HP
// follows the builder formula; current HP rises by the same amount.
//
// Postcondition: on error c is unchanged.
func (e *Engine) LevelUp(c *character.Character, level int) (battlelog.Outcome, error) {
	if level < 1 || level > ruleset.MaxLevel {
		return battlelog.Outcome{}, errors.InvalidOperationf("level must be 1-%d, got %d", ruleset.MaxLevel, level)
	}
	if level == c.Level {
		return battlelog.Outcome{}, errors.InvalidOperationf("%s is already level %d", c.Name, level)
	}
	next := c.Clone()
	previous := next.Level
	next.Level = level
	maxHP := character.MaxHPFor(level)
	next.HP.Current += maxHP - next.HP.Max
	next.HP.Max = maxHP
	next.HP.Set(next.HP.Current)
	if _, err := e.caster.Populate(next); err != nil {
		return battlelog.Outcome{}, err
	}
	if _, err := e.abilities.Populate(next); err != nil {
		return battlelog.Outcome{}, err
	}
	*c = *next

	var out battlelog.Outcome
	out.Addf("⬆️ %s advanced from level %d to level %d! HP: %d/%d", c.Name, previous, level, c.HP.Current, c.HP.Max)
	out.Publish(e.sink)
	e.logger.Info("level changed",
		zap.String("character", c.ID),
		zap.Int("from", previous),
		zap.Int("to", level),
	)
	return out, nil
}

// AddTempModifier applies the named preset.
func (e *Engine) AddTempModifier(c *character.Character, presetID string) (battlelog.Outcome, error) {
	p, ok := e.content.Modifiers.Get(presetID)
	if !ok {
		return battlelog.Outcome{}, errors.NotFoundf("modifier preset %q", presetID)
	}
	return e.addModifier(c, p.Modifier()), nil
}

// AddCustomTempModifier applies an ad hoc modifier.
func (e *Engine) AddCustomTempModifier(c *character.Character, value int, description string) (battlelog.Outcome, error) {
	if description == "" {
		return battlelog.Outcome{}, errors.InvalidOperationf("modifier description is required")
	}
	if value == 0 {
		return battlelog.Outcome{}, errors.InvalidOperationf("modifier value must not be zero")
	}
	return e.addModifier(c, modifier.TempModifier{Value: value, Description: description}), nil
}

func (e *Engine) addModifier(c *character.Character, m modifier.TempModifier) battlelog.Outcome {
	c.TempModifiers.Add(m)
	var out battlelog.Outcome
	out.Addf("🎯 %s: %s (%+d). Total temp: %+d", c.Name, m.Description, m.Value, c.TempModifiers.Total())
	out.Publish(e.sink)
	return out
}

// RemoveTempModifier removes the modifier at index i.
func (e *Engine) RemoveTempModifier(c *character.Character, i int) (battlelog.Outcome, error) {
	m, err := c.TempModifiers.Remove(i)
	if err != nil {
		return battlelog.Outcome{}, errors.NotFoundf("%s has no temporary modifier #%d", c.Name, i)
	}
	var out battlelog.Outcome
	out.Addf("🧹 %s is no longer affected by %s", c.Name, m.Description)
	out.Publish(e.sink)
	return out, nil
}

// ClearTempModifiers removes every temporary modifier.
func (e *Engine) ClearTempModifiers(c *character.Character) battlelog.Outcome {
	c.TempModifiers.Clear()
	var out battlelog.Outcome
	out.Addf("🧹 Temporary effects cleared!")
	out.Publish(e.sink)
	return out
}

// AutoAddItems grants the class, common and high-level items c does not
// already carry and returns how many were added.
func (e *Engine) AutoAddItems(c *character.Character) (battlelog.Outcome, int, error) {
	grants := e.content.Kits.AutoAdd(c.Class, c.Level)
	added, err := inventory.Instantiate(&c.Inventory, e.content.Items, grants)
	if err != nil {
		return battlelog.Outcome{}, 0, errors.Wrap(err, errors.CodeInternal, "auto-adding items")
	}
	var out battlelog.Outcome
	if added > 0 {
		out.Addf("🎒 %s acquired %d new item%s!", c.Name, added, battlelog.Plural(added))
		out.Publish(e.sink)
	}
	return out, added, nil
}

// UseItem consumes one unit of a consumable and applies its healing.
//
// Postcondition: on error c is unchanged.
func (e *Engine) UseItem(c *character.Character, itemID string) (battlelog.Outcome, error) {
	if !c.Inventory.Has(itemID) {
		return battlelog.Outcome{}, errors.NotFoundf("%s carries no %q", c.Name, itemID)
	}
	def, ok := e.content.Items.Item(itemID)
	if !ok {
		return battlelog.Outcome{}, errors.NotFoundf("item %q", itemID)
	}
	if def.Kind != inventory.KindConsumable {
		return battlelog.Outcome{}, errors.InvalidOperationf("%s cannot be used", def.Name)
	}
	var heal int
	if def.Heal != "" {
		roll, err := e.roller.RollDice(def.Heal, 0)
		if err != nil {
			return battlelog.Outcome{}, errors.Wrap(err, errors.CodeParseError, "item heal")
		}
		heal = roll.Total()
	}
	if err := c.Inventory.Consume(itemID, 1); err != nil {
		return battlelog.Outcome{}, errors.Wrap(err, errors.CodeInternal, "consuming item")
	}
	healed := c.HP.Heal(heal)

	var out battlelog.Outcome
	if def.Heal != "" {
		out.Addf("%s %s used %s and regained %d HP! HP: %d/%d", def.Icon, c.Name, def.Name, healed, c.HP.Current, c.HP.Max)
	} else {
		out.Addf("%s %s used %s", def.Icon, c.Name, def.Name)
	}
	out.Publish(e.sink)
	return out, nil
}
