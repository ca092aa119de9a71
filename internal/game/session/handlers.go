package session

import (
	"strconv"
	"strings"

	"github.com/cory-johannsen/spellbook/internal/errors"
	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/command"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
)

type request struct {
	args []string
	raw  string
}

func (r request) arg(i int) string {
	if i < len(r.args) {
		return r.args[i]
	}
	return ""
}

type handlerFunc func(s *Session, c *character.Character, r request) error

var handlers = map[string]handlerFunc{
	command.HandlerShow:       handleShow,
	command.HandlerSpells:     handleSpells,
	command.HandlerCast:       handleCast,
	command.HandlerForget:     handleForget,
	command.HandlerPrepare:    handlePrepare(true),
	command.HandlerUnprepare:  handlePrepare(false),
	command.HandlerLearn:      handleLearn,
	command.HandlerAddSpell:   handleAddSpell,
	command.HandlerAbilities:  handleAbilities,
	command.HandlerUse:        handleUse,
	command.HandlerAddAbility: handleAddAbility,
	command.HandlerShortRest:  handleShortRest,
	command.HandlerLongRest:   handleLongRest,
	command.HandlerSave:       handleSave,
	command.HandlerInitiative: handleInitiative,
	command.HandlerCheck:      handleCheck,
	command.HandlerHP:         handleHP,
	command.HandlerDamage:     handleDamage,
	command.HandlerHeal:       handleHeal,
	command.HandlerModifier:   handleModifier,
	command.HandlerLevelUp:    handleLevelUp,
	command.HandlerInventory:  handleInventory,
	command.HandlerItem:       handleItem,
	command.HandlerAutoAdd:    handleAutoAdd,
}

func usage(format string, args ...any) error {
	return errors.InvalidOperationf("usage: "+format, args...)
}

func parseInt(what, text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, errors.Newf(errors.CodeParseError, "%s must be a whole number, got %q", what, text)
	}
	return v, nil
}

// spellTarget resolves "<spell> [level]". A spell may be named by id or by
// display name; without a level the lowest level holding it is used.
func spellTarget(c *character.Character, r request, verb string) (string, int, error) {
	if len(r.args) == 0 {
		return "", 0, usage("%s <spell> [level]", verb)
	}
	id := ruleset.Slug(r.args[0])
	if len(r.args) > 1 {
		level, err := parseInt("spell level", r.args[1])
		if err != nil {
			return "", 0, err
		}
		return id, level, nil
	}
	for _, level := range c.Spells.Levels() {
		if _, _, ok := c.Spells.Find(level, id); ok {
			return id, level, nil
		}
	}
	return "", 0, errors.NotFoundf("%s does not know %q", c.Name, r.args[0])
}

func handleShow(s *Session, c *character.Character, _ request) error {
	s.renderSheet(c)
	return nil
}

func handleSpells(s *Session, c *character.Character, _ request) error {
	s.renderSpells(c)
	return nil
}

func handleAbilities(s *Session, c *character.Character, _ request) error {
	s.renderAbilities(c)
	return nil
}

func handleInventory(s *Session, c *character.Character, _ request) error {
	s.renderInventory(c)
	return nil
}

func handleCast(s *Session, c *character.Character, r request) error {
	id, level, err := spellTarget(c, r, "cast")
	if err != nil {
		return err
	}
	_, err = s.engine.CastSpell(c, id, level)
	return err
}

func handleForget(s *Session, c *character.Character, r request) error {
	id, level, err := spellTarget(c, r, "forget")
	if err != nil {
		return err
	}
	_, err = s.engine.DeleteSpell(c, id, level, s.prompter)
	return err
}

func handlePrepare(prepared bool) handlerFunc {
	verb := "prepare"
	if !prepared {
		verb = "unprepare"
	}
	return func(s *Session, c *character.Character, r request) error {
		id, level, err := spellTarget(c, r, verb)
		if err != nil {
			return err
		}
		_, err = s.engine.SetPrepared(c, id, level, prepared)
		return err
	}
}

func handleLearn(s *Session, c *character.Character, _ request) error {
	_, _, err := s.engine.LearnMoreSpells(c)
	return err
}

// handleAddSpell reads "<level> <name> | <damage> | <description>".
func handleAddSpell(s *Session, c *character.Character, r request) error {
	level, rest, ok := strings.Cut(strings.TrimSpace(r.raw), " ")
	if !ok {
		return usage("addspell <level> <name> | <damage> | <description>")
	}
	n, err := parseInt("spell level", level)
	if err != nil {
		return err
	}
	fields := command.Fields(rest)
	def := ruleset.SpellDef{Name: fields[0]}
	if len(fields) > 1 {
		def.Damage = fields[1]
	}
	if len(fields) > 2 {
		def.Description = strings.Join(fields[2:], " | ")
	}
	_, err = s.engine.AddCustomSpell(c, n, def)
	return err
}

func handleUse(s *Session, c *character.Character, r request) error {
	if len(r.args) == 0 {
		return usage("use <ability>")
	}
	_, err := s.engine.UseAbility(c, ruleset.Slug(r.raw))
	return err
}

// handleAddAbility reads "<name> | <icon> | <damage> | <description>".
func handleAddAbility(s *Session, c *character.Character, r request) error {
	fields := command.Fields(r.raw)
	if len(fields) < 4 {
		return usage("addability <name> | <icon> | <damage> | <description>")
	}
	_, err := s.engine.AddCustomAbility(c, fields[0], fields[1], fields[2], strings.Join(fields[3:], " | "))
	return err
}

func handleShortRest(s *Session, c *character.Character, _ request) error {
	s.engine.ShortRest(c)
	return nil
}

func handleLongRest(s *Session, c *character.Character, _ request) error {
	s.engine.LongRest(c)
	return nil
}

func handleSave(s *Session, c *character.Character, r request) error {
	if len(r.args) == 0 {
		return usage("save <ability>")
	}
	ability, err := character.ParseAbility(r.args[0])
	if err != nil {
		return errors.Wrap(err, errors.CodeParseError, err.Error())
	}
	s.engine.RollSavingThrow(c, ability)
	return nil
}

func handleInitiative(s *Session, c *character.Character, _ request) error {
	s.engine.RollInitiative(c)
	return nil
}

func handleCheck(s *Session, c *character.Character, r request) error {
	if len(r.args) == 0 {
		return usage("check <label> [modifier]")
	}
	var mod int
	if len(r.args) > 1 {
		v, err := parseInt("modifier", r.args[1])
		if err != nil {
			return err
		}
		mod = v
	}
	s.engine.RollCheck(c, r.args[0], mod)
	return nil
}

func handleHP(s *Session, c *character.Character, _ request) error {
	_, err := s.engine.EditHP(c, s.prompter)
	return err
}

func handleDamage(s *Session, c *character.Character, r request) error {
	n, err := parseInt("damage", r.arg(0))
	if err != nil {
		return err
	}
	_, err = s.engine.ApplyDamage(c, n)
	return err
}

func handleHeal(s *Session, c *character.Character, r request) error {
	n, err := parseInt("healing", r.arg(0))
	if err != nil {
		return err
	}
	_, err = s.engine.Heal(c, n)
	return err
}

func handleModifier(s *Session, c *character.Character, r request) error {
	switch strings.ToLower(r.arg(0)) {
	case "", "list":
		s.renderModifiers(c)
		return nil
	case "add":
		if r.arg(1) == "" {
			return usage("modifier add <preset>")
		}
		_, err := s.engine.AddTempModifier(c, strings.ToLower(r.arg(1)))
		return err
	case "custom":
		if len(r.args) < 3 {
			return usage("modifier custom <value> <description>")
		}
		v, err := parseInt("modifier value", r.args[1])
		if err != nil {
			return err
		}
		_, err = s.engine.AddCustomTempModifier(c, v, strings.Join(r.args[2:], " "))
		return err
	case "remove":
		i, err := parseInt("modifier number", r.arg(1))
		if err != nil {
			return err
		}
		// Numbers shown by "modifier list" start at 1.
		_, err = s.engine.RemoveTempModifier(c, i-1)
		return err
	case "clear":
		s.engine.ClearTempModifiers(c)
		return nil
	}
	return usage("modifier add <preset> | custom <value> <description> | remove <n> | clear | list")
}

func handleLevelUp(s *Session, c *character.Character, r request) error {
	level, err := parseInt("level", r.arg(0))
	if err != nil {
		return err
	}
	_, err = s.engine.LevelUp(c, level)
	return err
}

func handleItem(s *Session, c *character.Character, r request) error {
	if len(r.args) == 0 {
		return usage("item <item>")
	}
	_, err := s.engine.UseItem(c, ruleset.Slug(r.raw))
	return err
}

func handleAutoAdd(s *Session, c *character.Character, _ request) error {
	_, _, err := s.engine.AutoAddItems(c)
	return err
}
