package character

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/spellbook/internal/errors"
	"github.com/cory-johannsen/spellbook/internal/game/inventory"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
)

// Defaults applied by the builder.
const (
	DefaultAlignment = "Neutral Good"
	DefaultAC        = 12
	DefaultIcon      = "🎭"
	baseHP           = 10
	hpPerLevel       = 6
)

// Request describes a new character.
type Request struct {
	Name  string
	Class string
	// Subclass is a display name; blank or "Choose..." placeholders mean none.
	Subclass  string
	Race      string
	Alignment string
	Level     int
}

// Builder creates characters from the static tables.
type Builder struct {
	rules *ruleset.Ruleset
	items *inventory.Registry
	kits  *inventory.Kits
}

// NewBuilder returns a Builder over the given tables.
//
// Precondition: all arguments are non-nil.
func NewBuilder(rules *ruleset.Ruleset, items *inventory.Registry, kits *inventory.Kits) *Builder {
	return &Builder{rules: rules, items: items, kits: kits}
}

// Build constructs a level-req.Level character with standard-array stats,
// HP 10+level*6 and the class starting kit. Spells and abilities are left for
// the engine to populate, except that classes without an ability list start
// with the basic attack.
//
// Precondition: req.Name must slug to a non-empty id; req.Class must be registered.
// Postcondition: Returns a Character satisfying Validate, or a coded error.
func (b *Builder) Build(req Request) (*Character, error) {
	id := ruleset.Slug(req.Name)
	if strings.TrimSpace(req.Name) == "" || id == "" {
		return nil, errors.InvalidOperationf("character name %q does not produce an id", req.Name)
	}
	classID := strings.ToLower(strings.TrimSpace(req.Class))
	class, ok := b.rules.Class(classID)
	if !ok {
		return nil, errors.NotFoundf("class %q", req.Class)
	}
	level := req.Level
	if level == 0 {
		level = 1
	}
	if level < 1 || level > ruleset.MaxLevel {
		return nil, errors.InvalidOperationf("level %d out of range 1-%d", level, ruleset.MaxLevel)
	}
	alignment := req.Alignment
	if alignment == "" {
		alignment = DefaultAlignment
	}
	icon := class.Icon
	if icon == "" {
		icon = DefaultIcon
	}
	hp := MaxHPFor(level)

	c := &Character{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Icon:        icon,
		Class:       class.ID,
		Subclass:    ruleset.ParseSubclass(req.Subclass),
		Race:        req.Race,
		Alignment:   alignment,
		Level:       level,
		AC:          DefaultAC,
		Stats:       StandardArray,
		HP:          HP{Current: hp, Max: hp},
		CastingType: ruleset.CastingNone,
		Spells:      Spellbook{},
		SpellSlots:  SpellSlots{},
	}
	if len(class.Abilities) == 0 {
		c.Abilities = []ruleset.AbilityDef{ruleset.BasicAttack}
	}
	if _, err := inventory.Instantiate(&c.Inventory, b.items, b.kits.Starting(class.ID)); err != nil {
		return nil, fmt.Errorf("building %q: %w", c.ID, err)
	}
	return c, nil
}

// MaxHPFor returns the builder's max HP at level: 10 + level*6.
func MaxHPFor(level int) int {
	return baseHP + level*hpPerLevel
}
