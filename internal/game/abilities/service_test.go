package abilities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spellbook/internal/errors"
	"github.com/cory-johannsen/spellbook/internal/game/abilities"
	"github.com/cory-johannsen/spellbook/internal/game/battlelog"
	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/dice"
	"github.com/cory-johannsen/spellbook/internal/game/modifier"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
	"github.com/cory-johannsen/spellbook/internal/testutil"
)

func newService(t testing.TB, src dice.Source) (*abilities.Service, *battlelog.MemorySink, *testutil.Content) {
	t.Helper()
	content := testutil.LoadContent(t)
	sink := battlelog.NewMemorySink()
	svc := abilities.NewService(content.Rules, testutil.Roller(src), sink, zap.NewNop(), abilities.DefaultAttackBonus)
	return svc, sink, content
}

func abilityIDs(c *character.Character) []string {
	out := make([]string, len(c.Abilities))
	for i, a := range c.Abilities {
		out[i] = a.ID
	}
	return out
}

func TestPopulate_FighterDedupesExtraAttack(t *testing.T) {
	svc, _, content := newService(t, testutil.MaxSource)
	c := content.Build(t, "Brienne", "fighter", 5)

	_, err := svc.Populate(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"action_surge", "second_wind", "extra_attack", "indomitable"}, abilityIDs(c))
}

func TestPopulate_PaladinGainsExtraAttackAtFive(t *testing.T) {
	svc, _, content := newService(t, testutil.MaxSource)

	low := content.Build(t, "Squire", "paladin", 4)
	_, err := svc.Populate(low)
	require.NoError(t, err)
	assert.NotContains(t, abilityIDs(low), "extra_attack")

	high := content.Build(t, "Knight", "paladin", 5)
	_, err = svc.Populate(high)
	require.NoError(t, err)
	assert.Contains(t, abilityIDs(high), "extra_attack")
}

func TestPopulate_KeepsCustomAbilities(t *testing.T) {
	svc, _, content := newService(t, testutil.MaxSource)
	c := content.Build(t, "Grog", "barbarian", 3)
	_, err := svc.AddCustomAbility(c, "Head Butt", "", "1d6", "Smash a foe")
	require.NoError(t, err)

	_, err = svc.Populate(c)
	require.NoError(t, err)
	_, err = svc.Populate(c)
	require.NoError(t, err)

	ids := abilityIDs(c)
	assert.Equal(t, "head_butt", ids[0])
	assert.Contains(t, ids, "rage")
	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
}

func TestPopulate_UnknownClass(t *testing.T) {
	svc, _, _ := newService(t, testutil.MaxSource)
	_, err := svc.Populate(&character.Character{ID: "x", Class: "bard_of_nowhere", Level: 1})
	assert.True(t, errors.IsNotFound(err))
}

func TestUse_DamageAbilityCritical(t *testing.T) {
	svc, sink, content := newService(t, testutil.MaxSource)
	c := content.Build(t, "Lancelot", "paladin", 2)
	_, err := svc.Populate(c)
	require.NoError(t, err)

	res, err := svc.Use(c, "divine_smite")
	require.NoError(t, err)
	require.NotNil(t, res.Attack)
	assert.True(t, res.Attack.Critical)
	assert.Equal(t, 16, res.Damage.Total())
	assert.Equal(t, []string{"⚡ Divine Smite: Attack 27 **CRITICAL HIT!** | Damage: 16 (2d8) [8, 8]"}, sink.Lines())
}

func TestUse_AttackAddsTempModifiers(t *testing.T) {
	svc, sink, content := newService(t, testutil.MaxSource)
	c := content.Build(t, "Lancelot", "paladin", 2)
	_, err := svc.Populate(c)
	require.NoError(t, err)
	c.TempModifiers.Add(modifier.TempModifier{Value: 3, Description: "Bless"})

	res, err := svc.Use(c, "divine_smite")
	require.NoError(t, err)
	require.NotNil(t, res.Attack)
	assert.Equal(t, 3, res.Attack.Temp)
	assert.Equal(t, 30, res.Attack.Total)
	assert.Equal(t, []string{"⚡ Divine Smite: Attack 30 [Temp: +3] **CRITICAL HIT!** | Damage: 16 (2d8) [8, 8]"}, sink.Lines())
}

func TestUse_DamageAbilityFumble(t *testing.T) {
	svc, sink, content := newService(t, testutil.MinSource)
	c := content.Build(t, "Lancelot", "paladin", 2)
	_, err := svc.Populate(c)
	require.NoError(t, err)

	_, err = svc.Use(c, "divine_smite")
	require.NoError(t, err)
	assert.Equal(t, []string{"⚡ Divine Smite: Attack 8 (Critical Miss) | Damage: 2 (2d8) [1, 1]"}, sink.Lines())
}

func TestUse_NarrativeAbility(t *testing.T) {
	svc, sink, content := newService(t, testutil.MaxSource)
	c := content.Build(t, "Grog", "barbarian", 1)
	_, err := svc.Populate(c)
	require.NoError(t, err)

	res, err := svc.Use(c, "rage")
	require.NoError(t, err)
	assert.Nil(t, res.Attack)
	assert.Equal(t, []string{"😡 Rage - Gain advantage on STR checks, +2 damage, resistance to physical damage"}, sink.Lines())
}

func TestUse_MalformedDamageFallsBackToDescription(t *testing.T) {
	svc, sink, content := newService(t, testutil.MaxSource)
	c := content.Build(t, "Odd", "barbarian", 1)
	c.Abilities = []ruleset.AbilityDef{{ID: "odd", Name: "Odd", Icon: "❓", Damage: "two dice", Description: "Strange"}}

	res, err := svc.Use(c, "odd")
	require.NoError(t, err)
	assert.Nil(t, res.Damage)
	assert.Equal(t, []string{"❓ Odd - Strange"}, sink.Lines())
}

func TestUse_NotFound(t *testing.T) {
	svc, sink, content := newService(t, testutil.MaxSource)
	c := content.Build(t, "Grog", "barbarian", 1)

	_, err := svc.Use(c, "fly")
	assert.True(t, errors.IsNotFound(err))
	assert.Empty(t, sink.Lines())
}

func TestAddCustomAbility(t *testing.T) {
	svc, sink, content := newService(t, testutil.MaxSource)
	c := content.Build(t, "Vex", "rogue", 3)

	_, err := svc.AddCustomAbility(c, "Shadow Step!", "", "", "Teleport between shadows")
	require.NoError(t, err)
	a, ok := c.Ability("shadow_step")
	require.True(t, ok)
	assert.Equal(t, abilities.DefaultIcon, a.Icon)
	assert.Equal(t, "Shadow Step!", a.Name)
	assert.Equal(t, []string{"✨ Vex created custom ability: Shadow Step!!"}, sink.Lines())
}

func TestAddCustomAbility_Rejections(t *testing.T) {
	svc, _, content := newService(t, testutil.MaxSource)
	c := content.Build(t, "Vex", "rogue", 3)
	_, err := svc.AddCustomAbility(c, "Shadow Step", "🌑", "", "Teleport")
	require.NoError(t, err)
	before := c.Clone()

	testCases := []struct {
		name        string
		abilityName string
		description string
		check       func(error) bool
	}{
		{name: "duplicate", abilityName: "shadow  STEP", description: "again", check: errors.IsDuplicateID},
		{name: "empty name", abilityName: " ", description: "x", check: errors.IsInvalidOperation},
		{name: "empty description", abilityName: "Blink", description: "", check: errors.IsInvalidOperation},
		{name: "empty slug", abilityName: "!!!", description: "x", check: errors.IsInvalidOperation},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddCustomAbility(c, tc.abilityName, "", "", tc.description)
			assert.True(t, tc.check(err), "unexpected error %v", err)
			assert.Equal(t, before, c)
		})
	}
}

func TestAddCustomAbility_DuplicateScopedPerCharacter(t *testing.T) {
	svc, _, content := newService(t, testutil.MaxSource)
	a := content.Build(t, "Vex", "rogue", 3)
	b := content.Build(t, "Vax", "rogue", 3)

	_, err := svc.AddCustomAbility(a, "Shadow Step", "", "", "Teleport")
	require.NoError(t, err)
	_, err = svc.AddCustomAbility(b, "Shadow Step", "", "", "Teleport")
	require.NoError(t, err)
	_, err = svc.AddCustomAbility(a, "Shadow Step", "", "", "Teleport")
	assert.True(t, errors.IsDuplicateID(err))
}

func TestAddCustomSpell_VariantFollowsCastingType(t *testing.T) {
	svc, sink, content := newService(t, testutil.MaxSource)

	cleric := content.Build(t, "Pike", "cleric", 3)
	cleric.CastingType = ruleset.CastingPrepared
	_, err := svc.AddCustomSpell(cleric, 1, ruleset.SpellDef{Name: "Holy Spark", Damage: "1d6"})
	require.NoError(t, err)
	inst, _, ok := cleric.Spells.Find(1, "holy_spark")
	require.True(t, ok)
	assert.Equal(t, character.PreparedSpell{
		Spell:    ruleset.SpellDef{ID: "holy_spark", Name: "Holy Spark", Level: 1, Damage: "1d6"},
		Prepared: true,
	}, inst)

	sorc := content.Build(t, "Sorc", "sorcerer", 3)
	sorc.CastingType = ruleset.CastingKnown
	_, err = svc.AddCustomSpell(sorc, 0, ruleset.SpellDef{Name: "Spark"})
	require.NoError(t, err)
	inst, _, ok = sorc.Spells.Find(0, "spark")
	require.True(t, ok)
	_, isKnown := inst.(character.KnownSpell)
	assert.True(t, isKnown)

	assert.Equal(t, []string{
		"✨ Pike created custom level 1 spell: Holy Spark!",
		"✨ Sorc created custom cantrip: Spark!",
	}, sink.Lines())
}

func TestAddCustomSpell_DuplicateAcrossLevels(t *testing.T) {
	svc, _, content := newService(t, testutil.MaxSource)
	c := content.Build(t, "Sorc", "sorcerer", 5)
	_, err := svc.AddCustomSpell(c, 1, ruleset.SpellDef{Name: "Arc"})
	require.NoError(t, err)
	before := c.Clone()

	_, err = svc.AddCustomSpell(c, 3, ruleset.SpellDef{Name: "ARC"})
	assert.True(t, errors.IsDuplicateID(err))
	assert.Equal(t, before, c)
}

func TestAddCustomSpell_Invalid(t *testing.T) {
	svc, _, content := newService(t, testutil.MaxSource)
	c := content.Build(t, "Sorc", "sorcerer", 5)

	_, err := svc.AddCustomSpell(c, 10, ruleset.SpellDef{Name: "Wish Plus"})
	assert.True(t, errors.IsInvalidOperation(err))
	_, err = svc.AddCustomSpell(c, 1, ruleset.SpellDef{Name: "Both", AttackRoll: true, Save: "DEX"})
	assert.True(t, errors.IsInvalidOperation(err))
	_, err = svc.AddCustomSpell(c, 1, ruleset.SpellDef{Name: ""})
	assert.True(t, errors.IsInvalidOperation(err))
	assert.Zero(t, c.Spells.Count())
}

func TestAddCustom_RejectsMalformedDamage(t *testing.T) {
	svc, sink, content := newService(t, testutil.MaxSource)
	c := content.Build(t, "Sorc", "sorcerer", 5)
	before := c.Clone()

	_, err := svc.AddCustomAbility(c, "Head Butt", "", "garbage", "Smash a foe")
	assert.True(t, errors.IsParseError(err))
	_, err = svc.AddCustomSpell(c, 1, ruleset.SpellDef{Name: "Arc", Damage: "2d"})
	assert.True(t, errors.IsParseError(err))
	assert.Equal(t, before, c)
	assert.Empty(t, sink.Lines())

	_, err = svc.AddCustomAbility(c, "Head Butt", "", " 1d6+2 ", "Smash a foe")
	require.NoError(t, err)
	a, ok := c.Ability("head_butt")
	require.True(t, ok)
	assert.Equal(t, "1d6+2", a.Damage)
}

func TestAddCustomAbility_SlugProperty(t *testing.T) {
	svc, _, content := newService(t, testutil.MaxSource)
	rapid.Check(t, func(rt *rapid.T) {
		c := content.Build(rt, "Prop", "rogue", 1)
		name := rapid.StringMatching(`[A-Za-z][A-Za-z0-9 ]{0,20}`).Draw(rt, "name")
		_, err := svc.AddCustomAbility(c, name, "", "", "desc")
		if err != nil {
			rt.Fatalf("add %q: %v", name, err)
		}
		_, err = svc.AddCustomAbility(c, name, "", "", "desc")
		if !errors.IsDuplicateID(err) {
			rt.Fatalf("second add %q: expected duplicate, got %v", name, err)
		}
	})
}
