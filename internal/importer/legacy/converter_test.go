package legacy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
	"github.com/cory-johannsen/spellbook/internal/importer/legacy"
	"github.com/cory-johannsen/spellbook/internal/testutil"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestConvert_FullSheet(t *testing.T) {
	content := testutil.LoadContent(t)
	sheet := &legacy.Sheet{
		ID:    "pike-trickfoot",
		Name:  "Pike Trickfoot",
		Class: "Cleric",
		Level: 3,
		AC:    16,
		HP:    legacy.Resource{Current: 20, Max: 28},
		Stats: legacy.Stats{Str: 14, Dex: 10, Con: 14, Int: 10, Wis: 16, Cha: 12},
		Spells: map[string][]legacy.Spell{
			"cantrips": {{ID: "sacred-flame", Name: "Sacred Flame", Damage: strPtr("1d8"), Save: "DEX"}},
			"1": {
				{ID: "cure_wounds", Name: "Cure Wounds", Damage: strPtr("1d8+3"), Prepared: boolPtr(false)},
				{ID: "bless", Name: "Bless"},
			},
		},
		SpellSlots:    map[string]legacy.Resource{"1": {Current: 2, Max: 4}, "2": {Current: 2, Max: 2}},
		Abilities:     []legacy.Ability{{ID: "channel-divinity", Name: "Channel Divinity", Icon: "✨", Description: "Turn undead"}},
		Inventory:     []legacy.Item{{Name: "Potion of Healing", Quantity: 2}, {ID: "longsword", Quantity: 1, Equipped: true}},
		TempModifiers: []legacy.TempModifier{{Value: 1, Description: "Bless"}},
	}

	c, warnings, err := legacy.Convert(sheet, content.Rules, content.Items)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "pike_trickfoot", c.ID)
	assert.Equal(t, "cleric", c.Class)
	assert.Equal(t, ruleset.CastingPrepared, c.CastingType)
	assert.Equal(t, "✝️", c.Icon)
	assert.Equal(t, character.HP{Current: 20, Max: 28}, c.HP)

	cantrip, _, ok := c.Spells.Find(0, "sacred_flame")
	require.True(t, ok)
	assert.IsType(t, character.KnownSpell{}, cantrip)
	assert.Equal(t, "dex", cantrip.Definition().Save)

	cure, _, ok := c.Spells.Find(1, "cure_wounds")
	require.True(t, ok)
	assert.Equal(t, character.PreparedSpell{Spell: cure.Definition(), Prepared: false}, cure)
	bless, _, ok := c.Spells.Find(1, "bless")
	require.True(t, ok)
	assert.True(t, bless.(character.PreparedSpell).Prepared)

	assert.Equal(t, character.Slot{Current: 2, Max: 4}, c.SpellSlots[1])
	assert.Equal(t, "channel_divinity", c.Abilities[0].ID)
	assert.Equal(t, 2, c.Inventory.Count("healing_potion"))
	require.Len(t, c.Inventory, 2)
	assert.True(t, c.Inventory[1].Equipped)
	assert.Equal(t, 1, c.TempModifiers.Total())
}

func TestConvert_RepairsAndWarns(t *testing.T) {
	content := testutil.LoadContent(t)
	sheet := &legacy.Sheet{
		Name:        "Scanlan Shorthalt",
		Class:       "bard",
		Level:       2,
		CastingType: "spontaneous",
		HP:          legacy.Resource{Current: 50, Max: 22},
		Spells: map[string][]legacy.Spell{
			"1":      {{ID: "thunderwave", Name: "Thunderwave"}, {ID: "thunderwave", Name: "Thunderwave"}},
			"eleven": {{ID: "x", Name: "X"}},
		},
		SpellSlots: map[string]legacy.Resource{"1": {Current: 9, Max: 3}, "0": {Current: 1, Max: 1}},
		Abilities:  []legacy.Ability{{ID: "inspire", Name: "Inspire"}, {ID: "inspire", Name: "Inspire"}, {Name: ""}},
		Inventory:  []legacy.Item{{Name: "Mysterious Lute", Quantity: 1}},
	}

	c, warnings, err := legacy.Convert(sheet, content.Rules, content.Items)
	require.NoError(t, err)

	assert.Equal(t, "scanlan_shorthalt", c.ID)
	assert.Equal(t, character.StandardArray, c.Stats)
	assert.Equal(t, 22, c.HP.Current)
	assert.Equal(t, 1, c.Spells.Count())
	assert.Equal(t, character.Slot{Current: 3, Max: 3}, c.SpellSlots[1])
	assert.NotContains(t, c.SpellSlots, 0)
	assert.Len(t, c.Abilities, 1)
	assert.Empty(t, c.Inventory)
	assert.Equal(t, 12, c.AC, "10 + dex modifier of the standard array")

	for _, want := range []string{
		`casting type "spontaneous" replaced with "known"`,
		"hp 50/22 clamped to 22",
		`dropped duplicate spell "thunderwave"`,
		`dropped spells under level key "eleven"`,
		"level 1 slots 9/3 clamped to 3",
		`dropped spell slots under key "0"`,
		`dropped duplicate ability "inspire"`,
		`dropped unknown item "Mysterious Lute"`,
	} {
		assert.Contains(t, warnings, want)
	}
}

func TestConvert_UnknownClassKeepsSheet(t *testing.T) {
	content := testutil.LoadContent(t)
	c, warnings, err := legacy.Convert(&legacy.Sheet{Name: "Trinket", Class: "bear", Level: 1}, content.Rules, nil)
	require.NoError(t, err)
	assert.Equal(t, ruleset.CastingNone, c.CastingType)
	assert.Equal(t, character.MaxHPFor(1), c.HP.Max)
	assert.Contains(t, warnings, `unknown class "bear"`)
}

func TestConvert_NilRegistryDropsBackpack(t *testing.T) {
	content := testutil.LoadContent(t)
	c, warnings, err := legacy.Convert(&legacy.Sheet{
		Name: "Grog", Class: "barbarian", Level: 1,
		Inventory: []legacy.Item{{ID: "rope"}},
	}, content.Rules, nil)
	require.NoError(t, err)
	assert.Empty(t, c.Inventory)
	assert.Contains(t, warnings, "dropped 1 backpack item(s): no item registry")
}

func TestConvert_Rejects(t *testing.T) {
	content := testutil.LoadContent(t)
	cases := map[string]*legacy.Sheet{
		"no name":    {Class: "fighter", Level: 1},
		"bad id":     {Name: "!!!", Class: "fighter", Level: 1},
		"level zero": {Name: "Grog", Class: "fighter"},
		"level 21":   {Name: "Grog", Class: "fighter", Level: 21},
	}
	for name, sheet := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := legacy.Convert(sheet, content.Rules, content.Items)
			assert.Error(t, err)
		})
	}
}

func TestConvert_AlwaysValid(t *testing.T) {
	content := testutil.LoadContent(t)
	rapid.Check(t, func(rt *rapid.T) {
		max := rapid.IntRange(-5, 200).Draw(rt, "max")
		sheet := &legacy.Sheet{
			Name:  rapid.StringMatching(`[A-Z][a-z]{2,10}`).Draw(rt, "name"),
			Class: rapid.SampledFrom([]string{"wizard", "cleric", "fighter", "warlock", "unknown"}).Draw(rt, "class"),
			Level: rapid.IntRange(1, 20).Draw(rt, "level"),
			HP:    legacy.Resource{Current: rapid.IntRange(-50, 250).Draw(rt, "current"), Max: max},
			SpellSlots: map[string]legacy.Resource{
				"1": {Current: rapid.IntRange(-3, 9).Draw(rt, "s1"), Max: rapid.IntRange(0, 4).Draw(rt, "m1")},
			},
		}
		c, _, err := legacy.Convert(sheet, content.Rules, content.Items)
		if err != nil {
			rt.Fatalf("convert: %v", err)
		}
		if err := c.Validate(); err != nil {
			rt.Fatalf("invalid: %v", err)
		}
	})
}
