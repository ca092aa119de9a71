package legacy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/spellbook/internal/importer/legacy"
)

func TestParseRoster_Array(t *testing.T) {
	sheets, err := legacy.ParseRoster([]byte(`[
		{"id": "vex", "name": "Vex", "class": "rogue", "level": 3},
		{"id": "grog", "name": "Grog", "class": "barbarian", "level": 5}
	]`))
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, "vex", sheets[0].ID)
	assert.Equal(t, 5, sheets[1].Level)
}

func TestParseRoster_ObjectKeyedByID(t *testing.T) {
	sheets, err := legacy.ParseRoster([]byte(`{
		"vex": {"name": "Vex", "class": "rogue", "level": 3},
		"caleb": {"id": "caleb", "name": "Caleb", "class": "wizard", "level": 5}
	}`))
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, "caleb", sheets[0].ID)
	assert.Equal(t, "vex", sheets[1].ID, "key fills a missing id")
}

func TestParseRoster_SpellFields(t *testing.T) {
	sheets, err := legacy.ParseRoster([]byte(`[{
		"name": "Caleb", "class": "wizard", "level": 1,
		"spells": {"0": [{"id": "mage_hand", "name": "Mage Hand", "damage": null}],
		           "1": [{"id": "magic_missile", "name": "Magic Missile", "damage": "3d4+3", "castingTime": "1 action"}]},
		"spellSlots": {"1": {"current": 1, "max": 2}}
	}]`))
	require.NoError(t, err)
	s := sheets[0]
	assert.Nil(t, s.Spells["0"][0].Damage)
	require.NotNil(t, s.Spells["1"][0].Damage)
	assert.Equal(t, "3d4+3", *s.Spells["1"][0].Damage)
	assert.Equal(t, "1 action", s.Spells["1"][0].CastingTime)
	assert.Equal(t, legacy.Resource{Current: 1, Max: 2}, s.SpellSlots["1"])
}

func TestParseRoster_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":        "  ",
		"scalar":       `"grog"`,
		"empty array":  `[]`,
		"empty object": `{}`,
		"nulls":        `[null]`,
		"malformed":    `[{"name": }]`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := legacy.ParseRoster([]byte(input))
			assert.Error(t, err)
		})
	}
}
