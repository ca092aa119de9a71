package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spellbook/internal/errors"
	"github.com/cory-johannsen/spellbook/internal/game/dice"
)

func TestParse_Valid(t *testing.T) {
	cases := []struct {
		in    string
		count int
		sides int
		mod   int
	}{
		{"1d20", 1, 20, 0},
		{"2d6+3", 2, 6, 3},
		{"3d8-1", 3, 8, -1},
		{" 4D10 ", 4, 10, 0},
		{"1d1", 1, 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := dice.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.in, e.Raw)
			assert.Equal(t, tc.count, e.Count)
			assert.Equal(t, tc.sides, e.Sides)
			assert.Equal(t, tc.mod, e.Modifier)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "d20", "0d6", "2d0", "2d6+", "2d6+3+1", "1d20kh1", "abc", "2x6", "1d6 + 2", "101d6", "1d1001"} {
		t.Run(in, func(t *testing.T) {
			_, err := dice.Parse(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrParse)
			assert.True(t, errors.IsParseError(err))
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
	assert.NotPanics(t, func() { dice.MustParse("1d4") })
}

func TestParse_Property_RoundTripsComponents(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, dice.MaxCount).Draw(rt, "count")
		sides := rapid.IntRange(1, dice.MaxSides).Draw(rt, "sides")
		mod := rapid.IntRange(-99, 99).Draw(rt, "mod")
		notation := itoa(count) + "d" + itoa(sides)
		if mod > 0 {
			notation += "+" + itoa(mod)
		} else if mod < 0 {
			notation += itoa(mod)
		}
		e, err := dice.Parse(notation)
		require.NoError(rt, err)
		assert.Equal(rt, count, e.Count)
		assert.Equal(rt, sides, e.Sides)
		assert.Equal(rt, mod, e.Modifier)
	})
}
