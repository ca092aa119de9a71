package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spellbook/internal/game/battlelog"
	battlelogmock "github.com/cory-johannsen/spellbook/internal/game/battlelog/mock"
	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/checks"
	"github.com/cory-johannsen/spellbook/internal/game/dice"
	"github.com/cory-johannsen/spellbook/internal/game/modifier"
	"github.com/cory-johannsen/spellbook/internal/testutil"
)

func sheet() *character.Character {
	return &character.Character{ID: "vex", Name: "Vex", Level: 3, Stats: character.StandardArray}
}

func newService(src dice.Source) (*checks.Service, *battlelog.MemorySink) {
	sink := battlelog.NewMemorySink()
	return checks.NewService(testutil.Roller(src), sink, zap.NewNop()), sink
}

func TestSavingThrow_Lines(t *testing.T) {
	testCases := []struct {
		name    string
		src     dice.Source
		ability character.Ability
		temp    []int
		want    string
	}{
		{
			name:    "critical success",
			src:     testutil.MaxSource,
			ability: character.Wisdom,
			want:    "🎲 Wisdom Save: 20 (d20: 20 +0) **CRITICAL SUCCESS!**",
		},
		{
			name:    "critical failure with negative modifier",
			src:     testutil.MinSource,
			ability: character.Charisma,
			want:    "🎲 Charisma Save: 0 (d20: 1 -1) (Critical Failure)",
		},
		{
			name:    "temp modifiers",
			src:     testutil.FixedSource{V: 9},
			ability: character.Dexterity,
			temp:    []int{2, 1},
			want:    "🎲 Dexterity Save: 15 (d20: 10 +2) [Temp: +3]",
		},
		{
			name:    "negative temp",
			src:     testutil.FixedSource{V: 9},
			ability: character.Strength,
			temp:    []int{-2},
			want:    "🎲 Strength Save: 10 (d20: 10 +2) [Temp: -2]",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, sink := newService(tc.src)
			c := sheet()
			for _, v := range tc.temp {
				c.TempModifiers.Add(modifier.TempModifier{Value: v, Description: "test"})
			}
			res := svc.SavingThrow(c, tc.ability)
			assert.Equal(t, []string{tc.want}, sink.Lines())
			assert.Equal(t, res.Natural+res.Modifier+res.Temp, res.Total)
		})
	}
}

func TestInitiative(t *testing.T) {
	svc, sink := newService(testutil.MaxSource)
	svc.Initiative(sheet())

	svc2, sink2 := newService(testutil.MinSource)
	svc2.Initiative(sheet())

	assert.Equal(t, []string{"🎲 Initiative: 22 (d20: 20 +2) **CRITICAL!**"}, sink.Lines())
	assert.Equal(t, []string{"🎲 Initiative: 3 (d20: 1 +2) (Natural 1)"}, sink2.Lines())
}

func TestRoll_GenericCheck(t *testing.T) {
	svc, sink := newService(testutil.FixedSource{V: 11})
	c := sheet()
	svc.Roll(c, "Perception", 0)
	c.TempModifiers.Add(modifier.TempModifier{Value: 1, Description: "Guidance"})
	svc.Roll(c, "Stealth", 4)

	assert.Equal(t, []string{
		"🎲 Perception: 12 (d20: 12)",
		"🎲 Stealth: 17 (d20: 12 +5) [Temp: +1]",
	}, sink.Lines())
}

func TestChecks_PublishOneLineToSink(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := battlelogmock.NewMockSink(ctrl)
	sink.EXPECT().Append(gomock.Any()).Times(3)

	svc := checks.NewService(testutil.Roller(testutil.MaxSource), sink, zap.NewNop())
	c := sheet()
	svc.SavingThrow(c, character.Constitution)
	svc.Initiative(c)
	svc.Roll(c, "Athletics", 2)
}

func TestChecks_NeverMutate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		svc, _ := newService(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		c := sheet()
		c.TempModifiers.Add(modifier.TempModifier{Value: rapid.IntRange(-5, 5).Draw(rt, "temp"), Description: "x"})
		before := c.Clone()

		ability := rapid.SampledFrom(character.Abilities).Draw(rt, "ability")
		res := svc.SavingThrow(c, ability)
		require.Equal(rt, before, c)
		if res.Natural < 1 || res.Natural > 20 {
			rt.Fatalf("natural %d out of range", res.Natural)
		}
		if res.Critical != (res.Natural == 20) || res.Fumble != (res.Natural == 1) {
			rt.Fatalf("flags disagree with natural %d", res.Natural)
		}
	})
}
