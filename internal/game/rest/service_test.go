package rest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spellbook/internal/game/battlelog"
	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/dice"
	"github.com/cory-johannsen/spellbook/internal/game/modifier"
	"github.com/cory-johannsen/spellbook/internal/game/rest"
	"github.com/cory-johannsen/spellbook/internal/game/spellcasting"
	"github.com/cory-johannsen/spellbook/internal/testutil"
)

type fixture struct {
	content *testutil.Content
	sink    *battlelog.MemorySink
	rest    *rest.Service
	caster  *spellcasting.Caster
}

func newFixture(t testing.TB, src dice.Source) *fixture {
	t.Helper()
	content := testutil.LoadContent(t)
	sink := battlelog.NewMemorySink()
	roller := testutil.Roller(src)
	return &fixture{
		content: content,
		sink:    sink,
		rest:    rest.NewService(content.Rules, roller, sink, zap.NewNop(), rest.DefaultHitDie),
		caster:  spellcasting.NewCaster(content.Rules, roller, battlelog.Discard, zap.NewNop(), spellcasting.DefaultSettings),
	}
}

func (f *fixture) populated(t testutil.T, name, class string, level int) *character.Character {
	t.Helper()
	c := f.content.Build(t, name, class, level)
	_, err := f.caster.Populate(c)
	require.NoError(t, err)
	return c
}

func TestShort_HealsHitDiePlusCon(t *testing.T) {
	f := newFixture(t, testutil.MaxSource)
	c := f.content.Build(t, "Grog", "barbarian", 5)
	c.HP.Current = 1

	res := f.rest.Short(c)
	// d12 at max plus CON 13 (+1)
	assert.Equal(t, 13, res.Healed)
	assert.Equal(t, 14, c.HP.Current)
	assert.False(t, res.SlotsRestored)
	assert.Equal(t, []string{"☀️ Grog took a short rest and regained 13 HP!"}, f.sink.Lines())
}

func TestShort_CappedAtMissingHP(t *testing.T) {
	f := newFixture(t, testutil.MaxSource)
	c := f.content.Build(t, "Grog", "barbarian", 5)
	c.HP.Current = c.HP.Max - 3

	res := f.rest.Short(c)
	assert.Equal(t, 3, res.Healed)
	assert.Equal(t, c.HP.Max, c.HP.Current)
}

func TestShort_FlooredAtZero(t *testing.T) {
	f := newFixture(t, testutil.MinSource)
	c := f.content.Build(t, "Frail", "wizard", 1)
	c.Stats.Con = 3
	c.HP.Current = 1

	res := f.rest.Short(c)
	assert.Zero(t, res.Healed)
	assert.Equal(t, 1, c.HP.Current)
}

func TestShort_WarlockRestoresSlots(t *testing.T) {
	f := newFixture(t, testutil.MaxSource)
	c := f.populated(t, "Fjord", "warlock", 3)
	slot := c.SpellSlots[2]
	slot.Current = 0
	c.SpellSlots[2] = slot

	res := f.rest.Short(c)
	assert.True(t, res.SlotsRestored)
	assert.Equal(t, character.Slot{Current: 2, Max: 2}, c.SpellSlots[2])
	assert.Equal(t, "💫 Fjord regained all spell slots!", f.sink.Lines()[1])
}

func TestShort_WizardKeepsSlots(t *testing.T) {
	f := newFixture(t, testutil.MaxSource)
	c := f.populated(t, "Caleb", "wizard", 1)
	c.SpellSlots[1] = character.Slot{Current: 0, Max: 2}

	res := f.rest.Short(c)
	assert.False(t, res.SlotsRestored)
	assert.Equal(t, character.Slot{Current: 0, Max: 2}, c.SpellSlots[1])
	assert.Len(t, f.sink.Lines(), 1)
}

func TestLong_RestoresEverything(t *testing.T) {
	f := newFixture(t, testutil.MaxSource)
	c := f.populated(t, "Caleb", "wizard", 5)
	c.HP.Current = 3
	for lvl, slot := range c.SpellSlots {
		slot.Current = 0
		c.SpellSlots[lvl] = slot
	}
	c.TempModifiers.Add(modifier.TempModifier{Value: 1, Description: "Bless"})

	res := f.rest.Long(c)
	assert.Equal(t, c.HP.Max, c.HP.Current)
	assert.Equal(t, 37, res.Healed)
	assert.Equal(t, 9, res.SlotsRestored)
	assert.Equal(t, 1, res.ModifiersCleared)
	for lvl, slot := range c.SpellSlots {
		assert.Equal(t, slot.Max, slot.Current, "level %d", lvl)
	}
	assert.Empty(t, c.TempModifiers)
	assert.Equal(t, []string{
		"🌙 Caleb took a long rest!",
		"❤️ Fully healed (+37 HP)! HP: 40/40",
		"✨ 9 spell slots restored!",
		"🧹 1 temporary effect cleared!",
	}, res.Lines)
}

func TestLong_SecondRestReportsZeroDeltas(t *testing.T) {
	f := newFixture(t, testutil.MaxSource)
	c := f.populated(t, "Caleb", "wizard", 5)
	c.HP.Current = 3
	f.rest.Long(c)

	res := f.rest.Long(c)
	assert.Zero(t, res.Healed)
	assert.Zero(t, res.SlotsRestored)
	assert.Zero(t, res.ModifiersCleared)
	assert.Equal(t, []string{
		"🌙 Caleb took a long rest!",
		"❤️ Fully healed (+0 HP)! HP: 40/40",
		"✨ 0 spell slots restored!",
		"🧹 0 temporary effects cleared!",
	}, res.Lines)
}

func TestLong_Idempotent(t *testing.T) {
	f := newFixture(t, testutil.MaxSource)
	rapid.Check(t, func(rt *rapid.T) {
		c := f.populated(rt, "Prop", rapid.SampledFrom([]string{"wizard", "cleric", "warlock", "fighter"}).Draw(rt, "class"),
			rapid.IntRange(1, 20).Draw(rt, "level"))
		c.HP.Damage(rapid.IntRange(0, c.HP.Max).Draw(rt, "damage"))

		f.rest.Long(c)
		once := c.Clone()
		f.rest.Long(c)
		assert.Equal(rt, once, c)
	})
}

func TestShort_HPStaysInBounds(t *testing.T) {
	content := testutil.LoadContent(t)
	rapid.Check(t, func(rt *rapid.T) {
		roller := testutil.Roller(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		svc := rest.NewService(content.Rules, roller, battlelog.Discard, zap.NewNop(), 0)
		c := content.Build(rt, "Prop", "rogue", rapid.IntRange(1, 20).Draw(rt, "level"))
		c.Stats.Con = rapid.IntRange(1, 20).Draw(rt, "con")
		c.HP.Damage(rapid.IntRange(0, c.HP.Max).Draw(rt, "damage"))
		before := c.HP.Current

		res := svc.Short(c)
		if c.HP.Current < before || c.HP.Current > c.HP.Max {
			rt.Fatalf("hp %d out of [%d, %d]", c.HP.Current, before, c.HP.Max)
		}
		if res.Healed != c.HP.Current-before {
			rt.Fatalf("healed %d, hp moved %d", res.Healed, c.HP.Current-before)
		}
	})
}
