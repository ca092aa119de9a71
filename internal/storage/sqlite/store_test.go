package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spellbook/internal/storage"
	"github.com/cory-johannsen/spellbook/internal/storage/sqlite"
	"github.com/cory-johannsen/spellbook/internal/testutil"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "spellbook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	content := testutil.LoadContent(t)
	path := filepath.Join(t.TempDir(), "spellbook.db")
	ctx := context.Background()

	s, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, content.Build(t, "Caleb", "wizard", 3)))
	require.NoError(t, s.Close())

	again, err := sqlite.Open(path)
	require.NoError(t, err)
	defer again.Close()
	c, err := again.Get(ctx, "caleb")
	require.NoError(t, err)
	assert.Equal(t, "Caleb", c.Name)
}

func TestStore_SaveThenGet(t *testing.T) {
	content := testutil.LoadContent(t)
	s := openStore(t)
	ctx := context.Background()

	c := content.Build(t, "Caleb", "wizard", 5)
	c.HP.Damage(7)
	require.NoError(t, s.Save(ctx, c))
	assert.False(t, c.UpdatedAt.IsZero())

	got, err := s.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.HP, got.HP)
	assert.Equal(t, c.SpellSlots, got.SpellSlots)
	assert.Equal(t, c.Spells.Count(), got.Spells.Count())
	assert.Equal(t, c.Abilities, got.Abilities)
	assert.True(t, c.UpdatedAt.Equal(got.UpdatedAt))
}

func TestStore_SaveUpserts(t *testing.T) {
	content := testutil.LoadContent(t)
	s := openStore(t)
	ctx := context.Background()

	c := content.Build(t, "Grog", "barbarian", 1)
	require.NoError(t, s.Save(ctx, c))
	c.Level = 2
	require.NoError(t, s.Save(ctx, c))

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].Level)
}

func TestStore_SaveRejectsInvalid(t *testing.T) {
	content := testutil.LoadContent(t)
	s := openStore(t)
	c := content.Build(t, "Grog", "barbarian", 1)
	c.HP.Current = c.HP.Max + 1
	assert.Error(t, s.Save(context.Background(), c))
}

func TestStore_ListOrderedByID(t *testing.T) {
	content := testutil.LoadContent(t)
	s := openStore(t)
	ctx := context.Background()
	for _, name := range []string{"Vex", "Caleb", "Grog"} {
		require.NoError(t, s.Save(ctx, content.Build(t, name, "fighter", 1)))
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(list))
	for _, sum := range list {
		ids = append(ids, sum.ID)
	}
	assert.Equal(t, []string{"caleb", "grog", "vex"}, ids)
}

func TestStore_NotFound(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrCharacterNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "nobody"), storage.ErrCharacterNotFound)
}

func TestStore_Delete(t *testing.T) {
	content := testutil.LoadContent(t)
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, content.Build(t, "Grog", "barbarian", 1)))

	require.NoError(t, s.Delete(ctx, "grog"))
	_, err := s.Get(ctx, "grog")
	assert.ErrorIs(t, err, storage.ErrCharacterNotFound)
}

func TestStore_RoundTripPreservesResources(t *testing.T) {
	content := testutil.LoadContent(t)
	s := openStore(t)
	ctx := context.Background()
	classes := []string{"wizard", "cleric", "warlock", "paladin", "fighter"}

	rapid.Check(t, func(rt *rapid.T) {
		class := rapid.SampledFrom(classes).Draw(rt, "class")
		level := rapid.IntRange(1, 20).Draw(rt, "level")
		c := content.Build(rt, "Prop", class, level)
		c.HP.Current = rapid.IntRange(0, c.HP.Max).Draw(rt, "hp")
		for lvl, slot := range c.SpellSlots {
			slot.Current = rapid.IntRange(0, slot.Max).Draw(rt, "slot")
			c.SpellSlots[lvl] = slot
		}
		if err := s.Save(ctx, c); err != nil {
			rt.Fatalf("save: %v", err)
		}
		got, err := s.Get(ctx, c.ID)
		if err != nil {
			rt.Fatalf("get: %v", err)
		}
		if got.HP != c.HP || got.Level != c.Level {
			rt.Fatalf("got %+v level %d, want %+v level %d", got.HP, got.Level, c.HP, c.Level)
		}
		for lvl, slot := range c.SpellSlots {
			if got.SpellSlots[lvl] != slot {
				rt.Fatalf("slot %d: got %+v want %+v", lvl, got.SpellSlots[lvl], slot)
			}
		}
	})
}
