package roster_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/roster"
	"github.com/cory-johannsen/spellbook/internal/storage"
)

func sheet(id string) *character.Character {
	return &character.Character{
		ID:    id,
		Name:  id,
		Class: "fighter",
		Level: 1,
		Stats: character.StandardArray,
		HP:    character.HP{Current: 100, Max: 100},
	}
}

func TestRoster_AddDuplicate(t *testing.T) {
	r := roster.New()
	require.NoError(t, r.Add(sheet("a")))
	err := r.Add(sheet("a"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already on the roster")
	assert.Equal(t, 1, r.Len())
}

func TestRoster_DoCommitsOnSuccess(t *testing.T) {
	r := roster.New()
	require.NoError(t, r.Add(sheet("a")))

	err := r.Do("a", func(c *character.Character) error {
		c.HP.Damage(10)
		return nil
	})
	require.NoError(t, err)

	c, err := r.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 90, c.HP.Current)
	assert.False(t, c.UpdatedAt.IsZero())
}

func TestRoster_DoDiscardsOnError(t *testing.T) {
	r := roster.New()
	require.NoError(t, r.Add(sheet("a")))

	err := r.Do("a", func(c *character.Character) error {
		c.HP.Damage(10)
		return fmt.Errorf("boom")
	})
	assert.EqualError(t, err, "boom")

	c, err := r.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 100, c.HP.Current)
}

func TestRoster_UnknownID(t *testing.T) {
	r := roster.New()
	ctx := context.Background()

	assert.ErrorIs(t, r.Do("x", func(*character.Character) error { return nil }), storage.ErrCharacterNotFound)
	_, err := r.Get(ctx, "x")
	assert.ErrorIs(t, err, storage.ErrCharacterNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "x"), storage.ErrCharacterNotFound)
}

func TestRoster_GetReturnsCopy(t *testing.T) {
	r := roster.New()
	require.NoError(t, r.Add(sheet("a")))

	c, err := r.Get(context.Background(), "a")
	require.NoError(t, err)
	c.HP.Current = 1

	again, err := r.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 100, again.HP.Current)
}

func TestRoster_SaveListDelete(t *testing.T) {
	r := roster.New()
	ctx := context.Background()
	require.NoError(t, r.Save(ctx, sheet("b")))
	require.NoError(t, r.Save(ctx, sheet("a")))
	updated := sheet("b")
	updated.Level = 4
	require.NoError(t, r.Save(ctx, updated))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, 4, list[1].Level)

	require.NoError(t, r.Delete(ctx, "a"))
	assert.Equal(t, 1, r.Len())
}

func TestRoster_ConcurrentDoIsSerialized(t *testing.T) {
	r := roster.New()
	require.NoError(t, r.Add(sheet("a")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Do("a", func(c *character.Character) error {
				c.HP.Damage(1)
				return nil
			})
		}()
	}
	wg.Wait()

	c, err := r.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 50, c.HP.Current)
}

func TestRoster_ReadersDoNotWaitOnDo(t *testing.T) {
	r := roster.New()
	ctx := context.Background()
	require.NoError(t, r.Add(sheet("a")))

	err := r.Do("a", func(c *character.Character) error {
		c.HP.Damage(10)
		stored, err := r.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 100, stored.HP.Current)
		list, err := r.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestRoster_DoAfterDeleteIsNotFound(t *testing.T) {
	r := roster.New()
	ctx := context.Background()
	require.NoError(t, r.Add(sheet("a")))

	err := r.Do("a", func(c *character.Character) error {
		require.NoError(t, r.Delete(ctx, "a"))
		c.HP.Damage(10)
		return nil
	})
	assert.ErrorIs(t, err, storage.ErrCharacterNotFound)
	_, err = r.Get(ctx, "a")
	assert.ErrorIs(t, err, storage.ErrCharacterNotFound)
	assert.Zero(t, r.Len())
}

func TestRoster_SaveDuringDoLandsInLiveEntry(t *testing.T) {
	r := roster.New()
	ctx := context.Background()
	require.NoError(t, r.Add(sheet("a")))

	err := r.Do("a", func(*character.Character) error {
		saved := make(chan error, 1)
		go func() {
			c := sheet("a")
			c.Level = 7
			saved <- r.Save(ctx, c)
		}()
		select {
		case err := <-saved:
			require.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("Save waited on an in-flight Do")
		}
		got, err := r.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 7, got.Level)
		return errors.New("discard")
	})
	assert.EqualError(t, err, "discard")

	got, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Level)
}

func TestRoster_SaveRacingDeleteNeverOrphans(t *testing.T) {
	r := roster.New()
	ctx := context.Background()
	for round := 0; round < 200; round++ {
		require.NoError(t, r.Save(ctx, sheet("a")))
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := sheet("a")
			c.Level = round + 2
			_ = r.Save(ctx, c)
		}()
		go func() {
			defer wg.Done()
			_ = r.Delete(ctx, "a")
		}()
		wg.Wait()

		// Whatever order won, a later save must be the one readers see.
		final := sheet("a")
		final.Level = 99
		require.NoError(t, r.Save(ctx, final))
		got, err := r.Get(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, 99, got.Level, "round %d", round)
		list, err := r.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
	}
}

func TestRoster_DamageNeverEscapesBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := roster.New()
		if err := r.Add(sheet("a")); err != nil {
			rt.Fatal(err)
		}
		hits := rapid.SliceOf(rapid.IntRange(0, 60)).Draw(rt, "hits")
		for _, h := range hits {
			_ = r.Do("a", func(c *character.Character) error {
				c.HP.Damage(h)
				return nil
			})
		}
		c, err := r.Get(context.Background(), "a")
		if err != nil {
			rt.Fatal(err)
		}
		if c.HP.Current < 0 || c.HP.Current > c.HP.Max {
			rt.Fatalf("hp %d/%d", c.HP.Current, c.HP.Max)
		}
	})
}
