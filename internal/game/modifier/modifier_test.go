package modifier_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/spellbook/internal/game/modifier"
)

func TestSet_AddTotalClear(t *testing.T) {
	var s modifier.Set
	s.Add(modifier.TempModifier{Value: 2, Description: "Bless"})
	s.Add(modifier.TempModifier{Value: -2, Description: "Frightened"})
	s.Add(modifier.TempModifier{Value: 3, Description: "Inspired"})
	assert.Equal(t, 3, s.Total())

	s.Clear()
	assert.Empty(t, s)
	assert.Equal(t, 0, s.Total())
}

func TestSet_Remove(t *testing.T) {
	var s modifier.Set
	s.Add(modifier.TempModifier{Value: 2, Description: "a"})
	s.Add(modifier.TempModifier{Value: 5, Description: "b"})

	m, err := s.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, "a", m.Description)
	assert.Equal(t, 5, s.Total())

	_, err = s.Remove(3)
	assert.Error(t, err)
	assert.Len(t, s, 1)
}

func TestSet_RemoveDoesNotAliasClone(t *testing.T) {
	var s modifier.Set
	s.Add(modifier.TempModifier{Value: 1, Description: "a"})
	s.Add(modifier.TempModifier{Value: 2, Description: "b"})
	c := s.Clone()

	_, err := s.Remove(0)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Total())
	assert.Equal(t, "a", c[0].Description)
}

func TestSet_TotalIsSum(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		values := rapid.SliceOf(rapid.IntRange(-10, 10)).Draw(rt, "values")
		var s modifier.Set
		want := 0
		for _, v := range values {
			s.Add(modifier.TempModifier{Value: v})
			want += v
		}
		assert.Equal(rt, want, s.Total())
	})
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bless.yaml"), []byte("id: bless\nname: Bless\nvalue: 2\ndescription: Blessed\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	reg, err := modifier.LoadDirectory(dir)
	require.NoError(t, err)
	p, ok := reg.Get("bless")
	require.True(t, ok)
	assert.Equal(t, modifier.TempModifier{Value: 2, Description: "Blessed"}, p.Modifier())
	assert.Len(t, reg.All(), 1)
}

func TestLoadDirectory_RejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("id: x\nname: X\nbonus: 2\n"), 0644))
	_, err := modifier.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestPreset_ModifierFallsBackToName(t *testing.T) {
	p := &modifier.Preset{ID: "heroism", Name: "Heroism", Value: 1}
	assert.Equal(t, "Heroism", p.Modifier().Description)
}

func TestLoadDirectory_Content(t *testing.T) {
	reg, err := modifier.LoadDirectory("../../../content/modifiers")
	require.NoError(t, err)
	bane, ok := reg.Get("bane")
	require.True(t, ok)
	assert.Negative(t, bane.Value)
	assert.GreaterOrEqual(t, len(reg.All()), 7)
}
