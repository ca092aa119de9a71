package legacy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/spellbook/internal/importer/legacy"
	"github.com/cory-johannsen/spellbook/internal/testutil"
)

func writeRoster(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestSource_Load(t *testing.T) {
	content := testutil.LoadContent(t)
	path := writeRoster(t, `{
		"grog": {"name": "Grog", "class": "barbarian", "level": 5, "hp": {"current": 40, "max": 55}},
		"caleb": {"name": "Caleb", "class": "wizard", "level": 5, "stats": {"str": 8}}
	}`)

	results, err := legacy.NewSource(content.Rules, content.Items).Load(path)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "caleb", results[0].Character.ID)
	assert.NotEmpty(t, results[0].Warnings, "partial stats are replaced")
	assert.Equal(t, 40, results[1].Character.HP.Current)
}

func TestSource_LoadErrors(t *testing.T) {
	content := testutil.LoadContent(t)
	src := legacy.NewSource(content.Rules, content.Items)

	_, err := src.Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "reading roster")

	_, err = src.Load(writeRoster(t, `[{"name": "Grog", "level": 0}]`))
	assert.ErrorContains(t, err, "converting sheet 0")

	_, err = src.Load(writeRoster(t, `[{"name": "Grog", "class": "barbarian", "level": 1},
		{"name": "grog", "class": "fighter", "level": 2}]`))
	assert.ErrorContains(t, err, `duplicate character id "grog"`)
}
