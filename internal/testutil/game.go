package testutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/game/dice"
	"github.com/cory-johannsen/spellbook/internal/game/inventory"
	"github.com/cory-johannsen/spellbook/internal/game/modifier"
	"github.com/cory-johannsen/spellbook/internal/game/ruleset"
)

// ContentDir returns the absolute path of the repository content directory.
func ContentDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "content")
}

// T is the subset of testing.TB that rapid.T also satisfies.
type T interface {
	Helper()
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	FailNow()
}

// Content bundles every static table loaded from ContentDir.
type Content struct {
	Rules     *ruleset.Ruleset
	Items     *inventory.Registry
	Kits      *inventory.Kits
	Modifiers *modifier.Registry
}

// LoadContent loads the repository content or fails the test.
func LoadContent(t testing.TB) *Content {
	t.Helper()
	dir := ContentDir()
	rules, err := ruleset.Load(dir)
	if err != nil {
		t.Fatalf("loading ruleset: %v", err)
	}
	items, err := inventory.Load(dir)
	if err != nil {
		t.Fatalf("loading items: %v", err)
	}
	kits, err := inventory.LoadKits(filepath.Join(dir, "kits.yaml"))
	if err != nil {
		t.Fatalf("loading kits: %v", err)
	}
	mods, err := modifier.LoadDirectory(filepath.Join(dir, "modifiers"))
	if err != nil {
		t.Fatalf("loading modifiers: %v", err)
	}
	return &Content{Rules: rules, Items: items, Kits: kits, Modifiers: mods}
}

// Build creates a character from content or fails the test.
func (c *Content) Build(t T, name, class string, level int) *character.Character {
	t.Helper()
	ch, err := character.NewBuilder(c.Rules, c.Items, c.Kits).Build(character.Request{
		Name: name, Class: class, Level: level,
	})
	if err != nil {
		t.Fatalf("building %s: %v", name, err)
	}
	return ch
}

// FixedSource always returns v, clamped to n-1, so every die shows v+1 or its maximum.
type FixedSource struct{ V int }

// Intn implements dice.Source.
func (f FixedSource) Intn(n int) int {
	if f.V >= n {
		return n - 1
	}
	return f.V
}

// MaxSource rolls the highest face on every die.
var MaxSource dice.Source = FixedSource{V: 1 << 30}

// MinSource rolls a 1 on every die.
var MinSource dice.Source = FixedSource{V: 0}

// Roller returns a dice.Roller over src with a no-op logger.
func Roller(src dice.Source) *dice.Roller {
	return dice.NewLoggedRoller(src, zap.NewNop())
}
