package command

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse_Empty(t *testing.T) {
	result := Parse("")
	assert.Equal(t, "", result.Command)
	assert.Nil(t, result.Args)
}

func TestParse_SingleWord(t *testing.T) {
	result := Parse("short")
	assert.Equal(t, "short", result.Command)
	assert.Nil(t, result.Args)
	assert.Equal(t, "", result.RawArgs)
}

func TestParse_Lowercase(t *testing.T) {
	result := Parse("CAST Fire_Bolt")
	assert.Equal(t, "cast", result.Command)
	assert.Equal(t, []string{"Fire_Bolt"}, result.Args)
}

func TestParse_WithArgs(t *testing.T) {
	result := Parse("cast magic_missile 1")
	assert.Equal(t, "cast", result.Command)
	assert.Equal(t, []string{"magic_missile", "1"}, result.Args)
	assert.Equal(t, "magic_missile 1", result.RawArgs)
}

func TestParse_ExtraWhitespace(t *testing.T) {
	result := Parse("  check   stealth   3  ")
	assert.Equal(t, "check", result.Command)
	assert.Equal(t, []string{"stealth", "3"}, result.Args)
	assert.Equal(t, "stealth   3", result.RawArgs)
}

func TestParse_QuotedArgument(t *testing.T) {
	result := Parse(`check "Sleight of Hand" 5`)
	assert.Equal(t, []string{"Sleight of Hand", "5"}, result.Args)

	result = Parse(`modifier custom 2 "Bardic Inspiration`)
	assert.Equal(t, []string{"custom", "2", "Bardic Inspiration"}, result.Args)

	result = Parse(`check "" 1`)
	assert.Equal(t, []string{"", "1"}, result.Args)
}

func TestParse_TabSeparated(t *testing.T) {
	result := Parse("heal\t5")
	assert.Equal(t, "heal", result.Command)
	assert.Equal(t, []string{"5"}, result.Args)
}

func TestFields(t *testing.T) {
	assert.Equal(t, []string{"Shadow Step", "🌑", "", "Teleport 30 feet"},
		Fields("Shadow Step | 🌑 |  | Teleport 30 feet"))
	assert.Equal(t, []string{"one"}, Fields(" one "))
}

func TestPropertyParseAlwaysLowercasesCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[A-Za-z]{1,20}`).Draw(t, "word")
		result := Parse(word)
		if result.Command != strings.ToLower(word) {
			t.Fatalf("command %q not lowercased from %q", result.Command, word)
		}
	})
}

func TestPropertyUnquotedArgsMatchFields(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOfN(rapid.StringMatching(`[a-z0-9_]{1,8}`), 1, 6).Draw(t, "words")
		result := Parse("cmd " + strings.Join(words, "  "))
		if strings.Join(result.Args, ",") != strings.Join(words, ",") {
			t.Fatalf("args %v != %v", result.Args, words)
		}
	})
}
