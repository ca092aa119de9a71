package character

import (
	"fmt"
	"strings"
)

// Ability names one of the six ability scores.
type Ability string

// Ability scores.
const (
	Strength     Ability = "strength"
	Dexterity    Ability = "dexterity"
	Constitution Ability = "constitution"
	Intelligence Ability = "intelligence"
	Wisdom       Ability = "wisdom"
	Charisma     Ability = "charisma"
)

// Abilities lists every ability in sheet order.
var Abilities = []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

var abilityAliases = map[string]Ability{
	"str": Strength, "strength": Strength,
	"dex": Dexterity, "dexterity": Dexterity,
	"con": Constitution, "constitution": Constitution,
	"int": Intelligence, "intelligence": Intelligence,
	"wis": Wisdom, "wisdom": Wisdom,
	"cha": Charisma, "charisma": Charisma,
}

// ParseAbility accepts a full name or three-letter abbreviation in any case.
func ParseAbility(s string) (Ability, error) {
	if a, ok := abilityAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}
	return "", fmt.Errorf("unknown ability %q", s)
}

// Title returns the display label, e.g. "Wisdom".
func (a Ability) Title() string {
	if a == "" {
		return ""
	}
	return strings.ToUpper(string(a[:1])) + string(a[1:])
}

// Stats holds the six ability scores. JSON keys match the legacy sheet.
type Stats struct {
	Str int `json:"str"`
	Dex int `json:"dex"`
	Con int `json:"con"`
	Int int `json:"int"`
	Wis int `json:"wis"`
	Cha int `json:"cha"`
}

// StandardArray is the score set assigned by the builder, in sheet order.
var StandardArray = Stats{Str: 15, Dex: 14, Con: 13, Int: 12, Wis: 10, Cha: 8}

// Score returns the raw score for a. Unknown abilities return 10.
func (s Stats) Score(a Ability) int {
	switch a {
	case Strength:
		return s.Str
	case Dexterity:
		return s.Dex
	case Constitution:
		return s.Con
	case Intelligence:
		return s.Int
	case Wisdom:
		return s.Wis
	case Charisma:
		return s.Cha
	}
	return 10
}

// Modifier returns floor((score-10)/2). A score of 9 yields -1.
func (s Stats) Modifier(a Ability) int {
	return ScoreModifier(s.Score(a))
}

// ScoreModifier is the floor-division ability modifier for a raw score.
func ScoreModifier(score int) int {
	d := score - 10
	if d < 0 {
		return (d - 1) / 2
	}
	return d / 2
}

// Valid reports whether every score is positive.
func (s Stats) Valid() bool {
	for _, a := range Abilities {
		if s.Score(a) < 1 {
			return false
		}
	}
	return true
}
