// Package ruleset holds the static rules tables: classes, spells, subclass
// themes, slot progression and the expanded spell pool. Tables are loaded once
// from YAML and are read-only afterwards.
package ruleset

import (
	"regexp"
	"strings"
)

// CastingType is how a class manages its leveled spells.
type CastingType string

// Casting types.
const (
	CastingNone     CastingType = "none"
	CastingPrepared CastingType = "prepared"
	CastingKnown    CastingType = "known"
)

// Valid reports whether t is one of the declared casting types.
func (t CastingType) Valid() bool {
	switch t {
	case CastingNone, CastingPrepared, CastingKnown:
		return true
	}
	return false
}

// CasterKind is the breadth of a class's spell access.
type CasterKind string

// Caster kinds.
const (
	CasterNone CasterKind = "none"
	CasterFull CasterKind = "full"
	CasterHalf CasterKind = "half"
)

// Slot table names in progression.yaml.
const (
	SlotTableFull = "full"
	SlotTableHalf = "half"
	SlotTablePact = "pact"
)

// MaxLevel is the highest character level.
const MaxLevel = 20

// SubclassID identifies a subclass theme. The zero value means no subclass chosen.
type SubclassID string

// Known subclass themes.
const (
	SubclassNone               SubclassID = ""
	SubclassSchoolOfEvocation  SubclassID = "school_of_evocation"
	SubclassSchoolOfAbjuration SubclassID = "school_of_abjuration"
	SubclassLifeDomain         SubclassID = "life_domain"
	SubclassLightDomain        SubclassID = "light_domain"
	SubclassDraconicBloodline  SubclassID = "draconic_bloodline"
	SubclassTheFiend           SubclassID = "the_fiend"
	SubclassCircleOfTheMoon    SubclassID = "circle_of_the_moon"
	SubclassCollegeOfLore      SubclassID = "college_of_lore"
)

// ParseSubclass normalizes a display name such as "School of Evocation" into
// its SubclassID. Placeholder text like "Choose subclass at level 3" and blank
// input map to SubclassNone.
func ParseSubclass(name string) SubclassID {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasPrefix(strings.ToLower(name), "choose") {
		return SubclassNone
	}
	return SubclassID(Slug(name))
}

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	nonSlugRE    = regexp.MustCompile(`[^a-z0-9_]`)
)

// Slug derives a stable id from a display name: lowercase, whitespace runs
// become "_", anything outside [a-z0-9_] is dropped.
//
// Postcondition: result matches ^[a-z0-9_]*$ and may be empty.
func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = whitespaceRE.ReplaceAllString(s, "_")
	return nonSlugRE.ReplaceAllString(s, "")
}
