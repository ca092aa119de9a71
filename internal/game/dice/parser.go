package dice

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cory-johannsen/spellbook/internal/errors"
)

// MaxCount and MaxSides bound a single expression.
const (
	MaxCount = 100
	MaxSides = 1000
)

var notationRE = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Expression represents a parsed dice expression ready to be rolled.
// Precondition: Count >= 1, Sides >= 1 after successful Parse.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// Parse parses notation of the form NdM, NdM+K or NdM-K.
// Anything else, including "d20" without a count, is rejected.
//
// Postcondition: Returns an Expression, or an error matching errors.ErrParse.
func Parse(notation string) (Expression, error) {
	raw := notation
	s := strings.ToLower(strings.TrimSpace(notation))
	if s == "" {
		return Expression{}, parseError(raw, "empty expression")
	}
	m := notationRE.FindStringSubmatch(s)
	if m == nil {
		return Expression{}, parseError(raw, "expected NdM[+K|-K]")
	}

	count, err := strconv.Atoi(m[1])
	if err != nil || count < 1 || count > MaxCount {
		return Expression{}, parseError(raw, "die count must be 1-"+strconv.Itoa(MaxCount))
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil || sides < 1 || sides > MaxSides {
		return Expression{}, parseError(raw, "die sides must be 1-"+strconv.Itoa(MaxSides))
	}
	modifier := 0
	if m[3] != "" {
		modifier, err = strconv.Atoi(m[3])
		if err != nil {
			return Expression{}, parseError(raw, "invalid modifier")
		}
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: modifier}, nil
}

// MustParse parses expr and panics on error. Useful for package-level constants.
//
// Precondition: expr must be a valid dice expression.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

func parseError(notation, reason string) error {
	return errors.Newf(errors.CodeParseError, "dice: invalid notation %q: %s", notation, reason).
		WithMeta("notation", notation)
}
