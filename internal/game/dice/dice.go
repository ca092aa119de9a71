// Package dice provides the shared randomness abstraction and roll-result
// types used by spells, abilities, saves and rests.
package dice

import (
	"fmt"
	"strings"
)

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original notation, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // notation modifier plus any flat bonus (may be negative)
}

// Total returns the sum of all die results plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	diceStr := fmt.Sprintf("%v", r.Dice)
	modStr := fmt.Sprintf("%+d", r.Modifier)
	return fmt.Sprintf("%s → %s %s = %d", r.Expression, diceStr, modStr, r.Total())
}

// DiceList renders the individual dice as "[a, b, c]" for battle log lines.
func (r RollResult) DiceList() string {
	parts := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// CheckResult is the outcome of a single d20 check.
//
// Invariant: Total == Natural + Modifier + Temp.
// Critical and Fumble are informational only; no mechanic reads them.
type CheckResult struct {
	Natural  int  // raw d20 face
	Modifier int  // ability/proficiency modifier
	Temp     int  // sum of active temporary modifiers
	Total    int  // Natural + Modifier + Temp
	Critical bool // natural 20
	Fumble   bool // natural 1
}

// TempNote returns " [Temp: ±N]" when temporary modifiers contributed, or "".
func (r CheckResult) TempNote() string {
	if r.Temp == 0 {
		return ""
	}
	return fmt.Sprintf(" [Temp: %+d]", r.Temp)
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
