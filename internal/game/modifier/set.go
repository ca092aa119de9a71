package modifier

import "fmt"

// TempModifier is one transient additive modifier applied to d20 rolls.
type TempModifier struct {
	Value       int    `json:"value"`
	Description string `json:"description"`
}

// Set is the ordered list of active modifiers on a character.
// It is not safe for concurrent use; the caller must serialise access.
type Set []TempModifier

// Add appends m.
func (s *Set) Add(m TempModifier) {
	*s = append(*s, m)
}

// Remove deletes the modifier at index i.
//
// Postcondition: on error the set is unchanged.
func (s *Set) Remove(i int) (TempModifier, error) {
	if i < 0 || i >= len(*s) {
		return TempModifier{}, fmt.Errorf("modifier: index %d out of range [0,%d)", i, len(*s))
	}
	m := (*s)[i]
	*s = append((*s)[:i:i], (*s)[i+1:]...)
	return m, nil
}

// Clear removes every modifier.
//
// Postcondition: Total() == 0.
func (s *Set) Clear() {
	*s = nil
}

// Total returns the sum of all modifier values.
func (s Set) Total() int {
	total := 0
	for _, m := range s {
		total += m.Value
	}
	return total
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	copy(out, s)
	return out
}
