package character

// HP tracks hit points. Every mutator keeps 0 <= Current <= Max.
type HP struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Missing returns Max - Current.
func (h HP) Missing() int { return h.Max - h.Current }

// Damage subtracts n (floored at 0) and returns the amount actually removed.
//
// Precondition: n >= 0.
func (h *HP) Damage(n int) int {
	n = min(max(n, 0), h.Current)
	h.Current -= n
	return n
}

// Heal adds n (capped at Max) and returns the amount actually restored.
//
// Precondition: n >= 0.
func (h *HP) Heal(n int) int {
	n = min(max(n, 0), h.Missing())
	h.Current += n
	return n
}

// Set clamps v into [0, Max] and stores it.
func (h *HP) Set(v int) {
	h.Current = min(max(v, 0), h.Max)
}

// Slot is one spell level's slot counter.
type Slot struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// SpellSlots maps spell level 1-9 to its slot counter. Level 0 never has an entry.
type SpellSlots map[int]Slot

// NewSpellSlots builds full slots from a level -> max table.
func NewSpellSlots(table map[int]int) SpellSlots {
	out := make(SpellSlots, len(table))
	for lvl, n := range table {
		out[lvl] = Slot{Current: n, Max: n}
	}
	return out
}

// RestoreAll refills every slot and returns how many slots were regained.
func (s SpellSlots) RestoreAll() int {
	regained := 0
	for lvl, slot := range s {
		regained += slot.Max - slot.Current
		s[lvl] = Slot{Current: slot.Max, Max: slot.Max}
	}
	return regained
}

// Clone returns an independent copy.
func (s SpellSlots) Clone() SpellSlots {
	if s == nil {
		return nil
	}
	out := make(SpellSlots, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
