package inventory

import (
	"fmt"

	"github.com/google/uuid"
)

// ItemInstance is one entry in a character's backpack.
type ItemInstance struct {
	InstanceID string `json:"instance_id"`
	ItemDefID  string `json:"id"`
	Name       string `json:"name"`
	Icon       string `json:"icon,omitempty"`
	Kind       string `json:"type"`
	Quantity   int    `json:"quantity"`
	Equipped   bool   `json:"equipped,omitempty"`
}

// Backpack is a character's ordered item list. Insertion order is display order.
type Backpack []ItemInstance

// Add places quantity units of def into the backpack. Stackable items merge
// into an existing stack of the same definition; anything else becomes a new entry.
//
// Precondition: def is non-nil.
// Postcondition: on success the returned instance reflects the stored entry;
// on error the backpack is unchanged.
func (b *Backpack) Add(def *ItemDef, quantity int, equipped bool) (ItemInstance, error) {
	if quantity <= 0 {
		return ItemInstance{}, fmt.Errorf("backpack: quantity must be > 0, got %d", quantity)
	}
	if def.Stackable {
		if i := b.index(def.ID); i >= 0 {
			(*b)[i].Quantity += quantity
			return (*b)[i], nil
		}
	}
	inst := ItemInstance{
		InstanceID: uuid.New().String(),
		ItemDefID:  def.ID,
		Name:       def.Name,
		Icon:       def.Icon,
		Kind:       def.Kind,
		Quantity:   quantity,
		Equipped:   equipped && def.Equippable(),
	}
	*b = append(*b, inst)
	return inst, nil
}

// Consume removes quantity units of itemDefID from the first matching entry.
// An entry that reaches zero is removed.
//
// Postcondition: on error the backpack is unchanged.
func (b *Backpack) Consume(itemDefID string, quantity int) error {
	i := b.index(itemDefID)
	if i < 0 {
		return fmt.Errorf("backpack: item %q not found", itemDefID)
	}
	if quantity <= 0 || quantity > (*b)[i].Quantity {
		return fmt.Errorf("backpack: cannot remove %d from %q with quantity %d", quantity, itemDefID, (*b)[i].Quantity)
	}
	if quantity == (*b)[i].Quantity {
		*b = append((*b)[:i], (*b)[i+1:]...)
		return nil
	}
	(*b)[i].Quantity -= quantity
	return nil
}

// SetEquipped toggles the Equipped flag on the first entry of itemDefID.
func (b *Backpack) SetEquipped(itemDefID string, equipped bool) error {
	i := b.index(itemDefID)
	if i < 0 {
		return fmt.Errorf("backpack: item %q not found", itemDefID)
	}
	(*b)[i].Equipped = equipped
	return nil
}

// Has reports whether any entry holds itemDefID.
func (b Backpack) Has(itemDefID string) bool {
	return b.index(itemDefID) >= 0
}

// Count returns the total quantity held across entries of itemDefID.
//
// Postcondition: result >= 0.
func (b Backpack) Count(itemDefID string) int {
	n := 0
	for _, inst := range b {
		if inst.ItemDefID == itemDefID {
			n += inst.Quantity
		}
	}
	return n
}

// Clone returns an independent copy.
func (b Backpack) Clone() Backpack {
	if b == nil {
		return nil
	}
	out := make(Backpack, len(b))
	copy(out, b)
	return out
}

func (b Backpack) index(itemDefID string) int {
	for i := range b {
		if b[i].ItemDefID == itemDefID {
			return i
		}
	}
	return -1
}
