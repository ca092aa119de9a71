package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Grant is one item+quantity pair in a kit.
type Grant struct {
	Item     string `yaml:"item"`
	Quantity int    `yaml:"quantity"`
	Equipped bool   `yaml:"equipped"`
}

// qty returns the grant quantity, treating an unset quantity as 1.
func (g Grant) qty() int {
	if g.Quantity <= 0 {
		return 1
	}
	return g.Quantity
}

// HighLevelKit is granted by auto-add once a character reaches MinLevel.
type HighLevelKit struct {
	MinLevel int     `yaml:"min_level"`
	Items    []Grant `yaml:"items"`
}

// Kits is the content/kits.yaml table.
type Kits struct {
	// Default is the starting kit for classes without an entry in Classes.
	Default []Grant            `yaml:"default"`
	Classes map[string][]Grant `yaml:"classes"`
	// Common is the list auto-add draws from, taking the first CommonLimit entries.
	Common      []Grant      `yaml:"common"`
	CommonLimit int          `yaml:"common_limit"`
	HighLevel   HighLevelKit `yaml:"high_level"`
}

// LoadKits reads the kit table from path.
//
// Precondition: path is a readable YAML file.
// Postcondition: returns the parsed Kits or a wrapped error.
func LoadKits(path string) (*Kits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading kits %q: %w", path, err)
	}
	var k Kits
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&k); err != nil {
		return nil, fmt.Errorf("parsing kits %q: %w", path, err)
	}
	if k.CommonLimit < 0 {
		return nil, fmt.Errorf("kits %q: common_limit must be >= 0", path)
	}
	return &k, nil
}

// Validate checks that every granted item is registered in reg.
func (k *Kits) Validate(reg *Registry) error {
	var errs []error
	check := func(where string, grants []Grant) {
		for _, g := range grants {
			if _, ok := reg.Item(g.Item); !ok {
				errs = append(errs, fmt.Errorf("%s: unknown item %q", where, g.Item))
			}
		}
	}
	check("default", k.Default)
	for class, grants := range k.Classes {
		check("classes."+class, grants)
	}
	check("common", k.Common)
	check("high_level", k.HighLevel.Items)
	return errors.Join(errs...)
}

// Starting returns the creation kit for classID: the class list when one
// exists, else Default.
func (k *Kits) Starting(classID string) []Grant {
	if grants, ok := k.Classes[classID]; ok && len(grants) > 0 {
		return grants
	}
	return k.Default
}

// AutoAdd returns the candidate grants for an auto-add at level: the class
// list, the first CommonLimit common items, and the high-level list once
// level >= HighLevel.MinLevel.
func (k *Kits) AutoAdd(classID string, level int) []Grant {
	var out []Grant
	out = append(out, k.Classes[classID]...)
	common := k.Common
	if len(common) > k.CommonLimit {
		common = common[:k.CommonLimit]
	}
	out = append(out, common...)
	if k.HighLevel.MinLevel > 0 && level >= k.HighLevel.MinLevel {
		out = append(out, k.HighLevel.Items...)
	}
	return out
}

// Instantiate adds each grant whose item id is not already in b, and returns
// how many entries were added. Grants of the same id later in the list are
// skipped as well.
//
// Precondition: every grant references an item registered in reg.
// Postcondition: on error b is unchanged.
func Instantiate(b *Backpack, reg *Registry, grants []Grant) (int, error) {
	next := b.Clone()
	added := 0
	for _, g := range grants {
		if next.Has(g.Item) {
			continue
		}
		def, ok := reg.Item(g.Item)
		if !ok {
			return 0, fmt.Errorf("inventory: unknown item %q", g.Item)
		}
		if _, err := next.Add(def, g.qty(), g.Equipped); err != nil {
			return 0, err
		}
		added++
	}
	*b = next
	return added, nil
}
