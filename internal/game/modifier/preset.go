// Package modifier models transient additive roll modifiers and the named
// presets (bless, bane, guidance ...) loaded from content/modifiers.
package modifier

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset is the static definition of a named modifier, loaded from YAML.
type Preset struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Value       int    `yaml:"value"`
	Description string `yaml:"description"`
}

// Modifier returns the TempModifier this preset applies.
func (p *Preset) Modifier() TempModifier {
	desc := p.Description
	if desc == "" {
		desc = p.Name
	}
	return TempModifier{Value: p.Value, Description: desc}
}

// Registry holds all known Presets keyed by ID.
type Registry struct {
	defs map[string]*Preset
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Preset)}
}

// Register adds p to the registry, overwriting any existing entry with the same ID.
// Precondition: p must not be nil and p.ID must not be empty.
func (r *Registry) Register(p *Preset) {
	r.defs[p.ID] = p
}

// Get returns the Preset for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Preset, bool) {
	p, ok := r.defs[id]
	return p, ok
}

// All returns every preset sorted by ID.
func (r *Registry) All() []*Preset {
	out := make([]*Preset, 0, len(r.defs))
	for _, p := range r.defs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Preset,
// and returns a populated Registry.
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading modifier dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var p Preset
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("%q: id and name are required", path)
		}
		reg.Register(&p)
	}
	return reg, nil
}
