package ruleset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the full ruleset from a content directory laid out as:
//
//	classes/*.yaml  spells/*.yaml  subclasses/*.yaml  progression.yaml  spell_pool.yaml
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a cross-checked Ruleset or the first error encountered.
func Load(dir string) (*Ruleset, error) {
	rs := New()

	classes, err := LoadClasses(filepath.Join(dir, "classes"))
	if err != nil {
		return nil, err
	}
	for _, c := range classes {
		if err := rs.RegisterClass(c); err != nil {
			return nil, err
		}
	}

	spells, err := LoadSpells(filepath.Join(dir, "spells"))
	if err != nil {
		return nil, err
	}
	for _, s := range spells {
		if err := rs.RegisterSpell(s); err != nil {
			return nil, err
		}
	}

	subs, err := LoadSubclasses(filepath.Join(dir, "subclasses"))
	if err != nil {
		return nil, err
	}
	for _, s := range subs {
		if err := rs.RegisterSubclass(s); err != nil {
			return nil, err
		}
	}

	prog, err := LoadProgression(filepath.Join(dir, "progression.yaml"))
	if err != nil {
		return nil, err
	}
	rs.progression = prog

	pool, err := LoadSpellPool(filepath.Join(dir, "spell_pool.yaml"))
	if err != nil {
		return nil, err
	}
	rs.pool = pool

	return rs, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}

// decodeStrict rejects unknown keys so typos in content fail loudly.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
