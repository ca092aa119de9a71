package ruleset

import (
	"fmt"
	"os"
)

// SubclassDef is a themed spell list for one subclass.
type SubclassDef struct {
	ID       SubclassID       `yaml:"-"`
	Name     string           `yaml:"name"`
	Class    string           `yaml:"class"`
	Cantrips []string         `yaml:"cantrips"`
	Levels   map[int][]string `yaml:"levels"`
}

// LoadSubclasses reads every YAML file in dir as a SubclassDef.
// IDs are derived from Name through ParseSubclass.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed subclasses or a non-nil error.
func LoadSubclasses(dir string) ([]*SubclassDef, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	subs := make([]*SubclassDef, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var s SubclassDef
		if err := decodeStrict(data, &s); err != nil {
			return nil, fmt.Errorf("parsing subclass file %s: %w", path, err)
		}
		s.ID = ParseSubclass(s.Name)
		if s.ID == SubclassNone {
			return nil, fmt.Errorf("subclass file %s: name must not be empty", path)
		}
		if s.Class == "" {
			return nil, fmt.Errorf("subclass %q: class must not be empty", s.ID)
		}
		subs = append(subs, &s)
	}
	return subs, nil
}
