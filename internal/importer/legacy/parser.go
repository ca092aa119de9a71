package legacy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ParseRoster parses a roster export. Two shapes are accepted: a JSON array
// of sheets, or an object keyed by character id (the browser's storage form).
// Object rosters are returned ordered by key; a key fills a missing sheet id.
//
// Postcondition: returns a non-empty slice or a non-nil error.
func ParseRoster(data []byte) ([]*Sheet, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("parsing roster: empty input")
	}

	var sheets []*Sheet
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &sheets); err != nil {
			return nil, fmt.Errorf("parsing roster array: %w", err)
		}
	case '{':
		var byID map[string]*Sheet
		if err := json.Unmarshal(trimmed, &byID); err != nil {
			return nil, fmt.Errorf("parsing roster object: %w", err)
		}
		keys := make([]string, 0, len(byID))
		for k := range byID {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s := byID[k]
			if s == nil {
				continue
			}
			if s.ID == "" {
				s.ID = k
			}
			sheets = append(sheets, s)
		}
	default:
		return nil, fmt.Errorf("parsing roster: expected a JSON array or object, got %q", trimmed[0])
	}

	out := sheets[:0]
	for _, s := range sheets {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("parsing roster: no characters")
	}
	return out, nil
}
