package session

import (
	"fmt"
	"sort"
	"sync"
)

// Manager tracks open sessions so a character is driven by at most one
// session at a time. All methods are safe for concurrent use.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // character id → session
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Open builds and registers a session for cfg.CharacterID.
//
// Precondition: cfg satisfies New.
// Postcondition: returns an error if the character already has an open session.
func (m *Manager) Open(cfg Config) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[cfg.CharacterID]; exists {
		return nil, fmt.Errorf("character %q already has an open session", cfg.CharacterID)
	}
	s := New(cfg)
	m.sessions[cfg.CharacterID] = s
	return s, nil
}

// Close unregisters the session for characterID.
//
// Postcondition: returns an error if no session is open for characterID.
func (m *Manager) Close(characterID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[characterID]; !exists {
		return fmt.Errorf("character %q has no open session", characterID)
	}
	delete(m.sessions, characterID)
	return nil
}

// Get returns the open session for characterID.
func (m *Manager) Get(characterID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[characterID]
	return s, ok
}

// OpenIDs returns the ids of every open session, sorted.
func (m *Manager) OpenIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
