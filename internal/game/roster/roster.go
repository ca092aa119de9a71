// Package roster holds characters in memory and serializes mutations per
// character. It backs the memory storage driver.
package roster

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cory-johannsen/spellbook/internal/game/character"
	"github.com/cory-johannsen/spellbook/internal/storage"
)

// entry guards one character. write serializes Do calls for the whole
// read-modify-write; mu only guards the pointer, so readers never wait on fn.
type entry struct {
	write sync.Mutex
	mu    sync.Mutex
	c     *character.Character
}

func (e *entry) load() *character.Character {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.c
}

// Roster tracks characters by id. All methods are safe for concurrent use.
type Roster struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
}

var (
	_ storage.CharacterStore = (*Roster)(nil)
	_ storage.Locker         = (*Roster)(nil)
)

// New creates an empty Roster.
func New() *Roster {
	return &Roster{entries: make(map[string]*entry), now: time.Now}
}

// Add registers c.
//
// Precondition: c.ID is non-empty.
// Postcondition: returns an error if the id is already present.
func (r *Roster) Add(c *character.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[c.ID]; exists {
		return fmt.Errorf("character %q already on the roster", c.ID)
	}
	r.entries[c.ID] = &entry{c: c.Clone()}
	return nil
}

func (r *Roster) lookup(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// Do runs fn against character id while holding that character's lock.
// fn receives a private copy; the copy replaces the stored character only
// when fn returns nil and the character was not deleted meanwhile.
//
// Postcondition: returns storage.ErrCharacterNotFound for unknown or
// concurrently deleted ids, or fn's error.
func (r *Roster) Do(id string, fn func(c *character.Character) error) error {
	e, ok := r.lookup(id)
	if !ok {
		return storage.ErrCharacterNotFound
	}
	e.write.Lock()
	defer e.write.Unlock()
	next := e.load().Clone()
	if err := fn(next); err != nil {
		return err
	}
	next.UpdatedAt = r.now()

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.entries[id] != e {
		return storage.ErrCharacterNotFound
	}
	e.mu.Lock()
	e.c = next
	e.mu.Unlock()
	return nil
}

// Get returns a copy of character id.
func (r *Roster) Get(_ context.Context, id string) (*character.Character, error) {
	e, ok := r.lookup(id)
	if !ok {
		return nil, storage.ErrCharacterNotFound
	}
	return e.load().Clone(), nil
}

// Save inserts or replaces c. The roster lock is held until the entry is
// updated so a concurrent Delete cannot orphan the write.
func (r *Roster) Save(_ context.Context, c *character.Character) error {
	c.UpdatedAt = r.now()
	stored := c.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[c.ID]
	if !ok {
		r.entries[c.ID] = &entry{c: stored}
		return nil
	}
	e.mu.Lock()
	e.c = stored
	e.mu.Unlock()
	return nil
}

// List returns a summary of every character ordered by id.
func (r *Roster) List(_ context.Context) ([]storage.Summary, error) {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	out := make([]storage.Summary, 0, len(entries))
	for _, e := range entries {
		out = append(out, storage.SummaryOf(e.load()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes character id.
func (r *Roster) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return storage.ErrCharacterNotFound
	}
	delete(r.entries, id)
	return nil
}

// Len returns the number of characters on the roster.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
