package session_test

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/spellbook/internal/game/roster"
	"github.com/cory-johannsen/spellbook/internal/game/session"
)

func cfg(id string) session.Config {
	return session.Config{CharacterID: id, Store: roster.New(), Out: &bytes.Buffer{}, Logger: zap.NewNop()}
}

func TestManager_OpenAndClose(t *testing.T) {
	m := session.NewManager()

	s, err := m.Open(cfg("caleb"))
	require.NoError(t, err)
	assert.Equal(t, "caleb", s.CharacterID())
	assert.Equal(t, 1, m.Count())

	got, ok := m.Get("caleb")
	require.True(t, ok)
	assert.Same(t, s, got)

	require.NoError(t, m.Close("caleb"))
	assert.Zero(t, m.Count())
	_, ok = m.Get("caleb")
	assert.False(t, ok)
}

func TestManager_RejectsSecondSession(t *testing.T) {
	m := session.NewManager()
	_, err := m.Open(cfg("caleb"))
	require.NoError(t, err)

	_, err = m.Open(cfg("caleb"))
	assert.ErrorContains(t, err, "already has an open session")
}

func TestManager_CloseUnknown(t *testing.T) {
	assert.ErrorContains(t, session.NewManager().Close("nobody"), "no open session")
}

func TestManager_OpenIDsSorted(t *testing.T) {
	m := session.NewManager()
	for _, id := range []string{"vex", "caleb", "grog"} {
		_, err := m.Open(cfg(id))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"caleb", "grog", "vex"}, m.OpenIDs())
}

func TestManager_ConcurrentOpenOnlyOneWins(t *testing.T) {
	m := session.NewManager()
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Open(cfg("caleb")); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	for i := 0; i < 5; i++ {
		_, err := m.Open(cfg(fmt.Sprintf("npc%d", i)))
		require.NoError(t, err)
	}
	assert.Equal(t, 6, m.Count())
}
