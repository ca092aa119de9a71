package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
	"sync"

	toolkitdice "github.com/KirkDiggler/rpg-toolkit/dice"
)

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are cryptographically secure and uniformly
// distributed in [0, n) for any n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// seededSource is a deterministic Source for replays and tests.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source. Equal seeds yield equal sequences.
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// toolkitSource adapts an rpg-toolkit dice.Roller to Source.
type toolkitSource struct {
	roller toolkitdice.Roller
}

// NewToolkitSource returns a Source backed by roller.
// A nil roller selects the toolkit's DefaultRoller.
func NewToolkitSource(roller toolkitdice.Roller) Source {
	if roller == nil {
		roller = toolkitdice.DefaultRoller
	}
	return &toolkitSource{roller: roller}
}

// Intn maps the toolkit's 1-based die roll onto [0, n).
//
// Precondition: n > 0. Panics if the toolkit roller fails.
func (t *toolkitSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	v, err := t.roller.Roll(n)
	if err != nil {
		panic("dice: toolkit roller failure: " + err.Error())
	}
	return v - 1
}
