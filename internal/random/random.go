// internal/random/random.go
//
// Unbiased shuffling and sampling without replacement.
//
// Notes:
//   - Shuffle is Fisher–Yates (via math/rand/v2), so every permutation is equally likely.
//   - New() seeds from crypto/rand; NewSeeded gives reproducible sequences for tests
//     and the daily challenge.
//   - A Selector is safe for concurrent use.

package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Selector wraps a PRNG.
type Selector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Selector seeded from crypto/rand.
func New() *Selector {
	var b [16]byte
	_, _ = crand.Read(b[:])
	return NewSeeded(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))
}

// NewSeeded returns a deterministic Selector.
func NewSeeded(seed1, seed2 uint64) *Selector {
	return &Selector{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// Shuffle pseudo-randomly permutes n elements using swap.
func (s *Selector) Shuffle(n int, swap func(i, j int)) {
	if n < 2 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(n, swap)
}

// Sample returns n distinct elements of items in random order.
// items is not modified. n is clamped to [0, len(items)].
func Sample[T any](s *Selector, items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}
	cp := make([]T, len(items))
	copy(cp, items)
	s.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	return cp[:n:n]
}
