package domain

import (
	"math/rand"
	"sync"
)

// Rand is the source of pseudo-randomness for fallback providers and
// severity jitter. *lockedRand satisfies it; tests inject a fixed seed via
// NewRand to make fallback output reproducible.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// NewRand returns a goroutine-safe Rand seeded with the given value.
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

// lockedRand guards a *rand.Rand with a mutex. The fan-out runs provider
// fallbacks on separate goroutines, and *rand.Rand is not safe for
// concurrent use.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// FloatBetween returns a pseudo-random float64 in [min, max).
func FloatBetween(r Rand, min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// IntBetween returns a pseudo-random int in [min, max].
func IntBetween(r Rand, min, max int) int {
	return min + r.Intn(max-min+1)
}
