package app

import "sync"

// Random is the randomness used by the app. *rand.Rand from math/rand/v2
// satisfies it.
type Random interface {
	IntN(n int) int
	Float64() float64
}

// lockedRandom serializes access to r. Timer callbacks draw from it
// concurrently with user operations.
type lockedRandom struct {
	mu sync.Mutex
	r  Random
}

func (l *lockedRandom) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRandom) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
