/*
clock.go - Time and randomness abstractions

PURPOSE:
  The engine never touches time.Now, time.AfterFunc, or math/rand directly.
  Everything flows through Clock and RNG so tests can drive timers and
  crit rolls deterministically.

TIMER CONTRACT:
  AfterFunc fires fn once after d, on its own goroutine for the system
  clock. Stop cancels a pending fire; it returns false when the callback
  already ran or was already stopped. Because Stop can lose that race,
  timer owners must not rely on Stop alone: every callback re-validates
  the record or generation it was scheduled for before acting.

SEE ALSO:
  - combo.go: Generation-guarded countdown timer
  - effects.go: Record-id-guarded expiry timers
*/
package engine

import (
	"math/rand"
	"sync"
	"time"
)

// =============================================================================
// CLOCK
// =============================================================================

// Clock provides current time and one-shot timers.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the timer. Returns false if it already fired or was
	// already stopped.
	Stop() bool
}

// SystemClock is the production Clock backed by the time package.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// =============================================================================
// RNG
// =============================================================================

// RNG yields uniform draws in [0, 1).
type RNG interface {
	Float64() float64
}

// LockedRand is a concurrency-safe RNG over a rand.Rand source.
type LockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewLockedRand(seed int64) *LockedRand {
	return &LockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *LockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
