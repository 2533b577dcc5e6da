// Package clock supplies wall-clock time to the stores.
//
// Stores never call time.Now directly; they take a Clock so tests can
// substitute a deterministic one (see internal/testutil).
package clock

import (
	"sync"
	"time"
)

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// System is the real wall clock, in UTC.
type System struct{}

// Now returns time.Now in UTC.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Monotonic wraps a Clock so successive readings strictly increase.
//
// Form timestamps must advance on every mutation, but two edits inside one
// clock tick (or a wall clock stepping backwards) would otherwise produce
// equal or decreasing values. A reading that does not pass the previous one
// is bumped to previous+Resolution.
//
// Thread-safety: Monotonic is safe for concurrent use.
type Monotonic struct {
	mu   sync.Mutex
	base Clock
	last time.Time
}

// Resolution is the smallest step Monotonic adds when the base clock stalls.
const Resolution = time.Millisecond

// NewMonotonic wraps base. A nil base uses System.
func NewMonotonic(base Clock) *Monotonic {
	if base == nil {
		base = System{}
	}
	return &Monotonic{base: base}
}

// Now returns a time strictly after every earlier reading.
func (m *Monotonic) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.base.Now()
	if !m.last.IsZero() && !now.After(m.last) {
		now = m.last.Add(Resolution)
	}
	m.last = now
	return now
}

// Observe records t as a past reading so later readings come after it.
// Used when a form loaded from storage carries a newer timestamp than the
// clock has produced this session.
func (m *Monotonic) Observe(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.After(m.last) {
		m.last = t
	}
}
