// Package stores provides concrete cache store implementations
package stores

import "sync/atomic"

// CounterStore implements the advisory live participant counter. The value
// is display-only: it saturates at capacity, tolerates approximation, and is
// never consulted by funnel logic. Increment is atomic because sessions may
// be served by concurrent workers.
type CounterStore struct {
	value    atomic.Int64
	capacity int64
}

// NewCounterStore creates a counter saturating at the given capacity
func NewCounterStore(capacity int64) *CounterStore {
	return &CounterStore{capacity: capacity}
}

// Increment bumps the counter and returns the new value, saturating at capacity
func (cs *CounterStore) Increment() int64 {
	for {
		current := cs.value.Load()
		if current >= cs.capacity {
			return current
		}
		if cs.value.CompareAndSwap(current, current+1) {
			return current + 1
		}
	}
}

// Value returns the current counter value
func (cs *CounterStore) Value() int64 {
	return cs.value.Load()
}

// Capacity returns the display capacity
func (cs *CounterStore) Capacity() int64 {
	return cs.capacity
}
