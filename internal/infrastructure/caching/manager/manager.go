// Package manager composes the cache stores behind a single facade consumed
// by application services.
package manager

import (
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/caching/stores"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
)

// Manager owns the session store and the participant counter
type Manager struct {
	Sessions *stores.SessionStore
	Counter  *stores.CounterStore
}

// NewManager creates the cache manager with its stores
func NewManager(maxSessions int, counterCapacity int64, logger *logging.ChanneledLogger) *Manager {
	return &Manager{
		Sessions: stores.NewSessionStore(maxSessions, logger),
		Counter:  stores.NewCounterStore(counterCapacity),
	}
}
