// Package stores provides concrete cache store implementations
package stores

import (
	"sync"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/session"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
)

// SessionStore implements in-memory session caching. The store lock only
// guards the map itself; the session aggregate carries its own mutex because
// the cleanup sweep shares it with the visitor's request goroutine.
type SessionStore struct {
	sessions    map[string]*session.Session
	maxSessions int
	mu          sync.RWMutex
	logger      *logging.ChanneledLogger
}

// NewSessionStore creates a new session cache store
func NewSessionStore(maxSessions int, logger *logging.ChanneledLogger) *SessionStore {
	if logger != nil {
		logger.Cache().Info("Initializing session cache store", "maxSessions", maxSessions)
	}
	return &SessionStore{
		sessions:    make(map[string]*session.Session),
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// GetSession safely retrieves a session by ID
func (ss *SessionStore) GetSession(sessionID string) (*session.Session, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, exists := ss.sessions[sessionID]
	return s, exists
}

// SetSession stores a session. When the store is at capacity new sessions are
// dropped; existing sessions can always be updated.
func (ss *SessionStore) SetSession(s *session.Session) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if _, exists := ss.sessions[s.ID]; !exists && len(ss.sessions) >= ss.maxSessions {
		if ss.logger != nil {
			ss.logger.Cache().Warn("Session store at capacity, dropping session", "sessionId", s.ID, "maxSessions", ss.maxSessions)
		}
		return
	}
	ss.sessions[s.ID] = s
}

// RemoveSession discards a session
func (ss *SessionStore) RemoveSession(sessionID string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, sessionID)
}

// AllSessions returns a snapshot slice of every cached session
func (ss *SessionStore) AllSessions() []*session.Session {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	all := make([]*session.Session, 0, len(ss.sessions))
	for _, s := range ss.sessions {
		all = append(all, s)
	}
	return all
}

// SessionCount returns the number of cached sessions
func (ss *SessionStore) SessionCount() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// StateCounts returns the number of sessions per funnel state for dashboards
func (ss *SessionStore) StateCounts() map[session.State]int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	counts := make(map[session.State]int)
	for _, s := range ss.sessions {
		counts[s.CurrentState()]++
	}
	return counts
}
