// Package interfaces defines the cache contracts consumed by application
// services, keeping them decoupled from the concrete store implementations.
package interfaces

import "github.com/scalerlabs/funnel-engine-go/internal/domain/entities/session"

// SessionCache is the contract for in-memory session storage. Sessions live
// only for the duration of the funnel; nothing here persists across restarts.
type SessionCache interface {
	GetSession(sessionID string) (*session.Session, bool)
	SetSession(s *session.Session)
	RemoveSession(sessionID string)
	AllSessions() []*session.Session
	SessionCount() int
}

// ParticipantCounter is the advisory live-participation display value. It is
// tolerant of approximate counting and must never gate funnel logic.
type ParticipantCounter interface {
	Increment() int64
	Value() int64
	Capacity() int64
}
