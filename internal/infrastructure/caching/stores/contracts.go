package stores

import "github.com/scalerlabs/funnel-engine-go/internal/infrastructure/caching/interfaces"

var (
	_ interfaces.SessionCache       = (*SessionStore)(nil)
	_ interfaces.ParticipantCounter = (*CounterStore)(nil)
)
