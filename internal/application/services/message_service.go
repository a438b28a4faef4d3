package services

import (
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/messages"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/profile"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/tier"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
)

// MessageService renders personalized nuggets and re-engagement emails from
// the compiled template registry.
type MessageService struct {
	registry *messages.Registry
	logger   *logging.ChanneledLogger
}

// NewMessageService creates a message service with the default registry.
func NewMessageService(logger *logging.ChanneledLogger) *MessageService {
	return &MessageService{
		registry: messages.DefaultRegistry(),
		logger:   logger,
	}
}

// Registry exposes the template registry for totality checks.
func (s *MessageService) Registry() *messages.Registry {
	return s.registry
}

// ComposeNugget renders the nugget set for a profile.
func (s *MessageService) ComposeNugget(p *profile.Profile, sessionID string) (*messages.Nugget, error) {
	nugget, err := s.registry.ComposeNugget(p)
	if err != nil {
		s.logger.Funnel().Error("Nugget composition failed",
			"sessionId", sessionID, "role", p.Role, "error", err.Error())
		return nil, err
	}
	return nugget, nil
}

// ComposeEmail renders one re-engagement email variant.
func (s *MessageService) ComposeEmail(p *profile.Profile, assignment tier.Assignment, variant messages.Variant, sessionID string) (*messages.Email, error) {
	email, err := s.registry.ComposeEmail(p, assignment, variant)
	if err != nil {
		s.logger.Email().Error("Email composition failed",
			"sessionId", sessionID,
			"tier", assignment.Tier,
			"variant", variant,
			"error", err.Error())
		return nil, err
	}
	return email, nil
}
