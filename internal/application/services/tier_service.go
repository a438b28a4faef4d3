package services

import (
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/tier"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
)

// TierService maps scores onto discount tiers.
type TierService struct {
	table  *tier.Table
	logger *logging.ChanneledLogger
}

// NewTierService creates a tier service. The default table is validated at
// construction so a misconfigured ladder fails startup instead of a request.
func NewTierService(logger *logging.ChanneledLogger) (*TierService, error) {
	table := tier.DefaultTable()
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &TierService{
		table:  table,
		logger: logger,
	}, nil
}

// AssignTier returns the tier assignment for a score value.
func (s *TierService) AssignTier(scoreValue int, sessionID string) tier.Assignment {
	assignment := s.table.Assign(scoreValue)
	s.logger.Scoring().Debug("Tier assigned",
		"sessionId", sessionID,
		"score", scoreValue,
		"tier", assignment.Tier,
		"discountPct", assignment.DiscountPct)
	return assignment
}

// Bands exposes the ladder for the sysop dashboard.
func (s *TierService) Bands() []tier.Band {
	return s.table.Bands()
}
