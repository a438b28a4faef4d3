// Package services provides sysop dashboard operations
package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/caching/manager"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/performance"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/security"
	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// ErrInvalidCredentials is returned on a failed sysop login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SysOpService backs the operator dashboard: login and live funnel stats.
type SysOpService struct {
	cacheManager *manager.Manager
	reengagement *ReengagementService
	tiers        *TierService
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewSysOpService creates a new sysop service with injected dependencies
func NewSysOpService(
	cacheManager *manager.Manager,
	reengagement *ReengagementService,
	tiers *TierService,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *SysOpService {
	return &SysOpService{
		cacheManager: cacheManager,
		reengagement: reengagement,
		tiers:        tiers,
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// Login verifies the operator password and issues a dashboard token.
func (s *SysOpService) Login(password string) (string, error) {
	if config.SysOpPasswordHash == "" || config.JWTSecret == "" {
		return "", errors.New("sysop access is not configured")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(config.SysOpPasswordHash), []byte(password)); err != nil {
		s.logger.System().Warn("SysOp login rejected")
		return "", ErrInvalidCredentials
	}

	token, err := security.GenerateSysOpToken(config.JWTSecret)
	if err != nil {
		return "", err
	}

	s.logger.System().Info("SysOp login accepted")
	return token, nil
}

// Authenticate verifies a dashboard token.
func (s *SysOpService) Authenticate(token string) error {
	if config.JWTSecret == "" {
		return errors.New("sysop access is not configured")
	}
	return security.ValidateSysOpToken(token, config.JWTSecret)
}

// TierBand is one discount ladder row in the dashboard payload.
type TierBand struct {
	MinScore    int    `json:"minScore"`
	Tier        string `json:"tier"`
	DiscountPct int    `json:"discountPct"`
}

// Stats is the operator dashboard payload.
type Stats struct {
	UptimeSeconds   int                                    `json:"uptimeSeconds"`
	Sessions        map[string]int                         `json:"sessions"`
	TierCounts      map[string]int                         `json:"tierCounts"`
	TierLadder      []TierBand                             `json:"tierLadder"`
	CounterValue    int64                                  `json:"counterValue"`
	CounterCapacity int64                                  `json:"counterCapacity"`
	Leads           int                                    `json:"leads"`
	PendingEmails   int                                    `json:"pendingEmails"`
	Operations      map[string]*performance.OperationStats `json:"operations"`
}

// GetStats assembles a live snapshot of the funnel.
func (s *SysOpService) GetStats() (*Stats, error) {
	stats := &Stats{
		UptimeSeconds:   int(s.perfTracker.Uptime().Seconds()),
		Sessions:        make(map[string]int),
		TierCounts:      make(map[string]int),
		CounterValue:    s.cacheManager.Counter.Value(),
		CounterCapacity: s.cacheManager.Counter.Capacity(),
		Operations:      s.perfTracker.GetStats(),
	}

	for _, band := range s.tiers.Bands() {
		stats.TierLadder = append(stats.TierLadder, TierBand{
			MinScore:    band.MinScore,
			Tier:        string(band.Tier),
			DiscountPct: band.DiscountPct,
		})
	}

	for state, count := range s.cacheManager.Sessions.StateCounts() {
		stats.Sessions[string(state)] = count
	}

	for _, sess := range s.cacheManager.Sessions.AllSessions() {
		if snap := sess.Snapshot(); snap.Tier != nil {
			stats.TierCounts[string(snap.Tier.Tier)]++
		}
	}

	leads, err := s.reengagement.LeadCount()
	if err != nil {
		return nil, err
	}
	stats.Leads = leads

	pending, err := s.reengagement.PendingCount()
	if err != nil {
		return nil, err
	}
	stats.PendingEmails = pending

	return stats, nil
}
