// Package services provides the funnel orchestration services
package services

import (
	"unicode/utf8"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/profile"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/performance"
	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// ProfileService extracts a visitor profile from pasted resume text.
type ProfileService struct {
	registry    *profile.Registry
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewProfileService creates a profile service with the default keyword registry.
func NewProfileService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ProfileService {
	return &ProfileService{
		registry:    profile.DefaultRegistry(),
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// ExtractProfile derives a profile from resume text. Extraction never fails:
// text with no recognizable signals yields the unknown role and band.
func (s *ProfileService) ExtractProfile(resumeText, sessionID string) *profile.Profile {
	marker := s.perfTracker.StartOperation("profile_extraction", sessionID)
	defer marker.Complete()

	resumeText, truncated := truncateResume(resumeText, config.ResumeTextMaxChars)

	p := profile.Extract(resumeText, s.registry)
	marker.SetSuccess(true)

	s.logger.Funnel().Debug("Profile extracted",
		"sessionId", sessionID,
		"role", p.Role,
		"band", p.ExperienceBand,
		"skills", len(p.Skills),
		"truncated", truncated)
	return p
}

// truncateResume caps resume text at maxChars bytes without splitting a
// multi-byte rune at the cut point.
func truncateResume(text string, maxChars int) (string, bool) {
	if len(text) <= maxChars {
		return text, false
	}
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], true
}
