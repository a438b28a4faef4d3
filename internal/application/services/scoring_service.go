package services

import (
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/challenge"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/performance"
	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// ScoringService evaluates challenge submissions against the rubric.
type ScoringService struct {
	rubric      *challenge.Rubric
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewScoringService creates a scoring service with the default rubric.
func NewScoringService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ScoringService {
	return &ScoringService{
		rubric:      challenge.DefaultRubric(config.ChallengeTimeLimitSeconds),
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Rubric exposes the active rubric for prompt and validation metadata.
func (s *ScoringService) Rubric() *challenge.Rubric {
	return s.rubric
}

// ScoreSubmission validates and scores a submission. Identical submissions
// always produce identical scores.
func (s *ScoringService) ScoreSubmission(sub *challenge.Submission, sessionID string) (*challenge.Score, error) {
	marker := s.perfTracker.StartOperation("challenge_scoring", sessionID)
	defer marker.Complete()

	score, err := challenge.Evaluate(sub, s.rubric)
	if err != nil {
		marker.SetError(err)
		s.logger.Scoring().Warn("Submission rejected",
			"sessionId", sessionID,
			"elapsedSeconds", sub.ElapsedSeconds,
			"error", err.Error())
		return nil, err
	}

	marker.SetSuccess(true)
	s.logger.Scoring().Info("Submission scored",
		"sessionId", sessionID,
		"score", score.Value,
		"feedbackTags", score.FeedbackTags,
		"elapsedSeconds", sub.ElapsedSeconds)
	return score, nil
}
