package services

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/challenge"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/messages"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/session"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/events"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/caching/manager"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/messaging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/performance"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/security"
	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// ErrSessionNotFound is returned for session IDs with no live session.
var ErrSessionNotFound = errors.New("session not found")

// ErrNotScored is returned when a tier-dependent view is requested before
// the session has been scored.
var ErrNotScored = errors.New("session not scored yet")

// ChallengePrompt is the task every participant works on.
const ChallengePrompt = "Optimize a customer segmentation pipeline: include feature ideas, a validation strategy, and a plan to productionize the model."

// EngagementService orchestrates a visitor's pass through the funnel. It is
// the only writer of session state; every transition goes through the
// aggregate's methods so the state machine stays closed.
type EngagementService struct {
	cacheManager *manager.Manager
	profiles     *ProfileService
	scoring      *ScoringService
	tiers        *TierService
	messenger    *MessageService
	reengagement *ReengagementService
	broadcaster  *messaging.CounterBroadcaster
	roster       *session.TeamRoster
	teamSeq      atomic.Uint64
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

// NewEngagementService creates the engagement orchestrator with its dependencies.
func NewEngagementService(
	cacheManager *manager.Manager,
	profiles *ProfileService,
	scoring *ScoringService,
	tiers *TierService,
	messenger *MessageService,
	reengagement *ReengagementService,
	broadcaster *messaging.CounterBroadcaster,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *EngagementService {
	return &EngagementService{
		cacheManager: cacheManager,
		profiles:     profiles,
		scoring:      scoring,
		tiers:        tiers,
		messenger:    messenger,
		reengagement: reengagement,
		broadcaster:  broadcaster,
		roster:       session.DefaultTeamRoster(),
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// ActionResult reports the outcome of a funnel action. Ignored is set when
// the session was already terminal and the action was a no-op.
type ActionResult struct {
	Ignored bool          `json:"ignored"`
	State   session.State `json:"state"`
}

// SubmitResult carries the scored outcome back to the presentation layer.
type SubmitResult struct {
	Ignored      bool     `json:"ignored"`
	State        string   `json:"state"`
	Score        int      `json:"score,omitempty"`
	FeedbackTags []string `json:"feedbackTags,omitempty"`
	Tier         string   `json:"tier,omitempty"`
	DiscountPct  int      `json:"discountPct,omitempty"`
	Headline     string   `json:"headline,omitempty"`
	ClaimToken   string   `json:"claimToken,omitempty"`
}

// StartSession runs funnel entry: extract the profile, create the session,
// move it into the live masterclass with a team, and bump the participant
// counter.
func (s *EngagementService) StartSession(resumeText, email string) (*session.Session, int64, error) {
	sessionID := security.GenerateULID()
	marker := s.perfTracker.StartOperation("session_start", sessionID)
	defer marker.Complete()

	now := time.Now().UTC()
	p := s.profiles.ExtractProfile(resumeText, sessionID)

	sess := session.New(sessionID, p, now)
	sess.Email = email

	team, teammates := s.roster.Assign(s.teamSeq.Add(1) - 1)
	if _, err := sess.EnterMasterclass(team, teammates, now); err != nil {
		marker.SetError(err)
		return nil, 0, err
	}

	s.cacheManager.Sessions.SetSession(sess)

	counterValue := s.cacheManager.Counter.Increment()
	s.broadcaster.Broadcast(counterValue)

	marker.SetSuccess(true)
	s.logger.Funnel().Info("Session started",
		"sessionId", sessionID,
		"role", p.Role,
		"team", team,
		"participants", counterValue)
	return sess.Snapshot(), counterValue, nil
}

// GetSession returns a snapshot of a live session by ID. Callers get a
// detached copy because the cleanup sweep mutates the cached aggregate from
// its own goroutine.
func (s *EngagementService) GetSession(sessionID string) (*session.Session, error) {
	sess, err := s.liveSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Snapshot(), nil
}

// liveSession returns the shared cached aggregate for mutation.
func (s *EngagementService) liveSession(sessionID string) (*session.Session, error) {
	sess, exists := s.cacheManager.Sessions.GetSession(sessionID)
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// ProcessEvent dispatches a funnel action event to its handler. Submit events
// go through ProcessSubmission for the richer result.
func (s *EngagementService) ProcessEvent(evt events.Event) (*ActionResult, error) {
	switch evt.Action {
	case session.ActionStartChallenge:
		return s.StartChallenge(evt.SessionID)
	case session.ActionExitIntent:
		return s.MarkExitIntent(evt.SessionID, evt.Email)
	case session.ActionResume:
		return s.ResumeChallenge(evt.SessionID)
	case session.ActionAbandon:
		return s.Abandon(evt.SessionID, evt.Email)
	default:
		return nil, fmt.Errorf("unhandled funnel action %q", evt.Action)
	}
}

// StartChallenge moves the session into the open challenge.
func (s *EngagementService) StartChallenge(sessionID string) (*ActionResult, error) {
	sess, err := s.liveSession(sessionID)
	if err != nil {
		return nil, err
	}

	applied, err := sess.StartChallenge(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.cacheManager.Sessions.SetSession(sess)

	if applied {
		s.logger.Funnel().Info("Challenge started", "sessionId", sessionID)
	}
	return &ActionResult{Ignored: !applied, State: sess.CurrentState()}, nil
}

// ProcessSubmission validates, scores, and tiers a challenge submission, then
// completes the session. An invalid submission leaves the session in the open
// challenge so the visitor can retry.
func (s *EngagementService) ProcessSubmission(sessionID, text string, elapsedSeconds int) (*SubmitResult, error) {
	marker := s.perfTracker.StartOperation("submission_processing", sessionID)
	defer marker.Complete()

	sess, err := s.liveSession(sessionID)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	if state := sess.CurrentState(); state.IsTerminal() {
		return &SubmitResult{Ignored: true, State: string(state)}, nil
	}

	now := time.Now().UTC()
	sub := &challenge.Submission{Text: text, ElapsedSeconds: elapsedSeconds}

	score, err := s.scoring.ScoreSubmission(sub, sessionID)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	assignment := s.tiers.AssignTier(score.Value, sessionID)

	applied, err := sess.AttachResult(sub, score, assignment, now)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}
	if !applied {
		return &SubmitResult{Ignored: true, State: string(sess.CurrentState())}, nil
	}

	if _, err := sess.Complete(now); err != nil {
		marker.SetError(err)
		return nil, err
	}
	s.cacheManager.Sessions.SetSession(sess)

	var claimToken string
	if config.JWTSecret != "" {
		claimToken, err = security.GenerateClaimToken(sessionID, &assignment, config.JWTSecret)
		if err != nil {
			s.logger.Funnel().Error("Claim token generation failed", "sessionId", sessionID, "error", err.Error())
			claimToken = ""
		}
	}

	if email := sess.ContactEmail(); email != "" {
		if _, err := s.reengagement.CaptureLead(sess.Snapshot(), email, "challenge_completed"); err != nil {
			s.logger.Funnel().Error("Lead capture after scoring failed", "sessionId", sessionID, "error", err.Error())
		}
	}

	marker.SetSuccess(true)
	s.logger.Funnel().Info("Submission processed",
		"sessionId", sessionID,
		"score", score.Value,
		"tier", assignment.Tier,
		"discountPct", assignment.DiscountPct)

	return &SubmitResult{
		State:        string(sess.CurrentState()),
		Score:        score.Value,
		FeedbackTags: score.FeedbackTags,
		Tier:         string(assignment.Tier),
		DiscountPct:  assignment.DiscountPct,
		Headline:     assignment.Headline,
		ClaimToken:   claimToken,
	}, nil
}

// MarkExitIntent pauses the challenge for the exit-intent detour. A
// volunteered email is captured for re-engagement. Against a terminal session
// the whole action is a no-op, email included.
func (s *EngagementService) MarkExitIntent(sessionID, email string) (*ActionResult, error) {
	sess, err := s.liveSession(sessionID)
	if err != nil {
		return nil, err
	}

	if state := sess.CurrentState(); state.IsTerminal() {
		return &ActionResult{Ignored: true, State: state}, nil
	}

	applied, err := sess.MarkExitIntent(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if email != "" {
		sess.SetEmail(email)
		if _, err := s.reengagement.CaptureLead(sess.Snapshot(), email, "exit_intent"); err != nil {
			s.logger.Funnel().Error("Lead capture on exit intent failed", "sessionId", sessionID, "error", err.Error())
		}
	}
	s.cacheManager.Sessions.SetSession(sess)

	if applied {
		s.logger.Funnel().Info("Exit intent recorded", "sessionId", sessionID, "emailCaptured", email != "")
	}
	return &ActionResult{Ignored: !applied, State: sess.CurrentState()}, nil
}

// ResumeChallenge restarts the challenge clock after an exit-intent detour.
func (s *EngagementService) ResumeChallenge(sessionID string) (*ActionResult, error) {
	sess, err := s.liveSession(sessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	applied, err := sess.ResumeChallenge(now)
	if err != nil {
		return nil, err
	}
	s.cacheManager.Sessions.SetSession(sess)

	if applied {
		s.logger.Funnel().Info("Challenge resumed",
			"sessionId", sessionID,
			"accruedSeconds", sess.ChallengeElapsedSeconds(now))
	}
	return &ActionResult{Ignored: !applied, State: sess.CurrentState()}, nil
}

// Abandon ends the session from any non-terminal state. A volunteered email
// is captured for re-engagement before the session closes; against a terminal
// session the whole action is a no-op, email included.
func (s *EngagementService) Abandon(sessionID, email string) (*ActionResult, error) {
	sess, err := s.liveSession(sessionID)
	if err != nil {
		return nil, err
	}

	if state := sess.CurrentState(); state.IsTerminal() {
		return &ActionResult{Ignored: true, State: state}, nil
	}

	if email != "" {
		sess.SetEmail(email)
		if _, err := s.reengagement.CaptureLead(sess.Snapshot(), email, "abandoned"); err != nil {
			s.logger.Funnel().Error("Lead capture on abandon failed", "sessionId", sessionID, "error", err.Error())
		}
	}

	applied, err := sess.Abandon(time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.cacheManager.Sessions.SetSession(sess)

	if applied {
		s.logger.Funnel().Info("Session abandoned", "sessionId", sessionID, "emailCaptured", email != "")
	}
	return &ActionResult{Ignored: !applied, State: sess.CurrentState()}, nil
}

// AbandonExpired is the cleanup worker's entry point. Expiry reuses the same
// transition as an explicit abandon.
func (s *EngagementService) AbandonExpired(sessionID, reason string) error {
	sess, err := s.liveSession(sessionID)
	if err != nil {
		return err
	}

	if email := sess.ContactEmail(); email != "" && !sess.CurrentState().IsTerminal() {
		if _, err := s.reengagement.CaptureLead(sess.Snapshot(), email, "expired"); err != nil {
			s.logger.Funnel().Error("Lead capture on expiry failed", "sessionId", sessionID, "error", err.Error())
		}
	}

	applied, err := sess.Abandon(time.Now().UTC())
	if err != nil {
		return err
	}
	s.cacheManager.Sessions.SetSession(sess)

	if applied {
		s.logger.Funnel().Info("Session expired", "sessionId", sessionID, "reason", reason)
	}
	return nil
}

// ComposeNugget renders the personalized nugget for a session's profile.
func (s *EngagementService) ComposeNugget(sessionID string) (*messages.Nugget, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.messenger.ComposeNugget(sess.Profile, sessionID)
}

// PreviewEmail renders a re-engagement email variant for a scored session.
func (s *EngagementService) PreviewEmail(sessionID string, variant messages.Variant) (*messages.Email, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Tier == nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotScored, sessionID)
	}
	return s.messenger.ComposeEmail(sess.Profile, *sess.Tier, variant, sessionID)
}

// ChallengeView is the payload for the challenge screen.
type ChallengeView struct {
	Prompt           string `json:"prompt"`
	TimeLimitSeconds int    `json:"timeLimitSeconds"`
	ElapsedSeconds   int    `json:"elapsedSeconds"`
	State            string `json:"state"`
}

// GetChallenge returns the challenge prompt and clock for a session.
func (s *EngagementService) GetChallenge(sessionID string) (*ChallengeView, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return &ChallengeView{
		Prompt:           ChallengePrompt,
		TimeLimitSeconds: s.scoring.Rubric().TimeLimitSeconds,
		ElapsedSeconds:   sess.ChallengeElapsedSeconds(time.Now().UTC()),
		State:            string(sess.State),
	}, nil
}
