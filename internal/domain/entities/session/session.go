// Package session provides the Session aggregate root.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/challenge"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/profile"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/tier"
)

// Session is the aggregate root for one visitor's pass through the funnel.
// It is created at funnel entry, mutated only through the transition methods
// below, and discarded at session end. The visitor's own actions arrive
// sequentially, but the background cleanup sweep reads and abandons sessions
// from its own goroutine, so every method serializes on the session mutex.
// Concurrent readers (JSON responses, dashboards) must go through Snapshot.
type Session struct {
	mu sync.Mutex

	ID    string `json:"sessionId"`
	State State  `json:"state"`

	Profile    *profile.Profile      `json:"profile,omitempty"`
	Submission *challenge.Submission `json:"submission,omitempty"`
	Score      *challenge.Score      `json:"score,omitempty"`
	Tier       *tier.Assignment      `json:"tier,omitempty"`

	// Cosmetic team assignment, display-only
	Team      string   `json:"team,omitempty"`
	Teammates []string `json:"teammates,omitempty"`

	ExitIntentShown bool   `json:"exitIntentShown"`
	Email           string `json:"email,omitempty"` // for re-engagement, when volunteered

	StartedAt      time.Time  `json:"startedAt"`
	LastActivityAt time.Time  `json:"lastActivityAt"`
	ExitAt         *time.Time `json:"exitAt,omitempty"` // anchor for re-engagement offsets

	// Challenge clock: accrued seconds survive an exit-intent detour
	ChallengeStartedAt      time.Time `json:"challengeStartedAt,omitempty"`
	AccruedChallengeSeconds int       `json:"accruedChallengeSeconds"`
}

// New creates a session at funnel entry with its extracted profile
func New(id string, p *profile.Profile, now time.Time) *Session {
	return &Session{
		ID:             id,
		State:          StateEntry,
		Profile:        p,
		StartedAt:      now,
		LastActivityAt: now,
	}
}

// Touch records activity for idle-timeout bookkeeping
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActivityAt = now
}

// IdleFor returns how long the session has been without activity
func (s *Session) IdleFor(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.LastActivityAt)
}

// CurrentState returns the session's funnel state.
func (s *Session) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State
}

// SetEmail records a volunteered re-engagement email.
func (s *Session) SetEmail(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Email = email
}

// ContactEmail returns the volunteered email, empty when none was given.
func (s *Session) ContactEmail() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Email
}

// ChallengeElapsedSeconds returns the total challenge time accrued so far,
// including the live stretch when the challenge is open.
func (s *Session) ChallengeElapsedSeconds(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := s.AccruedChallengeSeconds
	if s.State == StateChallengeOpen && !s.ChallengeStartedAt.IsZero() {
		elapsed += int(now.Sub(s.ChallengeStartedAt).Seconds())
	}
	return elapsed
}

// Snapshot returns a detached copy for serialization and reporting. The
// nested Profile, Submission, Score, and Tier values are written once by the
// transitions and never mutated afterwards, so sharing the pointers is safe.
func (s *Session) Snapshot() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := &Session{
		ID:                      s.ID,
		State:                   s.State,
		Profile:                 s.Profile,
		Submission:              s.Submission,
		Score:                   s.Score,
		Tier:                    s.Tier,
		Team:                    s.Team,
		Teammates:               append([]string(nil), s.Teammates...),
		ExitIntentShown:         s.ExitIntentShown,
		Email:                   s.Email,
		StartedAt:               s.StartedAt,
		LastActivityAt:          s.LastActivityAt,
		ChallengeStartedAt:      s.ChallengeStartedAt,
		AccruedChallengeSeconds: s.AccruedChallengeSeconds,
	}
	if s.ExitAt != nil {
		exitAt := *s.ExitAt
		cp.ExitAt = &exitAt
	}
	return cp
}

// EnterMasterclass moves Entry -> MasterclassLive and records the cosmetic
// team assignment. The assignment never influences scoring or tiering.
func (s *Session) EnterMasterclass(team string, teammates []string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.IsTerminal() {
		return false, nil
	}
	if s.State != StateEntry {
		return false, invalidTransition(s.State, ActionEnterMasterclass)
	}

	s.State = StateMasterclassLive
	s.Team = team
	s.Teammates = teammates
	s.LastActivityAt = now
	return true, nil
}

// StartChallenge moves MasterclassLive -> ChallengeOpen and starts the clock
func (s *Session) StartChallenge(now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.IsTerminal() {
		return false, nil
	}
	if s.State != StateMasterclassLive {
		return false, invalidTransition(s.State, ActionStartChallenge)
	}

	s.State = StateChallengeOpen
	s.ChallengeStartedAt = now
	s.LastActivityAt = now
	return true, nil
}

// AttachResult moves ChallengeOpen -> Scored with the scored submission and
// its tier. The caller (the engagement controller) is responsible for having
// run the scorer first; a session never holds an unscored submission.
func (s *Session) AttachResult(sub *challenge.Submission, score *challenge.Score, assignment tier.Assignment, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.IsTerminal() {
		return false, nil
	}
	if s.State != StateChallengeOpen {
		return false, invalidTransition(s.State, ActionSubmitChallenge)
	}

	s.Submission = sub
	s.Score = score
	s.Tier = &assignment
	s.State = StateScored
	s.LastActivityAt = now
	return true, nil
}

// Complete moves Scored -> Completed, unconditionally
func (s *Session) Complete(now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.IsTerminal() {
		return false, nil
	}
	if s.State != StateScored {
		return false, invalidTransition(s.State, "complete")
	}

	s.State = StateCompleted
	s.LastActivityAt = now
	return true, nil
}

// MarkExitIntent moves ChallengeOpen -> ExitIntent, pausing the challenge
// clock. A repeated exit signal while already in ExitIntent is a no-op: the
// flag stays set and nothing else changes.
func (s *Session) MarkExitIntent(now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.IsTerminal() {
		return false, nil
	}
	if s.State == StateExitIntent {
		return false, nil
	}
	if s.State != StateChallengeOpen {
		return false, invalidTransition(s.State, ActionExitIntent)
	}

	s.AccruedChallengeSeconds += int(now.Sub(s.ChallengeStartedAt).Seconds())
	s.ChallengeStartedAt = time.Time{}
	s.State = StateExitIntent
	s.ExitIntentShown = true
	exitAt := now
	s.ExitAt = &exitAt
	s.LastActivityAt = now
	return true, nil
}

// ResumeChallenge moves ExitIntent -> ChallengeOpen. Time already accrued on
// the challenge clock is kept.
func (s *Session) ResumeChallenge(now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.IsTerminal() {
		return false, nil
	}
	if s.State != StateExitIntent {
		return false, invalidTransition(s.State, ActionResume)
	}

	s.State = StateChallengeOpen
	s.ChallengeStartedAt = now
	s.LastActivityAt = now
	return true, nil
}

// Abandon moves any non-terminal state -> Abandoned
func (s *Session) Abandon(now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State.IsTerminal() {
		return false, nil
	}

	if s.State == StateChallengeOpen {
		s.AccruedChallengeSeconds += int(now.Sub(s.ChallengeStartedAt).Seconds())
		s.ChallengeStartedAt = time.Time{}
	}
	s.State = StateAbandoned
	if s.ExitAt == nil {
		exitAt := now
		s.ExitAt = &exitAt
	}
	s.LastActivityAt = now
	return true, nil
}

// CheckInvariants verifies the aggregate's structural invariants. It is used
// by tests and the sysop diagnostics endpoint; a healthy session always
// passes.
func (s *Session) CheckInvariants() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.State.Valid() {
		return fmt.Errorf("session %s: unknown state %q", s.ID, s.State)
	}
	if s.Submission != nil && s.Profile == nil {
		return fmt.Errorf("session %s: submission present without profile", s.ID)
	}
	if (s.Score != nil) != (s.Submission != nil) {
		return fmt.Errorf("session %s: score and submission presence must match", s.ID)
	}
	if (s.Tier != nil) != (s.Score != nil) {
		return fmt.Errorf("session %s: tier and score presence must match", s.ID)
	}
	if (s.State == StateScored || s.State == StateCompleted) && s.Tier == nil {
		return fmt.Errorf("session %s: state %s requires a tier", s.ID, s.State)
	}
	if s.State == StateExitIntent && !s.ExitIntentShown {
		return fmt.Errorf("session %s: exit intent state without flag", s.ID)
	}
	return nil
}
