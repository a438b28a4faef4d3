package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/challenge"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/profile"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/tier"
)

var base = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

func testProfile() *profile.Profile {
	return &profile.Profile{
		Role:           profile.RoleEngineer,
		ExperienceBand: profile.BandMid,
		Skills:         []string{"python", "sql"},
	}
}

func testResult() (*challenge.Submission, *challenge.Score, tier.Assignment) {
	sub := &challenge.Submission{Text: "1. Plan\n2. Ship", ElapsedSeconds: 900}
	score := &challenge.Score{Value: 72, FeedbackTags: []string{"clear-structure"}}
	assignment := tier.DefaultTable().Assign(score.Value)
	return sub, score, assignment
}

// walkTo drives a fresh session to the requested state using fixed timestamps.
func walkTo(t *testing.T, target State) *Session {
	t.Helper()

	s := New("sess-1", testProfile(), base)
	if target == StateEntry {
		return s
	}

	applied, err := s.EnterMasterclass("AI Innovators", []string{"Sarah K."}, base)
	require.NoError(t, err)
	require.True(t, applied)
	if target == StateMasterclassLive {
		return s
	}

	applied, err = s.StartChallenge(base.Add(1 * time.Minute))
	require.NoError(t, err)
	require.True(t, applied)
	if target == StateChallengeOpen {
		return s
	}

	if target == StateExitIntent {
		applied, err = s.MarkExitIntent(base.Add(2 * time.Minute))
		require.NoError(t, err)
		require.True(t, applied)
		return s
	}

	sub, score, assignment := testResult()
	applied, err = s.AttachResult(sub, score, assignment, base.Add(10*time.Minute))
	require.NoError(t, err)
	require.True(t, applied)
	if target == StateScored {
		return s
	}

	applied, err = s.Complete(base.Add(10 * time.Minute))
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, StateCompleted, target, "walkTo does not drive to %s", target)
	return s
}

func TestHappyPathThroughCompletion(t *testing.T) {
	s := New("sess-1", testProfile(), base)
	assert.Equal(t, StateEntry, s.State)
	assert.NoError(t, s.CheckInvariants())

	applied, err := s.EnterMasterclass("Data Wizards", []string{"Alex M.", "Priya S."}, base)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, StateMasterclassLive, s.State)
	assert.Equal(t, "Data Wizards", s.Team)

	applied, err = s.StartChallenge(base.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, StateChallengeOpen, s.State)
	assert.NoError(t, s.CheckInvariants())

	sub, score, assignment := testResult()
	applied, err = s.AttachResult(sub, score, assignment, base.Add(16*time.Minute))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, StateScored, s.State)
	require.NotNil(t, s.Tier)
	assert.Equal(t, assignment.Tier, s.Tier.Tier)
	assert.NoError(t, s.CheckInvariants())

	applied, err = s.Complete(base.Add(16 * time.Minute))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, StateCompleted, s.State)
	assert.True(t, s.State.IsTerminal())
	assert.NoError(t, s.CheckInvariants())
}

func TestActionsAfterTerminalStateAreIgnored(t *testing.T) {
	for _, terminal := range []State{StateCompleted, StateAbandoned} {
		var s *Session
		if terminal == StateCompleted {
			s = walkTo(t, StateCompleted)
		} else {
			s = walkTo(t, StateChallengeOpen)
			applied, err := s.Abandon(base.Add(5 * time.Minute))
			require.NoError(t, err)
			require.True(t, applied)
		}

		now := base.Add(time.Hour)
		sub, score, assignment := testResult()

		checks := []func() (bool, error){
			func() (bool, error) { return s.EnterMasterclass("team", nil, now) },
			func() (bool, error) { return s.StartChallenge(now) },
			func() (bool, error) { return s.AttachResult(sub, score, assignment, now) },
			func() (bool, error) { return s.Complete(now) },
			func() (bool, error) { return s.MarkExitIntent(now) },
			func() (bool, error) { return s.ResumeChallenge(now) },
			func() (bool, error) { return s.Abandon(now) },
		}

		for i, action := range checks {
			applied, err := action()
			assert.NoError(t, err, "state %s action %d", terminal, i)
			assert.False(t, applied, "state %s action %d", terminal, i)
		}
		assert.Equal(t, terminal, s.State)
	}
}

func TestOutOfOrderActionsAreInvalid(t *testing.T) {
	s := New("sess-1", testProfile(), base)

	_, err := s.StartChallenge(base)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.ResumeChallenge(base)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	sub, score, assignment := testResult()
	_, err = s.AttachResult(sub, score, assignment, base)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = s.Complete(base)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	s = walkTo(t, StateChallengeOpen)
	_, err = s.EnterMasterclass("team", nil, base)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExitIntentPausesTheChallengeClock(t *testing.T) {
	s := walkTo(t, StateChallengeOpen)
	challengeStart := base.Add(1 * time.Minute)

	applied, err := s.MarkExitIntent(challengeStart.Add(40 * time.Second))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, StateExitIntent, s.State)
	assert.True(t, s.ExitIntentShown)
	require.NotNil(t, s.ExitAt)
	assert.Equal(t, 40, s.AccruedChallengeSeconds)

	// The clock does not run while the exit-intent screen is up.
	assert.Equal(t, 40, s.ChallengeElapsedSeconds(challengeStart.Add(10*time.Minute)))
	assert.NoError(t, s.CheckInvariants())
}

func TestRepeatedExitIntentIsANoOp(t *testing.T) {
	s := walkTo(t, StateExitIntent)
	firstExit := *s.ExitAt
	accrued := s.AccruedChallengeSeconds

	applied, err := s.MarkExitIntent(base.Add(time.Hour))
	assert.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, StateExitIntent, s.State)
	assert.Equal(t, firstExit, *s.ExitAt)
	assert.Equal(t, accrued, s.AccruedChallengeSeconds)
}

func TestResumeKeepsAccruedTime(t *testing.T) {
	s := walkTo(t, StateExitIntent)
	accrued := s.AccruedChallengeSeconds

	resumeAt := base.Add(30 * time.Minute)
	applied, err := s.ResumeChallenge(resumeAt)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, StateChallengeOpen, s.State)
	assert.Equal(t, accrued, s.AccruedChallengeSeconds)

	// The live stretch after resuming counts on top of the accrued time.
	assert.Equal(t, accrued+20, s.ChallengeElapsedSeconds(resumeAt.Add(20*time.Second)))
}

func TestAbandonFromEveryNonTerminalState(t *testing.T) {
	for _, from := range []State{StateEntry, StateMasterclassLive, StateChallengeOpen, StateExitIntent, StateScored} {
		s := walkTo(t, from)

		applied, err := s.Abandon(base.Add(time.Hour))
		require.NoError(t, err, "from %s", from)
		assert.True(t, applied, "from %s", from)
		assert.Equal(t, StateAbandoned, s.State, "from %s", from)
		assert.NotNil(t, s.ExitAt, "from %s", from)
		assert.NoError(t, s.CheckInvariants(), "from %s", from)
	}
}

func TestAbandonFromOpenChallengeAccruesTime(t *testing.T) {
	s := walkTo(t, StateChallengeOpen)
	challengeStart := base.Add(1 * time.Minute)

	applied, err := s.Abandon(challengeStart.Add(90 * time.Second))
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 90, s.AccruedChallengeSeconds)
}

func TestAbandonKeepsEarlierExitAnchor(t *testing.T) {
	s := walkTo(t, StateExitIntent)
	exitAt := *s.ExitAt

	_, err := s.Abandon(base.Add(2 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, exitAt, *s.ExitAt)
}

func TestCheckInvariantsCatchesBrokenAggregates(t *testing.T) {
	s := New("sess-1", testProfile(), base)
	s.State = State("limbo")
	assert.Error(t, s.CheckInvariants())

	s = New("sess-2", testProfile(), base)
	s.Submission = &challenge.Submission{Text: "x", ElapsedSeconds: 1}
	assert.Error(t, s.CheckInvariants())

	s = walkTo(t, StateScored)
	s.Tier = nil
	assert.Error(t, s.CheckInvariants())

	s = walkTo(t, StateExitIntent)
	s.ExitIntentShown = false
	assert.Error(t, s.CheckInvariants())
}

func TestIdleForTracksLastActivity(t *testing.T) {
	s := New("sess-1", testProfile(), base)
	s.Touch(base.Add(5 * time.Minute))
	assert.Equal(t, 10*time.Minute, s.IdleFor(base.Add(15*time.Minute)))
}

func TestTeamRosterAssignIsDeterministic(t *testing.T) {
	roster := DefaultTeamRoster()

	team1, mates1 := roster.Assign(0)
	team2, mates2 := roster.Assign(0)
	assert.Equal(t, team1, team2)
	assert.Equal(t, mates1, mates2)

	// Team size alternates between two and three teammates.
	assert.Len(t, mates1, 2)
	_, mates3 := roster.Assign(1)
	assert.Len(t, mates3, 3)

	// Round-robin wraps past the roster length.
	teamA, _ := roster.Assign(2)
	teamB, _ := roster.Assign(2 + uint64(len(roster.TeamNames)))
	assert.Equal(t, teamA, teamB)
}

func TestSnapshotIsDetached(t *testing.T) {
	s := walkTo(t, StateExitIntent)
	s.SetEmail("snap@example.com")

	snap := s.Snapshot()
	assert.Equal(t, StateExitIntent, snap.State)
	assert.Equal(t, "snap@example.com", snap.Email)
	require.NotNil(t, snap.ExitAt)

	// Later transitions never leak into an earlier snapshot.
	applied, err := s.ResumeChallenge(base.Add(5 * time.Minute))
	require.NoError(t, err)
	require.True(t, applied)

	assert.Equal(t, StateExitIntent, snap.State)
	assert.Equal(t, StateChallengeOpen, s.CurrentState())
	assert.NoError(t, snap.CheckInvariants())
}

func TestConcurrentTouchAndTransitions(t *testing.T) {
	s := walkTo(t, StateChallengeOpen)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				s.Touch(time.Now().UTC())
				s.IdleFor(time.Now().UTC())
				s.Snapshot()
			}
		}
	}()

	for i := 0; i < 200; i++ {
		s.ChallengeElapsedSeconds(time.Now().UTC())
		s.CurrentState()
	}
	_, err := s.Abandon(time.Now().UTC())
	require.NoError(t, err)
	close(stop)
	<-done

	assert.Equal(t, StateAbandoned, s.CurrentState())
	assert.NoError(t, s.CheckInvariants())
}
