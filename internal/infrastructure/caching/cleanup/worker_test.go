package cleanup

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/profile"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/session"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/caching/manager"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
)

// recordingAbandoner applies the abandon transition like the engagement
// controller would and records each call.
type recordingAbandoner struct {
	cacheManager *manager.Manager
	reasons      map[string]string
}

func (a *recordingAbandoner) AbandonExpired(sessionID, reason string) error {
	if a.reasons == nil {
		a.reasons = make(map[string]string)
	}
	a.reasons[sessionID] = reason

	if s, exists := a.cacheManager.Sessions.GetSession(sessionID); exists {
		if _, err := s.Abandon(time.Now().UTC()); err != nil {
			return err
		}
	}
	return nil
}

func newTestWorker(t *testing.T) (*Worker, *manager.Manager, *recordingAbandoner) {
	t.Helper()

	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: true,
		JSONFormat:      true,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)

	cacheManager := manager.NewManager(100, 50, logger)
	abandoner := &recordingAbandoner{cacheManager: cacheManager}

	cfg := &Config{
		Interval:          time.Minute,
		SessionIdleTTL:    45 * time.Minute,
		ChallengeBudget:   30 * time.Minute,
		TerminalRetention: 45 * time.Minute,
	}

	return NewWorker(cacheManager, abandoner, cfg, logger), cacheManager, abandoner
}

func seedSession(cacheManager *manager.Manager, id string, startedAt time.Time) *session.Session {
	s := session.New(id, &profile.Profile{Role: profile.RoleEngineer}, startedAt)
	cacheManager.Sessions.SetSession(s)
	return s
}

func TestSweepAbandonsIdleSessions(t *testing.T) {
	worker, cacheManager, abandoner := newTestWorker(t)
	now := time.Now().UTC()

	idle := seedSession(cacheManager, "idle", now.Add(-2*time.Hour))
	fresh := seedSession(cacheManager, "fresh", now.Add(-5*time.Minute))

	worker.sweep(now)

	assert.Equal(t, session.StateAbandoned, idle.State)
	assert.Equal(t, "session idle timeout", abandoner.reasons["idle"])
	assert.Equal(t, session.StateEntry, fresh.State)
	assert.NotContains(t, abandoner.reasons, "fresh")
}

func TestSweepAbandonsExhaustedChallenges(t *testing.T) {
	worker, cacheManager, abandoner := newTestWorker(t)
	now := time.Now().UTC()

	s := seedSession(cacheManager, "over-budget", now.Add(-40*time.Minute))
	_, err := s.EnterMasterclass("team", nil, now.Add(-40*time.Minute))
	require.NoError(t, err)
	_, err = s.StartChallenge(now.Add(-35 * time.Minute))
	require.NoError(t, err)
	s.Touch(now.Add(-time.Minute)) // active, so idle TTL does not apply

	worker.sweep(now)

	assert.Equal(t, session.StateAbandoned, s.State)
	assert.Equal(t, "challenge time budget exhausted", abandoner.reasons["over-budget"])
}

// The sweep shares session aggregates with request goroutines; this test is
// meaningful under the race detector.
func TestSweepConcurrentWithSessionActivity(t *testing.T) {
	worker, cacheManager, _ := newTestWorker(t)
	now := time.Now().UTC()

	live := seedSession(cacheManager, "live", now)
	_, err := live.EnterMasterclass("team", nil, now)
	require.NoError(t, err)
	_, err = live.StartChallenge(now)
	require.NoError(t, err)

	idle := seedSession(cacheManager, "stale", now.Add(-2*time.Hour))

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				live.Touch(time.Now().UTC())
				live.ChallengeElapsedSeconds(time.Now().UTC())
			}
		}
	}()

	for i := 0; i < 100; i++ {
		worker.sweep(time.Now().UTC())
	}
	close(stop)
	<-done

	assert.Equal(t, session.StateChallengeOpen, live.CurrentState())
	assert.Equal(t, session.StateAbandoned, idle.CurrentState())
}

func TestSweepReleasesOldTerminalSessions(t *testing.T) {
	worker, cacheManager, _ := newTestWorker(t)
	now := time.Now().UTC()

	done := seedSession(cacheManager, "done", now.Add(-3*time.Hour))
	_, err := done.Abandon(now.Add(-2 * time.Hour))
	require.NoError(t, err)

	recent := seedSession(cacheManager, "recent", now.Add(-20*time.Minute))
	_, err = recent.Abandon(now.Add(-10 * time.Minute))
	require.NoError(t, err)

	worker.sweep(now)

	_, exists := cacheManager.Sessions.GetSession("done")
	assert.False(t, exists)

	_, exists = cacheManager.Sessions.GetSession("recent")
	assert.True(t, exists)
}
