// Package cleanup provides the background session cleanup worker.
package cleanup

import (
	"context"
	"time"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/session"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/caching/manager"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
)

// Abandoner is implemented by the engagement controller so expiry runs
// through the same transition path as an explicit abandon action.
type Abandoner interface {
	AbandonExpired(sessionID, reason string) error
}

// Worker sweeps the session store, abandoning sessions that idled out or
// exhausted the challenge budget and releasing finished sessions.
type Worker struct {
	cacheManager *manager.Manager
	abandoner    Abandoner
	config       *Config
	logger       *logging.ChanneledLogger
}

// NewWorker creates a cleanup worker
func NewWorker(cacheManager *manager.Manager, abandoner Abandoner, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		cacheManager: cacheManager,
		abandoner:    abandoner,
		config:       config,
		logger:       logger,
	}
}

// Start runs the sweep loop until the context is cancelled
func (w *Worker) Start(ctx context.Context) {
	w.logger.System().Info("Session cleanup worker started", "interval", w.config.Interval)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Shutdown().Info("Session cleanup worker stopped")
			return
		case <-ticker.C:
			w.sweep(time.Now().UTC())
		}
	}
}

// sweep walks every cached session exactly once
func (w *Worker) sweep(now time.Time) {
	start := time.Now()
	abandoned, released := 0, 0

	for _, s := range w.cacheManager.Sessions.AllSessions() {
		switch {
		case s.CurrentState().IsTerminal():
			if s.IdleFor(now) > w.config.TerminalRetention {
				w.cacheManager.Sessions.RemoveSession(s.ID)
				released++
			}
		case s.IdleFor(now) > w.config.SessionIdleTTL:
			w.abandon(s, "session idle timeout")
			abandoned++
		case time.Duration(s.ChallengeElapsedSeconds(now))*time.Second > w.config.ChallengeBudget:
			w.abandon(s, "challenge time budget exhausted")
			abandoned++
		}
	}

	if abandoned > 0 || released > 0 {
		w.logger.Cache().Info("Session sweep complete",
			"abandoned", abandoned,
			"released", released,
			"remaining", w.cacheManager.Sessions.SessionCount(),
			"duration", time.Since(start))
	}
}

func (w *Worker) abandon(s *session.Session, reason string) {
	if err := w.abandoner.AbandonExpired(s.ID, reason); err != nil {
		w.logger.Cache().Error("Failed to abandon expired session",
			"sessionId", s.ID, "reason", reason, "error", err.Error())
	}
}
