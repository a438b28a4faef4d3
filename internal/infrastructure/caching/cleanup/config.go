// Package cleanup provides the background session cleanup worker.
package cleanup

import (
	"time"

	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// Config controls the cleanup worker's sweep cadence and expiry rules
type Config struct {
	Interval          time.Duration // how often to sweep the session store
	SessionIdleTTL    time.Duration // idle time before a session is abandoned
	ChallengeBudget   time.Duration // hard cap on total challenge time
	TerminalRetention time.Duration // how long finished sessions stay readable
}

// NewConfig builds the worker configuration from application defaults
func NewConfig() *Config {
	return &Config{
		Interval:          config.CleanupInterval,
		SessionIdleTTL:    config.SessionIdleTTL,
		ChallengeBudget:   time.Duration(config.ChallengeTimeLimitSeconds) * time.Second,
		TerminalRetention: config.SessionIdleTTL,
	}
}
