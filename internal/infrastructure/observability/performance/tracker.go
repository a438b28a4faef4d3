// Package performance provides performance tracking and monitoring capabilities
// for funnel engine operations with aggregate metrics for the sysop dashboard.
package performance

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers map[string]*Marker // Active and completed markers by unique ID
	mu      sync.RWMutex       // Protects concurrent access
	started time.Time          // When tracking started
	config  *TrackerConfig     // Tracker configuration
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers            int           `json:"maxMarkers"`            // Maximum number of markers to retain
	SlowOperationLogLimit time.Duration `json:"slowOperationLogLimit"` // Duration past which an operation counts as slow
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:            10000,
		SlowOperationLogLimit: 500 * time.Millisecond,
	}
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}

	return &Tracker{
		markers: make(map[string]*Marker),
		started: time.Now(),
		config:  config,
	}
}

// StartOperation creates and tracks a new performance marker for an operation
func (t *Tracker) StartOperation(operation, sessionID string) *Marker {
	marker := &Marker{
		Operation: operation,
		SessionID: sessionID,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true, // Assume success until proven otherwise
	}

	markerID := fmt.Sprintf("%s_%s_%d", sessionID, operation, time.Now().UnixNano())

	t.mu.Lock()
	if len(t.markers) < t.config.MaxMarkers {
		t.markers[markerID] = marker
	}
	t.mu.Unlock()

	return marker
}

// StartOperationWithContext creates a performance marker with context cancellation support
func (t *Tracker) StartOperationWithContext(ctx context.Context, operation, sessionID string) *Marker {
	marker := t.StartOperation(operation, sessionID)

	go func() {
		<-ctx.Done()
		if !marker.Completed {
			marker.SetError(ctx.Err())
			marker.Complete()
		}
	}()

	return marker
}

// OperationStats holds aggregate metrics for a single operation name
type OperationStats struct {
	Operation     string        `json:"operation"`
	Count         int           `json:"count"`
	Failures      int           `json:"failures"`
	SlowCount     int           `json:"slowCount"`
	TotalDuration time.Duration `json:"totalDuration"`
	MaxDuration   time.Duration `json:"maxDuration"`
	AvgDuration   time.Duration `json:"avgDuration"`
}

// GetStats aggregates completed markers per operation name
func (t *Tracker) GetStats() map[string]*OperationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := make(map[string]*OperationStats)
	for _, marker := range t.markers {
		if !marker.Completed {
			continue
		}

		opStats, exists := stats[marker.Operation]
		if !exists {
			opStats = &OperationStats{Operation: marker.Operation}
			stats[marker.Operation] = opStats
		}

		opStats.Count++
		opStats.TotalDuration += marker.Duration
		if marker.Duration > opStats.MaxDuration {
			opStats.MaxDuration = marker.Duration
		}
		if !marker.Success {
			opStats.Failures++
		}
		if marker.Duration > t.config.SlowOperationLogLimit {
			opStats.SlowCount++
		}
	}

	for _, opStats := range stats {
		if opStats.Count > 0 {
			opStats.AvgDuration = opStats.TotalDuration / time.Duration(opStats.Count)
		}
	}

	return stats
}

// Uptime returns how long the tracker has been running
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}
