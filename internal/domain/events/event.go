// Package events provides funnel action event types
package events

import (
	"time"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/session"
)

// Event is a single funnel action received from the presentation layer.
// Submission fields are only populated for submit events; Email only when the
// visitor volunteers it on abandonment.
type Event struct {
	SessionID string         `json:"sessionId"`
	Action    session.Action `json:"action"`
	At        time.Time      `json:"at"`

	SubmissionText string `json:"submissionText,omitempty"`
	ElapsedSeconds int    `json:"elapsedSeconds,omitempty"`
	Email          string `json:"email,omitempty"`
}
