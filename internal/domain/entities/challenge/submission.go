// Package challenge provides domain entities for the timed challenge: the
// submission a visitor hands in, the rubric it is scored against, and the
// resulting score. Scoring owns submission validity; callers never pre-check.
package challenge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSubmission is the sentinel for rejected submissions: empty text,
// negative elapsed time, or elapsed time past the challenge budget. Callers
// match it with errors.Is and keep the session in its current state.
var ErrInvalidSubmission = errors.New("invalid submission")

// Submission is a visitor's challenge answer together with how long it took.
// Created once per session; a rejected submission is never attached.
type Submission struct {
	Text           string `json:"text"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
}

// Validate checks the submission against the rubric's time budget. This is
// the single validation boundary for submissions.
func (s *Submission) Validate(limitSeconds int) error {
	if strings.TrimSpace(s.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidSubmission)
	}
	if s.ElapsedSeconds < 0 {
		return fmt.Errorf("%w: negative elapsed time %d", ErrInvalidSubmission, s.ElapsedSeconds)
	}
	if s.ElapsedSeconds > limitSeconds {
		return fmt.Errorf("%w: elapsed time %ds exceeds %ds limit", ErrInvalidSubmission, s.ElapsedSeconds, limitSeconds)
	}
	return nil
}
