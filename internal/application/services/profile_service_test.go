package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

func TestTruncateResumeKeepsShortTextIntact(t *testing.T) {
	text, truncated := truncateResume("Data analyst, SQL and Tableau.", 100)
	assert.Equal(t, "Data analyst, SQL and Tableau.", text)
	assert.False(t, truncated)
}

func TestTruncateResumeCutsAtLimit(t *testing.T) {
	text, truncated := truncateResume(strings.Repeat("a", 120), 100)
	assert.Len(t, text, 100)
	assert.True(t, truncated)
}

func TestTruncateResumeNeverSplitsRune(t *testing.T) {
	// "é" is two bytes; with a 100-byte cap the cut point lands inside it.
	text := strings.Repeat("a", 99) + "é" + strings.Repeat("b", 20)

	got, truncated := truncateResume(text, 100)
	assert.True(t, truncated)
	assert.Len(t, got, 99)
	assert.True(t, utf8.ValidString(got))
}

func TestTruncateResumeMultiByteOnly(t *testing.T) {
	// Three-byte runes; every cut between 1 and 2 bytes in must back up.
	text := strings.Repeat("語", 50)

	for _, limit := range []int{100, 101, 102} {
		got, truncated := truncateResume(text, limit)
		assert.True(t, truncated)
		assert.True(t, utf8.ValidString(got), "limit %d", limit)
		assert.LessOrEqual(t, len(got), limit)
	}
}

func TestExtractProfileTruncatesOversizedResume(t *testing.T) {
	h := newHarness(t)

	// The recognizable signals sit inside the cap; the oversized tail ends
	// mid-rune and must not corrupt extraction.
	resume := "Data analyst, 4 years of SQL and Tableau. " +
		strings.Repeat("x", config.ResumeTextMaxChars) + "é"

	sess, _, err := h.engagement.StartSession(resume, "")
	require.NoError(t, err)
	require.NotNil(t, sess.Profile)
	assert.Contains(t, sess.Profile.Skills, "sql")
}
