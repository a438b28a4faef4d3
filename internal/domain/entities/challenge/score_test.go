package challenge

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimeLimit = 1800

// strongAnswer hits every rubric signal: a numbered plan, measurable goals,
// dense vocabulary, and enough length to max the word contribution.
func strongAnswer() *Submission {
	text := "1. Audit the baseline metric and set a target KPI.\n" +
		"2. Ship the improved model behind monitoring.\n" +
		strings.Repeat("feature validation pipeline monitoring deployment ", 40)
	return &Submission{Text: text, ElapsedSeconds: 500}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	rubric := DefaultRubric(testTimeLimit)
	sub := strongAnswer()

	first, err := Evaluate(sub, rubric)
	require.NoError(t, err)
	second, err := Evaluate(sub, rubric)
	require.NoError(t, err)

	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, first.FeedbackTags, second.FeedbackTags)
}

func TestEvaluateRejectsInvalidSubmissions(t *testing.T) {
	rubric := DefaultRubric(testTimeLimit)

	cases := []struct {
		name string
		sub  *Submission
	}{
		{"empty text", &Submission{Text: "   ", ElapsedSeconds: 100}},
		{"negative elapsed", &Submission{Text: "a real answer", ElapsedSeconds: -1}},
		{"over time limit", &Submission{Text: "a real answer", ElapsedSeconds: 1850}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score, err := Evaluate(tc.sub, rubric)
			assert.Nil(t, score)
			assert.ErrorIs(t, err, ErrInvalidSubmission)
		})
	}
}

func TestEvaluateStrongSubmission(t *testing.T) {
	rubric := DefaultRubric(testTimeLimit)

	score, err := Evaluate(strongAnswer(), rubric)
	require.NoError(t, err)

	// Deterministic contribution is 100 before jitter, so the clamped value
	// can drop at most 2 points.
	assert.GreaterOrEqual(t, score.Value, 98)
	assert.LessOrEqual(t, score.Value, 100)

	assert.True(t, score.HasTag("clear-structure"))
	assert.True(t, score.HasTag("strong-specifics"))
	assert.True(t, score.HasTag("strong-timing"))
	assert.False(t, score.HasTag("too-brief"))
}

func TestEvaluateWeakSubmission(t *testing.T) {
	rubric := DefaultRubric(testTimeLimit)

	score, err := Evaluate(&Submission{Text: "ok then", ElapsedSeconds: 1750}, rubric)
	require.NoError(t, err)

	// Base 20 with a -5 time penalty and jitter in [-2,2].
	assert.GreaterOrEqual(t, score.Value, 13)
	assert.LessOrEqual(t, score.Value, 17)

	assert.True(t, score.HasTag("needs-structure"))
	assert.True(t, score.HasTag("needs-specifics"))
	assert.True(t, score.HasTag("cut-it-close"))
	assert.True(t, score.HasTag("too-brief"))
}

func TestEvaluateValueStaysInRange(t *testing.T) {
	rubric := DefaultRubric(testTimeLimit)

	subs := []*Submission{
		{Text: "x", ElapsedSeconds: 1800},
		{Text: strings.Repeat("word ", 500), ElapsedSeconds: 0},
		strongAnswer(),
	}

	for _, sub := range subs {
		score, err := Evaluate(sub, rubric)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, score.Value, 0)
		assert.LessOrEqual(t, score.Value, 100)
	}
}

func TestFeedbackTagsAreSorted(t *testing.T) {
	rubric := DefaultRubric(testTimeLimit)

	score, err := Evaluate(&Submission{Text: "short answer", ElapsedSeconds: 200}, rubric)
	require.NoError(t, err)

	assert.True(t, sort.StringsAreSorted(score.FeedbackTags))
	assert.NotEmpty(t, score.FeedbackTags)
}

func TestTimeAdjustmentBrackets(t *testing.T) {
	rubric := DefaultRubric(testTimeLimit)

	cases := []struct {
		elapsed    int
		adjustment int
	}{
		{0, 5},
		{600, 5},
		{601, 2},
		{1200, 2},
		{1201, 0},
		{1500, 0},
		{1501, -3},
		{1700, -3},
		{1701, -5},
		{1800, -5},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.adjustment, timeAdjustmentFor(tc.elapsed, rubric), "elapsed %d", tc.elapsed)
	}
}

func TestSeededJitterRange(t *testing.T) {
	inputs := []string{"", "a", "customer segmentation", strings.Repeat("z", 1000)}

	for _, text := range inputs {
		for _, elapsed := range []int{0, 100, 1799} {
			j := seededJitter(text, elapsed)
			assert.GreaterOrEqual(t, j, -2)
			assert.LessOrEqual(t, j, 2)
			assert.Equal(t, j, seededJitter(text, elapsed))
		}
	}
}

func TestSubmissionValidate(t *testing.T) {
	sub := &Submission{Text: "an answer", ElapsedSeconds: 900}
	assert.NoError(t, sub.Validate(testTimeLimit))

	assert.ErrorIs(t, (&Submission{Text: "", ElapsedSeconds: 0}).Validate(testTimeLimit), ErrInvalidSubmission)
	assert.ErrorIs(t, (&Submission{Text: "x", ElapsedSeconds: testTimeLimit + 1}).Validate(testTimeLimit), ErrInvalidSubmission)
}
