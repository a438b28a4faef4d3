// Package challenge provides the scoring rubric registry.
package challenge

// TimeBracket maps an upper elapsed-seconds bound to a score adjustment.
// Brackets are evaluated in order; adjustments must be non-increasing so the
// time bonus is a monotonic function of elapsed time.
type TimeBracket struct {
	MaxElapsedSeconds int
	Adjustment        int
}

// Rubric holds the immutable scoring configuration. Built once at process
// start; the scorer never hardcodes vocabulary or point values.
type Rubric struct {
	TimeLimitSeconds int

	// Length contribution
	WordsPerPoint  int
	MaxLengthScore int
	BaseScore      int

	// Structural signals
	NumberedPlanBonus    int
	MeasurableGoalsBonus int
	MeasurableSignals    []string

	// Keyword density against the rubric vocabulary
	Vocabulary      []string
	KeywordPoints   int
	MaxKeywordScore int

	// Time efficiency adjustment, monotone over elapsed seconds
	TimeBrackets []TimeBracket

	// Feedback tag thresholds on sub-scores
	StrongKeywordThreshold int
	BriefLengthThreshold   int
}

// DefaultRubric returns the standard challenge rubric
func DefaultRubric(timeLimitSeconds int) *Rubric {
	return &Rubric{
		TimeLimitSeconds: timeLimitSeconds,

		WordsPerPoint:  5,
		MaxLengthScore: 30,
		BaseScore:      20,

		NumberedPlanBonus:    10,
		MeasurableGoalsBonus: 10,
		MeasurableSignals:    []string{"kpi", "metric", "measure", "target", "baseline", "%"},

		Vocabulary: []string{
			"feature", "validation", "cross", "ensemble", "hyperparameter",
			"deployment", "pipeline", "segmentation", "monitoring", "rollback",
		},
		KeywordPoints:   5,
		MaxKeywordScore: 25,

		TimeBrackets: []TimeBracket{
			{MaxElapsedSeconds: 600, Adjustment: 5},
			{MaxElapsedSeconds: 1200, Adjustment: 2},
			{MaxElapsedSeconds: 1500, Adjustment: 0},
			{MaxElapsedSeconds: 1700, Adjustment: -3},
			{MaxElapsedSeconds: 1800, Adjustment: -5},
		},

		StrongKeywordThreshold: 15,
		BriefLengthThreshold:   10,
	}
}
