// Package challenge provides the deterministic submission scorer.
package challenge

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"sort"
	"strings"
)

var numberedPlanPattern = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`)

// Score is the immutable result of scoring one submission
type Score struct {
	Value        int      `json:"value"` // clamped to [0,100]
	FeedbackTags []string `json:"feedbackTags"`
}

// HasTag reports whether a feedback tag was assigned
func (s *Score) HasTag(tag string) bool {
	for _, t := range s.FeedbackTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Evaluate scores a submission against the rubric. The result is fully
// deterministic: identical submissions always score identically. The product
// pitch frames this as an AI review, so a reproducible jitter derived from
// the submission content stands in for model variance.
func Evaluate(sub *Submission, rubric *Rubric) (*Score, error) {
	if err := sub.Validate(rubric.TimeLimitSeconds); err != nil {
		return nil, err
	}

	lowered := strings.ToLower(sub.Text)
	words := len(strings.Fields(lowered))

	lengthScore := words / rubric.WordsPerPoint
	if lengthScore > rubric.MaxLengthScore {
		lengthScore = rubric.MaxLengthScore
	}

	structureScore := 0
	if numberedPlanPattern.MatchString(sub.Text) {
		structureScore += rubric.NumberedPlanBonus
	}
	if containsAny(lowered, rubric.MeasurableSignals) {
		structureScore += rubric.MeasurableGoalsBonus
	}

	keywordScore := 0
	for _, kw := range rubric.Vocabulary {
		if strings.Contains(lowered, kw) {
			keywordScore += rubric.KeywordPoints
		}
	}
	if keywordScore > rubric.MaxKeywordScore {
		keywordScore = rubric.MaxKeywordScore
	}

	timeAdjustment := timeAdjustmentFor(sub.ElapsedSeconds, rubric)
	jitter := seededJitter(lowered, sub.ElapsedSeconds)

	value := rubric.BaseScore + lengthScore + structureScore + keywordScore + timeAdjustment + jitter
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	return &Score{
		Value:        value,
		FeedbackTags: feedbackTags(lengthScore, structureScore, keywordScore, timeAdjustment, rubric),
	}, nil
}

// timeAdjustmentFor walks the ordered brackets and returns the adjustment of
// the first bracket covering the elapsed time.
func timeAdjustmentFor(elapsedSeconds int, rubric *Rubric) int {
	for _, bracket := range rubric.TimeBrackets {
		if elapsedSeconds <= bracket.MaxElapsedSeconds {
			return bracket.Adjustment
		}
	}
	if len(rubric.TimeBrackets) == 0 {
		return 0
	}
	return rubric.TimeBrackets[len(rubric.TimeBrackets)-1].Adjustment
}

// seededJitter derives a small reproducible offset in [-2,2] from the
// submission itself, replacing the randomness of a real review
func seededJitter(lowered string, elapsedSeconds int) int {
	h := fnv.New32a()
	h.Write([]byte(lowered))
	fmt.Fprintf(h, ":%d", elapsedSeconds)
	return int(h.Sum32()%5) - 2
}

func feedbackTags(lengthScore, structureScore, keywordScore, timeAdjustment int, rubric *Rubric) []string {
	tags := make([]string, 0, 4)

	if structureScore >= rubric.NumberedPlanBonus {
		tags = append(tags, "clear-structure")
	} else {
		tags = append(tags, "needs-structure")
	}

	if keywordScore >= rubric.StrongKeywordThreshold {
		tags = append(tags, "strong-specifics")
	} else {
		tags = append(tags, "needs-specifics")
	}

	if timeAdjustment > 0 {
		tags = append(tags, "strong-timing")
	} else if timeAdjustment < 0 {
		tags = append(tags, "cut-it-close")
	}

	if lengthScore < rubric.BriefLengthThreshold {
		tags = append(tags, "too-brief")
	}

	sort.Strings(tags)
	return tags
}

func containsAny(lowered string, signals []string) bool {
	for _, signal := range signals {
		if strings.Contains(lowered, signal) {
			return true
		}
	}
	return false
}
