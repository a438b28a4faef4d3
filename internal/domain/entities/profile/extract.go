// Package profile provides the keyword-driven resume extractor.
package profile

import (
	"regexp"
	"strings"
	"unicode"
)

var yearsPattern = regexp.MustCompile(`(\d{1,2})\s*\+?\s*(?:years?|yrs?)`)

// Extract derives a Profile from raw resume text. It never fails: empty or
// malformed input yields unknown role and band with an empty skill set.
// Extraction is deterministic, so re-running on the same text is idempotent.
func Extract(text string, reg *Registry) *Profile {
	lowered := strings.ToLower(text)
	tokens := tokenize(lowered)

	return &Profile{
		Role:           detectRole(lowered, tokens, reg),
		ExperienceBand: detectBand(lowered, tokens, reg),
		Skills:         detectSkills(lowered, tokens, reg),
	}
}

// detectRole scores every role group by keyword hits. The highest count wins;
// ties resolve to the earlier group in declaration order.
func detectRole(lowered string, tokens map[string]bool, reg *Registry) Role {
	bestRole := RoleUnknown
	bestCount := 0

	for _, group := range reg.RoleGroups {
		count := 0
		for _, kw := range group.Keywords {
			if matchKeyword(lowered, tokens, kw) {
				count++
			}
		}
		if count > bestCount {
			bestRole = group.Role
			bestCount = count
		}
	}

	return bestRole
}

// detectBand maps seniority keywords and year counts to an experience band.
// The threshold order mirrors the band ladder: senior signals outrank junior
// signals, which outrank the year-count default.
func detectBand(lowered string, tokens map[string]bool, reg *Registry) ExperienceBand {
	years, hasYears := detectYears(lowered)

	if containsAnySignal(lowered, tokens, reg.SeniorSignals) || (hasYears && years >= reg.SeniorMinYears) {
		return BandSenior
	}
	if containsAnySignal(lowered, tokens, reg.JuniorSignals) || (hasYears && years <= reg.JuniorMaxYears) {
		return BandJunior
	}
	if hasYears {
		return BandMid
	}
	return BandUnknown
}

// detectYears returns the largest year count mentioned in the text
func detectYears(lowered string) (int, bool) {
	matches := yearsPattern.FindAllStringSubmatch(lowered, -1)
	if len(matches) == 0 {
		return 0, false
	}

	best := 0
	for _, m := range matches {
		years := 0
		for _, r := range m[1] {
			years = years*10 + int(r-'0')
		}
		if years > best {
			best = years
		}
	}
	return best, true
}

func detectSkills(lowered string, tokens map[string]bool, reg *Registry) []string {
	found := make(map[string]bool)
	for _, tag := range reg.SkillVocab {
		if matchKeyword(lowered, tokens, tag) {
			found[tag] = true
		}
	}
	return sortedSkillSet(found)
}

// matchKeyword matches multi-word or punctuated keywords by substring and
// plain words by whole-token membership, so short tags like "go" never match
// inside unrelated words.
func matchKeyword(lowered string, tokens map[string]bool, kw string) bool {
	if strings.ContainsAny(kw, " /-") {
		return strings.Contains(lowered, kw)
	}
	return tokens[kw]
}

func containsAnySignal(lowered string, tokens map[string]bool, signals []string) bool {
	for _, signal := range signals {
		if matchKeyword(lowered, tokens, signal) {
			return true
		}
	}
	return false
}

func tokenize(lowered string) map[string]bool {
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make(map[string]bool, len(fields))
	for _, f := range fields {
		tokens[f] = true
	}
	return tokens
}
