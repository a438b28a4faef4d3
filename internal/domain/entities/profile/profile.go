// Package profile provides domain entities for resume-derived visitor profiles.
// A profile is extracted once at funnel entry and is immutable afterwards;
// extraction is a best-effort heuristic that degrades to "unknown" fields
// instead of failing.
package profile

import "sort"

// Role is the detected professional category of a visitor
type Role string

const (
	RoleEngineer  Role = "engineer"
	RoleAnalyst   Role = "analyst"
	RoleScientist Role = "scientist"
	RoleManager   Role = "manager"
	RoleDevOps    Role = "devops"
	RoleUnknown   Role = "unknown"
)

// ExperienceBand buckets the detected seniority of a visitor
type ExperienceBand string

const (
	BandJunior  ExperienceBand = "junior"
	BandMid     ExperienceBand = "mid"
	BandSenior  ExperienceBand = "senior"
	BandUnknown ExperienceBand = "unknown"
)

// Profile is the structured result of resume extraction
type Profile struct {
	Role           Role           `json:"role"`
	ExperienceBand ExperienceBand `json:"experienceBand"`
	Skills         []string       `json:"skills"` // normalized, deduplicated, sorted
	FirstName      string         `json:"firstName,omitempty"`
	Email          string         `json:"email,omitempty"`
}

// HasSkill reports whether a normalized skill tag was detected
func (p *Profile) HasSkill(tag string) bool {
	for _, s := range p.Skills {
		if s == tag {
			return true
		}
	}
	return false
}

// DisplayName returns the first name when known, or a neutral fallback
func (p *Profile) DisplayName() string {
	if p.FirstName != "" {
		return p.FirstName
	}
	return "there"
}

func sortedSkillSet(set map[string]bool) []string {
	skills := make([]string, 0, len(set))
	for tag := range set {
		skills = append(skills, tag)
	}
	sort.Strings(skills)
	return skills
}
