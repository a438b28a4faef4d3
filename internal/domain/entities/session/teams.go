// Package session provides the cosmetic team assignment table.
package session

// TeamRoster is the immutable table of display-only team and teammate names.
// Assignment is round-robin so it stays deterministic and testable; it has no
// effect on scoring or tiering.
type TeamRoster struct {
	TeamNames     []string
	TeammateNames []string
}

// DefaultTeamRoster returns the standard cosmetic roster
func DefaultTeamRoster() *TeamRoster {
	return &TeamRoster{
		TeamNames: []string{
			"AI Innovators", "Code Crushers", "Data Wizards",
			"ML Masters", "Tech Titans", "Algorithm Aces",
		},
		TeammateNames: []string{
			"Sarah K.", "Alex M.", "Priya S.", "John D.",
			"Maya R.", "David L.", "Lisa C.", "Mike R.",
		},
	}
}

// Assign returns the team name and teammates for the n-th session. Team size
// alternates between three and four members including the visitor.
func (r *TeamRoster) Assign(n uint64) (string, []string) {
	team := r.TeamNames[n%uint64(len(r.TeamNames))]

	size := 2 + int(n%2)
	teammates := make([]string, 0, size)
	for i := 0; i < size; i++ {
		teammates = append(teammates, r.TeammateNames[(n+uint64(i))%uint64(len(r.TeammateNames))])
	}
	return team, teammates
}
