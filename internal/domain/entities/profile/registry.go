// Package profile provides the extraction vocabulary registry.
package profile

// RoleGroup binds a role to the keywords that signal it. Declaration order
// matters: when two groups match the same number of keywords the earlier
// group wins.
type RoleGroup struct {
	Role     Role
	Keywords []string
}

// Registry holds the immutable extraction vocabulary. It is built once at
// process start; extraction logic never hardcodes keywords.
type Registry struct {
	RoleGroups     []RoleGroup
	SeniorSignals  []string
	JuniorSignals  []string
	SkillVocab     []string
	SeniorMinYears int
	JuniorMaxYears int
}

// DefaultRegistry returns the standard extraction vocabulary
func DefaultRegistry() *Registry {
	return &Registry{
		RoleGroups: []RoleGroup{
			{Role: RoleEngineer, Keywords: []string{
				"engineer", "software", "backend", "frontend", "api",
				"python", "java", "go", "react", "javascript", "docker", "kubernetes",
			}},
			{Role: RoleAnalyst, Keywords: []string{
				"analyst", "excel", "tableau", "power bi", "sql",
				"visualization", "dashboard", "reporting", "rfm", "eda",
			}},
			{Role: RoleScientist, Keywords: []string{
				"scientist", "machine learning", "deep learning", "tensorflow",
				"pytorch", "scikit-learn", "pandas", "numpy",
			}},
			{Role: RoleManager, Keywords: []string{
				"manager", "product management", "roadmap", "stakeholder",
				"user research", "kpi",
			}},
			{Role: RoleDevOps, Keywords: []string{
				"devops", "aws", "azure", "ci/cd", "terraform", "jenkins",
				"infrastructure",
			}},
		},
		SeniorSignals:  []string{"senior", "lead", "principal", "staff"},
		JuniorSignals:  []string{"junior", "intern", "student", "trainee", "fresher"},
		SeniorMinYears: 6,
		JuniorMaxYears: 1,
		SkillVocab: []string{
			"python", "java", "go", "react", "javascript", "typescript",
			"sql", "excel", "tableau", "power bi", "pandas", "numpy",
			"machine learning", "deep learning", "tensorflow", "pytorch",
			"scikit-learn", "docker", "kubernetes", "aws", "azure",
			"terraform", "jenkins", "ci/cd", "visualization", "eda",
		},
	}
}
