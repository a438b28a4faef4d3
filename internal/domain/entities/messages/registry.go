// Package messages provides the template registry for personalized nuggets
// and re-engagement emails. Rendering is pure template substitution over
// Profile and Tier fields; a missing table entry is a configuration defect
// and surfaces as ErrMissingTemplate, never as a silent fallback.
package messages

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/profile"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/tier"
)

// Variant names one of the scheduled re-engagement emails
type Variant string

const (
	VariantTwoHour Variant = "2h"
	VariantOneDay  Variant = "24h"
	VariantFinal   Variant = "final"
)

// Variants lists every registered variant in schedule order
func Variants() []Variant {
	return []Variant{VariantTwoHour, VariantOneDay, VariantFinal}
}

// Valid reports whether v names a registered variant
func (v Variant) Valid() bool {
	return v == VariantTwoHour || v == VariantOneDay || v == VariantFinal
}

// ErrMissingTemplate is the sentinel for a template table gap
var ErrMissingTemplate = errors.New("missing template")

// Nugget is the personalized motivational copy shown during the session
type Nugget struct {
	Headline string `json:"headline"`
	Insight  string `json:"insight"`
	Tip      string `json:"tip"`
	CTA      string `json:"cta"`
}

// Email is a rendered re-engagement email
type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type emailKey struct {
	tier    tier.Tier
	variant Variant
}

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

// Registry holds the compiled message templates, built once at process start
type Registry struct {
	topic    string
	nuggets  map[profile.Role]*template.Template
	extraTip map[profile.Role]string
	emails   map[emailKey]*emailTemplate
}

// templateData is the substitution payload shared by all templates
type templateData struct {
	Name        string
	Role        string
	Band        string
	Skills      string
	Topic       string
	Tier        string
	DiscountPct int
	Headline    string
}

func roleLabel(r profile.Role) string {
	switch r {
	case profile.RoleEngineer:
		return "Software Engineer"
	case profile.RoleAnalyst:
		return "Data Analyst"
	case profile.RoleScientist:
		return "Data Scientist"
	case profile.RoleManager:
		return "Product Manager"
	case profile.RoleDevOps:
		return "DevOps Engineer"
	default:
		return "Professional"
	}
}

func bandLabel(b profile.ExperienceBand) string {
	switch b {
	case profile.BandJunior:
		return "Junior"
	case profile.BandMid:
		return "Mid-level"
	case profile.BandSenior:
		return "Senior"
	default:
		return ""
	}
}

func dataFor(p *profile.Profile, topic string) templateData {
	skills := p.Skills
	if len(skills) > 5 {
		skills = skills[:5]
	}
	return templateData{
		Name:   p.DisplayName(),
		Role:   roleLabel(p.Role),
		Band:   bandLabel(p.ExperienceBand),
		Skills: strings.Join(skills, ", "),
		Topic:  topic,
	}
}

// ComposeNugget renders the nugget set for a profile's role
func (r *Registry) ComposeNugget(p *profile.Profile) (*Nugget, error) {
	insightTmpl, exists := r.nuggets[p.Role]
	if !exists {
		return nil, fmt.Errorf("%w: nugget for role %s", ErrMissingTemplate, p.Role)
	}

	data := dataFor(p, r.topic)

	var insight strings.Builder
	if err := insightTmpl.Execute(&insight, data); err != nil {
		return nil, fmt.Errorf("rendering nugget for role %s: %w", p.Role, err)
	}

	headline := data.Role
	if data.Band != "" {
		headline += " • " + data.Band
	}
	if data.Skills != "" {
		headline += " • " + data.Skills
	}

	tip := "Focus on project-based learning: employers value delivered impact like dashboards, pipelines, and shipped model features."
	if extra, exists := r.extraTip[p.Role]; exists {
		tip = extra
	}

	return &Nugget{
		Headline: headline,
		Insight:  insight.String(),
		Tip:      tip,
		CTA:      "Join the 30-minute challenge and earn up to 40% off the full program — limited spots.",
	}, nil
}

// ComposeEmail renders one re-engagement email variant for a profile and its
// earned tier
func (r *Registry) ComposeEmail(p *profile.Profile, assignment tier.Assignment, variant Variant) (*Email, error) {
	tmpl, exists := r.emails[emailKey{tier: assignment.Tier, variant: variant}]
	if !exists {
		return nil, fmt.Errorf("%w: email for tier %s variant %s", ErrMissingTemplate, assignment.Tier, variant)
	}

	data := dataFor(p, r.topic)
	data.Tier = string(assignment.Tier)
	data.DiscountPct = assignment.DiscountPct
	data.Headline = assignment.Headline

	var subject, body strings.Builder
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("rendering subject for %s/%s: %w", assignment.Tier, variant, err)
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("rendering body for %s/%s: %w", assignment.Tier, variant, err)
	}

	return &Email{Subject: subject.String(), Body: body.String()}, nil
}

// RegisteredRoles exposes the nugget table keys for totality checks
func (r *Registry) RegisteredRoles() []profile.Role {
	roles := make([]profile.Role, 0, len(r.nuggets))
	for role := range r.nuggets {
		roles = append(roles, role)
	}
	return roles
}

// HasEmailTemplate reports whether a (tier, variant) entry is registered
func (r *Registry) HasEmailTemplate(t tier.Tier, v Variant) bool {
	_, exists := r.emails[emailKey{tier: t, variant: v}]
	return exists
}
