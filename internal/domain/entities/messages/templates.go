// Package messages provides the default template content.
package messages

import (
	"fmt"
	"text/template"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/profile"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/tier"
)

const defaultTopic = "AI & Machine Learning"

var nuggetSources = map[profile.Role]string{
	profile.RoleEngineer:  "As a {{.Role}}, mastering {{.Topic}} helps you ship production-ready models and data features faster.",
	profile.RoleAnalyst:   "AI helps Data Analysts automate repetitive analysis and build predictive models — learn how in the masterclass.",
	profile.RoleScientist: "Sharpen the end-to-end craft: {{.Topic}} in production is where {{.Role}}s stand out.",
	profile.RoleManager:   "As a {{.Role}}, {{.Topic}} fluency lets you scope AI features your team can actually deliver.",
	profile.RoleDevOps:    "Pair your infrastructure skills with {{.Topic}} to own the deployment half of every ML pipeline.",
	profile.RoleUnknown:   "Mastering {{.Topic}} can help you build production-ready analytics and models faster.",
}

var extraTipSources = map[profile.Role]string{
	profile.RoleAnalyst: "Try combining SQL + Python + visualization to demonstrate quick wins to stakeholders.",
}

var emailVariantSources = map[Variant]struct {
	subject string
	body    string
}{
	VariantTwoHour: {
		subject: "That moment from today's {{.Topic}} masterclass — don't let it fade",
		body: `Hi {{.Name}},

You attended the {{.Topic}} masterclass today. As a {{with .Band}}{{.}} {{end}}{{.Role}}, now is the moment to turn that spark into a measurable skill.

Quick wins for you:
- Build a dashboard that proves one business metric inside a week.
- Use a small model to predict the next 30-day trend for a key KPI.

{{.Headline}}{{if .DiscountPct}} Your {{.DiscountPct}}% discount is still reserved for a short time.{{end}}

Best,
The Scaler AI Team`,
	},
	VariantOneDay: {
		subject: "Your peers are already advancing — a reminder from Scaler AI",
		body: `Hi {{.Name}},

Yesterday's masterclass created momentum. Many {{.Role}}s like you have already finished the challenge and secured priority access.

{{if .DiscountPct}}We saved your {{.DiscountPct}}% discount for {{with .Band}}{{.}} {{end}}{{.Role}}s who take action.{{else}}We saved a spot for {{with .Band}}{{.}} {{end}}{{.Role}}s who take action.{{end}}

— Scaler AI`,
	},
	VariantFinal: {
		subject: "A note from your future self — keep building",
		body: `Hi {{.Name}},

Two weeks from now you'll be glad you acted. As a {{.Role}}, this program helps you move from analysis to impact.

{{if .DiscountPct}}This is the final reminder before your {{.DiscountPct}}% discount expires.{{else}}This is the final reminder before enrollment closes.{{end}}

— The Scaler Team`,
	},
}

// DefaultRegistry compiles the standard template tables. The email table is
// built as the full cross product of tiers and variants so the totality of
// the (tier, variant) key space holds by construction.
func DefaultRegistry() *Registry {
	reg := &Registry{
		topic:    defaultTopic,
		nuggets:  make(map[profile.Role]*template.Template, len(nuggetSources)),
		extraTip: make(map[profile.Role]string, len(extraTipSources)),
		emails:   make(map[emailKey]*emailTemplate),
	}

	for role, src := range nuggetSources {
		name := fmt.Sprintf("nugget-%s", role)
		reg.nuggets[role] = template.Must(template.New(name).Parse(src))
	}
	for role, tip := range extraTipSources {
		reg.extraTip[role] = tip
	}

	tiers := []tier.Tier{tier.TierNone, tier.TierBronze, tier.TierSilver, tier.TierGold, tier.TierPlatinum}
	for _, t := range tiers {
		for variant, src := range emailVariantSources {
			key := emailKey{tier: t, variant: variant}
			subjectName := fmt.Sprintf("email-%s-%s-subject", t, variant)
			bodyName := fmt.Sprintf("email-%s-%s-body", t, variant)
			reg.emails[key] = &emailTemplate{
				subject: template.Must(template.New(subjectName).Parse(src.subject)),
				body:    template.Must(template.New(bodyName).Parse(src.body)),
			}
		}
	}

	return reg
}
