// Package user defines the lead and re-engagement entities and the interfaces
// for persisting them. These repositories abstract the data persistence
// details, ensuring the core application is clean and decoupled from the
// database.
// Note: live funnel sessions are handled by the cache layer, not persistence.
package user

import (
	"time"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/profile"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/tier"
)

// Lead represents a captured email address plus the funnel context it arrived
// with. The funnel never requires a lead; one exists only when the visitor
// handed over an email.
type Lead struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"sessionId"`
	Email          string    `json:"email"`
	EncryptedEmail string    `json:"-"` // Never serialize the at-rest form
	FirstName      string    `json:"firstName"`
	Role           string    `json:"role"`
	ExperienceBand string    `json:"experienceBand"`
	Skills         []string  `json:"skills"`
	Tier           string    `json:"tier"`
	DiscountPct    int       `json:"discountPct"`
	Source         string    `json:"source"`
	CreatedAt      time.Time `json:"createdAt"`
}

// NewLead builds a lead from the funnel context at capture time.
func NewLead(id, sessionID, email string, p *profile.Profile, assignment *tier.Assignment, source string, now time.Time) *Lead {
	lead := &Lead{
		ID:        id,
		SessionID: sessionID,
		Email:     email,
		Source:    source,
		CreatedAt: now,
	}
	if p != nil {
		lead.FirstName = p.FirstName
		lead.Role = string(p.Role)
		lead.ExperienceBand = string(p.ExperienceBand)
		lead.Skills = p.Skills
	}
	if assignment != nil {
		lead.Tier = string(assignment.Tier)
		lead.DiscountPct = assignment.DiscountPct
	}
	return lead
}

// ReengagementJob is one scheduled follow-up email for a lead. Jobs are
// created when the lead is captured and marked sent as the dispatcher works
// through them.
type ReengagementJob struct {
	ID      string     `json:"id"`
	LeadID  string     `json:"leadId"`
	Variant string     `json:"variant"`
	DueAt   time.Time  `json:"dueAt"`
	SentAt  *time.Time `json:"sentAt,omitempty"`
}

// LeadRepository defines the operations for persisting Lead entities.
type LeadRepository interface {
	FindByID(id string) (*Lead, error)
	FindByEmail(email string) (*Lead, error)
	FindBySessionID(sessionID string) (*Lead, error)
	Store(lead *Lead) error
	Count() (int, error)
}

// ReengagementQueueRepository defines the operations for the follow-up queue.
type ReengagementQueueRepository interface {
	Enqueue(job *ReengagementJob) error
	FindDue(now time.Time, limit int) ([]*ReengagementJob, error)
	MarkSent(id string, sentAt time.Time) error
	PendingCount() (int, error)
}
