package services

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/messages"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/profile"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/session"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/entities/tier"
	"github.com/scalerlabs/funnel-engine-go/internal/domain/user"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/email"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/security"
	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// dispatchBatchSize caps how many due emails one dispatch cycle sends.
const dispatchBatchSize = 50

// ReengagementService captures leads and works the scheduled follow-up queue.
type ReengagementService struct {
	leadRepo  user.LeadRepository
	queueRepo user.ReengagementQueueRepository
	emailSvc  email.Service
	messenger *MessageService
	logger    *logging.ChanneledLogger
}

// NewReengagementService creates the re-engagement service with its dependencies.
func NewReengagementService(
	leadRepo user.LeadRepository,
	queueRepo user.ReengagementQueueRepository,
	emailSvc email.Service,
	messenger *MessageService,
	logger *logging.ChanneledLogger,
) *ReengagementService {
	return &ReengagementService{
		leadRepo:  leadRepo,
		queueRepo: queueRepo,
		emailSvc:  emailSvc,
		messenger: messenger,
		logger:    logger,
	}
}

// CaptureLead stores a lead from the session's funnel context and schedules
// the three follow-up emails. Capturing the same email twice returns the
// existing lead without scheduling duplicates.
func (s *ReengagementService) CaptureLead(sess *session.Session, emailAddr, source string) (*user.Lead, error) {
	existing, err := s.leadRepo.FindByEmail(emailAddr)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Funnel().Debug("Lead already captured", "leadId", existing.ID, "source", source)
		return existing, nil
	}

	now := time.Now().UTC()
	lead := user.NewLead(security.GenerateULID(), sess.ID, emailAddr, sess.Profile, sess.Tier, source, now)

	if config.AESKey != "" {
		encrypted, err := security.Encrypt(emailAddr, config.AESKey)
		if err != nil {
			return nil, fmt.Errorf("encrypting lead email: %w", err)
		}
		lead.EncryptedEmail = encrypted
	}

	if err := s.leadRepo.Store(lead); err != nil {
		return nil, err
	}

	delays := map[messages.Variant]time.Duration{
		messages.VariantTwoHour: config.ReengageFirstDelay,
		messages.VariantOneDay:  config.ReengageSecondDelay,
		messages.VariantFinal:   config.ReengageFinalDelay,
	}
	anchor := now
	if sess.ExitAt != nil {
		anchor = *sess.ExitAt
	}

	for _, variant := range messages.Variants() {
		job := &user.ReengagementJob{
			ID:      security.GenerateULID(),
			LeadID:  lead.ID,
			Variant: string(variant),
			DueAt:   anchor.Add(delays[variant]),
		}
		if err := s.queueRepo.Enqueue(job); err != nil {
			return nil, fmt.Errorf("scheduling %s follow-up: %w", variant, err)
		}
	}

	s.logger.Funnel().Info("Lead captured",
		"leadId", lead.ID,
		"sessionId", sess.ID,
		"source", source,
		"tier", lead.Tier)
	return lead, nil
}

// DispatchDue sends every follow-up email whose schedule has come up.
func (s *ReengagementService) DispatchDue(now time.Time) (int, error) {
	jobs, err := s.queueRepo.FindDue(now, dispatchBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, job := range jobs {
		if err := s.dispatchJob(job, now); err != nil {
			s.logger.Email().Error("Follow-up dispatch failed",
				"jobId", job.ID, "variant", job.Variant, "error", err.Error())
			continue
		}
		sent++
	}

	if sent > 0 {
		s.logger.Email().Info("Follow-up dispatch cycle complete", "sent", sent, "due", len(jobs))
	}
	return sent, nil
}

func (s *ReengagementService) dispatchJob(job *user.ReengagementJob, now time.Time) error {
	lead, err := s.leadRepo.FindByID(job.LeadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return fmt.Errorf("lead %s not found", job.LeadID)
	}

	p := &profile.Profile{
		Role:           profile.Role(lead.Role),
		ExperienceBand: profile.ExperienceBand(lead.ExperienceBand),
		Skills:         lead.Skills,
		FirstName:      lead.FirstName,
		Email:          lead.Email,
	}
	assignment := tier.Assignment{
		Tier:        tier.Tier(lead.Tier),
		DiscountPct: lead.DiscountPct,
	}
	if assignment.Tier == "" {
		// Leads captured before scoring get the entry ladder copy.
		assignment = tier.DefaultTable().Assign(0)
	}

	rendered, err := s.messenger.ComposeEmail(p, assignment, messages.Variant(job.Variant), lead.SessionID)
	if err != nil {
		return err
	}

	ctaURL := ""
	if config.JWTSecret != "" && lead.DiscountPct > 0 {
		token, err := security.GenerateClaimToken(lead.SessionID, &assignment, config.JWTSecret)
		if err == nil {
			ctaURL = fmt.Sprintf("%s/claim?token=%s", config.PublicBaseURL, url.QueryEscape(token))
		}
	}

	if err := s.emailSvc.SendReengagementEmail(lead.Email, rendered.Subject, rendered.Body, ctaURL); err != nil {
		return err
	}

	return s.queueRepo.MarkSent(job.ID, now)
}

// Start runs the dispatch loop until the context is cancelled.
func (s *ReengagementService) Start(ctx context.Context) {
	s.logger.System().Info("Re-engagement dispatcher started", "interval", config.DispatchInterval)

	ticker := time.NewTicker(config.DispatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Shutdown().Info("Re-engagement dispatcher stopped")
			return
		case <-ticker.C:
			if _, err := s.DispatchDue(time.Now().UTC()); err != nil {
				s.logger.Email().Error("Dispatch cycle failed", "error", err.Error())
			}
		}
	}
}

// PendingCount reports unsent follow-ups for the sysop dashboard.
func (s *ReengagementService) PendingCount() (int, error) {
	return s.queueRepo.PendingCount()
}

// LeadCount reports captured leads for the sysop dashboard.
func (s *ReengagementService) LeadCount() (int, error) {
	return s.leadRepo.Count()
}
