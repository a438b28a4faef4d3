// Package user provides the concrete SQL-based implementations of
// the user domain repositories (Lead, ReengagementQueue).
package user

import (
	"database/sql"
	"strings"
	"time"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/user"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/persistence/database"
	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// SQLLeadRepository is the SQL-based implementation of the LeadRepository.
type SQLLeadRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLLeadRepository creates a new instance of the repository.
func NewSQLLeadRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLLeadRepository {
	return &SQLLeadRepository{
		db:     db,
		logger: logger,
	}
}

const leadColumns = `id, session_id, email, encrypted_email, first_name, role,
	experience_band, skills, tier, discount_pct, source, created_at`

// FindByID retrieves a Lead by its unique identifier.
func (r *SQLLeadRepository) FindByID(id string) (*user.Lead, error) {
	const query = `SELECT ` + leadColumns + ` FROM leads WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading lead by ID", "id", id)

	lead, err := r.scanLead(r.db.QueryRow(query, id))
	if err != nil {
		r.logger.Database().Error("Failed to load lead by ID", "error", err.Error(), "id", id)
		return nil, err
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return lead, nil
}

// FindByEmail retrieves a Lead by its email address.
func (r *SQLLeadRepository) FindByEmail(email string) (*user.Lead, error) {
	const query = `SELECT ` + leadColumns + ` FROM leads WHERE email = ?`

	start := time.Now()
	r.logger.Database().Debug("Loading lead by email")

	lead, err := r.scanLead(r.db.QueryRow(query, email))
	if err != nil {
		r.logger.Database().Error("Failed to load lead by email", "error", err.Error())
		return nil, err
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return lead, nil
}

// FindBySessionID retrieves the Lead captured during a funnel session.
func (r *SQLLeadRepository) FindBySessionID(sessionID string) (*user.Lead, error) {
	const query = `SELECT ` + leadColumns + ` FROM leads WHERE session_id = ? ORDER BY created_at DESC LIMIT 1`

	start := time.Now()
	r.logger.Database().Debug("Loading lead by session", "sessionId", sessionID)

	lead, err := r.scanLead(r.db.QueryRow(query, sessionID))
	if err != nil {
		r.logger.Database().Error("Failed to load lead by session", "error", err.Error(), "sessionId", sessionID)
		return nil, err
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return lead, nil
}

// Store saves a new Lead to the database.
func (r *SQLLeadRepository) Store(lead *user.Lead) error {
	const query = `
		INSERT INTO leads (id, session_id, email, encrypted_email, first_name, role,
		                   experience_band, skills, tier, discount_pct, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing lead insert", "id", lead.ID, "sessionId", lead.SessionID)

	_, err := r.db.Exec(
		query,
		lead.ID,
		lead.SessionID,
		lead.Email,
		lead.EncryptedEmail,
		lead.FirstName,
		lead.Role,
		lead.ExperienceBand,
		strings.Join(lead.Skills, ","),
		lead.Tier,
		lead.DiscountPct,
		lead.Source,
		lead.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		r.logger.Database().Error("Lead insert failed", "error", err.Error(), "id", lead.ID)
		return err
	}

	r.logger.Database().Info("Lead insert completed", "id", lead.ID, "source", lead.Source, "duration", time.Since(start))
	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// Count returns the total number of captured leads.
func (r *SQLLeadRepository) Count() (int, error) {
	const query = `SELECT COUNT(*) FROM leads`

	var count int
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		r.logger.Database().Error("Lead count failed", "error", err.Error())
		return 0, err
	}
	return count, nil
}

// scanLead is a helper function to scan a sql.Row into a Lead struct.
func (r *SQLLeadRepository) scanLead(row *sql.Row) (*user.Lead, error) {
	var lead user.Lead
	var encryptedEmail, firstName, skills, tierName sql.NullString
	var createdAtStr string

	err := row.Scan(
		&lead.ID,
		&lead.SessionID,
		&lead.Email,
		&encryptedEmail,
		&firstName,
		&lead.Role,
		&lead.ExperienceBand,
		&skills,
		&tierName,
		&lead.DiscountPct,
		&lead.Source,
		&createdAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, err
	}

	if encryptedEmail.Valid {
		lead.EncryptedEmail = encryptedEmail.String
	}
	if firstName.Valid {
		lead.FirstName = firstName.String
	}
	if skills.Valid && skills.String != "" {
		lead.Skills = strings.Split(skills.String, ",")
	}
	if tierName.Valid {
		lead.Tier = tierName.String
	}

	lead.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		// Try alternative timestamp format if RFC3339 fails
		lead.CreatedAt, err = time.Parse("2006-01-02 15:04:05", createdAtStr)
		if err != nil {
			return nil, err
		}
	}

	return &lead, nil
}
