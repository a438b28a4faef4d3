package user

import (
	"database/sql"
	"time"

	"github.com/scalerlabs/funnel-engine-go/internal/domain/user"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/persistence/database"
	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// SQLReengagementQueueRepository is the SQL-based implementation of the
// ReengagementQueueRepository.
type SQLReengagementQueueRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLReengagementQueueRepository creates a new instance of the repository.
func NewSQLReengagementQueueRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLReengagementQueueRepository {
	return &SQLReengagementQueueRepository{
		db:     db,
		logger: logger,
	}
}

// Enqueue schedules a follow-up email for a lead.
func (r *SQLReengagementQueueRepository) Enqueue(job *user.ReengagementJob) error {
	const query = `
		INSERT INTO reengagement_queue (id, lead_id, variant, due_at)
		VALUES (?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Enqueueing re-engagement job",
		"id", job.ID, "leadId", job.LeadID, "variant", job.Variant, "dueAt", job.DueAt)

	_, err := r.db.Exec(query, job.ID, job.LeadID, job.Variant, job.DueAt.UTC().Format(time.RFC3339))
	if err != nil {
		r.logger.Database().Error("Re-engagement enqueue failed", "error", err.Error(), "id", job.ID)
		return err
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return nil
}

// FindDue returns unsent jobs whose due time has passed, oldest first.
func (r *SQLReengagementQueueRepository) FindDue(now time.Time, limit int) ([]*user.ReengagementJob, error) {
	const query = `
		SELECT id, lead_id, variant, due_at, sent_at
		FROM reengagement_queue
		WHERE sent_at IS NULL AND due_at <= ?
		ORDER BY due_at ASC
		LIMIT ?`

	start := time.Now()

	rows, err := r.db.Query(query, now.UTC().Format(time.RFC3339), limit)
	if err != nil {
		r.logger.Database().Error("Failed to load due re-engagement jobs", "error", err.Error())
		return nil, err
	}
	defer rows.Close()

	var jobs []*user.ReengagementJob
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	duration := time.Since(start)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return jobs, nil
}

// MarkSent records that a job's email went out.
func (r *SQLReengagementQueueRepository) MarkSent(id string, sentAt time.Time) error {
	const query = `UPDATE reengagement_queue SET sent_at = ? WHERE id = ?`

	_, err := r.db.Exec(query, sentAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		r.logger.Database().Error("Failed to mark re-engagement job sent", "error", err.Error(), "id", id)
		return err
	}
	return nil
}

// PendingCount returns the number of unsent jobs.
func (r *SQLReengagementQueueRepository) PendingCount() (int, error) {
	const query = `SELECT COUNT(*) FROM reengagement_queue WHERE sent_at IS NULL`

	var count int
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		r.logger.Database().Error("Pending job count failed", "error", err.Error())
		return 0, err
	}
	return count, nil
}

// scanJob scans the current row into a ReengagementJob.
func (r *SQLReengagementQueueRepository) scanJob(rows *sql.Rows) (*user.ReengagementJob, error) {
	var job user.ReengagementJob
	var dueAtStr string
	var sentAtStr sql.NullString

	if err := rows.Scan(&job.ID, &job.LeadID, &job.Variant, &dueAtStr, &sentAtStr); err != nil {
		return nil, err
	}

	dueAt, err := time.Parse(time.RFC3339, dueAtStr)
	if err != nil {
		return nil, err
	}
	job.DueAt = dueAt

	if sentAtStr.Valid {
		sentAt, err := time.Parse(time.RFC3339, sentAtStr.String)
		if err != nil {
			return nil, err
		}
		job.SentAt = &sentAt
	}

	return &job, nil
}
