package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobtrack/internal/types"
)

const jobColumns = `id, user_id, company, position, status, type, color, description,
	salary, location, job_url, notes, applied_at, reminder_at, reminder_sent,
	created_at, updated_at`

// rowScanner is satisfied by both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*types.Job, error) {
	var j types.Job
	err := row.Scan(
		&j.ID, &j.UserID, &j.Company, &j.Position, &j.Status, &j.Type, &j.Color,
		&j.Description, &j.Salary, &j.Location, &j.JobURL, &j.Notes,
		&j.AppliedAt, &j.ReminderAt, &j.ReminderSent, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob inserts a new job application record for the user
func (db *DB) CreateJob(ctx context.Context, userID uuid.UUID, req *types.CreateJobRequest) (*types.Job, error) {
	appliedAt := time.Now().UTC()
	if req.AppliedAt != nil {
		appliedAt = *req.AppliedAt
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (user_id, company, position, status, type, color, description,
		                   salary, location, job_url, notes, applied_at, reminder_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING `+jobColumns,
		userID, req.Company, req.Position, req.Status, req.Type, req.Color,
		req.Description, req.Salary, req.Location, req.JobURL, req.Notes,
		appliedAt, req.ReminderAt,
	)

	job, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// ListJobs retrieves all job records owned by the user, newest first
func (db *DB) ListJobs(ctx context.Context, userID uuid.UUID) ([]types.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// GetJob retrieves a single job scoped by owner, returning nil when no row
// matches both the id and the owner.
func (db *DB) GetJob(ctx context.Context, jobID, userID uuid.UUID) (*types.Job, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND user_id = $2`,
		jobID, userID,
	)

	job, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// UpdateJobStatus sets the lifecycle status of a job. The WHERE clause filters
// by both id and owner so a caller can never move another user's record;
// a nil result means not found or not owned.
func (db *DB) UpdateJobStatus(ctx context.Context, jobID, userID uuid.UUID, status types.JobStatus) (*types.Job, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND user_id = $3
		 RETURNING `+jobColumns,
		status, jobID, userID,
	)

	job, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}
	return job, nil
}

// UpdateJob applies a metadata-edit command to a job. Only fields present in
// the command are written. Setting a new reminder_at re-arms the reminder by
// clearing reminder_sent. Returns nil when no row matches id and owner.
func (db *DB) UpdateJob(ctx context.Context, jobID, userID uuid.UUID, req *types.UpdateJobRequest) (*types.Job, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	argNum := 1

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if req.Company != nil {
		addSet("company", *req.Company)
	}
	if req.Position != nil {
		addSet("position", *req.Position)
	}
	if req.Type != nil {
		addSet("type", *req.Type)
	}
	if req.Color != nil {
		addSet("color", *req.Color)
	}
	if req.Description != nil {
		addSet("description", *req.Description)
	}
	if req.Salary != nil {
		addSet("salary", *req.Salary)
	}
	if req.Location != nil {
		addSet("location", *req.Location)
	}
	if req.JobURL != nil {
		addSet("job_url", *req.JobURL)
	}
	if req.Notes != nil {
		addSet("notes", *req.Notes)
	}
	if req.AppliedAt != nil {
		addSet("applied_at", *req.AppliedAt)
	}
	if req.ReminderAt != nil {
		addSet("reminder_at", *req.ReminderAt)
		sets = append(sets, "reminder_sent = FALSE")
	}

	query := "UPDATE jobs SET "
	for i, set := range sets {
		if i > 0 {
			query += ", "
		}
		query += set
	}
	query += fmt.Sprintf(" WHERE id = $%d AND user_id = $%d RETURNING %s", argNum, argNum+1, jobColumns)
	args = append(args, jobID, userID)

	job, err := scanJob(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return job, nil
}

// DeleteJob removes a job scoped by owner. Returns false when no row matched.
func (db *DB) DeleteJob(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM jobs WHERE id = $1 AND user_id = $2`,
		jobID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// DueReminders selects jobs whose reminder falls inside the half-open window
// [windowStart, windowEnd) and has not been dispatched yet.
func (db *DB) DueReminders(ctx context.Context, windowStart, windowEnd time.Time) ([]types.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs
		 WHERE reminder_at >= $1 AND reminder_at < $2 AND reminder_sent = FALSE
		 ORDER BY reminder_at ASC`,
		windowStart, windowEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// MarkReminderSent flags a job's current reminder as dispatched so a later
// sweep in the same window does not send it again.
func (db *DB) MarkReminderSent(ctx context.Context, jobID uuid.UUID) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE jobs SET reminder_sent = TRUE, updated_at = NOW() WHERE id = $1`,
		jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %s", jobID)
	}
	return nil
}
