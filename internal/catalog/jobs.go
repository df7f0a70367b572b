// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cardexhq/cardex/internal/metrics"
	"github.com/cardexhq/cardex/internal/models"
)

// CreateJob inserts a new ETL job row in the pending state. The job moves to
// running on its first progress write.
func (s *Store) CreateJob(ctx context.Context, gameCode, jobType string, totalRecords int64) (*models.ETLJob, error) {
	job := &models.ETLJob{
		ID:           uuid.New(),
		GameCode:     gameCode,
		JobType:      jobType,
		Status:       models.JobStatusPending,
		TotalRecords: totalRecords,
		CreatedAt:    time.Now(),
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO etl_jobs (
			id, game_code, job_type, status, total_records, processed_records, created_at
		) VALUES (?, ?, ?, ?, ?, 0, ?)`,
		job.ID, job.GameCode, job.JobType, string(job.Status), job.TotalRecords, job.CreatedAt,
	)
	if err != nil {
		metrics.RecordDBError("create_job")
		return nil, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to create job: %w", err))
	}
	return job, nil
}

// UpdateJobProgress advances a job's processed count, marking the job running
// and stamping its start time on the first write. The guard keeps the count
// monotonic, so replays and out-of-order updates are harmless.
func (s *Store) UpdateJobProgress(ctx context.Context, jobID uuid.UUID, processed int64) error {
	_, err := s.conn.ExecContext(ctx,
		`UPDATE etl_jobs SET processed_records = ?, status = ?, started_at = COALESCE(started_at, ?)
		 WHERE id = ? AND processed_records < ?`,
		processed, string(models.JobStatusRunning), time.Now(), jobID, processed)
	if err != nil {
		metrics.RecordDBError("update_job_progress")
		return models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to update job progress: %w", err))
	}
	return nil
}

// FinalizeJob moves a job to a terminal status and stamps completion time and
// duration. errorMessage is stored only when non-empty.
func (s *Store) FinalizeJob(ctx context.Context, jobID uuid.UUID, status models.JobStatus, errorMessage string) error {
	if !status.Terminal() {
		return fmt.Errorf("cannot finalize job to non-terminal status %s", status)
	}

	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("job %s not found", jobID)
	}

	now := time.Now()
	var durationMs sql.NullInt64
	if job.StartedAt != nil {
		durationMs = sql.NullInt64{Int64: now.Sub(*job.StartedAt).Milliseconds(), Valid: true}
	}
	var errMsg sql.NullString
	if errorMessage != "" {
		errMsg = sql.NullString{String: errorMessage, Valid: true}
	}

	_, err = s.conn.ExecContext(ctx,
		`UPDATE etl_jobs SET status = ?, error_message = ?, completed_at = ?, duration_ms = ?
		 WHERE id = ?`,
		string(status), errMsg, now, durationMs, jobID)
	if err != nil {
		metrics.RecordDBError("finalize_job")
		return models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to finalize job: %w", err))
	}
	return nil
}

// GetJob returns one job by id, or (nil, nil) when absent.
func (s *Store) GetJob(ctx context.Context, jobID uuid.UUID) (*models.ETLJob, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT id, game_code, job_type, status, total_records, processed_records,
		        error_message, started_at, completed_at, duration_ms, created_at
		 FROM etl_jobs WHERE id = ?`, jobID)

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		metrics.RecordDBError("get_job")
		return nil, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to query job: %w", err))
	}
	return job, nil
}

// ListJobs returns the most recent jobs, newest first. A gameCode of ""
// returns jobs for every game.
func (s *Store) ListJobs(ctx context.Context, gameCode string, limit int) ([]*models.ETLJob, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, game_code, job_type, status, total_records, processed_records,
	                 error_message, started_at, completed_at, duration_ms, created_at
	          FROM etl_jobs`
	args := []any{}
	if gameCode != "" {
		query += ` WHERE game_code = ?`
		args = append(args, gameCode)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordDBError("list_jobs")
		return nil, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to list jobs: %w", err))
	}
	defer closeQuietly(rows)

	var jobs []*models.ETLJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, models.NewImportError(models.FaultDatabase, fmt.Errorf("failed to scan job: %w", err))
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, models.NewImportError(models.FaultDatabase, fmt.Errorf("job iteration failed: %w", err))
	}
	return jobs, nil
}

// scanner abstracts sql.Row and sql.Rows for scanJob.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*models.ETLJob, error) {
	var job models.ETLJob
	var status string
	var errMsg sql.NullString
	var startedAt, completedAt sql.NullTime
	var durationMs sql.NullInt64

	err := row.Scan(&job.ID, &job.GameCode, &job.JobType, &status,
		&job.TotalRecords, &job.ProcessedRecords,
		&errMsg, &startedAt, &completedAt, &durationMs, &job.CreatedAt)
	if err != nil {
		return nil, err
	}

	job.Status = models.JobStatus(status)
	if errMsg.Valid {
		job.ErrorMessage = &errMsg.String
	}
	if startedAt.Valid {
		job.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}
	if durationMs.Valid {
		job.DurationMs = &durationMs.Int64
	}
	return &job, nil
}
