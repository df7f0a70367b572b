// Cardex - Trading Card Catalog Ingestion and Normalization
// Copyright 2026 Cardex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardexhq/cardex

package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of an ETL job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusPartial   JobStatus = "partial"
)

// Terminal reports whether the status is an end state.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled, JobStatusPartial:
		return true
	default:
		return false
	}
}

// ETLJob is one row per ingestion run. Created at job start, mutated only by
// the job lifecycle manager, never deleted by the engine (retained for audit).
type ETLJob struct {
	ID       uuid.UUID `json:"id"`
	GameCode string    `json:"game_code"`
	JobType  string    `json:"job_type"`

	Status JobStatus `json:"status"`

	// TotalRecords and ProcessedRecords advance monotonically.
	TotalRecords     int64 `json:"total_records"`
	ProcessedRecords int64 `json:"processed_records"`

	ErrorMessage *string `json:"error_message,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationMs  *int64     `json:"duration_ms,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ProgressPercent returns job progress as a percentage (0-100).
func (j *ETLJob) ProgressPercent() float64 {
	if j.TotalRecords == 0 {
		return 0
	}
	return float64(j.ProcessedRecords) / float64(j.TotalRecords) * 100
}
