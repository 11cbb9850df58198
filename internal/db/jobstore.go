package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/jobs"
	"github.com/jonathan/resume-tailor/internal/types"
)

// CreateJob stores a new tailoring job row.
func (db *DB) CreateJob(ctx context.Context, job types.TailoringJob) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO tailoring_jobs
		   (id, owner_id, target_posting_id, source_record_ids, status, progress, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		job.ID, job.OwnerID, job.TargetPostingID, job.SourceRecordIDs,
		job.Status, job.Progress, job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// UpdateJob overwrites the mutable fields of an existing job row.
func (db *DB) UpdateJob(ctx context.Context, job types.TailoringJob) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE tailoring_jobs
		 SET status = $2, progress = $3, error = $4, result_ref = $5, completed_at = $6
		 WHERE id = $1`,
		job.ID, job.Status, job.Progress, job.Error, job.ResultRef, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &jobs.ErrNotFound{Kind: "job", ID: job.ID.String()}
	}
	return nil
}

// GetJob returns a job by id, scoped to its owner. A foreign-owned job is
// indistinguishable from a missing one.
func (db *DB) GetJob(ctx context.Context, jobID, ownerID uuid.UUID) (types.TailoringJob, error) {
	var job types.TailoringJob
	err := db.pool.QueryRow(ctx,
		`SELECT id, owner_id, target_posting_id, source_record_ids,
		        status, progress, COALESCE(error, ''), COALESCE(result_ref, ''),
		        created_at, completed_at
		 FROM tailoring_jobs
		 WHERE id = $1 AND owner_id = $2`,
		jobID, ownerID,
	).Scan(&job.ID, &job.OwnerID, &job.TargetPostingID, &job.SourceRecordIDs,
		&job.Status, &job.Progress, &job.Error, &job.ResultRef, &job.CreatedAt, &job.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.TailoringJob{}, &jobs.ErrNotFound{Kind: "job", ID: jobID.String()}
		}
		return types.TailoringJob{}, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// ListJobs returns the owner's jobs newest-created-first, at most limit.
func (db *DB) ListJobs(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.TailoringJob, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, owner_id, target_posting_id, source_record_ids,
		        status, progress, COALESCE(error, ''), COALESCE(result_ref, ''),
		        created_at, completed_at
		 FROM tailoring_jobs
		 WHERE owner_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var out []types.TailoringJob
	for rows.Next() {
		var job types.TailoringJob
		if err := rows.Scan(&job.ID, &job.OwnerID, &job.TargetPostingID, &job.SourceRecordIDs,
			&job.Status, &job.Progress, &job.Error, &job.ResultRef, &job.CreatedAt, &job.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		out = append(out, job)
	}
	return out, rows.Err()
}
