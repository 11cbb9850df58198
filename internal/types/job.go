package types

import (
	"time"

	"github.com/google/uuid"
)

// Job statuses. Pending and Processing are transient; Completed and Failed
// are terminal and a job never leaves a terminal status.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// TailoringJob tracks one background tailoring run. The record is mutated
// only by the goroutine that owns the run; readers may observe any state
// from Pending through terminal.
type TailoringJob struct {
	ID              uuid.UUID   `json:"job_id"`
	OwnerID         uuid.UUID   `json:"-"`
	TargetPostingID uuid.UUID   `json:"target_posting_id"`
	SourceRecordIDs []uuid.UUID `json:"source_record_ids"`
	Status          string      `json:"status"`
	Progress        int         `json:"progress"` // 0-100, non-decreasing while non-terminal
	Error           string      `json:"error,omitempty"`
	ResultRef       string      `json:"result_ref,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
}

// Terminal reports whether the job has reached a final status.
func (j *TailoringJob) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
