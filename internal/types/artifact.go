package types

import (
	"time"

	"github.com/google/uuid"
)

// SourceRecord pairs a stored canonical record with its identity and display
// name, as fetched from the record repository.
type SourceRecord struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Record CanonicalRecord `json:"record"`
}

// TailoredArtifact is the completed output of a tailoring job: the tailored
// record, its enforced score, and enough provenance to explain where it came
// from. JobAd is a snapshot of the posting at tailoring time; the live
// posting may change afterwards.
type TailoredArtifact struct {
	ID                uuid.UUID       `json:"id"`
	OwnerID           uuid.UUID       `json:"-"`
	JobTitle          string          `json:"job_title"`
	Company           string          `json:"company"`
	TailoredRecord    CanonicalRecord `json:"tailored_resume"`
	Score             ScoreResult     `json:"score"`
	SourceRecordIDs   []uuid.UUID     `json:"source_resume_ids"`
	SourceRecordNames []string        `json:"source_resume_names"`
	JobAd             TargetPosting   `json:"job_ad_data"`
	Status            string          `json:"status,omitempty"` // "", "applied"
	AppliedAt         *time.Time      `json:"applied_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}
