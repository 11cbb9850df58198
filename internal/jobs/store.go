package jobs

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/resume-tailor/internal/types"
)

// JobStore persists tailoring jobs and their state transitions. Each job is
// written only by the goroutine running it, so implementations need no
// locking beyond per-write atomicity.
type JobStore interface {
	// CreateJob stores a new job record.
	CreateJob(ctx context.Context, job types.TailoringJob) error
	// UpdateJob overwrites an existing job record.
	UpdateJob(ctx context.Context, job types.TailoringJob) error
	// GetJob returns a job by id, scoped to its owner. A missing job and a
	// job owned by someone else both return ErrNotFound.
	GetJob(ctx context.Context, jobID, ownerID uuid.UUID) (types.TailoringJob, error)
	// ListJobs returns the owner's jobs newest-created-first, at most limit.
	ListJobs(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.TailoringJob, error)
}

// MemoryStore is an in-memory JobStore for tests and single-process runs.
type MemoryStore struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]types.TailoringJob
	order []uuid.UUID // creation order, oldest first
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[uuid.UUID]types.TailoringJob)}
}

// CreateJob stores a new job record.
func (s *MemoryStore) CreateJob(_ context.Context, job types.TailoringJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[job.ID] = snapshot(job)
	s.order = append(s.order, job.ID)
	return nil
}

// UpdateJob overwrites an existing job record.
func (s *MemoryStore) UpdateJob(_ context.Context, job types.TailoringJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[job.ID]; !ok {
		return &ErrNotFound{Kind: "job", ID: job.ID.String()}
	}
	s.byID[job.ID] = snapshot(job)
	return nil
}

// GetJob returns a job by id, scoped to its owner.
func (s *MemoryStore) GetJob(_ context.Context, jobID, ownerID uuid.UUID) (types.TailoringJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.byID[jobID]
	if !ok || job.OwnerID != ownerID {
		return types.TailoringJob{}, &ErrNotFound{Kind: "job", ID: jobID.String()}
	}
	return snapshot(job), nil
}

// ListJobs returns the owner's jobs newest-created-first, at most limit.
func (s *MemoryStore) ListJobs(_ context.Context, ownerID uuid.UUID, limit int) ([]types.TailoringJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.TailoringJob, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		job := s.byID[s.order[i]]
		if job.OwnerID != ownerID {
			continue
		}
		out = append(out, snapshot(job))
	}
	return out, nil
}

// snapshot copies the slice field so callers and the store never share
// backing arrays.
func snapshot(job types.TailoringJob) types.TailoringJob {
	if job.SourceRecordIDs != nil {
		ids := make([]uuid.UUID, len(job.SourceRecordIDs))
		copy(ids, job.SourceRecordIDs)
		job.SourceRecordIDs = ids
	}
	return job
}
