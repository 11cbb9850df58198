package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-tailor/internal/merge"
	"github.com/jonathan/resume-tailor/internal/scoring"
	"github.com/jonathan/resume-tailor/internal/types"
)

// TailoringClient rewrites a record to target a posting. It must not
// fabricate fields absent from the input record.
type TailoringClient interface {
	Tailor(ctx context.Context, record types.CanonicalRecord, posting types.TargetPosting) (types.CanonicalRecord, error)
}

// ScoringClient rates how well a record fits a posting. Its output is raw
// and untrusted; scoring.Enforce runs on every result.
type ScoringClient interface {
	Score(ctx context.Context, record types.CanonicalRecord, posting types.TargetPosting) (types.RawScore, error)
}

// Repository is the collaborator that stores records, postings and
// completed artifacts.
type Repository interface {
	FetchRecords(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]types.SourceRecord, error)
	FetchTargetPosting(ctx context.Context, ownerID, id uuid.UUID) (types.TargetPosting, error)
	SaveArtifact(ctx context.Context, artifact types.TailoredArtifact) (string, error)
}

const defaultListLimit = 20

// Orchestrator runs the tailoring state machine: Pending, Processing, then
// Completed or Failed. One goroutine per job; jobs never restart.
type Orchestrator struct {
	store    JobStore
	repo     Repository
	tailorer TailoringClient
	scorer   ScoringClient

	mu   sync.Mutex
	done map[uuid.UUID]chan struct{}
}

// NewOrchestrator wires the orchestrator to its collaborators.
func NewOrchestrator(store JobStore, repo Repository, tailorer TailoringClient, scorer ScoringClient) *Orchestrator {
	return &Orchestrator{
		store:    store,
		repo:     repo,
		tailorer: tailorer,
		scorer:   scorer,
		done:     make(map[uuid.UUID]chan struct{}),
	}
}

// Submit validates the request, creates a Pending job and schedules its
// background run. It returns as soon as the job record exists; it never
// blocks on the workflow itself.
func (o *Orchestrator) Submit(ctx context.Context, ownerID, targetPostingID uuid.UUID, sourceRecordIDs []uuid.UUID) (uuid.UUID, error) {
	if len(sourceRecordIDs) == 0 {
		return uuid.Nil, &ErrInvalidInput{Reason: "source_record_ids must not be empty"}
	}
	if targetPostingID == uuid.Nil {
		return uuid.Nil, &ErrInvalidInput{Reason: "target_posting_id is required"}
	}
	for _, id := range sourceRecordIDs {
		if id == uuid.Nil {
			return uuid.Nil, &ErrInvalidInput{Reason: "source_record_ids contains an empty id"}
		}
	}

	ids := make([]uuid.UUID, len(sourceRecordIDs))
	copy(ids, sourceRecordIDs)

	job := types.TailoringJob{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		TargetPostingID: targetPostingID,
		SourceRecordIDs: ids,
		Status:          types.JobStatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if err := o.store.CreateJob(ctx, job); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job: %w", err)
	}

	o.mu.Lock()
	o.done[job.ID] = make(chan struct{})
	o.mu.Unlock()

	// The run outlives the submitting request, so it gets a fresh context.
	go o.run(job)

	return job.ID, nil
}

// GetStatus returns the job scoped to its owner. A job belonging to a
// different owner is indistinguishable from a missing one.
func (o *Orchestrator) GetStatus(ctx context.Context, jobID, ownerID uuid.UUID) (types.TailoringJob, error) {
	return o.store.GetJob(ctx, jobID, ownerID)
}

// ListJobs returns the owner's jobs newest-created-first.
func (o *Orchestrator) ListJobs(ctx context.Context, ownerID uuid.UUID, limit int) ([]types.TailoringJob, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return o.store.ListJobs(ctx, ownerID, limit)
}

// Wait blocks until the job's background run has terminated. Unknown job
// ids return immediately. Intended for tests and CLI one-shot runs.
func (o *Orchestrator) Wait(jobID uuid.UUID) {
	o.mu.Lock()
	ch, ok := o.done[jobID]
	o.mu.Unlock()
	if ok {
		<-ch
	}
}

func (o *Orchestrator) run(job types.TailoringJob) {
	ctx := context.Background()

	// Drop the registration on exit so finished jobs don't accumulate in
	// the map; waiters already holding the channel still see the close.
	defer func() {
		o.mu.Lock()
		ch := o.done[job.ID]
		delete(o.done, job.ID)
		o.mu.Unlock()
		close(ch)
	}()

	// The job must never stay Processing after this goroutine exits, so
	// both returned errors and panics resolve to a Failed transition.
	defer func() {
		if r := recover(); r != nil {
			o.fail(ctx, &job, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := o.execute(ctx, &job); err != nil {
		o.fail(ctx, &job, err.Error())
	}
}

// execute walks the workflow steps, writing a progress checkpoint before
// each slow step. Checkpoints are advisory for pollers, not resume points.
func (o *Orchestrator) execute(ctx context.Context, job *types.TailoringJob) error {
	job.Status = types.JobStatusProcessing
	if err := o.checkpoint(ctx, job, 10); err != nil {
		return err
	}

	posting, err := o.repo.FetchTargetPosting(ctx, job.OwnerID, job.TargetPostingID)
	if err != nil {
		return &ErrCollaborator{Stage: "fetch posting", Err: err}
	}
	sources, err := o.repo.FetchRecords(ctx, job.OwnerID, job.SourceRecordIDs)
	if err != nil {
		return &ErrCollaborator{Stage: "fetch records", Err: err}
	}

	if err := o.checkpoint(ctx, job, 30); err != nil {
		return err
	}
	records := make([]types.CanonicalRecord, len(sources))
	names := make([]string, len(sources))
	for i, s := range sources {
		records[i] = s.Record
		names[i] = s.Name
	}
	merged, err := merge.Records(records)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	if err := o.checkpoint(ctx, job, 50); err != nil {
		return err
	}

	if err := o.checkpoint(ctx, job, 70); err != nil {
		return err
	}
	var (
		tailored types.CanonicalRecord
		raw      types.RawScore
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if tailored, err = o.tailorer.Tailor(gctx, merged, posting); err != nil {
			return &ErrCollaborator{Stage: "tailor", Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if raw, err = o.scorer.Score(gctx, merged, posting); err != nil {
			return &ErrCollaborator{Stage: "score", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	enforced := scoring.Enforce(raw)

	if err := o.checkpoint(ctx, job, 90); err != nil {
		return err
	}
	artifact := types.TailoredArtifact{
		ID:                uuid.New(),
		OwnerID:           job.OwnerID,
		JobTitle:          posting.JobTitle,
		Company:           posting.Company,
		TailoredRecord:    tailored,
		Score:             enforced,
		SourceRecordIDs:   job.SourceRecordIDs,
		SourceRecordNames: names,
		JobAd:             posting,
		CreatedAt:         time.Now().UTC(),
	}
	resultRef, err := o.repo.SaveArtifact(ctx, artifact)
	if err != nil {
		return &ErrCollaborator{Stage: "persist", Err: err}
	}

	now := time.Now().UTC()
	job.Status = types.JobStatusCompleted
	job.Progress = 100
	job.ResultRef = resultRef
	job.CompletedAt = &now
	if err := o.store.UpdateJob(ctx, *job); err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}
	return nil
}

func (o *Orchestrator) checkpoint(ctx context.Context, job *types.TailoringJob, progress int) error {
	job.Progress = progress
	if err := o.store.UpdateJob(ctx, *job); err != nil {
		return fmt.Errorf("failed to persist checkpoint: %w", err)
	}
	return nil
}

// fail writes the terminal Failed transition. Progress stays frozen at the
// last checkpoint that preceded the failing step.
func (o *Orchestrator) fail(ctx context.Context, job *types.TailoringJob, message string) {
	if message == "" {
		message = "unknown error"
	}
	now := time.Now().UTC()
	job.Status = types.JobStatusFailed
	job.Error = message
	job.CompletedAt = &now
	if err := o.store.UpdateJob(ctx, *job); err != nil {
		log.Printf("job %s: failed to record failure: %v", job.ID, err)
	}
	log.Printf("job %s failed: %s", job.ID, message)
}
