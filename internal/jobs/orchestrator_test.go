package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/types"
)

// stubRepo serves canned records and postings and captures saved artifacts.
type stubRepo struct {
	mu       sync.Mutex
	postings map[uuid.UUID]types.TargetPosting
	records  map[uuid.UUID]types.SourceRecord
	saved    []types.TailoredArtifact
	saveErr  error
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		postings: make(map[uuid.UUID]types.TargetPosting),
		records:  make(map[uuid.UUID]types.SourceRecord),
	}
}

func (r *stubRepo) FetchRecords(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]types.SourceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.SourceRecord, 0, len(ids))
	for _, id := range ids {
		rec, ok := r.records[id]
		if !ok {
			return nil, &ErrNotFound{Kind: "record", ID: id.String()}
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *stubRepo) FetchTargetPosting(_ context.Context, _ uuid.UUID, id uuid.UUID) (types.TargetPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	posting, ok := r.postings[id]
	if !ok {
		return types.TargetPosting{}, &ErrNotFound{Kind: "posting", ID: id.String()}
	}
	return posting, nil
}

func (r *stubRepo) SaveArtifact(_ context.Context, artifact types.TailoredArtifact) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return "", r.saveErr
	}
	r.saved = append(r.saved, artifact)
	return artifact.ID.String(), nil
}

func (r *stubRepo) lastSaved() types.TailoredArtifact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved[len(r.saved)-1]
}

// echoTailorer returns the merged record unchanged.
type echoTailorer struct{}

func (echoTailorer) Tailor(_ context.Context, record types.CanonicalRecord, _ types.TargetPosting) (types.CanonicalRecord, error) {
	return record, nil
}

type failingTailorer struct{ err error }

func (f failingTailorer) Tailor(context.Context, types.CanonicalRecord, types.TargetPosting) (types.CanonicalRecord, error) {
	return types.CanonicalRecord{}, f.err
}

// fixedScorer returns the same raw score for every record.
type fixedScorer struct{ score types.RawScore }

func (f fixedScorer) Score(context.Context, types.CanonicalRecord, types.TargetPosting) (types.RawScore, error) {
	return f.score, nil
}

type failingScorer struct{ err error }

func (f failingScorer) Score(context.Context, types.CanonicalRecord, types.TargetPosting) (types.RawScore, error) {
	return types.RawScore{}, f.err
}

func perfectScore() types.RawScore {
	return types.RawScore{
		SkillsMatch:          20,
		ExperienceRelevance:  20,
		EducationFit:         20,
		KeywordAlignment:     20,
		AccomplishmentImpact: 20,
	}
}

// fixture seeds one posting and n source records and returns their ids.
func fixture(repo *stubRepo, n int) (postingID uuid.UUID, recordIDs []uuid.UUID) {
	postingID = uuid.New()
	repo.postings[postingID] = types.TargetPosting{JobTitle: "Go Engineer", Company: "Acme"}
	for i := 0; i < n; i++ {
		id := uuid.New()
		repo.records[id] = types.SourceRecord{
			ID:     id,
			Name:   "resume",
			Record: types.CanonicalRecord{FirstName: "Ada"},
		}
		recordIDs = append(recordIDs, id)
	}
	return postingID, recordIDs
}

func TestSubmit_EmptySourceRecords(t *testing.T) {
	repo := newStubRepo()
	store := NewMemoryStore()
	orch := NewOrchestrator(store, repo, echoTailorer{}, fixedScorer{score: perfectScore()})
	owner := uuid.New()

	_, err := orch.Submit(context.Background(), owner, uuid.New(), nil)
	var invalid *ErrInvalidInput
	require.ErrorAs(t, err, &invalid)

	// No job record may exist after a synchronous rejection.
	jobsList, err := orch.ListJobs(context.Background(), owner, 10)
	require.NoError(t, err)
	assert.Empty(t, jobsList)
}

func TestSubmit_RejectsNilIDs(t *testing.T) {
	orch := NewOrchestrator(NewMemoryStore(), newStubRepo(), echoTailorer{}, fixedScorer{})
	owner := uuid.New()

	var invalid *ErrInvalidInput
	_, err := orch.Submit(context.Background(), owner, uuid.Nil, []uuid.UUID{uuid.New()})
	require.ErrorAs(t, err, &invalid)

	_, err = orch.Submit(context.Background(), owner, uuid.New(), []uuid.UUID{uuid.Nil})
	require.ErrorAs(t, err, &invalid)
}

func TestJob_CompletesWithResultRef(t *testing.T) {
	repo := newStubRepo()
	orch := NewOrchestrator(NewMemoryStore(), repo, echoTailorer{}, fixedScorer{score: perfectScore()})
	owner := uuid.New()
	postingID, recordIDs := fixture(repo, 1)

	jobID, err := orch.Submit(context.Background(), owner, postingID, recordIDs)
	require.NoError(t, err)
	orch.Wait(jobID)

	job, err := orch.GetStatus(context.Background(), jobID, owner)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.NotEmpty(t, job.ResultRef)
	assert.Empty(t, job.Error)
	require.NotNil(t, job.CompletedAt)

	artifact := repo.lastSaved()
	assert.Equal(t, job.ResultRef, artifact.ID.String())
	assert.Equal(t, owner, artifact.OwnerID)
	assert.Equal(t, "Go Engineer", artifact.JobTitle)
	assert.Equal(t, recordIDs, artifact.SourceRecordIDs)
	assert.Equal(t, []string{"resume"}, artifact.SourceRecordNames)
}

func TestJob_ReleasesWaitRegistrationWhenDone(t *testing.T) {
	repo := newStubRepo()
	orch := NewOrchestrator(NewMemoryStore(), repo, echoTailorer{}, fixedScorer{score: perfectScore()})
	owner := uuid.New()
	postingID, recordIDs := fixture(repo, 1)

	var last uuid.UUID
	for i := 0; i < 5; i++ {
		jobID, err := orch.Submit(context.Background(), owner, postingID, recordIDs)
		require.NoError(t, err)
		orch.Wait(jobID)
		last = jobID
	}

	// Finished runs must not leave entries behind, and a second Wait on a
	// finished job returns immediately.
	orch.mu.Lock()
	remaining := len(orch.done)
	orch.mu.Unlock()
	assert.Zero(t, remaining)
	orch.Wait(last)
}

func TestJob_MissingPostingFails(t *testing.T) {
	repo := newStubRepo()
	orch := NewOrchestrator(NewMemoryStore(), repo, echoTailorer{}, fixedScorer{})
	owner := uuid.New()
	_, recordIDs := fixture(repo, 1)

	jobID, err := orch.Submit(context.Background(), owner, uuid.New(), recordIDs)
	require.NoError(t, err)
	orch.Wait(jobID)

	job, err := orch.GetStatus(context.Background(), jobID, owner)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusFailed, job.Status)
	assert.Equal(t, 10, job.Progress)
	assert.Contains(t, job.Error, "posting not found")
	assert.Empty(t, repo.saved)
}

func TestJob_MissingRecordFails(t *testing.T) {
	repo := newStubRepo()
	orch := NewOrchestrator(NewMemoryStore(), repo, echoTailorer{}, fixedScorer{})
	owner := uuid.New()
	postingID, _ := fixture(repo, 0)

	jobID, err := orch.Submit(context.Background(), owner, postingID, []uuid.UUID{uuid.New()})
	require.NoError(t, err)
	orch.Wait(jobID)

	job, err := orch.GetStatus(context.Background(), jobID, owner)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusFailed, job.Status)
	assert.Equal(t, 10, job.Progress)
	assert.Contains(t, job.Error, "record not found")
}

func TestJob_TailorerFailureFreezesProgress(t *testing.T) {
	repo := newStubRepo()
	orch := NewOrchestrator(NewMemoryStore(), repo,
		failingTailorer{err: errors.New("model unavailable")},
		fixedScorer{score: perfectScore()})
	owner := uuid.New()
	postingID, recordIDs := fixture(repo, 1)

	jobID, err := orch.Submit(context.Background(), owner, postingID, recordIDs)
	require.NoError(t, err)
	orch.Wait(jobID)

	job, err := orch.GetStatus(context.Background(), jobID, owner)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusFailed, job.Status)
	assert.Equal(t, 70, job.Progress)
	assert.Contains(t, job.Error, "tailor failed")
	assert.Contains(t, job.Error, "model unavailable")
	assert.Empty(t, job.ResultRef)
	assert.Empty(t, repo.saved)
}

func TestJob_ScorerFailureFreezesProgress(t *testing.T) {
	repo := newStubRepo()
	orch := NewOrchestrator(NewMemoryStore(), repo, echoTailorer{},
		failingScorer{err: errors.New("quota exhausted")})
	owner := uuid.New()
	postingID, recordIDs := fixture(repo, 1)

	jobID, err := orch.Submit(context.Background(), owner, postingID, recordIDs)
	require.NoError(t, err)
	orch.Wait(jobID)

	job, err := orch.GetStatus(context.Background(), jobID, owner)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusFailed, job.Status)
	assert.Equal(t, 70, job.Progress)
	assert.Contains(t, job.Error, "score failed")
}

func TestJob_SaveFailureFreezesProgress(t *testing.T) {
	repo := newStubRepo()
	repo.saveErr = errors.New("disk full")
	orch := NewOrchestrator(NewMemoryStore(), repo, echoTailorer{}, fixedScorer{score: perfectScore()})
	owner := uuid.New()
	postingID, recordIDs := fixture(repo, 1)

	jobID, err := orch.Submit(context.Background(), owner, postingID, recordIDs)
	require.NoError(t, err)
	orch.Wait(jobID)

	job, err := orch.GetStatus(context.Background(), jobID, owner)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusFailed, job.Status)
	assert.Equal(t, 90, job.Progress)
	assert.Contains(t, job.Error, "persist failed")
}

func TestGetStatus_MasksOtherOwnersJobs(t *testing.T) {
	repo := newStubRepo()
	orch := NewOrchestrator(NewMemoryStore(), repo, echoTailorer{}, fixedScorer{score: perfectScore()})
	owner := uuid.New()
	postingID, recordIDs := fixture(repo, 1)

	jobID, err := orch.Submit(context.Background(), owner, postingID, recordIDs)
	require.NoError(t, err)
	orch.Wait(jobID)

	_, err = orch.GetStatus(context.Background(), jobID, uuid.New())
	var nf *ErrNotFound
	assert.ErrorAs(t, err, &nf)
}

func TestEndToEnd_TwoRecordSkillsMergeAndPerfectScore(t *testing.T) {
	repo := newStubRepo()
	orch := NewOrchestrator(NewMemoryStore(), repo, echoTailorer{}, fixedScorer{score: perfectScore()})
	owner := uuid.New()

	postingID := uuid.New()
	repo.postings[postingID] = types.TargetPosting{JobTitle: "Go Engineer"}

	idA, idB := uuid.New(), uuid.New()
	repo.records[idA] = types.SourceRecord{ID: idA, Name: "python resume", Record: types.CanonicalRecord{
		Skills: types.SkillSet{Categories: map[string][]string{"lang": {"Python"}}},
	}}
	repo.records[idB] = types.SourceRecord{ID: idB, Name: "go resume", Record: types.CanonicalRecord{
		Skills: types.SkillSet{Categories: map[string][]string{"lang": {"Python", "Go"}}},
	}}

	jobID, err := orch.Submit(context.Background(), owner, postingID, []uuid.UUID{idA, idB})
	require.NoError(t, err)
	orch.Wait(jobID)

	job, err := orch.GetStatus(context.Background(), jobID, owner)
	require.NoError(t, err)
	require.Equal(t, types.JobStatusCompleted, job.Status)

	artifact := repo.lastSaved()
	require.True(t, artifact.TailoredRecord.Skills.IsCategorized())
	assert.ElementsMatch(t, []string{"Python", "Go"}, artifact.TailoredRecord.Skills.Categories["lang"])
	assert.Equal(t, 100, artifact.Score.Overall)
	assert.Equal(t, []string{"python resume", "go resume"}, artifact.SourceRecordNames)
}

func TestJobs_RunConcurrentlyAndIndependently(t *testing.T) {
	repo := newStubRepo()
	orch := NewOrchestrator(NewMemoryStore(), repo, echoTailorer{}, fixedScorer{score: perfectScore()})
	owner := uuid.New()
	postingID, recordIDs := fixture(repo, 1)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		id, err := orch.Submit(context.Background(), owner, postingID, recordIDs)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	for _, id := range ids {
		orch.Wait(id)
	}

	for _, id := range ids {
		job, err := orch.GetStatus(context.Background(), id, owner)
		require.NoError(t, err)
		assert.Equal(t, types.JobStatusCompleted, job.Status)
	}
	assert.Len(t, repo.saved, 5)
}
