package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/types"
)

func TestAdviser_IncludesScoreInPrompt(t *testing.T) {
	stub := &stubClient{response: "Tighten the summary.\n"}
	adviser := NewAdviser(stub)

	score := types.ScoreResult{SkillsMatch: 5, Overall: 5, Gaps: []string{"no Kubernetes"}}
	got, err := adviser.Advise(context.Background(), sourceRecord(), types.TargetPosting{JobTitle: "Go Engineer"}, score)
	require.NoError(t, err)

	assert.Equal(t, "Tighten the summary.", got)
	require.Len(t, stub.prompts, 1)
	assert.Contains(t, stub.prompts[0], "Current fit score")
	assert.Contains(t, stub.prompts[0], "no Kubernetes")
	assert.Contains(t, stub.prompts[0], "Go Engineer")
}

func TestAdviser_OmitsEmptyScore(t *testing.T) {
	stub := &stubClient{response: "Reorder the skills."}
	adviser := NewAdviser(stub)

	_, err := adviser.Advise(context.Background(), sourceRecord(), types.TargetPosting{}, types.ScoreResult{})
	require.NoError(t, err)
	require.Len(t, stub.prompts, 1)
	assert.NotContains(t, stub.prompts[0], "Current fit score")
}

func TestAdviser_PropagatesErrors(t *testing.T) {
	stub := &stubClient{err: errors.New("quota exhausted")}
	adviser := NewAdviser(stub)

	_, err := adviser.Advise(context.Background(), sourceRecord(), types.TargetPosting{}, types.ScoreResult{})
	assert.ErrorContains(t, err, "advice generation failed")
}

func TestAdviser_RejectsEmptyResponse(t *testing.T) {
	stub := &stubClient{response: "   \n"}
	adviser := NewAdviser(stub)

	_, err := adviser.Advise(context.Background(), sourceRecord(), types.TargetPosting{}, types.ScoreResult{})
	assert.ErrorContains(t, err, "empty response")
}
