package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

const scorePromptHeader = `You are an expert technical recruiter. Score how well the candidate record
below fits the job posting.

Score five categories, each an integer from 0 to 20:
- skills_match: overlap between the candidate's skills and the posting's requirements
- experience_relevance: how relevant the work history is to the role
- education_fit: whether the education satisfies the posting's expectations
- keyword_alignment: use of the posting's own terminology in the record
- accomplishment_impact: strength and specificity of the accomplishments

Also list up to five "strengths" and up to five "gaps" as short strings.

Return ONLY valid JSON with keys skills_match, experience_relevance,
education_fit, keyword_alignment, accomplishment_impact, strengths, gaps.
No markdown, no explanation.`

// Scorer rates how well a record fits a posting. The output is raw: the
// caller is responsible for clamping categories and computing the aggregate.
type Scorer struct {
	client Client
	tier   ModelTier
}

// NewScorer creates a Scorer on the given client.
func NewScorer(client Client) *Scorer {
	return &Scorer{client: client, tier: TierStandard}
}

// Score produces a raw fit score for the record against the posting.
func (s *Scorer) Score(ctx context.Context, record types.CanonicalRecord, posting types.TargetPosting) (types.RawScore, error) {
	recordJSON, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return types.RawScore{}, fmt.Errorf("failed to encode record: %w", err)
	}
	postingJSON, err := json.MarshalIndent(posting, "", "  ")
	if err != nil {
		return types.RawScore{}, fmt.Errorf("failed to encode posting: %w", err)
	}

	prompt := fmt.Sprintf("%s\n\nJob posting:\n%s\n\nCandidate record:\n%s\n",
		scorePromptHeader, postingJSON, recordJSON)

	raw, err := s.client.GenerateJSON(ctx, prompt, s.tier)
	if err != nil {
		return types.RawScore{}, fmt.Errorf("scoring generation failed: %w", err)
	}
	if err := schemas.ValidateRawScore(raw); err != nil {
		return types.RawScore{}, fmt.Errorf("raw score rejected: %w", err)
	}

	var score types.RawScore
	if err := json.Unmarshal([]byte(raw), &score); err != nil {
		return types.RawScore{}, fmt.Errorf("failed to decode raw score: %w", err)
	}
	return score, nil
}
