package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-tailor/internal/types"
)

const advicePromptHeader = `You are an expert career coach. Give the candidate concrete advice on how
to improve their resume for the job posting below.

Rules:
- Address the weakest areas first, using the fit score if one is given.
- Suggest rewording, reordering and emphasis changes only; never advise
  the candidate to claim experience or qualifications they do not have.
- Keep it to at most six short paragraphs of plain text.

Return plain text only, no markdown, no JSON.`

// Adviser produces improvement advice for a record against a posting.
type Adviser struct {
	client Client
	tier   ModelTier
}

// NewAdviser creates an Adviser on the given client.
func NewAdviser(client Client) *Adviser {
	return &Adviser{client: client, tier: TierStandard}
}

// Advise returns plain-text improvement advice. The score is optional
// context for the model; a zero value omits it from the prompt.
func (a *Adviser) Advise(ctx context.Context, record types.CanonicalRecord, posting types.TargetPosting, score types.ScoreResult) (string, error) {
	recordJSON, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	postingJSON, err := json.MarshalIndent(posting, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode posting: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nJob posting:\n%s\n\nCandidate record:\n%s\n",
		advicePromptHeader, postingJSON, recordJSON)
	if !score.IsZero() {
		scoreJSON, err := json.MarshalIndent(score, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode score: %w", err)
		}
		fmt.Fprintf(&b, "\nCurrent fit score:\n%s\n", scoreJSON)
	}

	advice, err := a.client.GenerateContent(ctx, b.String(), a.tier)
	if err != nil {
		return "", fmt.Errorf("advice generation failed: %w", err)
	}
	advice = strings.TrimSpace(advice)
	if advice == "" {
		return "", fmt.Errorf("advice generation returned empty response")
	}
	return advice, nil
}
