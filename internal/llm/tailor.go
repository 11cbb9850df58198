package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/schemas"
	"github.com/jonathan/resume-tailor/internal/types"
)

const tailorPromptHeader = `You are an expert resume writer. Rewrite the candidate record below so it
targets the given job posting.

Rules:
- Reorder and reword skills, role summaries, responsibilities and
  accomplishments to emphasize what the posting asks for.
- NEVER invent employers, titles, dates, degrees, skills or contact
  details that are not present in the candidate record.
- Keep every date exactly as given.
- Keep the same JSON structure as the input record.

Return ONLY the rewritten record as valid JSON, no markdown, no explanation.`

// Tailorer rewrites a canonical record to target a specific job posting.
type Tailorer struct {
	client Client
	tier   ModelTier
}

// NewTailorer creates a Tailorer on the given client.
func NewTailorer(client Client) *Tailorer {
	return &Tailorer{client: client, tier: TierAdvanced}
}

// Tailor produces a rewritten record targeting the posting. Identity and
// contact fields are always copied from the input record, so a model that
// drops or invents them cannot corrupt the artifact.
func (t *Tailorer) Tailor(ctx context.Context, record types.CanonicalRecord, posting types.TargetPosting) (types.CanonicalRecord, error) {
	recordJSON, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return types.CanonicalRecord{}, fmt.Errorf("failed to encode record: %w", err)
	}
	postingJSON, err := json.MarshalIndent(posting, "", "  ")
	if err != nil {
		return types.CanonicalRecord{}, fmt.Errorf("failed to encode posting: %w", err)
	}

	prompt := fmt.Sprintf("%s\n\nJob posting:\n%s\n\nCandidate record:\n%s\n",
		tailorPromptHeader, postingJSON, recordJSON)

	raw, err := t.client.GenerateJSON(ctx, prompt, t.tier)
	if err != nil {
		return types.CanonicalRecord{}, fmt.Errorf("tailoring generation failed: %w", err)
	}
	if err := schemas.ValidateTailoredRecord(raw); err != nil {
		return types.CanonicalRecord{}, fmt.Errorf("tailored record rejected: %w", err)
	}

	var tailored types.CanonicalRecord
	if err := json.Unmarshal([]byte(raw), &tailored); err != nil {
		return types.CanonicalRecord{}, fmt.Errorf("failed to decode tailored record: %w", err)
	}

	tailored.FirstName = record.FirstName
	tailored.LastName = record.LastName
	tailored.Contact = record.Contact
	if tailored.Skills.IsEmpty() {
		tailored.Skills = record.Skills
	}
	return tailored, nil
}
