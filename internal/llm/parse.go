package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-tailor/internal/types"
)

const recordPromptHeader = `You are an expert resume parser. Extract the structured record below from
the raw resume text. COPY TEXT VERBATIM - do not paraphrase or summarize.

Return ONLY valid JSON with this structure:
{
  "first_name": "string",
  "last_name": "string",
  "contact": {"emails": ["string"], "phones": ["string"]},
  "career_objective": "string",
  "skills": {"category name": ["string"]},
  "jobs": [{
    "title": "string", "company": "string", "location": "string",
    "start_date": "YYYY-MM", "end_date": "YYYY-MM or Present",
    "role_summary": "string",
    "responsibilities": ["string"], "accomplishments": ["string"]
  }],
  "education": [{
    "institution": "string", "degree": "string",
    "start_date": "YYYY-MM", "end_date": "YYYY-MM", "GPA": "string"
  }]
}

If the resume lists skills without categories, return "skills" as a flat
array of strings instead. Omit fields that are absent; use [] for empty
lists and {} for empty objects. No markdown, no explanation.`

const postingPromptHeader = `You are an expert job posting parser. Extract the fields below from the
raw posting text. COPY TEXT VERBATIM - do not paraphrase or reword.
EXCLUDE application form fields, EEO statements and legal disclaimers.

Return ONLY valid JSON with this structure:
{
  "job_title": "string",
  "company": "string",
  "location": "string",
  "employment_type": "string",
  "salary_range": "string",
  "required_experience": "string",
  "required_education": "string",
  "job_description": "string",
  "responsibilities": ["string"],
  "qualifications": ["string"],
  "benefits": ["string"]
}

Use "" for missing scalar fields and [] for missing lists. No markdown,
no explanation.`

// RecordParser extracts a canonical record from raw resume text.
type RecordParser struct {
	client Client
	tier   ModelTier
}

// NewRecordParser creates a RecordParser on the given client.
func NewRecordParser(client Client) *RecordParser {
	return &RecordParser{client: client, tier: TierStandard}
}

// Parse extracts a structured record from resume text.
func (p *RecordParser) Parse(ctx context.Context, resumeText string) (types.CanonicalRecord, error) {
	prompt := fmt.Sprintf("%s\n\nResume text:\n\"\"\"\n%s\n\"\"\"\n", recordPromptHeader, resumeText)

	raw, err := p.client.GenerateJSON(ctx, prompt, p.tier)
	if err != nil {
		return types.CanonicalRecord{}, fmt.Errorf("record parsing failed: %w", err)
	}

	var record types.CanonicalRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return types.CanonicalRecord{}, fmt.Errorf("failed to decode parsed record: %w", err)
	}
	return record, nil
}

// PostingParser extracts a target posting from raw job ad text.
type PostingParser struct {
	client Client
	tier   ModelTier
}

// NewPostingParser creates a PostingParser on the given client.
func NewPostingParser(client Client) *PostingParser {
	return &PostingParser{client: client, tier: TierLite}
}

// Parse extracts a structured posting from job ad text.
func (p *PostingParser) Parse(ctx context.Context, adText string) (types.TargetPosting, error) {
	prompt := fmt.Sprintf("%s\n\nPosting text:\n\"\"\"\n%s\n\"\"\"\n", postingPromptHeader, adText)

	raw, err := p.client.GenerateJSON(ctx, prompt, p.tier)
	if err != nil {
		return types.TargetPosting{}, fmt.Errorf("posting parsing failed: %w", err)
	}

	var posting types.TargetPosting
	if err := json.Unmarshal([]byte(raw), &posting); err != nil {
		return types.TargetPosting{}, fmt.Errorf("failed to decode parsed posting: %w", err)
	}
	return posting, nil
}
