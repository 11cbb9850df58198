// Package schemas validates collaborator JSON output against embedded JSON
// Schemas before it is trusted by the rest of the pipeline.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// tailoredRecordSchema constrains the tailored record returned by the
// text-understanding collaborator. Optional fields stay optional so a
// sparse source record does not fail tailoring, but present fields must
// have the canonical shape.
const tailoredRecordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["contact", "skills", "jobs", "education"],
  "properties": {
    "first_name": {"type": "string"},
    "last_name": {"type": "string"},
    "career_objective": {"type": "string"},
    "contact": {
      "type": "object",
      "properties": {
        "emails": {"type": "array", "items": {"type": "string"}},
        "phones": {"type": "array", "items": {"type": "string"}}
      }
    },
    "skills": {
      "oneOf": [
        {
          "type": "object",
          "additionalProperties": {"type": "array", "items": {"type": "string"}}
        },
        {"type": "array", "items": {"type": "string"}}
      ]
    },
    "jobs": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "company": {"type": "string"},
          "location": {"type": "string"},
          "start_date": {"type": "string"},
          "end_date": {"type": "string"},
          "role_summary": {"type": "string"},
          "responsibilities": {"type": "array", "items": {"type": "string"}},
          "accomplishments": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "institution": {"type": "string"},
          "degree": {"type": "string"},
          "start_date": {"type": "string"},
          "end_date": {"type": "string"},
          "GPA": {"type": ["string", "number", "null"]}
        }
      }
    }
  }
}`

// rawScoreSchema constrains the scoring collaborator's output. Category
// ranges are deliberately NOT enforced here; out-of-range values are
// clamped downstream rather than failing the job.
const rawScoreSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": [
    "skills_match",
    "experience_relevance",
    "education_fit",
    "keyword_alignment",
    "accomplishment_impact"
  ],
  "properties": {
    "skills_match": {"type": "integer"},
    "experience_relevance": {"type": "integer"},
    "education_fit": {"type": "integer"},
    "keyword_alignment": {"type": "integer"},
    "accomplishment_impact": {"type": "integer"},
    "overall": {"type": "integer"},
    "strengths": {"type": "array", "items": {"type": "string"}},
    "gaps": {"type": "array", "items": {"type": "string"}}
  }
}`

// ValidationError reports document-level schema violations with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError reports a problem with the schema itself rather than the
// document under validation.
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateTailoredRecord validates a tailored record JSON document.
func ValidateTailoredRecord(jsonContent string) error {
	return validate("tailored-record", tailoredRecordSchema, jsonContent)
}

// ValidateRawScore validates a raw score JSON document.
func ValidateRawScore(jsonContent string) error {
	return validate("raw-score", rawScoreSchema, jsonContent)
}

func validate(name, schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Name:    name,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
