package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTailoredRecord_Valid(t *testing.T) {
	doc := `{
		"first_name": "Ada",
		"contact": {"emails": ["ada@example.com"], "phones": []},
		"skills": {"lang": ["Go"]},
		"jobs": [{"title": "Engineer", "responsibilities": ["x"], "accomplishments": []}],
		"education": [{"institution": "MIT", "GPA": 3.9}]
	}`
	assert.NoError(t, ValidateTailoredRecord(doc))
}

func TestValidateTailoredRecord_FlatSkillsValid(t *testing.T) {
	doc := `{"contact": {}, "skills": ["Go", "SQL"], "jobs": [], "education": []}`
	assert.NoError(t, ValidateTailoredRecord(doc))
}

func TestValidateTailoredRecord_MissingRequired(t *testing.T) {
	err := ValidateTailoredRecord(`{"first_name": "Ada"}`)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateTailoredRecord_WrongSkillShape(t *testing.T) {
	doc := `{"contact": {}, "skills": 42, "jobs": [], "education": []}`
	var ve *ValidationError
	require.True(t, errors.As(ValidateTailoredRecord(doc), &ve))
}

func TestValidateRawScore_Valid(t *testing.T) {
	doc := `{
		"skills_match": 18,
		"experience_relevance": 15,
		"education_fit": 12,
		"keyword_alignment": 20,
		"accomplishment_impact": 9,
		"overall": 74,
		"strengths": ["relevant stack"],
		"gaps": []
	}`
	assert.NoError(t, ValidateRawScore(doc))
}

func TestValidateRawScore_OutOfRangeStillValid(t *testing.T) {
	// Range enforcement is a downstream concern, not a schema concern.
	doc := `{
		"skills_match": 35,
		"experience_relevance": -2,
		"education_fit": 0,
		"keyword_alignment": 0,
		"accomplishment_impact": 0
	}`
	assert.NoError(t, ValidateRawScore(doc))
}

func TestValidateRawScore_MissingCategory(t *testing.T) {
	err := ValidateRawScore(`{"skills_match": 10}`)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
}

func TestValidateRawScore_NonIntegerCategory(t *testing.T) {
	doc := `{
		"skills_match": "ten",
		"experience_relevance": 1,
		"education_fit": 1,
		"keyword_alignment": 1,
		"accomplishment_impact": 1
	}`
	var ve *ValidationError
	require.True(t, errors.As(ValidateRawScore(doc), &ve))
}
