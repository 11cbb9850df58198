package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillSet_UnmarshalCategorized(t *testing.T) {
	var s SkillSet
	require.NoError(t, json.Unmarshal([]byte(`{"lang":["Python","Go"],"tools":["Docker"]}`), &s))
	assert.True(t, s.IsCategorized())
	assert.Equal(t, []string{"Python", "Go"}, s.Categories["lang"])
	assert.Equal(t, []string{"Docker"}, s.Categories["tools"])
}

func TestSkillSet_UnmarshalFlat(t *testing.T) {
	var s SkillSet
	require.NoError(t, json.Unmarshal([]byte(`["Go","SQL"]`), &s))
	assert.False(t, s.IsCategorized())
	assert.Equal(t, []string{"Go", "SQL"}, s.Flat)
}

func TestSkillSet_UnmarshalSingleString(t *testing.T) {
	var s SkillSet
	require.NoError(t, json.Unmarshal([]byte(`"Go"`), &s))
	assert.Equal(t, []string{"Go"}, s.Flat)

	require.NoError(t, json.Unmarshal([]byte(`"  "`), &s))
	assert.True(t, s.IsEmpty())
}

func TestSkillSet_UnmarshalNull(t *testing.T) {
	var s SkillSet
	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.False(t, s.IsCategorized())
	assert.True(t, s.IsEmpty())
}

func TestSkillSet_UnmarshalRejectsScalars(t *testing.T) {
	var s SkillSet
	assert.Error(t, json.Unmarshal([]byte(`42`), &s))
	assert.Error(t, json.Unmarshal([]byte(`{"lang":"Go"}`), &s))
}

func TestSkillSet_MarshalShapes(t *testing.T) {
	out, err := json.Marshal(SkillSet{Categories: map[string][]string{"lang": {"Go"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"lang":["Go"]}`, string(out))

	out, err = json.Marshal(SkillSet{Flat: []string{"Go"}})
	require.NoError(t, err)
	assert.JSONEq(t, `["Go"]`, string(out))

	out, err = json.Marshal(SkillSet{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(out))
}

func TestSkillSet_IsEmpty(t *testing.T) {
	assert.True(t, SkillSet{}.IsEmpty())
	assert.True(t, SkillSet{Categories: map[string][]string{"lang": {}}}.IsEmpty())
	assert.False(t, SkillSet{Categories: map[string][]string{"lang": {"Go"}}}.IsEmpty())
	assert.False(t, SkillSet{Flat: []string{"Go"}}.IsEmpty())
}

func TestGPA_UnmarshalNumberAndString(t *testing.T) {
	var e Education

	require.NoError(t, json.Unmarshal([]byte(`{"GPA":3.8}`), &e))
	assert.Equal(t, GPA("3.8"), e.GPA)

	require.NoError(t, json.Unmarshal([]byte(`{"GPA":"3.8/4.0"}`), &e))
	assert.Equal(t, GPA("3.8/4.0"), e.GPA)

	require.NoError(t, json.Unmarshal([]byte(`{"GPA":null}`), &e))
	assert.Equal(t, GPA(""), e.GPA)

	assert.Error(t, json.Unmarshal([]byte(`{"GPA":[3.8]}`), &e))
}

func TestCanonicalRecord_RoundTrip(t *testing.T) {
	raw := `{
		"first_name": "Ada",
		"last_name": "Lovelace",
		"contact": {"emails": ["ada@example.com"], "phones": []},
		"career_objective": "Build engines",
		"skills": {"lang": ["Python", "Go"]},
		"jobs": [{
			"title": "Engineer",
			"company": "Acme",
			"start_date": "2019-03",
			"end_date": "Present",
			"role_summary": "Owned the data plane",
			"responsibilities": ["Built pipelines"],
			"accomplishments": ["Cut costs by 30%"]
		}],
		"education": [{"institution": "MIT", "degree": "BSc", "GPA": 3.9}]
	}`

	var rec CanonicalRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	assert.Equal(t, "Ada", rec.FirstName)
	assert.Equal(t, "Present", rec.Jobs[0].EndDate)
	assert.Equal(t, GPA("3.9"), rec.Education[0].GPA)

	out, err := json.Marshal(rec)
	require.NoError(t, err)

	var again CanonicalRecord
	require.NoError(t, json.Unmarshal(out, &again))
	assert.Equal(t, rec, again)
}
