package types

// Score category bounds. Each category is an integer in [0, CategoryMax];
// the aggregate is the exact sum of the five categories.
const (
	CategoryMin = 0
	CategoryMax = 20
)

// RawScore is what the scoring collaborator returns. The collaborator is
// untrusted: categories may fall outside [0,20] and Overall may not equal
// their sum. scoring.Enforce turns a RawScore into a ScoreResult.
type RawScore struct {
	SkillsMatch          int      `json:"skills_match"`
	ExperienceRelevance  int      `json:"experience_relevance"`
	EducationFit         int      `json:"education_fit"`
	KeywordAlignment     int      `json:"keyword_alignment"`
	AccomplishmentImpact int      `json:"accomplishment_impact"`
	Overall              int      `json:"overall"`
	Strengths            []string `json:"strengths"`
	Gaps                 []string `json:"gaps"`
}

// ScoreResult is a consistency-enforced score: every category is clamped
// into [0,20] and Overall equals their sum.
type ScoreResult struct {
	SkillsMatch          int      `json:"skills_match"`
	ExperienceRelevance  int      `json:"experience_relevance"`
	EducationFit         int      `json:"education_fit"`
	KeywordAlignment     int      `json:"keyword_alignment"`
	AccomplishmentImpact int      `json:"accomplishment_impact"`
	Overall              int      `json:"overall"`
	Strengths            []string `json:"strengths,omitempty"`
	Gaps                 []string `json:"gaps,omitempty"`
}

// Categories returns the five category values in declaration order.
func (s ScoreResult) Categories() [5]int {
	return [5]int{s.SkillsMatch, s.ExperienceRelevance, s.EducationFit, s.KeywordAlignment, s.AccomplishmentImpact}
}

// IsZero reports whether the score carries no information.
func (s ScoreResult) IsZero() bool {
	return s.Overall == 0 && s.Categories() == [5]int{} &&
		len(s.Strengths) == 0 && len(s.Gaps) == 0
}
