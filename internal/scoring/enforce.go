// Package scoring post-processes collaborator score output so that the
// aggregate always equals the sum of its category scores.
package scoring

import "github.com/jonathan/resume-tailor/internal/types"

// Enforce clamps every category into [CategoryMin, CategoryMax] and
// recomputes Overall as the exact sum of the clamped categories. Whatever
// aggregate the collaborator claimed is discarded.
func Enforce(raw types.RawScore) types.ScoreResult {
	result := types.ScoreResult{
		SkillsMatch:          clamp(raw.SkillsMatch),
		ExperienceRelevance:  clamp(raw.ExperienceRelevance),
		EducationFit:         clamp(raw.EducationFit),
		KeywordAlignment:     clamp(raw.KeywordAlignment),
		AccomplishmentImpact: clamp(raw.AccomplishmentImpact),
		Strengths:            raw.Strengths,
		Gaps:                 raw.Gaps,
	}
	for _, c := range result.Categories() {
		result.Overall += c
	}
	return result
}

func clamp(v int) int {
	if v < types.CategoryMin {
		return types.CategoryMin
	}
	if v > types.CategoryMax {
		return types.CategoryMax
	}
	return v
}
