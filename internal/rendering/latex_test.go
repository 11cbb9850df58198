package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/types"
)

func sampleArtifact() types.TailoredArtifact {
	return types.TailoredArtifact{
		TailoredRecord: types.CanonicalRecord{
			FirstName:       "Ada",
			LastName:        "Lovelace",
			CareerObjective: "Build reliable backend systems.",
			Contact: types.Contact{
				Emails: []string{"ada@example.com"},
				Phones: []string{"555-010-0001"},
			},
			Skills: types.SkillSet{Categories: map[string][]string{
				"Languages": {"Go", "Python"},
				"Tools":     {"Docker"},
			}},
			Jobs: []types.Experience{{
				Title:            "Engineer",
				Company:          "Babbage & Co",
				StartDate:        "2019-03",
				EndDate:          "Present",
				RoleSummary:      "Owned the data plane.",
				Responsibilities: []string{"built pipelines"},
				Accomplishments:  []string{"cut costs by 30%"},
			}},
			Education: []types.Education{{
				Institution: "MIT",
				Degree:      "BSc Mathematics",
				EndDate:     "2018-06",
				GPA:         "3.9",
			}},
		},
	}
}

func TestRenderTex_FullDocument(t *testing.T) {
	registry := DefaultRegistry()
	preset, err := registry.Get("classic")
	require.NoError(t, err)

	tex, err := RenderTex(sampleArtifact(), preset, Limits{})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tex, `\documentclass`))
	assert.Contains(t, tex, `\usepackage{charter}`)
	assert.Contains(t, tex, "Ada Lovelace")
	assert.Contains(t, tex, `ada@example.com $\cdot$ 555-010-0001`)
	assert.Contains(t, tex, `\section*{Objective}`)
	assert.Contains(t, tex, "Build reliable backend systems.")
	assert.Contains(t, tex, "Languages: Go, Python")
	assert.Contains(t, tex, "Tools: Docker")
	assert.Contains(t, tex, `Babbage \& Co`)
	assert.Contains(t, tex, "2019-03 -- Present")
	assert.Contains(t, tex, `Cut costs by 30\%`)
	assert.Contains(t, tex, "(GPA: 3.9)")
	assert.Contains(t, tex, `\end{document}`)
}

func TestRenderTex_EscapesSpecials(t *testing.T) {
	artifact := sampleArtifact()
	artifact.TailoredRecord.Jobs[0].Company = "AT&T"
	artifact.TailoredRecord.CareerObjective = "Save 10% of $1M budgets."

	preset, err := DefaultRegistry().Get("")
	require.NoError(t, err)

	tex, err := RenderTex(artifact, preset, Limits{})
	require.NoError(t, err)
	assert.Contains(t, tex, `AT\&T`)
	assert.Contains(t, tex, `Save 10\% of \$1M budgets.`)
	assert.NotContains(t, tex, "AT&T")
}

func TestRenderTex_BulletCapAndFit(t *testing.T) {
	artifact := sampleArtifact()
	artifact.TailoredRecord.Jobs[0].Responsibilities = []string{
		"one", "two", "three", "four", "five", "six", "seven",
	}
	artifact.TailoredRecord.Jobs[0].Accomplishments = nil

	preset, err := DefaultRegistry().Get("classic")
	require.NoError(t, err)

	tex, err := RenderTex(artifact, preset, Limits{MaxBullets: 2})
	require.NoError(t, err)
	assert.Contains(t, tex, `\item One`)
	assert.Contains(t, tex, `\item Two`)
	assert.NotContains(t, tex, `\item Three`)
}

func TestRenderTex_SparseRecord(t *testing.T) {
	artifact := types.TailoredArtifact{
		TailoredRecord: types.CanonicalRecord{FirstName: "Ada"},
	}
	preset, err := DefaultRegistry().Get("modern")
	require.NoError(t, err)

	tex, err := RenderTex(artifact, preset, Limits{})
	require.NoError(t, err)
	assert.Contains(t, tex, "Ada")
	assert.NotContains(t, tex, `\section*{Objective}`)
	assert.NotContains(t, tex, `\section*{Skills}`)
	assert.NotContains(t, tex, `\section*{Experience}`)
}

func TestRegistry_PresetsAndDefault(t *testing.T) {
	registry := DefaultRegistry()

	list := registry.List()
	require.Len(t, list, 3)
	assert.Equal(t, "classic", list[0].ID)
	assert.Equal(t, "modern", list[1].ID)
	assert.Equal(t, "creative", list[2].ID)

	def, err := registry.Get("")
	require.NoError(t, err)
	assert.Equal(t, "classic", def.ID)

	_, err = registry.Get("brutalist")
	assert.ErrorContains(t, err, "unknown template")
}
