package rendering

import (
	"sort"
	"strings"
	"text/template"

	"github.com/jonathan/resume-tailor/internal/textfit"
	"github.com/jonathan/resume-tailor/internal/types"
)

// Limits bounds how much text each resume element may carry. Zero values
// are replaced by DefaultLimits.
type Limits struct {
	MaxObjectiveLength int
	MaxSummaryLength   int
	MaxBullets         int
	MaxBulletLength    int
}

// DefaultLimits returns the limits used when the caller does not care.
func DefaultLimits() Limits {
	return Limits{
		MaxObjectiveLength: 300,
		MaxSummaryLength:   220,
		MaxBullets:         5,
		MaxBulletLength:    160,
	}
}

func (l Limits) orDefaults() Limits {
	d := DefaultLimits()
	if l.MaxObjectiveLength <= 0 {
		l.MaxObjectiveLength = d.MaxObjectiveLength
	}
	if l.MaxSummaryLength <= 0 {
		l.MaxSummaryLength = d.MaxSummaryLength
	}
	if l.MaxBullets <= 0 {
		l.MaxBullets = d.MaxBullets
	}
	if l.MaxBulletLength <= 0 {
		l.MaxBulletLength = d.MaxBulletLength
	}
	return l
}

const resumeTemplate = `\documentclass[11pt]{article}
\usepackage[margin=0.75in]{geometry}
\usepackage{xcolor}
\usepackage{enumitem}
\usepackage{titlesec}
{{.FontPackages}}
{{.ColorDefs}}
\titleformat{\section}{\large\bfseries {{.SectionColor}}}{}{0em}{}[\titlerule]
\setlist[itemize]{leftmargin=*, nosep}
\pagestyle{empty}
\begin{document}

\begin{center}
{ {{- .NameStyle}} {{.Name}}}
{{- if .ContactLine}}

\vspace{2pt}
{{.ContactLine}}
{{- end}}
\end{center}
{{- if .Objective}}

\section*{Objective}
{{.Objective}}
{{- end}}
{{- if .SkillLines}}

\section*{Skills}
\begin{itemize}
{{- range .SkillLines}}
  \item {{.}}
{{- end}}
\end{itemize}
{{- end}}
{{- if .Jobs}}

\section*{Experience}
{{- range .Jobs}}
\textbf{ {{- .Title}}}{{if .Company}} --- {{.Company}}{{end}}{{if .Dates}} \hfill {{.Dates}}{{end}}
{{- if .Summary}}

{{.Summary}}
{{- end}}
{{- if .Bullets}}
\begin{itemize}
{{- range .Bullets}}
  \item {{.}}
{{- end}}
\end{itemize}
{{- end}}
{{end}}
{{- end}}
{{- if .Education}}

\section*{Education}
{{- range .Education}}
\textbf{ {{- .Institution}}}{{if .Degree}} --- {{.Degree}}{{end}}{{if .Dates}} \hfill {{.Dates}}{{end}}{{if .GPA}} (GPA: {{.GPA}}){{end}}

{{end}}
{{- end}}
\end{document}
`

type texData struct {
	FontPackages string
	ColorDefs    string
	SectionColor string
	NameStyle    string
	Name         string
	ContactLine  string
	Objective    string
	SkillLines   []string
	Jobs         []texJob
	Education    []texEducation
}

type texJob struct {
	Title   string
	Company string
	Dates   string
	Summary string
	Bullets []string
}

type texEducation struct {
	Institution string
	Degree      string
	Dates       string
	GPA         string
}

// RenderTex builds the .tex source for an artifact's tailored record using
// the given preset. Long text is cut at sentence boundaries; bullet lists
// are capped and normalized.
func RenderTex(artifact types.TailoredArtifact, preset Preset, limits Limits) (string, error) {
	limits = limits.orDefaults()

	tmpl, err := template.New("resume").Parse(resumeTemplate)
	if err != nil {
		return "", &TemplateError{Message: "failed to parse template", Cause: err}
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, buildTexData(artifact.TailoredRecord, preset, limits)); err != nil {
		return "", &TemplateError{Message: "failed to execute template", Cause: err}
	}
	return out.String(), nil
}

func buildTexData(record types.CanonicalRecord, preset Preset, limits Limits) texData {
	data := texData{
		FontPackages: preset.FontPackages,
		ColorDefs:    preset.ColorDefs,
		SectionColor: preset.SectionColor,
		NameStyle:    preset.NameStyle,
		Name:         EscapeLaTeX(strings.TrimSpace(record.FirstName + " " + record.LastName)),
		ContactLine:  contactLine(record.Contact),
		Objective:    EscapeLaTeX(textfit.Fit(record.CareerObjective, limits.MaxObjectiveLength)),
		SkillLines:   skillLines(record.Skills),
	}

	for _, job := range record.Jobs {
		bullets := append([]string{}, job.Responsibilities...)
		bullets = append(bullets, job.Accomplishments...)
		fitted := textfit.FormatBullets(bullets, limits.MaxBullets, limits.MaxBulletLength)
		escaped := make([]string, len(fitted))
		for i, b := range fitted {
			escaped[i] = EscapeLaTeX(b)
		}
		data.Jobs = append(data.Jobs, texJob{
			Title:   EscapeLaTeX(job.Title),
			Company: EscapeLaTeX(job.Company),
			Dates:   dateSpan(job.StartDate, job.EndDate),
			Summary: EscapeLaTeX(textfit.Fit(job.RoleSummary, limits.MaxSummaryLength)),
			Bullets: escaped,
		})
	}

	for _, edu := range record.Education {
		data.Education = append(data.Education, texEducation{
			Institution: EscapeLaTeX(edu.Institution),
			Degree:      EscapeLaTeX(edu.Degree),
			Dates:       dateSpan(edu.StartDate, edu.EndDate),
			GPA:         EscapeLaTeX(string(edu.GPA)),
		})
	}

	return data
}

func contactLine(contact types.Contact) string {
	var parts []string
	for _, e := range contact.Emails {
		parts = append(parts, EscapeLaTeX(e))
	}
	for _, p := range contact.Phones {
		parts = append(parts, EscapeLaTeX(p))
	}
	return strings.Join(parts, ` $\cdot$ `)
}

// skillLines renders categorized skills as "category: a, b" lines sorted
// by category name, or a single line for flat skills.
func skillLines(skills types.SkillSet) []string {
	if skills.IsEmpty() {
		return nil
	}
	if !skills.IsCategorized() {
		return []string{EscapeLaTeX(strings.Join(skills.Flat, ", "))}
	}

	categories := make([]string, 0, len(skills.Categories))
	for name := range skills.Categories {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	var lines []string
	for _, name := range categories {
		items := skills.Categories[name]
		if len(items) == 0 {
			continue
		}
		lines = append(lines, EscapeLaTeX(name)+": "+EscapeLaTeX(strings.Join(items, ", ")))
	}
	return lines
}

func dateSpan(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return EscapeLaTeX(end)
	case end == "":
		return EscapeLaTeX(start)
	default:
		return EscapeLaTeX(start) + " -- " + EscapeLaTeX(end)
	}
}
