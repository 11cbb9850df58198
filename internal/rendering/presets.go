package rendering

import "fmt"

// Preset is one immutable template style: name treatment, section colors
// and the font packages the document preamble pulls in.
type Preset struct {
	ID           string
	Name         string
	Description  string
	FontPackages string
	ColorDefs    string
	SectionColor string
	NameStyle    string
}

// TemplateRegistry is an immutable lookup of presets. Construct one with
// NewRegistry and pass it where rendering happens; there is no package
// level default.
type TemplateRegistry struct {
	byID  map[string]Preset
	order []string
}

// NewRegistry builds a registry from the given presets. The first preset
// is the default.
func NewRegistry(presets ...Preset) *TemplateRegistry {
	r := &TemplateRegistry{byID: make(map[string]Preset, len(presets))}
	for _, p := range presets {
		if _, ok := r.byID[p.ID]; ok {
			continue
		}
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

// DefaultRegistry returns the three stock presets: classic, modern and
// creative, with classic as the default.
func DefaultRegistry() *TemplateRegistry {
	return NewRegistry(
		Preset{
			ID:           "classic",
			Name:         "Executive Classic",
			Description:  "Elegant serif font with navy accents. Ideal for senior positions and traditional industries.",
			FontPackages: `\usepackage{charter}`,
			ColorDefs:    `\definecolor{classicnavy}{RGB}{25, 25, 112}`,
			SectionColor: `\color{classicnavy}`,
			NameStyle:    `\Huge \color{classicnavy}`,
		},
		Preset{
			ID:          "modern",
			Name:        "Modern Professional",
			Description: "Contemporary design with blue accents and a sans-serif font. Great for tech and startup roles.",
			FontPackages: `\usepackage{helvet}
\renewcommand{\familydefault}{\sfdefault}`,
			ColorDefs: `\definecolor{modernblue}{RGB}{52, 152, 219}
\definecolor{moderngray}{RGB}{52, 73, 94}`,
			SectionColor: `\color{modernblue}`,
			NameStyle:    `\Huge \scshape \color{moderngray}`,
		},
		Preset{
			ID:           "creative",
			Name:         "Creative Professional",
			Description:  "Bold design with vibrant colors and modern typography. Perfect for creative and design roles.",
			FontPackages: `\usepackage[sfdefault]{FiraSans}`,
			ColorDefs: `\definecolor{creativered}{RGB}{231, 76, 60}
\definecolor{creativepurple}{RGB}{155, 89, 182}`,
			SectionColor: `\color{creativered}`,
			NameStyle:    `\Huge \scshape \color{creativepurple}`,
		},
	)
}

// Get returns the preset with the given id. An empty id returns the
// default preset.
func (r *TemplateRegistry) Get(id string) (Preset, error) {
	if id == "" {
		return r.byID[r.order[0]], nil
	}
	preset, ok := r.byID[id]
	if !ok {
		return Preset{}, fmt.Errorf("unknown template %q", id)
	}
	return preset, nil
}

// List returns the presets in registration order.
func (r *TemplateRegistry) List() []Preset {
	out := make([]Preset, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
