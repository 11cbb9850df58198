// Package rendering builds LaTeX resume documents from tailored artifacts.
package rendering

import "strings"

// latexEscapes maps each special LaTeX character to its escaped form.
var latexEscapes = map[rune]string{
	'\\': `\textbackslash{}`,
	'{':  `\{`,
	'}':  `\}`,
	'$':  `\$`,
	'&':  `\&`,
	'%':  `\%`,
	'#':  `\#`,
	'^':  `\textasciicircum{}`,
	'_':  `\_`,
	'~':  `\textasciitilde{}`,
}

// EscapeLaTeX escapes the special LaTeX characters \ { } $ & % # ^ _ ~.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)
	for _, r := range text {
		if escaped, ok := latexEscapes[r]; ok {
			result.WriteString(escaped)
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
