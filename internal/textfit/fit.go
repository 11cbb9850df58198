// Package textfit provides sentence-boundary-aware text truncation and
// bullet normalization for rendering resume content into bounded layouts.
package textfit

import (
	"strings"
	"unicode/utf8"
)

// abbreviations are words whose trailing period does not end a sentence.
// Lookup is case-insensitive; single-letter tokens are always treated as
// abbreviations (initials, "e.g.", "U.S.").
var abbreviations = map[string]struct{}{
	"mr":   {},
	"mrs":  {},
	"ms":   {},
	"dr":   {},
	"prof": {},
	"sr":   {},
	"jr":   {},
	"inc":  {},
	"ltd":  {},
	"corp": {},
	"co":   {},
	"etc":  {},
	"vs":   {},
	"eg":   {},
	"ie":   {},
	"st":   {},
	"ave":  {},
}

// Fit truncates text to at most maxLength bytes. Text already within the
// budget is returned unchanged. Otherwise the cut lands at a sentence
// boundary when one fits, else at a clause boundary past the midpoint of
// what fits, else at the last whole word, and the result always ends with
// terminal punctuation.
func Fit(text string, maxLength int) string {
	if len(text) <= maxLength {
		return text
	}
	if maxLength <= 0 {
		return ""
	}

	sentences := SplitSentences(text)
	if len(sentences) > 1 {
		var b strings.Builder
		for _, s := range sentences {
			add := s
			if b.Len() > 0 {
				add = " " + s
			}
			if b.Len()+len(add) > maxLength {
				break
			}
			b.WriteString(add)
		}
		if b.Len() > 0 {
			// withTerminal may add a closing period; only take the
			// sentence cut if the result still fits.
			if fitted := withTerminal(b.String()); len(fitted) <= maxLength {
				return fitted
			}
		}
	}

	return fitWords(text, maxLength)
}

// SplitSentences segments text on ". ", "! " and "? ", keeping the
// punctuation with each sentence. A period preceded by a known
// abbreviation does not split.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c != '.' && c != '!' && c != '?') || text[i+1] != ' ' {
			continue
		}
		if c == '.' && endsInAbbreviation(text[start:i]) {
			continue
		}
		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			out = append(out, s)
		}
		start = i + 2
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// endsInAbbreviation reports whether the word ending prefix (scanning
// back to the previous non-alphanumeric byte) is in the abbreviation set.
func endsInAbbreviation(prefix string) bool {
	end := len(prefix)
	i := end
	for i > 0 && isAlnum(prefix[i-1]) {
		i--
	}
	word := prefix[i:end]
	if word == "" {
		return false
	}
	if len(word) == 1 {
		return true
	}
	_, ok := abbreviations[strings.ToLower(word)]
	return ok
}

// fitWords accumulates whole words within the budget, reserving one byte
// for appended punctuation, then prefers a clause break (comma, semicolon
// or " and ") if one lies past the midpoint of the accumulated text.
func fitWords(text string, maxLength int) string {
	budget := maxLength - 1
	var b strings.Builder
	for _, w := range strings.Fields(text) {
		add := w
		if b.Len() > 0 {
			add = " " + w
		}
		if b.Len()+len(add) > budget {
			break
		}
		b.WriteString(add)
	}
	acc := b.String()
	if acc == "" {
		// No whole word fits; hard-cut at the budget, stepping back to a
		// rune boundary so a multi-byte character is never split.
		cut := budget
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		acc = strings.TrimSpace(text[:cut])
	}
	if cut := lastClauseBreak(acc); cut > len(acc)/2 {
		acc = acc[:cut]
	}
	acc = strings.TrimRight(acc, " ,;")
	if acc == "" {
		return ""
	}
	return withTerminal(acc)
}

// lastClauseBreak returns the rightmost clause boundary in s, or -1.
func lastClauseBreak(s string) int {
	cut := strings.LastIndexByte(s, ',')
	if i := strings.LastIndexByte(s, ';'); i > cut {
		cut = i
	}
	if i := strings.LastIndex(s, " and "); i > cut {
		cut = i
	}
	return cut
}

func withTerminal(s string) string {
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
