package textfit

import "strings"

// bulletSeparators in priority order; the first one present in the text
// is used to split the whole string.
var bulletSeparators = []string{". ", "; ", "\n", "• ", "- "}

// SplitBullets breaks a block of prose into bullet candidates using the
// first separator found among ". ", "; ", newline, "• " and "- ".
func SplitBullets(text string) []string {
	for _, sep := range bulletSeparators {
		if strings.Contains(text, sep) {
			return strings.Split(text, sep)
		}
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []string{text}
}

// FormatBullets normalizes items into at most maxBullets display bullets:
// blank items are dropped, the first letter is capitalized, and each
// bullet is fitted to maxBulletLength.
func FormatBullets(items []string, maxBullets, maxBulletLength int) []string {
	out := make([]string, 0, maxBullets)
	for _, item := range items {
		if len(out) == maxBullets {
			break
		}
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, Fit(capitalize(item), maxBulletLength))
	}
	return out
}

// FormatBulletText splits a prose block and formats the pieces.
func FormatBulletText(text string, maxBullets, maxBulletLength int) []string {
	return FormatBullets(SplitBullets(text), maxBullets, maxBulletLength)
}

func capitalize(s string) string {
	c := s[0]
	if c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
