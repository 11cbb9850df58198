// Package ingestion normalizes pasted job ad content before parsing.
// Callers paste either plain text or a copied HTML fragment; both come out
// as clean, structure-preserving text.
package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var spaceRun = regexp.MustCompile(`\s+`)

// jobContentSelectors are tried in order before falling back to body.
var jobContentSelectors = []string{
	".job-description",
	".job-content",
	"#job-description",
	".posting-content",
	".job-details",
	"main",
	"article",
	".content",
	"#content",
}

// Normalize prepares pasted job ad content for the posting parser. HTML
// fragments are stripped to their main text first.
func Normalize(input string) (string, error) {
	if looksLikeHTML(input) {
		text, err := StripHTML(input)
		if err != nil {
			return "", err
		}
		return CleanText(text), nil
	}
	return CleanText(input), nil
}

// looksLikeHTML is a cheap sniff: a tag near the start or any of the tags
// pasted job ads usually carry.
func looksLikeHTML(input string) bool {
	trimmed := strings.TrimSpace(input)
	if strings.HasPrefix(trimmed, "<") {
		return true
	}
	lower := strings.ToLower(input)
	for _, tag := range []string{"<div", "<p>", "<p ", "<ul", "<li", "<br", "<span", "<h1", "<h2", "<h3"} {
		if strings.Contains(lower, tag) {
			return true
		}
	}
	return false
}

// StripHTML parses an HTML fragment and returns its main text. Navigation,
// scripts and other noise elements are removed; block elements become line
// breaks so list structure survives.
func StripHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, form, .ad, .advertisement, .sidebar, .cookie-banner, .popup").Remove()

	var content *goquery.Selection
	for _, selector := range jobContentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	// Break block elements onto their own lines before flattening.
	content.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.SetText("\n- " + strings.TrimSpace(s.Text()))
	})
	content.Find("p, div, h1, h2, h3, h4, br").Each(func(_ int, s *goquery.Selection) {
		s.AfterHtml("\n")
	})

	return content.Text(), nil
}

// CleanText normalizes line endings, collapses space runs within lines and
// squeezes consecutive blank lines down to one.
func CleanText(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		if strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "• ") {
			marker := line[:2]
			rest := spaceRun.ReplaceAllString(strings.TrimSpace(line[2:]), " ")
			out = append(out, marker+rest)
			continue
		}
		out = append(out, spaceRun.ReplaceAllString(line, " "))
	}

	// Drop a trailing blank line left by the loop.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
