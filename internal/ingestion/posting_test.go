package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_CollapsesWhitespace(t *testing.T) {
	in := "Senior   Go    Engineer\r\n\r\n\r\n\r\nAcme   Corp\r\nRemote"
	got := CleanText(in)
	assert.Equal(t, "Senior Go Engineer\n\nAcme Corp\nRemote", got)
}

func TestCleanText_PreservesBullets(t *testing.T) {
	in := "Responsibilities:\n  - Build   services\n  • Review    code\n"
	got := CleanText(in)
	assert.Equal(t, "Responsibilities:\n- Build services\n• Review code", got)
}

func TestCleanText_Empty(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("  \n\n  \n"))
}

func TestStripHTML_RemovesNoise(t *testing.T) {
	html := `<html><head><script>tracker()</script></head><body>
		<nav>Home | Jobs</nav>
		<div class="job-description">
			<h1>Go Engineer</h1>
			<p>Acme builds infrastructure.</p>
			<ul><li>Build services</li><li>Review code</li></ul>
		</div>
		<footer>EEO statement</footer>
	</body></html>`

	got, err := StripHTML(html)
	require.NoError(t, err)
	assert.Contains(t, got, "Go Engineer")
	assert.Contains(t, got, "Acme builds infrastructure.")
	assert.Contains(t, got, "- Build services")
	assert.NotContains(t, got, "tracker()")
	assert.NotContains(t, got, "Home | Jobs")
	assert.NotContains(t, got, "EEO statement")
}

func TestNormalize_DetectsHTML(t *testing.T) {
	got, err := Normalize(`<div class="job-description"><p>Go   Engineer</p><p>Remote</p></div>`)
	require.NoError(t, err)
	assert.Contains(t, got, "Go Engineer")
	assert.Contains(t, got, "Remote")
	assert.False(t, strings.Contains(got, "<"))
}

func TestNormalize_PassesPlainTextThrough(t *testing.T) {
	got, err := Normalize("Go Engineer\n\nAcme, Remote")
	require.NoError(t, err)
	assert.Equal(t, "Go Engineer\n\nAcme, Remote", got)
}

func TestNormalize_PlainTextWithAngleBracket(t *testing.T) {
	// A stray comparison sign must not trigger HTML stripping.
	got, err := Normalize("5+ years experience, salary > 100k")
	require.NoError(t, err)
	assert.Equal(t, "5+ years experience, salary > 100k", got)
}
