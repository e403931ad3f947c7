package page_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/afmark/pkg/page"
)

func TestSanitizeTheme(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "lightest", want: "lightest"},
		{input: "light", want: "light"},
		{input: "dark", want: "dark"},
		{input: "darkest", want: "darkest"},
		{input: "", want: "dark"},
		{input: "Light", want: "dark"},
		{input: "solarized", want: "dark"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, page.SanitizeTheme(tt.input))
		})
	}
}

func TestWrap_Fragment(t *testing.T) {
	t.Parallel()

	w, err := page.New()
	require.NoError(t, err)

	got, err := w.Wrap("<p>Hi</p>\n", page.Options{DarkTheme: "darkest", LightTheme: "bogus"})
	require.NoError(t, err)

	want := `<sp-theme id="markdown-spectrum" theme="spectrum" color="light" scale="medium" aria-hidden="true" ` +
		`data-dark-mode-theme="darkest" data-light-mode-theme="dark"></sp-theme>` + "\n<p>Hi</p>\n"
	assert.Equal(t, want, got)
}

func TestWrap_Standalone(t *testing.T) {
	t.Parallel()

	w, err := page.New()
	require.NoError(t, err)

	got, err := w.Wrap("<p>Body & <b>bold</b></p>\n", page.Options{
		Standalone:  true,
		Title:       "Guide <draft>",
		LightTheme:  "lightest",
		Stylesheets: []string{"style.css"},
		Scripts:     []string{"spectrum.js"},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "<!DOCTYPE html>\n<html lang=\"en\">"))
	assert.Contains(t, got, "<title>Guide &lt;draft&gt;</title>")
	assert.Contains(t, got, `<link rel="stylesheet" href="style.css">`)
	assert.Contains(t, got, `<script type="module" src="spectrum.js"></script>`)
	assert.Contains(t, got, `data-light-mode-theme="lightest"`)
	assert.Contains(t, got, "<p>Body & <b>bold</b></p>\n</body>")
	assert.True(t, strings.HasSuffix(got, "</html>\n"))
}

func TestWrap_Concurrent(t *testing.T) {
	t.Parallel()

	w, err := page.New()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := w.Wrap("<p>x</p>", page.Options{})
			assert.NoError(t, err)
			assert.Contains(t, out, "<p>x</p>")
		}()
	}
	wg.Wait()
}

func TestThemes(t *testing.T) {
	t.Parallel()

	themes := page.Themes()
	assert.Equal(t, []string{"lightest", "light", "dark", "darkest"}, themes)

	themes[0] = "changed"
	assert.Equal(t, "lightest", page.Themes()[0])
}
