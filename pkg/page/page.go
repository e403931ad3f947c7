// Package page wraps rendered HTML with the Spectrum theme element, either
// as a fragment or as a standalone HTML document.
package page

import (
	"fmt"
	"slices"

	"github.com/aymerick/raymond"
)

// DefaultTheme is used when a configured theme is not recognized.
const DefaultTheme = "dark"

// ThemeID is the id of the injected sp-theme element.
const ThemeID = "markdown-spectrum"

//nolint:gochecknoglobals // Fixed theme names.
var validThemes = []string{"lightest", "light", "dark", "darkest"}

const themeTemplate = `<sp-theme id="{{id}}" theme="spectrum" color="light" scale="medium" aria-hidden="true" ` +
	`data-dark-mode-theme="{{dark}}" data-light-mode-theme="{{light}}"></sp-theme>
`

const fragmentTemplate = themeTemplate + `{{body}}`

const documentTemplate = `<!DOCTYPE html>
<html lang="{{lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{title}}</title>
{{#each stylesheets}}
<link rel="stylesheet" href="{{this}}">
{{/each}}
{{#each scripts}}
<script type="module" src="{{this}}"></script>
{{/each}}
</head>
<body>
` + themeTemplate + `{{body}}</body>
</html>
`

// Options controls page wrapping.
type Options struct {
	// Standalone emits a full HTML document instead of a fragment.
	Standalone bool

	// Title is the document title. Standalone only.
	Title string

	// Lang is the html lang attribute. Defaults to "en". Standalone only.
	Lang string

	// DarkTheme and LightTheme name the Spectrum themes for each color
	// scheme. Unknown names fall back to DefaultTheme.
	DarkTheme  string
	LightTheme string

	// Stylesheets and Scripts are linked from the document head.
	Stylesheets []string
	Scripts     []string
}

// SanitizeTheme returns theme when it is a known Spectrum theme and
// DefaultTheme otherwise.
func SanitizeTheme(theme string) string {
	if slices.Contains(validThemes, theme) {
		return theme
	}
	return DefaultTheme
}

// Themes returns the recognized theme names.
func Themes() []string {
	return slices.Clone(validThemes)
}

// Wrapper renders pages from parsed templates. It is safe for concurrent
// use.
type Wrapper struct {
	fragment *raymond.Template
	document *raymond.Template
}

// New parses the page templates.
func New() (*Wrapper, error) {
	fragment, err := raymond.Parse(fragmentTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse fragment template: %w", err)
	}
	document, err := raymond.Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse document template: %w", err)
	}
	return &Wrapper{fragment: fragment, document: document}, nil
}

// Wrap returns body wrapped according to opts. body is inserted as is.
func (w *Wrapper) Wrap(body string, opts Options) (string, error) {
	lang := opts.Lang
	if lang == "" {
		lang = "en"
	}

	data := map[string]any{
		"id":          ThemeID,
		"dark":        SanitizeTheme(opts.DarkTheme),
		"light":       SanitizeTheme(opts.LightTheme),
		"title":       opts.Title,
		"lang":        lang,
		"stylesheets": opts.Stylesheets,
		"scripts":     opts.Scripts,
		"body":        raymond.SafeString(body),
	}

	tpl := w.fragment
	if opts.Standalone {
		tpl = w.document
	}

	out, err := tpl.Exec(data)
	if err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return out, nil
}
