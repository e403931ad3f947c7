// Package config defines the afmark configuration types and their file
// codecs. The types are plain data; discovery and merging live in
// internal/configloader.
package config

import (
	"github.com/yaklabco/afmark/pkg/page"
	"github.com/yaklabco/afmark/pkg/preprocess"
	"github.com/yaklabco/afmark/pkg/render"
)

// Flavor specifies the base Markdown flavor.
type Flavor string

const (
	// FlavorAFM is CommonMark plus tables and strikethrough.
	FlavorAFM Flavor = "afm"
	// FlavorCommonMark is plain CommonMark.
	FlavorCommonMark Flavor = "commonmark"
)

// IsValid reports whether f is a known flavor.
func (f Flavor) IsValid() bool {
	return f == FlavorAFM || f == FlavorCommonMark
}

// IncludeConfig controls include expansion.
type IncludeConfig struct {
	// MaxDepth bounds nested includes. Zero means unbounded.
	MaxDepth *int `yaml:"max_depth,omitempty" toml:"max_depth,omitempty"`
}

// RenderConfig controls HTML serialization.
type RenderConfig struct {
	LangPrefix     string `yaml:"lang_prefix,omitempty" toml:"lang_prefix,omitempty"`
	DetectLanguage *bool  `yaml:"detect_language,omitempty" toml:"detect_language,omitempty"`
	CodeToolbar    *bool  `yaml:"code_toolbar,omitempty" toml:"code_toolbar,omitempty"`
}

// PageConfig controls page wrapping.
type PageConfig struct {
	Standalone  *bool    `yaml:"standalone,omitempty" toml:"standalone,omitempty"`
	Title       string   `yaml:"title,omitempty" toml:"title,omitempty"`
	Lang        string   `yaml:"lang,omitempty" toml:"lang,omitempty"`
	DarkTheme   string   `yaml:"dark_theme,omitempty" toml:"dark_theme,omitempty"`
	LightTheme  string   `yaml:"light_theme,omitempty" toml:"light_theme,omitempty"`
	Stylesheets []string `yaml:"stylesheets,omitempty" toml:"stylesheets,omitempty"`
	Scripts     []string `yaml:"scripts,omitempty" toml:"scripts,omitempty"`
}

// OutputConfig controls where rendered files go.
type OutputConfig struct {
	// Dir mirrors the source tree under this directory. Empty writes next
	// to each source.
	Dir string `yaml:"dir,omitempty" toml:"dir,omitempty"`

	// Extension replaces the source extension. Defaults to ".html".
	Extension string `yaml:"extension,omitempty" toml:"extension,omitempty"`
}

// Config is the root configuration structure.
type Config struct {
	// Flavor is the base Markdown flavor.
	Flavor Flavor `yaml:"flavor,omitempty" toml:"flavor,omitempty"`

	// Root is the directory includes and snippets resolve against.
	// Defaults to the working directory.
	Root string `yaml:"root,omitempty" toml:"root,omitempty"`

	// SnippetsFile is the snippets file path relative to Root.
	SnippetsFile string `yaml:"snippets_file,omitempty" toml:"snippets_file,omitempty"`

	Include IncludeConfig `yaml:"include,omitempty" toml:"include,omitempty"`

	// Passes enables or disables passes by name.
	Passes map[string]bool `yaml:"passes,omitempty" toml:"passes,omitempty"`

	Render RenderConfig `yaml:"render,omitempty" toml:"render,omitempty"`
	Page   PageConfig   `yaml:"page,omitempty" toml:"page,omitempty"`
	Output OutputConfig `yaml:"output,omitempty" toml:"output,omitempty"`

	// Ignore contains glob patterns for files to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// Jobs is the number of parallel workers. Zero means one per CPU.
	Jobs int `yaml:"jobs,omitempty" toml:"jobs,omitempty"`

	// CLI-level options, not persisted to config files.

	// Verify checks rendered output for unbalanced elements.
	Verify bool `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	renderDefaults := render.DefaultOptions()
	return &Config{
		Flavor:       FlavorAFM,
		SnippetsFile: preprocess.DefaultSnippetsFile,
		Include:      IncludeConfig{MaxDepth: Int(preprocess.DefaultMaxDepth)},
		Passes:       make(map[string]bool),
		Render: RenderConfig{
			LangPrefix:     renderDefaults.LangPrefix,
			DetectLanguage: Bool(renderDefaults.DetectLanguage),
			CodeToolbar:    Bool(renderDefaults.CodeToolbar),
		},
		Page: PageConfig{
			Standalone: Bool(false),
			DarkTheme:  page.DefaultTheme,
			LightTheme: page.DefaultTheme,
		},
		Output: OutputConfig{Extension: ".html"},
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to i.
func Int(i int) *int {
	return &i
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// MaxIncludeDepth returns the include depth bound.
func (c *Config) MaxIncludeDepth() int {
	if c.Include.MaxDepth == nil {
		return preprocess.DefaultMaxDepth
	}
	return *c.Include.MaxDepth
}

// RenderOptions converts the render section to renderer options.
func (c *Config) RenderOptions() render.Options {
	return render.Options{
		LangPrefix:     c.Render.LangPrefix,
		DetectLanguage: deref(c.Render.DetectLanguage),
		CodeToolbar:    deref(c.Render.CodeToolbar),
	}
}

// PageOptions converts the page section to page options.
func (c *Config) PageOptions() page.Options {
	return page.Options{
		Standalone:  deref(c.Page.Standalone),
		Title:       c.Page.Title,
		Lang:        c.Page.Lang,
		DarkTheme:   c.Page.DarkTheme,
		LightTheme:  c.Page.LightTheme,
		Stylesheets: c.Page.Stylesheets,
		Scripts:     c.Page.Scripts,
	}
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Include.MaxDepth = clonePtr(c.Include.MaxDepth)
	clone.Render.DetectLanguage = clonePtr(c.Render.DetectLanguage)
	clone.Render.CodeToolbar = clonePtr(c.Render.CodeToolbar)
	clone.Page.Standalone = clonePtr(c.Page.Standalone)
	clone.Page.Stylesheets = cloneSlice(c.Page.Stylesheets)
	clone.Page.Scripts = cloneSlice(c.Page.Scripts)
	clone.Ignore = cloneSlice(c.Ignore)
	if c.Passes != nil {
		clone.Passes = make(map[string]bool, len(c.Passes))
		for name, on := range c.Passes {
			clone.Passes[name] = on
		}
	}
	return &clone
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
