// Package runner renders many Markdown files concurrently.
package runner

import "github.com/yaklabco/afmark/pkg/page"

// Options controls discovery and batch rendering.
type Options struct {
	// Paths are the files or directories to render. Defaults to ".".
	Paths []string

	// WorkingDir resolves relative Paths. Defaults to the process working
	// directory.
	WorkingDir string

	// Extensions are the lowercase Markdown extensions, with leading dot.
	// Defaults to DefaultExtensions().
	Extensions []string

	// IncludeGlobs restrict discovery to matching paths, relative to
	// WorkingDir. Empty includes everything with a Markdown extension.
	IncludeGlobs []string

	// ExcludeGlobs skip matching files and directories.
	ExcludeGlobs []string

	// SkipDirs are directory names never descended into. Nil means
	// DefaultSkipDirs(); an empty non-nil slice skips nothing.
	SkipDirs []string

	// FollowSymlinks traverses directory symlinks.
	FollowSymlinks bool

	// Jobs bounds the worker count. Zero or negative means one per CPU.
	Jobs int

	// Root is the directory includes and snippets resolve against.
	// Defaults to WorkingDir.
	Root string

	// OutDir receives the rendered files, mirroring the layout below
	// WorkingDir. Empty writes next to each source.
	OutDir string

	// OutExt is the output extension. Defaults to ".html".
	OutExt string

	// Write saves each rendered file. Without it outcomes only carry HTML.
	Write bool

	// Verify checks every rendered file for unbalanced elements.
	Verify bool

	// Page wraps each rendered body.
	Page page.Options
}

// DefaultExtensions returns the default set of Markdown file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

// DefaultSkipDirs returns the directory names skipped by default. Include
// and snippet fragments live there and are not standalone documents.
func DefaultSkipDirs() []string {
	return []string{"_includes"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

func (o Options) effectiveSkipDirs() []string {
	if o.SkipDirs == nil {
		return DefaultSkipDirs()
	}
	return o.SkipDirs
}
