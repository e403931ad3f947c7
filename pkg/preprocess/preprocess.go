// Package preprocess expands file inclusion and snippet directives in
// Markdown source before it is parsed.
//
// Three rewrites run in order:
//
//  1. {{$include path}} is replaced by the named file, recursively.
//  2. A snippet reference followed by prose and inline code is split
//     into its own paragraph.
//  3. {{name}} is replaced by the body of a snippet declared in the
//     shared snippets file.
//
// Resolution problems never fail the document. They are substituted as
// visible markers in the output.
package preprocess

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/afmark/internal/logging"
	"github.com/yaklabco/afmark/pkg/fsutil"
)

const (
	// DefaultSnippetsFile is the snippets file location under the root.
	DefaultSnippetsFile = "help/_includes/snippets.md"

	// DefaultMaxDepth bounds nested includes. Zero disables the bound.
	DefaultMaxDepth = 64

	unknownParent = "**UNKNOWN**"
)

//nolint:gochecknoglobals // Compiled once; matchers carry no state.
var (
	includeRe = regexp.MustCompile(`(?i)\{\{\$include\s+(.+?)\}\}`)
	snippetRe = regexp.MustCompile(`\{\{(.+?)\}\}`)
	cleanupRe = regexp.MustCompile("(\\{\\{[^}]+\\}\\})([\\s\\S]*?)(`[^`]+`)")
)

// Preprocessor resolves directives relative to Root.
type Preprocessor struct {
	// Root is the directory top-level include paths and the snippets file
	// are resolved against. An empty Root disables preprocessing.
	Root string

	// SnippetsFile is the snippets file path relative to Root.
	SnippetsFile string

	// MaxDepth caps the include chain length. Zero means unbounded.
	MaxDepth int

	// Logger receives resolution warnings. Nil discards them.
	Logger *log.Logger
}

// New returns a preprocessor for root with default settings.
func New(root string) *Preprocessor {
	return &Preprocessor{
		Root:         root,
		SnippetsFile: DefaultSnippetsFile,
		MaxDepth:     DefaultMaxDepth,
	}
}

// Process expands all directives in src.
func (p *Preprocessor) Process(ctx context.Context, src string) string {
	return p.ProcessDocument(ctx, src, "")
}

// ProcessDocument is Process for a document read from docPath. The path
// starts the include chain, so a document that includes itself yields a
// circular reference marker.
func (p *Preprocessor) ProcessDocument(ctx context.Context, src, docPath string) string {
	logger := logging.OrDiscard(p.Logger)
	if p.Root == "" {
		logger.Warn("no root directory configured, include and snippet directives are left as is")
		return src
	}

	var chain []string
	if docPath != "" {
		chain = append(chain, absPath(docPath))
	}

	out := p.expandIncludes(ctx, src, p.Root, docPath, chain, 0)
	// Cleanup looks for the directives themselves, so it runs before
	// they are substituted.
	out = cleanupSnippetCode(out)
	return p.expandSnippets(ctx, out)
}

// expandIncludes replaces include directives in src. dir resolves
// relative paths and parent is the file src was read from. chain holds
// the absolute paths of every file on the current branch; depth counts
// the included files among them.
func (p *Preprocessor) expandIncludes(ctx context.Context, src, dir, parent string, chain []string, depth int) string {
	var sb strings.Builder
	rest := src
	for {
		loc := includeRe.FindStringSubmatchIndex(rest)
		if loc == nil || ctx.Err() != nil {
			sb.WriteString(rest)
			return sb.String()
		}
		sb.WriteString(rest[:loc[0]])
		target := filepath.Join(dir, strings.TrimSpace(rest[loc[2]:loc[3]]))
		sb.WriteString(p.resolveInclude(ctx, target, parent, chain, depth))
		rest = rest[loc[1]:]
	}
}

func (p *Preprocessor) resolveInclude(ctx context.Context, target, parent string, chain []string, depth int) string {
	logger := logging.OrDiscard(p.Logger).With(logging.FieldInclude, target)

	if !fsutil.Exists(target) {
		logger.Warn("included file not found", logging.FieldParent, parent)
		return errorMarker(fmt.Sprintf("File '%s' not found.", target))
	}

	key := absPath(target)
	if slices.Contains(chain, key) {
		if parent == "" {
			parent = unknownParent
		}
		logger.Warn("circular include", logging.FieldParent, parent)
		return errorMarker(fmt.Sprintf("Circular reference between '%s' and '%s'.", target, parent))
	}

	if p.MaxDepth > 0 && depth >= p.MaxDepth {
		logger.Warn("include depth limit exceeded", logging.FieldDepth, p.MaxDepth)
		return errorMarker(fmt.Sprintf("Include depth limit (%d) exceeded at '%s'.", p.MaxDepth, target))
	}

	content, err := fsutil.ReadFile(ctx, target)
	if err != nil {
		logger.Warn("unable to read included file", logging.FieldError, err)
		return errorMarker(fmt.Sprintf("Unable to read '%s': %v", target, err))
	}
	logger.Debug("including file", logging.FieldParent, parent)

	nested := append(slices.Clone(chain), key)
	expanded := p.expandIncludes(ctx, string(content), filepath.Dir(target), target, nested, depth+1)

	// One newline only, so the include can sit mid-paragraph.
	return strings.TrimSuffix(expanded, "\n")
}

func errorMarker(msg string) string {
	return "\n\n# INCLUDE ERROR: " + msg + "\n\n"
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// cleanupSnippetCode separates a snippet directive from prose
// that runs into inline code, so the two do not merge into one styled
// span.
func cleanupSnippetCode(src string) string {
	matches := cleanupRe.FindAllStringSubmatchIndex(src, -1)
	if matches == nil {
		return src
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(src[last:m[0]])
		directive, between, code := src[m[2]:m[3]], src[m[4]:m[5]], src[m[6]:m[7]]
		if strings.TrimSpace(between) == "" {
			sb.WriteString(src[m[0]:m[1]])
		} else {
			sb.WriteString(directive + "\n\n" + strings.TrimSpace(between) + code)
		}
		last = m[1]
	}
	sb.WriteString(src[last:])
	return sb.String()
}
