package preprocess

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/yaklabco/afmark/internal/logging"
	"github.com/yaklabco/afmark/pkg/fsutil"
)

//nolint:gochecknoglobals // Compiled once; matchers carry no state.
var snippetHeaderRe = regexp.MustCompile(`(?i)##\s+(.*)\{#(.*)\}`)

// Snippet is one named entry of the snippets file.
type Snippet struct {
	// Name is the anchor id from the heading, used as {{name}}.
	Name string

	// Title is the heading text.
	Title string

	// Body is the trimmed lines following the heading, joined by newlines.
	Body string
}

// ParseSnippets reads snippet definitions from the contents of a
// snippets file. Each "## Title {#name}" heading starts a snippet whose
// body runs to the next heading. Lines are trimmed.
func ParseSnippets(content string) map[string]*Snippet {
	snippets := make(map[string]*Snippet)

	var current *Snippet
	for line := range strings.SplitSeq(content, "\n") {
		line = strings.TrimSpace(line)
		if m := snippetHeaderRe.FindStringSubmatch(line); m != nil {
			current = &Snippet{Name: m[2], Title: m[1]}
			snippets[current.Name] = current
			continue
		}
		if current == nil {
			continue
		}
		if current.Body == "" {
			current.Body = line
		} else {
			current.Body += "\n" + line
		}
	}
	return snippets
}

// LoadSnippets reads the configured snippets file. A missing file yields
// an empty set.
func (p *Preprocessor) LoadSnippets(ctx context.Context) (map[string]*Snippet, error) {
	name := p.SnippetsFile
	if name == "" {
		name = DefaultSnippetsFile
	}

	content, err := fsutil.ReadFile(ctx, filepath.Join(p.Root, name))
	if err != nil {
		if errors.Is(err, fsutil.ErrNotFound) {
			return map[string]*Snippet{}, nil
		}
		return nil, err
	}
	return ParseSnippets(string(content)), nil
}

// expandSnippets replaces {{name}} references. Substituted bodies are not
// scanned again.
func (p *Preprocessor) expandSnippets(ctx context.Context, src string) string {
	if !snippetRe.MatchString(src) {
		return src
	}

	logger := logging.OrDiscard(p.Logger)
	snippets, err := p.LoadSnippets(ctx)
	if err != nil {
		logger.Warn("unable to load snippets", logging.FieldError, err)
		snippets = map[string]*Snippet{}
	}

	return snippetRe.ReplaceAllStringFunc(src, func(match string) string {
		name := strings.TrimSpace(snippetRe.FindStringSubmatch(match)[1])
		if s, ok := snippets[name]; ok {
			return s.Body
		}
		logger.Warn("snippet not found", logging.FieldSnippet, name)
		return "*** ERROR: Snippet " + name + " not found. ***"
	})
}
