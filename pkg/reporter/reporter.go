// Package reporter writes machine-readable check reports.
package reporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/afmark/pkg/htmlcheck"
	"github.com/yaklabco/afmark/pkg/runner"
)

// Reporter formats and writes check results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of issues reported and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output. Defaults to os.Stdout.
	Writer io.Writer

	// Format specifies the output format.
	Format Format

	// Compact disables indentation.
	Compact bool

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string

	// ToolVersion is reported in SARIF driver metadata.
	ToolVersion string
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatSARIF:
		return NewSARIFReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

// ruleID identifies the kind of a balance issue.
func ruleID(kind htmlcheck.IssueKind) string {
	switch kind {
	case htmlcheck.Unclosed:
		return "unclosed-element"
	case htmlcheck.Unexpected:
		return "unexpected-end-tag"
	default:
		return kind.String()
	}
}

// issueMessage describes a balance issue without its line number.
func issueMessage(issue htmlcheck.Issue) string {
	if issue.Kind == htmlcheck.Unclosed {
		return "<" + issue.Tag + "> is never closed"
	}
	return "</" + issue.Tag + "> has no matching start tag"
}

// displayPath makes path relative to workingDir when possible and uses
// forward slashes.
func displayPath(path, workingDir string) string {
	if workingDir != "" {
		if rel, err := filepath.Rel(workingDir, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}
