package runner

import (
	"time"

	"github.com/yaklabco/afmark/pkg/htmlcheck"
)

// FileOutcome is the result of rendering one file.
type FileOutcome struct {
	// Path is the source file.
	Path string

	// OutputPath is where the HTML was or would be written.
	OutputPath string

	// HTML is the rendered, page-wrapped output.
	HTML string

	// Issues are the balance problems found when Options.Verify is set.
	Issues []htmlcheck.Issue

	// Written reports whether OutputPath was updated.
	Written bool

	// Duration is the time spent on this file.
	Duration time.Duration

	// Error is set when the file could not be rendered or written.
	Error error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesRendered   int
	FilesWritten    int
	FilesUnchanged  int
	FilesErrored    int
	FilesWithIssues int
	IssuesTotal     int
	Duration        time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files holds one outcome per discovered file, in discovery order.
	Files []FileOutcome

	Stats Stats
}

// HasFailures reports whether any file failed to render or has issues.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0 || r.Stats.FilesWithIssues > 0
}

func (r *Result) accumulate(outcome FileOutcome, write bool) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesRendered++
	if write {
		if outcome.Written {
			r.Stats.FilesWritten++
		} else {
			r.Stats.FilesUnchanged++
		}
	}
	if n := len(outcome.Issues); n > 0 {
		r.Stats.FilesWithIssues++
		r.Stats.IssuesTotal += n
	}
}
