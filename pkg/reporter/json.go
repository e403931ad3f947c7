package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/afmark/pkg/runner"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path       string      `json:"path"`
	OutputPath string      `json:"outputPath,omitempty"`
	Issues     []JSONIssue `json:"issues"`
	Error      string      `json:"error,omitempty"`
}

// JSONIssue represents a single balance issue.
type JSONIssue struct {
	RuleID  string `json:"ruleId"`
	Tag     string `json:"tag"`
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked    int   `json:"filesChecked"`
	FilesWithIssues int   `json:"filesWithIssues"`
	FilesErrored    int   `json:"filesErrored"`
	TotalIssues     int   `json:"totalIssues"`
	DurationMS      int64 `json:"durationMs"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalIssues, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: "1.0.0",
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:   displayPath(file.Path, r.opts.WorkingDir),
			Issues: make([]JSONIssue, 0, len(file.Issues)),
		}
		if file.OutputPath != "" {
			fileResult.OutputPath = displayPath(file.OutputPath, r.opts.WorkingDir)
		}

		if file.Error != nil {
			fileResult.Error = file.Error.Error()
			output.Summary.FilesErrored++
		}

		for _, issue := range file.Issues {
			fileResult.Issues = append(fileResult.Issues, JSONIssue{
				RuleID:  ruleID(issue.Kind),
				Tag:     issue.Tag,
				Line:    issue.Line,
				Message: issueMessage(issue),
			})
		}

		if len(fileResult.Issues) > 0 {
			output.Summary.FilesWithIssues++
			output.Summary.TotalIssues += len(fileResult.Issues)
		}

		output.Files = append(output.Files, fileResult)
		output.Summary.FilesChecked++
	}
	output.Summary.DurationMS = result.Stats.Duration.Milliseconds()

	return output
}
