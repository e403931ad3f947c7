package cli

import (
	"errors"
	"strings"

	"github.com/yaklabco/afmark/pkg/runner"
)

// Exit codes for afmark.
const (
	// ExitSuccess indicates every file rendered cleanly.
	ExitSuccess = 0

	// ExitRenderProblems indicates a file failed to render or, with
	// --verify, rendered with unbalanced elements.
	ExitRenderProblems = 1

	// ExitUsage indicates invalid command-line usage or configuration.
	ExitUsage = 2

	// ExitInternal indicates an unexpected failure.
	ExitInternal = 3
)

// ErrRenderProblems is returned when a run finished with failed files or
// balance issues. The details have already been reported.
var ErrRenderProblems = errors.New("render problems found")

// ExitError attaches an exit code to an error.
type ExitError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: ExitUsage, Err: err}
}

// ExitCodeFromResult determines the exit code for a finished run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitRenderProblems
	}
	return ExitSuccess
}

// ExitCode maps an error returned by the root command to a process exit
// code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrRenderProblems) {
		return ExitRenderProblems
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	// Cobra reports unknown commands and argument count problems as
	// plain errors.
	msg := err.Error()
	if strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "accepts ") ||
		strings.HasPrefix(msg, "requires ") {
		return ExitUsage
	}

	return ExitInternal
}
