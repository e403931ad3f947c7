package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/afmark/pkg/htmlcheck"
	"github.com/yaklabco/afmark/pkg/runner"
)

// FormatIssue formats a single balance issue for terminal output:
//
//	path:line  warning  <div> is never closed
func (s *Styles) FormatIssue(path string, issue htmlcheck.Issue) string {
	location := s.FilePath.Render(path) + s.Location.Render(fmt.Sprintf(":%d", issue.Line))

	var message string
	switch issue.Kind {
	case htmlcheck.Unclosed:
		message = s.Tag.Render("<"+issue.Tag+">") + s.Message.Render(" is never closed")
	default:
		message = s.Tag.Render("</"+issue.Tag+">") + s.Message.Render(" has no matching start tag")
	}

	return fmt.Sprintf("  %s  %s  %s\n", location, s.Warning.Render("warning"), message)
}

// FormatFileError formats a file that failed to render.
func (s *Styles) FormatFileError(path string, err error) string {
	return fmt.Sprintf("  %s  %s  %s\n", s.FilePath.Render(path), s.Error.Render("error"), s.Message.Render(err.Error()))
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d %s)", issueCount, plural(issueCount, "issue", "issues")))
	}
	return header
}

// FormatOutcomes lists every failed file and balance issue in result.
// Files without problems are omitted.
func (s *Styles) FormatOutcomes(result *runner.Result) string {
	if result == nil {
		return ""
	}

	var builder strings.Builder
	for _, file := range result.Files {
		if file.Error != nil {
			builder.WriteString(s.FormatFileError(file.Path, file.Error))
			continue
		}
		for _, issue := range file.Issues {
			builder.WriteString(s.FormatIssue(file.Path, issue))
		}
	}
	return builder.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
