package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/afmark/pkg/runner"
)

const summaryDividerWidth = 40

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "12 files rendered, 3 written, 2 issues in 1 file, 1 failed in 40ms".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	if stats.FilesDiscovered == 0 {
		return s.Dim.Render("No Markdown files found") + "\n"
	}

	parts := []string{
		fmt.Sprintf("%d %s rendered", stats.FilesRendered, plural(stats.FilesRendered, "file", "files")),
	}

	if stats.FilesWritten > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.FilesUnchanged > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d unchanged", stats.FilesUnchanged)))
	}
	if stats.IssuesTotal > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d %s in %d %s",
			stats.IssuesTotal, plural(stats.IssuesTotal, "issue", "issues"),
			stats.FilesWithIssues, plural(stats.FilesWithIssues, "file", "files"))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	line := strings.Join(parts, ", ")
	if stats.Duration > 0 {
		line += s.Dim.Render(" in " + stats.Duration.Round(time.Millisecond).String())
	}
	return line + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row := func(label string, value int, style func(...string) string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", style(strconv.Itoa(value))))
	}

	row("Files discovered", stats.FilesDiscovered, s.SummaryValue.Render)
	row("Files rendered", stats.FilesRendered, s.SummaryValue.Render)
	if stats.FilesWritten > 0 {
		row("Files written", stats.FilesWritten, s.Success.Render)
	}
	if stats.FilesUnchanged > 0 {
		row("Files unchanged", stats.FilesUnchanged, s.SummaryValue.Render)
	}
	if stats.FilesErrored > 0 {
		row("Files failed", stats.FilesErrored, s.Failure.Render)
	}
	if stats.IssuesTotal > 0 {
		row("Balance issues", stats.IssuesTotal, s.Warning.Render)
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Render failed"))
	case stats.IssuesTotal > 0:
		builder.WriteString(s.Warning.Render("Rendered with balance issues"))
	default:
		builder.WriteString(s.Success.Render("Render succeeded"))
	}
	builder.WriteString("\n")

	return builder.String()
}
