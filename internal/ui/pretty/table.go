package pretty

import (
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/wordwrap"
)

// Table formatting constants.
const (
	tablePadding        = 2
	minDescriptionWidth = 20
	defaultTermWidth    = 100
	heavySeparator      = "="
	enabledLabel        = "on"
	disabledLabel       = "off"
)

// PassRow is one row of the pass table.
type PassRow struct {
	Order       int
	Name        string
	Stage       string
	Enabled     bool
	Description string
}

// TableFormatter formats the pass list as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{styles: styles, termWidth: termWidth}
}

type passColumnWidths struct {
	order, name, stage, enabled, description int
}

// FormatPasses renders rows in the order given. Descriptions wrap to the
// space left by the other columns.
func (t *TableFormatter) FormatPasses(rows []PassRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.columnWidths(rows)
	indent := strings.Repeat(" ", widths.order+widths.name+widths.stage+widths.enabled+4*tablePadding)

	var builder strings.Builder
	builder.WriteString(t.styles.TableHeader.Render(
		pad("ORDER", widths.order) + gap() +
			pad("PASS", widths.name) + gap() +
			pad("STAGE", widths.stage) + gap() +
			pad("DEFAULT", widths.enabled) + gap() +
			"DESCRIPTION"))
	builder.WriteString("\n")
	builder.WriteString(t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, t.totalWidth(widths))))
	builder.WriteString("\n")

	for _, row := range rows {
		state := t.styles.Disabled.Render(disabledLabel)
		if row.Enabled {
			state = t.styles.Enabled.Render(enabledLabel)
		}

		builder.WriteString(pad(strconv.Itoa(row.Order), widths.order) + gap())
		builder.WriteString(pad(t.styles.PassName.Render(row.Name), widths.name) + gap())
		builder.WriteString(pad(t.styles.Dim.Render(row.Stage), widths.stage) + gap())
		builder.WriteString(pad(state, widths.enabled) + gap())

		lines := strings.Split(wordwrap.String(row.Description, widths.description), "\n")
		for i, line := range lines {
			if i > 0 {
				builder.WriteString(indent)
			}
			builder.WriteString(line)
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

func (t *TableFormatter) columnWidths(rows []PassRow) passColumnWidths {
	widths := passColumnWidths{
		order:   len("ORDER"),
		name:    len("PASS"),
		stage:   len("STAGE"),
		enabled: len("DEFAULT"),
	}
	for _, row := range rows {
		widths.order = max(widths.order, len(strconv.Itoa(row.Order)))
		widths.name = max(widths.name, ansi.PrintableRuneWidth(row.Name))
		widths.stage = max(widths.stage, ansi.PrintableRuneWidth(row.Stage))
	}

	used := widths.order + widths.name + widths.stage + widths.enabled + 4*tablePadding
	widths.description = max(minDescriptionWidth, t.termWidth-used)
	return widths
}

func (t *TableFormatter) totalWidth(widths passColumnWidths) int {
	return min(t.termWidth,
		widths.order+widths.name+widths.stage+widths.enabled+widths.description+4*tablePadding)
}

// pad right-pads s to width visible cells, ignoring ANSI sequences.
func pad(s string, width int) string {
	if n := ansi.PrintableRuneWidth(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func gap() string {
	return strings.Repeat(" ", tablePadding)
}
