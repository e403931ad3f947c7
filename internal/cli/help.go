// Package cli provides the Cobra command structure for afmark.
package cli

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/afmark/internal/ui/pretty"
	"github.com/yaklabco/afmark/pkg/transform"
)

// passesAnnotation marks commands whose help lists the rendering passes.
const passesAnnotation = "afmark/passes"

const helpTemplate = `{{with (or .Long .Short)}}{{trimRight .}}

{{end}}` + usageTemplate

const usageTemplate = `{{heading "Usage:"}}{{if .Runnable}}
  {{command .UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{heading "Aliases:"}}
  {{dim (join .Aliases ", ")}}{{end}}{{if .HasAvailableSubCommands}}

{{heading "Commands:"}}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{name (pad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{flags .LocalFlags}}{{end}}{{if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{flags .InheritedFlags}}{{end}}{{with passes .}}

{{heading "Passes:"}}
{{.}}{{end}}{{if .HasExample}}

{{heading "Examples:"}}
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Run "{{command (print .CommandPath " [command] --help")}}" for details on a command.{{end}}
`

// helpWriter renders command help with the CLI's output styles. Color is
// resolved per invocation from --color and the command's output stream.
type helpWriter struct {
	registry *transform.Registry
}

func newHelpWriter(registry *transform.Registry) *helpWriter {
	return &helpWriter{registry: registry}
}

// install sets the help and usage functions on cmd. Subcommands inherit them.
func (h *helpWriter) install(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := h.execute(command, "help", helpTemplate); err != nil {
			command.PrintErrln(err)
		}
	})
	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return h.execute(command, "usage", usageTemplate)
	})
}

func (h *helpWriter) execute(cmd *cobra.Command, name, text string) error {
	out := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))

	tmpl, err := template.New(name).Funcs(h.funcs(styles)).Parse(text)
	if err != nil {
		return fmt.Errorf("parse %s template: %w", name, err)
	}
	if err := tmpl.Execute(out, cmd); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

func (h *helpWriter) funcs(styles *pretty.Styles) template.FuncMap {
	return template.FuncMap{
		"heading":   styles.Bold.Render,
		"command":   styles.Tag.Render,
		"name":      styles.PassName.Render,
		"dim":       styles.Dim.Render,
		"join":      strings.Join,
		"pad":       pad,
		"trimRight": trimRight,
		"flags": func(fs *pflag.FlagSet) string {
			return flagTable(styles, fs)
		},
		"passes": func(cmd *cobra.Command) string {
			if cmd.Annotations[passesAnnotation] == "" {
				return ""
			}
			return h.passTable(styles)
		},
	}
}

// passTable lists the registered passes in run order. Passes that are off
// unless enabled are marked.
func (h *helpWriter) passTable(styles *pretty.Styles) string {
	passes := h.registry.Passes()
	width := 0
	for _, pass := range passes {
		width = max(width, len(pass.Name()))
	}

	lines := make([]string, 0, len(passes))
	for _, pass := range passes {
		where := fmt.Sprintf("%-6s %3d", pass.Stage(), pass.Order())
		line := "  " + styles.PassName.Render(pad(pass.Name(), width)) + "  " + styles.Dim.Render(where) +
			"  " + pass.Description()
		if !pass.DefaultEnabled() {
			line += " " + styles.Disabled.Render("(off by default)")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// flagTable renders the visible flags of fs as aligned rows. Padding is
// computed on the plain text so styling does not skew the columns.
func flagTable(styles *pretty.Styles, fs *pflag.FlagSet) string {
	type row struct {
		flag, kind, usage string
	}

	var rows []row
	width := 0
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		flag := "    --" + f.Name
		if f.Shorthand != "" {
			flag = "-" + f.Shorthand + ", --" + f.Name
		}
		kind, usage := pflag.UnquoteUsage(f)
		if def := flagDefault(f); def != "" {
			usage += " " + styles.Dim.Render("(default "+def+")")
		}
		rows = append(rows, row{flag: flag, kind: kind, usage: usage})

		plain := len(flag)
		if kind != "" {
			plain += 1 + len(kind)
		}
		width = max(width, plain)
	})

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		plain := len(r.flag)
		left := styles.Tag.Render(r.flag)
		if r.kind != "" {
			plain += 1 + len(r.kind)
			left += " " + styles.Dim.Render(r.kind)
		}
		lines = append(lines, "  "+left+strings.Repeat(" ", width-plain)+"   "+r.usage)
	}
	return strings.Join(lines, "\n")
}

// flagDefault returns the default worth showing for f, or "".
func flagDefault(f *pflag.Flag) string {
	switch f.DefValue {
	case "", "false", "0", "[]":
		return ""
	}
	if f.Value.Type() == "string" {
		return fmt.Sprintf("%q", f.DefValue)
	}
	return f.DefValue
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimRight(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}
