package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/afmark/internal/ui/pretty"
	"github.com/yaklabco/afmark/pkg/transform"
)

const formatJSON = "json"

// passInfo represents a pass in JSON output.
type passInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Stage       string `json:"stage"`
	Order       int    `json:"order"`
	Enabled     bool   `json:"enabled"`
}

func newPassesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "passes",
		Short: "List rendering passes",
		Long: `List the passes that rewrite Markdown into Adobe markup, in the order
they run. The DEFAULT column reflects the loaded configuration; toggle a
pass with the passes section of .afmark.yml or --enable-pass and
--disable-pass.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPasses(cmd, format)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json")

	return cmd
}

func runPasses(cmd *cobra.Command, format string) error {
	if format != formatText && format != formatJSON {
		return usageError(fmt.Errorf("invalid format %q: must be text or json", format))
	}

	sess, err := loadSession(cmd, nil)
	if err != nil {
		return err
	}

	infos, err := passInfos(sess.cfg.Passes)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			return fmt.Errorf("encoding passes: %w", err)
		}
		return nil
	}

	rows := make([]pretty.PassRow, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, pretty.PassRow{
			Order:       info.Order,
			Name:        info.Name,
			Stage:       info.Stage,
			Enabled:     info.Enabled,
			Description: info.Description,
		})
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
	table := pretty.NewTableFormatter(styles, terminalWidth(out))
	if _, err := io.WriteString(out, table.FormatPasses(rows)); err != nil {
		return fmt.Errorf("write passes: %w", err)
	}
	return nil
}

// passInfos lists the registered passes in run order with their enabled
// state under overrides.
func passInfos(overrides map[string]bool) ([]passInfo, error) {
	registry := transform.DefaultRegistry

	chain, err := transform.NewChain(registry, overrides)
	if err != nil {
		return nil, usageError(err)
	}

	passes := registry.Passes()
	infos := make([]passInfo, 0, len(passes))
	for _, pass := range passes {
		infos = append(infos, passInfo{
			Name:        pass.Name(),
			Description: pass.Description(),
			Stage:       pass.Stage().String(),
			Order:       pass.Order(),
			Enabled:     chain.Enabled(pass.Name()),
		})
	}
	return infos, nil
}

// terminalWidth returns the width of w when it is a terminal, or zero.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
