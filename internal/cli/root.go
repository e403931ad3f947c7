package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/afmark/internal/logging"
	"github.com/yaklabco/afmark/pkg/transform"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root afmark command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "afmark",
		Short: "Render Adobe Flavored Markdown to HTML",
		Long: `afmark renders Adobe Flavored Markdown to HTML.

It extends CommonMark with admonitions, tabs, shade boxes, collapsible
sections, badges, header anchors, do-not-localize markers and file
includes. Rendered pages carry the markup Spectrum web components expect.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		Example: `  afmark render docs/ --out-dir site/
  afmark check --format sarif
  afmark passes`,
		Annotations:   map[string]string{passesAnnotation: "true"},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newCheckCommand(info))
	rootCmd.AddCommand(newPassesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	newHelpWriter(transform.DefaultRegistry).install(rootCmd)

	return rootCmd
}

// commandLogger returns a logger writing to the command's error stream.
func commandLogger(cmd *cobra.Command) *log.Logger {
	level := "info"
	if debug, err := cmd.Flags().GetBool("debug"); err == nil && debug {
		level = "debug"
	}
	return logging.NewWriter(cmd.ErrOrStderr(), level)
}

// colorMode returns the --color value, defaulting to auto.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil || mode == "" {
		return "auto"
	}
	return mode
}
