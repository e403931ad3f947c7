package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/afmark/internal/logging"
	"github.com/yaklabco/afmark/pkg/config"
	"github.com/yaklabco/afmark/pkg/page"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// errNotTerminal is returned when --interactive is used without a terminal.
var errNotTerminal = errors.New("--interactive needs a terminal on stdin")

// initFlags holds the flags for the init command.
type initFlags struct {
	force       bool
	interactive bool
	format      string
	output      string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new afmark configuration file",
		Long: `Create a new .afmark.yml configuration file in the current directory
with the defaults written out and every pass listed.`,
		Example: `  afmark init                        # Create .afmark.yml
  afmark init --format toml          # Create .afmark.toml instead
  afmark init --interactive          # Answer a few questions first
  afmark init --output custom.yml    # Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Prompt for the main settings")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .afmark.yml or .afmark.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := commandLogger(cmd)

	format, err := config.ParseFormat(flags.format)
	if err != nil {
		return usageError(err)
	}

	passes, err := passInfos(nil)
	if err != nil {
		return err
	}

	values := config.NewConfig()
	if flags.interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return usageError(errNotTerminal)
		}
		if err := promptConfig(values, &format, passes); err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = defaultConfigName(format)
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return usageError(fmt.Errorf("file %q already exists; use --force to overwrite", outputPath))
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	templatePasses := make([]config.PassInfo, 0, len(passes))
	for _, p := range passes {
		templatePasses = append(templatePasses, config.PassInfo{
			Name:        p.Name,
			Description: p.Description,
			Enabled:     p.Enabled,
		})
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Format: format,
		Passes: templatePasses,
		Values: values,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("run 'afmark passes' to see what each pass does")

	return nil
}

func defaultConfigName(format config.Format) string {
	if format == config.FormatTOML {
		return ".afmark.toml"
	}
	return ".afmark.yml"
}

// promptConfig asks for the settings most projects change and writes the
// answers into cfg.
func promptConfig(cfg *config.Config, format *config.Format, passes []passInfo) error {
	formatName := string(*format)
	standalone := false
	enabled := make([]string, 0, len(passes))

	passOptions := make([]huh.Option[string], 0, len(passes))
	for _, p := range passes {
		passOptions = append(passOptions, huh.NewOption(p.Name, p.Name).Selected(p.Enabled))
		if p.Enabled {
			enabled = append(enabled, p.Name)
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("File format").
				Options(huh.NewOptions(string(config.FormatYAML), string(config.FormatTOML))...).
				Value(&formatName),

			huh.NewInput().
				Title("Include root (optional)").
				Description("Directory includes and snippets resolve against").
				Placeholder("working directory").
				Value(&cfg.Root),

			huh.NewConfirm().
				Title("Emit standalone HTML documents?").
				Value(&standalone),

			huh.NewSelect[string]().
				Title("Dark mode theme").
				Options(huh.NewOptions(page.Themes()...)...).
				Value(&cfg.Page.DarkTheme),

			huh.NewSelect[string]().
				Title("Light mode theme").
				Options(huh.NewOptions(page.Themes()...)...).
				Value(&cfg.Page.LightTheme),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Passes").
				Description("Selected passes run on every document").
				Options(passOptions...).
				Value(&enabled),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	parsed, err := config.ParseFormat(formatName)
	if err != nil {
		return err
	}
	*format = parsed
	cfg.Page.Standalone = config.Bool(standalone)
	for _, p := range passes {
		cfg.Passes[p.Name] = slices.Contains(enabled, p.Name)
	}
	return nil
}
