package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/afmark/internal/ui/pretty"
	"github.com/yaklabco/afmark/pkg/page"
	"github.com/yaklabco/afmark/pkg/reporter"
	"github.com/yaklabco/afmark/pkg/runner"
)

const formatText = "text"

func newCheckCommand(info BuildInfo) *cobra.Command {
	flags := &pipelineFlags{}
	var format string

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Render Markdown files and report unbalanced HTML",
		Long: `Render every Markdown file under the given paths without writing
anything, and report elements the output opens and never closes or
closes without opening. Exits with status 1 when any file fails to
render or has issues.`,
		Example: `  afmark check                    # Check the current directory
  afmark check docs/ --jobs 4
  afmark check --format sarif > afmark.sarif`,
		Annotations: map[string]string{passesAnnotation: "true"},
		Args:        cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, flags, format, info)
		},
	}

	cmd.Flags().AddFlagSet(flags.flagSet())
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json, sarif")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, flags *pipelineFlags, format string, info BuildInfo) error {
	var reportFormat reporter.Format
	if format != formatText {
		parsed, err := reporter.ParseFormat(format)
		if err != nil {
			return usageError(err)
		}
		reportFormat = parsed
	}

	cliCfg := flags.config()
	cliCfg.Verify = true

	sess, err := loadSession(cmd, cliCfg)
	if err != nil {
		return err
	}

	engine, err := sess.newEngine(flags.passOverrides())
	if err != nil {
		return err
	}

	wrapper, err := page.New()
	if err != nil {
		return fmt.Errorf("create page wrapper: %w", err)
	}

	ctx := commandContext(cmd)
	result, err := runner.New(engine, wrapper, sess.logger).Run(ctx, sess.runnerOptions(args))
	if err != nil {
		return fmt.Errorf("check run failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if reportFormat == "" {
		styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
		if _, err := io.WriteString(out, styles.FormatOutcomes(result)+styles.FormatSummary(result.Stats)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	} else {
		rep, err := reporter.New(reporter.Options{
			Writer:      out,
			Format:      reportFormat,
			WorkingDir:  sess.workDir,
			ToolVersion: info.Version,
		})
		if err != nil {
			return err
		}
		if _, err := rep.Report(ctx, result); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrRenderProblems
	}
	return nil
}
