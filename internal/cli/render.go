package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/afmark/internal/ui/pretty"
	"github.com/yaklabco/afmark/pkg/afm"
	"github.com/yaklabco/afmark/pkg/config"
	"github.com/yaklabco/afmark/pkg/htmlcheck"
	"github.com/yaklabco/afmark/pkg/page"
	"github.com/yaklabco/afmark/pkg/runner"
)

const stdinPath = "-"

type renderFlags struct {
	pipeline   pipelineFlags
	outDir     string
	standalone bool
	verify     bool
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render Markdown files to HTML",
		Long:  renderLongDescription,
		Example: `  afmark render < guide.md > guide.html
  afmark render docs/                     # Render a tree in place
  afmark render docs/ --out-dir site/     # Mirror into site/
  afmark render --standalone --verify README.md
  afmark render --disable-pass tabs docs/`,
		Annotations: map[string]string{passesAnnotation: "true"},
		Args:        cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, flags)
		},
	}

	cmd.Flags().AddFlagSet(flags.pipeline.flagSet())
	cmd.Flags().StringVarP(&flags.outDir, "out-dir", "o", "", "write rendered files under this directory")
	cmd.Flags().BoolVar(&flags.standalone, "standalone", false, "emit complete HTML documents")
	cmd.Flags().BoolVar(&flags.verify, "verify", false, "check rendered output for unbalanced elements")

	return cmd
}

const renderLongDescription = `Render Adobe Flavored Markdown to HTML.

With no paths, or with "-", reads one document from stdin and writes the
HTML to stdout. Otherwise renders every .md and .markdown file under the
given paths and writes an .html file next to each source, or under
--out-dir mirroring the source tree. Directories named _includes hold
fragments and are skipped.`

func (f *renderFlags) config(cmd *cobra.Command) *config.Config {
	cfg := f.pipeline.config()
	cfg.Output.Dir = f.outDir
	cfg.Verify = f.verify
	if cmd.Flags().Changed("standalone") {
		cfg.Page.Standalone = config.Bool(f.standalone)
	}
	return cfg
}

func runRender(cmd *cobra.Command, args []string, flags *renderFlags) error {
	sess, err := loadSession(cmd, flags.config(cmd))
	if err != nil {
		return err
	}

	engine, err := sess.newEngine(flags.pipeline.passOverrides())
	if err != nil {
		return err
	}

	wrapper, err := page.New()
	if err != nil {
		return fmt.Errorf("create page wrapper: %w", err)
	}

	if len(args) == 0 || (len(args) == 1 && args[0] == stdinPath) {
		return renderStream(cmd, sess, engine, wrapper)
	}

	opts := sess.runnerOptions(args)
	opts.Write = true

	result, err := runner.New(engine, wrapper, sess.logger).Run(commandContext(cmd), opts)
	if err != nil {
		return fmt.Errorf("render run failed: %w", err)
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.ErrOrStderr()))
	errOut := cmd.ErrOrStderr()
	if _, err := io.WriteString(errOut, styles.FormatOutcomes(result)+styles.FormatSummaryOneLine(result.Stats)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrRenderProblems
	}
	return nil
}

// renderStream renders stdin to stdout. Balance issues go to stderr.
func renderStream(cmd *cobra.Command, sess *session, engine *afm.Engine, wrapper *page.Wrapper) error {
	ctx := commandContext(cmd)

	src, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	res, err := engine.Render(ctx, src, afm.RenderOptions{Root: sess.root()})
	if err != nil {
		return fmt.Errorf("render stdin: %w", err)
	}

	pageOpts := sess.cfg.PageOptions()
	if pageOpts.Title == "" {
		pageOpts.Title = runner.DocumentTitle("", res.FrontMatter)
	}
	out, err := wrapper.Wrap(res.HTML, pageOpts)
	if err != nil {
		return fmt.Errorf("wrap page: %w", err)
	}

	if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if !sess.cfg.Verify {
		return nil
	}

	issues := htmlcheck.Balance(out)
	if len(issues) == 0 {
		return nil
	}

	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.ErrOrStderr()))
	for _, issue := range issues {
		if _, err := io.WriteString(cmd.ErrOrStderr(), styles.FormatIssue("<stdin>", issue)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return ErrRenderProblems
}
