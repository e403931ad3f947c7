package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/afmark/internal/configloader"
	"github.com/yaklabco/afmark/internal/logging"
	"github.com/yaklabco/afmark/pkg/afm"
	"github.com/yaklabco/afmark/pkg/config"
	"github.com/yaklabco/afmark/pkg/runner"
	"github.com/yaklabco/afmark/pkg/transform"
)

// pipelineFlags are shared by the commands that render documents.
type pipelineFlags struct {
	root          string
	jobs          int
	ignore        []string
	enablePasses  []string
	disablePasses []string
}

func (f *pipelineFlags) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("pipeline", pflag.ContinueOnError)
	fs.StringVar(&f.root, "root", "", "directory includes and snippets resolve against (default: working directory)")
	fs.IntVarP(&f.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	fs.StringSliceVar(&f.ignore, "ignore", nil, "glob patterns to ignore")
	fs.StringSliceVar(&f.enablePasses, "enable-pass", nil, "passes to enable, by name")
	fs.StringSliceVar(&f.disablePasses, "disable-pass", nil, "passes to disable, by name")
	return fs
}

// config returns the flag values as the highest-precedence config layer.
func (f *pipelineFlags) config() *config.Config {
	return &config.Config{
		Root:   f.root,
		Jobs:   f.jobs,
		Ignore: f.ignore,
	}
}

// passOverrides returns the --enable-pass and --disable-pass values.
// Disabling wins when a pass is named by both.
func (f *pipelineFlags) passOverrides() map[string]bool {
	overrides := make(map[string]bool, len(f.enablePasses)+len(f.disablePasses))
	for _, name := range f.enablePasses {
		overrides[name] = true
	}
	for _, name := range f.disablePasses {
		overrides[name] = false
	}
	return overrides
}

// session is the resolved state a command renders with.
type session struct {
	cfg     *config.Config
	workDir string
	logger  *log.Logger
}

func loadSession(cmd *cobra.Command, cliCfg *config.Config) (*session, error) {
	ctx := commandContext(cmd)
	logger := commandLogger(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		KnownPasses:  transform.DefaultRegistry.Names(),
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, usageError(fmt.Errorf("load configuration: %w", err))
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	return &session{cfg: loadResult.Config, workDir: workDir, logger: logger}, nil
}

// newEngine builds a render engine from the session config. overrides
// come from the command line and name passes the config may not know.
func (s *session) newEngine(overrides map[string]bool) (*afm.Engine, error) {
	passes := maps.Clone(s.cfg.Passes)
	if passes == nil {
		passes = make(map[string]bool, len(overrides))
	}
	maps.Copy(passes, overrides)

	engine, err := afm.New(
		afm.WithLogger(s.logger),
		afm.WithFlavor(string(s.cfg.Flavor)),
		afm.WithPasses(passes),
		afm.WithRenderOptions(s.cfg.RenderOptions()),
		afm.WithSnippetsFile(s.cfg.SnippetsFile),
		afm.WithMaxIncludeDepth(s.cfg.MaxIncludeDepth()),
	)
	if errors.Is(err, transform.ErrUnknownPass) {
		return nil, usageError(err)
	}
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	s.logger.Debug("engine ready",
		logging.FieldFlavor, s.cfg.Flavor,
		"passes", len(engine.Chain().Passes()),
	)
	return engine, nil
}

// root resolves the include root against the working directory.
func (s *session) root() string {
	if s.cfg.Root == "" {
		return s.workDir
	}
	if filepath.IsAbs(s.cfg.Root) {
		return s.cfg.Root
	}
	return filepath.Join(s.workDir, s.cfg.Root)
}

func (s *session) runnerOptions(paths []string) runner.Options {
	return runner.Options{
		Paths:        paths,
		WorkingDir:   s.workDir,
		ExcludeGlobs: s.cfg.Ignore,
		Jobs:         s.cfg.Jobs,
		Root:         s.root(),
		OutDir:       s.cfg.Output.Dir,
		OutExt:       s.cfg.Output.Extension,
		Verify:       s.cfg.Verify,
		Page:         s.cfg.PageOptions(),
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
