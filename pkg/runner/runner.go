package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/afmark/internal/logging"
	"github.com/yaklabco/afmark/pkg/afm"
	"github.com/yaklabco/afmark/pkg/fsutil"
	"github.com/yaklabco/afmark/pkg/htmlcheck"
	"github.com/yaklabco/afmark/pkg/page"
)

// Renderer renders one document. *afm.Engine implements it.
type Renderer interface {
	Render(ctx context.Context, src []byte, opts afm.RenderOptions) (*afm.Result, error)
}

// Runner renders discovered files on a worker pool.
type Runner struct {
	renderer Renderer
	wrapper  *page.Wrapper
	logger   *log.Logger
}

// New creates a Runner. A nil logger discards output.
func New(renderer Renderer, wrapper *page.Wrapper, logger *log.Logger) *Runner {
	return &Runner{
		renderer: renderer,
		wrapper:  wrapper,
		logger:   logging.OrDiscard(logger),
	}
}

type job struct {
	index int
	path  string
}

type settings struct {
	Options

	workDir string
}

// Run discovers files and renders them concurrently. Outcomes are
// returned in discovery order regardless of completion order. Per-file
// failures are recorded on the outcome; the returned error covers
// discovery and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	cfg := settings{Options: opts, workDir: workDir}
	if cfg.Root == "" {
		cfg.Root = workDir
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	r.logger.Debug("rendering files", logging.FieldFiles, len(files), logging.FieldJobs, jobs)

	workCh := make(chan job)
	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range workCh {
				if ctx.Err() != nil {
					return
				}
				outcomes[j.index] = r.renderFile(ctx, j.path, cfg)
				done[j.index] = true
			}
		}()
	}

feed:
	for i, path := range files {
		select {
		case <-ctx.Done():
			break feed
		case workCh <- job{index: i, path: path}:
		}
	}
	close(workCh)
	wg.Wait()

	for i, outcome := range outcomes {
		if done[i] {
			result.accumulate(outcome, opts.Write)
		}
	}
	result.Stats.Duration = time.Since(start)

	r.logger.Debug("run complete",
		logging.FieldFilesRendered, result.Stats.FilesRendered,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldIssues, result.Stats.IssuesTotal,
		logging.FieldDuration, result.Stats.Duration,
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) renderFile(ctx context.Context, path string, cfg settings) (outcome FileOutcome) {
	start := time.Now()
	outcome.Path = path
	outcome.OutputPath = fsutil.OutputPath(path, cfg.workDir, cfg.OutDir, cfg.OutExt)
	defer func() { outcome.Duration = time.Since(start) }()

	logger := r.logger.With(logging.FieldPath, path)

	src, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	res, err := r.renderer.Render(ctx, src, afm.RenderOptions{Root: cfg.Root, Path: path})
	if err != nil {
		outcome.Error = fmt.Errorf("render %s: %w", path, err)
		return outcome
	}

	html := res.HTML
	if r.wrapper != nil {
		pageOpts := cfg.Page
		if pageOpts.Title == "" {
			pageOpts.Title = DocumentTitle(path, res.FrontMatter)
		}
		html, err = r.wrapper.Wrap(html, pageOpts)
		if err != nil {
			outcome.Error = fmt.Errorf("wrap %s: %w", path, err)
			return outcome
		}
	}
	outcome.HTML = html

	if cfg.Verify {
		outcome.Issues = htmlcheck.Balance(html)
		for _, issue := range outcome.Issues {
			logger.Debug("unbalanced output", logging.FieldIssue, issue.String())
		}
	}

	if cfg.Write {
		written, err := fsutil.WriteAtomicIfChanged(ctx, outcome.OutputPath, []byte(html), 0)
		if err != nil {
			outcome.Error = fmt.Errorf("write %s: %w", outcome.OutputPath, err)
			return outcome
		}
		outcome.Written = written
		if written {
			logger.Debug("wrote output", logging.FieldOutput, outcome.OutputPath)
		}
	}

	return outcome
}

// DocumentTitle prefers a front matter title and falls back to the file
// name without extension.
func DocumentTitle(path string, fm map[string]any) string {
	if title, ok := fm["title"].(string); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
