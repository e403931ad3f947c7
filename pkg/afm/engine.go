// Package afm renders Adobe Flavored Markdown to HTML.
//
// An Engine runs the full pipeline for one document at a time:
//
//  1. Split off YAML front matter.
//  2. Expand includes and snippets relative to the document root.
//  3. Parse block tokens.
//  4. Run the block passes.
//  5. Parse inline content.
//  6. Run the inline passes.
//  7. Render HTML.
//
// An Engine is safe for concurrent use; every Render call owns its tokens.
package afm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/afmark/internal/logging"
	"github.com/yaklabco/afmark/pkg/parser/goldmark"
	"github.com/yaklabco/afmark/pkg/preprocess"
	"github.com/yaklabco/afmark/pkg/render"
	"github.com/yaklabco/afmark/pkg/token"
	"github.com/yaklabco/afmark/pkg/transform"
	_ "github.com/yaklabco/afmark/pkg/transform/passes" // Register built-in passes
)

// ErrNilInput is returned when Render is given no source.
var ErrNilInput = errors.New("nil input")

// Engine is a configured rendering pipeline.
type Engine struct {
	logger       *log.Logger
	registry     *transform.Registry
	overrides    map[string]bool
	renderOpts   render.Options
	flavor       string
	snippetsFile string
	maxDepth     int

	chain    *transform.Chain
	parser   *goldmark.Parser
	renderer *render.Renderer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for pipeline diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRegistry replaces the pass registry. The default is
// transform.DefaultRegistry holding the built-in passes.
func WithRegistry(registry *transform.Registry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// WithPasses enables or disables passes by name.
func WithPasses(overrides map[string]bool) Option {
	return func(e *Engine) {
		for name, on := range overrides {
			e.overrides[name] = on
		}
	}
}

// WithRenderOptions sets the HTML renderer options.
func WithRenderOptions(opts render.Options) Option {
	return func(e *Engine) {
		e.renderOpts = opts
	}
}

// WithFlavor sets the base Markdown flavor.
func WithFlavor(flavor string) Option {
	return func(e *Engine) {
		e.flavor = flavor
	}
}

// WithSnippetsFile sets the snippets file path relative to the root.
func WithSnippetsFile(path string) Option {
	return func(e *Engine) {
		e.snippetsFile = path
	}
}

// WithMaxIncludeDepth bounds nested includes. Zero means unbounded.
func WithMaxIncludeDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// New creates an Engine. It fails when a pass override names an unknown
// pass.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		registry:     transform.DefaultRegistry,
		overrides:    make(map[string]bool),
		renderOpts:   render.DefaultOptions(),
		flavor:       goldmark.FlavorAFM,
		snippetsFile: preprocess.DefaultSnippetsFile,
		maxDepth:     preprocess.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrDiscard(e.logger)

	chain, err := transform.NewChain(e.registry, e.overrides)
	if err != nil {
		return nil, fmt.Errorf("build pass chain: %w", err)
	}
	e.chain = chain
	e.parser = goldmark.New(e.flavor)
	e.renderer = render.New(e.renderOpts)
	return e, nil
}

// Chain returns the enabled passes.
func (e *Engine) Chain() *transform.Chain {
	return e.chain
}

// RenderOptions locates the document being rendered.
type RenderOptions struct {
	// Root is the directory includes and snippets resolve against. Empty
	// skips preprocessing.
	Root string

	// Path is the document's own path, used for include cycle detection
	// and diagnostics. Empty for stdin.
	Path string
}

// Result is a rendered document.
type Result struct {
	// HTML is the rendered body.
	HTML string

	// Tokens is the final token list.
	Tokens []*token.Token

	// FrontMatter is the decoded front matter, or nil.
	FrontMatter map[string]any
}

// Render runs the pipeline over src.
func (e *Engine) Render(ctx context.Context, src []byte, opts RenderOptions) (*Result, error) {
	if src == nil {
		return nil, ErrNilInput
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("render cancelled: %w", err)
	}

	start := time.Now()
	logger := e.logger
	if opts.Path != "" {
		logger = logger.With(logging.FieldPath, opts.Path)
	}

	fmBlock, body := SplitFrontMatter(src)
	var fm map[string]any
	if fmBlock != nil {
		parsed, fmErr := ParseFrontMatter(fmBlock)
		if fmErr != nil {
			logger.Warn("front matter ignored", logging.FieldError, fmErr)
		}
		fm = parsed
	}

	text := string(body)
	if opts.Root != "" {
		pre := preprocess.New(opts.Root)
		pre.SnippetsFile = e.snippetsFile
		pre.MaxDepth = e.maxDepth
		pre.Logger = logger
		if opts.Path != "" {
			text = pre.ProcessDocument(ctx, text, opts.Path)
		} else {
			text = pre.Process(ctx, text)
		}
	}

	doc, err := e.parser.Parse(ctx, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	state := transform.NewState(ctx, doc.Tokens)
	state.Path = opts.Path
	state.Logger = logger
	if fm != nil {
		state.Env[transform.EnvFrontMatter] = fm
	}

	if err := e.chain.Run(state, transform.StageBlock); err != nil {
		return nil, err
	}
	if err := e.parser.ParseAllInline(ctx, doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := e.chain.Run(state, transform.StageInline); err != nil {
		return nil, err
	}

	toks := doc.Tokens.Tokens()
	html := e.renderer.Render(toks)

	logger.Debug("document rendered",
		logging.FieldTokens, len(toks),
		logging.FieldDuration, time.Since(start),
	)

	return &Result{HTML: html, Tokens: toks, FrontMatter: fm}, nil
}

// RenderString renders src and returns only the HTML.
func (e *Engine) RenderString(ctx context.Context, src string, opts RenderOptions) (string, error) {
	res, err := e.Render(ctx, []byte(src), opts)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}
