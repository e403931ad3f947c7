package transform

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/afmark/internal/logging"
	"github.com/yaklabco/afmark/pkg/token"
)

// EnvFrontMatter is the Env key holding the document's decoded front
// matter as map[string]any.
const EnvFrontMatter = "front_matter"

// ErrNilState is returned when a pass is applied to a nil state.
var ErrNilState = errors.New("nil transform state")

// State is what a pass sees: the token list of one document plus
// per-document values. A State is owned by a single render call.
type State struct {
	// Ctx is the render context, used for cancellation.
	Ctx context.Context

	// Tokens is the document's block token list.
	Tokens *token.Stream

	// Env carries per-document values such as front matter.
	Env map[string]any

	// Path is the source path, empty for stdin.
	Path string

	// Logger receives pass diagnostics.
	Logger *log.Logger
}

// NewState creates a State over toks.
func NewState(ctx context.Context, toks *token.Stream) *State {
	if ctx == nil {
		ctx = context.Background()
	}
	return &State{
		Ctx:    ctx,
		Tokens: toks,
		Env:    make(map[string]any),
	}
}

// Cancelled reports whether the render has been cancelled.
func (s *State) Cancelled() bool {
	return s.Ctx != nil && s.Ctx.Err() != nil
}

// Log returns the state's logger or a discarding one.
func (s *State) Log() *log.Logger {
	return logging.OrDiscard(s.Logger)
}

// FrontMatter returns the decoded front matter, or nil.
func (s *State) FrontMatter() map[string]any {
	fm, _ := s.Env[EnvFrontMatter].(map[string]any)
	return fm
}

// Check returns ErrNilState for a state a pass cannot work on.
func Check(s *State) error {
	if s == nil || s.Tokens == nil {
		return ErrNilState
	}
	return nil
}
