// Package transform provides the token-rewrite pass contract, the pass
// registry, and the chain that runs passes in order over a document.
package transform

// Stage says when a pass runs relative to inline parsing.
type Stage uint8

const (
	// StageBlock passes run on block tokens before inline parsing. They
	// read and rewrite Inline.Content.
	StageBlock Stage = iota

	// StageInline passes run after inline parsing and work on
	// Inline.Children.
	StageInline
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageBlock:
		return "block"
	case StageInline:
		return "inline"
	default:
		return "unknown"
	}
}

// Pass is one token-rewrite step.
type Pass interface {
	// Name returns the unique pass name (e.g., "admonitions").
	Name() string

	// Description returns a one-line summary of the syntax the pass handles.
	Description() string

	// Stage returns when the pass runs.
	Stage() Stage

	// Order positions the pass within its stage; lower runs first.
	Order() int

	// DefaultEnabled reports whether the pass runs without configuration.
	DefaultEnabled() bool

	// Apply rewrites state.Tokens in place.
	//
	// Passes must:
	//   - Leave dialect syntax they cannot interpret untouched.
	//   - Keep every open token paired with a later close.
	//   - Return an error only for internal failures.
	Apply(state *State) error
}
