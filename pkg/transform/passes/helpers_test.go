package passes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/afmark/pkg/parser/goldmark"
	"github.com/yaklabco/afmark/pkg/render"
	"github.com/yaklabco/afmark/pkg/token"
	"github.com/yaklabco/afmark/pkg/transform"
)

// parseState parses src and wraps the block tokens in a State.
func parseState(t *testing.T, src string) (*goldmark.Parser, *goldmark.Document, *transform.State) {
	t.Helper()

	p := goldmark.New(goldmark.FlavorAFM)
	doc, err := p.Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	return p, doc, transform.NewState(context.Background(), doc.Tokens)
}

// renderWith parses src, applies passes by stage around inline parsing
// and renders the result.
func renderWith(t *testing.T, src string, passes ...transform.Pass) string {
	t.Helper()

	p, doc, state := parseState(t, src)
	applyStage(t, state, transform.StageBlock, passes)
	require.NoError(t, p.ParseAllInline(context.Background(), doc))
	applyStage(t, state, transform.StageInline, passes)

	assertBalanced(t, doc.Tokens.Tokens())
	return render.New(render.Options{LangPrefix: "language-"}).Render(doc.Tokens.Tokens())
}

func applyStage(t *testing.T, state *transform.State, stage transform.Stage, passes []transform.Pass) {
	t.Helper()

	for _, pass := range passes {
		if pass.Stage() == stage {
			require.NoError(t, pass.Apply(state), pass.Name())
		}
	}
}

// assertBalanced checks that every open token has a later close.
func assertBalanced(t *testing.T, toks []*token.Token) {
	t.Helper()

	depth := 0
	for i, tok := range toks {
		depth += tok.Nesting
		require.GreaterOrEqual(t, depth, 0, "close without open at %d (%s)", i, tok.Type)
	}
	require.Zero(t, depth, "unclosed tokens")
}

// inlineContents returns the content of every inline token.
func inlineContents(state *transform.State) []string {
	var out []string
	state.Tokens.EachInline(func(_ int, tok *token.Token) {
		out = append(out, tok.Content)
	})
	return out
}
