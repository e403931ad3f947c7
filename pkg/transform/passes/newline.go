package passes

import (
	"strings"

	"github.com/yaklabco/afmark/pkg/token"
	"github.com/yaklabco/afmark/pkg/transform"
)

const lineBreak = "<br/>"

// SingleNewlinePass turns single newlines inside paragraphs into line
// breaks. It is off unless enabled in configuration.
type SingleNewlinePass struct {
	transform.BasePass
}

// NewSingleNewlinePass creates the single newline pass.
func NewSingleNewlinePass() *SingleNewlinePass {
	return &SingleNewlinePass{
		BasePass: transform.NewBasePass(
			"single-newline",
			"A single newline inside a paragraph becomes a <br/> line break",
			transform.StageBlock,
			orderSingleNewline,
		),
	}
}

// DefaultEnabled returns false.
func (p *SingleNewlinePass) DefaultEnabled() bool {
	return false
}

// Apply replaces lone newlines in inline content, and in the text
// children of inline tokens whose children were already built.
func (p *SingleNewlinePass) Apply(state *transform.State) error {
	if err := transform.Check(state); err != nil {
		return err
	}

	state.Tokens.EachInline(func(_ int, tok *token.Token) {
		tok.Content = breakLines(tok.Content)
		for _, child := range tok.Children {
			if child.Is(token.Text) {
				child.Content = breakLines(child.Content)
			}
		}
	})
	return nil
}

// breakLines replaces every newline that is not followed by another
// newline.
func breakLines(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' {
			sb.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\n' {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(lineBreak)
	}
	return sb.String()
}
