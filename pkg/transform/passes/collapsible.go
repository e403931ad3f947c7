package passes

import (
	"strings"

	"github.com/yaklabco/afmark/pkg/render"
	"github.com/yaklabco/afmark/pkg/token"
	"github.com/yaklabco/afmark/pkg/transform"
)

const (
	collapsibleMarker = "+++"
	collapsibleSuffix = "\n" + collapsibleMarker
	detailsTag        = "details"
)

// CollapsiblePass turns +++ Title ... +++ sections into details elements.
type CollapsiblePass struct {
	transform.BasePass
}

// NewCollapsiblePass creates the collapsible pass.
func NewCollapsiblePass() *CollapsiblePass {
	return &CollapsiblePass{
		BasePass: transform.NewBasePass(
			"collapsible",
			"Paragraphs opening with +++ Title and closing with +++ become collapsible details sections",
			transform.StageBlock,
			orderCollapsible,
		),
	}
}

// Apply rewrites collapsible sections. Sections nest; a section left open
// is closed before the container that holds it ends.
func (p *CollapsiblePass) Apply(state *transform.State) error {
	if err := transform.Check(state); err != nil {
		return err
	}

	s := state.Tokens
	var open []int // paragraph levels of unclosed sections

	for i := 0; i < s.Len(); i++ {
		tok := s.At(i)

		if tok.IsClose() && len(open) > 0 && tok.Level < open[len(open)-1] {
			s.Insert(i, detailsClose(open[len(open)-1]))
			open = open[:len(open)-1]
			continue
		}

		if !tok.Is(token.Inline) || !s.At(i-1).Is(token.ParagraphOpen) || !s.At(i+1).Is(token.ParagraphClose) {
			continue
		}
		pOpen := s.At(i - 1)
		level := pOpen.Level

		first, rest := splitFirstLine(tok.Content)
		if strings.HasPrefix(first, collapsibleMarker) {
			title := strings.TrimSpace(first[len(collapsibleMarker):])

			if title == "" {
				if len(open) == 0 || open[len(open)-1] != level {
					continue
				}
				repl := []*token.Token{detailsClose(level)}
				if body := strings.TrimSpace(rest); body != "" {
					repl = append(repl, paragraph(body, level, pOpen)...)
				}
				s.Splice(i-1, 3, repl...)
				open = open[:len(open)-1]
				i += len(repl) - 2
				continue
			}

			body, closed := trimCloser(rest)
			repl := []*token.Token{
				detailsOpen(level),
				htmlBlock("<summary>"+render.EscapeHTML(title)+"</summary>", level),
			}
			if body != "" {
				repl = append(repl, paragraph(body, level, pOpen)...)
			}
			if closed {
				repl = append(repl, detailsClose(level))
			} else {
				open = append(open, level)
			}
			s.Splice(i-1, 3, repl...)
			i += len(repl) - 2
			continue
		}

		if len(open) > 0 && open[len(open)-1] == level {
			if body, closed := trimCloser(tok.Content); closed {
				tok.Content = body
				s.Insert(i+2, detailsClose(level))
				open = open[:len(open)-1]
				i += 2
			}
		}
	}

	for n := len(open) - 1; n >= 0; n-- {
		s.Append(detailsClose(open[n]))
	}
	return nil
}

// trimCloser removes a trailing +++ line from body.
func trimCloser(body string) (string, bool) {
	if body == collapsibleMarker {
		return "", true
	}
	if trimmed, ok := strings.CutSuffix(body, collapsibleSuffix); ok {
		return trimmed, true
	}
	return body, false
}

func detailsOpen(level int) *token.Token {
	tok := token.New(token.ContainerOpen, detailsTag, 1)
	tok.Level = level
	tok.Markup = collapsibleMarker
	return tok
}

func detailsClose(level int) *token.Token {
	tok := token.New(token.ContainerClose, detailsTag, -1)
	tok.Level = level
	tok.Markup = collapsibleMarker
	return tok
}
