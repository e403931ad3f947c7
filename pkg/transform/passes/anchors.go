package passes

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/yaklabco/afmark/pkg/token"
	"github.com/yaklabco/afmark/pkg/transform"
)

// headerAnchorPattern matches an explicit {#id} heading anchor.
var headerAnchorPattern = regexp.MustCompile(`\{#([^}]+)\}`)

// HeaderAnchorsPass promotes a {#id} suffix on a heading to its id.
type HeaderAnchorsPass struct {
	transform.BasePass
}

// NewHeaderAnchorsPass creates the header anchor pass.
func NewHeaderAnchorsPass() *HeaderAnchorsPass {
	return &HeaderAnchorsPass{
		BasePass: transform.NewBasePass(
			"header-anchors",
			"# Heading {#anchor-id} sets the heading id",
			transform.StageBlock,
			orderHeaderAnchors,
		),
	}
}

// Apply sets the id of every anchored heading and cuts the heading text
// at the anchor. Trailing whitespace before the anchor is dropped.
func (p *HeaderAnchorsPass) Apply(state *transform.State) error {
	if err := transform.Check(state); err != nil {
		return err
	}

	s := state.Tokens
	for i := range s.Len() {
		if !s.At(i).Is(token.HeadingOpen) {
			continue
		}
		inline := s.At(i + 1)
		if !inline.Is(token.Inline) || inline.Content == "" {
			continue
		}
		m := headerAnchorPattern.FindStringSubmatchIndex(inline.Content)
		if m == nil {
			continue
		}
		s.At(i).AttrSet("id", strings.TrimSpace(inline.Content[m[2]:m[3]]))
		inline.Content = strings.TrimRightFunc(inline.Content[:m[0]], unicode.IsSpace)
	}
	return nil
}
