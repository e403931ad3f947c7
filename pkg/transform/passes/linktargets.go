package passes

import (
	"regexp"
	"strings"

	"github.com/yaklabco/afmark/pkg/token"
	"github.com/yaklabco/afmark/pkg/transform"
)

// linkTargetPattern matches [text](url){target=value}.
var linkTargetPattern = regexp.MustCompile(
	`\[([^\]]+)\]\(([^)]+)\)\{\s*target\s*=\s*["']?([^"'\s\}]+)["']?\s*\}`,
)

// linkTargetGuard lists characters that may not directly precede a
// target link. They mark emphasis, code spans and images.
const linkTargetGuard = "`*_~!"

// LinkTargetsPass builds link tokens for [text](url){target=value}.
type LinkTargetsPass struct {
	transform.BasePass
}

// NewLinkTargetsPass creates the link target pass.
func NewLinkTargetsPass() *LinkTargetsPass {
	return &LinkTargetsPass{
		BasePass: transform.NewBasePass(
			"link-targets",
			"[text](url){target=_blank} sets the link target",
			transform.StageBlock,
			orderLinkTargets,
		),
	}
}

// Apply replaces the children of inline tokens holding target links with
// text, link_open, text, link_close runs. Inline parsing later parses the
// text children only.
func (p *LinkTargetsPass) Apply(state *transform.State) error {
	if err := transform.Check(state); err != nil {
		return err
	}

	state.Tokens.EachInline(func(_ int, tok *token.Token) {
		children, ok := splitLinkTargets(tok.Content)
		if !ok {
			return
		}
		tok.SetChildren(children)

		var sb strings.Builder
		for _, child := range children {
			sb.WriteString(child.Content)
		}
		tok.Content = sb.String()
	})
	return nil
}

// splitLinkTargets returns the children for content, or false when
// content holds no target link.
func splitLinkTargets(content string) ([]*token.Token, bool) {
	matches := linkTargetPattern.FindAllStringSubmatchIndex(content, -1)
	if matches == nil {
		return nil, false
	}

	var (
		children []*token.Token
		last     int
	)
	for _, m := range matches {
		if m[0] > 0 && strings.IndexByte(linkTargetGuard, content[m[0]-1]) >= 0 {
			continue
		}

		if m[0] > last {
			children = append(children, token.NewText(content[last:m[0]]))
		}

		open := token.New(token.LinkOpen, "a", 1)
		open.AttrSet("href", content[m[4]:m[5]])
		open.AttrSet("target", content[m[6]:m[7]])
		children = append(children,
			open,
			token.NewText(content[m[2]:m[3]]),
			token.New(token.LinkClose, "a", -1),
		)
		last = m[1]
	}
	if children == nil {
		return nil, false
	}

	if last < len(content) {
		children = append(children, token.NewText(content[last:]))
	}
	return children, true
}
