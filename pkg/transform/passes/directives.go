package passes

import (
	"regexp"

	"github.com/yaklabco/afmark/pkg/token"
	"github.com/yaklabco/afmark/pkg/transform"
)

// DirectivePass rewrites every match of a pattern in inline content with
// a fixed replacement template.
type DirectivePass struct {
	transform.BasePass
	pattern     *regexp.Regexp
	replacement string
}

// NewDNLPass creates the pass unwrapping [!DNL text] translation hints.
func NewDNLPass() *DirectivePass {
	return &DirectivePass{
		BasePass: transform.NewBasePass(
			"dnl",
			"[!DNL text] do-not-localize markers are replaced by their text",
			transform.StageBlock,
			orderDNL,
		),
		pattern:     regexp.MustCompile(`\[\!DNL\s+([^\]]+)\]`),
		replacement: "$1",
	}
}

// NewUIControlPass creates the pass unwrapping [!UICONTROL text] markers.
func NewUIControlPass() *DirectivePass {
	return &DirectivePass{
		BasePass: transform.NewBasePass(
			"uicontrol",
			"[!UICONTROL text] markers are replaced by their text",
			transform.StageBlock,
			orderUIControl,
		),
		pattern:     regexp.MustCompile(`\[\!UICONTROL\s+([^\]]+)\]`),
		replacement: "$1",
	}
}

// Apply substitutes every match. Substituted text is not scanned again.
func (p *DirectivePass) Apply(state *transform.State) error {
	if err := transform.Check(state); err != nil {
		return err
	}

	state.Tokens.EachInline(func(_ int, tok *token.Token) {
		if p.pattern.MatchString(tok.Content) {
			tok.Content = p.pattern.ReplaceAllString(tok.Content, p.replacement)
		}
	})
	return nil
}
