package passes

import (
	"regexp"
	"strings"

	"github.com/yaklabco/afmark/pkg/token"
	"github.com/yaklabco/afmark/pkg/transform"
)

// admonitionLabelPattern matches a leading admonition marker.
var admonitionLabelPattern = regexp.MustCompile(
	`^\[\!(ADMINISTRATION|ADMIN|AVAILABILITY|CAUTION|ERROR|IMPORTANT|INFO|MORELIKETHIS|NOTE|PREREQUISITES|SUCCESS|TIP|WARNING)\]\s*`,
)

// videoPattern matches a leading [!VIDEO](url) marker.
var videoPattern = regexp.MustCompile(`^\[\!VIDEO\]\s*\((.*)\)`)

const (
	admonitionClass = "Admonition"
	relatedLabel    = "Related Articles"
	videoPoster     = "/assets/img/video_slug.png"
	videoHeight     = "250"
)

// AdmonitionsPass turns labelled blockquotes into callout containers.
type AdmonitionsPass struct {
	transform.BasePass
}

// NewAdmonitionsPass creates the admonitions pass.
func NewAdmonitionsPass() *AdmonitionsPass {
	return &AdmonitionsPass{
		BasePass: transform.NewBasePass(
			"admonitions",
			"Blockquotes starting with [!NOTE], [!TIP], [!WARNING] and friends become callouts; [!VIDEO](url) embeds a player",
			transform.StageBlock,
			orderAdmonitions,
		),
	}
}

// quoteFrame tracks one open blockquote during the scan.
type quoteFrame struct {
	open   int
	tested bool
}

// Apply rewrites admonition and video blockquotes.
//
// Every paragraph inside a blockquote becomes a div, labelled or not.
func (p *AdmonitionsPass) Apply(state *transform.State) error {
	if err := transform.Check(state); err != nil {
		return err
	}

	toks := state.Tokens.Tokens()
	var stack []quoteFrame

	for i := 0; i < len(toks); i++ {
		tok := toks[i]

		switch tok.Type {
		case token.BlockquoteOpen:
			stack = append(stack, quoteFrame{open: i})
			continue

		case token.BlockquoteClose:
			if len(stack) == 0 {
				continue
			}
			tok.Tag = toks[stack[len(stack)-1].open].Tag
			stack = stack[:len(stack)-1]
			continue
		}

		if len(stack) == 0 {
			continue
		}

		switch tok.Type {
		case token.ParagraphOpen:
			tok.Tag = "div"
			tok.AttrSet("class", "p")

		case token.ParagraphClose:
			tok.Tag = "div"

		case token.Inline:
			frame := &stack[len(stack)-1]
			if frame.tested {
				continue
			}
			frame.tested = true

			if applyLabel(toks[frame.open], tok) {
				continue
			}
			if applyVideo(toks, frame.open, i) {
				// The paragraph close is already a video.
				i++
			}
		}
	}
	return nil
}

// applyLabel strips a leading admonition label from inline and styles the
// blockquote open.
func applyLabel(open, inline *token.Token) bool {
	m := admonitionLabelPattern.FindStringSubmatchIndex(inline.Content)
	if m == nil {
		return false
	}

	label := inline.Content[m[2]:m[3]]
	inline.Content = inline.Content[m[1]:]

	dataLabel := label
	if label == "MORELIKETHIS" {
		dataLabel = relatedLabel
	}

	open.Tag = "div"
	open.AttrSet("class", admonitionClass+" "+strings.ToLower(label))
	open.AttrSet("data-label", dataLabel)
	return true
}

// applyVideo turns the paragraph around a [!VIDEO](url) marker into a
// video element.
func applyVideo(toks []*token.Token, open, i int) bool {
	inline := toks[i]
	m := videoPattern.FindStringSubmatch(inline.Content)
	if m == nil {
		return false
	}
	if i == 0 || i+1 >= len(toks) {
		return false
	}
	pOpen, pClose := toks[i-1], toks[i+1]
	if !pOpen.Is(token.ParagraphOpen) || !pClose.Is(token.ParagraphClose) {
		return false
	}

	toks[open].Tag = "div"
	toks[open].AttrSet("class", admonitionClass+" video")

	pOpen.Tag = "video"
	pOpen.Attrs.Delete("class")
	pOpen.AttrSet("allowfullscreen", "true")
	pOpen.AttrSet("controls", "true")
	pOpen.AttrSet("height", videoHeight)
	pOpen.AttrSet("poster", videoPoster)
	pOpen.AttrSet("crossorigin", "anonymous")
	pOpen.AttrSet("src", m[1])

	inline.Content = ""
	pClose.Tag = "video"
	return true
}
