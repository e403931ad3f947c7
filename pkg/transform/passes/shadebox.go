package passes

import (
	"regexp"
	"strings"

	"github.com/yaklabco/afmark/pkg/render"
	"github.com/yaklabco/afmark/pkg/token"
	"github.com/yaklabco/afmark/pkg/transform"
)

var (
	beginShadeboxPattern = regexp.MustCompile(`\[!BEGINSHADEBOX(?:\s+"(.*)")?\]`)
	endShadeboxPattern   = regexp.MustCompile(`\[!ENDSHADEBOX\]`)
)

const (
	shadeboxOpen  = `<div class="sp-wrapper">`
	shadeboxClose = `</div>`
)

// ShadeboxPass turns [!BEGINSHADEBOX] ... [!ENDSHADEBOX] into a shaded box.
type ShadeboxPass struct {
	transform.BasePass
}

// NewShadeboxPass creates the shadebox pass.
func NewShadeboxPass() *ShadeboxPass {
	return &ShadeboxPass{
		BasePass: transform.NewBasePass(
			"shadebox",
			`Blockquote markers [!BEGINSHADEBOX "title"] and [!ENDSHADEBOX] wrap content in a shaded box`,
			transform.StageBlock,
			orderShadebox,
		),
	}
}

// shadeboxEnd locates an END marker.
type shadeboxEnd struct {
	// start and n are the token range replaced by the closing div.
	start, n int
	// lead is text before the marker in the same paragraph.
	lead string
	// like is the marker's paragraph_open.
	like *token.Token
}

// Apply rewrites every BEGIN marker that has a matching END marker. The
// END marker is either the first paragraph of a later blockquote at the
// same level, or a paragraph of the BEGIN blockquote itself.
func (p *ShadeboxPass) Apply(state *transform.State) error {
	if err := transform.Check(state); err != nil {
		return err
	}

	s := state.Tokens
	for i := 0; i < s.Len(); i++ {
		inline, ok := quoteParagraph(s, i)
		if !ok {
			continue
		}
		loc := beginShadeboxPattern.FindStringSubmatchIndex(inline.Content)
		if loc == nil {
			continue
		}

		quoteClose := s.MatchingClose(i)
		if quoteClose < 0 {
			continue
		}
		end, found := findShadeboxEnd(s, i, quoteClose)
		if !found {
			state.Log().Debug("shadebox without [!ENDSHADEBOX] left as is")
			continue
		}

		level := s.At(i).Level
		pOpen := s.At(i + 1)

		// Replace the END first so the BEGIN indices stay valid.
		closing := make([]*token.Token, 0, 4)
		if end.lead != "" {
			closing = append(closing, paragraph(end.lead, end.like.Level, end.like)...)
		}
		closing = append(closing, htmlBlock(shadeboxClose, level))
		s.Splice(end.start, end.n, closing...)
		if end.start < quoteClose {
			quoteClose += len(closing) - end.n
		}

		s.Remove(quoteClose, 1)

		title := ""
		if loc[2] >= 0 {
			title = inline.Content[loc[2]:loc[3]]
		}
		opening := []*token.Token{
			htmlBlock(shadeboxOpen, level),
			htmlBlock("<p><strong>"+render.EscapeHTML(title)+"</strong></p>", level),
		}
		if rest := strings.TrimSpace(inline.Content[loc[1]:]); rest != "" {
			opening = append(opening, paragraph(rest, pOpen.Level, pOpen)...)
		}
		s.Splice(i, 4, opening...)
		i += len(opening) - 1
	}
	return nil
}

// findShadeboxEnd searches for the END marker of the box opened by the
// blockquote at open, whose close is at quoteClose.
func findShadeboxEnd(s *token.Stream, open, quoteClose int) (shadeboxEnd, bool) {
	level := s.At(open).Level
	innerLevel := s.At(open + 1).Level

	// Inside the BEGIN blockquote, after the marker paragraph.
	for j := open + 4; j < quoteClose; j++ {
		tok := s.At(j)
		if !tok.Is(token.Inline) || !s.At(j-1).Is(token.ParagraphOpen) || s.At(j-1).Level != innerLevel {
			continue
		}
		loc := endShadeboxPattern.FindStringIndex(tok.Content)
		if loc == nil {
			continue
		}
		return shadeboxEnd{
			start: j - 1,
			n:     3,
			lead:  strings.TrimSpace(tok.Content[:loc[0]]),
			like:  s.At(j - 1),
		}, true
	}

	// A later blockquote at the same level.
	for j := quoteClose + 1; j < s.Len(); j++ {
		if s.At(j).Level != level {
			continue
		}
		inline, ok := quoteParagraph(s, j)
		if !ok || !endShadeboxPattern.MatchString(inline.Content) {
			continue
		}
		endClose := s.MatchingClose(j)
		if endClose < 0 {
			return shadeboxEnd{}, false
		}
		return shadeboxEnd{start: j, n: endClose - j + 1}, true
	}
	return shadeboxEnd{}, false
}
