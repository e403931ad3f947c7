package passes

import (
	"strings"

	"github.com/yaklabco/afmark/pkg/token"
)

// quoteParagraph returns the inline token of the first paragraph of the
// blockquote opening at i: blockquote_open, paragraph_open, inline.
func quoteParagraph(s *token.Stream, i int) (*token.Token, bool) {
	if !s.At(i).Is(token.BlockquoteOpen) || !s.At(i+1).Is(token.ParagraphOpen) {
		return nil, false
	}
	inline := s.At(i + 2)
	if !inline.Is(token.Inline) || !s.At(i + 3).Is(token.ParagraphClose) {
		return nil, false
	}
	return inline, true
}

// markerQuote returns the inline token of a blockquote that holds exactly
// one paragraph: blockquote_open, paragraph_open, inline,
// paragraph_close, blockquote_close.
func markerQuote(s *token.Stream, i int) (*token.Token, bool) {
	inline, ok := quoteParagraph(s, i)
	if !ok || !s.At(i+4).Is(token.BlockquoteClose) {
		return nil, false
	}
	return inline, true
}

// paragraph builds a paragraph_open, inline, paragraph_close triple at the
// given level. Open and close copy the hidden flag of like, when set.
func paragraph(content string, level int, like *token.Token) []*token.Token {
	open := token.New(token.ParagraphOpen, "p", 1)
	inline := token.NewInline(content)
	closeTok := token.New(token.ParagraphClose, "p", -1)

	open.Level, inline.Level, closeTok.Level = level, level+1, level
	if like != nil {
		open.Hidden, closeTok.Hidden = like.Hidden, like.Hidden
	}
	return []*token.Token{open, inline, closeTok}
}

// htmlBlock creates an html_block at the given level.
func htmlBlock(content string, level int) *token.Token {
	tok := token.NewHTMLBlock(content)
	tok.Level = level
	return tok
}

// splitFirstLine returns the first line of s and the rest after the
// newline.
func splitFirstLine(s string) (string, string) {
	first, rest, _ := strings.Cut(s, "\n")
	return first, rest
}
