// Package goldmark provides the base Markdown grammar for the transform
// pipeline using the goldmark library.
//
// Parsing happens in two stages. Parse runs goldmark's block parser and
// flattens the resulting tree into block tokens; text-bearing blocks get
// an Inline token whose Content is the raw source of the block. After the
// block-stage passes have rewritten that content, ParseInline turns it into
// child tokens.
package goldmark

import (
	"context"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/afmark/pkg/token"
)

// Flavor identifies the Markdown flavor supported by the parser.
const (
	// FlavorAFM enables tables and strikethrough on top of CommonMark.
	FlavorAFM = "afm"
	// FlavorCommonMark is plain CommonMark.
	FlavorCommonMark = "commonmark"
)

// Document is the result of the block stage.
type Document struct {
	// Source is the parsed text.
	Source []byte

	// Tokens is the block token list the passes rewrite.
	Tokens *token.Stream

	// References are the link reference definitions found while parsing.
	References []parser.Reference
}

// Parser implements both parsing stages.
type Parser struct {
	flavor string
	block  goldmark.Markdown
	inline parser.Parser
}

// New creates a parser for the given flavor. Unknown flavors fall back
// to FlavorAFM.
func New(flavor string) *Parser {
	f := flavorOrDefault(flavor)
	return &Parser{
		flavor: f,
		block:  newBlockInstance(f),
		inline: newInlineParser(f),
	}
}

// Flavor returns the configured Markdown flavor.
func (p *Parser) Flavor() string {
	return p.flavor
}

// Parse runs the block stage over src.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	source := copyContent(src)
	pc := parser.NewContext()
	root := p.block.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	mapper := newBlockMapper(source)
	return &Document{
		Source:     source,
		Tokens:     token.NewStream(mapper.mapDocument(root)),
		References: pc.References(),
	}, nil
}

// ParseInline fills tok.Children from tok.Content. When the children were
// already built by a pass, only their text children are parsed and the
// results spliced in place.
func (p *Parser) ParseInline(doc *Document, tok *token.Token) {
	if tok == nil || tok.Type != token.Inline {
		return
	}

	var refs []parser.Reference
	if doc != nil {
		refs = doc.References
	}

	if len(tok.Children) == 0 {
		tok.SetChildren(parseInline(p.inline, tok.Content, refs))
		return
	}

	children := make([]*token.Token, 0, len(tok.Children))
	for _, child := range tok.Children {
		if child.Type != token.Text {
			children = append(children, child)
			continue
		}
		children = append(children, parseTextChild(p.inline, child.Content, refs)...)
	}
	tok.SetChildren(children)
}

// parseTextChild parses a text fragment sitting between synthesized
// tokens. Paragraph parsing trims the fragment, so the surrounding
// whitespace is kept as separate text tokens.
func parseTextChild(p parser.Parser, content string, refs []parser.Reference) []*token.Token {
	core := strings.TrimSpace(content)
	if core == "" {
		if content == "" {
			return nil
		}
		return []*token.Token{token.NewText(content)}
	}

	lead := content[:strings.Index(content, core)]
	trail := content[len(lead)+len(core):]

	var out []*token.Token
	if lead != "" {
		out = append(out, token.NewText(lead))
	}
	out = append(out, parseInline(p, core, refs)...)
	if trail != "" {
		out = append(out, token.NewText(trail))
	}
	return out
}

// ParseAllInline runs ParseInline on every inline token in the document.
func (p *Parser) ParseAllInline(ctx context.Context, doc *Document) error {
	for _, tok := range doc.Tokens.Tokens() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("inline parse cancelled: %w", err)
		}
		p.ParseInline(doc, tok)
	}
	return nil
}

// flavorOrDefault returns the flavor if valid, otherwise FlavorAFM.
func flavorOrDefault(flavor string) string {
	switch flavor {
	case FlavorAFM, FlavorCommonMark:
		return flavor
	default:
		return FlavorAFM
	}
}

// newBlockInstance creates the goldmark instance used for the block stage.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newBlockInstance(flavor string) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case FlavorAFM:
		opts = append(opts,
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
			),
		)
	case FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(opts...)
}

// newInlineParser creates a parser that only knows paragraphs, so any
// text handed to it is read as inline content.
//
//nolint:ireturn // parser.Parser is an external interface type
func newInlineParser(flavor string) parser.Parser {
	inlineParsers := parser.DefaultInlineParsers()
	if flavor == FlavorAFM {
		inlineParsers = append(inlineParsers, util.Prioritized(extension.NewStrikethroughParser(), 500))
	}

	return parser.NewParser(
		parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		parser.WithInlineParsers(inlineParsers...),
	)
}

// copyContent creates a copy of the content slice to ensure immutability.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	cp := make([]byte, len(content))
	copy(cp, content)
	return cp
}
