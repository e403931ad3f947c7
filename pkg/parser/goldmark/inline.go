package goldmark

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/afmark/pkg/token"
)

// inlineMapper converts the inline nodes of a paragraph into child tokens.
type inlineMapper struct {
	source []byte
	out    []*token.Token
}

// parseInline parses content as inline Markdown and returns the child
// tokens. References defined in the document are visible through refs.
func parseInline(p parser.Parser, content string, refs []parser.Reference) []*token.Token {
	if content == "" {
		return []*token.Token{}
	}

	source := []byte(content)
	pc := parser.NewContext()
	for _, ref := range refs {
		pc.AddReference(ref)
	}
	doc := p.Parse(text.NewReader(source), parser.WithContext(pc))

	m := &inlineMapper{source: source, out: []*token.Token{}}
	first := true
	for para := doc.FirstChild(); para != nil; para = para.NextSibling() {
		if !first {
			m.emit(token.New(token.Softbreak, "br", 0))
		}
		first = false
		m.mapChildren(para)
	}
	return m.out
}

func (m *inlineMapper) mapChildren(parent ast.Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		m.mapNode(child)
	}
}

func (m *inlineMapper) mapNode(node ast.Node) {
	switch n := node.(type) {
	case *ast.Text:
		m.mapText(n)

	case *ast.String:
		if len(n.Value) > 0 {
			m.emit(token.NewText(string(n.Value)))
		}

	case *ast.Emphasis:
		openType, closeType, tag := token.EmOpen, token.EmClose, "em"
		if n.Level == 2 {
			openType, closeType, tag = token.StrongOpen, token.StrongClose, "strong"
		}
		m.pair(node, openType, closeType, tag)

	case *east.Strikethrough:
		m.pair(node, token.StrikeOpen, token.StrikeClose, "s")

	case *ast.CodeSpan:
		tok := token.New(token.CodeInline, "code", 0)
		tok.Content = m.codeText(n)
		tok.Markup = "`"
		m.emit(tok)

	case *ast.Link:
		open := token.New(token.LinkOpen, "a", 1)
		open.AttrSet("href", string(util.URLEscape(n.Destination, true)))
		if len(n.Title) > 0 {
			open.AttrSet("title", string(n.Title))
		}
		m.emit(open)
		m.mapChildren(n)
		m.emit(token.New(token.LinkClose, "a", -1))

	case *ast.Image:
		img := token.New(token.Image, "img", 0)
		img.AttrSet("src", string(util.URLEscape(n.Destination, true)))
		img.AttrSet("alt", "")
		if len(n.Title) > 0 {
			img.AttrSet("title", string(n.Title))
		}
		sub := &inlineMapper{source: m.source, out: []*token.Token{}}
		sub.mapChildren(n)
		img.Children = sub.out
		img.Content = plainText(sub.out)
		m.emit(img)

	case *ast.AutoLink:
		url := string(n.URL(m.source))
		if n.AutoLinkType == ast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		open := token.New(token.LinkOpen, "a", 1)
		open.AttrSet("href", string(util.URLEscape([]byte(url), false)))
		open.Markup = "autolink"
		m.emit(open)
		m.emit(token.NewText(string(n.Label(m.source))))
		m.emit(token.New(token.LinkClose, "a", -1))

	case *ast.RawHTML:
		var buf bytes.Buffer
		for i := range n.Segments.Len() {
			seg := n.Segments.At(i)
			buf.Write(seg.Value(m.source))
		}
		tok := token.New(token.HTMLInline, "", 0)
		tok.Content = buf.String()
		m.emit(tok)

	default:
		m.mapChildren(node)
	}
}

func (m *inlineMapper) mapText(n *ast.Text) {
	value := n.Segment.Value(m.source)
	if !n.IsRaw() {
		value = resolveText(value)
	}

	content := string(value)
	if n.SoftLineBreak() || n.HardLineBreak() {
		content = strings.TrimRight(content, " \t")
	}
	if content != "" {
		m.emit(token.NewText(content))
	}

	switch {
	case n.HardLineBreak():
		m.emit(token.New(token.Hardbreak, "br", 0))
	case n.SoftLineBreak():
		m.emit(token.New(token.Softbreak, "br", 0))
	}
}

func (m *inlineMapper) pair(node ast.Node, openType, closeType token.Type, tag string) {
	m.emit(token.New(openType, tag, 1))
	m.mapChildren(node)
	m.emit(token.New(closeType, tag, -1))
}

func (m *inlineMapper) codeText(span *ast.CodeSpan) string {
	var buf bytes.Buffer
	for child := span.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(m.source))
			if c.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(c.Value)
		}
	}
	return strings.ReplaceAll(buf.String(), "\n", " ")
}

func (m *inlineMapper) emit(tok *token.Token) {
	tok.Block = false
	m.out = append(m.out, tok)
}

// resolveText applies backslash escapes and character references.
func resolveText(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}

// plainText flattens child tokens the way alt text is rendered.
func plainText(children []*token.Token) string {
	var sb strings.Builder
	for _, child := range children {
		switch child.Type {
		case token.Text, token.CodeInline:
			sb.WriteString(child.Content)
		case token.Image:
			sb.WriteString(plainText(child.Children))
		case token.Softbreak, token.Hardbreak:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
