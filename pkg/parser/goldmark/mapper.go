package goldmark

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/afmark/pkg/token"
)

// blockMapper flattens a goldmark block tree into a token list.
type blockMapper struct {
	content []byte
	lines   *lineIndex
	toks    []*token.Token
	level   int
}

func newBlockMapper(content []byte) *blockMapper {
	return &blockMapper{
		content: content,
		lines:   newLineIndex(content),
	}
}

// mapDocument emits the tokens for every child of the document node.
func (m *blockMapper) mapDocument(doc ast.Node) []*token.Token {
	m.mapChildren(doc)
	return m.toks
}

func (m *blockMapper) mapChildren(parent ast.Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		m.mapNode(child)
	}
}

// mapNode emits the tokens for one block node.
func (m *blockMapper) mapNode(node ast.Node) {
	switch n := node.(type) {
	case *ast.Heading:
		tag := "h" + strconv.Itoa(n.Level)
		m.open(token.HeadingOpen, tag, node, strings.Repeat("#", n.Level))
		m.inline(node)
		m.close(token.HeadingClose, tag)

	case *ast.Paragraph:
		m.paragraph(node, false)

	case *ast.TextBlock:
		m.paragraph(node, true)

	case *ast.Blockquote:
		m.open(token.BlockquoteOpen, "blockquote", node, ">")
		m.mapChildren(node)
		m.close(token.BlockquoteClose, "blockquote")

	case *ast.List:
		m.mapList(n)

	case *ast.ListItem:
		m.open(token.ListItemOpen, "li", node, "")
		m.mapChildren(node)
		m.close(token.ListItemClose, "li")

	case *ast.FencedCodeBlock:
		tok := m.leaf(token.Fence, "code", node)
		if n.Info != nil {
			tok.Info = string(n.Info.Segment.Value(m.content))
		}
		tok.Markup = "```"
		tok.Content = m.linesText(node.Lines())

	case *ast.CodeBlock:
		tok := m.leaf(token.CodeBlock, "code", node)
		tok.Content = m.linesText(node.Lines())

	case *ast.ThematicBreak:
		m.leaf(token.HR, "hr", node)

	case *ast.HTMLBlock:
		tok := m.leaf(token.HTMLBlock, "", node)
		var buf bytes.Buffer
		buf.WriteString(m.linesText(node.Lines()))
		if n.HasClosure() {
			buf.Write(n.ClosureLine.Value(m.content))
		}
		tok.Content = buf.String()

	case *east.Table:
		m.mapTable(n)

	default:
		// Unknown block containers still contribute their children.
		if node.Type() == ast.TypeBlock {
			m.mapChildren(node)
		}
	}
}

func (m *blockMapper) paragraph(node ast.Node, hidden bool) {
	open := m.open(token.ParagraphOpen, "p", node, "")
	open.Hidden = hidden
	m.inline(node)
	closeTok := m.close(token.ParagraphClose, "p")
	closeTok.Hidden = hidden
}

func (m *blockMapper) mapList(list *ast.List) {
	openType, closeType, tag := token.BulletListOpen, token.BulletListClose, "ul"
	if list.IsOrdered() {
		openType, closeType, tag = token.OrderedListOpen, token.OrderedListClose, "ol"
	}

	open := m.open(openType, tag, list, string(list.Marker))
	if list.IsOrdered() && list.Start != 1 {
		open.AttrSet("start", strconv.Itoa(list.Start))
	}

	// Tight lists hold TextBlock children, emitted as hidden paragraphs.
	m.mapChildren(list)

	m.close(closeType, tag)
}

func (m *blockMapper) mapTable(table *east.Table) {
	m.open(token.TableOpen, "table", table, "")

	var bodyOpen bool
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		switch row.(type) {
		case *east.TableHeader:
			m.open(token.TheadOpen, "thead", row, "")
			m.tableRow(row, token.ThOpen, token.ThClose, "th")
			m.close(token.TheadClose, "thead")
		case *east.TableRow:
			if !bodyOpen {
				m.open(token.TbodyOpen, "tbody", row, "")
				bodyOpen = true
			}
			m.tableRow(row, token.TdOpen, token.TdClose, "td")
		}
	}
	if bodyOpen {
		m.close(token.TbodyClose, "tbody")
	}

	m.close(token.TableClose, "table")
}

func (m *blockMapper) tableRow(row ast.Node, openType, closeType token.Type, tag string) {
	m.open(token.TrOpen, "tr", row, "")
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		open := m.open(openType, tag, cell, "")
		if tc, ok := cell.(*east.TableCell); ok && tc.Alignment != east.AlignNone {
			open.AttrSet("style", "text-align:"+tc.Alignment.String())
		}
		m.inline(cell)
		m.close(closeType, tag)
	}
	m.close(token.TrClose, "tr")
}

// inline emits the inline token carrying the raw text of a leaf block.
func (m *blockMapper) inline(node ast.Node) {
	tok := token.New(token.Inline, "", 0)
	tok.Level = m.level
	tok.Map = m.lines.blockMap(node)
	tok.Content = strings.TrimSpace(m.rawText(node))
	m.toks = append(m.toks, tok)
}

// rawText returns the unparsed source of a leaf block. Table cells that
// carry no lines fall back to the text of their inline children.
func (m *blockMapper) rawText(node ast.Node) string {
	if lines := node.Lines(); lines != nil && lines.Len() > 0 {
		return m.linesText(lines)
	}
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		writeInlineSource(&buf, child, m.content)
	}
	return buf.String()
}

func (m *blockMapper) linesText(lines *text.Segments) string {
	var buf bytes.Buffer
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(m.content))
	}
	return buf.String()
}

func (m *blockMapper) open(typ token.Type, tag string, node ast.Node, markup string) *token.Token {
	tok := token.New(typ, tag, 1)
	tok.Level = m.level
	tok.Markup = markup
	tok.Map = m.lines.blockMap(node)
	m.level++
	m.toks = append(m.toks, tok)
	return tok
}

func (m *blockMapper) close(typ token.Type, tag string) *token.Token {
	m.level--
	tok := token.New(typ, tag, -1)
	tok.Level = m.level
	m.toks = append(m.toks, tok)
	return tok
}

func (m *blockMapper) leaf(typ token.Type, tag string, node ast.Node) *token.Token {
	tok := token.New(typ, tag, 0)
	tok.Level = m.level
	tok.Map = m.lines.blockMap(node)
	m.toks = append(m.toks, tok)
	return tok
}

// writeInlineSource appends the source text beneath an inline node.
func writeInlineSource(buf *bytes.Buffer, node ast.Node, source []byte) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			buf.WriteByte('\n')
		}
		return
	case *ast.String:
		buf.Write(n.Value)
		return
	}
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		writeInlineSource(buf, child, source)
	}
}
