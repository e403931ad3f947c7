// Package token provides the flat token model shared by the parser, the
// transform passes, and the HTML renderer.
//
// A document is an ordered list of block tokens. Paragraph, heading and
// table cell text is carried by Inline tokens, whose Children hold the
// inline-level tokens once inline parsing has run.
package token

// Type classifies a token.
type Type uint8

// Token types. Open/close pairs nest; everything else is self-contained.
const (
	TypeInvalid Type = iota

	// Block-level tokens.
	BlockquoteOpen
	BlockquoteClose
	ParagraphOpen
	ParagraphClose
	HeadingOpen
	HeadingClose
	BulletListOpen
	BulletListClose
	OrderedListOpen
	OrderedListClose
	ListItemOpen
	ListItemClose
	TableOpen
	TableClose
	TheadOpen
	TheadClose
	TbodyOpen
	TbodyClose
	TrOpen
	TrClose
	ThOpen
	ThClose
	TdOpen
	TdClose
	ContainerOpen
	ContainerClose
	Inline
	Fence
	CodeBlock
	HTMLBlock
	HR

	// Inline-level tokens, found in Inline.Children.
	Text
	Softbreak
	Hardbreak
	CodeInline
	HTMLInline
	Image
	LinkOpen
	LinkClose
	EmOpen
	EmClose
	StrongOpen
	StrongClose
	StrikeOpen
	StrikeClose
)

//nolint:gochecknoglobals // Read-only lookup table.
var typeNames = [...]string{
	TypeInvalid:      "invalid",
	BlockquoteOpen:   "blockquote_open",
	BlockquoteClose:  "blockquote_close",
	ParagraphOpen:    "paragraph_open",
	ParagraphClose:   "paragraph_close",
	HeadingOpen:      "heading_open",
	HeadingClose:     "heading_close",
	BulletListOpen:   "bullet_list_open",
	BulletListClose:  "bullet_list_close",
	OrderedListOpen:  "ordered_list_open",
	OrderedListClose: "ordered_list_close",
	ListItemOpen:     "list_item_open",
	ListItemClose:    "list_item_close",
	TableOpen:        "table_open",
	TableClose:       "table_close",
	TheadOpen:        "thead_open",
	TheadClose:       "thead_close",
	TbodyOpen:        "tbody_open",
	TbodyClose:       "tbody_close",
	TrOpen:           "tr_open",
	TrClose:          "tr_close",
	ThOpen:           "th_open",
	ThClose:          "th_close",
	TdOpen:           "td_open",
	TdClose:          "td_close",
	ContainerOpen:    "container_open",
	ContainerClose:   "container_close",
	Inline:           "inline",
	Fence:            "fence",
	CodeBlock:        "code_block",
	HTMLBlock:        "html_block",
	HR:               "hr",
	Text:             "text",
	Softbreak:        "softbreak",
	Hardbreak:        "hardbreak",
	CodeInline:       "code_inline",
	HTMLInline:       "html_inline",
	Image:            "image",
	LinkOpen:         "link_open",
	LinkClose:        "link_close",
	EmOpen:           "em_open",
	EmClose:          "em_close",
	StrongOpen:       "strong_open",
	StrongClose:      "strong_close",
	StrikeOpen:       "s_open",
	StrikeClose:      "s_close",
}

// String returns the conventional snake_case name of the type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// IsBlock reports whether tokens of this type live in the top-level list.
func (t Type) IsBlock() bool {
	return t >= BlockquoteOpen && t <= HR
}

// Token is one element of the token list.
type Token struct {
	// Type is the token's variant.
	Type Type

	// Tag is the HTML element name used when rendering. Passes rewrite it.
	Tag string

	// Attrs are the element attributes, keys unique, in render order.
	Attrs Attrs

	// Map is the half-open source line range [start, end), if known.
	Map *[2]int

	// Nesting is +1 for open tokens, -1 for close tokens, 0 otherwise.
	Nesting int

	// Level is the nesting depth at which the token appears.
	Level int

	// Content is the raw payload of inline, text, code and html tokens.
	Content string

	// Info is the fence info string.
	Info string

	// Markup is the source marker, e.g. "```" or "*".
	Markup string

	// Children are the inline tokens of an Inline token. Never nil.
	Children []*Token

	// Block is true for block-level tokens.
	Block bool

	// Hidden tokens are skipped by the renderer (tight list paragraphs).
	Hidden bool
}

// New creates a token of the given type with an empty, non-nil child list.
func New(typ Type, tag string, nesting int) *Token {
	return &Token{
		Type:     typ,
		Tag:      tag,
		Nesting:  nesting,
		Block:    typ.IsBlock(),
		Children: []*Token{},
	}
}

// NewHTMLBlock creates an html_block token emitted verbatim.
func NewHTMLBlock(content string) *Token {
	tok := New(HTMLBlock, "", 0)
	tok.Content = content
	return tok
}

// NewInline creates an inline token holding unparsed text.
func NewInline(content string) *Token {
	tok := New(Inline, "", 0)
	tok.Content = content
	return tok
}

// NewText creates a text child token.
func NewText(content string) *Token {
	tok := New(Text, "", 0)
	tok.Content = content
	return tok
}

// IsOpen reports whether the token opens a pair.
func (t *Token) IsOpen() bool { return t.Nesting == 1 }

// IsClose reports whether the token closes a pair.
func (t *Token) IsClose() bool { return t.Nesting == -1 }

// Is reports whether the token is non-nil and of the given type.
func (t *Token) Is(typ Type) bool {
	return t != nil && t.Type == typ
}

// AttrSet sets an attribute, replacing an existing value.
func (t *Token) AttrSet(key, value string) {
	t.Attrs.Set(key, value)
}

// AttrGet returns an attribute value and whether it was present.
func (t *Token) AttrGet(key string) (string, bool) {
	return t.Attrs.Get(key)
}

// SetChildren replaces the child list, normalising nil to empty.
func (t *Token) SetChildren(children []*Token) {
	if children == nil {
		children = []*Token{}
	}
	t.Children = children
}

// Clone returns a deep copy of the token and its children.
func (t *Token) Clone() *Token {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Attrs = t.Attrs.Clone()
	if t.Map != nil {
		m := *t.Map
		cp.Map = &m
	}
	cp.Children = make([]*Token, len(t.Children))
	for i, child := range t.Children {
		cp.Children[i] = child.Clone()
	}
	return &cp
}
