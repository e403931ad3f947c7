package goldmark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/afmark/pkg/token"
)

func types(toks []*token.Token) []token.Type {
	out := make([]token.Type, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Type)
	}
	return out
}

func TestParser_New(t *testing.T) {
	tests := []struct {
		name       string
		flavor     string
		wantFlavor string
	}{
		{"afm", FlavorAFM, FlavorAFM},
		{"commonmark", FlavorCommonMark, FlavorCommonMark},
		{"invalid defaults to afm", "invalid", FlavorAFM},
		{"empty defaults to afm", "", FlavorAFM},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFlavor, New(tt.flavor).Flavor())
		})
	}
}

func TestParser_Parse_BlockTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Type
	}{
		{
			name:  "heading and paragraph",
			input: "# Hello\n\nWorld\n",
			want: []token.Type{
				token.HeadingOpen, token.Inline, token.HeadingClose,
				token.ParagraphOpen, token.Inline, token.ParagraphClose,
			},
		},
		{
			name:  "blockquote with two paragraphs",
			input: "> [!NOTE]\n>\n> body\n",
			want: []token.Type{
				token.BlockquoteOpen,
				token.ParagraphOpen, token.Inline, token.ParagraphClose,
				token.ParagraphOpen, token.Inline, token.ParagraphClose,
				token.BlockquoteClose,
			},
		},
		{
			name:  "fence",
			input: "```go\nx := 1\n```\n",
			want:  []token.Type{token.Fence},
		},
		{
			name:  "thematic break and html",
			input: "---\n\n<div>x</div>\n",
			want:  []token.Type{token.HR, token.HTMLBlock},
		},
		{
			name:  "table",
			input: "| a | b |\n|---|:-:|\n| 1 | 2 |\n",
			want: []token.Type{
				token.TableOpen,
				token.TheadOpen, token.TrOpen,
				token.ThOpen, token.Inline, token.ThClose,
				token.ThOpen, token.Inline, token.ThClose,
				token.TrClose, token.TheadClose,
				token.TbodyOpen, token.TrOpen,
				token.TdOpen, token.Inline, token.TdClose,
				token.TdOpen, token.Inline, token.TdClose,
				token.TrClose, token.TbodyClose,
				token.TableClose,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := New(FlavorAFM).Parse(context.Background(), []byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, types(doc.Tokens.Tokens()))
		})
	}
}

func TestParser_Parse_InlineContent(t *testing.T) {
	doc, err := New(FlavorAFM).Parse(context.Background(), []byte("> [!NOTE]\n> first line\n> second *line*\n"))
	require.NoError(t, err)

	inline := doc.Tokens.At(2)
	require.Equal(t, token.Inline, inline.Type)
	assert.Equal(t, "[!NOTE]\nfirst line\nsecond *line*", inline.Content)
	assert.NotNil(t, inline.Children)
	assert.Empty(t, inline.Children)
}

func TestParser_Parse_Fence(t *testing.T) {
	doc, err := New(FlavorAFM).Parse(context.Background(), []byte("```javascript\nconsole.log(1);\n```\n"))
	require.NoError(t, err)

	fence := doc.Tokens.At(0)
	assert.Equal(t, "javascript", fence.Info)
	assert.Equal(t, "console.log(1);\n", fence.Content)
}

func TestParser_Parse_TightListHidden(t *testing.T) {
	doc, err := New(FlavorAFM).Parse(context.Background(), []byte("- a\n- b\n"))
	require.NoError(t, err)

	toks := doc.Tokens.Tokens()
	require.Equal(t, token.BulletListOpen, toks[0].Type)
	require.Equal(t, token.ParagraphOpen, toks[2].Type)
	assert.True(t, toks[2].Hidden)
	assert.True(t, toks[4].Hidden)
}

func TestParser_Parse_HeadingLevelsAndMap(t *testing.T) {
	doc, err := New(FlavorAFM).Parse(context.Background(), []byte("intro\n\n## Title {#anchor}\n"))
	require.NoError(t, err)

	heading := doc.Tokens.At(3)
	require.Equal(t, token.HeadingOpen, heading.Type)
	assert.Equal(t, "h2", heading.Tag)
	require.NotNil(t, heading.Map)
	assert.Equal(t, [2]int{2, 3}, *heading.Map)
	assert.Equal(t, "Title {#anchor}", doc.Tokens.At(4).Content)
}

func TestParser_Parse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(FlavorAFM).Parse(ctx, []byte("x"))
	require.Error(t, err)
}

func TestParser_ParseInline(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []token.Type
	}{
		{
			name:    "emphasis",
			content: "a *b* **c**",
			want: []token.Type{
				token.Text, token.EmOpen, token.Text, token.EmClose, token.Text,
				token.StrongOpen, token.Text, token.StrongClose,
			},
		},
		{
			name:    "link",
			content: "[Link](http://example.com)",
			want:    []token.Type{token.LinkOpen, token.Text, token.LinkClose},
		},
		{
			name:    "image then attribute text",
			content: "![alt](a.png){width=100}",
			want:    []token.Type{token.Image, token.Text},
		},
		{
			name:    "softbreak",
			content: "one\ntwo",
			want:    []token.Type{token.Text, token.Softbreak, token.Text},
		},
		{
			name:    "raw html",
			content: "<span>x</span>",
			want:    []token.Type{token.HTMLInline, token.Text, token.HTMLInline},
		},
		{
			name:    "code and strike",
			content: "`x` ~~y~~",
			want:    []token.Type{token.CodeInline, token.Text, token.StrikeOpen, token.Text, token.StrikeClose},
		},
		{
			name:    "empty",
			content: "",
			want:    []token.Type{},
		},
	}

	p := New(FlavorAFM)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := token.NewInline(tt.content)
			p.ParseInline(nil, tok)
			assert.Equal(t, tt.want, types(tok.Children))
		})
	}
}

func TestParser_ParseInline_ResolvesEscapes(t *testing.T) {
	tok := token.NewInline(`\*not emphasis\* &amp; more`)
	New(FlavorAFM).ParseInline(nil, tok)

	var got string
	for _, child := range tok.Children {
		require.Equal(t, token.Text, child.Type)
		got += child.Content
	}
	assert.Equal(t, "*not emphasis* & more", got)
}

func TestParser_ParseInline_UsesDocumentReferences(t *testing.T) {
	p := New(FlavorAFM)
	doc, err := p.Parse(context.Background(), []byte("See [docs][d].\n\n[d]: https://example.com/docs\n"))
	require.NoError(t, err)
	require.NoError(t, p.ParseAllInline(context.Background(), doc))

	inline := doc.Tokens.At(1)
	require.Equal(t, token.LinkOpen, inline.Children[1].Type)
	href, _ := inline.Children[1].AttrGet("href")
	assert.Equal(t, "https://example.com/docs", href)
}

func TestParser_ParseInline_PrepopulatedChildren(t *testing.T) {
	open := token.New(token.LinkOpen, "a", 1)
	open.AttrSet("href", "x")

	tok := token.NewInline("ignored")
	tok.Children = []*token.Token{
		token.NewText("before *em* "),
		open,
		token.NewText("label"),
		token.New(token.LinkClose, "a", -1),
	}

	New(FlavorAFM).ParseInline(nil, tok)

	assert.Equal(t, []token.Type{
		token.Text, token.EmOpen, token.Text, token.EmClose, token.Text,
		token.LinkOpen, token.Text, token.LinkClose,
	}, types(tok.Children))
	assert.Same(t, open, tok.Children[5])
}
