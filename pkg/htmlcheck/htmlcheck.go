// Package htmlcheck inspects rendered HTML: element balance and CSS
// selector queries.
package htmlcheck

import (
	"fmt"
	"slices"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// IssueKind classifies a balance problem.
type IssueKind uint8

const (
	// Unclosed is a start tag without a matching end tag.
	Unclosed IssueKind = iota
	// Unexpected is an end tag with no open element of that name.
	Unexpected
)

// String returns the kind name.
func (k IssueKind) String() string {
	switch k {
	case Unclosed:
		return "unclosed"
	case Unexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("IssueKind(%d)", k)
	}
}

// Issue is one balance problem.
type Issue struct {
	Kind IssueKind
	Tag  string

	// Line is the 1-based line of the offending tag.
	Line int
}

func (i Issue) String() string {
	switch i.Kind {
	case Unclosed:
		return fmt.Sprintf("line %d: <%s> is never closed", i.Line, i.Tag)
	case Unexpected:
		return fmt.Sprintf("line %d: </%s> has no matching start tag", i.Line, i.Tag)
	default:
		return fmt.Sprintf("line %d: %s <%s>", i.Line, i.Kind, i.Tag)
	}
}

//nolint:gochecknoglobals // Static lookup table.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

type openTag struct {
	name string
	line int
}

// Balance reports start tags that are never closed and end tags that
// close nothing. Void elements and self-closing tags are ignored. An end
// tag that closes an element further down the stack reports every element
// above it as unclosed.
func Balance(src string) []Issue {
	var (
		issues []Issue
		stack  []openTag
		line   = 1
	)

	z := html.NewTokenizer(strings.NewReader(src))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		at := line
		line += strings.Count(string(z.Raw()), "\n")

		switch tt {
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if !voidElements[tag] {
				stack = append(stack, openTag{name: tag, line: at})
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if voidElements[tag] {
				continue
			}
			idx := lastOpen(stack, tag)
			if idx < 0 {
				issues = append(issues, Issue{Kind: Unexpected, Tag: tag, Line: at})
				continue
			}
			for _, o := range stack[idx+1:] {
				issues = append(issues, Issue{Kind: Unclosed, Tag: o.name, Line: o.line})
			}
			stack = stack[:idx]
		default:
		}
	}

	for _, o := range stack {
		issues = append(issues, Issue{Kind: Unclosed, Tag: o.name, Line: o.line})
	}
	slices.SortStableFunc(issues, func(a, b Issue) int { return a.Line - b.Line })
	return issues
}

func lastOpen(stack []openTag, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name == name {
			return i
		}
	}
	return -1
}

// Query parses src and returns the nodes matching the CSS selector, in
// document order.
func Query(src, selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", selector, err)
	}

	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return sel.MatchAll(doc), nil
}

// Count returns the number of nodes matching selector.
func Count(src, selector string) (int, error) {
	nodes, err := Query(src, selector)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// Attr returns the value of the attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
