// Package markdown wraps goldmark for the few AST queries and HTML previews llmdocs needs.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
)

// renderer is safe for concurrent use; raw HTML is omitted from output.
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// ParseBody parses a Markdown body (frontmatter already removed) into a goldmark AST.
func ParseBody(body []byte) gmast.Node {
	return renderer.Parser().Parse(text.NewReader(body))
}

// Heading is an ATX or setext heading found in a document.
type Heading struct {
	Level int
	Text  string
}

// Headings returns every heading in document order.
func Headings(body []byte) []Heading {
	root := ParseBody(body)
	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			out = append(out, Heading{Level: h.Level, Text: nodeText(h, body)})
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return out
}

// FirstHeading returns the text of the first level-1 heading, or "".
func FirstHeading(body []byte) string {
	for _, h := range Headings(body) {
		if h.Level == 1 && h.Text != "" {
			return h.Text
		}
	}
	return ""
}

// Render converts a Markdown body to HTML using GitHub Flavored Markdown.
func Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderer.Convert(body, &buf); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryRender, "failed to render markdown").Build()
	}
	return buf.Bytes(), nil
}

// nodeText concatenates the inline text below n.
func nodeText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
