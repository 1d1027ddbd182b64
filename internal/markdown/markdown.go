// Package markdown converts Markdown source text into HTML using
// goldmark, configured for documentation content: GitHub-Flavored
// Markdown, smart punctuation, auto-generated heading anchors, and
// syntax-highlighted fenced code blocks.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter wraps a configured goldmark instance. It is safe for
// concurrent use; goldmark converters are stateless after construction.
type Converter struct {
	md goldmark.Markdown
}

// New creates a Converter using the given chroma highlight style for
// fenced code blocks.
func New(highlightStyle string) *Converter {
	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,         // tables, strikethrough, autolinks, task lists
				extension.Typographer, // smart quotes and dashes
				highlighting.NewHighlighting(
					highlighting.WithStyle(highlightStyle),
				),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(), // heading IDs for sidebar anchors
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(), // docs pages may embed raw HTML (admonitions, iframes)
			),
		),
	}
}

// ToHTML converts Markdown source into HTML.
func (c *Converter) ToHTML(source []byte) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(source, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
