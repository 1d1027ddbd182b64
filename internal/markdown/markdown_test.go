package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTMLBasic(t *testing.T) {
	conv := New("github")

	html, err := conv.ToHTML([]byte("# Title\n\nSome **bold** text."))
	require.NoError(t, err)

	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "Title</h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestToHTMLHeadingAnchors(t *testing.T) {
	conv := New("github")

	html, err := conv.ToHTML([]byte("## Getting Started"))
	require.NoError(t, err)

	assert.Contains(t, html, `id="getting-started"`)
}

func TestToHTMLGFMTable(t *testing.T) {
	conv := New("github")

	html, err := conv.ToHTML([]byte("| a | b |\n|---|---|\n| 1 | 2 |"))
	require.NoError(t, err)

	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>1</td>")
}

func TestToHTMLRawHTMLPassthrough(t *testing.T) {
	conv := New("github")

	html, err := conv.ToHTML([]byte(`<div class="admonition">note</div>`))
	require.NoError(t, err)

	assert.Contains(t, html, `<div class="admonition">note</div>`)
}

func TestConverterHighlighting(t *testing.T) {
	conv := New("monokai")

	html, err := conv.ToHTML([]byte("```go\npackage main\n```"))
	require.NoError(t, err)

	// chroma emits inline-styled spans for fenced code blocks
	assert.Contains(t, html, "<pre")
	assert.Contains(t, html, "style=")
}

func TestConverterStylesDiffer(t *testing.T) {
	src := []byte("```go\npackage main\n```")

	github, err := New("github").ToHTML(src)
	require.NoError(t, err)
	monokai, err := New("monokai").ToHTML(src)
	require.NoError(t, err)

	assert.NotEqual(t, github, monokai)
}

func TestConverterDeterministic(t *testing.T) {
	conv := New("github")
	src := []byte("# Title\n\n- one\n- two\n")

	first, err := conv.ToHTML(src)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := conv.ToHTML(src)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
