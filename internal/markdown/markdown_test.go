package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convert(t *testing.T, opts Options, src string) string {
	t.Helper()
	c, err := NewConverter(opts)
	require.NoError(t, err)
	out, err := c.Convert([]byte(src))
	require.NoError(t, err)
	return string(out)
}

func TestConvert_CoreSyntax(t *testing.T) {
	src := strings.Join([]string{
		"# 味噌",
		"",
		"A *rich* and **thick** bowl with a [map](https://example.com/map).",
		"",
		"![bowl](./bowl.jpg)",
		"",
		"- noodles",
		"- chashu",
		"",
		"1. order",
		"2. eat",
		"",
		"Use `kaedama` when needed.",
		"",
		"```",
		"slurp()",
		"```",
		"",
		"> best in winter",
		"",
	}, "\n")

	html := convert(t, Options{}, src)

	for _, want := range []string{
		"<h1>味噌</h1>",
		"<em>rich</em>",
		"<strong>thick</strong>",
		`<a href="https://example.com/map">map</a>`,
		`<img src="./bowl.jpg" alt="bowl">`,
		"<ul>\n<li>noodles</li>",
		"<ol>\n<li>order</li>",
		"<code>kaedama</code>",
		"<pre><code>slurp()\n</code></pre>",
		"<blockquote>\n<p>best in winter</p>\n</blockquote>",
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "<html")
	assert.NotContains(t, html, "<body")
}

func TestConvert_RawHTML(t *testing.T) {
	src := "<div class=\"map\">here</div>\n"

	assert.Contains(t, convert(t, Options{UnsafeHTML: true}, src), `<div class="map">here</div>`)
	assert.NotContains(t, convert(t, Options{}, src), `<div class="map">`)
}

func TestConvert_Extensions(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n"

	assert.NotContains(t, convert(t, Options{}, src), "<table>")
	assert.Contains(t, convert(t, Options{Extensions: []string{"table"}}, src), "<table>")
	assert.Contains(t, convert(t, Options{Extensions: []string{" GFM ", "gfm"}}, src), "<table>")
}

func TestNewConverter_UnknownExtension(t *testing.T) {
	_, err := NewConverter(Options{Extensions: []string{"mermaid"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mermaid")
}

func TestConvert_Deterministic(t *testing.T) {
	c, err := NewConverter(Options{UnsafeHTML: true})
	require.NoError(t, err)
	src := []byte("## Title\n\nSome *text*.\n")

	first, err := c.Convert(src)
	require.NoError(t, err)
	second, err := c.Convert(src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
