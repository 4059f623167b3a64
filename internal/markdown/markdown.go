// Package markdown converts document bodies into embeddable HTML fragments.
package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options controls the goldmark engine.
type Options struct {
	// Extensions enables optional syntax by name; the CommonMark core is always on.
	Extensions []string
	// UnsafeHTML passes raw HTML blocks and inline HTML through to the output.
	UnsafeHTML bool
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"footnote":      extension.Footnote,
	"definition":    extension.DefinitionList,
}

// KnownExtensions lists the extension names accepted in Options.
func KnownExtensions() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Converter renders markdown with a single configured goldmark instance.
// goldmark.Markdown is safe for concurrent use, so one Converter serves all workers.
type Converter struct {
	md goldmark.Markdown
}

// NewConverter builds a Converter. Unknown extension names are an error so a
// typo in configuration does not silently change the output.
func NewConverter(opts Options) (*Converter, error) {
	var exts []goldmark.Extender
	seen := map[string]struct{}{}
	for _, name := range opts.Extensions {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			return nil, fmt.Errorf("unknown markdown extension %q (known: %s)", name, strings.Join(KnownExtensions(), ", "))
		}
		seen[key] = struct{}{}
		exts = append(exts, ext)
	}

	var rendererOptions []renderer.Option
	if opts.UnsafeHTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(exts...),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}, nil
}

// Convert renders body to an HTML fragment.
func (c *Converter) Convert(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	return buf.Bytes(), nil
}
