// Package markdown renders project Markdown, including the site's custom
// block syntax (toggles, columns, callouts), into HTML.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// engine is stateless and safe for reuse across calls. Raw HTML must pass
// through unmodified: block wrappers and historical inline <img> tags are
// part of the content.
var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// ToHTML converts plain Markdown to HTML without block preprocessing.
func ToHTML(src string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return buf.String(), nil
}

// Render parses the custom block syntax and converts everything to HTML.
// This is the entry point the page assembler uses for project bodies.
func Render(src string) (string, error) {
	var b strings.Builder
	for _, blk := range Parse(src) {
		if err := renderBlock(&b, blk); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// Component wraps Render as a templ.Component for direct use in views.
func Component(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out, err := Render(src)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	})
}
