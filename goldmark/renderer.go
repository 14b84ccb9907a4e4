// Package goldmark renders markdown documents to HTML using goldmark.
package goldmark

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fwojciec/docver"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Ensure Renderer implements docver.Renderer at compile time.
var _ docver.Renderer = (*Renderer)(nil)

// Renderer converts markdown documents to HTML.
type Renderer struct {
	md     goldmark.Markdown
	unsafe bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithUnsafe allows raw HTML embedded in markdown to pass through.
// Only enable it for trusted content.
func WithUnsafe() Option {
	return func(r *Renderer) {
		r.unsafe = true
	}
}

// NewRenderer creates a Renderer with GitHub flavored markdown and
// generated heading IDs.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}

	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if r.unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	r.md = goldmark.New(rendererOpts...)
	return r
}

// Render converts the document body to HTML.
func (r *Renderer) Render(ctx context.Context, doc *docver.RawDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if doc == nil {
		return "", docver.Errorf(docver.EINVALID, "document required")
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(doc.Content), &buf); err != nil {
		return "", fmt.Errorf("render %s: %w", doc.Path, err)
	}
	return buf.String(), nil
}
