package goldmark_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/goldmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("renders headings with ids", func(t *testing.T) {
		t.Parallel()

		r := goldmark.NewRenderer()
		html, err := r.Render(context.Background(), &docver.RawDocument{Path: "a", Content: "# Getting Started\n\nHello."})

		require.NoError(t, err)
		assert.Contains(t, html, `<h1 id="getting-started">Getting Started</h1>`)
		assert.Contains(t, html, "<p>Hello.</p>")
	})

	t.Run("renders GFM tables", func(t *testing.T) {
		t.Parallel()

		r := goldmark.NewRenderer()
		html, err := r.Render(context.Background(), &docver.RawDocument{Content: "| a | b |\n|---|---|\n| 1 | 2 |\n"})

		require.NoError(t, err)
		assert.Contains(t, html, "<table>")
		assert.Contains(t, html, "<td>1</td>")
	})

	t.Run("omits raw HTML by default", func(t *testing.T) {
		t.Parallel()

		r := goldmark.NewRenderer()
		html, err := r.Render(context.Background(), &docver.RawDocument{Content: "<div class=\"note\">x</div>\n"})

		require.NoError(t, err)
		assert.NotContains(t, html, `<div class="note">`)
	})

	t.Run("passes raw HTML when unsafe", func(t *testing.T) {
		t.Parallel()

		r := goldmark.NewRenderer(goldmark.WithUnsafe())
		html, err := r.Render(context.Background(), &docver.RawDocument{Content: "<div class=\"note\">x</div>\n"})

		require.NoError(t, err)
		assert.Contains(t, html, `<div class="note">x</div>`)
	})

	t.Run("rejects nil document", func(t *testing.T) {
		t.Parallel()

		r := goldmark.NewRenderer()
		_, err := r.Render(context.Background(), nil)

		assert.Equal(t, docver.EINVALID, docver.ErrorCode(err))
	})

	t.Run("honors cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := goldmark.NewRenderer()
		_, err := r.Render(ctx, &docver.RawDocument{Content: "x"})

		assert.ErrorIs(t, err, context.Canceled)
	})
}
