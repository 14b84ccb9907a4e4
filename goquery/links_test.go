package goquery_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/goquery"
	"github.com/fwojciec/docver/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewriteLinks(t *testing.T) {
	t.Parallel()

	t.Run("marks external links", func(t *testing.T) {
		t.Parallel()

		out, err := goquery.RewriteLinks(`<p><a href="https://github.com/remix-run">GitHub</a></p>`)

		require.NoError(t, err)
		assert.Contains(t, out, `target="_blank"`)
		assert.Contains(t, out, `rel="noopener noreferrer"`)
		assert.NotContains(t, out, "<body>")
	})

	t.Run("marks protocol-relative links", func(t *testing.T) {
		t.Parallel()

		out, err := goquery.RewriteLinks(`<a href="//cdn.example.com/x">x</a>`)

		require.NoError(t, err)
		assert.Contains(t, out, `target="_blank"`)
	})

	t.Run("strips markdown extension from relative links", func(t *testing.T) {
		t.Parallel()

		out, err := goquery.RewriteLinks(`<a href="../guides/setup.md#install">Setup</a>`)

		require.NoError(t, err)
		assert.Contains(t, out, `href="../guides/setup#install"`)
		assert.NotContains(t, out, `target=`)
	})

	t.Run("leaves internal and non-http links alone", func(t *testing.T) {
		t.Parallel()

		in := `<a href="/docs/main/api">API</a><a href="mailto:team@example.com">Mail</a><a href="#top">Top</a>`
		out, err := goquery.RewriteLinks(in)

		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("returns empty input unchanged", func(t *testing.T) {
		t.Parallel()

		out, err := goquery.RewriteLinks("")

		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestLinkRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("rewrites wrapped renderer output", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Renderer{
			RenderFn: func(_ context.Context, doc *docver.RawDocument) (string, error) {
				return `<a href="https://example.com">` + doc.Path + `</a>`, nil
			},
		}

		out, err := goquery.NewLinkRenderer(inner).Render(context.Background(), &docver.RawDocument{Path: "intro"})

		require.NoError(t, err)
		assert.Contains(t, out, ">intro</a>")
		assert.Contains(t, out, `target="_blank"`)
	})

	t.Run("propagates renderer error", func(t *testing.T) {
		t.Parallel()

		inner := &mock.Renderer{
			RenderFn: func(context.Context, *docver.RawDocument) (string, error) {
				return "", errors.New("boom")
			},
		}

		_, err := goquery.NewLinkRenderer(inner).Render(context.Background(), &docver.RawDocument{})

		assert.EqualError(t, err, "boom")
	})
}
