package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements docver.Converter at compile time.
var _ docver.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_ConvertDocument(t *testing.T) {
	t.Parallel()

	t.Run("lifts title and description from head", func(t *testing.T) {
		t.Parallel()

		page := `<html><head>
<title>Data Loading</title>
<meta name="description" content="How loaders work">
<meta name="sidebar" content="guides">
</head><body><h1>Loaders</h1><p>Hello, world!</p></body></html>`

		conv := htmltomarkdown.NewConverter()
		doc, err := conv.ConvertDocument("guides/data", []byte(page))

		require.NoError(t, err)
		assert.Equal(t, "guides/data", doc.Path)
		assert.Equal(t, "Data Loading", doc.Attributes.Title)
		assert.Equal(t, "How loaders work", doc.Attributes.Description)
		assert.Equal(t, "guides", doc.Attributes.Extra["sidebar"])
		assert.Contains(t, doc.Content, "# Loaders")
		assert.Contains(t, doc.Content, "Hello, world!")
		assert.NotContains(t, doc.Content, "Data Loading")
	})

	t.Run("converts a bare fragment", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		doc, err := conv.ConvertDocument("a", []byte(`<p>Visit <a href="https://example.com">Example</a> for more info.</p>`))

		require.NoError(t, err)
		assert.Empty(t, doc.Attributes.Title)
		assert.Contains(t, doc.Content, "[Example](https://example.com)")
	})

	t.Run("converts lists", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		doc, err := conv.ConvertDocument("a", []byte(`<ul><li>First</li><li>Second</li></ul>`))

		require.NoError(t, err)
		assert.Contains(t, doc.Content, "- First")
		assert.Contains(t, doc.Content, "- Second")
	})

	t.Run("converts tables", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		doc, err := conv.ConvertDocument("a", []byte(`<table><thead><tr><th>Hook</th></tr></thead><tbody><tr><td>useLoaderData</td></tr></tbody></table>`))

		require.NoError(t, err)
		assert.Contains(t, doc.Content, "| Hook")
		assert.Contains(t, doc.Content, "useLoaderData")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		conv := htmltomarkdown.NewConverter()
		_, err := conv.ConvertDocument("a", []byte("   "))

		assert.Equal(t, docver.EINVALID, docver.ErrorCode(err))
	})
}
