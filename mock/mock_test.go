package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentSource_DelegatesToFns(t *testing.T) {
	t.Parallel()

	var gotVersion, gotPath string
	src := &mock.ContentSource{
		GetDocumentFn: func(_ context.Context, version, path string) (*docver.RawDocument, error) {
			gotVersion, gotPath = version, path
			return &docver.RawDocument{Path: path, Content: "# Setup"}, nil
		},
		ListDirectoryFn: func(_ context.Context, _, path string) ([]docver.Entry, error) {
			return []docver.Entry{{Name: "setup", Path: path + "/setup"}}, nil
		},
	}

	doc, err := src.GetDocument(context.Background(), "v1", "guides/setup")
	require.NoError(t, err)
	assert.Equal(t, "v1", gotVersion)
	assert.Equal(t, "guides/setup", gotPath)
	assert.Equal(t, "# Setup", doc.Content)

	entries, err := src.ListDirectory(context.Background(), "v1", "guides")
	require.NoError(t, err)
	assert.Equal(t, []docver.Entry{{Name: "setup", Path: "guides/setup"}}, entries)
}

func TestResolver_DelegatesToFns(t *testing.T) {
	t.Parallel()

	v := docver.VersionHead{Version: "v1", Head: "v1"}
	r := &mock.Resolver{
		ResolveDocFn: func(context.Context, string, string) *docver.DocResult {
			return docver.NotFoundDoc(v)
		},
	}

	res := r.ResolveDoc(context.Background(), "v1", "missing")

	assert.Equal(t, docver.StatusNotFound, res.Status)
	assert.Equal(t, v, res.Version)
}

func TestRefresher_DelegatesToFn(t *testing.T) {
	t.Parallel()

	called := false
	r := &mock.Refresher{RefreshFn: func(context.Context) error {
		called = true
		return nil
	}}

	require.NoError(t, r.Refresh(context.Background()))
	assert.True(t, called)
}
