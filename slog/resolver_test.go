package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/mock"
	docslog "github.com/fwojciec/docver/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingResolver(t *testing.T) {
	t.Parallel()

	v := docver.VersionHead{Version: "v1.0.0", Head: "v1"}
	inner := &mock.Resolver{
		ResolveDocFn: func(context.Context, string, string) *docver.DocResult {
			return &docver.DocResult{Status: docver.StatusFound, Version: v, Known: true}
		},
		ResolveMenuFn: func(context.Context, string) *docver.MenuResult {
			return docver.NotFoundMenu(v)
		},
		VersionsFn: func(context.Context) ([]docver.VersionHead, error) {
			return []docver.VersionHead{v}, nil
		},
	}

	t.Run("logs doc resolution", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := docslog.NewLoggingResolver(inner, slog.New(slog.NewTextHandler(&buf, nil)))

		res := r.ResolveDoc(context.Background(), "v1", "guides/")

		assert.Equal(t, docver.StatusFound, res.Status)
		output := buf.String()
		assert.Contains(t, output, "resolve doc")
		assert.Contains(t, output, "hint=v1")
		assert.Contains(t, output, "path=guides/")
		assert.Contains(t, output, "version=v1.0.0")
		assert.Contains(t, output, "known=true")
		assert.Contains(t, output, "status=found")
	})

	t.Run("logs menu resolution", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := docslog.NewLoggingResolver(inner, slog.New(slog.NewTextHandler(&buf, nil)))

		res := r.ResolveMenu(context.Background(), "v1")

		assert.Equal(t, docver.StatusNotFound, res.Status)
		assert.Contains(t, buf.String(), "status=not_found")
	})

	t.Run("logs versions at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := docslog.NewLoggingResolver(inner, debugLogger(&buf))

		versions, err := r.Versions(context.Background())

		require.NoError(t, err)
		assert.Len(t, versions, 1)
		assert.Contains(t, buf.String(), "count=1")
	})
}
