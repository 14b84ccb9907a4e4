package mock

import (
	"context"

	"github.com/fwojciec/docver"
)

var _ docver.ContentSource = (*ContentSource)(nil)

// ContentSource is a mock implementation of docver.ContentSource.
type ContentSource struct {
	ListVersionsFn  func(ctx context.Context) ([]docver.VersionHead, error)
	GetDocumentFn   func(ctx context.Context, version, path string) (*docver.RawDocument, error)
	ListDirectoryFn func(ctx context.Context, version, path string) ([]docver.Entry, error)
}

func (s *ContentSource) ListVersions(ctx context.Context) ([]docver.VersionHead, error) {
	return s.ListVersionsFn(ctx)
}

func (s *ContentSource) GetDocument(ctx context.Context, version, path string) (*docver.RawDocument, error) {
	return s.GetDocumentFn(ctx, version, path)
}

func (s *ContentSource) ListDirectory(ctx context.Context, version, path string) ([]docver.Entry, error) {
	return s.ListDirectoryFn(ctx, version, path)
}
