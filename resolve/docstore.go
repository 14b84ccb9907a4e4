package resolve

import (
	"context"
	"fmt"

	"github.com/fwojciec/docver"
)

// DocStore loads and renders documents.
type DocStore struct {
	Source   docver.ContentSource
	Renderer docver.Renderer
}

// GetDoc returns the rendered document stored under path for the version.
// A missing document is reported as (nil, nil).
func (s *DocStore) GetDoc(ctx context.Context, path, version string) (*docver.Doc, error) {
	raw, err := s.Source.GetDocument(ctx, version, path)
	if docver.ErrorCode(err) == docver.ENOTFOUND {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("get document %s@%s: %w", path, version, err)
	}

	html, err := s.Renderer.Render(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("render %s@%s: %w", path, version, err)
	}

	attrs := raw.Attributes
	if attrs.Title == "" {
		attrs.Title = TitleFromPath(path)
	}

	return &docver.Doc{
		Path:        path,
		HTML:        html,
		Attrs:       attrs,
		Fingerprint: raw.Fingerprint,
	}, nil
}
