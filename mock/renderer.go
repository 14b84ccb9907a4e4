package mock

import (
	"context"

	"github.com/fwojciec/docver"
)

var _ docver.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of docver.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, doc *docver.RawDocument) (string, error)
}

func (r *Renderer) Render(ctx context.Context, doc *docver.RawDocument) (string, error) {
	return r.RenderFn(ctx, doc)
}
