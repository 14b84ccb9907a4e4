package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docver"
)

// Ensure LoggingRenderer implements docver.Renderer.
var _ docver.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with debug logging.
type LoggingRenderer struct {
	next   docver.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next docver.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the operation.
func (r *LoggingRenderer) Render(ctx context.Context, doc *docver.RawDocument) (html string, err error) {
	defer func(begin time.Time) {
		path := ""
		if doc != nil {
			path = doc.Path
		}
		r.logger.Log(ctx, level(err), "render",
			"path", path,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, doc)
}
