// Package slog provides logging decorators for docver services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docver"
)

// Ensure LoggingContentSource implements docver.ContentSource.
var _ docver.ContentSource = (*LoggingContentSource)(nil)

// LoggingContentSource wraps a ContentSource with logging. Successful and
// not-found lookups are logged at debug level, failures at warn level.
type LoggingContentSource struct {
	next   docver.ContentSource
	logger *slog.Logger
}

// NewLoggingContentSource creates a new LoggingContentSource.
func NewLoggingContentSource(next docver.ContentSource, logger *slog.Logger) *LoggingContentSource {
	return &LoggingContentSource{next: next, logger: logger}
}

// ListVersions delegates to the wrapped source and logs the operation.
func (s *LoggingContentSource) ListVersions(ctx context.Context) (versions []docver.VersionHead, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, level(err), "list versions",
			"count", len(versions),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListVersions(ctx)
}

// GetDocument delegates to the wrapped source and logs the operation.
func (s *LoggingContentSource) GetDocument(ctx context.Context, version, path string) (doc *docver.RawDocument, err error) {
	defer func(begin time.Time) {
		bytes := 0
		if doc != nil {
			bytes = len(doc.Content)
		}
		s.logger.Log(ctx, level(err), "get document",
			"version", version,
			"path", path,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.GetDocument(ctx, version, path)
}

// ListDirectory delegates to the wrapped source and logs the operation.
func (s *LoggingContentSource) ListDirectory(ctx context.Context, version, path string) (entries []docver.Entry, err error) {
	defer func(begin time.Time) {
		s.logger.Log(ctx, level(err), "list directory",
			"version", version,
			"path", path,
			"count", len(entries),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListDirectory(ctx, version, path)
}

func level(err error) slog.Level {
	switch docver.ErrorCode(err) {
	case "", docver.ENOTFOUND:
		return slog.LevelDebug
	}
	return slog.LevelWarn
}
