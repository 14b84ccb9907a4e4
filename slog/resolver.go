package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docver"
)

// Ensure LoggingResolver implements docver.Resolver.
var _ docver.Resolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a Resolver and logs every resolution.
type LoggingResolver struct {
	next   docver.Resolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next docver.Resolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// ResolveDoc delegates to the wrapped resolver and logs the outcome.
func (r *LoggingResolver) ResolveDoc(ctx context.Context, versionHint, rawPath string) (res *docver.DocResult) {
	defer func(begin time.Time) {
		r.logger.Info("resolve doc",
			"hint", versionHint,
			"path", rawPath,
			"version", res.Version.Version,
			"known", res.Known,
			"status", res.Status.String(),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return r.next.ResolveDoc(ctx, versionHint, rawPath)
}

// ResolveMenu delegates to the wrapped resolver and logs the outcome.
func (r *LoggingResolver) ResolveMenu(ctx context.Context, versionHint string) (res *docver.MenuResult) {
	defer func(begin time.Time) {
		r.logger.Info("resolve menu",
			"hint", versionHint,
			"version", res.Version.Version,
			"known", res.Known,
			"status", res.Status.String(),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return r.next.ResolveMenu(ctx, versionHint)
}

// Versions delegates to the wrapped resolver and logs the operation.
func (r *LoggingResolver) Versions(ctx context.Context) (versions []docver.VersionHead, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("versions",
			"count", len(versions),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Versions(ctx)
}
