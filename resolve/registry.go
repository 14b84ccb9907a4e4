package resolve

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docver"
)

// Registry caches the version list of a source.
type Registry struct {
	source docver.VersionLister
	cache  *ttlCache[[]docver.VersionHead]
}

// NewRegistry creates a Registry. A ttl of zero disables caching.
func NewRegistry(source docver.VersionLister, ttl, fetchTimeout time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		source: source,
		cache:  newTTLCache[[]docver.VersionHead]("versions", ttl, fetchTimeout, logger),
	}
}

// Versions returns the version list. The returned slice is shared and must
// not be modified.
func (r *Registry) Versions(ctx context.Context) ([]docver.VersionHead, error) {
	return r.cache.get(ctx, "", func(ctx context.Context) ([]docver.VersionHead, error) {
		return r.source.ListVersions(ctx)
	})
}

// Invalidate forces the next call to Versions to refetch.
func (r *Registry) Invalidate() {
	r.cache.invalidate()
}
