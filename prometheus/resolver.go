package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/docver"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Ensure Resolver implements docver.Resolver at compile time.
var _ docver.Resolver = (*Resolver)(nil)

// Resolver wraps a docver.Resolver and counts resolutions by kind and status.
type Resolver struct {
	next        docver.Resolver
	resolutions *prom.CounterVec
	duration    *prom.HistogramVec
	unknown     *prom.CounterVec
}

// NewResolver creates a Resolver and registers its metrics with reg.
func NewResolver(next docver.Resolver, reg prom.Registerer) *Resolver {
	r := &Resolver{
		next: next,
		resolutions: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "resolutions_total",
			Help:      "Resolutions by kind and status",
		}, []string{"kind", "status"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "resolution_duration_seconds",
			Help:      "Resolution duration by kind",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		unknown: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "unknown_version_resolutions_total",
			Help:      "Found resolutions served for versions absent from the version list",
		}, []string{"kind"}),
	}
	reg.MustRegister(r.resolutions, r.duration, r.unknown)
	return r
}

// ResolveDoc delegates to the wrapped resolver and records the outcome.
func (r *Resolver) ResolveDoc(ctx context.Context, versionHint, rawPath string) *docver.DocResult {
	begin := time.Now()
	res := r.next.ResolveDoc(ctx, versionHint, rawPath)
	r.observe("doc", res.Status, res.Known, time.Since(begin))
	return res
}

// ResolveMenu delegates to the wrapped resolver and records the outcome.
func (r *Resolver) ResolveMenu(ctx context.Context, versionHint string) *docver.MenuResult {
	begin := time.Now()
	res := r.next.ResolveMenu(ctx, versionHint)
	r.observe("menu", res.Status, res.Known, time.Since(begin))
	return res
}

// Versions delegates to the wrapped resolver.
func (r *Resolver) Versions(ctx context.Context) ([]docver.VersionHead, error) {
	return r.next.Versions(ctx)
}

func (r *Resolver) observe(kind string, status docver.Status, known bool, d time.Duration) {
	r.resolutions.WithLabelValues(kind, status.String()).Inc()
	r.duration.WithLabelValues(kind).Observe(d.Seconds())
	if status == docver.StatusFound && !known {
		r.unknown.WithLabelValues(kind).Inc()
	}
}
