package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/docver"
	prom "github.com/prometheus/client_golang/prometheus"
)

// Ensure ContentSource implements docver.ContentSource at compile time.
var _ docver.ContentSource = (*ContentSource)(nil)

// ContentSource wraps a docver.ContentSource and records operation counts and
// latency. A not-found lookup counts as a success.
type ContentSource struct {
	next       docver.ContentSource
	operations *prom.CounterVec
	duration   *prom.HistogramVec
}

// NewContentSource creates a ContentSource and registers its metrics with reg.
func NewContentSource(next docver.ContentSource, reg prom.Registerer) *ContentSource {
	s := &ContentSource{
		next: next,
		operations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: Namespace,
			Name:      "source_operations_total",
			Help:      "Content source operations by operation and result",
		}, []string{"operation", "result"}),
		duration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: Namespace,
			Name:      "source_operation_duration_seconds",
			Help:      "Content source operation duration",
			Buckets:   prom.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(s.operations, s.duration)
	return s
}

// ListVersions delegates to the wrapped source and records the operation.
func (s *ContentSource) ListVersions(ctx context.Context) (versions []docver.VersionHead, err error) {
	defer s.observe("list_versions", time.Now(), &err)
	return s.next.ListVersions(ctx)
}

// GetDocument delegates to the wrapped source and records the operation.
func (s *ContentSource) GetDocument(ctx context.Context, version, path string) (doc *docver.RawDocument, err error) {
	defer s.observe("get_document", time.Now(), &err)
	return s.next.GetDocument(ctx, version, path)
}

// ListDirectory delegates to the wrapped source and records the operation.
func (s *ContentSource) ListDirectory(ctx context.Context, version, path string) (entries []docver.Entry, err error) {
	defer s.observe("list_directory", time.Now(), &err)
	return s.next.ListDirectory(ctx, version, path)
}

func (s *ContentSource) observe(op string, begin time.Time, errp *error) {
	err := *errp
	if docver.ErrorCode(err) == docver.ENOTFOUND {
		err = nil
	}
	s.operations.WithLabelValues(op, result(err)).Inc()
	s.duration.WithLabelValues(op).Observe(time.Since(begin).Seconds())
}
