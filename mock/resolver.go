package mock

import (
	"context"

	"github.com/fwojciec/docver"
)

var (
	_ docver.Resolver  = (*Resolver)(nil)
	_ docver.Refresher = (*Refresher)(nil)
)

// Resolver is a mock implementation of docver.Resolver.
type Resolver struct {
	ResolveDocFn  func(ctx context.Context, versionHint, rawPath string) *docver.DocResult
	ResolveMenuFn func(ctx context.Context, versionHint string) *docver.MenuResult
	VersionsFn    func(ctx context.Context) ([]docver.VersionHead, error)
}

func (r *Resolver) ResolveDoc(ctx context.Context, versionHint, rawPath string) *docver.DocResult {
	return r.ResolveDocFn(ctx, versionHint, rawPath)
}

func (r *Resolver) ResolveMenu(ctx context.Context, versionHint string) *docver.MenuResult {
	return r.ResolveMenuFn(ctx, versionHint)
}

func (r *Resolver) Versions(ctx context.Context) ([]docver.VersionHead, error) {
	return r.VersionsFn(ctx)
}

// Refresher is a mock implementation of docver.Refresher.
type Refresher struct {
	RefreshFn func(ctx context.Context) error
}

func (r *Refresher) Refresh(ctx context.Context) error {
	return r.RefreshFn(ctx)
}
