package resolve

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docver"
)

// Ensure Resolver implements docver.Resolver at compile time.
var _ docver.Resolver = (*Resolver)(nil)

// Ensure Resolver implements docver.Refresher at compile time.
var _ docver.Refresher = (*Resolver)(nil)

// Resolver is the resolution facade. Every failure is logged and reported
// as not found.
type Resolver struct {
	Registry *Registry
	Docs     *DocStore
	Menus    *MenuCache
	Logger   *slog.Logger

	// Prefilter rejects paths absent from an already cached menu without
	// asking the source.
	Prefilter bool

	// RefreshHooks run before caches are dropped, e.g. to fetch a remote.
	RefreshHooks []func(ctx context.Context) error
}

// Option configures a Resolver.
type Option func(*config)

type config struct {
	versionTTL   time.Duration
	menuTTL      time.Duration
	fetchTimeout time.Duration
	concurrency  int
	prefilter    bool
	logger       *slog.Logger
	hooks        []func(ctx context.Context) error
}

// WithVersionTTL sets how long the version list is cached. Zero disables
// caching.
func WithVersionTTL(d time.Duration) Option {
	return func(c *config) { c.versionTTL = d }
}

// WithMenuTTL sets how long menus are cached. Zero disables caching.
func WithMenuTTL(d time.Duration) Option {
	return func(c *config) { c.menuTTL = d }
}

// WithFetchTimeout bounds shared fetches from the source.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *config) { c.fetchTimeout = d }
}

// WithConcurrency bounds concurrent document fetches while building menus.
func WithConcurrency(n int) Option {
	return func(c *config) { c.concurrency = n }
}

// WithPrefilter enables the Bloom filter path prefilter.
func WithPrefilter() Option {
	return func(c *config) { c.prefilter = true }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithRefreshHook adds a function run by Refresh before caches are dropped.
func WithRefreshHook(fn func(ctx context.Context) error) Option {
	return func(c *config) { c.hooks = append(c.hooks, fn) }
}

// NewResolver wires a Resolver over a content source and a renderer.
func NewResolver(source docver.ContentSource, renderer docver.Renderer, opts ...Option) *Resolver {
	cfg := config{
		versionTTL:   DefaultVersionTTL,
		menuTTL:      DefaultMenuTTL,
		fetchTimeout: DefaultFetchTimeout,
		concurrency:  DefaultConcurrency,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	builder := &MenuBuilder{Source: source, Concurrency: cfg.concurrency, Logger: cfg.logger}
	return &Resolver{
		Registry:     NewRegistry(source, cfg.versionTTL, cfg.fetchTimeout, cfg.logger),
		Docs:         &DocStore{Source: source, Renderer: renderer},
		Menus:        NewMenuCache(builder, cfg.menuTTL, cfg.fetchTimeout, cfg.logger),
		Logger:       cfg.logger,
		Prefilter:    cfg.prefilter,
		RefreshHooks: cfg.hooks,
	}
}

// Versions returns the cached version list.
func (r *Resolver) Versions(ctx context.Context) ([]docver.VersionHead, error) {
	return r.Registry.Versions(ctx)
}

// resolveVersion resolves a hint against the version list. ok is false when
// no version applies.
func (r *Resolver) resolveVersion(ctx context.Context, hint string) (v docver.VersionHead, versions []docver.VersionHead, ok bool) {
	versions, err := r.Registry.Versions(ctx)
	if err != nil {
		r.Logger.Error("list versions failed", "hint", hint, "err", err)
		return docver.VersionHead{Version: hint, Head: hint}, nil, false
	}

	v = docver.ResolveVersion(hint, versions)
	if v.Version == "" {
		return v, versions, false
	}
	return v, versions, true
}

// ResolveDoc resolves a version hint and a raw request path to a document.
func (r *Resolver) ResolveDoc(ctx context.Context, versionHint, rawPath string) *docver.DocResult {
	v, versions, ok := r.resolveVersion(ctx, versionHint)
	if !ok {
		return docver.NotFoundDoc(v)
	}
	known := docver.IsKnownVersion(v, versions)
	p := docver.Canonicalize(rawPath)

	notFound := func() *docver.DocResult {
		res := docver.NotFoundDoc(v)
		res.Known = known
		return res
	}

	if r.Prefilter {
		if menu, ok := r.Menus.Peek(v.Version); ok && !menu.Filter().MayContain(p) {
			return notFound()
		}
	}

	doc, err := r.Docs.GetDoc(ctx, p, v.Version)
	if err != nil {
		r.Logger.Error("resolve document failed", "version", v.Version, "path", p, "err", err)
		return notFound()
	}
	if doc == nil {
		return notFound()
	}

	return &docver.DocResult{
		Status:       docver.StatusFound,
		Doc:          doc,
		Version:      v,
		Known:        known,
		CacheControl: docver.FoundCacheControl(known),
	}
}

// ResolveMenu resolves a version hint to the version's menu.
func (r *Resolver) ResolveMenu(ctx context.Context, versionHint string) *docver.MenuResult {
	v, versions, ok := r.resolveVersion(ctx, versionHint)
	if !ok {
		res := docver.NotFoundMenu(v)
		res.Versions = versions
		return res
	}
	known := docver.IsKnownVersion(v, versions)

	menu, err := r.Menus.Get(ctx, v.Version)
	if err != nil {
		if docver.ErrorCode(err) != docver.ENOTFOUND {
			r.Logger.Error("resolve menu failed", "version", v.Version, "err", err)
		}
		res := docver.NotFoundMenu(v)
		res.Versions = versions
		res.Known = known
		return res
	}

	return &docver.MenuResult{
		Status:       docver.StatusFound,
		Menu:         menu.Tree,
		Index:        menu.Index(),
		Version:      v,
		Versions:     versions,
		Known:        known,
		CacheControl: docver.FoundCacheControl(known),
	}
}

// Refresh runs the refresh hooks, then drops cached versions and menus.
// Caches are kept when a hook fails.
func (r *Resolver) Refresh(ctx context.Context) error {
	for _, hook := range r.RefreshHooks {
		if err := hook(ctx); err != nil {
			r.Logger.Error("refresh failed", "err", err)
			return err
		}
	}
	r.Registry.Invalidate()
	r.Menus.Invalidate()
	r.Logger.Info("caches invalidated")
	return nil
}
