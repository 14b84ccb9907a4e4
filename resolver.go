package docver

import "context"

// Status is the outcome of a resolution request.
type Status int

// Resolution statuses.
const (
	StatusNotFound Status = iota
	StatusFound
)

// String returns the lowercase status name.
func (s Status) String() string {
	if s == StatusFound {
		return "found"
	}
	return "not_found"
}

// Cache-Control directives attached to resolution results.
// Published versions are immutable, so resolved content may be cached long.
// Content of an unrecognized version and not-found results, which may stem
// from a transient fetch failure, must stay fresh.
const (
	CacheControlDoc      = "public, max-age=86400, stale-while-revalidate=604800"
	CacheControlShort    = "public, max-age=60"
	CacheControlNotFound = "max-age=0, must-revalidate"
)

// VaryCookie is the Vary dimension for responses whose rendering depends on a
// per-viewer session cookie.
const VaryCookie = "Cookie"

// DocResult is the outcome of resolving a document request.
type DocResult struct {
	Status       Status
	Doc          *Doc
	Version      VersionHead
	Known        bool
	CacheControl string
}

// MenuResult is the outcome of resolving a menu request. Versions is the full
// version list so navigation can render a version switcher.
type MenuResult struct {
	Status       Status
	Menu         *MenuDir
	Index        MenuIndex
	Version      VersionHead
	Versions     []VersionHead
	Known        bool
	CacheControl string
}

// NotFoundDoc returns the uniform not-found document result.
func NotFoundDoc(v VersionHead) *DocResult {
	return &DocResult{Status: StatusNotFound, Version: v, CacheControl: CacheControlNotFound}
}

// NotFoundMenu returns the uniform not-found menu result.
func NotFoundMenu(v VersionHead) *MenuResult {
	return &MenuResult{Status: StatusNotFound, Version: v, CacheControl: CacheControlNotFound}
}

// FoundCacheControl returns the directive for found content of a version.
func FoundCacheControl(known bool) string {
	if known {
		return CacheControlDoc
	}
	return CacheControlShort
}

// Resolver resolves document and menu requests.
// It never fails: every internal failure is reported as StatusNotFound.
type Resolver interface {
	// ResolveDoc resolves a version hint and a raw request path to a
	// rendered document.
	ResolveDoc(ctx context.Context, versionHint, rawPath string) *DocResult

	// ResolveMenu resolves a version hint to the version's navigation menu.
	ResolveMenu(ctx context.Context, versionHint string) *MenuResult

	// Versions returns the known versions.
	Versions(ctx context.Context) ([]VersionHead, error)
}

// Refresher drops cached state so it is rebuilt from the source on next use.
type Refresher interface {
	Refresh(ctx context.Context) error
}
