package docver

import (
	"net/url"
	"strings"
)

// IndexName is the document name that marks a directory's index document.
const IndexName = "index"

// IndexPath is the canonical path of a version's root document.
const IndexPath = IndexName

// Canonicalize turns a raw request path into a document key.
// It strips exactly one trailing slash and maps the empty path to "index".
// Paths are otherwise opaque: no case folding, no dot-segment resolution.
func Canonicalize(raw string) string {
	p := strings.TrimSuffix(raw, "/")
	if p == "" {
		return IndexPath
	}
	return p
}

// IsExternalURL reports whether href points outside the documentation site,
// i.e. it carries a scheme or is protocol-relative.
func IsExternalURL(href string) bool {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "//") {
		return true
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme != ""
}

// DocURL joins a route prefix, a version head and a document path into a link.
// The root index document links to the version itself.
func DocURL(prefix, head, path string) string {
	u := strings.TrimSuffix(prefix, "/") + "/" + head
	if path == "" || path == IndexPath {
		return u
	}
	return u + "/" + strings.TrimPrefix(path, "/")
}

// Crumb is one breadcrumb: a label and the link it points to.
type Crumb struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Breadcrumbs returns the trail for a resolved page: the version crumb,
// followed by a crumb for the page itself unless it is the version root.
func Breadcrumbs(prefix string, v VersionHead, path, title string) []Crumb {
	crumbs := []Crumb{{Label: v.Head, Href: DocURL(prefix, v.Head, "")}}
	if path == "" || path == IndexPath {
		return crumbs
	}
	if title == "" {
		title = path
	}
	return append(crumbs, Crumb{Label: title, Href: DocURL(prefix, v.Head, path)})
}
