// Package resolve resolves version hints and request paths into rendered
// documents and navigation menus, caching what the content source provides.
package resolve

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Defaults for cache lifetimes and fetch limits.
const (
	DefaultVersionTTL   = 5 * time.Minute
	DefaultMenuTTL      = 5 * time.Minute
	DefaultFetchTimeout = 30 * time.Second
	DefaultConcurrency  = 8
)

// Humanize turns an entry name such as "data-loading" into a title such as
// "Data Loading".
func Humanize(name string) string {
	name = strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(name))
	if name == "" {
		return ""
	}
	// Casers are stateful and must not be shared between goroutines.
	return cases.Title(language.English).String(name)
}

// TitleFromPath derives a title from a document path. Index documents are
// named after their directory.
func TitleFromPath(p string) string {
	segs := strings.Split(p, "/")
	name := segs[len(segs)-1]
	if name == "index" && len(segs) > 1 {
		name = segs[len(segs)-2]
	}
	return Humanize(name)
}
