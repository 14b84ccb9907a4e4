package docver

import "context"

// VersionHead identifies one snapshot of the documentation set.
// Version is the resolved tag or commit; Head is the branch or tag name the
// version is requested by.
type VersionHead struct {
	Version  string `json:"version"`
	Head     string `json:"head"`
	IsLatest bool   `json:"isLatest"`
}

// VersionLister lists the documentation versions known to a source.
type VersionLister interface {
	// ListVersions returns the known versions in display order.
	// Returns EUNAVAILABLE if the source cannot be reached.
	ListVersions(ctx context.Context) ([]VersionHead, error)
}

// FindVersion returns the version whose Head equals requested, falling back
// to a match on Version. The second result is false when nothing matches.
func FindVersion(requested string, versions []VersionHead) (VersionHead, bool) {
	for _, v := range versions {
		if v.Head == requested {
			return v, true
		}
	}
	for _, v := range versions {
		if v.Version == requested {
			return v, true
		}
	}
	return VersionHead{}, false
}

// LatestVersion returns the version flagged IsLatest, or the first version
// when none is flagged. It returns false for an empty list.
func LatestVersion(versions []VersionHead) (VersionHead, bool) {
	for _, v := range versions {
		if v.IsLatest {
			return v, true
		}
	}
	if len(versions) == 0 {
		return VersionHead{}, false
	}
	return versions[0], true
}

// ResolveVersion maps a requested identifier onto a VersionHead.
//
// An exact match wins. An unknown identifier is still addressable: a
// VersionHead with Version and Head set to requested and IsLatest false is
// synthesized. An empty identifier selects the latest version; the zero
// VersionHead is returned if there are no versions at all.
func ResolveVersion(requested string, versions []VersionHead) VersionHead {
	if requested == "" {
		v, _ := LatestVersion(versions)
		return v
	}
	if v, ok := FindVersion(requested, versions); ok {
		return v
	}
	return VersionHead{Version: requested, Head: requested, IsLatest: false}
}

// IsKnownVersion reports whether v was resolved from the list rather than
// synthesized for an unrecognized identifier.
func IsKnownVersion(v VersionHead, versions []VersionHead) bool {
	for _, known := range versions {
		if known == v {
			return true
		}
	}
	return false
}
