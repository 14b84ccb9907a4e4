package docver

import "context"

// RawDocument is a document as held by a content source: the markdown body
// with front-matter removed, and the decoded front-matter.
type RawDocument struct {
	Path        string
	Content     string
	Attributes  Attributes
	Fingerprint string
}

// Doc is a resolved, rendered document.
type Doc struct {
	Path        string     `json:"path"`
	HTML        string     `json:"html"`
	Attrs       Attributes `json:"attrs"`
	Fingerprint string     `json:"fingerprint,omitempty"`
}

// Entry is one item of a directory listing.
// Path is the document key for files and the directory key for directories.
type Entry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"isDir"`
}

// IsIndex reports whether the entry is its directory's index document.
func (e Entry) IsIndex() bool {
	return !e.IsDir && e.Name == IndexName
}

// ContentSource provides read access to versioned documentation content.
// Implementations may read a directory tree, a git repository or a snapshot
// database; the resolution engine depends only on this interface.
type ContentSource interface {
	VersionLister

	// GetDocument returns the document stored under path for the version.
	// A directory's index document is also addressable by the directory path.
	// Returns ENOTFOUND if the document does not exist.
	GetDocument(ctx context.Context, version, path string) (*RawDocument, error)

	// ListDirectory returns the entries of the directory at path ("" is the
	// version root) in the source's natural order.
	// Returns ENOTFOUND if the directory does not exist.
	ListDirectory(ctx context.Context, version, path string) ([]Entry, error)
}

// Renderer converts a raw document into HTML.
type Renderer interface {
	Render(ctx context.Context, doc *RawDocument) (string, error)
}
