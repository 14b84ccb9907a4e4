// Package fs reads and writes versioned documentation trees on the filesystem.
//
// A content root holds one directory per version. Documents are markdown
// files with optional YAML front-matter, or HTML pages when a Converter is
// configured. An optional versions.yaml manifest at the root declares the
// version order, heads and the latest version.
package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path"
	"strings"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/yaml"
)

// Ensure ContentSource implements docver.ContentSource at compile time.
var _ docver.ContentSource = (*ContentSource)(nil)

// Document file extensions, in lookup order.
const (
	ExtMarkdown = ".md"
	ExtHTML     = ".html"
)

// ContentSource serves documentation from a filesystem tree.
type ContentSource struct {
	fsys      iofs.FS
	converter docver.Converter
	latest    string
}

// Option configures a ContentSource.
type Option func(*ContentSource)

// WithConverter enables .html documents, converted to markdown by c.
func WithConverter(c docver.Converter) Option {
	return func(s *ContentSource) {
		s.converter = c
	}
}

// WithLatest flags the version directory named head as the latest version
// when no manifest is present.
func WithLatest(head string) Option {
	return func(s *ContentSource) {
		s.latest = head
	}
}

// NewContentSource creates a ContentSource rooted at dir.
func NewContentSource(dir string, opts ...Option) *ContentSource {
	return NewFSContentSource(os.DirFS(dir), opts...)
}

// NewFSContentSource creates a ContentSource over fsys.
func NewFSContentSource(fsys iofs.FS, opts ...Option) *ContentSource {
	s := &ContentSource{fsys: fsys}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListVersions returns the versions declared by the manifest, or one version
// per top-level directory in name order.
func (s *ContentSource) ListVersions(ctx context.Context) ([]docver.VersionHead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := iofs.ReadFile(s.fsys, yaml.ManifestName)
	if err == nil {
		return yaml.DecodeVersions(data)
	}
	if !errors.Is(err, iofs.ErrNotExist) {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "read version manifest: %v", err)
	}

	entries, err := iofs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "list versions: %v", err)
	}

	var versions []docver.VersionHead
	for _, e := range entries {
		if !e.IsDir() || skipName(e.Name()) {
			continue
		}
		versions = append(versions, docver.VersionHead{
			Version:  e.Name(),
			Head:     e.Name(),
			IsLatest: e.Name() == s.latest,
		})
	}
	return versions, nil
}

// GetDocument loads the document stored under p. Candidates are tried in
// order: p.md, p.html, p/index.md, p/index.html.
func (s *ContentSource) GetDocument(ctx context.Context, version, p string) (*docver.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, ok := versionRoot(version)
	if !ok || !validDocPath(p) {
		return nil, docver.Errorf(docver.ENOTFOUND, "document not found: %s", p)
	}

	for _, candidate := range s.candidates(p) {
		name := path.Join(root, candidate)
		fi, err := iofs.Stat(s.fsys, name)
		if errors.Is(err, iofs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, docver.Errorf(docver.EUNAVAILABLE, "stat %s: %v", name, err)
		}
		if fi.IsDir() {
			continue
		}

		data, err := iofs.ReadFile(s.fsys, name)
		if err != nil {
			return nil, docver.Errorf(docver.EUNAVAILABLE, "read %s: %v", name, err)
		}
		return s.parse(p, candidate, data)
	}

	return nil, docver.Errorf(docver.ENOTFOUND, "document not found: %s", p)
}

// ListDirectory lists the documents and subdirectories of dir in name order.
// Hidden entries and entries starting with "_" are skipped, as are files
// that are not documents.
func (s *ContentSource) ListDirectory(ctx context.Context, version, dir string) ([]docver.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, ok := versionRoot(version)
	if !ok || (dir != "" && !validDocPath(dir)) {
		return nil, docver.Errorf(docver.ENOTFOUND, "directory not found: %s", dir)
	}

	name := path.Join(root, dir)
	fi, err := iofs.Stat(s.fsys, name)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, docver.Errorf(docver.ENOTFOUND, "directory not found: %s", dir)
	} else if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "stat %s: %v", name, err)
	}
	if !fi.IsDir() {
		return nil, docver.Errorf(docver.ENOTFOUND, "directory not found: %s", dir)
	}

	dirEntries, err := iofs.ReadDir(s.fsys, name)
	if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "list %s: %v", name, err)
	}

	entries := make([]docver.Entry, 0, len(dirEntries))
	seen := make(map[string]bool)
	for _, e := range dirEntries {
		if skipName(e.Name()) {
			continue
		}
		if e.IsDir() {
			entries = append(entries, docver.Entry{Name: e.Name(), Path: path.Join(dir, e.Name()), IsDir: true})
			continue
		}

		base, ok := s.docName(e.Name())
		if !ok || seen[base] {
			continue
		}
		seen[base] = true
		entries = append(entries, docver.Entry{Name: base, Path: path.Join(dir, base)})
	}
	return entries, nil
}

func (s *ContentSource) candidates(p string) []string {
	exts := []string{ExtMarkdown}
	if s.converter != nil {
		exts = append(exts, ExtHTML)
	}

	out := make([]string, 0, 2*len(exts))
	for _, ext := range exts {
		out = append(out, p+ext)
	}
	for _, ext := range exts {
		out = append(out, path.Join(p, docver.IndexName)+ext)
	}
	return out
}

func (s *ContentSource) docName(filename string) (string, bool) {
	switch ext := path.Ext(filename); {
	case ext == ExtMarkdown:
		return strings.TrimSuffix(filename, ext), true
	case ext == ExtHTML && s.converter != nil:
		return strings.TrimSuffix(filename, ext), true
	}
	return "", false
}

func (s *ContentSource) parse(p, filename string, data []byte) (*docver.RawDocument, error) {
	if path.Ext(filename) == ExtHTML {
		doc, err := s.converter.ConvertDocument(p, data)
		if err != nil {
			return nil, invalidDocument(filename, err)
		}
		doc.Fingerprint = yaml.Fingerprint(nil, data)
		return doc, nil
	}
	return yaml.ParseDocument(p, data)
}

// invalidDocument reports a conversion failure as a bad document rather than
// a source failure.
func invalidDocument(filename string, err error) error {
	if docver.ErrorCode(err) == docver.EINTERNAL {
		return docver.Errorf(docver.EINVALID, "convert %s: %v", filename, err)
	}
	return err
}

// versionRoot maps a version identifier to its directory.
func versionRoot(version string) (string, bool) {
	if version == "" || strings.Contains(version, "/") || !iofs.ValidPath(version) || skipName(version) {
		return "", false
	}
	return version, true
}

func validDocPath(p string) bool {
	if !iofs.ValidPath(p) || p == "." {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if skipName(seg) {
			return false
		}
	}
	return true
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
