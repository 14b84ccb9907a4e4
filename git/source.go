// Package git serves versioned documentation from a git repository using
// go-git. Branches and tags are versions; any other revision, such as a
// commit hash, can still be requested directly.
package git

import (
	"context"
	"errors"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/yaml"
	ggit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Ensure ContentSource implements docver.ContentSource at compile time.
var _ docver.ContentSource = (*ContentSource)(nil)

// DefaultLatest is the branch flagged as the latest version by default.
const DefaultLatest = "main"

// Document file extensions, in lookup order.
const (
	extMarkdown = ".md"
	extHTML     = ".html"
)

// ContentSource reads documentation from a repository's committed trees.
// Repository access is serialized; go-git repositories are not safe for
// concurrent use.
type ContentSource struct {
	mu        sync.Mutex
	repo      *ggit.Repository
	latest    string
	dir       string
	remote    string
	converter docver.Converter
}

// Option configures a ContentSource.
type Option func(*ContentSource)

// WithLatest sets the branch flagged as the latest version.
func WithLatest(branch string) Option {
	return func(s *ContentSource) {
		s.latest = branch
	}
}

// WithDir roots documentation at a subdirectory of the repository.
func WithDir(dir string) Option {
	return func(s *ContentSource) {
		s.dir = strings.Trim(dir, "/")
	}
}

// WithRemote uses the remote's branches instead of local ones and enables
// Fetch.
func WithRemote(name string) Option {
	return func(s *ContentSource) {
		s.remote = name
	}
}

// WithConverter enables .html documents, converted to markdown by c.
func WithConverter(c docver.Converter) Option {
	return func(s *ContentSource) {
		s.converter = c
	}
}

// Open opens the repository at path.
func Open(repoPath string, opts ...Option) (*ContentSource, error) {
	repo, err := ggit.PlainOpen(repoPath)
	if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "open repository %s: %v", repoPath, err)
	}
	return NewContentSource(repo, opts...), nil
}

// NewContentSource creates a ContentSource over an opened repository.
func NewContentSource(repo *ggit.Repository, opts ...Option) *ContentSource {
	s := &ContentSource{repo: repo, latest: DefaultLatest}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch updates remote branches and tags. It is a no-op without a remote.
func (s *ContentSource) Fetch(ctx context.Context) error {
	if s.remote == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.repo.FetchContext(ctx, &ggit.FetchOptions{
		RemoteName: s.remote,
		Tags:       ggit.AllTags,
		Force:      true,
	})
	if err != nil && !errors.Is(err, ggit.NoErrAlreadyUpToDate) {
		return docver.Errorf(docver.EUNAVAILABLE, "fetch %s: %v", s.remote, err)
	}
	return nil
}

// ListVersions returns the latest branch first, then the other branches in
// name order, then tags in reverse name order.
func (s *ContentSource) ListVersions(ctx context.Context) ([]docver.VersionHead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	branches, err := s.branches()
	if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "list branches: %v", err)
	}

	var tags []string
	iter, err := s.repo.Tags()
	if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "list tags: %v", err)
	}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		tags = append(tags, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "list tags: %v", err)
	}

	sort.Slice(branches, func(i, j int) bool {
		bi, bj := branches[i], branches[j]
		if (bi.Head == s.latest) != (bj.Head == s.latest) {
			return bi.Head == s.latest
		}
		return bi.Head < bj.Head
	})
	sort.Sort(sort.Reverse(sort.StringSlice(tags)))

	versions := make([]docver.VersionHead, 0, len(branches)+len(tags))
	versions = append(versions, branches...)
	for _, tag := range tags {
		versions = append(versions, docver.VersionHead{Version: tag, Head: tag})
	}
	return versions, nil
}

func (s *ContentSource) branches() ([]docver.VersionHead, error) {
	var out []docver.VersionHead

	if s.remote == "" {
		iter, err := s.repo.Branches()
		if err != nil {
			return nil, err
		}
		err = iter.ForEach(func(ref *plumbing.Reference) error {
			name := ref.Name().Short()
			out = append(out, docver.VersionHead{Version: name, Head: name, IsLatest: name == s.latest})
			return nil
		})
		return out, err
	}

	iter, err := s.repo.References()
	if err != nil {
		return nil, err
	}
	prefix := s.remote + "/"
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsRemote() || ref.Type() != plumbing.HashReference {
			return nil
		}
		short := ref.Name().Short()
		if !strings.HasPrefix(short, prefix) {
			return nil
		}
		head := strings.TrimPrefix(short, prefix)
		out = append(out, docver.VersionHead{Version: short, Head: head, IsLatest: head == s.latest})
		return nil
	})
	return out, err
}

// GetDocument loads the document stored under p at the version's revision.
func (s *ContentSource) GetDocument(ctx context.Context, version, p string) (*docver.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validDocPath(p) {
		return nil, docver.Errorf(docver.ENOTFOUND, "document not found: %s", p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := s.tree(version)
	if err != nil {
		return nil, err
	}

	for _, candidate := range s.candidates(p) {
		entry, err := tree.FindEntry(candidate)
		if err != nil || !entry.Mode.IsFile() {
			continue
		}
		file, err := tree.TreeEntryFile(entry)
		if err != nil {
			return nil, docver.Errorf(docver.EUNAVAILABLE, "read %s@%s: %v", candidate, version, err)
		}
		content, err := file.Contents()
		if err != nil {
			return nil, docver.Errorf(docver.EUNAVAILABLE, "read %s@%s: %v", candidate, version, err)
		}
		return s.parse(p, candidate, []byte(content))
	}

	return nil, docver.Errorf(docver.ENOTFOUND, "document not found: %s", p)
}

// ListDirectory lists dir in tree order, which is name order.
func (s *ContentSource) ListDirectory(ctx context.Context, version, dir string) ([]docver.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if dir != "" && !validDocPath(dir) {
		return nil, docver.Errorf(docver.ENOTFOUND, "directory not found: %s", dir)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := s.tree(version)
	if err != nil {
		return nil, err
	}
	if dir != "" {
		if entry, err := tree.FindEntry(dir); err != nil || entry.Mode != filemode.Dir {
			return nil, docver.Errorf(docver.ENOTFOUND, "directory not found: %s", dir)
		}
		tree, err = tree.Tree(dir)
		if errors.Is(err, object.ErrDirectoryNotFound) {
			return nil, docver.Errorf(docver.ENOTFOUND, "directory not found: %s", dir)
		} else if err != nil {
			return nil, docver.Errorf(docver.EUNAVAILABLE, "read %s@%s: %v", dir, version, err)
		}
	}

	entries := make([]docver.Entry, 0, len(tree.Entries))
	seen := make(map[string]bool)
	for _, e := range tree.Entries {
		if skipName(e.Name) {
			continue
		}
		switch {
		case e.Mode == filemode.Dir:
			entries = append(entries, docver.Entry{Name: e.Name, Path: path.Join(dir, e.Name), IsDir: true})
		case e.Mode.IsFile():
			base, ok := s.docName(e.Name)
			if !ok || seen[base] {
				continue
			}
			seen[base] = true
			entries = append(entries, docver.Entry{Name: base, Path: path.Join(dir, base)})
		}
	}
	return entries, nil
}

// tree returns the documentation root tree at the version's revision.
func (s *ContentSource) tree(version string) (*object.Tree, error) {
	if version == "" {
		return nil, docver.Errorf(docver.ENOTFOUND, "version required")
	}

	hash, err := s.repo.ResolveRevision(plumbing.Revision(version))
	if err != nil {
		return nil, docver.Errorf(docver.ENOTFOUND, "unknown revision: %s", version)
	}

	commit, err := s.repo.CommitObject(*hash)
	if err != nil {
		// Annotated tags resolve to the tag object.
		tag, tagErr := s.repo.TagObject(*hash)
		if tagErr != nil {
			return nil, docver.Errorf(docver.ENOTFOUND, "unknown revision: %s", version)
		}
		if commit, err = tag.Commit(); err != nil {
			return nil, docver.Errorf(docver.ENOTFOUND, "unknown revision: %s", version)
		}
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "read tree of %s: %v", version, err)
	}

	if s.dir == "" {
		return tree, nil
	}
	sub, err := tree.Tree(s.dir)
	if errors.Is(err, object.ErrDirectoryNotFound) {
		return nil, docver.Errorf(docver.ENOTFOUND, "no %s directory at %s", s.dir, version)
	} else if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "read %s@%s: %v", s.dir, version, err)
	}
	return sub, nil
}

func (s *ContentSource) candidates(p string) []string {
	exts := []string{extMarkdown}
	if s.converter != nil {
		exts = append(exts, extHTML)
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
	case ext == extMarkdown:
		return strings.TrimSuffix(filename, ext), true
	case ext == extHTML && s.converter != nil:
		return strings.TrimSuffix(filename, ext), true
	}
	return "", false
}

func (s *ContentSource) parse(p, filename string, data []byte) (*docver.RawDocument, error) {
	if path.Ext(filename) == extHTML {
		doc, err := s.converter.ConvertDocument(p, data)
		if err != nil {
			if docver.ErrorCode(err) == docver.EINTERNAL {
				return nil, docver.Errorf(docver.EINVALID, "convert %s: %v", filename, err)
			}
			return nil, err
		}
		doc.Fingerprint = yaml.Fingerprint(nil, data)
		return doc, nil
	}
	return yaml.ParseDocument(p, data)
}

func validDocPath(p string) bool {
	if p == "" || strings.HasPrefix(p, "/") {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." || skipName(seg) {
			return false
		}
	}
	return true
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
