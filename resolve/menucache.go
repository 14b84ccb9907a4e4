package resolve

import (
	"context"
	"log/slog"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/bloom"
)

// Menu is a cached menu tree with its lazily built lookup structures.
// A Menu is immutable once cached; Index and Filter are computed at most once.
type Menu struct {
	Tree        *docver.MenuDir
	Fingerprint string

	indexOnce sync.Once
	index     docver.MenuIndex

	filterOnce sync.Once
	filter     *bloom.PathFilter
}

// Index returns the menu index, building it on first use.
func (m *Menu) Index() docver.MenuIndex {
	m.indexOnce.Do(func() {
		m.index = docver.BuildMenuIndex(m.Tree)
	})
	return m.index
}

// Filter returns a Bloom filter over every document path the menu can
// resolve, including "dir/index" aliases of directory index documents.
func (m *Menu) Filter() *bloom.PathFilter {
	m.filterOnce.Do(func() {
		paths := m.Tree.DocPaths()
		_ = m.Tree.Walk(func(dir *docver.MenuDir) error {
			if dir.HasIndex && dir.Path != "" {
				paths = append(paths, path.Join(dir.Path, docver.IndexName))
			}
			return nil
		})
		m.filter = bloom.NewPathFilter(paths, bloom.DefaultFalsePositiveRate)
	})
	return m.filter
}

// MenuCache caches menus per version. A rebuilt tree with an unchanged
// fingerprint reuses the cached Menu, so its index is not rebuilt.
type MenuCache struct {
	builder *MenuBuilder
	cache   *ttlCache[*Menu]
}

// NewMenuCache creates a MenuCache. A ttl of zero disables caching.
func NewMenuCache(builder *MenuBuilder, ttl, fetchTimeout time.Duration, logger *slog.Logger) *MenuCache {
	return &MenuCache{
		builder: builder,
		cache:   newTTLCache[*Menu]("menus", ttl, fetchTimeout, logger),
	}
}

// Get returns the menu of a version.
func (c *MenuCache) Get(ctx context.Context, version string) (*Menu, error) {
	return c.cache.get(ctx, version, func(ctx context.Context) (*Menu, error) {
		tree, err := c.builder.GetMenu(ctx, version)
		if err != nil {
			return nil, err
		}

		fp := Fingerprint(tree)
		if prev, ok := c.cache.previous(version); ok && prev.Fingerprint == fp {
			return prev, nil
		}
		return &Menu{Tree: tree, Fingerprint: fp}, nil
	})
}

// Peek returns the cached menu of a version without building it.
func (c *MenuCache) Peek(version string) (*Menu, bool) {
	return c.cache.peek(version)
}

// Invalidate forces menus to be rebuilt on next use.
func (c *MenuCache) Invalidate() {
	c.cache.invalidate()
}

// Fingerprint identifies a menu tree by its structure, titles and attributes.
func Fingerprint(root *docver.MenuDir) string {
	h := xxhash.New()
	write := func(parts ...string) {
		for _, p := range parts {
			_, _ = h.WriteString(p)
			_, _ = h.Write([]byte{0})
		}
	}

	_ = root.Walk(func(dir *docver.MenuDir) error {
		write("d", dir.Path, dir.Title, strconv.FormatBool(dir.HasIndex), strconv.Itoa(len(dir.Dirs)))
		for _, f := range dir.Files {
			attrs, _ := f.Attributes.MarshalJSON()
			write("f", f.Path, f.Title, string(attrs))
		}
		return nil
	})
	return strconv.FormatUint(h.Sum64(), 16)
}
