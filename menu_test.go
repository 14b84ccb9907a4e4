package docver_test

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/fwojciec/docver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMenu() *docver.MenuDir {
	return &docver.MenuDir{
		Path:     "",
		Title:    "Docs",
		HasIndex: true,
		Files: []*docver.MenuFile{
			{Path: "changelog", Title: "Changelog"},
		},
		Dirs: []*docver.MenuDir{
			{
				Path:     "guides",
				Title:    "Guides",
				HasIndex: true,
				Files: []*docver.MenuFile{
					{Path: "guides/quick-start", Title: "Quick Start"},
					{Path: "guides/routing", Title: "Routing"},
				},
				Dirs: []*docver.MenuDir{
					{
						Path:  "guides/advanced",
						Title: "Advanced",
						Files: []*docver.MenuFile{
							{Path: "guides/advanced/ssr", Title: "SSR"},
						},
					},
				},
			},
			{
				Path:  "api",
				Title: "API",
				Files: []*docver.MenuFile{
					{Path: "api/hooks", Title: "Hooks"},
				},
			},
		},
	}
}

func filePaths(root *docver.MenuDir) []string {
	var paths []string
	_ = root.Walk(func(dir *docver.MenuDir) error {
		for _, f := range dir.Files {
			paths = append(paths, f.Path)
		}
		return nil
	})
	return paths
}

func TestBuildMenuIndex(t *testing.T) {
	t.Parallel()

	t.Run("key set equals every reachable file path", func(t *testing.T) {
		t.Parallel()

		root := testMenu()

		idx := docver.BuildMenuIndex(root)

		keys := make([]string, 0, len(idx))
		for k := range idx {
			keys = append(keys, k)
		}
		want := filePaths(root)
		sort.Strings(keys)
		sort.Strings(want)
		assert.Equal(t, want, keys)
	})

	t.Run("maps files to their immediate directory", func(t *testing.T) {
		t.Parallel()

		root := testMenu()

		idx := docver.BuildMenuIndex(root)

		assert.Same(t, root, idx["changelog"])
		assert.Same(t, root.Dirs[0], idx["guides/quick-start"])
		assert.Same(t, root.Dirs[0].Dirs[0], idx["guides/advanced/ssr"])
		assert.Same(t, root.Dirs[1], idx["api/hooks"])
	})

	t.Run("maps child files to child even when parent has no files", func(t *testing.T) {
		t.Parallel()

		child := &docver.MenuDir{
			Path:     "guides",
			HasIndex: true,
			Files:    []*docver.MenuFile{{Path: "guides/intro"}},
		}
		root := &docver.MenuDir{Files: []*docver.MenuFile{}, Dirs: []*docver.MenuDir{child}}

		idx := docver.BuildMenuIndex(root)

		dir, ok := idx.Lookup("guides/intro")
		require.True(t, ok)
		assert.Same(t, child, dir)
		assert.Len(t, idx, 1)
	})

	t.Run("handles deep nesting", func(t *testing.T) {
		t.Parallel()

		root := &docver.MenuDir{}
		cur := root
		for i := 0; i < 10000; i++ {
			next := &docver.MenuDir{
				Path:  fmt.Sprintf("d%d", i),
				Files: []*docver.MenuFile{{Path: fmt.Sprintf("f%d", i)}},
			}
			cur.Dirs = []*docver.MenuDir{next}
			cur = next
		}

		idx := docver.BuildMenuIndex(root)

		assert.Len(t, idx, 10000)
		assert.Same(t, cur, idx["f9999"])
	})

	t.Run("is pure", func(t *testing.T) {
		t.Parallel()

		root := testMenu()

		assert.Equal(t, docver.BuildMenuIndex(root), docver.BuildMenuIndex(root))
	})

	t.Run("returns empty index for nil tree", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, docver.BuildMenuIndex(nil))
	})
}

func TestMenuDir_Walk(t *testing.T) {
	t.Parallel()

	t.Run("visits in pre-order menu order", func(t *testing.T) {
		t.Parallel()

		var visited []string
		err := testMenu().Walk(func(dir *docver.MenuDir) error {
			visited = append(visited, dir.Path)
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"", "guides", "guides/advanced", "api"}, visited)
	})

	t.Run("stops at first error", func(t *testing.T) {
		t.Parallel()

		stop := errors.New("stop")
		count := 0
		err := testMenu().Walk(func(dir *docver.MenuDir) error {
			count++
			if dir.Path == "guides" {
				return stop
			}
			return nil
		})

		assert.ErrorIs(t, err, stop)
		assert.Equal(t, 2, count)
	})
}

func TestMenuDir_DocPaths(t *testing.T) {
	t.Parallel()

	paths := testMenu().DocPaths()

	assert.ElementsMatch(t, []string{
		"index", "changelog",
		"guides", "guides/quick-start", "guides/routing",
		"guides/advanced/ssr",
		"api/hooks",
	}, paths)
}
