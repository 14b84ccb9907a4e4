package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/fwojciec/docver"
	"github.com/fwojciec/docver/fs"
	"github.com/fwojciec/docver/mock"
	"github.com/fwojciec/docver/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t testing.TB) *sqlite.DB {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tree(title string) fstest.MapFS {
	return fstest.MapFS{
		"versions.yaml":                {Data: []byte("versions:\n  - head: v2\n    version: v2.0.0\n    latest: true\n  - head: v1\n")},
		"v2.0.0/index.md":              {Data: []byte("---\ntitle: " + title + "\n---\n# Home\n")},
		"v2.0.0/guides/index.md":       {Data: []byte("---\ntitle: Guides\nsidebar: 2\n---\n")},
		"v2.0.0/guides/setup.md":       {Data: []byte("---\ntitle: Setup\ndisabled: true\n---\nSteps\n")},
		"v2.0.0/guides/empty/.keep":    {Data: []byte("")},
		"v2.0.0/api/hooks/use-data.md": {Data: []byte("# useData\n")},
		"v1/index.md":                  {Data: []byte("# v1\n")},
	}
}

func TestSnapshotService_Import(t *testing.T) {
	t.Parallel()

	t.Run("copies versions, listings and documents", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := openDB(t)
		svc := sqlite.NewSnapshotService(db)

		snap, err := svc.Import(ctx, fs.NewFSContentSource(tree("Home")), "fs:docs")
		require.NoError(t, err)
		assert.NotEmpty(t, snap.ID)
		assert.Equal(t, 2, snap.Versions)
		assert.Equal(t, 5, snap.Documents)

		src := sqlite.NewContentSource(db)

		versions, err := src.ListVersions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []docver.VersionHead{
			{Version: "v2.0.0", Head: "v2", IsLatest: true},
			{Version: "v1", Head: "v1"},
		}, versions)

		entries, err := src.ListDirectory(ctx, "v2.0.0", "guides")
		require.NoError(t, err)
		assert.Equal(t, []docver.Entry{
			{Name: "empty", Path: "guides/empty", IsDir: true},
			{Name: "index", Path: "guides/index"},
			{Name: "setup", Path: "guides/setup"},
		}, entries)

		empty, err := src.ListDirectory(ctx, "v2.0.0", "guides/empty")
		require.NoError(t, err)
		assert.Empty(t, empty)

		doc, err := src.GetDocument(ctx, "v2.0.0", "guides/setup")
		require.NoError(t, err)
		assert.Equal(t, "Setup", doc.Attributes.Title)
		assert.True(t, doc.Attributes.Disabled)
		assert.Equal(t, "Steps\n", doc.Content)
		assert.NotEmpty(t, doc.Fingerprint)
	})

	t.Run("directory path falls back to its index", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := openDB(t)
		_, err := sqlite.NewSnapshotService(db).Import(ctx, fs.NewFSContentSource(tree("Home")), "")
		require.NoError(t, err)

		doc, err := sqlite.NewContentSource(db).GetDocument(ctx, "v2.0.0", "guides")

		require.NoError(t, err)
		assert.Equal(t, "guides", doc.Path)
		assert.Equal(t, "Guides", doc.Attributes.Title)
		assert.EqualValues(t, 2, doc.Attributes.Extra["sidebar"])
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := openDB(t)
		_, err := sqlite.NewSnapshotService(db).Import(ctx, fs.NewFSContentSource(tree("Home")), "")
		require.NoError(t, err)
		src := sqlite.NewContentSource(db)

		_, err = src.GetDocument(ctx, "v2.0.0", "missing")
		assert.Equal(t, docver.ENOTFOUND, docver.ErrorCode(err))

		_, err = src.GetDocument(ctx, "v1", "guides/setup")
		assert.Equal(t, docver.ENOTFOUND, docver.ErrorCode(err))

		_, err = src.ListDirectory(ctx, "v2.0.0", "nope")
		assert.Equal(t, docver.ENOTFOUND, docver.ErrorCode(err))
	})

	t.Run("second import replaces the first", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := openDB(t)
		svc := sqlite.NewSnapshotService(db)

		first, err := svc.Import(ctx, fs.NewFSContentSource(tree("Old")), "")
		require.NoError(t, err)
		second, err := svc.Import(ctx, fs.NewFSContentSource(tree("New")), "")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)

		active, err := svc.ActiveSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, active.ID)
		assert.Equal(t, 5, active.Documents)

		doc, err := sqlite.NewContentSource(db).GetDocument(ctx, "v2.0.0", "index")
		require.NoError(t, err)
		assert.Equal(t, "New", doc.Attributes.Title)

		var snapshots int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&snapshots))
		assert.Equal(t, 1, snapshots)
	})

	t.Run("failed import keeps the active snapshot", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := openDB(t)
		svc := sqlite.NewSnapshotService(db)

		good, err := svc.Import(ctx, fs.NewFSContentSource(tree("Home")), "")
		require.NoError(t, err)

		broken := &mock.ContentSource{
			ListVersionsFn: func(context.Context) ([]docver.VersionHead, error) {
				return []docver.VersionHead{{Version: "v3", Head: "v3", IsLatest: true}}, nil
			},
			ListDirectoryFn: func(context.Context, string, string) ([]docver.Entry, error) {
				return []docver.Entry{{Name: "index", Path: "index"}}, nil
			},
			GetDocumentFn: func(context.Context, string, string) (*docver.RawDocument, error) {
				return nil, errors.New("disk failure")
			},
		}

		_, err = svc.Import(ctx, broken, "")
		require.Error(t, err)

		active, err := svc.ActiveSnapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, good.ID, active.ID)
	})

	t.Run("version without a root imports empty", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		db := openDB(t)

		src := &mock.ContentSource{
			ListVersionsFn: func(context.Context) ([]docver.VersionHead, error) {
				return []docver.VersionHead{{Version: "ghost", Head: "ghost"}}, nil
			},
			ListDirectoryFn: func(context.Context, string, string) ([]docver.Entry, error) {
				return nil, docver.Errorf(docver.ENOTFOUND, "directory not found")
			},
		}

		snap, err := sqlite.NewSnapshotService(db).Import(ctx, src, "")

		require.NoError(t, err)
		assert.Equal(t, 0, snap.Documents)
		_, err = sqlite.NewContentSource(db).ListDirectory(ctx, "ghost", "")
		assert.Equal(t, docver.ENOTFOUND, docver.ErrorCode(err))
	})
}

func TestSnapshotService_ImportAliasedHeads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openDB(t)
	fsys := fstest.MapFS{
		"versions.yaml":      {Data: []byte("versions:\n  - head: latest\n    version: v2\n    latest: true\n  - head: v2\n")},
		"v2/index.md":        {Data: []byte("# Home\n")},
		"v2/guides/intro.md": {Data: []byte("# Intro\n")},
	}

	snap, err := sqlite.NewSnapshotService(db).Import(ctx, fs.NewFSContentSource(fsys), "fs:docs")

	require.NoError(t, err)
	assert.Equal(t, 2, snap.Versions)
	assert.Equal(t, 2, snap.Documents)

	src := sqlite.NewContentSource(db)
	versions, err := src.ListVersions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []docver.VersionHead{
		{Version: "v2", Head: "latest", IsLatest: true},
		{Version: "v2", Head: "v2"},
	}, versions)

	doc, err := src.GetDocument(ctx, "v2", "guides/intro")
	require.NoError(t, err)
	assert.Equal(t, "# Intro\n", doc.Content)
}

func TestContentSource_NoSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openDB(t)
	src := sqlite.NewContentSource(db)

	_, err := src.ListVersions(ctx)
	assert.Equal(t, docver.EUNAVAILABLE, docver.ErrorCode(err))

	_, err = sqlite.NewSnapshotService(db).ActiveSnapshot(ctx)
	assert.Equal(t, docver.ENOTFOUND, docver.ErrorCode(err))
}
