package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/fwojciec/docver/fs"
	"github.com/fwojciec/docver/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkImport compares import performance between WAL and rollback
// journal modes for a tree of many small documents.
func BenchmarkImport(b *testing.B) {
	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkImport(b, false)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkImport(b, true)
	})
}

func benchmarkImport(b *testing.B, useWAL bool) {
	b.Helper()

	dbPath := filepath.Join(b.TempDir(), "bench.db")
	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	ctx := context.Background()
	if !useWAL {
		_, err := db.ExecContext(ctx, "PRAGMA journal_mode = DELETE")
		require.NoError(b, err)
	}

	defer func() {
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	tree := fstest.MapFS{}
	for i := 0; i < 200; i++ {
		name := fmt.Sprintf("main/section-%d/page-%d.md", i%10, i)
		tree[name] = &fstest.MapFile{Data: []byte(fmt.Sprintf("---\ntitle: Page %d\n---\n# Page %d\n\nBody text.\n", i, i))}
	}
	src := fs.NewFSContentSource(tree)
	svc := sqlite.NewSnapshotService(db)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := svc.Import(ctx, src, "bench")
		require.NoError(b, err)
	}
}
