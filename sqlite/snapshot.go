package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docver"
	"github.com/google/uuid"
)

// Snapshot describes one imported copy of a content source.
type Snapshot struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Versions  int
	Documents int
}

// SnapshotService imports content sources into the database.
type SnapshotService struct {
	db *DB
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// Import copies every version, directory listing and document of src into a
// new snapshot and makes it the active one. Previous snapshots are removed.
// The import runs in one transaction: readers see either the old or the new
// snapshot, never a partial one.
func (s *SnapshotService) Import(ctx context.Context, src docver.ContentSource, source string) (*Snapshot, error) {
	versions, err := src.ListVersions(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	snap := &Snapshot{
		ID:        uuid.New().String(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Versions:  len(versions),
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, source, active, created_at) VALUES (?, ?, 0, ?)
	`, snap.ID, snap.Source, snap.CreatedAt.Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}

	// Several heads may alias one version; its tree is imported once.
	imported := make(map[string]bool, len(versions))
	for i, v := range versions {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO versions (snapshot_id, position, version, head, is_latest) VALUES (?, ?, ?, ?, ?)
		`, snap.ID, i, v.Version, v.Head, v.IsLatest); err != nil {
			return nil, fmt.Errorf("insert version %s: %w", v.Head, err)
		}

		if imported[v.Version] {
			continue
		}
		imported[v.Version] = true

		n, err := importVersion(ctx, tx, snap.ID, src, v.Version)
		if err != nil {
			return nil, fmt.Errorf("import version %s: %w", v.Head, err)
		}
		snap.Documents += n
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id != ?`, snap.ID); err != nil {
		return nil, fmt.Errorf("prune snapshots: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE snapshots SET active = 1 WHERE id = ?`, snap.ID); err != nil {
		return nil, fmt.Errorf("activate snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return snap, nil
}

// importVersion walks one version's tree with an explicit worklist.
func importVersion(ctx context.Context, tx *sql.Tx, snapshotID string, src docver.ContentSource, version string) (int, error) {
	docs := 0
	queue := []string{""}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := src.ListDirectory(ctx, version, dir)
		if err != nil {
			// A version whose root is missing is imported as empty.
			if dir == "" && docver.ErrorCode(err) == docver.ENOTFOUND {
				return 0, nil
			}
			return 0, err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO directories (snapshot_id, version, path) VALUES (?, ?, ?)
		`, snapshotID, version, dir); err != nil {
			return 0, fmt.Errorf("insert directory %q: %w", dir, err)
		}

		for i, e := range entries {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO entries (snapshot_id, version, dir, position, name, path, is_dir) VALUES (?, ?, ?, ?, ?, ?, ?)
			`, snapshotID, version, dir, i, e.Name, e.Path, e.IsDir); err != nil {
				return 0, fmt.Errorf("insert entry %s: %w", e.Path, err)
			}

			if e.IsDir {
				queue = append(queue, e.Path)
				continue
			}

			doc, err := src.GetDocument(ctx, version, e.Path)
			if err != nil {
				return 0, fmt.Errorf("get document %s: %w", e.Path, err)
			}
			if err := insertDocument(ctx, tx, snapshotID, version, e.Path, doc); err != nil {
				return 0, err
			}
			docs++
		}
	}
	return docs, nil
}

func insertDocument(ctx context.Context, tx *sql.Tx, snapshotID, version, path string, doc *docver.RawDocument) error {
	attrs, err := json.Marshal(doc.Attributes)
	if err != nil {
		return fmt.Errorf("encode attributes of %s: %w", path, err)
	}

	fingerprint := doc.Fingerprint
	if fingerprint == "" {
		fingerprint = hashContent(doc.Content)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (snapshot_id, version, path, content, attributes, fingerprint) VALUES (?, ?, ?, ?, ?, ?)
	`, snapshotID, version, path, doc.Content, string(attrs), fingerprint)
	if err != nil {
		return fmt.Errorf("insert document %s: %w", path, err)
	}
	return nil
}

// ActiveSnapshot returns the snapshot currently served.
// Returns ENOTFOUND if nothing has been imported.
func (s *SnapshotService) ActiveSnapshot(ctx context.Context) (*Snapshot, error) {
	return activeSnapshot(ctx, s.db)
}

func activeSnapshot(ctx context.Context, db *DB) (*Snapshot, error) {
	var snap Snapshot
	var createdAt string

	err := db.QueryRowContext(ctx, `
		SELECT s.id, s.source, s.created_at,
			(SELECT COUNT(*) FROM versions v WHERE v.snapshot_id = s.id),
			(SELECT COUNT(*) FROM documents d WHERE d.snapshot_id = s.id)
		FROM snapshots s
		WHERE s.active = 1
	`).Scan(&snap.ID, &snap.Source, &createdAt, &snap.Versions, &snap.Documents)
	if err == sql.ErrNoRows {
		return nil, docver.Errorf(docver.ENOTFOUND, "no snapshot imported")
	}
	if err != nil {
		return nil, err
	}

	snap.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return &snap, nil
}
