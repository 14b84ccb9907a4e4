package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path"

	"github.com/fwojciec/docver"
)

// Ensure ContentSource implements docver.ContentSource at compile time.
var _ docver.ContentSource = (*ContentSource)(nil)

// ContentSource serves the active snapshot.
type ContentSource struct {
	db *DB
}

// NewContentSource creates a new ContentSource.
func NewContentSource(db *DB) *ContentSource {
	return &ContentSource{db: db}
}

func (s *ContentSource) snapshotID(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM snapshots WHERE active = 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", docver.Errorf(docver.EUNAVAILABLE, "no snapshot imported")
	}
	if err != nil {
		return "", docver.Errorf(docver.EUNAVAILABLE, "read active snapshot: %v", err)
	}
	return id, nil
}

// ListVersions returns the versions of the active snapshot in import order.
func (s *ContentSource) ListVersions(ctx context.Context) ([]docver.VersionHead, error) {
	id, err := s.snapshotID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT version, head, is_latest FROM versions WHERE snapshot_id = ? ORDER BY position
	`, id)
	if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "list versions: %v", err)
	}
	defer rows.Close()

	var versions []docver.VersionHead
	for rows.Next() {
		var v docver.VersionHead
		if err := rows.Scan(&v.Version, &v.Head, &v.IsLatest); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// GetDocument returns the document stored under p, falling back to the index
// document when p names a directory.
func (s *ContentSource) GetDocument(ctx context.Context, version, p string) (*docver.RawDocument, error) {
	id, err := s.snapshotID(ctx)
	if err != nil {
		return nil, err
	}

	for _, key := range []string{p, path.Join(p, docver.IndexName)} {
		doc, err := s.findDocument(ctx, id, version, key)
		if docver.ErrorCode(err) == docver.ENOTFOUND {
			continue
		}
		if err != nil {
			return nil, err
		}
		doc.Path = p
		return doc, nil
	}
	return nil, docver.Errorf(docver.ENOTFOUND, "document not found: %s", p)
}

func (s *ContentSource) findDocument(ctx context.Context, snapshotID, version, key string) (*docver.RawDocument, error) {
	var doc docver.RawDocument
	var attrs string

	err := s.db.QueryRowContext(ctx, `
		SELECT path, content, attributes, fingerprint
		FROM documents
		WHERE snapshot_id = ? AND version = ? AND path = ?
	`, snapshotID, version, key).Scan(&doc.Path, &doc.Content, &attrs, &doc.Fingerprint)
	if err == sql.ErrNoRows {
		return nil, docver.Errorf(docver.ENOTFOUND, "document not found: %s", key)
	}
	if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "read document %s: %v", key, err)
	}

	if err := json.Unmarshal([]byte(attrs), &doc.Attributes); err != nil {
		return nil, fmt.Errorf("decode attributes of %s: %w", key, err)
	}
	return &doc, nil
}

// ListDirectory returns the entries of dir in the order they were imported.
func (s *ContentSource) ListDirectory(ctx context.Context, version, dir string) ([]docver.Entry, error) {
	id, err := s.snapshotID(ctx)
	if err != nil {
		return nil, err
	}

	var exists int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM directories WHERE snapshot_id = ? AND version = ? AND path = ?
	`, id, version, dir).Scan(&exists)
	if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "read directory %q: %v", dir, err)
	}
	if exists == 0 {
		return nil, docver.Errorf(docver.ENOTFOUND, "directory not found: %s", dir)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, path, is_dir FROM entries
		WHERE snapshot_id = ? AND version = ? AND dir = ?
		ORDER BY position
	`, id, version, dir)
	if err != nil {
		return nil, docver.Errorf(docver.EUNAVAILABLE, "list directory %q: %v", dir, err)
	}
	defer rows.Close()

	entries := []docver.Entry{}
	for rows.Next() {
		var e docver.Entry
		if err := rows.Scan(&e.Name, &e.Path, &e.IsDir); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
