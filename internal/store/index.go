package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// IndexFile is the index database name inside the write folder
const IndexFile = ".nbedit.db"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	slug     TEXT PRIMARY KEY,
	title    TEXT NOT NULL,
	path     TEXT NOT NULL,
	saved_at INTEGER NOT NULL,
	saves    INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS images (
	filename    TEXT PRIMARY KEY,
	slug        TEXT NOT NULL,
	original    TEXT NOT NULL,
	size        INTEGER NOT NULL,
	uploaded_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS images_slug ON images(slug);
`

// Index is a SQLite ledger of saved documents and uploaded images
type Index struct {
	db *sql.DB
}

// DocumentEntry is one row of the document listing
type DocumentEntry struct {
	Slug    string
	Title   string
	Path    string
	SavedAt time.Time
	Saves   int
	Images  int
}

// OpenIndex opens or creates the index database at path. ":memory:" works
// for tests.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	// one connection keeps an in-memory database alive and serializes writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the database
func (i *Index) Close() error {
	return i.db.Close()
}

// RecordSave upserts a document row and bumps its save count
func (i *Index) RecordSave(slug, title, path string, at time.Time) error {
	_, err := i.db.Exec(`
		INSERT INTO documents (slug, title, path, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			title = excluded.title,
			path = excluded.path,
			saved_at = excluded.saved_at,
			saves = documents.saves + 1`,
		slug, title, path, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record save: %w", err)
	}
	return nil
}

// RecordUpload adds an uploaded image
func (i *Index) RecordUpload(slug, filename, original string, size int64, at time.Time) error {
	_, err := i.db.Exec(`
		INSERT OR REPLACE INTO images (filename, slug, original, size, uploaded_at)
		VALUES (?, ?, ?, ?, ?)`,
		filename, slug, original, size, at.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}
	return nil
}

// Documents lists saved documents, most recently saved first, with the
// number of images uploaded into each.
func (i *Index) Documents() ([]DocumentEntry, error) {
	rows, err := i.db.Query(`
		SELECT d.slug, d.title, d.path, d.saved_at, d.saves,
			(SELECT COUNT(*) FROM images im WHERE im.slug = d.slug)
		FROM documents d
		ORDER BY d.saved_at DESC, d.slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var entries []DocumentEntry
	for rows.Next() {
		var e DocumentEntry
		var savedAt int64
		if err := rows.Scan(&e.Slug, &e.Title, &e.Path, &savedAt, &e.Saves, &e.Images); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		e.SavedAt = time.UnixMilli(savedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
