package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"pdfchat/internal/domain"
	"pdfchat/internal/embedding"
)

// FileName is the database file inside an index directory.
const FileName = "index.db"

const formatVersion = 1

const schema = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value BLOB
);
CREATE TABLE documents (
	seq       INTEGER PRIMARY KEY,
	id        TEXT NOT NULL,
	text      TEXT NOT NULL,
	source    TEXT NOT NULL,
	page      INTEGER NOT NULL,
	chunk     INTEGER NOT NULL,
	embedding BLOB
);`

func openDB(path string) (*sql.DB, error) { return sql.Open("sqlite", path) }

// Save writes the index to dir/index.db, replacing any previous index.
// The database is written to a temporary file first and renamed into place.
func (ix *Index) Save(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, FileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := ix.write(ctx, tmpPath); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	return os.Rename(tmpPath, filepath.Join(dir, FileName))
}

func (ix *Index) write(ctx context.Context, path string) error {
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	var state []byte
	if s, ok := ix.embedder.(embedding.Stateful); ok {
		if state, err = s.State(); err != nil {
			return fmt.Errorf("embedder state: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return err
	}
	meta := map[string]any{
		"format_version": strconv.Itoa(formatVersion),
		"embedder":       ix.EmbedderName(),
		"dimension":      strconv.Itoa(ix.Dimension()),
		"count":          strconv.Itoa(ix.Len()),
		"embedder_state": state,
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta(key, value) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO documents(seq, id, text, source, page, chunk, embedding) VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	docs, vectors := ix.store.All()
	for i, d := range docs {
		if _, err := stmt.ExecContext(ctx, i, d.ID, d.Text, d.Source, d.Page, d.Chunk, encodeVector(vectors[i])); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load reads the index stored in dir. It returns ErrNotFound when there is
// no index and ErrIncompatible when the stored index is damaged or was built
// by a different embedder. A stateful embedder is restored from the index.
func Load(ctx context.Context, dir string, embedder embedding.Embedder) (*Index, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	db, err := openDB(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	defer db.Close()

	meta, err := readMeta(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("%w: reading meta: %v", ErrIncompatible, err)
	}
	if v := string(meta["format_version"]); v != strconv.Itoa(formatVersion) {
		return nil, fmt.Errorf("%w: unsupported format version %q", ErrIncompatible, v)
	}
	if name := string(meta["embedder"]); name != embedder.Name() {
		return nil, fmt.Errorf("%w: built with embedder %q, current embedder is %q", ErrIncompatible, name, embedder.Name())
	}
	dim, err := strconv.Atoi(string(meta["dimension"]))
	if err != nil {
		return nil, fmt.Errorf("%w: bad dimension: %v", ErrIncompatible, err)
	}
	count, err := strconv.Atoi(string(meta["count"]))
	if err != nil {
		return nil, fmt.Errorf("%w: bad count: %v", ErrIncompatible, err)
	}

	if s, ok := embedder.(embedding.Stateful); ok {
		if err := s.Restore(meta["embedder_state"]); err != nil {
			return nil, fmt.Errorf("%w: restoring embedder: %v", ErrIncompatible, err)
		}
	}
	if d := embedder.Dimension(); d > 0 && d != dim {
		return nil, fmt.Errorf("%w: dimension %d, embedder produces %d", ErrIncompatible, dim, d)
	}

	docs, vectors, err := readDocuments(ctx, db, dim)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	if len(docs) != count {
		return nil, fmt.Errorf("%w: expected %d documents, found %d", ErrIncompatible, count, len(docs))
	}
	return newIndex(embedder, dim, docs, vectors)
}

func readMeta(ctx context.Context, db *sql.DB) (map[string][]byte, error) {
	rows, err := db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := make(map[string][]byte)
	for rows.Next() {
		var (
			k string
			v []byte
		)
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

func readDocuments(ctx context.Context, db *sql.DB, dim int) ([]domain.Document, [][]float32, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, text, source, page, chunk, embedding FROM documents ORDER BY seq`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var (
		docs    []domain.Document
		vectors [][]float32
	)
	for rows.Next() {
		var (
			d    domain.Document
			blob []byte
		)
		if err := rows.Scan(&d.ID, &d.Text, &d.Source, &d.Page, &d.Chunk, &blob); err != nil {
			return nil, nil, err
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, nil, fmt.Errorf("document %s: %w", d.ID, err)
		}
		if len(vec) != dim {
			return nil, nil, fmt.Errorf("document %s: vector length %d, want %d", d.ID, len(vec), dim)
		}
		docs = append(docs, d)
		vectors = append(vectors, vec)
	}
	return docs, vectors, rows.Err()
}
