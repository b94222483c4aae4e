// Package store maintains a SQLite cache over merged reference CSVs. The
// CSV stays the source of truth; the database is a disposable index for
// ad-hoc SQL and full-text search, rebuilt wholesale on every sync.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"refsift/internal/tabular"
)

// refColumns are the cache table columns, in CSV output order.
var refColumns = []string{"title", "authors", "year", "doi", "url", "querysets"}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS refs (
  title TEXT,
  authors TEXT,
  year TEXT,
  doi TEXT,
  url TEXT,
  querysets TEXT
);
CREATE INDEX IF NOT EXISTS idx_refs_doi ON refs(doi);
CREATE VIRTUAL TABLE IF NOT EXISTS refs_fts USING fts5(title, authors, doi);
`

// DB wraps the SQLite handle.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the cache database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Sync replaces the cache contents with the rows of a merged CSV. The
// table's header is matched to the cache columns case-insensitively; a
// header column with no counterpart is ignored, a cache column with no
// counterpart loads as empty. The whole replacement runs in one
// transaction, so readers see either the old or the new dataset.
func (d *DB) Sync(t tabular.Table) (int, error) {
	colIdx := make([]int, len(refColumns))
	for i, col := range refColumns {
		colIdx[i] = -1
		for j, h := range t.Header {
			if strings.EqualFold(h, col) {
				colIdx[i] = j
				break
			}
		}
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"refs", "refs_fts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	insertRefs, err := tx.Prepare(fmt.Sprintf(
		"INSERT INTO refs (%s) VALUES (?, ?, ?, ?, ?, ?)",
		strings.Join(refColumns, ", ")))
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer insertRefs.Close()

	insertFTS, err := tx.Prepare("INSERT INTO refs_fts (title, authors, doi) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer insertFTS.Close()

	for _, row := range t.Rows {
		vals := make([]any, len(refColumns))
		for i, idx := range colIdx {
			vals[i] = tabular.Cell(row, idx)
		}
		if _, err := insertRefs.Exec(vals...); err != nil {
			return 0, fmt.Errorf("inserting row: %w", err)
		}
		// vals order follows refColumns: title, authors, _, doi, ...
		if _, err := insertFTS.Exec(vals[0], vals[1], vals[3]); err != nil {
			return 0, fmt.Errorf("inserting fts row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing sync: %w", err)
	}
	return len(t.Rows), nil
}

// Query executes a SQL query and returns the result columns and rows,
// with every value rendered as a string.
func (d *DB) Query(query string) ([]string, [][]string, error) {
	rows, err := d.db.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, nil, err
		}

		row := make([]string, len(cols))
		for i, v := range values {
			switch val := v.(type) {
			case nil:
				row[i] = ""
			case []byte:
				row[i] = string(val)
			default:
				row[i] = fmt.Sprintf("%v", val)
			}
		}
		out = append(out, row)
	}

	return cols, out, rows.Err()
}

// Count returns the number of cached references.
func (d *DB) Count() (int, error) {
	var n int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM refs").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
