/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Keeps imported datasets across restarts. Each record is stored as the JSON
  it was decoded from (re-encoded in the source shape), so the board can be
  rebuilt exactly as the document described it.

KEY TABLES:
  datasets: One row per dataset name, with its last replace time
  records:  One row per source record, keyed by (dataset, ordinal)

ORDERING:
  The ordinal column is the record's position in the imported document.
  Records() reads ORDER BY ordinal, so row order on the board follows the
  document.

ATOMIC REPLACE:
  Replace() deletes and re-inserts a dataset's records inside one SQL
  transaction. Readers never see a half-imported dataset.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. ":memory:" databases are pinned to a
  single connection because every SQLite connection opens its own private
  in-memory database.

WAL MODE:
  File databases are opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  s, err := sqlite.New("./data/board.db")
  if err != nil {
      log.Fatal(err)
  }
  defer s.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory/memory.go: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/utilisation-board/dataset"
	"github.com/warp/utilisation-board/store"
	"github.com/warp/utilisation-board/workforce"
)

// Store implements store.Store using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

var _ store.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		name TEXT PRIMARY KEY,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS records (
		dataset TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
		ordinal INTEGER NOT NULL,
		kind TEXT NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (dataset, ordinal)
	);

	CREATE INDEX IF NOT EXISTS idx_records_dataset_kind
		ON records(dataset, kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DATASETS
// =============================================================================

// Replace stores records under name, replacing the previous content.
func (s *Store) Replace(ctx context.Context, name string, records []workforce.SourceRecord) error {
	if err := store.ValidateName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO datasets (name, updated_at) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at
	`, name, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to upsert dataset: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE dataset = ?`, name); err != nil {
		return fmt.Errorf("failed to clear dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (dataset, ordinal, kind, body) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		body, err := dataset.EncodeRecord(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, name, i, rec.Kind().String(), string(body)); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Records returns the dataset's records in document order.
func (s *Store) Records(ctx context.Context, name string) ([]workforce.SourceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.exists(ctx, name); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT body FROM records WHERE dataset = ? ORDER BY ordinal
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []workforce.SourceRecord{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		rec, err := dataset.DecodeRecord([]byte(body))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// List returns all datasets sorted by name.
func (s *Store) List(ctx context.Context) ([]store.DatasetInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT d.name, d.updated_at, COUNT(r.ordinal)
		FROM datasets d
		LEFT JOIN records r ON r.dataset = d.name
		GROUP BY d.name, d.updated_at
		ORDER BY d.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	infos := []store.DatasetInfo{}
	for rows.Next() {
		var info store.DatasetInfo
		var updatedAt string
		if err := rows.Scan(&info.Name, &updatedAt, &info.Records); err != nil {
			return nil, err
		}
		info.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: invalid updated_at %q: %w", info.Name, updatedAt, err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Delete removes the dataset and its records.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", store.ErrDatasetNotFound, name)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, name string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM datasets WHERE name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", store.ErrDatasetNotFound, name)
	}
	return err
}
