// Package gcstore persists GC collection telemetry (spec.md §4.2's Stats)
// to a sqlite database, via database/sql and the pure-Go modernc.org/sqlite
// driver — no cgo, matching how the teacher's own deployment avoids cgo
// dependencies elsewhere in its toolchain.
package gcstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/coreclj/coreclj/internal/gc"
)

// Store records a time series of gc.Stats snapshots, one row per
// collection, for offline inspection; History reads the rows back.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) a sqlite database at path and ensures
// the collections table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("gcstore: opening %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS collections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	seq INTEGER NOT NULL,
	bytes_allocated INTEGER NOT NULL,
	alloc_count INTEGER NOT NULL,
	collect_count INTEGER NOT NULL,
	threshold INTEGER NOT NULL,
	recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`
	_, err := s.db.ExecContext(ctx, ddl)
	if err != nil {
		return fmt.Errorf("gcstore: migrate: %w", err)
	}
	return nil
}

// RecordCollection inserts one row snapshotting stats after a completed
// collection cycle. seq is a caller-maintained monotonic collection
// counter, since gc.Stats itself carries no sequence number.
func (s *Store) RecordCollection(ctx context.Context, seq int64, stats gc.Stats) error {
	const q = `INSERT INTO collections (seq, bytes_allocated, alloc_count, collect_count, threshold)
	           VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, seq, stats.BytesAllocated, stats.AllocCount, stats.CollectCount, stats.Threshold)
	if err != nil {
		return fmt.Errorf("gcstore: recording collection %d: %w", seq, err)
	}
	return nil
}

// CollectionRow is one recorded collection cycle, returned by History.
type CollectionRow struct {
	Seq            int64
	BytesAllocated int64
	AllocCount     int64
	CollectCount   int64
	Threshold      int64
}

// History returns up to limit most recent collection rows, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]CollectionRow, error) {
	const q = `SELECT seq, bytes_allocated, alloc_count, collect_count, threshold
	           FROM collections ORDER BY id DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("gcstore: querying history: %w", err)
	}
	defer rows.Close()

	var out []CollectionRow
	for rows.Next() {
		var r CollectionRow
		if err := rows.Scan(&r.Seq, &r.BytesAllocated, &r.AllocCount, &r.CollectCount, &r.Threshold); err != nil {
			return nil, fmt.Errorf("gcstore: scanning history row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Close() error { return s.db.Close() }
