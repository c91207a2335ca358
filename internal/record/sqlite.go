// Package record provides optional sinks for persisting a running
// simulation's body state: a SQLite table of per-step snapshots and a
// compressed gob checkpoint stream, for offline analysis or replay.
package record

import (
	"database/sql"
	"fmt"
	"math"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS bodies (
	step   INTEGER,
	id     INTEGER,
	x      REAL,
	y      REAL,
	z      REAL,
	mass   REAL,
	radius REAL
);
`

const insertStmt = `INSERT INTO bodies VALUES (?, ?, ?, ?, ?, ?, ?);`

// Snapshot is the minimal per-body payload a recorder needs; callers
// build one per body from a gravity.Body's position, mass and radius
// plus an identity of their choosing.
type Snapshot struct {
	ID     uint32
	X, Y, Z float64
	Mass   float64
	Radius float64
}

// SQLiteRecorder persists one row per (step, body) into a SQLite
// table, one transaction per step. Opening an existing file is an
// error: a recording session owns a fresh database.
type SQLiteRecorder struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// NewSQLiteRecorder creates filename (which must not already exist)
// and initializes its schema.
func NewSQLiteRecorder(filename string) (*SQLiteRecorder, error) {
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("record: %s already exists", filename)
	}
	db, err := sql.Open("sqlite3", "file:"+filename+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("record: open %s: %w", filename, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("record: create schema: %w", err)
	}
	stmt, err := db.Prepare(insertStmt)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("record: prepare insert: %w", err)
	}
	return &SQLiteRecorder{db: db, stmt: stmt}, nil
}

// RecordStep writes one row per snapshot for the given step number,
// inside a single transaction.
func (r *SQLiteRecorder) RecordStep(step int, snapshots []Snapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("record: begin tx for step %d: %w", step, err)
	}
	txStmt := tx.Stmt(r.stmt)
	for _, s := range snapshots {
		_, err = txStmt.Exec(step, s.ID,
			math.Round(s.X), math.Round(s.Y), math.Round(s.Z),
			math.Round(s.Mass), math.Round(s.Radius))
		if err != nil {
			break
		}
	}
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("record: write step %d: %w", step, err)
	}
	return tx.Commit()
}

// Close closes the underlying database handle.
func (r *SQLiteRecorder) Close() error {
	r.stmt.Close()
	return r.db.Close()
}
