// Package store is the ledger store: tenant-scoped SQLite tables for
// bookings and master data with idempotent, chunked batch inserts. Every
// write carries an explicit tenant id; nothing is inferred from session
// state.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DefaultChunkSize bounds multi-VALUES inserts. Small chunks keep a single
// failure cheap to retry row-by-row.
const DefaultChunkSize = 50

// Store wraps the ledger database.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the ledger database with WAL mode and
// foreign keys enabled, and initializes the schema.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS buchungen (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		unternehmen_id INTEGER NOT NULL,
		buchungsart TEXT NOT NULL,
		belegdatum TEXT,
		belegnummer TEXT NOT NULL,
		buchungszeile INTEGER NOT NULL DEFAULT 0,
		geschaeftspartner_typ TEXT,
		geschaeftspartner TEXT,
		geschaeftspartner_konto TEXT,
		soll_konto TEXT NOT NULL,
		haben_konto TEXT NOT NULL,
		nettobetrag TEXT NOT NULL,
		steuersatz TEXT NOT NULL,
		bruttobetrag TEXT NOT NULL,
		buchungstext TEXT,
		status TEXT NOT NULL DEFAULT 'geprueft',
		wirtschaftsjahr INTEGER,
		periode INTEGER,
		beleg_id TEXT,
		import_quelle TEXT,
		import_datum TEXT,
		import_referenz TEXT,
		created_by TEXT,
		UNIQUE (unternehmen_id, belegnummer, buchungszeile)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_buchungen_datum
		ON buchungen (unternehmen_id, belegdatum)`,
	`CREATE TABLE IF NOT EXISTS sachkonten (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		unternehmen_id INTEGER NOT NULL,
		kontenrahmen TEXT NOT NULL,
		kontonummer TEXT NOT NULL,
		bezeichnung TEXT NOT NULL,
		UNIQUE (unternehmen_id, kontonummer)
	)`,
	`CREATE TABLE IF NOT EXISTS debitoren (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		unternehmen_id INTEGER NOT NULL,
		kontonummer TEXT NOT NULL,
		name TEXT NOT NULL,
		UNIQUE (unternehmen_id, kontonummer)
	)`,
	`CREATE TABLE IF NOT EXISTS kreditoren (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		unternehmen_id INTEGER NOT NULL,
		kontonummer TEXT NOT NULL,
		name TEXT NOT NULL,
		UNIQUE (unternehmen_id, kontonummer)
	)`,
}

func (s *Store) initSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
