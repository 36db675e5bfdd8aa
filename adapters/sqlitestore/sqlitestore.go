// Package sqlitestore persists decoded messages to a relational sink via
// sqlx: sqlx.Open against a driver name and DSN the caller supplies
// (this package registers no driver of its own), one prepared insert
// statement, and one transaction per batch.
package sqlitestore

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/novatel/novadec/pkg/message"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS messages (
	message_name TEXT NOT NULL,
	format       TEXT NOT NULL,
	week         INTEGER NOT NULL,
	milliseconds INTEGER NOT NULL,
	flat_binary  BLOB,
	body_json    TEXT,
	recorded_at  DATETIME NOT NULL
)`

const insertSQL = `
INSERT INTO messages (message_name, format, week, milliseconds, flat_binary, body_json, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// Store batches decoded frames into a SQL table, one row per message.
type Store struct {
	db *sqlx.DB
}

// Open connects via driverName/dsn (e.g. "sqlite3", "./novadec.db") and
// ensures the messages table exists.
func Open(driverName, dsn string) (*Store, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// InsertBatch writes every header/flat-binary/JSON triple in one
// begin/prepare/exec-loop/commit transaction.
func (s *Store) InsertBatch(rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	stmt, err := tx.Preparex(insertSQL)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for _, r := range rows {
		if _, err := stmt.Exec(r.Header.MessageName, r.Header.Format.String(), r.Header.Week, r.Header.Milliseconds, r.FlatBinary, r.JSON, now); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Row is one decoded frame queued for persistence.
type Row struct {
	Header     *message.Header
	FlatBinary []byte
	JSON       []byte
}
