package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens a db at path.
// It will check stat of the db file before open it.
// It returns an error if the check or openning of the db failed.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path required")
	}
	_, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// Enable Write-Ahead Logging. See https://sqlite.org/wal.html
	if _, err := db.Exec(`PRAGMA journal_mode = wal;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	// A queue could be touched by several renderq processes at once.
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("busy timeout pragma: %w", err)
	}
	return db, nil
}

// Create creates a new initialized db.
// It is ok to call it on an existing db, tables those are missing will be created.
// It returns an error if failed to create the db.
func Create(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path required")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, err
	}
	defer tx.Rollback()
	err = CreateQueueTable(tx)
	if err != nil {
		db.Close()
		return nil, err
	}
	err = CreateRunsTable(tx)
	if err != nil {
		db.Close()
		return nil, err
	}
	err = tx.Commit()
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenOrCreate opens the db at path, or creates it when it doesn't exist.
func OpenOrCreate(path string) (*sql.DB, error) {
	db, err := Open(path)
	if err == nil {
		return db, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	db, err = Create(path)
	if err != nil {
		return nil, err
	}
	db.Close()
	// reopen to apply the pragmas.
	return Open(path)
}
