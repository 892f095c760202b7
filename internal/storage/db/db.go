// Package db keeps the history of sync runs: one row per write to a profile, the
// mod list that was written, and the backup taken beforehand, so a run can be
// inspected or rolled back later.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory history, used by tests
const MemoryPath = ":memory:"

// DB is an open history database
type DB struct {
	*sql.DB
	Path string
}

// pragma is a connection setting applied right after opening
type pragma struct {
	stmt     string
	fileOnly bool
}

var pragmas = []pragma{
	// sync_run_mods rows are removed with their run
	{stmt: "PRAGMA foreign_keys = ON"},
	// Two trucksync processes may record runs at the same time
	{stmt: "PRAGMA busy_timeout = 5000", fileOnly: true},
	{stmt: "PRAGMA journal_mode = WAL", fileOnly: true},
}

// New opens the history at path, creating and migrating it as needed
func New(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}

	inMemory := path == MemoryPath
	if inMemory {
		// Every connection would get its own empty database
		sqlDB.SetMaxOpenConns(1)
	}

	for _, p := range pragmas {
		if p.fileOnly && inMemory {
			continue
		}
		if _, err := sqlDB.Exec(p.stmt); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("history %s: %s: %w", path, p.stmt, err)
		}
	}

	database := &DB{DB: sqlDB, Path: path}
	if err := database.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating history %s: %w", path, err)
	}

	return database, nil
}
