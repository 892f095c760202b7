package db

import "fmt"

const currentVersion = 2

func (d *DB) migrate() error {
	if _, err := d.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	var version int
	err := d.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return fmt.Errorf("getting schema version: %w", err)
	}
	if version > currentVersion {
		return fmt.Errorf("database schema v%d is newer than this build supports (v%d)", version, currentVersion)
	}

	migrations := []func(*DB) error{
		migrateV1,
		migrateV2,
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](d); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := d.Exec("INSERT INTO schema_migrations (version) VALUES (?)", i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}

	return nil
}

func migrateV1(d *DB) error {
	statements := []string{
		`CREATE TABLE sync_runs (
			id TEXT PRIMARY KEY,
			source_path TEXT NOT NULL,
			source_format TEXT NOT NULL,
			target_path TEXT NOT NULL,
			target_encrypted INTEGER DEFAULT 0,
			dest_path TEXT NOT NULL,
			mod_count INTEGER NOT NULL,
			synced_at DATETIME NOT NULL
		)`,
		`CREATE TABLE sync_run_mods (
			run_id TEXT NOT NULL REFERENCES sync_runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			mod_id TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			PRIMARY KEY(run_id, position)
		)`,
	}
	return execAll(d, statements)
}

// migrateV2 records where the previous destination was backed up
func migrateV2(d *DB) error {
	statements := []string{
		`ALTER TABLE sync_runs ADD COLUMN backup_path TEXT NOT NULL DEFAULT ''`,
		`CREATE INDEX idx_sync_runs_dest ON sync_runs(dest_path)`,
	}
	return execAll(d, statements)
}

func execAll(d *DB, statements []string) error {
	for _, stmt := range statements {
		if _, err := d.Exec(stmt); err != nil {
			snippet := stmt
			if len(snippet) > 50 {
				snippet = snippet[:50]
			}
			return fmt.Errorf("executing %q: %w", snippet, err)
		}
	}
	return nil
}
