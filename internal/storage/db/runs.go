package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trucksync/internal/domain"
)

// ErrAmbiguousID is returned when an ID prefix matches more than one run
var ErrAmbiguousID = errors.New("ambiguous sync run id")

// SyncRun is one recorded sync
type SyncRun struct {
	ID              string
	SourcePath      string
	SourceFormat    domain.Format
	TargetPath      string
	TargetEncrypted bool
	DestPath        string
	BackupPath      string // empty when nothing was backed up
	ModCount        int
	SyncedAt        time.Time
	Mods            domain.ModList // only populated by GetSyncRun
}

// SaveSyncRun records a run and its mod list. ID and SyncedAt are filled in when empty.
// ModCount is stored as given: it is the number of entries written, which is
// zero when the target had no count line even though Mods is not empty.
func (d *DB) SaveSyncRun(run *SyncRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.SyncedAt.IsZero() {
		run.SyncedAt = time.Now().UTC()
	}

	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO sync_runs (id, source_path, source_format, target_path, target_encrypted, dest_path, backup_path, mod_count, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.SourcePath, run.SourceFormat.String(), run.TargetPath, run.TargetEncrypted,
		run.DestPath, run.BackupPath, run.ModCount, run.SyncedAt)
	if err != nil {
		return fmt.Errorf("saving sync run: %w", err)
	}

	for i, m := range run.Mods {
		if _, err := tx.Exec(`
			INSERT INTO sync_run_mods (run_id, position, mod_id, display_name)
			VALUES (?, ?, ?, ?)
		`, run.ID, i, m.ID, m.DisplayName); err != nil {
			return fmt.Errorf("saving sync run mod: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sync run: %w", err)
	}
	return nil
}

const runColumns = `id, source_path, source_format, target_path, target_encrypted, dest_path, backup_path, mod_count, synced_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*SyncRun, error) {
	var run SyncRun
	var format string
	if err := row.Scan(&run.ID, &run.SourcePath, &format, &run.TargetPath, &run.TargetEncrypted,
		&run.DestPath, &run.BackupPath, &run.ModCount, &run.SyncedAt); err != nil {
		return nil, err
	}
	run.SourceFormat = domain.ParseFormat(format)
	return &run, nil
}

// ListSyncRuns returns the most recent runs first. limit <= 0 means no limit.
func (d *DB) ListSyncRuns(limit int) ([]SyncRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := d.Query(`
		SELECT `+runColumns+`
		FROM sync_runs
		ORDER BY synced_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetSyncRun returns the run whose ID starts with idPrefix, including its mods.
// Returns nil, nil when nothing matches.
func (d *DB) GetSyncRun(idPrefix string) (*SyncRun, error) {
	rows, err := d.Query(`
		SELECT `+runColumns+`
		FROM sync_runs
		WHERE id LIKE ? || '%'
		LIMIT 2
	`, idPrefix)
	if err != nil {
		return nil, fmt.Errorf("querying sync run: %w", err)
	}

	var matches []*SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		matches = append(matches, run)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousID, idPrefix)
	}

	run := matches[0]
	run.Mods, err = d.syncRunMods(run.ID)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (d *DB) syncRunMods(runID string) (domain.ModList, error) {
	rows, err := d.Query(`
		SELECT mod_id, display_name
		FROM sync_run_mods
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying sync run mods: %w", err)
	}
	defer rows.Close()

	mods := domain.ModList{}
	for rows.Next() {
		var m domain.ModEntry
		if err := rows.Scan(&m.ID, &m.DisplayName); err != nil {
			return nil, fmt.Errorf("scanning sync run mod: %w", err)
		}
		mods = append(mods, m)
	}
	return mods, rows.Err()
}

// DeleteSyncRun removes a run and its mods
func (d *DB) DeleteSyncRun(id string) error {
	res, err := d.Exec("DELETE FROM sync_runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting sync run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
