// Package backup keeps timestamped copies of profiles before they are overwritten.
package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"trucksync/internal/domain"
	"trucksync/internal/source"
)

const timeLayout = "20060102T150405.000Z"

// Store manages backups under a base directory
type Store struct {
	basePath string
}

// Entry is a single backup file
type Entry struct {
	Path    string
	Created time.Time
	Size    int64
}

// New creates a backup store rooted at basePath
func New(basePath string) *Store {
	return &Store{basePath: basePath}
}

// Dir returns the directory holding backups of dest. Profiles all share the file name
// profile.sii, so the parent directory name is part of the key.
func (s *Store) Dir(dest string) string {
	abs, err := filepath.Abs(dest)
	if err != nil {
		abs = dest
	}
	return filepath.Join(s.basePath, filepath.Base(filepath.Dir(abs)))
}

func splitName(dest string) (stem, ext string) {
	base := filepath.Base(dest)
	ext = filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}

// Save copies dest into the store. Returns "" and no error when dest does not exist.
func (s *Store) Save(dest string, now time.Time) (string, error) {
	data, err := os.ReadFile(dest)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: reading %s for backup: %w", domain.ErrIO, dest, err)
	}

	stem, ext := splitName(dest)
	path := filepath.Join(s.Dir(dest), fmt.Sprintf("%s-%s%s", stem, now.UTC().Format(timeLayout), ext))
	if err := source.WriteFile(path, data); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}
	return path, nil
}

// List returns the backups of dest, newest first
func (s *Store) List(dest string) ([]Entry, error) {
	dir := s.Dir(dest)
	stem, ext := splitName(dest)
	prefix := stem + "-"

	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing backups: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		created, err := time.Parse(timeLayout, strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext))
		if err != nil {
			continue
		}
		info, err := f.Info()
		if err != nil {
			return nil, fmt.Errorf("listing backups: %w", err)
		}
		entries = append(entries, Entry{Path: filepath.Join(dir, name), Created: created, Size: info.Size()})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Created.After(entries[j].Created)
	})
	return entries, nil
}

// Restore atomically copies a backup over dest
func (s *Store) Restore(backupPath, dest string) error {
	data, err := source.ReadFile(backupPath)
	if err != nil {
		return err
	}
	return source.WriteFile(dest, data)
}

// Prune deletes all but the newest keep backups of dest and returns how many were removed
func (s *Store) Prune(dest string, keep int) (int, error) {
	entries, err := s.List(dest)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}

	removed := 0
	for i := keep; i < len(entries); i++ {
		if err := os.Remove(entries[i].Path); err != nil {
			return removed, fmt.Errorf("deleting backup: %w", err)
		}
		removed++
	}
	return removed, nil
}
