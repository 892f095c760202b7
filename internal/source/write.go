package source

import (
	"fmt"
	"os"
	"path/filepath"

	"trucksync/internal/domain"
)

// WriteFile atomically replaces dest with data. The content goes to a temporary file
// in the destination directory first and is renamed over dest only once complete, so
// a failure leaves any existing dest untouched.
func WriteFile(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: creating directory: %w", domain.ErrIO, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", domain.ErrIO, err)
	}
	tempPath := tmp.Name()
	defer os.Remove(tempPath) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %w", domain.ErrIO, dest, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing temp file: %w", domain.ErrIO, err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("%w: setting permissions: %w", domain.ErrIO, err)
	}

	if err := os.Rename(tempPath, dest); err != nil {
		return fmt.Errorf("%w: renaming to %s: %w", domain.ErrIO, dest, err)
	}
	return nil
}

// ReadFile reads path, classifying failures as domain.ErrIO
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrIO, path, err)
	}
	return data, nil
}
