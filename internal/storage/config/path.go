// Package config loads and saves the trucksync settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidConfigPath is returned for unusable --config values
var ErrInvalidConfigPath = errors.New("invalid config path")

// IsFilePath reports whether a --config value names a settings file rather than a directory
func IsFilePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// ParseConfigPath validates an explicit settings file path. The path must be
// absolute, free of ".." elements, and name an existing .yaml/.yml file.
func ParseConfigPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidConfigPath)
	}
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %s is not absolute", ErrInvalidConfigPath, path)
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %s contains '..'", ErrInvalidConfigPath, path)
		}
	}
	if !IsFilePath(path) {
		return "", fmt.Errorf("%w: %s must have a .yaml or .yml extension", ErrInvalidConfigPath, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s does not exist", ErrInvalidConfigPath, path)
		}
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrInvalidConfigPath, path)
	}

	return filepath.Clean(path), nil
}
