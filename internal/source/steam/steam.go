// Package steam locates truck simulator home directories in native and Proton installs.
package steam

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindSteamRoots returns candidate Steam installation roots in search order.
// $STEAM_ROOT, when set, comes first.
func FindSteamRoots() []string {
	home, _ := os.UserHomeDir()
	candidates := []string{
		filepath.Join(home, ".steam", "steam"),
		filepath.Join(home, ".local", "share", "Steam"),
		filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"),
	}
	if p := os.Getenv("STEAM_ROOT"); p != "" {
		candidates = append([]string{p}, candidates...)
	}

	var out []string
	seen := make(map[string]bool)
	for _, p := range candidates {
		if !isDir(p) {
			continue
		}
		// ~/.steam/steam is usually a symlink to ~/.local/share/Steam
		key := p
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			key = resolved
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// LibraryPaths returns all Steam library paths of a Steam root (from libraryfolders.vdf).
// A root without the file is its own single library.
func LibraryPaths(steamRoot string) ([]string, error) {
	vdfPath := filepath.Join(steamRoot, "steamapps", "libraryfolders.vdf")
	data, err := os.ReadFile(vdfPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{steamRoot}, nil
		}
		return nil, fmt.Errorf("reading libraryfolders: %w", err)
	}
	root, err := ParseVDF(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing libraryfolders: %w", err)
	}
	paths := LibraryFolders(root)
	if len(paths) == 0 {
		return []string{steamRoot}, nil
	}
	return paths, nil
}

// Libraries returns the library paths of every Steam root, without duplicates
func Libraries() []string {
	var out []string
	seen := make(map[string]bool)
	for _, root := range FindSteamRoots() {
		libs, err := LibraryPaths(root)
		if err != nil {
			continue
		}
		for _, lib := range libs {
			if seen[lib] {
				continue
			}
			seen[lib] = true
			out = append(out, lib)
		}
	}
	return out
}

// ProtonDocuments returns where a Proton prefix keeps the Windows Documents folder for appID
func ProtonDocuments(library, appID string) string {
	return filepath.Join(library, "steamapps", "compatdata", appID, "pfx", "drive_c", "users", "steamuser", "Documents")
}

// IsInstalled reports whether a library holds an installed copy of appID
func IsInstalled(library, appID string) bool {
	data, err := os.ReadFile(filepath.Join(library, "steamapps", "appmanifest_"+appID+".acf"))
	if err != nil {
		return false
	}
	manifest, err := ParseAppManifest(string(data))
	if err != nil || manifest.AppID != appID || manifest.InstallDir == "" {
		return false
	}
	return isDir(filepath.Join(library, "steamapps", "common", manifest.InstallDir))
}

// HomeCandidates lists existing home directories for a game: the native Linux location
// (~/.local/share/<documentsDir>) first, then each Proton prefix.
func HomeCandidates(appID, documentsDir string, libraries []string) []string {
	var out []string
	if home, err := os.UserHomeDir(); err == nil {
		native := filepath.Join(home, ".local", "share", documentsDir)
		if isDir(native) {
			out = append(out, native)
		}
	}
	for _, lib := range libraries {
		proton := filepath.Join(ProtonDocuments(lib, appID), documentsDir)
		if isDir(proton) {
			out = append(out, proton)
		}
	}
	return out
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
