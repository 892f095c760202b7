package core

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"trucksync/internal/domain"
)

// Profile directories inside a game home
const (
	ProfilesDir      = "profiles"
	SteamProfilesDir = "steam_profiles"
	ProfileFile      = "profile.sii"
)

// ListProfiles returns the profiles found in a game's home directory: local profiles
// first, then Steam Cloud ones, each group sorted by name. Directories without a
// profile.sii are skipped.
func ListProfiles(game *domain.Game) ([]domain.GameProfile, error) {
	if game.HomePath == "" {
		return nil, fmt.Errorf("%w: no home directory for %s", domain.ErrGameNotFound, game.ID)
	}

	var out []domain.GameProfile
	for _, group := range []struct {
		dir   string
		steam bool
	}{{ProfilesDir, false}, {SteamProfilesDir, true}} {
		found, err := scanProfiles(game, filepath.Join(game.HomePath, group.dir), group.steam)
		if err != nil {
			return nil, err
		}
		out = append(out, found...)
	}
	return out, nil
}

func scanProfiles(game *domain.Game, dir string, steam bool) ([]domain.GameProfile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrIO, dir, err)
	}

	var profiles []domain.GameProfile
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name(), ProfileFile)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		profiles = append(profiles, domain.GameProfile{
			GameID:  game.ID,
			Name:    DecodeProfileName(e.Name()),
			DirName: e.Name(),
			Path:    path,
			Steam:   steam,
		})
	}
	sort.Slice(profiles, func(i, j int) bool {
		return strings.ToLower(profiles[i].Name) < strings.ToLower(profiles[j].Name)
	})
	return profiles, nil
}

// DecodeProfileName turns a hex-encoded profile directory name into the profile's
// display name. Names that are not hex, or decode to non-printable text, are returned as is.
func DecodeProfileName(dirName string) string {
	raw, err := hex.DecodeString(dirName)
	if err != nil || len(raw) == 0 || !utf8.Valid(raw) {
		return dirName
	}
	name := string(raw)
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return dirName
		}
	}
	return name
}

// FindProfile returns the profile whose display name or directory name is name.
// Display names match case-insensitively; the first match in ListProfiles order wins.
func FindProfile(game *domain.Game, name string) (*domain.GameProfile, error) {
	profiles, err := ListProfiles(game)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].DirName == name || strings.EqualFold(profiles[i].Name, name) {
			return &profiles[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s in %s", domain.ErrProfileNotFound, name, game.Name)
}
