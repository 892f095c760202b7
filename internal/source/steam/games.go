package steam

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"trucksync/internal/domain"
)

//go:embed data/games.yaml
var defaultGamesFS embed.FS

const (
	defaultGamesPath = "data/games.yaml"
	// OverrideFile in the config directory adds or replaces known games
	OverrideFile = "games.yaml"
)

// GameInfo describes a supported game, keyed by Steam App ID
type GameInfo struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	DocumentsDir string `yaml:"documents_dir"` // Name of the home folder under Documents / ~/.local/share
}

// KnownGames maps Steam App IDs to games
type KnownGames map[string]GameInfo

// LoadKnownGames returns the embedded game list merged with configDir/games.yaml, if present
func LoadKnownGames(configDir string) (KnownGames, error) {
	data, err := defaultGamesFS.ReadFile(defaultGamesPath)
	if err != nil {
		return nil, fmt.Errorf("reading embedded games: %w", err)
	}
	games := make(KnownGames)
	if err := yaml.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("parsing embedded games: %w", err)
	}

	if configDir == "" {
		return games, nil
	}
	overridePath := filepath.Join(configDir, OverrideFile)
	overrideData, err := os.ReadFile(overridePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return games, nil
		}
		return nil, fmt.Errorf("reading %s: %w", overridePath, err)
	}
	var override KnownGames
	if err := yaml.Unmarshal(overrideData, &override); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", overridePath, err)
	}
	for appID, info := range override {
		if info.DocumentsDir == "" {
			info.DocumentsDir = info.Name
		}
		games[appID] = info
	}
	return games, nil
}

// Find returns the game with the given short ID (e.g. "ets2")
func (k KnownGames) Find(id string) (*domain.Game, error) {
	for appID, info := range k {
		if info.ID == id {
			return &domain.Game{ID: info.ID, Name: info.Name, SteamAppID: appID}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrGameNotFound, id)
}

// Games returns all known games sorted by ID
func (k KnownGames) Games() []*domain.Game {
	games := make([]*domain.Game, 0, len(k))
	for appID, info := range k {
		games = append(games, &domain.Game{ID: info.ID, Name: info.Name, SteamAppID: appID})
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games
}

// DocumentsDir returns the home folder name for a Steam App ID
func (k KnownGames) DocumentsDir(appID string) string {
	return k[appID].DocumentsDir
}
