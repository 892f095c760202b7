package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"trucksync/internal/domain"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file inside the config directory
const FileName = "config.yaml"

// Config holds user settings
type Config struct {
	// Game home directories (the folder holding profiles/ and steam_profiles/).
	// Empty means auto-detect.
	ETS2Home string `yaml:"ets2_home"`
	ATSHome  string `yaml:"ats_home"`

	DefaultGame     string `yaml:"default_game"`
	Backup          bool   `yaml:"backup"`
	BackupKeep      int    `yaml:"backup_keep"` // Backups kept per profile; 0 keeps all
	StrictCountLine bool   `yaml:"strict_count_line"`

	// DecryptorCommand is an external tool for profiles whose decrypted payload is
	// binary (BSII), run as `<command> <input> <output>`. Empty means such profiles
	// fail to load.
	DecryptorCommand string        `yaml:"decryptor_command"`
	ExportFormat     domain.Format `yaml:"-"`
	ExportFormatStr  string        `yaml:"export_format"`
}

// Default returns the settings used when no file exists
func Default() *Config {
	return &Config{
		DefaultGame:     "ets2",
		Backup:          true,
		BackupKeep:      10,
		StrictCountLine: true,
		ExportFormat:    domain.FormatXML,
	}
}

// Load reads config.yaml from the given directory, returning defaults if it does not exist
func Load(configDir string) (*Config, error) {
	return LoadFile(filepath.Join(configDir, FileName))
}

// LoadFile reads settings from an explicit file path, returning defaults if it does not exist
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ExportFormatStr != "" {
		cfg.ExportFormat = domain.ParseFormat(cfg.ExportFormatStr)
		if !cfg.ExportFormat.IsList() {
			return nil, fmt.Errorf("parsing config: export_format %q must be xml, txt or json", cfg.ExportFormatStr)
		}
	}

	return cfg, nil
}

// Save writes config.yaml to the given directory
func (c *Config) Save(configDir string) error {
	return c.SaveFile(filepath.Join(configDir, FileName))
}

// SaveFile writes the settings to path
func (c *Config) SaveFile(path string) error {
	c.ExportFormatStr = c.ExportFormat.String()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// GameHome returns the configured home directory for a game ID, or "" when unset
func (c *Config) GameHome(gameID string) string {
	switch gameID {
	case "ets2":
		return c.ETS2Home
	case "ats":
		return c.ATSHome
	default:
		return ""
	}
}
