package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"trucksync/internal/decrypt"
	"trucksync/internal/detect"
	"trucksync/internal/domain"
	"trucksync/internal/logging"
	"trucksync/internal/source"
	"trucksync/internal/source/jsonlist"
	"trucksync/internal/source/siiprofile"
	"trucksync/internal/source/steam"
	"trucksync/internal/source/txtlist"
	"trucksync/internal/source/xmllist"
	"trucksync/internal/storage/backup"
	"trucksync/internal/storage/config"
	"trucksync/internal/storage/db"
)

// ServiceConfig holds configuration for the core service
type ServiceConfig struct {
	ConfigDir  string // Directory for configuration files
	ConfigFile string // Explicit settings file; overrides ConfigDir/config.yaml when set
	DataDir    string // Directory for the history database and backups
}

// Service wires the sync engine to settings, backups, history and game discovery
type Service struct {
	config    *config.Config
	db        *db.DB
	backups   *backup.Store
	registry  *source.Registry
	decryptor decrypt.Decryptor
	games     steam.KnownGames

	configDir string
	dataDir   string
	logger    zerolog.Logger

	// Overridable for tests
	now       func() time.Time
	libraries func() []string
}

// NewService creates a new core service instance
func NewService(cfg ServiceConfig) (*Service, error) {
	var (
		appConfig *config.Config
		err       error
	)
	if cfg.ConfigFile != "" {
		appConfig, err = config.LoadFile(cfg.ConfigFile)
	} else {
		appConfig, err = config.Load(cfg.ConfigDir)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	games, err := steam.LoadKnownGames(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading games: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	database, err := db.New(filepath.Join(cfg.DataDir, "trucksync.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	decryptor := NewDecryptor(appConfig)
	return &Service{
		config:    appConfig,
		db:        database,
		backups:   backup.New(filepath.Join(cfg.DataDir, "backups")),
		registry:  NewRegistry(appConfig, decryptor),
		decryptor: decryptor,
		games:     games,
		configDir: cfg.ConfigDir,
		dataDir:   cfg.DataDir,
		logger:    logging.GetLogger("service"),
		now:       time.Now,
		libraries: steam.Libraries,
	}, nil
}

// NewDecryptor returns the built-in decryptor, falling back to the configured
// external command for binary payloads
func NewDecryptor(cfg *config.Config) decrypt.Decryptor {
	scs := decrypt.NewSCS(nil)
	if cmd := decrypt.NewCommand(cfg.DecryptorCommand); cmd != nil {
		scs.Fallback = cmd
	}
	return scs
}

// NewRegistry registers every supported format
func NewRegistry(cfg *config.Config, decryptor decrypt.Decryptor) *source.Registry {
	registry := source.NewRegistry()
	registry.Register(xmllist.New())
	registry.Register(txtlist.New())
	registry.Register(jsonlist.New())
	registry.Register(siiprofile.New(decryptor, cfg.StrictCountLine), domain.FormatSiiEncrypted)
	return registry
}

// Close releases resources held by the service
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Config returns the loaded settings
func (s *Service) Config() *config.Config {
	return s.config
}

// ConfigDir returns the configuration directory
func (s *Service) ConfigDir() string {
	return s.configDir
}

// DataDir returns the data directory
func (s *Service) DataDir() string {
	return s.dataDir
}

// Registry returns the format registry
func (s *Service) Registry() *source.Registry {
	return s.registry
}

// Detect classifies a file the same way Load routes it
func (s *Service) Detect(path string) (domain.Format, error) {
	return source.FormatOf(path)
}

// Load reads the mod list of any supported file
func (s *Service) Load(path string) (*source.Loaded, error) {
	return s.registry.Load(path)
}

// Export writes the mods of src to dest in a list format. FormatUnknown selects the
// configured export format.
func (s *Service) Export(src, dest string, format domain.Format) (*source.Loaded, error) {
	if format == domain.FormatUnknown {
		format = s.config.ExportFormat
	}
	if !format.IsList() {
		return nil, fmt.Errorf("%w: cannot export to %s", domain.ErrUnsupportedFormat, format)
	}

	loaded, err := s.registry.Load(src)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	out, err := s.registry.Get(format)
	if err != nil {
		return nil, err
	}
	if err := out.Save(loaded.Mods, dest, nil); err != nil {
		return nil, fmt.Errorf("exporting: %w", err)
	}
	s.logger.Info().Str("source", src).Str("dest", dest).Stringer("format", format).Int("mods", len(loaded.Mods)).Msg("Mod list exported")
	return loaded, nil
}

// Decrypt returns the plaintext of a profile or other SII file. Plaintext input is
// returned unchanged.
func (s *Service) Decrypt(path string) (string, error) {
	format, err := detect.File(path)
	if err != nil {
		return "", err
	}
	switch format {
	case domain.FormatSiiEncrypted:
		return s.decryptor.Decrypt(path)
	case domain.FormatSiiPlain:
		data, err := source.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s is %s, not a SII file", domain.ErrUnsupportedFormat, path, format)
	}
}

// DecryptTo writes the plaintext of path to dest
func (s *Service) DecryptTo(path, dest string) error {
	text, err := s.Decrypt(path)
	if err != nil {
		return err
	}
	return source.WriteFile(dest, []byte(text))
}

// SyncRequest describes one sync run
type SyncRequest struct {
	Source string // Mod list to apply (any format)
	Target string // Profile whose mod list is replaced
	Dest   string // Output path; empty means profile.sii next to Target
	DryRun bool   // Render and diff without writing
}

// SyncResult reports what a sync did, or would do for a dry run
type SyncResult struct {
	Source     *source.Loaded
	Target     *source.Loaded
	Dest       string
	Written    int
	Preview    []DiffLine // only for dry runs
	BackupPath string
	RunID      string
	DryRun     bool
}

// PreviewContext is the number of unchanged lines shown around each change
const PreviewContext = 2

// Sync replaces the target profile's mod list with the source's and writes the result.
// An existing destination is backed up first when backups are enabled, and every
// completed sync is recorded in the history.
func (s *Service) Sync(req SyncRequest) (*SyncResult, error) {
	done := logging.LogOperationStart(s.logger, "sync")
	defer done()

	engine := NewEngine(s.registry)
	src, err := engine.LoadSource(req.Source)
	if err != nil {
		return nil, err
	}
	target, err := engine.LoadTarget(req.Target)
	if err != nil {
		return nil, err
	}

	dest := req.Dest
	if dest == "" {
		dest = DefaultDestination(target.Path)
	}
	result := &SyncResult{Source: src, Target: target, Dest: dest, DryRun: req.DryRun}

	if req.DryRun {
		text, err := engine.Render()
		if err != nil {
			return nil, err
		}
		result.Preview = LineDiff(target.Profile.Text, text, PreviewContext)
		if target.Profile.HasCountLine() {
			result.Written = len(src.Mods)
		}
		return result, nil
	}

	if s.config.Backup {
		path, err := s.backups.Save(dest, s.now())
		if err != nil {
			return nil, err
		}
		result.BackupPath = path
		if path != "" {
			s.logger.Info().Str("backup", path).Msg("Destination backed up")
		}
	}

	result.Written, err = engine.Sync(dest)
	if err != nil {
		return nil, err
	}

	run := &db.SyncRun{
		SourcePath:      src.Path,
		SourceFormat:    src.Format,
		TargetPath:      target.Path,
		TargetEncrypted: target.Profile.Encrypted,
		DestPath:        dest,
		BackupPath:      result.BackupPath,
		ModCount:        result.Written,
		SyncedAt:        s.now(),
		Mods:            src.Mods,
	}
	if err := s.db.SaveSyncRun(run); err != nil {
		// The profile is already written; a missing history row is not worth failing for.
		s.logger.Warn().Err(err).Msg("Failed to record sync run")
	} else {
		result.RunID = run.ID
	}

	if s.config.Backup && s.config.BackupKeep > 0 {
		if n, err := s.backups.Prune(dest, s.config.BackupKeep); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to prune backups")
		} else if n > 0 {
			s.logger.Debug().Int("removed", n).Msg("Old backups pruned")
		}
	}

	return result, nil
}

// History returns recorded sync runs, newest first
func (s *Service) History(limit int) ([]db.SyncRun, error) {
	return s.db.ListSyncRuns(limit)
}

// HistoryRun returns the run whose ID starts with idPrefix
func (s *Service) HistoryRun(idPrefix string) (*db.SyncRun, error) {
	run, err := s.db.GetSyncRun(idPrefix)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrRunNotFound, idPrefix)
	}
	return run, nil
}

// RestoreRun copies the backup taken by a run back over its destination
func (s *Service) RestoreRun(idPrefix string) (*db.SyncRun, error) {
	run, err := s.HistoryRun(idPrefix)
	if err != nil {
		return nil, err
	}
	if run.BackupPath == "" {
		return nil, fmt.Errorf("sync run %s has no backup", run.ID)
	}
	if err := s.backups.Restore(run.BackupPath, run.DestPath); err != nil {
		return nil, fmt.Errorf("restoring %s: %w", run.DestPath, err)
	}
	s.logger.Info().Str("run", run.ID).Str("dest", run.DestPath).Msg("Backup restored")
	return run, nil
}

// Backups lists the backups kept for dest, newest first
func (s *Service) Backups(dest string) ([]backup.Entry, error) {
	return s.backups.List(dest)
}

// Games returns every known game with its home directory filled in when it can be found
func (s *Service) Games() []*domain.Game {
	games := s.games.Games()
	for _, g := range games {
		if home, err := s.GameHome(g); err == nil {
			g.HomePath = home
		}
	}
	return games
}

// Game returns a known game by short ID, with its home directory resolved
func (s *Service) Game(id string) (*domain.Game, error) {
	if id == "" {
		id = s.config.DefaultGame
	}
	game, err := s.games.Find(id)
	if err != nil {
		return nil, err
	}
	home, err := s.GameHome(game)
	if err != nil {
		return nil, err
	}
	game.HomePath = home
	return game, nil
}

// GameHome returns the configured home directory for game, else the first one found
// through Steam (native first, then Proton prefixes)
func (s *Service) GameHome(game *domain.Game) (string, error) {
	if home := s.config.GameHome(game.ID); home != "" {
		return home, nil
	}
	candidates := steam.HomeCandidates(game.SteamAppID, s.games.DocumentsDir(game.SteamAppID), s.libraries())
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no home directory found for %s; set %s_home in %s",
			domain.ErrGameNotFound, game.Name, game.ID, config.FileName)
	}
	if len(candidates) > 1 {
		s.logger.Debug().Strs("candidates", candidates).Str("game", game.ID).Msg("Several home directories found, using the first")
	}
	return candidates[0], nil
}

// Profiles lists the profiles of a game
func (s *Service) Profiles(gameID string) ([]domain.GameProfile, error) {
	game, err := s.Game(gameID)
	if err != nil {
		return nil, err
	}
	return ListProfiles(game)
}

// Profile finds a game profile by display or directory name
func (s *Service) Profile(gameID, name string) (*domain.GameProfile, error) {
	game, err := s.Game(gameID)
	if err != nil {
		return nil, err
	}
	return FindProfile(game, name)
}

// IsNotFound reports whether err means a game, profile or run could not be found
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrGameNotFound) ||
		errors.Is(err, domain.ErrProfileNotFound) ||
		errors.Is(err, domain.ErrRunNotFound)
}
