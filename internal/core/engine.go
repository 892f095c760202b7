package core

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"trucksync/internal/domain"
	"trucksync/internal/logging"
	"trucksync/internal/source"
)

// State is the sync engine's progress through one run
type State int

const (
	StateEmpty        State = iota // nothing usable loaded
	StateSourceLoaded              // source mod list loaded, no target profile
	StateReady                     // source and target profile loaded
	StateSynced                    // destination written
)

func (s State) String() string {
	switch s {
	case StateSourceLoaded:
		return "source-loaded"
	case StateReady:
		return "ready"
	case StateSynced:
		return "synced"
	default:
		return "empty"
	}
}

// DefaultDestinationName is the file written next to the target when no destination is given
const DefaultDestinationName = "profile.sii"

// profileRenderer is implemented by sources that can splice a mod list into a loaded profile
type profileRenderer interface {
	Render(mods domain.ModList, from *source.Loaded) (string, error)
}

// Engine loads a source mod list and a target profile and writes the target with the
// source's mods spliced in. It is not safe for concurrent use.
type Engine struct {
	registry *source.Registry
	source   *source.Loaded
	target   *source.Loaded
	synced   bool
	logger   zerolog.Logger
}

// NewEngine creates an engine that resolves files through registry
func NewEngine(registry *source.Registry) *Engine {
	return &Engine{registry: registry, logger: logging.GetLogger("sync")}
}

// State reports the current state
func (e *Engine) State() State {
	switch {
	case e.synced:
		return StateSynced
	case e.source != nil && e.target != nil:
		return StateReady
	case e.source != nil:
		return StateSourceLoaded
	default:
		return StateEmpty
	}
}

// Source returns the loaded source, or nil
func (e *Engine) Source() *source.Loaded { return e.source }

// Target returns the loaded target profile, or nil
func (e *Engine) Target() *source.Loaded { return e.target }

// LoadSource loads the mod list to apply. Any supported format is accepted.
func (e *Engine) LoadSource(path string) (*source.Loaded, error) {
	loaded, err := e.registry.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	e.source = loaded
	e.synced = false
	e.logger.Debug().Str("path", path).Stringer("format", loaded.Format).Int("mods", len(loaded.Mods)).Msg("Source loaded")
	return loaded, nil
}

// LoadTarget loads the profile whose mod list will be replaced. Only profile formats
// are valid targets; anything else fails with domain.ErrInvalidDestination.
func (e *Engine) LoadTarget(path string) (*source.Loaded, error) {
	format, err := source.FormatOf(path)
	if err != nil {
		return nil, fmt.Errorf("loading target: %w", err)
	}
	if !format.IsProfile() {
		return nil, fmt.Errorf("%w: %s is a %s mod list, not a game profile", domain.ErrInvalidDestination, path, format)
	}

	loaded, err := e.registry.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading target: %w", err)
	}
	if loaded.Profile == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidDestination, path)
	}
	e.target = loaded
	e.synced = false
	e.logger.Debug().Str("path", path).Bool("encrypted", loaded.Profile.Encrypted).Msg("Target loaded")
	return loaded, nil
}

func (e *Engine) targetSource() (source.ModSource, error) {
	if e.State() < StateReady {
		return nil, domain.ErrNotReady
	}
	return e.registry.Get(e.target.Format)
}

// Render returns the target profile text with the source mods spliced in, without writing
func (e *Engine) Render() (string, error) {
	src, err := e.targetSource()
	if err != nil {
		return "", err
	}
	if r, ok := src.(profileRenderer); ok {
		return r.Render(e.source.Mods, e.target)
	}
	return e.target.Profile.Render(e.source.Mods, true)
}

// Sync writes the target profile, with the source mods spliced in, to dest (plaintext).
// An empty dest means profile.sii next to the target. Returns the number of mods written;
// 0 when the profile has no count line and the source was configured to leave it unchanged.
func (e *Engine) Sync(dest string) (int, error) {
	src, err := e.targetSource()
	if err != nil {
		return 0, err
	}
	if dest == "" {
		dest = DefaultDestination(e.target.Path)
	}

	mods := e.source.Mods
	if err := src.Save(mods, dest, e.target); err != nil {
		return 0, fmt.Errorf("writing %s: %w", dest, err)
	}
	e.synced = true

	written := len(mods)
	if !e.target.Profile.HasCountLine() {
		e.logger.Warn().Str("target", e.target.Path).Msg("Profile has no active_mods count line; mod list left unchanged")
		written = 0
	}
	e.logger.Info().Str("dest", dest).Int("mods", written).Msg("Sync complete")
	return written, nil
}

// Reset forgets the loaded source and target
func (e *Engine) Reset() {
	e.source = nil
	e.target = nil
	e.synced = false
}

// DefaultDestination returns profile.sii in the target's directory
func DefaultDestination(targetPath string) string {
	return filepath.Join(filepath.Dir(targetPath), DefaultDestinationName)
}
