// Package siiprofile loads and rewrites the active mods of game profiles (profile.sii).
package siiprofile

import (
	"fmt"

	"github.com/rs/zerolog"

	"trucksync/internal/decrypt"
	"trucksync/internal/detect"
	"trucksync/internal/domain"
	"trucksync/internal/logging"
	"trucksync/internal/sii"
	"trucksync/internal/source"
)

// Source handles plaintext and ScsC-encrypted profiles. Output is always plaintext.
type Source struct {
	decryptor decrypt.Decryptor
	strict    bool
	logger    zerolog.Logger
}

// New creates a profile source. With strict set, saving into a profile without an
// active_mods count line fails instead of leaving the profile unchanged.
func New(decryptor decrypt.Decryptor, strict bool) *Source {
	return &Source{
		decryptor: decryptor,
		strict:    strict,
		logger:    logging.GetLogger("profile"),
	}
}

// Format returns domain.FormatSiiPlain; the source is also registered for encrypted profiles
func (s *Source) Format() domain.Format {
	return domain.FormatSiiPlain
}

// Load reads the profile, decrypting it first when needed, and locates its profile unit
func (s *Source) Load(path string) (*source.Loaded, error) {
	format, err := detect.File(path)
	if err != nil {
		return nil, err
	}

	var text string
	switch format {
	case domain.FormatSiiEncrypted:
		if s.decryptor == nil {
			return nil, fmt.Errorf("%w: %s: no decryptor configured", domain.ErrDecryptionFailure, path)
		}
		text, err = s.decryptor.Decrypt(path)
		if err != nil {
			return nil, err
		}
	case domain.FormatSiiPlain:
		data, err := source.ReadFile(path)
		if err != nil {
			return nil, err
		}
		text = string(data)
	default:
		return nil, fmt.Errorf("%w: %s is %s, not a game profile", domain.ErrUnsupportedFormat, path, format)
	}

	doc, err := sii.Parse(text, format == domain.FormatSiiEncrypted)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	mods := doc.Mods()
	s.logger.Debug().
		Str("path", path).
		Bool("encrypted", doc.Encrypted).
		Int("mods", len(mods)).
		Msg("Profile loaded")

	return &source.Loaded{Path: path, Format: format, Mods: mods, Profile: doc}, nil
}

// Render returns the text of from's profile with its active mods replaced by mods
func (s *Source) Render(mods domain.ModList, from *source.Loaded) (string, error) {
	if from == nil || from.Profile == nil {
		return "", domain.ErrProfileNotLoaded
	}
	text, err := from.Profile.Render(mods, s.strict)
	if err != nil {
		return "", fmt.Errorf("rewriting %s: %w", from.Path, err)
	}
	return text, nil
}

// Save writes from's profile, with mods spliced in, to dest as plaintext
func (s *Source) Save(mods domain.ModList, dest string, from *source.Loaded) error {
	text, err := s.Render(mods, from)
	if err != nil {
		return err
	}
	if err := source.WriteFile(dest, []byte(text)); err != nil {
		return err
	}
	s.logger.Info().Str("dest", dest).Int("mods", len(mods)).Msg("Profile written")
	return nil
}
