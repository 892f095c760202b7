// Package txtlist reads and writes line-oriented active_mods lists.
package txtlist

import (
	"strings"

	"trucksync/internal/domain"
	"trucksync/internal/sii"
	"trucksync/internal/source"
)

// Source handles .txt mod lists
type Source struct{}

// New creates a text mod list source
func New() *Source {
	return &Source{}
}

// Format returns domain.FormatTXT
func (s *Source) Format() domain.Format {
	return domain.FormatTXT
}

// Load reads the file's active_mods entries. The count line is informational and
// may be absent; bytes that are not valid UTF-8 are dropped.
func (s *Source) Load(path string) (*source.Loaded, error) {
	data, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ToValidUTF8(string(data), "")
	return &source.Loaded{Path: path, Format: domain.FormatTXT, Mods: sii.DecodeActiveMods(text)}, nil
}

// Save writes the count line followed by one entry line per mod
func (s *Source) Save(mods domain.ModList, dest string, _ *source.Loaded) error {
	return source.WriteFile(dest, Encode(mods))
}

// Encode renders mods in the text list format, without a trailing newline
func Encode(mods domain.ModList) []byte {
	return []byte(strings.Join(sii.EncodeActiveMods(mods), "\n"))
}
