// Package source defines the mod list adapters shared by every on-disk format.
package source

import (
	"trucksync/internal/domain"
	"trucksync/internal/sii"
)

// Loaded is the result of reading a mod list file
type Loaded struct {
	Path   string
	Format domain.Format
	Mods   domain.ModList

	// Profile holds the decrypted document text for profile formats, nil otherwise.
	// Saving a profile splices into this text.
	Profile *sii.Document
}

// ModSource reads and writes one on-disk mod list format
type ModSource interface {
	Format() domain.Format

	// Load reads path and returns its mods in load order
	Load(path string) (*Loaded, error)

	// Save writes mods to dest. Profile formats require from to be a loaded profile;
	// list formats ignore it.
	Save(mods domain.ModList, dest string, from *Loaded) error
}
