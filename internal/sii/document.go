package sii

import (
	"errors"

	"trucksync/internal/domain"
)

// Document is the full text of a plaintext profile together with the span of its profile unit.
type Document struct {
	Text      string
	Block     Block
	Encrypted bool // The file on disk was ScsC-encrypted; Text is the decrypted form
}

// Parse locates the profile unit in text
func Parse(text string, encrypted bool) (*Document, error) {
	block, err := FindProfileBlock(text)
	if err != nil {
		return nil, err
	}
	return &Document{Text: text, Block: block, Encrypted: encrypted}, nil
}

// Mods decodes the active mod list of the profile unit
func (d *Document) Mods() domain.ModList {
	return DecodeActiveMods(d.Block.Text)
}

// Render returns the document text with the profile's active mods replaced by mods.
// Only bytes inside the profile unit change. When the unit has no count line, strict
// mode returns domain.ErrCountLineMissing; otherwise the text is returned unchanged.
func (d *Document) Render(mods domain.ModList, strict bool) (string, error) {
	block, err := ReplaceActiveMods(d.Block.Text, mods)
	if err != nil {
		if errors.Is(err, domain.ErrCountLineMissing) && !strict {
			return d.Text, nil
		}
		return "", err
	}
	return d.Text[:d.Block.Start] + block + d.Text[d.Block.End:], nil
}

// HasCountLine reports whether the profile unit declares an active_mods count
func (d *Document) HasCountLine() bool {
	_, ok := findCount(d.Block.Text)
	return ok
}
