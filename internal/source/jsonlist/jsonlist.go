// Package jsonlist reads and writes {"mods": [...]} JSON mod lists.
package jsonlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"trucksync/internal/domain"
	"trucksync/internal/source"
)

// Source handles JSON mod lists
type Source struct{}

// New creates a JSON mod list source
func New() *Source {
	return &Source{}
}

// Format returns domain.FormatJSON
func (s *Source) Format() domain.Format {
	return domain.FormatJSON
}

// Load reads a JSON mod list. Array order is irrelevant; entries are ordered by "index".
func (s *Source) Load(path string) (*source.Loaded, error) {
	data, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	mods, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return &source.Loaded{Path: path, Format: domain.FormatJSON, Mods: mods}, nil
}

// Save writes mods with contiguous indices; "name" is omitted when empty
func (s *Source) Save(mods domain.ModList, dest string, _ *source.Loaded) error {
	data, err := Encode(mods)
	if err != nil {
		return err
	}
	return source.WriteFile(dest, data)
}

// Decode parses a JSON mod list
func Decode(data []byte) (domain.ModList, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", domain.ErrMalformedFormat)
	}
	list := gjson.GetBytes(data, "mods")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: \"mods\" must be an array", domain.ErrMalformedFormat)
	}

	var entries []domain.IndexedEntry
	var decodeErr error
	list.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			decodeErr = fmt.Errorf("%w: mod entry %s is not an object", domain.ErrMalformedFormat, item.Raw)
			return false
		}
		index, err := parseIndex(item.Get("index"))
		if err != nil {
			decodeErr = err
			return false
		}
		entries = append(entries, domain.IndexedEntry{
			Index: index,
			Entry: domain.ModEntry{
				ID:          strings.TrimSpace(item.Get("id").String()),
				DisplayName: strings.TrimSpace(item.Get("name").String()),
			},
		})
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	return domain.OrderByIndex(entries), nil
}

// parseIndex accepts a number or a numeric string; a missing index counts as 0
func parseIndex(v gjson.Result) (int, error) {
	switch v.Type {
	case gjson.Null:
		return 0, nil
	case gjson.Number:
		return int(v.Int()), nil
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return 0, fmt.Errorf("%w: mod index %q", domain.ErrMalformedFormat, v.Str)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: mod index %s", domain.ErrMalformedFormat, v.Raw)
	}
}

type fileEntry struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
}

type file struct {
	Mods []fileEntry `json:"mods"`
}

// Encode renders mods as indented JSON
func Encode(mods domain.ModList) ([]byte, error) {
	out := file{Mods: make([]fileEntry, 0, len(mods))}
	for i, m := range mods {
		out.Mods = append(out.Mods, fileEntry{Index: i, ID: m.ID, Name: m.DisplayName})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return buf.Bytes(), nil
}
