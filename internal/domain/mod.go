package domain

import (
	"sort"
	"strings"
)

// nameSeparator splits a mod ID from its display name in encoded entries
const nameSeparator = "|"

// ModEntry is a single active mod: the identifier the game loads plus an optional display name
type ModEntry struct {
	ID          string
	DisplayName string
}

// ParseModEntry decodes an "id|name" or bare "id" value. Only the first pipe splits,
// so display names may themselves contain pipes.
func ParseModEntry(raw string) ModEntry {
	id, name, found := strings.Cut(raw, nameSeparator)
	if !found {
		return ModEntry{ID: strings.TrimSpace(raw)}
	}
	return ModEntry{ID: strings.TrimSpace(id), DisplayName: strings.TrimSpace(name)}
}

// Encode returns the wire form of the entry ("id" or "id|name")
func (e ModEntry) Encode() string {
	if e.DisplayName == "" {
		return e.ID
	}
	return e.ID + nameSeparator + e.DisplayName
}

// Valid reports whether the entry carries a usable ID
func (e ModEntry) Valid() bool {
	return strings.TrimSpace(e.ID) != ""
}

// ModList is an ordered list of mods. Order is the game's load order.
type ModList []ModEntry

// IDs returns the mod identifiers in order
func (l ModList) IDs() []string {
	ids := make([]string, len(l))
	for i, m := range l {
		ids[i] = m.ID
	}
	return ids
}

// Clone returns an independent copy of the list
func (l ModList) Clone() ModList {
	if l == nil {
		return nil
	}
	out := make(ModList, len(l))
	copy(out, l)
	return out
}

// IndexedEntry is a mod entry together with the explicit index it was stored under
type IndexedEntry struct {
	Index int
	Entry ModEntry
}

// OrderByIndex sorts entries by their stored index (stable, so equal indices keep file order)
// and drops entries without an ID.
func OrderByIndex(entries []IndexedEntry) ModList {
	sorted := make([]IndexedEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})

	mods := make(ModList, 0, len(sorted))
	for _, e := range sorted {
		if !e.Entry.Valid() {
			continue
		}
		mods = append(mods, e.Entry)
	}
	return mods
}
