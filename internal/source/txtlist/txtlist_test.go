package txtlist_test

import (
	"os"
	"path/filepath"
	"testing"

	"trucksync/internal/domain"
	"trucksync/internal/source/txtlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	out := txtlist.Encode(domain.ModList{{ID: "a", DisplayName: "Alpha"}, {ID: "b"}})
	assert.Equal(t, "active_mods: 2\nactive_mods[0]: \"a|Alpha\"\nactive_mods[1]: \"b\"", string(out))
}

func TestSource_RoundTrip(t *testing.T) {
	mods := domain.ModList{
		{ID: "promods", DisplayName: "ProMods 2.70"},
		{ID: "sound_fix"},
		{ID: "map_combo", DisplayName: "Combo | v2"},
	}
	dest := filepath.Join(t.TempDir(), "mods.txt")

	src := txtlist.New()
	require.NoError(t, src.Save(mods, dest, nil))

	loaded, err := src.Load(dest)
	require.NoError(t, err)
	assert.Equal(t, domain.FormatTXT, loaded.Format)
	assert.Equal(t, mods, loaded.Mods)
}

func TestSource_Load(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "out of order indices",
			content:  "active_mods: 3\nactive_mods[2]: \"c\"\nactive_mods[0]: \"a\"\nactive_mods[1]: \"b\"\n",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "gap in indices",
			content:  "active_mods: 2\nactive_mods[0]: \"a\"\nactive_mods[2]: \"c\"",
			expected: []string{"a", "c"},
		},
		{
			name:     "no count line",
			content:  "active_mods[0]: \"a\"\r\nactive_mods[1]: \"b\"\r\n",
			expected: []string{"a", "b"},
		},
		{
			name:     "invalid utf-8 is dropped",
			content:  "active_mods: 1\nactive_mods[0]: \"caf\xe9_mod\"",
			expected: []string{"caf_mod"},
		},
		{
			name:     "empty file",
			content:  "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mods.txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			loaded, err := txtlist.New().Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, loaded.Mods.IDs())
		})
	}
}

func TestSource_LoadMissingFile(t *testing.T) {
	_, err := txtlist.New().Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, domain.ErrIO)
}
