package xmllist_test

import (
	"os"
	"path/filepath"
	"testing"

	"trucksync/internal/domain"
	"trucksync/internal/source/xmllist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_OrdersByIndex(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<ets2_modlist version="1.0">
  <mod index="2"><id>c</id><name></name></mod>
  <mod index="0"><id> a </id><name> Alpha </name></mod>
  <mod index="1"><id>b</id></mod>
</ets2_modlist>`)

	mods, err := xmllist.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, domain.ModList{
		{ID: "a", DisplayName: "Alpha"},
		{ID: "b"},
		{ID: "c"},
	}, mods)
}

func TestDecode_DropsEmptyIDs(t *testing.T) {
	data := []byte(`<ets2_modlist version="1.0">
  <mod index="0"><id>   </id><name>Placeholder</name></mod>
  <mod index="1"><name>No id</name></mod>
  <mod index="3"><id>kept</id></mod>
</ets2_modlist>`)

	mods, err := xmllist.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, mods.IDs())
}

func TestDecode_MissingIndexSortsFirst(t *testing.T) {
	data := []byte(`<ets2_modlist version="1.0">
  <mod index="1"><id>second</id></mod>
  <mod><id>first</id></mod>
</ets2_modlist>`)

	mods, err := xmllist.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, mods.IDs())
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"wrong root", `<mods><mod index="0"><id>a</id></mod></mods>`},
		{"no root", `<?xml version="1.0"?>`},
		{"bad index", `<ets2_modlist><mod index="first"><id>a</id></mod></ets2_modlist>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := xmllist.Decode([]byte(tt.data))
			assert.ErrorIs(t, err, domain.ErrMalformedFormat)
		})
	}
}

func TestEncode(t *testing.T) {
	data, err := xmllist.Encode(domain.ModList{{ID: "sample.mod", DisplayName: "Sample"}})
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, `<ets2_modlist version="1.0">`)
	assert.Contains(t, out, `<mod index="0">`)
	assert.Contains(t, out, `<id>sample.mod</id>`)
	assert.Contains(t, out, `<name>Sample</name>`)
}

func TestSource_RoundTrip(t *testing.T) {
	mods := domain.ModList{
		{ID: "promods", DisplayName: "ProMods & Friends"},
		{ID: "sound_fix"},
		{ID: "rusmap", DisplayName: "RusMap <1.50>"},
	}
	dest := filepath.Join(t.TempDir(), "mods.xml")

	src := xmllist.New()
	require.NoError(t, src.Save(mods, dest, nil))

	loaded, err := src.Load(dest)
	require.NoError(t, err)
	assert.Equal(t, domain.FormatXML, loaded.Format)
	assert.Equal(t, mods, loaded.Mods)
	assert.Nil(t, loaded.Profile)
}

func TestSource_LoadMissingFile(t *testing.T) {
	_, err := xmllist.New().Load(filepath.Join(t.TempDir(), "missing.xml"))
	assert.ErrorIs(t, err, domain.ErrIO)
}

func TestSource_SaveEmptyList(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "empty.xml")
	require.NoError(t, xmllist.New().Save(nil, dest, nil))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	mods, err := xmllist.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, mods)
}
