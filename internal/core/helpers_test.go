package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const plainProfile = "SiiNunit\n{\nuser_profile : _nameless.1f2.3a40 {\n face: 2\n active_mods: 2\n active_mods[0]: \"old_a|Old A\"\n active_mods[1]: \"old_b\"\n customization: 0\n profile_name: \"Driver\"\n}\n\nlogo_data : .logo {\n texture: 4\n}\n\n}\n"

const emptyProfile = "SiiNunit\n{\nuser_profile : x {\n active_mods: 0\n customization: 0\n}\n}\n"

const noCountProfile = "SiiNunit\n{\nuser_profile : x {\n face: 0\n}\n}\n"

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<ets2_modlist version="1.0">
  <mod index="0">
    <id>sample.mod</id>
    <name>Sample</name>
  </mod>
</ets2_modlist>
`

const unorderedXML = `<?xml version="1.0" encoding="UTF-8"?>
<ets2_modlist version="1.0">
  <mod index="2"><id>third</id></mod>
  <mod index="0"><id>first</id><name>First</name></mod>
  <mod index="1"><id>second</id></mod>
</ets2_modlist>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
