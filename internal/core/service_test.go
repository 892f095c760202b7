package core_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"trucksync/internal/core"
	"trucksync/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	svc   *core.Service
	dir   string
	home  string
	clock time.Time
}

// newTestService creates a service whose ETS2 home is a temp dir holding one profile
// ("Driver"). extraConfig is appended to config.yaml.
func newTestService(t *testing.T, extraConfig string) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	dir := t.TempDir()
	home := filepath.Join(dir, "Euro Truck Simulator 2")
	writeFile(t, home, filepath.Join("profiles", "447269766572", "profile.sii"), plainProfile)

	configDir := filepath.Join(dir, "config")
	writeFile(t, configDir, "config.yaml", fmt.Sprintf("ets2_home: %q\n%s", home, extraConfig))

	svc, err := core.NewService(core.ServiceConfig{
		ConfigDir: configDir,
		DataDir:   filepath.Join(dir, "data"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	env := &testEnv{svc: svc, dir: dir, home: home, clock: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc.SetClock(func() time.Time { return env.clock })
	svc.SetLibraries(func() []string { return nil })
	return env
}

func (e *testEnv) profilePath() string {
	return filepath.Join(e.home, "profiles", "447269766572", "profile.sii")
}

func TestNewService_Defaults(t *testing.T) {
	env := newTestService(t, "")
	cfg := env.svc.Config()
	assert.True(t, cfg.Backup)
	assert.True(t, cfg.StrictCountLine)
	assert.Equal(t, domain.FormatXML, cfg.ExportFormat)
	assert.Equal(t, env.home, cfg.ETS2Home)
	assert.DirExists(t, filepath.Join(env.dir, "data"))
}

func TestNewService_ConfigFileOverridesDir(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "custom.yaml", "default_game: ats\nbackup: false\n")

	svc, err := core.NewService(core.ServiceConfig{
		ConfigDir:  filepath.Join(dir, "unused"),
		ConfigFile: file,
		DataDir:    filepath.Join(dir, "data"),
	})
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "ats", svc.Config().DefaultGame)
	assert.False(t, svc.Config().Backup)
}

func TestNewService_BadConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "export_format: sii\n")

	_, err := core.NewService(core.ServiceConfig{ConfigDir: dir, DataDir: filepath.Join(dir, "data")})
	assert.Error(t, err)
}

func TestService_Sync(t *testing.T) {
	env := newTestService(t, "")
	src := writeFile(t, env.dir, "mods.xml", sampleXML)
	target := env.profilePath()

	result, err := env.svc.Sync(core.SyncRequest{Source: src, Target: target})
	require.NoError(t, err)

	assert.Equal(t, target, result.Dest)
	assert.Equal(t, 1, result.Written)
	assert.NotEmpty(t, result.RunID)
	assert.False(t, result.DryRun)

	// Destination rewritten, backup holds the original
	assert.Contains(t, readFile(t, target), `active_mods[0]: "sample.mod|Sample"`)
	require.NotEmpty(t, result.BackupPath)
	assert.Equal(t, plainProfile, readFile(t, result.BackupPath))

	runs, err := env.svc.History(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, result.RunID, runs[0].ID)
	assert.Equal(t, domain.FormatXML, runs[0].SourceFormat)
	assert.Equal(t, 1, runs[0].ModCount)
	assert.Equal(t, result.BackupPath, runs[0].BackupPath)
	assert.False(t, runs[0].TargetEncrypted)

	run, err := env.svc.HistoryRun(result.RunID[:8])
	require.NoError(t, err)
	assert.Equal(t, domain.ModList{{ID: "sample.mod", DisplayName: "Sample"}}, run.Mods)
}

func TestService_SyncToNewDestination(t *testing.T) {
	env := newTestService(t, "")
	src := writeFile(t, env.dir, "mods.xml", sampleXML)
	dest := filepath.Join(env.dir, "out", "profile.sii")

	result, err := env.svc.Sync(core.SyncRequest{Source: src, Target: env.profilePath(), Dest: dest})
	require.NoError(t, err)

	assert.Empty(t, result.BackupPath, "nothing to back up")
	assert.FileExists(t, dest)
	assert.Equal(t, plainProfile, readFile(t, env.profilePath()))
}

func TestService_SyncDryRun(t *testing.T) {
	env := newTestService(t, "")
	src := writeFile(t, env.dir, "mods.xml", sampleXML)
	target := env.profilePath()

	result, err := env.svc.Sync(core.SyncRequest{Source: src, Target: target, DryRun: true})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Written)
	assert.Empty(t, result.RunID)
	assert.Empty(t, result.BackupPath)
	assert.Equal(t, plainProfile, readFile(t, target))

	assert.True(t, core.HasChanges(result.Preview))
	assert.Contains(t, result.Preview, core.DiffLine{Op: core.LineRemove, Text: " active_mods: 2"})
	assert.Contains(t, result.Preview, core.DiffLine{Op: core.LineAdded, Text: " active_mods: 1"})
	assert.Contains(t, result.Preview, core.DiffLine{Op: core.LineAdded, Text: ` active_mods[0]: "sample.mod|Sample"`})
	assert.NotContains(t, result.Preview, core.DiffLine{Op: core.LineEqual, Text: "logo_data : .logo {"})

	runs, err := env.svc.History(0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestService_SyncWithoutBackup(t *testing.T) {
	env := newTestService(t, "backup: false\n")
	src := writeFile(t, env.dir, "mods.xml", sampleXML)

	result, err := env.svc.Sync(core.SyncRequest{Source: src, Target: env.profilePath()})
	require.NoError(t, err)
	assert.Empty(t, result.BackupPath)

	_, err = env.svc.RestoreRun(result.RunID)
	assert.ErrorContains(t, err, "has no backup")
}

func TestService_SyncWithoutCountLineRecordsZero(t *testing.T) {
	env := newTestService(t, "strict_count_line: false\nbackup: false\n")
	src := writeFile(t, env.dir, "mods.xml", sampleXML)
	target := writeFile(t, env.dir, "profile.sii", noCountProfile)

	result, err := env.svc.Sync(core.SyncRequest{Source: src, Target: target})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Written)

	run, err := env.svc.HistoryRun(result.RunID)
	require.NoError(t, err)
	assert.Equal(t, 0, run.ModCount)
	assert.Len(t, run.Mods, 1)
}

func TestService_SyncInvalidTarget(t *testing.T) {
	env := newTestService(t, "")
	src := writeFile(t, env.dir, "mods.xml", sampleXML)

	_, err := env.svc.Sync(core.SyncRequest{Source: src, Target: src})
	assert.ErrorIs(t, err, domain.ErrInvalidDestination)

	runs, err := env.svc.History(0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestService_RestoreRun(t *testing.T) {
	env := newTestService(t, "")
	src := writeFile(t, env.dir, "mods.xml", sampleXML)
	target := env.profilePath()

	result, err := env.svc.Sync(core.SyncRequest{Source: src, Target: target})
	require.NoError(t, err)
	require.NotEqual(t, plainProfile, readFile(t, target))

	run, err := env.svc.RestoreRun(result.RunID)
	require.NoError(t, err)
	assert.Equal(t, target, run.DestPath)
	assert.Equal(t, plainProfile, readFile(t, target))
}

func TestService_HistoryRunNotFound(t *testing.T) {
	env := newTestService(t, "")
	_, err := env.svc.HistoryRun("deadbeef")
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
	assert.True(t, core.IsNotFound(err))
}

func TestService_BackupsArePruned(t *testing.T) {
	env := newTestService(t, "backup_keep: 2\n")
	src := writeFile(t, env.dir, "mods.xml", sampleXML)
	target := env.profilePath()

	for i := 0; i < 4; i++ {
		_, err := env.svc.Sync(core.SyncRequest{Source: src, Target: target})
		require.NoError(t, err)
		env.clock = env.clock.Add(time.Minute)
	}

	backups, err := env.svc.Backups(target)
	require.NoError(t, err)
	assert.Len(t, backups, 2)

	runs, err := env.svc.History(0)
	require.NoError(t, err)
	assert.Len(t, runs, 4)
}

func TestService_Export(t *testing.T) {
	env := newTestService(t, "")
	src := writeFile(t, env.dir, "mods.xml", unorderedXML)
	dest := filepath.Join(env.dir, "mods.json")

	loaded, err := env.svc.Export(src, dest, domain.FormatJSON)
	require.NoError(t, err)
	assert.Len(t, loaded.Mods, 3)

	back, err := env.svc.Load(dest)
	require.NoError(t, err)
	assert.Equal(t, domain.FormatJSON, back.Format)
	assert.Equal(t, loaded.Mods, back.Mods)
}

func TestService_ExportFromProfileUsesConfiguredFormat(t *testing.T) {
	env := newTestService(t, "export_format: txt\n")
	dest := filepath.Join(env.dir, "mods.txt")

	_, err := env.svc.Export(env.profilePath(), dest, domain.FormatUnknown)
	require.NoError(t, err)
	assert.Equal(t, "active_mods: 2\nactive_mods[0]: \"old_a|Old A\"\nactive_mods[1]: \"old_b\"", readFile(t, dest))
}

func TestService_ExportRejectsProfileFormat(t *testing.T) {
	env := newTestService(t, "")
	src := writeFile(t, env.dir, "mods.xml", sampleXML)

	_, err := env.svc.Export(src, filepath.Join(env.dir, "out.sii"), domain.FormatSiiPlain)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestService_Detect(t *testing.T) {
	env := newTestService(t, "")
	tests := map[string]struct {
		content string
		want    domain.Format
	}{
		"a.xml":       {sampleXML, domain.FormatXML},
		"profile.sii": {plainProfile, domain.FormatSiiPlain},
		"enc.sii":     {"ScsC\x01\x02", domain.FormatSiiEncrypted},
		"list.TXT":    {"anything", domain.FormatTXT},
		"list.json":   {"{}", domain.FormatJSON},
	}
	for name, tt := range tests {
		path := writeFile(t, env.dir, name, tt.content)
		got, err := env.svc.Detect(path)
		require.NoError(t, err, name)
		assert.Equal(t, tt.want, got, name)
	}

	_, err := env.svc.Detect(writeFile(t, env.dir, "x.bin", "\x00\x01"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestService_Decrypt(t *testing.T) {
	env := newTestService(t, "")

	text, err := env.svc.Decrypt(env.profilePath())
	require.NoError(t, err)
	assert.Equal(t, plainProfile, text)

	dest := filepath.Join(env.dir, "plain.sii")
	require.NoError(t, env.svc.DecryptTo(env.profilePath(), dest))
	assert.Equal(t, plainProfile, readFile(t, dest))

	_, err = env.svc.Decrypt(writeFile(t, env.dir, "mods.xml", sampleXML))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = env.svc.Decrypt(writeFile(t, env.dir, "broken.sii", "ScsC\x00\x00"))
	assert.ErrorIs(t, err, domain.ErrDecryptionFailure)
}

func TestService_Games(t *testing.T) {
	env := newTestService(t, "")

	games := env.svc.Games()
	require.Len(t, games, 2)
	assert.Equal(t, "ats", games[0].ID)
	assert.Empty(t, games[0].HomePath)
	assert.Equal(t, "ets2", games[1].ID)
	assert.Equal(t, env.home, games[1].HomePath)

	game, err := env.svc.Game("")
	require.NoError(t, err)
	assert.Equal(t, "ets2", game.ID)

	_, err = env.svc.Game("ats")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)

	_, err = env.svc.Game("spintires")
	assert.ErrorIs(t, err, domain.ErrGameNotFound)
}

func TestService_GameHomeFromNativeDir(t *testing.T) {
	env := newTestService(t, "")
	home := os.Getenv("HOME")
	native := filepath.Join(home, ".local", "share", "American Truck Simulator")
	require.NoError(t, os.MkdirAll(native, 0755))

	game, err := env.svc.Game("ats")
	require.NoError(t, err)
	assert.Equal(t, native, game.HomePath)
}

func TestService_Profiles(t *testing.T) {
	env := newTestService(t, "")

	profiles, err := env.svc.Profiles("ets2")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Driver", profiles[0].Name)

	p, err := env.svc.Profile("ets2", "Driver")
	require.NoError(t, err)
	assert.Equal(t, env.profilePath(), p.Path)

	_, err = env.svc.Profile("ets2", "Nobody")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}
