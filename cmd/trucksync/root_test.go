package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trucksync/internal/storage/config"
)

// resetFlags clears global flag state between command runs and points every
// directory at a temp dir
func resetFlags(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("HOME", filepath.Join(dir, "home"))

	configPath = filepath.Join(dir, "config")
	dataDir = filepath.Join(dir, "data")
	gameID = ""
	verbosity = 0
	jsonOutput = false
	noColor = true

	syncProfile, syncDest, syncDryRun, syncYes = "", "", false, false
	exportFormat = ""
	historyLimit, historyRestoreYes = 20, false
	configForce = false
	return dir
}

// runCLI executes the root command with args and returns its output
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewReader(nil))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "trucksync", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Version)

	for _, name := range []string{"config", "data", "game", "verbose", "json", "no-color"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}

	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"sync", "detect", "list", "export", "decrypt", "profiles", "games", "history", "config"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestGetServiceConfig_Dirs(t *testing.T) {
	dir := resetFlags(t)

	cfg, err := getServiceConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config"), cfg.ConfigDir)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Empty(t, cfg.ConfigFile)
}

func TestGetServiceConfig_Defaults(t *testing.T) {
	resetFlags(t)
	configPath, dataDir = "", ""

	cfg, err := getServiceConfig()
	require.NoError(t, err)
	assert.Equal(t, appName, filepath.Base(cfg.ConfigDir))
	assert.Equal(t, appName, filepath.Base(cfg.DataDir))
}

func TestGetServiceConfig_File(t *testing.T) {
	dir := resetFlags(t)
	file := writeFile(t, filepath.Join(dir, "etc", "ts.yaml"), "backup: false\n")
	configPath = file

	cfg, err := getServiceConfig()
	require.NoError(t, err)
	assert.Equal(t, file, cfg.ConfigFile)
	assert.Equal(t, filepath.Join(dir, "etc"), cfg.ConfigDir)

	svc, err := initService()
	require.NoError(t, err)
	defer svc.Close()
	assert.False(t, svc.Config().Backup)
}

func TestGetServiceConfig_MissingFile(t *testing.T) {
	dir := resetFlags(t)
	configPath = filepath.Join(dir, "missing.yaml")

	_, err := getServiceConfig()
	assert.ErrorIs(t, err, config.ErrInvalidConfigPath)
}

func TestInitService(t *testing.T) {
	dir := resetFlags(t)

	svc, err := initService()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, svc.Close())
	})

	assert.FileExists(t, filepath.Join(dir, "data", "trucksync.db"))
	assert.Equal(t, "ets2", svc.Config().DefaultGame)
}
