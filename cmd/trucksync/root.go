package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"trucksync/internal/core"
	"trucksync/internal/logging"
	"trucksync/internal/storage/config"
)

// ErrCancelled is returned when the user cancels an operation (e.g. prompt declined).
// When returned from a command, Execute exits with code 2.
var ErrCancelled = errors.New("cancelled")

const appName = "trucksync"

var (
	version = "0.3.0"

	// Global flags
	configPath string
	dataDir    string
	gameID     string
	verbosity  int
	jsonOutput bool
	noColor    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trucksync",
	Short: "Sync active mod lists between Euro Truck Simulator 2 / American Truck Simulator profiles",
	Long: `trucksync copies the ordered active mod list between game profiles (profile.sii,
encrypted or plaintext) and exported mod lists (XML, TXT, JSON).

Only the active_mods entries of the target profile are rewritten; everything else in
the profile is left byte for byte as it was.

Use subcommands for operations. Run 'trucksync --help' for available commands.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetupLogger(verbosity, !colorEnabled())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config directory or .yaml file (default: $XDG_CONFIG_HOME/trucksync)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory for history and backups (default: $XDG_DATA_HOME/trucksync)")
	rootCmd.PersistentFlags().StringVarP(&gameID, "game", "g", "", "game ID: ets2 or ats (default: default_game from config)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "verbose output (repeat for more)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command. Exit codes: 0 = success, 1 = error, 2 = user cancelled.
// When --json is set and an error occurs, prints {"error":"..."} to stdout before exiting.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrCancelled) {
			os.Exit(2)
		}
		if jsonOutput {
			fmt.Printf(`{"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle().Render("Error:"), err)
		}
		os.Exit(1)
	}
}

// initService creates and initializes the core service
func initService() (*core.Service, error) {
	cfg, err := getServiceConfig()
	if err != nil {
		return nil, err
	}
	return core.NewService(cfg)
}

// getServiceConfig resolves --config and --data into service directories.
// A --config value ending in .yaml/.yml is an explicit settings file.
func getServiceConfig() (core.ServiceConfig, error) {
	cfg := core.ServiceConfig{
		ConfigDir: configPath,
		DataDir:   dataDir,
	}

	if configPath != "" && config.IsFilePath(configPath) {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return core.ServiceConfig{}, fmt.Errorf("resolving config path: %w", err)
		}
		file, err := config.ParseConfigPath(abs)
		if err != nil {
			return core.ServiceConfig{}, err
		}
		cfg.ConfigFile = file
		cfg.ConfigDir = filepath.Dir(file)
	}

	// Apply defaults
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = filepath.Join(xdg.ConfigHome, appName)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(xdg.DataHome, appName)
	}

	return cfg, nil
}
