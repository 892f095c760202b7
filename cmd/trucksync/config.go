package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"trucksync/internal/logging"
	"trucksync/internal/storage/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the settings file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings and where they come from",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.yaml with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// settingsFile returns the settings file the service reads
func settingsFile(file, dir string) string {
	if file != "" {
		return file
	}
	return filepath.Join(dir, config.FileName)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	svcCfg, err := getServiceConfig()
	if err != nil {
		return err
	}
	path := settingsFile(svcCfg.ConfigFile, svcCfg.ConfigDir)

	out := cmd.OutOrStdout()
	cfg := svc.Config()
	cfg.ExportFormatStr = cfg.ExportFormat.String()
	if jsonOutput {
		return writeJSON(out, map[string]any{
			"file":     path,
			"data_dir": svc.DataDir(),
			"log_file": logging.LogFilePath(),
			"settings": cfg,
		})
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprintln(out, mutedStyle().Render("# "+path))
	fmt.Fprintln(out, mutedStyle().Render("# data: "+svc.DataDir()))
	fmt.Fprintln(out, mutedStyle().Render("# log:  "+logging.LogFilePath()))
	fmt.Fprint(out, string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	var path string
	if configPath != "" && config.IsFilePath(configPath) {
		// The file need not exist yet, so skip ParseConfigPath's existence check
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
		path = abs
	} else {
		svcCfg, err := getServiceConfig()
		if err != nil {
			return err
		}
		path = settingsFile(svcCfg.ConfigFile, svcCfg.ConfigDir)
	}

	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}

	if err := config.Default().SaveFile(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle().Render("Wrote"), path)
	return nil
}
