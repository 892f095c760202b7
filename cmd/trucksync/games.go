package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List supported games and their home directories",
	Long: `Show the supported truck simulators and where their profiles live.

A home directory comes from ets2_home / ats_home in config.yaml when set, otherwise
from the native Linux location (~/.local/share/<game>) or a Steam Proton prefix.`,
	Args: cobra.NoArgs,
	RunE: runGames,
}

func init() {
	rootCmd.AddCommand(gamesCmd)
}

type gameJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SteamAppID string `json:"steam_app_id"`
	Home       string `json:"home,omitempty"`
}

func runGames(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	games := svc.Games()
	out := cmd.OutOrStdout()
	if jsonOutput {
		res := make([]gameJSON, 0, len(games))
		for _, g := range games {
			res = append(res, gameJSON{ID: g.ID, Name: g.Name, SteamAppID: g.SteamAppID, Home: g.HomePath})
		}
		return writeJSON(out, res)
	}

	rows := make([][]string, 0, len(games))
	for _, g := range games {
		home := g.HomePath
		if home == "" {
			home = "(not found)"
		}
		rows = append(rows, []string{g.ID, g.Name, g.SteamAppID, home})
	}
	fmt.Fprintln(out, renderTable([]string{"ID", "NAME", "APP ID", "HOME"}, rows))
	return nil
}
