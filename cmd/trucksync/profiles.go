package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the profiles of a game",
	Long: `List the local (profiles/) and Steam Cloud (steam_profiles/) profiles of the
selected game. Names shown are decoded from the hex directory names; either form
can be passed to 'sync --profile'.

Examples:
  trucksync profiles
  trucksync profiles --game ats`,
	Args: cobra.NoArgs,
	RunE: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

type profileJSON struct {
	Name    string `json:"name"`
	DirName string `json:"dir"`
	Path    string `json:"path"`
	Steam   bool   `json:"steam"`
}

func runProfiles(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	game, err := svc.Game(gameID)
	if err != nil {
		return err
	}
	profiles, err := svc.Profiles(game.ID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		res := make([]profileJSON, 0, len(profiles))
		for _, p := range profiles {
			res = append(res, profileJSON{Name: p.Name, DirName: p.DirName, Path: p.Path, Steam: p.Steam})
		}
		return writeJSON(out, res)
	}

	if verbosity > 0 {
		fmt.Fprintf(out, "%s: %s\n\n", game.Name, game.HomePath)
	}
	if len(profiles) == 0 {
		fmt.Fprintf(out, "No profiles found in %s.\n", game.HomePath)
		return nil
	}

	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		kind := "local"
		if p.Steam {
			kind = "steam"
		}
		rows = append(rows, []string{p.Name, p.DirName, kind})
	}
	fmt.Fprintln(out, renderTable([]string{"NAME", "DIR", "TYPE"}, rows))
	return nil
}
