package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List the mods in a profile or mod list",
	Long: `Show the active mods of any supported file in load order.

Examples:
  trucksync list mods.xml
  trucksync list ~/.local/share/Euro\ Truck\ Simulator\ 2/profiles/447269766572/profile.sii
  trucksync list mods.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

type listJSON struct {
	Path      string    `json:"path"`
	Format    string    `json:"format"`
	Encrypted bool      `json:"encrypted,omitempty"`
	Mods      []modJSON `json:"mods"`
}

func runList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	loaded, err := svc.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, listJSON{
			Path:      loaded.Path,
			Format:    loaded.Format.String(),
			Encrypted: loaded.Profile != nil && loaded.Profile.Encrypted,
			Mods:      modsJSON(loaded.Mods),
		})
	}

	if verbosity > 0 {
		fmt.Fprintf(out, "%s (%s)\n\n", loaded.Path, loaded.Format)
	}
	if len(loaded.Mods) == 0 {
		fmt.Fprintln(out, "No active mods.")
		return nil
	}
	fmt.Fprintln(out, modTable(loaded.Mods))
	fmt.Fprintf(out, "\nTotal: %d mod(s)\n", len(loaded.Mods))
	return nil
}
