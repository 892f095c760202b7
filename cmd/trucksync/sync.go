package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trucksync/internal/core"
)

var (
	syncProfile string
	syncDest    string
	syncDryRun  bool
	syncYes     bool
)

var syncCmd = &cobra.Command{
	Use:   "sync <source> [target]",
	Short: "Replace a profile's active mods with those of another file",
	Long: `Load the mod list from <source> (a profile, XML, TXT or JSON list) and write it
into the target profile. The target is either a profile.sii path or, with --profile,
a profile of the selected game found by name.

Only the active_mods entries of the profile change. The result is written as
plaintext to --dest, or to profile.sii next to the target. An existing destination
is backed up first (see 'backup' in config.yaml).

Examples:
  trucksync sync mods.xml ~/.local/share/Euro\ Truck\ Simulator\ 2/profiles/447269766572/profile.sii
  trucksync sync mods.xml --profile Driver
  trucksync sync other/profile.sii --profile Driver --dry-run
  trucksync sync mods.json --game ats --profile Trucker --yes`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVarP(&syncProfile, "profile", "p", "", "target profile name (instead of a target path)")
	syncCmd.Flags().StringVarP(&syncDest, "dest", "o", "", "output path (default: profile.sii next to the target)")
	syncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "n", false, "show the changes without writing")
	syncCmd.Flags().BoolVarP(&syncYes, "yes", "y", false, "overwrite the destination without asking")

	rootCmd.AddCommand(syncCmd)
}

// syncJSON is the --json output of sync
type syncJSON struct {
	Source     string    `json:"source"`
	Target     string    `json:"target"`
	Dest       string    `json:"dest"`
	Mods       []modJSON `json:"mods"`
	Written    int       `json:"written"`
	DryRun     bool      `json:"dry_run"`
	Diff       []string  `json:"diff,omitempty"`
	BackupPath string    `json:"backup,omitempty"`
	RunID      string    `json:"run_id,omitempty"`
}

// resolveTarget picks the target profile path from the arguments or --profile
func resolveTarget(svc *core.Service, args []string) (string, error) {
	switch {
	case len(args) == 2 && syncProfile != "":
		return "", errors.New("give either a target path or --profile, not both")
	case len(args) == 2:
		return args[1], nil
	case syncProfile != "":
		profile, err := svc.Profile(gameID, syncProfile)
		if err != nil {
			return "", err
		}
		return profile.Path, nil
	default:
		return "", errors.New("no target profile; pass a profile.sii path or use --profile")
	}
}

func runSync(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	target, err := resolveTarget(svc, args)
	if err != nil {
		return err
	}

	dest := syncDest
	if dest == "" {
		dest = core.DefaultDestination(target)
	}

	if !syncDryRun && !syncYes {
		if _, err := os.Stat(dest); err == nil {
			if !interactive() {
				return fmt.Errorf("%s exists; use --yes to overwrite", dest)
			}
			ok, err := confirm(cmd, fmt.Sprintf("Overwrite %s?", dest))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return ErrCancelled
			}
		}
	}

	result, err := svc.Sync(core.SyncRequest{
		Source: args[0],
		Target: target,
		Dest:   dest,
		DryRun: syncDryRun,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		res := syncJSON{
			Source:     result.Source.Path,
			Target:     result.Target.Path,
			Dest:       result.Dest,
			Mods:       modsJSON(result.Source.Mods),
			Written:    result.Written,
			DryRun:     result.DryRun,
			BackupPath: result.BackupPath,
			RunID:      result.RunID,
		}
		for _, l := range result.Preview {
			res.Diff = append(res.Diff, l.String())
		}
		return writeJSON(out, res)
	}

	if result.DryRun {
		if !core.HasChanges(result.Preview) {
			fmt.Fprintln(out, "No changes; the target already has this mod list.")
			return nil
		}
		fmt.Fprintf(out, "Dry run: %s would get %d mod(s) from %s\n\n", result.Dest, result.Written, result.Source.Path)
		renderDiff(out, result.Preview)
		return nil
	}

	if result.Written == 0 && len(result.Source.Mods) > 0 {
		fmt.Fprintln(out, warnStyle().Render("Target profile has no active_mods count line; mod list left unchanged."))
	}
	fmt.Fprintf(out, "%s %d mod(s) from %s into %s\n",
		successStyle().Render("Synced"), result.Written, result.Source.Path, result.Dest)
	if result.BackupPath != "" {
		fmt.Fprintf(out, "%s\n", mutedStyle().Render("Backup: "+result.BackupPath))
	}
	if result.RunID != "" && verbosity > 0 {
		fmt.Fprintf(out, "%s\n", mutedStyle().Render("Run: "+result.RunID))
	}
	return nil
}
