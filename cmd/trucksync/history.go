package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"trucksync/internal/storage/db"
)

var (
	historyLimit      int
	historyRestoreYes bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past syncs",
	Long: `List recorded syncs, newest first. Use 'history show <id>' for the mods written
by one run and 'history restore <id>' to put back the backup it took.

Run IDs may be abbreviated to any unique prefix.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded sync",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyRestoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Restore the backup taken before a sync",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryRestore,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to show (0 for all)")
	historyRestoreCmd.Flags().BoolVarP(&historyRestoreYes, "yes", "y", false, "restore without asking")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRestoreCmd)
	rootCmd.AddCommand(historyCmd)
}

type runJSON struct {
	ID           string    `json:"id"`
	SyncedAt     time.Time `json:"synced_at"`
	Source       string    `json:"source"`
	SourceFormat string    `json:"source_format"`
	Target       string    `json:"target"`
	Encrypted    bool      `json:"target_encrypted"`
	Dest         string    `json:"dest"`
	Backup       string    `json:"backup,omitempty"`
	ModCount     int       `json:"mod_count"`
	Mods         []modJSON `json:"mods,omitempty"`
}

func toRunJSON(run *db.SyncRun) runJSON {
	res := runJSON{
		ID:           run.ID,
		SyncedAt:     run.SyncedAt,
		Source:       run.SourcePath,
		SourceFormat: run.SourceFormat.String(),
		Target:       run.TargetPath,
		Encrypted:    run.TargetEncrypted,
		Dest:         run.DestPath,
		Backup:       run.BackupPath,
		ModCount:     run.ModCount,
	}
	if run.Mods != nil {
		res.Mods = modsJSON(run.Mods)
	}
	return res
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runHistory(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	runs, err := svc.History(historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		res := make([]runJSON, 0, len(runs))
		for i := range runs {
			res = append(res, toRunJSON(&runs[i]))
		}
		return writeJSON(out, res)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No syncs recorded.")
		return nil
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			r.SyncedAt.Local().Format("2006-01-02 15:04"),
			r.SourceFormat.String(),
			strconv.Itoa(r.ModCount),
			truncate(r.DestPath, 50),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"ID", "WHEN", "FROM", "MODS", "DEST"}, rows))
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	run, err := svc.HistoryRun(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, toRunJSON(run))
	}

	fmt.Fprintf(out, "Run:    %s\n", run.ID)
	fmt.Fprintf(out, "When:   %s\n", run.SyncedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(out, "Source: %s (%s)\n", run.SourcePath, run.SourceFormat)
	fmt.Fprintf(out, "Target: %s\n", run.TargetPath)
	fmt.Fprintf(out, "Dest:   %s\n", run.DestPath)
	if run.BackupPath != "" {
		fmt.Fprintf(out, "Backup: %s\n", run.BackupPath)
	}
	fmt.Fprintln(out)
	if len(run.Mods) == 0 {
		fmt.Fprintln(out, "No mods.")
		return nil
	}
	fmt.Fprintln(out, modTable(run.Mods))
	return nil
}

func runHistoryRestore(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	run, err := svc.HistoryRun(args[0])
	if err != nil {
		return err
	}

	if !historyRestoreYes {
		if !interactive() {
			return fmt.Errorf("restoring overwrites %s; use --yes to confirm", run.DestPath)
		}
		ok, err := confirm(cmd, fmt.Sprintf("Restore %s from the backup taken %s?",
			run.DestPath, run.SyncedAt.Local().Format("2006-01-02 15:04")))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return ErrCancelled
		}
	}

	if _, err := svc.RestoreRun(run.ID); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, map[string]string{"id": run.ID, "restored": run.DestPath, "backup": run.BackupPath})
	}
	fmt.Fprintf(out, "%s %s\n", successStyle().Render("Restored"), run.DestPath)
	return nil
}
