package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect <file>...",
	Short: "Show the detected format of mod list files",
	Long: `Print the format trucksync reads each file as: xml, sii_plain, sii_encrypted,
txt or json. .txt and .json files are classified by extension, everything else by
its leading bytes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

type detectJSON struct {
	Path   string `json:"path"`
	Format string `json:"format,omitempty"`
	Error  string `json:"error,omitempty"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	results := make([]detectJSON, 0, len(args))
	failed := 0
	for _, path := range args {
		res := detectJSON{Path: path}
		format, err := svc.Detect(path)
		if err != nil {
			res.Error = err.Error()
			failed++
		} else {
			res.Format = format.String()
		}
		results = append(results, res)
	}

	if jsonOutput {
		return writeJSON(out, results)
	}
	for _, res := range results {
		if res.Error != "" {
			fmt.Fprintf(out, "%s: %s\n", res.Path, errorStyle().Render(res.Error))
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", res.Path, res.Format)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) could not be classified", failed, len(args))
	}
	return nil
}
