package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"trucksync/internal/domain"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <source> <dest>",
	Short: "Write the mods of a profile or list to an XML, TXT or JSON mod list",
	Long: `Convert the active mod list of <source> into a standalone mod list file.

The output format comes from --format, else from the extension of <dest>
(.xml, .txt, .json), else from export_format in config.yaml.

Examples:
  trucksync export profile.sii mods.xml
  trucksync export mods.xml mods.json
  trucksync export profile.sii backup.list --format txt`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "output format: xml, txt or json")

	rootCmd.AddCommand(exportCmd)
}

// exportFormatFor picks the output format from the flag or the destination's extension.
// FormatUnknown means "use the configured default".
func exportFormatFor(flag, dest string) (domain.Format, error) {
	if flag != "" {
		format := domain.ParseFormat(strings.ToLower(flag))
		if !format.IsList() {
			return domain.FormatUnknown, fmt.Errorf("%w: %q (use xml, txt or json)", domain.ErrUnsupportedFormat, flag)
		}
		return format, nil
	}
	switch strings.ToLower(filepath.Ext(dest)) {
	case ".xml":
		return domain.FormatXML, nil
	case ".txt":
		return domain.FormatTXT, nil
	case ".json":
		return domain.FormatJSON, nil
	}
	return domain.FormatUnknown, nil
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := exportFormatFor(exportFormat, args[1])
	if err != nil {
		return err
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	if format == domain.FormatUnknown {
		format = svc.Config().ExportFormat
	}
	loaded, err := svc.Export(args[0], args[1], format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, map[string]any{
			"source": loaded.Path,
			"dest":   args[1],
			"format": format.String(),
			"mods":   len(loaded.Mods),
		})
	}
	fmt.Fprintf(out, "%s %d mod(s) to %s (%s)\n", successStyle().Render("Exported"), len(loaded.Mods), args[1], format)
	return nil
}
