package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"trucksync/internal/core"
	"trucksync/internal/domain"
)

// colorEnabled returns true if colored output should be used. Respects --no-color,
// NO_COLOR (https://no-color.org) and whether stdout is a terminal.
func colorEnabled() bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// interactive reports whether prompts can be answered
func interactive() bool {
	fd := os.Stdin.Fd()
	return !jsonOutput && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

func style(color string) lipgloss.Style {
	if !colorEnabled() {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func successStyle() lipgloss.Style { return style("10") }
func errorStyle() lipgloss.Style   { return style("9") }
func warnStyle() lipgloss.Style    { return style("11") }
func mutedStyle() lipgloss.Style   { return style("241") }

func headerStyle() lipgloss.Style {
	if !colorEnabled() {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
}

// renderTable draws rows under headers with a rounded border
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle().Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.String()
}

// modTable renders a mod list with its load-order position
func modTable(mods domain.ModList) string {
	rows := make([][]string, 0, len(mods))
	for i, m := range mods {
		rows = append(rows, []string{strconv.Itoa(i), m.ID, m.DisplayName})
	}
	return renderTable([]string{"#", "ID", "NAME"}, rows)
}

// renderDiff prints preview lines, coloring additions and removals
func renderDiff(w io.Writer, lines []core.DiffLine) {
	for _, l := range lines {
		switch l.Op {
		case core.LineAdded:
			fmt.Fprintln(w, successStyle().Render(l.String()))
		case core.LineRemove:
			fmt.Fprintln(w, errorStyle().Render(l.String()))
		default:
			fmt.Fprintln(w, mutedStyle().Render(l.String()))
		}
	}
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// confirm asks a yes/no question on the command's input. Anything but y/yes is a no.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading input: %w", err)
	}
	answer := strings.TrimSpace(strings.ToLower(line))
	return answer == "y" || answer == "yes", nil
}

// modJSON is the --json shape of a mod entry
type modJSON struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
}

func modsJSON(mods domain.ModList) []modJSON {
	out := make([]modJSON, 0, len(mods))
	for i, m := range mods {
		out = append(out, modJSON{Index: i, ID: m.ID, Name: m.DisplayName})
	}
	return out
}

// truncate shortens s to n runes, keeping its end
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[len(r)-n:])
	}
	return "..." + string(r[len(r)-n+3:])
}
