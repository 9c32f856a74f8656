package cmd

import (
	"fmt"
	"strings"

	"modfinder/mod"
	"modfinder/ui"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known mods and their install state",
	Long:  `Lists every mod from the catalog and every installed mod with its installed and latest version.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := bootstrap(cmd.Context(), configPath)
		records := a.registry.All()
		if len(records) == 0 {
			fmt.Println("No mods found. Set CATALOG_URL or install a mod with install-file.")
			return nil
		}
		fmt.Print(renderTable(records))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

// renderTable formats records as a plain text table with colored status.
func renderTable(records []*mod.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-32s %-8s %-12s %-12s %-8s %s\n", "Mod", "Type", "Installed", "Latest", "Enabled", "Status")
	for _, rec := range records {
		status := ui.Status(rec)
		enabled := ""
		if rec.Enabled {
			enabled = "yes"
		}
		fmt.Fprintf(&b, "%-32s %-8s %-12s %-12s %-8s %s\n",
			truncate(rec.Name(), 32),
			rec.ID().Type,
			truncate(orDash(rec.InstalledString()), 12),
			truncate(orDash(rec.Latest().String()), 12),
			enabled,
			ui.Colorize(status, status),
		)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
