package commands

import (
	"strings"

	"metagame-tracker/internal/formats"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(formatsCmd)
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "Lists the tracked formats and the lookback windows.",
	Run: func(cmd *cobra.Command, args []string) {
		t := newTable()
		t.AppendHeader(table.Row{"Format", "Code", "Slug"})
		for _, format := range formats.All {
			t.AppendRow(table.Row{format.Name, format.Code, format.Slug})
		}
		var windows []string
		for _, lookback := range formats.Lookbacks {
			windows = append(windows, lookback.String())
		}
		t.AppendFooter(table.Row{"Windows", strings.Join(windows, ", "), ""})
		t.Render()
	},
}
