package commands

import (
	"fmt"
	"slices"

	"metagame-tracker/internal/components/serviceutil"
	"metagame-tracker/internal/dataset"
	"metagame-tracker/internal/formats"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(eventsCmd)
}

var eventsCmd = &cobra.Command{
	Use:   "events <format>",
	Short: "Lists the stored top finishes of a format, newest first.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := getApp(cmd.Context())

		format, err := formats.Resolve(args[0])
		if err != nil {
			serviceutil.Fatal("failed to resolve format", err)
		}
		ds, _, err := a.store.Load(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to load dataset", err)
		}

		records := ds.ForFormat(format.Code)
		if len(records) == 0 {
			fmt.Printf("No events stored for %s yet.\n", format.Name)
			return
		}
		slices.SortStableFunc(records, func(a, b dataset.EventRecord) int {
			return b.Date.Compare(a.Date.Time)
		})

		t := newTable()
		t.SetTitle(format.Name)
		t.AppendHeader(table.Row{"Date", "Place", "Deck", "Id", "List"})
		for _, record := range records {
			list := ""
			if record.HasCards() {
				list = "saved"
			}
			t.AppendRow(table.Row{record.Date, record.Rank, record.Title, record.Key().Reference(), list})
		}
		t.Render()
	},
}
