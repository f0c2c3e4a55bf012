package commands

import (
	"fmt"

	"metagame-tracker/internal/components/serviceutil"
	"metagame-tracker/internal/formats"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var metaTop int

func init() {
	metaCmd.Flags().IntVar(&metaTop, "top", 15, "How many archetypes to show, 0 shows all.")
	rootCmd.AddCommand(metaCmd)
}

var metaCmd = &cobra.Command{
	Use:   "meta <format> [--top <n>]",
	Short: "Shows the stored metagame breakdown of a format.",
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

		shares := ds.Meta[format.Name]
		if len(shares) == 0 {
			fmt.Printf("No metagame data for %s yet, run `metatracker sync %s` first.\n", format.Name, format.Slug)
			return
		}
		if metaTop > 0 && len(shares) > metaTop {
			shares = shares[:metaTop]
		}

		t := newTable()
		t.SetTitle(format.Name)
		t.AppendHeader(table.Row{"#", "Archetype", "Meta %"})
		for i, share := range shares {
			t.AppendRow(table.Row{i + 1, share.Name, share.Pct})
		}
		t.Render()
	},
}
