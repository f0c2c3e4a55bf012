package commands

import (
	"fmt"

	"metagame-tracker/internal/components/serviceutil"
	"metagame-tracker/internal/dataset"
	"metagame-tracker/internal/export"
	"metagame-tracker/internal/syncer"

	"github.com/spf13/cobra"
)

var exportLink bool

func init() {
	exportCmd.Flags().BoolVar(&exportLink, "link", false, "Print an import link instead of the list.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <format> <id> [--link]",
	Short: "Prints a stored decklist as plain text or as a deck builder import link.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a := getApp(cmd.Context())
		key := recordKey(args[0], args[1])

		ds, _, err := a.store.Load(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to load dataset", err)
		}
		record, ok := ds.Find(key)
		if !ok {
			serviceutil.Fatal("failed to find event", fmt.Errorf("no stored event %s", key))
		}

		if !record.HasCards() {
			enrichment, err := a.syncer.Enrich(cmd.Context(), record)
			if err != nil {
				serviceutil.Fatal("failed to fetch decklist", err)
			}
			delta := dataset.Delta{Enrichments: []dataset.Enrichment{enrichment}}
			_, err = syncer.Commit(cmd.Context(), a.store, delta, a.config.Sync.MaxCommitAttempts)
			if err != nil {
				serviceutil.Fatal("failed to save decklist", err)
			}
			record.Cards = enrichment.Cards
		}

		if exportLink {
			fmt.Println(export.ImportURL(record.Cards))
			return
		}
		fmt.Println(export.PlainText(record.Cards))
	},
}
