package commands

import (
	"fmt"
	"log/slog"

	"metagame-tracker/internal/components/serviceutil"
	"metagame-tracker/internal/dataset"
	"metagame-tracker/internal/formats"
	"metagame-tracker/internal/novelty"
	"metagame-tracker/internal/syncer"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var (
	deckWindow int
	deckPool   int
	deckPolicy string
)

func init() {
	deckCmd.Flags().IntVar(&deckWindow, "window", 0, "Days around the event comparison decks may come from (default from config).")
	deckCmd.Flags().IntVar(&deckPool, "pool", 0, "How many decks to compare against (default from config).")
	deckCmd.Flags().StringVar(&deckPolicy, "policy", "", "Spicy policy, strict or frequency (default from config).")
	rootCmd.AddCommand(deckCmd)
}

func recordKey(formatArg, id string) dataset.Key {
	format, err := formats.Resolve(formatArg)
	if err != nil {
		serviceutil.Fatal("failed to resolve format", err)
	}
	return dataset.ParseReference(format.Code, id)
}

var deckCmd = &cobra.Command{
	Use:   "deck <format> <id> [--window <days>] [--pool <n>] [--policy strict|frequency]",
	Short: "Shows a stored decklist with the cards that are rare among similar decks highlighted.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		a := getApp(cmd.Context())
		key := recordKey(args[0], args[1])

		opts := syncer.InspectOptions{
			WindowDays: a.config.Comparison.WindowDays,
			PoolSize:   a.config.Comparison.PoolSize,
		}
		if deckWindow > 0 {
			opts.WindowDays = formats.Lookback(deckWindow).Days()
		}
		if deckPool > 0 {
			opts.PoolSize = deckPool
		}
		policyName := a.config.Comparison.Policy
		if deckPolicy != "" {
			policyName = deckPolicy
		}
		policy, err := novelty.ParsePolicy(policyName)
		if err != nil {
			serviceutil.Fatal("invalid policy", err)
		}
		opts.Policy = policy

		inspection, err := a.syncer.Inspect(cmd.Context(), a.store, key, opts)
		if err != nil {
			serviceutil.Fatal("failed to inspect deck", err)
		}
		for _, warning := range inspection.Warnings {
			slog.Warn(warning)
		}

		target := inspection.Target
		fmt.Printf("%s, %s (%s) on %s\n", target.Title, target.Rank, target.Key().Reference(), target.Date)

		t := newTable()
		t.SetTitle(fmt.Sprintf("Decklist (%s)", policy))
		for _, line := range inspection.Lines {
			switch {
			case line.Header:
				t.AppendSeparator()
				t.AppendRow(table.Row{text.Bold.Sprint(line.Line)})
			case line.Spicy:
				t.AppendRow(table.Row{text.FgHiBlue.Sprint(line.Line)})
			default:
				t.AppendRow(table.Row{line.Line})
			}
		}
		t.Render()

		pool := newTable()
		pool.SetTitle(fmt.Sprintf("Compared against %d decks", len(inspection.Pool)))
		pool.AppendHeader(table.Row{"Date", "Place", "Deck", "Id"})
		for _, record := range inspection.Pool {
			pool.AppendRow(table.Row{record.Date, record.Rank, record.Title, record.Key().Reference()})
		}
		pool.Render()

		spicy := novelty.SpicyLines(inspection.Lines)
		if len(spicy) == 0 {
			fmt.Println("Nothing spicy, this list is stock.")
		} else {
			fmt.Printf("%d spicy cards.\n", len(spicy))
		}
	},
}
