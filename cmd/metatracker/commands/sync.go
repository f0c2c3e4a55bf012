package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"metagame-tracker/internal/components/serviceutil"
	"metagame-tracker/internal/formats"
	"metagame-tracker/internal/syncer"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(syncCmd)
}

func resolveFormats(args []string) ([]formats.Format, error) {
	if len(args) == 0 {
		return formats.All, nil
	}
	var out []formats.Format
	for _, arg := range args {
		format, err := formats.Resolve(arg)
		if err != nil {
			return nil, err
		}
		out = append(out, format)
	}
	return out, nil
}

var syncCmd = &cobra.Command{
	Use:   "sync [format...]",
	Short: "Collects new events and the current metagame for the given formats (all formats by default).",
	Run: func(cmd *cobra.Command, args []string) {
		a := getApp(cmd.Context())

		targets, err := resolveFormats(args)
		if err != nil {
			serviceutil.Fatal("failed to resolve format", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Format", "Status", "Archetypes", "New events", "Warnings"})
		for _, format := range targets {
			report, result, err := a.syncer.Run(cmd.Context(), a.store, format)
			if err != nil {
				serviceutil.Fatal(fmt.Sprintf("failed to sync %s", format.Name), err)
			}
			slog.Info(report.Message(), "decks", len(result.Dataset.Decks), "attempts", result.Attempts)
			t.AppendRow(table.Row{
				format.Name,
				report.Status,
				report.MetaCount,
				report.NewEvents,
				strings.Join(report.Warnings, "\n"),
			})
			if report.Status == syncer.StatusEmpty {
				slog.Warn("nothing came back from either source", "format", format.Name)
			}
		}
		t.Render()
	},
}
