package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"metagame-tracker/internal/components/chrono"
	"metagame-tracker/internal/components/telemetry"
	"metagame-tracker/internal/dataset"
	"metagame-tracker/internal/novelty"
	"metagame-tracker/internal/store"

	"github.com/stretchr/testify/require"
)

func deck(id, title string, day int) dataset.EventRecord {
	return dataset.EventRecord{
		Format:      "MO",
		Date:        dataset.NewDate(2026, time.October, day),
		Rank:        "1",
		Title:       title,
		ReferenceID: id,
	}
}

func exportUrl(record dataset.EventRecord) string {
	url, _ := testSources.ExportUrl(record)
	return url
}

func TestEnrichFromExport(t *testing.T) {
	f := newFakeFetcher()
	record := deck("101", "Boros Energy", 13)
	f.serve(exportUrl(record), "text/plain", "// Boros Energy\n4 Fireball\n\nSideboard\n2 Negate\n")

	enrichment, err := newTestSyncer(f, telemetry.NewRecorder()).Enrich(context.Background(), record)
	require.NoError(t, err)
	require.Equal(t, record.Key(), enrichment.Key)
	require.Equal(t, []string{"4 Fireball", "Sideboard", "2 Negate"}, enrichment.Cards)
	require.Equal(t, 1, f.callCount())
}

func TestEnrichFallsBackToDeckPage(t *testing.T) {
	f := newFakeFetcher()
	record := deck("101", "Boros Energy", 13)
	f.block(exportUrl(record))
	f.serve(testSources.DeckUrl(record), "text/html", `<div class="deck_line">4 Fireball</div><div class="deck_line">3 Shock</div>`)

	enrichment, err := newTestSyncer(f, telemetry.NewRecorder()).Enrich(context.Background(), record)
	require.NoError(t, err)
	require.Equal(t, []string{"4 Fireball", "3 Shock"}, enrichment.Cards)
}

func TestEnrichEventReference(t *testing.T) {
	f := newFakeFetcher()
	record := deck("55", "Modern Challenge", 10)
	record.RefKind = dataset.RefEvent
	f.serve("https://events.test/event?e=55&f=MO", "text/html", `<div class="deck_line">4 Thoughtseize</div>`)
	f.serve("https://events.test/event?d=55&f=MO", "text/html", `<div class="deck_line">4 Wrong Card</div>`)
	f.serve("https://events.test/mtgo?d=55", "text/plain", "4 Wrong Card\n")

	enrichment, err := newTestSyncer(f, telemetry.NewRecorder()).Enrich(context.Background(), record)
	require.NoError(t, err)
	require.Equal(t, record.Key(), enrichment.Key)
	require.Equal(t, []string{"4 Thoughtseize"}, enrichment.Cards)
	require.Equal(t, []string{"https://events.test/event?e=55&f=MO"}, f.calls)
}

func TestEnrichNeverReturnsPartialCards(t *testing.T) {
	f := newFakeFetcher()
	record := deck("101", "Boros Energy", 13)
	f.serve(exportUrl(record), "text/plain", "// only comments\n")
	tel := telemetry.NewRecorder()

	enrichment, err := newTestSyncer(f, tel).Enrich(context.Background(), record)
	require.ErrorIs(t, err, ErrNoDecklist)
	require.Empty(t, enrichment.Cards)
	require.True(t, tel.Has(telemetry.ReportKindWarning, report_syncer_enrich))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.serve(exportUrl(record), "text/plain", "4 Fireball\n")
	enrichment, err = newTestSyncer(f, tel).Enrich(ctx, record)
	require.True(t, errors.Is(err, context.Canceled))
	require.Empty(t, enrichment.Cards)
}

func TestEnrichKeepsExistingCards(t *testing.T) {
	f := newFakeFetcher()
	record := deck("101", "Boros Energy", 13)
	record.Cards = []string{"4 Fireball"}

	enrichment, err := newTestSyncer(f, telemetry.NewRecorder()).Enrich(context.Background(), record)
	require.NoError(t, err)
	require.Equal(t, record.Cards, enrichment.Cards)
	require.Zero(t, f.callCount())
}

func TestEnrichAllKeepsOrder(t *testing.T) {
	f := newFakeFetcher()
	var records []dataset.EventRecord
	for i, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"} {
		record := deck(id, "Deck "+id, 1+i)
		records = append(records, record)
		if id == "4" {
			continue
		}
		f.serve(exportUrl(record), "text/plain", "1 Card "+id)
	}
	f.block(testSources.DeckUrl(records[3]))

	results := newTestSyncer(f, telemetry.NewRecorder()).EnrichAll(context.Background(), records)
	require.Len(t, results, len(records))
	for i, result := range results {
		if i == 3 {
			require.Error(t, result.Err)
			continue
		}
		require.NoError(t, result.Err)
		require.Equal(t, records[i].Key(), result.Enrichment.Key)
		require.Equal(t, []string{"1 Card " + records[i].ReferenceID}, result.Enrichment.Cards)
	}
}

func TestSelectComparison(t *testing.T) {
	target := deck("t", "Boros Energy", 10)
	weekOld := deck("a", "Boros Energy", 3)
	dayOld := deck("b", "Boros Energy", 9)
	other := deck("c", "Amulet Titan", 10)
	pioneer := deck("d", "Boros Energy", 10)
	pioneer.Format = "PI"
	stale := dataset.EventRecord{Format: "MO", Date: dataset.NewDate(2026, time.September, 20), Title: "Boros Energy", ReferenceID: "e"}

	ds := dataset.New()
	ds.Decks = []dataset.EventRecord{target, weekOld, other, pioneer, stale, dayOld}

	ids := func(records []dataset.EventRecord) []string {
		var out []string
		for _, record := range records {
			out = append(out, record.ReferenceID)
		}
		return out
	}

	require.Equal(t, []string{"b", "a", "c"}, ids(SelectComparison(ds, target, 7, 5)))
	require.Equal(t, []string{"b", "a"}, ids(SelectComparison(ds, target, 7, 2)))
	require.Equal(t, []string{"b", "a", "e", "c"}, ids(SelectComparison(ds, target, 0, 5)))
	require.Empty(t, SelectComparison(ds, target, 7, 0))
}

func TestInspect(t *testing.T) {
	backend := store.NewMemoryBackend()
	st := store.New(backend, chrono.Fixed{At: testNow}, 0, telemetry.NewRecorder())

	target := deck("101", "Boros Energy", 13)
	similar := deck("102", "Boros Energy", 12)
	different := deck("103", "Amulet Titan", 11)
	missing := deck("104", "Izzet Prowess", 11)

	ds := dataset.New()
	ds.Decks = []dataset.EventRecord{target, similar, different, missing}
	_, err := st.Save(context.Background(), ds, "")
	require.NoError(t, err)

	f := newFakeFetcher()
	f.serve(exportUrl(target), "text/plain", "4 Fireball\nSideboard\n2 Negate")
	f.serve(exportUrl(similar), "text/plain", "4 Fireball")
	f.serve(testSources.DeckUrl(different), "text/html", `<div class="deck_line">1 Fireball</div><div class="deck_line">3 Shock</div>`)
	s := newTestSyncer(f, telemetry.NewRecorder())

	opts := InspectOptions{WindowDays: 7, PoolSize: 4, Policy: novelty.StrictAbsence}
	inspection, err := s.Inspect(context.Background(), st, target.Key(), opts)
	require.NoError(t, err)
	require.Len(t, inspection.Pool, 2)
	require.Len(t, inspection.Warnings, 1, "the record without a decklist is reported")
	require.Equal(t, []string{"2 Negate"}, novelty.SpicyLines(inspection.Lines))
	require.True(t, inspection.Lines[1].Header)

	stored, _, err := st.Load(context.Background())
	require.NoError(t, err)
	for _, key := range []dataset.Key{target.Key(), similar.Key(), different.Key()} {
		record, ok := stored.Find(key)
		require.True(t, ok)
		require.True(t, record.HasCards(), key.String())
	}
	record, _ := stored.Find(missing.Key())
	require.False(t, record.HasCards())

	// the only fetches left are for the record that has no list
	calls := f.callCount()
	_, err = s.Inspect(context.Background(), st, target.Key(), opts)
	require.NoError(t, err)
	require.Equal(t, calls+2, f.callCount())

	_, err = s.Inspect(context.Background(), st, dataset.Key{Format: "MO", ReferenceID: "nope"}, opts)
	require.Error(t, err)
}
