package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDeltaApplySkipsDuplicates(t *testing.T) {
	ds := New()
	ds.Decks = []EventRecord{record("MO", "1", NewDate(2026, time.October, 1))}

	delta := Delta{
		Records: []EventRecord{
			record("MO", "1", NewDate(2026, time.October, 1)),
			record("MO", "2", NewDate(2026, time.October, 2)),
			record("MO", "2", NewDate(2026, time.October, 2)),
			record("PI", "1", NewDate(2026, time.October, 2)),
			{Format: "MO", Title: "no id"},
		},
	}

	result := delta.Apply(&ds)
	require.Equal(t, 2, result.Added)
	require.Equal(t, 3, result.Skipped)
	require.Len(t, ds.Decks, 3)

	again := delta.Apply(&ds)
	require.Equal(t, 0, again.Added)
	require.Len(t, ds.Decks, 3)
}

func TestDeltaApplyMeta(t *testing.T) {
	ds := New()
	ds.Meta["Modern"] = []ArchetypeShare{{Name: "Old", Pct: "1%"}}
	ds.Meta["Pioneer"] = []ArchetypeShare{{Name: "Keep", Pct: "2%"}}

	result := Delta{MetaFormat: "Modern"}.Apply(&ds)
	require.False(t, result.Changed())
	require.Equal(t, "Old", ds.Meta["Modern"][0].Name)

	fresh := Delta{MetaFormat: "Modern", Meta: []ArchetypeShare{{Name: "New", Pct: "3%"}}}
	result = fresh.Apply(&ds)
	require.True(t, result.MetaChanged)
	require.Len(t, ds.Meta["Modern"], 1)
	require.Equal(t, "New", ds.Meta["Modern"][0].Name)
	require.Equal(t, "Keep", ds.Meta["Pioneer"][0].Name)

	result = fresh.Apply(&ds)
	require.False(t, result.MetaChanged)
	require.False(t, result.Changed())
}

func TestDeltaApplyEnrichment(t *testing.T) {
	ds := New()
	ds.Decks = []EventRecord{
		record("MO", "1", NewDate(2026, time.October, 1)),
		record("MO", "2", NewDate(2026, time.October, 1)),
	}
	ds.Decks[1].Cards = []string{"4 Shock"}

	result := Delta{Enrichments: []Enrichment{
		{Key: Key{Format: "MO", ReferenceID: "1"}, Cards: []string{"4 Fireball"}},
		{Key: Key{Format: "MO", ReferenceID: "2"}, Cards: []string{"4 Negate"}},
		{Key: Key{Format: "MO", ReferenceID: "missing"}, Cards: []string{"1 Island"}},
		{Key: Key{Format: "MO", ReferenceID: "1"}},
	}}.Apply(&ds)

	require.Equal(t, 1, result.Enriched)
	require.Equal(t, []string{"4 Fireball"}, ds.Decks[0].Cards)
	require.Equal(t, []string{"4 Shock"}, ds.Decks[1].Cards)
}

func TestCardLine(t *testing.T) {
	testCases := []struct {
		line   string
		name   string
		header bool
		card   bool
	}{
		{line: "4 Fireball", name: "Fireball", card: true},
		{line: "  2   Negate  ", name: "Negate", card: true},
		{line: "1x Fable of the Mirror-Breaker", name: "Fable of the Mirror-Breaker", card: true},
		{line: "Sideboard", name: "Sideboard", header: true},
		{line: "SIDEBOARD:", name: "SIDEBOARD:", header: true},
		{line: "Fireball", name: "Fireball", card: true},
		{line: "   ", name: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.name, CardName(test.line), test.line)
		require.Equal(t, test.header, IsSectionHeader(test.line), test.line)
		require.Equal(t, test.card, IsCard(test.line), test.line)
	}
}
