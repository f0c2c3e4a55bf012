package parsers

import (
	"net/url"
	"testing"
	"time"

	"metagame-tracker/internal/dataset"

	"github.com/stretchr/testify/require"
)

const listing = `
<table>
  <tr class="hover_tr"><td></td><td><a href="event?e=10&d=101&f=MO">Boros Energy</a></td><td>1</td><td>Alice</td><td>13/10/26</td></tr>
  <tr class="hover_tr"><td></td><td><a href="event?e=10&d=900&f=MO">Noise</a></td><td>2</td><td>Bob</td><td>yesterday</td></tr>
  <tr class="hover_tr"><td></td><td><a href="event?e=10&d=102&f=MO">Bad Date</a></td><td>3</td><td>Carol</td><td>31/02/26</td></tr>
  <tr class="hover_tr"><td></td><td><a href="event?e=11&d=103&f=MO">Amulet Titan</a></td><td>3-4</td><td>Dan</td><td>12/10/26</td></tr>
  <tr class="hover_tr"><td></td><td><a href="/format?f=MO">Format Link</a></td><td>1</td><td>Eve</td><td>11/10/26</td></tr>
  <tr class="hover_tr"><td></td><td><a href="event?e=55&f=MO">Modern Challenge</a></td><td></td><td></td><td>10/10/26</td></tr>
  <tr class="hover_tr"><td></td><td><a href="event?e=12&d=104&f=MO">Too Old</a></td><td>1</td><td>Frank</td><td>01/08/26</td></tr>
  <tr class="hover_tr"><td></td><td><a href="event?e=13&d=105&f=MO">Jeskai Control</a></td><td>5-8</td><td>Gina</td><td>09/10/26</td></tr>
</table>`

var listingBase, _ = url.Parse("https://www.mtgtop8.com/format?f=MO")

var listingNow = time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)

func ids(records []dataset.EventRecord) []string {
	out := []string{}
	for _, record := range records {
		out = append(out, record.ReferenceID)
	}
	return out
}

func TestParseEvents(t *testing.T) {
	records := ParseEvents(NewDocument([]byte(listing)), EventOptions{
		Format:     "MO",
		MaxAgeDays: 30,
		Now:        listingNow,
		Base:       listingBase,
	})

	require.Equal(t, []string{"101", "103", "55", "105"}, ids(records))

	first := records[0]
	require.Equal(t, "MO", first.Format)
	require.Equal(t, "Boros Energy", first.Title)
	require.Equal(t, "1", first.Rank)
	require.True(t, first.Date.Equal(dataset.NewDate(2026, time.October, 13)))

	require.Equal(t, "3-4", records[1].Rank)
	require.Equal(t, "", records[2].Rank)
	require.Equal(t, "Modern Challenge", records[2].Title)
	require.Equal(t, dataset.RefEvent, records[2].RefKind, "a row without a deck link refers to its event")
	require.Equal(t, dataset.RefDeck, records[0].RefKind)

	for i := 1; i < len(records); i++ {
		require.False(t, records[i].Date.After(records[i-1].Date), "records follow document order")
	}
}

func TestParseEventsStopsAtKnownDate(t *testing.T) {
	records := ParseEvents(NewDocument([]byte(listing)), EventOptions{
		Format:        "MO",
		MaxAgeDays:    30,
		EarliestKnown: dataset.NewDate(2026, time.October, 10),
		Now:           listingNow,
		Base:          listingBase,
	})
	require.Equal(t, []string{"101", "103"}, ids(records))

	records = ParseEvents(NewDocument([]byte(listing)), EventOptions{
		Format:        "MO",
		EarliestKnown: dataset.NewDate(2026, time.October, 13),
		Now:           listingNow,
		Base:          listingBase,
	})
	require.Empty(t, records)
}

func TestParseEventsWithoutAgeLimit(t *testing.T) {
	records := ParseEvents(NewDocument([]byte(listing)), EventOptions{Format: "MO", Now: listingNow, Base: listingBase})
	require.Equal(t, []string{"101", "103", "55", "104", "105"}, ids(records))
}

func TestParseEventsAgeBoundary(t *testing.T) {
	doc := NewDocument([]byte(`
<table>
  <tr class="hover_tr"><td><a href="event?e=1&d=200&f=MO">Scheduled</a></td><td>1</td><td>20/10/26</td></tr>
  <tr class="hover_tr"><td><a href="event?e=1&d=201&f=MO">Bad Year</a></td><td>1</td><td>13/10/62</td></tr>
  <tr class="hover_tr"><td><a href="event?e=2&d=202&f=MO">Today</a></td><td>1</td><td>14/10/26</td></tr>
  <tr class="hover_tr"><td><a href="event?e=3&d=203&f=MO">Edge</a></td><td>1</td><td>14/09/26</td></tr>
  <tr class="hover_tr"><td><a href="event?e=4&d=204&f=MO">Past Edge</a></td><td>1</td><td>13/09/26</td></tr>
</table>`))

	records := ParseEvents(doc, EventOptions{Format: "MO", MaxAgeDays: 30, Now: listingNow, Base: listingBase})
	require.Equal(t, []string{"202", "203"}, ids(records))
	for _, record := range records {
		require.False(t, dataset.Expired(record.Date, listingNow, dataset.RetentionWindow), record.ReferenceID)
	}

	records = ParseEvents(doc, EventOptions{
		Format:        "MO",
		MaxAgeDays:    30,
		EarliestKnown: dataset.NewDate(2026, time.October, 13),
		Now:           listingNow,
		Base:          listingBase,
	})
	require.Equal(t, []string{"202"}, ids(records), "future rows do not stop the scan")
}

func TestParseEventsPlainTableRows(t *testing.T) {
	doc := NewDocument([]byte(`
<table>
  <tr><th>Deck</th><th>Place</th><th>Date</th></tr>
  <tr><td><a href="https://www.mtgtop8.com/event?e=1&d=7">Rakdos Scam</a></td><td>2</td><td>12/10/26</td></tr>
  <tr><td>No link</td><td>1</td><td>12/10/26</td></tr>
</table>`))

	records := ParseEvents(doc, EventOptions{Format: "PI", Now: listingNow})
	require.Len(t, records, 1)
	require.Equal(t, "7", records[0].ReferenceID)
	require.Equal(t, "2", records[0].Rank)
	require.Equal(t, "PI", records[0].Format)
}

func TestParseEventsUnknownLayout(t *testing.T) {
	records := ParseEvents(NewDocument([]byte("<p>blocked</p>")), EventOptions{Format: "MO", Now: listingNow})
	require.NotNil(t, records)
	require.Empty(t, records)
}
