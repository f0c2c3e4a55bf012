package parsers

import (
	"testing"

	"metagame-tracker/internal/dataset"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const tileLayout = `
<div class="archetype-tile">
  <div class="archetype-tile-description">
    <span class="deck-price-paper"><a href="/archetype/modern-boros-energy">Boros Energy</a></span>
  </div>
  <div class="metagame-percentage-column">21.3%</div>
</div>
<div class="archetype-tile">
  <div class="archetype-tile-title"><a href="/archetype/modern-amulet-titan">Amulet  Titan</a></div>
  <div class="archetype-tile-statistic-value">6.8%<span>(41)</span></div>
</div>
<div class="archetype-tile">
  <span class="deck-price-paper"><a href="/archetype/modern-boros-energy-2">Boros Energy</a></span>
  <div class="metagame-percentage-column">2.0%</div>
</div>
<div class="archetype-tile">
  <span class="deck-price-paper"><a href="/metagame/modern/full">Other</a></span>
  <div class="metagame-percentage-column">30%</div>
</div>
<table><tr><td><a href="/x">Table Deck</a></td><td>9%</td></tr></table>
`

func TestArchetypeTiles(t *testing.T) {
	shares := ParseArchetypes(NewDocument([]byte(tileLayout)))
	expected := []dataset.ArchetypeShare{
		{Name: "Boros Energy", Pct: "21.3%"},
		{Name: "Amulet Titan", Pct: "6.8%"},
	}
	if diff := cmp.Diff(expected, shares); diff != "" {
		t.Fatalf("unexpected shares (-want +got):\n%s", diff)
	}
}

func TestArchetypeTable(t *testing.T) {
	doc := NewDocument([]byte(`
<table>
  <tr><th>Deck</th><th>Share</th></tr>
  <tr><td><a href="/deck/1">Rakdos Scam</a></td><td>10,5 %</td></tr>
  <tr><td>Metagame</td><td>50%</td></tr>
  <tr><td>Jeskai Control</td><td>4%</td></tr>
  <tr><td>Broken Row</td><td>n/a</td></tr>
</table>`))

	require.Empty(t, ParseArchetypeTiles(doc))

	shares := ParseArchetypes(doc)
	expected := []dataset.ArchetypeShare{
		{Name: "Rakdos Scam", Pct: "10.5%"},
		{Name: "Jeskai Control", Pct: "4%"},
	}
	if diff := cmp.Diff(expected, shares); diff != "" {
		t.Fatalf("unexpected shares (-want +got):\n%s", diff)
	}
}

func TestArchetypePermissiveFallback(t *testing.T) {
	doc := NewDocument([]byte(`
<ul class="nav"><li><a href="/">Home</a></li></ul>
<ul>
  <li><a href="/a">Boros Energy</a> 21.3%</li>
  <li><a href="/b">Boros Energy</a> 5%</li>
  <li><a href="/c">Home</a> 1%</li>
  <li><a href="/d">Amulet Titan</a> (4.5 %)</li>
  <li>No link 3%</li>
</ul>`))

	require.Empty(t, ParseArchetypeTiles(doc))
	require.Empty(t, ParseArchetypeTable(doc))

	shares := ParseArchetypes(doc)
	expected := []dataset.ArchetypeShare{
		{Name: "Boros Energy", Pct: "21.3%"},
		{Name: "Amulet Titan", Pct: "4.5%"},
	}
	if diff := cmp.Diff(expected, shares); diff != "" {
		t.Fatalf("unexpected shares (-want +got):\n%s", diff)
	}
}

func TestArchetypeUnknownLayout(t *testing.T) {
	for _, body := range []string{"", "<html><body><p>Just a page</p></body></html>", "\x00\x01 garbage <<<"} {
		shares := ParseArchetypes(NewDocument([]byte(body)))
		require.NotNil(t, shares)
		require.Empty(t, shares)
	}
}
