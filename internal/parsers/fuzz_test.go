package parsers

import (
	"testing"

	"metagame-tracker/internal/dataset"
)

var fuzzSeeds = []string{
	"",
	"<",
	"<table><tr><td>",
	listing,
	`<div class="archetype-tile"><span class="archetype-tile-title"><a href="/a">X</a></span><div class="metagame-percentage-column">1,5 %</div></div>`,
	`<ul><li><a href="/a">Rakdos</a> 100%</li><li><a href="/b">Rakdos</a> 3%</li></ul>`,
	`<tr class="hover_tr"><td><a href="event?d=">x</a></td><td>99/99/99</td></tr>`,
	"<div class=\"deck_line\">\x00</div>",
}

func FuzzParseArchetypes(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, body string) {
		shares := ParseArchetypes(NewDocument([]byte(body)))
		if shares == nil {
			t.Fatal("nil shares")
		}
		seen := map[string]bool{}
		for _, share := range shares {
			if share.Name == "" {
				t.Fatalf("empty archetype name in %v", shares)
			}
			if seen[share.Name] {
				t.Fatalf("duplicate archetype %q", share.Name)
			}
			seen[share.Name] = true
		}
	})
}

func FuzzParseEvents(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed)
	}
	earliest := dataset.DateOf(listingNow.AddDate(0, 0, -3))
	f.Fuzz(func(t *testing.T, body string) {
		records := ParseEvents(NewDocument([]byte(body)), EventOptions{
			Format:        "MO",
			MaxAgeDays:    30,
			EarliestKnown: earliest,
			Now:           listingNow,
			Base:          listingBase,
		})
		for _, record := range records {
			if record.ReferenceID == "" {
				t.Fatalf("record without reference: %+v", record)
			}
			if !record.Date.After(earliest) {
				t.Fatalf("record %s is not newer than %s", record.Date, earliest)
			}
		}
	})
}

func FuzzParseDecklist(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed, "text/html")
		f.Add(seed, "text/plain")
	}
	f.Fuzz(func(t *testing.T, body, contentType string) {
		for _, line := range ParseDecklist([]byte(body), contentType) {
			if line == "" {
				t.Fatal("blank decklist line")
			}
		}
	})
}
