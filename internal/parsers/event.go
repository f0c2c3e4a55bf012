package parsers

import (
	"net/url"
	"regexp"
	"time"

	"metagame-tracker/internal/dataset"
	"metagame-tracker/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// listingDateLayout is dd/mm/yy.
const listingDateLayout = "02/01/06"

var (
	listingDate = regexp.MustCompile(`^\d{2}/\d{2}/\d{2}$`)
	placement   = regexp.MustCompile(`^(\d+(-\d+)?|\d+(st|nd|rd|th))$`)
)

type EventOptions struct {
	// Format is the event-site code stamped on every record.
	Format string
	// MaxAgeDays skips rows older than this many days before Now, 0 disables it.
	MaxAgeDays int
	// EarliestKnown stops the scan at the first row that is not strictly
	// newer, the zero value scans everything.
	EarliestKnown dataset.Date
	Now           time.Time
	// Base resolves relative row links.
	Base *url.URL
}

// ParseEvents returns the placement records of an event listing in document
// order. The listing is expected newest first.
func ParseEvents(doc *goquery.Document, opts EventOptions) []dataset.EventRecord {
	today := dataset.DateOf(opts.Now)
	oldest := dataset.Cutoff(opts.Now, opts.MaxAgeDays)
	records := []dataset.EventRecord{}

	for _, row := range listingRows(doc, opts.Base) {
		cells := row.ChildrenFiltered("td")

		dateCell := -1
		var date dataset.Date
		cells.EachWithBreak(func(i int, cell *goquery.Selection) bool {
			text := htmlutil.SelectionText(cell)
			if !listingDate.MatchString(text) {
				return true
			}
			dateCell = i
			parsed, err := time.Parse(listingDateLayout, text)
			if err == nil {
				date = dataset.DateOf(parsed)
			}
			return false
		})
		// a bad two digit year or a scheduled event, either way not a result yet
		if date.IsZero() || date.After(today) {
			continue
		}

		if !opts.EarliestKnown.IsZero() && !date.After(opts.EarliestKnown) {
			break
		}
		if opts.MaxAgeDays > 0 && date.Before(oldest) {
			continue
		}

		anchor, ref, ok := rowReference(row, opts.Base)
		if !ok {
			continue
		}

		rank := ""
		cells.EachWithBreak(func(i int, cell *goquery.Selection) bool {
			text := htmlutil.SelectionText(cell)
			if i != dateCell && placement.MatchString(text) {
				rank = text
				return false
			}
			return true
		})

		records = append(records, dataset.EventRecord{
			Format:      opts.Format,
			Date:        date,
			Rank:        rank,
			Title:       anchor.Name,
			ReferenceID: ref.id,
			RefKind:     ref.kind,
		})
	}

	return records
}

// CountListingRows returns how many placement rows the listing has, whether
// or not they would be parsed. Zero means the layout was not understood.
func CountListingRows(doc *goquery.Document, base *url.URL) int {
	return len(listingRows(doc, base))
}

func listingRows(doc *goquery.Document, base *url.URL) []*goquery.Selection {
	var rows []*goquery.Selection
	doc.Find("tr.hover_tr").Each(func(_ int, row *goquery.Selection) {
		rows = append(rows, row)
	})
	if len(rows) > 0 {
		return rows
	}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		if _, _, ok := rowReference(row, base); ok {
			rows = append(rows, row)
		}
	})
	return rows
}

type reference struct {
	id   string
	kind dataset.RefKind
}

// rowReference finds the first link in row that carries a deck id (`d`),
// falling back to an event id (`e`).
func rowReference(row *goquery.Selection, base *url.URL) (htmlutil.Anchor, reference, bool) {
	var fallback htmlutil.Anchor
	var fallbackRef reference
	for _, anchor := range htmlutil.GetAnchors(base, row.Find("a")) {
		query := anchor.Url.Query()
		if id := query.Get("d"); id != "" {
			return anchor, reference{id: id, kind: dataset.RefDeck}, true
		}
		if id := query.Get("e"); id != "" && fallbackRef.id == "" {
			fallback = anchor
			fallbackRef = reference{id: id, kind: dataset.RefEvent}
		}
	}
	return fallback, fallbackRef, fallbackRef.id != ""
}
