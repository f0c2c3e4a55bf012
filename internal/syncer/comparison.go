package syncer

import (
	"slices"
	"strings"

	"metagame-tracker/internal/dataset"

	"github.com/antzucaro/matchr"
)

type candidate struct {
	record     dataset.EventRecord
	similarity float64
	distance   int
	order      int
}

// SelectComparison picks up to size records to compare target against: same
// format, not the target itself, dated within windowDays of the target.
// Titles closest to the target's come first, then the nearest dates, then
// dataset order.
func SelectComparison(ds dataset.Dataset, target dataset.EventRecord, windowDays, size int) []dataset.EventRecord {
	if size <= 0 {
		return nil
	}

	title := strings.ToLower(target.Title)
	var candidates []candidate
	for i, record := range ds.Decks {
		if record.Format != target.Format || record.Key() == target.Key() {
			continue
		}
		distance := dataset.DaysBetween(record.Date, target.Date)
		if windowDays > 0 && distance > windowDays {
			continue
		}
		candidates = append(candidates, candidate{
			record:     record,
			similarity: matchr.JaroWinkler(title, strings.ToLower(record.Title), false),
			distance:   distance,
			order:      i,
		})
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		switch {
		case a.similarity > b.similarity:
			return -1
		case a.similarity < b.similarity:
			return 1
		}
		if a.distance != b.distance {
			return a.distance - b.distance
		}
		return a.order - b.order
	})

	if len(candidates) > size {
		candidates = candidates[:size]
	}
	out := make([]dataset.EventRecord, len(candidates))
	for i, c := range candidates {
		out[i] = c.record
	}
	return out
}
