package dataset

import "slices"

// Enrichment is a fully parsed decklist waiting to be attached to its record.
type Enrichment struct {
	Key   Key
	Cards []string
}

// Delta is the set of changes one sync or drill-down makes. It is computed
// against a checked-out copy and re-applied to whatever the store holds at
// commit time, so applying it must be idempotent.
type Delta struct {
	// MetaFormat is the display name Meta belongs to.
	MetaFormat string
	// Meta replaces the shares of MetaFormat wholesale, nil leaves them untouched.
	Meta        []ArchetypeShare
	Records     []EventRecord
	Enrichments []Enrichment
}

func (d Delta) Empty() bool {
	return d.Meta == nil && len(d.Records) == 0 && len(d.Enrichments) == 0
}

type ApplyResult struct {
	Added       int
	Skipped     int
	Enriched    int
	MetaChanged bool
}

// Changed reports whether applying the delta altered the dataset.
func (r ApplyResult) Changed() bool {
	return r.Added > 0 || r.Enriched > 0 || r.MetaChanged
}

// Apply merges the delta into ds. Records whose key already exists are
// skipped, enrichments only fill records that have no cards yet.
func (d Delta) Apply(ds *Dataset) ApplyResult {
	var result ApplyResult

	if ds.Meta == nil {
		ds.Meta = map[string][]ArchetypeShare{}
	}
	if d.Meta != nil && d.MetaFormat != "" {
		current, exists := ds.Meta[d.MetaFormat]
		result.MetaChanged = !exists || !slices.Equal(current, d.Meta)
		ds.Meta[d.MetaFormat] = slices.Clone(d.Meta)
	}

	seen := make(map[Key]struct{}, len(ds.Decks))
	for _, record := range ds.Decks {
		seen[record.Key()] = struct{}{}
	}
	for _, record := range d.Records {
		if record.ReferenceID == "" {
			result.Skipped++
			continue
		}
		if _, exists := seen[record.Key()]; exists {
			result.Skipped++
			continue
		}
		record.Cards = slices.Clone(record.Cards)
		ds.Decks = append(ds.Decks, record)
		seen[record.Key()] = struct{}{}
		result.Added++
	}

	for _, enrichment := range d.Enrichments {
		if len(enrichment.Cards) == 0 {
			continue
		}
		i := ds.Index(enrichment.Key)
		if i < 0 || ds.Decks[i].HasCards() {
			continue
		}
		ds.Decks[i].Cards = slices.Clone(enrichment.Cards)
		result.Enriched++
	}

	return result
}
