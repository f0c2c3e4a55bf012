package syncer

import (
	"context"
	"fmt"

	"metagame-tracker/internal/dataset"
	"metagame-tracker/internal/novelty"
)

type InspectOptions struct {
	WindowDays int
	PoolSize   int
	Policy     novelty.Policy
}

type Inspection struct {
	Target dataset.EventRecord
	// Pool holds the comparison records that have cards, in selection order.
	Pool     []dataset.EventRecord
	Lines    []novelty.Classified
	Warnings []string
}

// Inspect drills down into one stored record: it fetches the cards of the
// record and of its comparison pool, commits them, then classifies the
// record's lines against the pool.
func (s *Syncer) Inspect(ctx context.Context, st Persister, key dataset.Key, opts InspectOptions) (Inspection, error) {
	ctx, span := tracer.Start(ctx, "Inspect")
	defer span.End()

	ds, _, err := st.Load(ctx)
	if err != nil {
		return Inspection{}, err
	}
	target, ok := ds.Find(key)
	if !ok {
		return Inspection{}, fmt.Errorf("no stored event %s", key)
	}

	pool := SelectComparison(ds, target, opts.WindowDays, opts.PoolSize)
	records := append([]dataset.EventRecord{target}, pool...)
	results := s.EnrichAll(ctx, records)
	if err := ctx.Err(); err != nil {
		return Inspection{}, err
	}

	var inspection Inspection
	var delta dataset.Delta
	for i, result := range results {
		if result.Err != nil {
			inspection.Warnings = append(inspection.Warnings, result.Err.Error())
			continue
		}
		records[i].Cards = result.Enrichment.Cards
		if !ds.Decks[ds.Index(records[i].Key())].HasCards() {
			delta.Enrichments = append(delta.Enrichments, result.Enrichment)
		}
	}
	if results[0].Err != nil {
		return Inspection{}, results[0].Err
	}

	if !delta.Empty() {
		_, err := Commit(ctx, st, delta, s.opts.MaxCommitAttempts)
		if err != nil {
			s.tel.ReportWarning(report_syncer_commit, err, key.String())
			inspection.Warnings = append(inspection.Warnings, fmt.Sprintf("cards not saved: %s", err))
		}
	}

	inspection.Target = records[0]
	var pools [][]string
	for _, record := range records[1:] {
		if !record.HasCards() {
			continue
		}
		inspection.Pool = append(inspection.Pool, record)
		pools = append(pools, record.Cards)
	}
	inspection.Lines = novelty.Classify(inspection.Target.Cards, pools, opts.Policy)
	return inspection, nil
}
