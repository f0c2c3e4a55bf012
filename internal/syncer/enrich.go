package syncer

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"metagame-tracker/internal/dataset"
	"metagame-tracker/internal/fetcher"
	"metagame-tracker/internal/parsers"
)

var ErrNoDecklist = errors.New("no decklist found")

// Enrich fetches the card lines of record. An enrichment is only returned
// after a complete, non-empty parse, a cancelled context never yields one.
// Records that already carry cards are returned as they are.
func (s *Syncer) Enrich(ctx context.Context, record dataset.EventRecord) (dataset.Enrichment, error) {
	ctx, span := tracer.Start(ctx, "Enrich")
	defer span.End()

	if record.HasCards() {
		return dataset.Enrichment{Key: record.Key(), Cards: slices.Clone(record.Cards)}, nil
	}

	var errlist []error
	var lines []string
	if export, ok := s.opts.Sources.ExportUrl(record); ok {
		referer := fetcher.Options{Referer: s.opts.Sources.DeckUrl(record)}
		exported, err := s.fetchLines(ctx, export, referer)
		if err != nil {
			errlist = append(errlist, fmt.Errorf("export: %w", err))
		}
		lines = exported
	}
	if len(lines) == 0 && ctx.Err() == nil {
		page, err := s.fetchLines(ctx, s.opts.Sources.DeckUrl(record), fetcher.Options{})
		if err != nil {
			errlist = append(errlist, fmt.Errorf("deck page: %w", err))
		}
		lines = page
	}

	if err := ctx.Err(); err != nil {
		return dataset.Enrichment{}, err
	}
	if len(lines) == 0 {
		errlist = append(errlist, ErrNoDecklist)
		err := fmt.Errorf("enrich %s: %w", record.Key(), errors.Join(errlist...))
		s.tel.ReportWarning(report_syncer_enrich, err)
		return dataset.Enrichment{}, err
	}

	return dataset.Enrichment{Key: record.Key(), Cards: lines}, nil
}

func (s *Syncer) fetchLines(ctx context.Context, url string, opts fetcher.Options) ([]string, error) {
	doc, err := s.fetcher.Fetch(ctx, url, opts)
	if err != nil {
		return nil, err
	}
	return parsers.ParseDecklist(doc.Body, doc.ContentType), nil
}

type EnrichResult struct {
	Enrichment dataset.Enrichment
	Err        error
}

// EnrichAll enriches records in parallel, results are aligned with records by index.
func (s *Syncer) EnrichAll(ctx context.Context, records []dataset.EventRecord) []EnrichResult {
	results := make([]EnrichResult, len(records))
	fetcher.Parallel(ctx, len(records), s.opts.Concurrency, func(ctx context.Context, i int) {
		enrichment, err := s.Enrich(ctx, records[i])
		results[i] = EnrichResult{Enrichment: enrichment, Err: err}
	})
	return results
}
