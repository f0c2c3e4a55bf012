package syncer

import (
	"context"
	"errors"
	"fmt"

	"metagame-tracker/internal/dataset"
	"metagame-tracker/internal/formats"
	"metagame-tracker/internal/store"

	"go.opentelemetry.io/otel/attribute"
)

// Persister is satisfied by *store.Store.
type Persister interface {
	Load(ctx context.Context) (dataset.Dataset, store.Version, error)
	Save(ctx context.Context, ds dataset.Dataset, version store.Version) (store.Version, error)
}

type CommitResult struct {
	Dataset  dataset.Dataset
	Version  store.Version
	Applied  dataset.ApplyResult
	Attempts int
}

// Commit loads the stored dataset, applies delta and saves it back. A lost
// race reloads and re-applies, up to maxAttempts times. Nothing is written
// when applying the delta changes nothing.
func Commit(ctx context.Context, st Persister, delta dataset.Delta, maxAttempts int) (CommitResult, error) {
	ctx, span := tracer.Start(ctx, "Commit")
	defer span.End()

	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var result CommitResult
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result.Attempts = attempt

		ds, version, err := st.Load(ctx)
		if err != nil {
			return result, err
		}
		result.Applied = delta.Apply(&ds)
		result.Dataset = ds
		result.Version = version
		if !result.Applied.Changed() {
			return result, nil
		}

		next, err := st.Save(ctx, ds, version)
		if errors.Is(err, store.ErrConflict) {
			continue
		}
		if err != nil {
			return result, err
		}
		result.Version = next
		span.SetAttributes(attribute.Int("attempts", attempt))
		return result, nil
	}

	return result, fmt.Errorf("commit gave up after %d attempts: %w", maxAttempts, store.ErrConflict)
}

// Run syncs format against the stored dataset and commits the outcome. Store
// errors are the only ones returned, everything else is on the report.
func (s *Syncer) Run(ctx context.Context, st Persister, format formats.Format) (Report, CommitResult, error) {
	current, _, err := st.Load(ctx)
	if err != nil {
		return Report{Format: format}, CommitResult{}, err
	}

	_, delta, report := s.Sync(ctx, format, current)

	// the sync may have taken a while, Commit reloads before saving
	result, err := Commit(ctx, st, delta, s.opts.MaxCommitAttempts)
	if err != nil {
		s.tel.ReportWarning(report_syncer_commit, err, format.Name)
		return report, result, err
	}
	report.NewEvents = result.Applied.Added
	return report, result, nil
}
