package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"metagame-tracker/internal/components/assert"
	"metagame-tracker/internal/components/chrono"
	"metagame-tracker/internal/components/telemetry"
	"metagame-tracker/internal/dataset"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_store_load  = "store.load"
	report_store_save  = "store.save"
	report_store_prune = "store.pruned-records"
)

var tracer = telemetry.Tracer("metagame-tracker/internal/store")

// Version is an opaque token identifying one revision of the stored object,
// the empty Version means the object does not exist yet.
type Version string

// Backend is a versioned key-blob store holding exactly one object.
//
// note: fault injection point
type Backend interface {
	// Get returns errNotFound when the object does not exist yet.
	Get(ctx context.Context) ([]byte, Version, error)
	// Put replaces the object if its current version is `expected`, returning
	// a *ConflictError otherwise.
	Put(ctx context.Context, blob []byte, expected Version) (Version, error)
}

// Store persists the dataset with optimistic concurrency, every save is
// pruned to the retention window first.
type Store struct {
	backend   Backend
	clock     chrono.API
	retention time.Duration
	tel       telemetry.API
}

// New creates a Store, a zero retention means dataset.RetentionWindow. A
// nil backend makes every operation fail with ErrUnavailable.
func New(backend Backend, clock chrono.API, retention time.Duration, tel telemetry.API) *Store {
	assert.NotNil(clock)
	assert.NotNil(tel)
	if retention <= 0 {
		retention = dataset.RetentionWindow
	}
	return &Store{
		backend:   backend,
		clock:     clock,
		retention: retention,
		tel:       telemetry.NewScopedAPI("store", tel),
	}
}

func (s *Store) Load(ctx context.Context) (dataset.Dataset, Version, error) {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()

	if s.backend == nil {
		return dataset.Dataset{}, "", ErrUnavailable
	}

	blob, version, err := s.backend.Get(ctx)
	if errors.Is(err, errNotFound) {
		s.tel.ReportDebug("store object does not exist yet, starting empty")
		return dataset.New(), "", nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.tel.ReportWarning(report_store_load, err)
		return dataset.Dataset{}, "", fmt.Errorf("load dataset: %w", err)
	}

	ds, err := dataset.Decode(blob)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.tel.ReportBroken(report_store_load, err)
		return dataset.Dataset{}, "", fmt.Errorf("load dataset: %w: %w", ErrRemoteRejected, err)
	}

	span.SetAttributes(
		attribute.String("store.version", string(version)),
		attribute.Int("store.decks", len(ds.Decks)),
	)
	return ds, version, nil
}

// Save prunes a copy of ds to the retention window and fully replaces the
// stored object with it, provided the object is still at `version`.
func (s *Store) Save(ctx context.Context, ds dataset.Dataset, version Version) (Version, error) {
	ctx, span := tracer.Start(ctx, "Save")
	defer span.End()

	if s.backend == nil {
		return "", ErrUnavailable
	}

	pruned := ds.Clone()
	removed := pruned.Prune(s.clock.Now(), s.retention)
	if removed > 0 {
		s.tel.ReportCount(report_store_prune, int64(removed))
	}

	blob, err := dataset.Encode(pruned)
	if err != nil {
		s.tel.ReportBroken(report_store_save, err)
		return "", fmt.Errorf("save dataset: %w", err)
	}

	next, err := s.backend.Put(ctx, blob, version)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if !errors.Is(err, ErrConflict) {
			s.tel.ReportWarning(report_store_save, err)
		}
		return "", fmt.Errorf("save dataset: %w", err)
	}

	span.SetAttributes(
		attribute.String("store.version", string(next)),
		attribute.Int("store.decks", len(pruned.Decks)),
	)
	return next, nil
}
