package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"metagame-tracker/internal/components/chrono"
	"metagame-tracker/internal/components/telemetry"
	"metagame-tracker/internal/dataset"

	"github.com/stretchr/testify/require"
)

var saveTime = time.Date(2026, time.October, 14, 12, 0, 0, 0, time.UTC)

func newTestStore(backend Backend) *Store {
	return New(backend, chrono.Fixed{At: saveTime}, 0, telemetry.NewRecorder())
}

func testDataset() dataset.Dataset {
	ds := dataset.New()
	ds.Meta["Modern"] = []dataset.ArchetypeShare{{Name: "Boros Energy", Pct: "21.3%"}}
	ds.Decks = []dataset.EventRecord{
		{Format: "MO", Date: dataset.NewDate(2026, time.October, 12), Rank: "1", Title: "Boros Energy", ReferenceID: "1"},
		{Format: "MO", Date: dataset.NewDate(2026, time.August, 2), Rank: "2", Title: "Amulet Titan", ReferenceID: "2"},
		{Format: "PI", Date: dataset.NewDate(2026, time.September, 20), Rank: "1", Title: "Rakdos Vampires", ReferenceID: "3"},
	}
	return ds
}

// exerciseBackend runs the Store contract against any backend.
func exerciseBackend(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()
	s := newTestStore(backend)

	ds, version, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, Version(""), version)
	require.NotNil(t, ds.Meta)
	require.Empty(t, ds.Decks)

	original := testDataset()
	v1, err := s.Save(ctx, original, version)
	require.NoError(t, err)
	require.NotEmpty(t, v1)
	require.Len(t, original.Decks, 3, "the caller's copy is left untouched")

	loaded, loadedVersion, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, v1, loadedVersion)
	require.Len(t, loaded.Decks, 2)
	cutoff := saveTime.Add(-dataset.RetentionWindow)
	for _, record := range loaded.Decks {
		require.False(t, record.Date.Time.Before(cutoff), record.ReferenceID)
	}
	require.Equal(t, "Boros Energy", loaded.Meta["Modern"][0].Name)

	_, err = s.Save(ctx, loaded, "")
	require.ErrorIs(t, err, ErrConflict)

	loaded.Decks = loaded.Decks[:1]
	v2, err := s.Save(ctx, loaded, v1)
	require.NoError(t, err)
	require.NotEqual(t, v1, v2)

	_, err = s.Save(ctx, loaded, v1)
	require.ErrorIs(t, err, ErrConflict)
	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	require.Equal(t, v1, conflict.Expected)

	replaced, _, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, replaced.Decks, 1, "saves replace the object instead of merging")
}

func TestMemoryBackend(t *testing.T) {
	backend := NewMemoryBackend()
	exerciseBackend(t, backend)
	require.Equal(t, 2, backend.Puts())
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()

	_, _, err := newTestStore(nil).Load(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = newTestStore(nil).Save(ctx, dataset.New(), "")
	require.ErrorIs(t, err, ErrUnavailable)

	for _, config := range []Config{
		{Kind: "http", Url: "https://blobs.example.com", Location: "meta.json"},
		{Kind: "http", Token: "secret", Location: "meta.json"},
		{},
	} {
		backend, err := OpenBackend(config, telemetry.NewRecorder())
		require.NoError(t, err)
		_, _, err = newTestStore(backend).Load(ctx)
		require.ErrorIs(t, err, ErrUnavailable)
	}

	_, err = OpenBackend(Config{Kind: "libsql", Url: "libsql://example.turso.io"}, telemetry.NewRecorder())
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = OpenBackend(Config{Kind: "carrier-pigeon"}, telemetry.NewRecorder())
	require.Error(t, err)
}

func TestCorruptObject(t *testing.T) {
	backend := NewMemoryBackend()
	_, err := backend.Put(context.Background(), []byte("{definitely not json"), "")
	require.NoError(t, err)

	_, _, err = newTestStore(backend).Load(context.Background())
	require.ErrorIs(t, err, ErrRemoteRejected)
}
