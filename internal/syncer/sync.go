package syncer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"metagame-tracker/internal/components/assert"
	"metagame-tracker/internal/components/chrono"
	"metagame-tracker/internal/components/telemetry"
	"metagame-tracker/internal/dataset"
	"metagame-tracker/internal/fetcher"
	"metagame-tracker/internal/formats"
	"metagame-tracker/internal/parsers"

	"go.opentelemetry.io/otel/attribute"
)

const (
	report_syncer_fetch_meta   = "syncer.fetch-meta"
	report_syncer_fetch_events = "syncer.fetch-events"
	report_syncer_new_events   = "syncer.new-events"
	report_syncer_enrich       = "syncer.enrich"
	report_syncer_commit       = "syncer.commit"
)

var tracer = telemetry.Tracer("metagame-tracker/internal/syncer")

// DocumentFetcher is satisfied by *fetcher.Fetcher.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string, opts fetcher.Options) (fetcher.RawDocument, error)
}

type Options struct {
	Sources  Sources
	Lookback formats.Lookback
	// Retention must match the store's, 0 means dataset.RetentionWindow.
	Retention time.Duration
	// MaxAgeDays skips listing rows older than this, 0 or anything past the
	// retention window means the retention window.
	MaxAgeDays int
	// MaxCommitAttempts bounds the reload-and-retry loop of a commit.
	MaxCommitAttempts int
	// Concurrency bounds parallel decklist fetches.
	Concurrency int
}

type Syncer struct {
	fetcher DocumentFetcher
	clock   chrono.API
	opts    Options
	tel     telemetry.API
}

func New(documents DocumentFetcher, clock chrono.API, opts Options, tel telemetry.API) *Syncer {
	assert.NotNil(documents)
	assert.NotNil(clock)
	assert.NotNil(tel)

	if opts.Lookback == 0 {
		opts.Lookback = formats.LastMonth
	}
	if opts.Retention <= 0 {
		opts.Retention = dataset.RetentionWindow
	}
	// rows older than this would be pruned right after being written
	retentionDays := dataset.RetentionDays(opts.Retention)
	if opts.MaxAgeDays <= 0 || opts.MaxAgeDays > retentionDays {
		opts.MaxAgeDays = retentionDays
	}
	if opts.MaxCommitAttempts <= 0 {
		opts.MaxCommitAttempts = 3
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = fetcher.MaxConcurrency
	}

	return &Syncer{
		fetcher: documents,
		clock:   clock,
		opts:    opts,
		tel:     telemetry.NewScopedAPI("syncer", tel),
	}
}

type Status string

const (
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	// StatusPartial means one of the sources failed but the other produced data.
	StatusPartial Status = "partial"
	// StatusEmpty means neither source could be fetched and parsed, which is
	// what a blocked request looks like.
	StatusEmpty Status = "empty"
)

type Report struct {
	Format    formats.Format
	Status    Status
	MetaCount int
	NewEvents int
	Warnings  []string
}

func (r Report) Message() string {
	var msg string
	switch r.Status {
	case StatusEmpty:
		msg = fmt.Sprintf("%s: no data from either source, the sites may be blocking requests", r.Format.Name)
	case StatusUnchanged:
		msg = fmt.Sprintf("%s: up to date, %d archetypes, no new events", r.Format.Name, r.MetaCount)
	default:
		msg = fmt.Sprintf("%s: %d archetypes, %d new events", r.Format.Name, r.MetaCount, r.NewEvents)
	}
	if len(r.Warnings) > 0 {
		msg += " (" + strings.Join(r.Warnings, "; ") + ")"
	}
	return msg
}

// Sync merges what the sources currently show for format into a copy of
// current. It never fails: fetch and parse problems end up as warnings on
// the report, the returned delta holds exactly what changed.
func (s *Syncer) Sync(ctx context.Context, format formats.Format, current dataset.Dataset) (dataset.Dataset, dataset.Delta, Report) {
	ctx, span := tracer.Start(ctx, "Sync")
	defer span.End()
	span.SetAttributes(attribute.String("format", format.Code))

	report := Report{Format: format}
	delta := dataset.Delta{MetaFormat: format.Name}

	shares, err := s.fetchMeta(ctx, format)
	metaOk := err == nil
	if err != nil {
		s.tel.ReportWarning(report_syncer_fetch_meta, err, format.Name)
		report.Warnings = append(report.Warnings, err.Error())
	} else {
		delta.Meta = shares
	}

	newest, known := current.NewestDate(format.Code)
	listing, err := s.fetchEvents(ctx, format, newest, known)
	switch {
	case err != nil:
		// without the listing nothing is applied, not even a fresh meta
		s.tel.ReportWarning(report_syncer_fetch_events, err, format.Code)
		report.Warnings = append(report.Warnings, err.Error())
		delta.Meta = nil
	case listing.rows == 0:
		err := fmt.Errorf("events: no placements found at %s", listing.url)
		s.tel.ReportWarning(report_syncer_fetch_events, err, format.Code)
		report.Warnings = append(report.Warnings, err.Error())
	default:
		delta.Records = s.unexpired(listing.records)
	}
	report.MetaCount = len(delta.Meta)

	updated := current.Clone()
	result := delta.Apply(&updated)
	report.NewEvents = result.Added
	s.tel.ReportCount(report_syncer_new_events, int64(result.Added))

	switch {
	case !metaOk && listing.rows == 0:
		report.Status = StatusEmpty
	case len(report.Warnings) > 0:
		report.Status = StatusPartial
	case !result.Changed():
		report.Status = StatusUnchanged
	default:
		report.Status = StatusUpdated
	}

	span.SetAttributes(
		attribute.String("status", string(report.Status)),
		attribute.Int("new_events", report.NewEvents),
	)
	return updated, delta, report
}

func (s *Syncer) fetchMeta(ctx context.Context, format formats.Format) ([]dataset.ArchetypeShare, error) {
	doc, err := s.fetcher.Fetch(ctx, s.opts.Sources.MetagameUrl(format, s.opts.Lookback), fetcher.Options{})
	if err != nil {
		return nil, fmt.Errorf("metagame: %w", err)
	}
	shares := parsers.ParseArchetypes(parsers.NewDocument(doc.Body))
	if len(shares) == 0 {
		return nil, fmt.Errorf("metagame: no archetypes found at %s", doc.URL)
	}
	return shares, nil
}

type eventListing struct {
	url     string
	rows    int
	records []dataset.EventRecord
}

// fetchEvents stops at the newest known date so only new activity is parsed.
// rows counts every listing row, including the ones that stopped the scan.
func (s *Syncer) fetchEvents(ctx context.Context, format formats.Format, newest dataset.Date, known bool) (eventListing, error) {
	url := s.opts.Sources.EventsUrl(format, s.opts.Lookback)
	raw, err := s.fetcher.Fetch(ctx, url, fetcher.Options{Referer: s.opts.Sources.eventsBase() + "/"})
	if err != nil {
		return eventListing{url: url}, fmt.Errorf("events: %w", err)
	}
	doc := parsers.NewDocument(raw.Body)

	opts := parsers.EventOptions{
		Format:     format.Code,
		MaxAgeDays: s.opts.MaxAgeDays,
		Now:        s.clock.Now(),
		Base:       s.opts.Sources.EventsBase(),
	}
	if known {
		opts.EarliestKnown = newest
	}
	return eventListing{
		url:     url,
		rows:    parsers.CountListingRows(doc, opts.Base),
		records: parsers.ParseEvents(doc, opts),
	}, nil
}

func (s *Syncer) unexpired(records []dataset.EventRecord) []dataset.EventRecord {
	now := s.clock.Now()
	kept := []dataset.EventRecord{}
	for _, record := range records {
		if dataset.Expired(record.Date, now, s.opts.Retention) {
			continue
		}
		kept = append(kept, record)
	}
	return kept
}
