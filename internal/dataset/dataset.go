// Package dataset is the persisted model: metagame shares per format and the
// tournament placements observed within the retention window.
package dataset

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// RetentionWindow is how long an event record is kept after its date.
const RetentionWindow = 30 * 24 * time.Hour

type ArchetypeShare struct {
	Name string `json:"name"`
	// Pct is the share as displayed by the source, ex. "21.3%".
	Pct string `json:"pct"`
}

// Percent parses Pct, it returns false if Pct is not a number.
func (a ArchetypeShare) Percent() (float64, bool) {
	raw := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(a.Pct), "%"))
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// RefKind tells which id space a ReferenceID belongs to.
type RefKind string

const (
	// RefDeck is a single placement's decklist (the `d` parameter).
	RefDeck RefKind = ""
	// RefEvent is a whole event (the `e` parameter), used when a listing row
	// links no deck of its own.
	RefEvent RefKind = "event"
)

const eventRefPrefix = "e"

// Key identifies an event record, no two records in a dataset share one.
type Key struct {
	Format      string
	Kind        RefKind
	ReferenceID string
}

// Reference is the id as shown to users, event ids carry an "e" prefix.
func (k Key) Reference() string {
	if k.Kind == RefEvent {
		return eventRefPrefix + k.ReferenceID
	}
	return k.ReferenceID
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Format, k.Reference())
}

// ParseReference is the inverse of Key.Reference.
func ParseReference(format, reference string) Key {
	id, isEvent := strings.CutPrefix(reference, eventRefPrefix)
	if isEvent && id != "" {
		return Key{Format: format, Kind: RefEvent, ReferenceID: id}
	}
	return Key{Format: format, ReferenceID: reference}
}

type EventRecord struct {
	// Format is the event site's format code.
	Format      string  `json:"format"`
	Date        Date    `json:"date"`
	Rank        string  `json:"place"`
	Title       string  `json:"title"`
	ReferenceID string  `json:"id"`
	RefKind     RefKind `json:"ref_kind,omitempty"`
	// Cards is nil until the decklist has been fetched and fully parsed.
	Cards []string `json:"cards,omitempty"`
}

func (r EventRecord) Key() Key {
	return Key{Format: r.Format, Kind: r.RefKind, ReferenceID: r.ReferenceID}
}

func (r EventRecord) HasCards() bool {
	return len(r.Cards) > 0
}

type Dataset struct {
	// Meta is keyed by format display name.
	Meta  map[string][]ArchetypeShare `json:"meta"`
	Decks []EventRecord               `json:"decks"`
}

// New returns an empty, correctly shaped dataset.
func New() Dataset {
	return Dataset{
		Meta:  map[string][]ArchetypeShare{},
		Decks: []EventRecord{},
	}
}

// Clone returns a deep copy, mutating it leaves the original untouched.
func (d Dataset) Clone() Dataset {
	out := New()
	for format, shares := range d.Meta {
		out.Meta[format] = slices.Clone(shares)
	}
	out.Decks = make([]EventRecord, len(d.Decks))
	for i, record := range d.Decks {
		record.Cards = slices.Clone(record.Cards)
		out.Decks[i] = record
	}
	return out
}

// Index returns the position of the record with the given key, -1 if absent.
func (d Dataset) Index(key Key) int {
	for i, record := range d.Decks {
		if record.Key() == key {
			return i
		}
	}
	return -1
}

func (d Dataset) Find(key Key) (EventRecord, bool) {
	i := d.Index(key)
	if i < 0 {
		return EventRecord{}, false
	}
	return d.Decks[i], true
}

// NewestDate returns the latest event date known for the format.
func (d Dataset) NewestDate(format string) (Date, bool) {
	var newest Date
	found := false
	for _, record := range d.Decks {
		if record.Format != format {
			continue
		}
		if !found || record.Date.After(newest) {
			newest = record.Date
			found = true
		}
	}
	return newest, found
}

// ForFormat returns the records of a format in dataset order.
func (d Dataset) ForFormat(format string) []EventRecord {
	var out []EventRecord
	for _, record := range d.Decks {
		if record.Format == format {
			out = append(out, record)
		}
	}
	return out
}

// RetentionDays is the whole number of days in retention.
func RetentionDays(retention time.Duration) int {
	return int(retention / (24 * time.Hour))
}

// Cutoff is the oldest calendar date still inside a window of `days` days
// ending today, today being the date now has in its own location.
func Cutoff(now time.Time, days int) Date {
	return DateOf(DateOf(now).AddDate(0, 0, -days))
}

// Expired reports whether date falls outside the retention window.
func Expired(date Date, now time.Time, retention time.Duration) bool {
	return date.Before(Cutoff(now, RetentionDays(retention)))
}

// Prune drops every record dated before the retention cutoff and returns how
// many were dropped.
func (d *Dataset) Prune(now time.Time, retention time.Duration) int {
	kept := d.Decks[:0]
	for _, record := range d.Decks {
		if Expired(record.Date, now, retention) {
			continue
		}
		kept = append(kept, record)
	}
	removed := len(d.Decks) - len(kept)
	d.Decks = kept
	return removed
}

// Encode serializes the dataset into the persisted JSON layout.
func Encode(d Dataset) ([]byte, error) {
	if d.Meta == nil {
		d.Meta = map[string][]ArchetypeShare{}
	}
	if d.Decks == nil {
		d.Decks = []EventRecord{}
	}
	return json.Marshal(d)
}

// Decode parses the persisted JSON layout, an empty blob decodes to an empty dataset.
func Decode(blob []byte) (Dataset, error) {
	out := New()
	if len(strings.TrimSpace(string(blob))) == 0 {
		return out, nil
	}
	err := json.Unmarshal(blob, &out)
	if err != nil {
		return New(), fmt.Errorf("decode dataset: %w", err)
	}
	if out.Meta == nil {
		out.Meta = map[string][]ArchetypeShare{}
	}
	if out.Decks == nil {
		out.Decks = []EventRecord{}
	}
	return out, nil
}
