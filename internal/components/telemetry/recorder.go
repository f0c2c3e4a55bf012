package telemetry

import (
	"strings"
	"sync"
)

type ReportKind int

const (
	ReportKindBroken ReportKind = iota
	ReportKindWarning
	ReportKindDebug
	ReportKindCount
)

type Report struct {
	Kind   ReportKind
	ID     string
	Params []any
	Count  int64
}

// Recorder is an in-memory API that keeps every report, it is meant for tests
// that assert on what a component reported.
type Recorder struct {
	mu      sync.Mutex
	reports []Report
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) push(report Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

func (r *Recorder) ReportBroken(id string, params ...any) {
	r.push(Report{Kind: ReportKindBroken, ID: id, Params: params})
}

func (r *Recorder) ReportWarning(id string, params ...any) {
	r.push(Report{Kind: ReportKindWarning, ID: id, Params: params})
}

func (r *Recorder) ReportDebug(msg string, params ...any) {
	r.push(Report{Kind: ReportKindDebug, ID: msg, Params: params})
}

func (r *Recorder) ReportCount(id string, count int64) {
	r.push(Report{Kind: ReportKindCount, ID: id, Count: count})
}

// Reports returns a copy of every report of the given kind.
func (r *Recorder) Reports(kind ReportKind) []Report {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Report
	for _, report := range r.reports {
		if report.Kind == kind {
			out = append(out, report)
		}
	}
	return out
}

// Has returns true if a report of the given kind has an id ending with suffix.
// Scoped ids are prefixed with their namespace, hence the suffix match.
func (r *Recorder) Has(kind ReportKind, suffix string) bool {
	for _, report := range r.Reports(kind) {
		if strings.HasSuffix(report.ID, suffix) {
			return true
		}
	}
	return false
}
