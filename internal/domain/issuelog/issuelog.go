// Package issuelog collects data-quality events made during one
// reconciliation run. The log is append-only; fallback events are
// deduplicated per (cohort, matched field) so systemic schema drift
// surfaces exactly once instead of flooding the log.
package issuelog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/edviva/impactboard/internal/domain/model"
	"github.com/edviva/impactboard/pkg/metrics"
)

// Log accumulates issue records for a single run. It is owned by one run
// and is not safe for concurrent use; fetch results are merged into the
// run single-threaded before logging.
type Log struct {
	records []model.IssueRecord
	seen    map[string]struct{}
}

// New creates an empty Log.
func New() *Log {
	return &Log{seen: make(map[string]struct{})}
}

// SourceUnavailable records a cohort/table pair that could not be fetched.
// The run continues with that source treated as empty.
func (l *Log) SourceUnavailable(cohort, table string, err error) {
	l.append(model.IssueRecord{
		Cohort:  cohort,
		Table:   table,
		Field:   "ALL",
		Kind:    model.IssueSourceUnavailable,
		Details: fmt.Sprintf("could not fetch table: %v", err),
	})
}

// FallbackUsed records that a non-primary alias satisfied a field query.
// Only the first occurrence per (cohort, matched field) is kept; returns
// false when the event was suppressed as a duplicate.
func (l *Log) FallbackUsed(cohort, table, field, matched string) bool {
	key := cohort + "\x00" + matched
	if _, ok := l.seen[key]; ok {
		return false
	}
	l.seen[key] = struct{}{}
	l.append(model.IssueRecord{
		Cohort:  cohort,
		Table:   table,
		Field:   field,
		Kind:    model.IssueFallbackUsed,
		Details: fmt.Sprintf("auto-corrected: used %q instead of %q", matched, field),
	})
	return true
}

// MissingIdentifier records a row that could not be attributed to any
// entity. The raw field names are included to aid schema discovery.
func (l *Log) MissingIdentifier(cohort, table, field string, rec model.RawRecord) {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	l.append(model.IssueRecord{
		Cohort:  cohort,
		Table:   table,
		Field:   field,
		Kind:    model.IssueMissingIdentifier,
		Details: fmt.Sprintf("missing identifier; record keys: %s", strings.Join(keys, ", ")),
	})
}

func (l *Log) append(rec model.IssueRecord) {
	l.records = append(l.records, rec)
	metrics.RecordIssue(string(rec.Kind))
}

// Records returns a copy of the log in insertion order.
func (l *Log) Records() []model.IssueRecord {
	out := make([]model.IssueRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of recorded issues.
func (l *Log) Len() int { return len(l.records) }
