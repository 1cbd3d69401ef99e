// Package period normalizes raw, inconsistently-formatted reporting period
// labels such as "Report 6 - September 2023" into a canonical display label,
// a numeric sort key and a calendar date.
package period

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// UnknownLabel is the display label for empty period values.
const UnknownLabel = "Unknown"

// displayLayout renders parsed dates as "Sep 2023".
const displayLayout = "Jan 2006"

// dateLayouts are tried in order when parsing the free-text date portion.
var dateLayouts = []string{
	"January 2006",
	"Jan 2006",
	"January 2, 2006",
	"2 January 2006",
	"2006-01-02",
	"2006-01",
	"01/02/2006",
	time.RFC3339,
}

// reportPattern extracts the explicit ordinal from labels like "Report 6 - ...".
var reportPattern = regexp.MustCompile(`(?i)report\s*(\d+)`)

// Key is the normalized form of a period label. Date carries chronological
// order even when labels collide; Sort carries the explicit report ordinal
// (0 when absent).
type Key struct {
	Label string
	Sort  int
	Date  time.Time
}

// Normalizer converts raw period labels into Keys. The zero-argument
// constructor uses the wall clock for unparseable dates.
type Normalizer struct {
	now func() time.Time
}

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithClock overrides the processing-time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// NewNormalizer creates a Normalizer with configuration options.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts a raw period label into a Key. It never fails: the
// worst case returns the raw label verbatim with a zero sort key and the
// processing time as date, keeping downstream chronological sort total.
func (n *Normalizer) Normalize(raw string) Key {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Key{Label: UnknownLabel, Sort: 0, Date: n.now()}
	}

	sort := ordinal(raw)

	// "Report 6 - September 2023": the free-text date follows the last separator.
	if strings.Contains(raw, "-") {
		parts := strings.Split(raw, "-")
		datePart := strings.TrimSpace(parts[len(parts)-1])
		if d, ok := parseDate(datePart); ok {
			return Key{Label: d.Format(displayLayout), Sort: sort, Date: d}
		}
	}

	if d, ok := parseDate(raw); ok {
		return Key{Label: d.Format(displayLayout), Sort: sort, Date: d}
	}

	return Key{Label: raw, Sort: sort, Date: n.now()}
}

// ordinal extracts the report number from the label, or 0 when absent.
func ordinal(raw string) int {
	m := reportPattern.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
