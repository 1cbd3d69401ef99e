// Package invest extracts funding records from the connections table. The
// table mixes connection types; only rows marked as investment/funding
// become Investment records, resolved through the same alias machinery as
// the monthly metrics.
package invest

import (
	"strings"

	"github.com/edviva/impactboard/internal/domain/fieldres"
	"github.com/edviva/impactboard/internal/domain/model"
)

// fundingConnectionType marks the connection rows that carry an investment.
// The literal includes the source's stray space.
const fundingConnectionType = "Investment/ funding"

// Defaults for rows whose counterpart fields did not resolve. An investment
// row is still worth surfacing when the amount is known but the names are
// not.
const (
	unknownFellow   = "Unknown Fellow"
	unknownInvestor = "Unknown Investor"
)

// Extractor turns raw connection records into Investment records.
type Extractor struct {
	aliases map[string]fieldres.Query
}

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithAliases overrides alias tables per logical field. Unlisted fields
// keep their built-in candidate lists.
func WithAliases(aliases map[string][]string) Option {
	return func(e *Extractor) {
		for field, candidates := range aliases {
			if len(candidates) > 0 {
				e.aliases[field] = fieldres.Query(candidates)
			}
		}
	}
}

// New constructs an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{aliases: make(map[string]fieldres.Query)}
	for field, candidates := range fieldres.DefaultAliases() {
		e.aliases[field] = fieldres.Query(candidates)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the investment rows of one cohort's connections batch, in
// source order. Rows with other connection types are skipped; unresolved
// fellow and investor names fall back to placeholder labels rather than
// dropping the row.
func (e *Extractor) Extract(cohort string, records []model.RawRecord) []model.Investment {
	var out []model.Investment
	for _, rec := range records {
		kind, _ := fieldres.Text(rec, e.aliases[fieldres.FieldConnectionType])
		if !strings.EqualFold(strings.TrimSpace(kind), fundingConnectionType) {
			continue
		}

		fellow, _ := fieldres.Text(rec, e.aliases[fieldres.FieldInvestmentFellow])
		if fellow == "" {
			fellow = unknownFellow
		}
		investor, _ := fieldres.Text(rec, e.aliases[fieldres.FieldInvestmentInvestor])
		if investor == "" {
			investor = unknownInvestor
		}
		amount, _ := fieldres.Number(rec, e.aliases[fieldres.FieldInvestmentAmount])
		date, _ := fieldres.Text(rec, e.aliases[fieldres.FieldInvestmentDate])

		out = append(out, model.Investment{
			FellowName:   fellow,
			Cohort:       cohort,
			Amount:       amount,
			Investor:     investor,
			MonthSecured: date,
		})
	}
	return out
}
