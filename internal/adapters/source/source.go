// Package source defines the record source contract and the concurrent
// fetch orchestration over cohort/table pairs. The source collaborator owns
// authentication, pagination and transport retries; the engine only needs
// batches of raw records, with fetch failure signalled as a distinct
// outcome rather than empty results.
package source

import (
	"context"

	"github.com/edviva/impactboard/internal/domain/model"
)

// Source fetches one batch of raw records per (cohort, table) pair.
type Source interface {
	// Fetch returns the records for a cohort/table pair. A non-nil error
	// means the source was unavailable; it must not be conflated with an
	// empty batch.
	Fetch(ctx context.Context, cohort, table string) ([]model.RawRecord, error)
}

// Batch is the outcome of one cohort/table fetch. Either Records or Err is
// meaningful, never both.
type Batch struct {
	Cohort  string
	Table   string
	Records []model.RawRecord
	Err     error
}
