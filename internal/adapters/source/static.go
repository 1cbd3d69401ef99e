package source

import (
	"context"
	"fmt"

	"github.com/edviva/impactboard/internal/domain/model"
)

// StaticSource serves record batches from an in-memory map, keyed by cohort
// then table. It backs tests and local wiring without any transport.
type StaticSource struct {
	data     map[string]map[string][]model.RawRecord
	failures map[string]error
}

// NewStaticSource creates a StaticSource over the given batches. The map is
// used as-is; callers must not mutate it after construction.
func NewStaticSource(data map[string]map[string][]model.RawRecord) *StaticSource {
	if data == nil {
		data = make(map[string]map[string][]model.RawRecord)
	}
	return &StaticSource{
		data:     data,
		failures: make(map[string]error),
	}
}

// Fail forces Fetch to return err for the given cohort/table pair, to
// exercise partial-failure handling.
func (s *StaticSource) Fail(cohort, table string, err error) {
	s.failures[cohort+"\x00"+table] = err
}

// Fetch implements Source.
func (s *StaticSource) Fetch(_ context.Context, cohort, table string) ([]model.RawRecord, error) {
	if err, ok := s.failures[cohort+"\x00"+table]; ok {
		return nil, fmt.Errorf("%w: %s/%s: %w", ErrTableUnavailable, cohort, table, err)
	}
	tables, ok := s.data[cohort]
	if !ok {
		return nil, fmt.Errorf("%w: unknown cohort %s", ErrTableUnavailable, cohort)
	}
	records, ok := tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no table %s", ErrTableUnavailable, cohort, table)
	}
	return records, nil
}
