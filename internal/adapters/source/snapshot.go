package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/edviva/impactboard/internal/domain/model"
)

// SnapshotSource serves record batches from a JSON snapshot file of shape
// {"Cohort 1": {"Monthly reporting": [{...}, ...]}}. Snapshots make a
// reconciliation run re-runnable over the exact same input.
type SnapshotSource struct {
	static *StaticSource
}

// NewSnapshotSource loads the snapshot at path.
func NewSnapshotSource(path string) (*SnapshotSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshotLoad, err)
	}
	var data map[string]map[string][]model.RawRecord
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSnapshotLoad, path, err)
	}
	return &SnapshotSource{static: NewStaticSource(data)}, nil
}

// Fetch implements Source.
func (s *SnapshotSource) Fetch(ctx context.Context, cohort, table string) ([]model.RawRecord, error) {
	return s.static.Fetch(ctx, cohort, table)
}
