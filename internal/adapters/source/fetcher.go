package source

import (
	"context"
	"sync"

	"github.com/edviva/impactboard/pkg/logger"
	"github.com/edviva/impactboard/pkg/metrics"
)

// defaultWorkers bounds concurrent fetches against the upstream source.
const defaultWorkers = 4

// Fetcher issues the cohort x table fetches for one run concurrently and
// collects the results in deterministic task order. A failed pair yields a
// Batch with Err set and never aborts the other pairs.
type Fetcher struct {
	src     Source
	workers int
	logger  logger.Logger
}

// Option applies a configuration option to the Fetcher.
type Option func(*Fetcher)

// WithWorkers bounds the number of concurrent fetches.
func WithWorkers(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithLogger sets a custom logger for the fetcher.
func WithLogger(l logger.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher over src with configuration options.
func NewFetcher(src Source, opts ...Option) *Fetcher {
	f := &Fetcher{
		src:     src,
		workers: defaultWorkers,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logger.Get().Named("fetcher")
	}
	return f
}

// FetchAll fetches every cohort/table pair. Results come back in the same
// order as the cohort x table cross product regardless of which fetch
// finished first, so downstream merging stays deterministic.
func (f *Fetcher) FetchAll(ctx context.Context, cohorts, tables []string) []Batch {
	batches := make([]Batch, 0, len(cohorts)*len(tables))
	for _, cohort := range cohorts {
		for _, table := range tables {
			batches = append(batches, Batch{Cohort: cohort, Table: table})
		}
	}

	sem := make(chan struct{}, f.workers)
	var wg sync.WaitGroup

	for i := range batches {
		wg.Add(1)
		go func(b *Batch) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			records, err := f.src.Fetch(ctx, b.Cohort, b.Table)
			if err != nil {
				b.Err = err
				metrics.RecordFetchFailure()
				f.logger.Warn(ctx, "fetch failed",
					logger.String("cohort", b.Cohort),
					logger.String("table", b.Table),
					logger.Error(err),
				)
				return
			}
			b.Records = records
			f.logger.Debug(ctx, "fetched batch",
				logger.String("cohort", b.Cohort),
				logger.String("table", b.Table),
				logger.Int("records", len(records)),
			)
		}(&batches[i])
	}
	wg.Wait()

	return batches
}
