// Package app provides the core service that runs reconciliation passes
// and exposes the resulting bundle to the HTTP API.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edviva/impactboard/internal/adapters/repository"
	"github.com/edviva/impactboard/internal/adapters/source"
	"github.com/edviva/impactboard/internal/domain/aggregate"
	"github.com/edviva/impactboard/internal/domain/derive"
	"github.com/edviva/impactboard/internal/domain/invest"
	"github.com/edviva/impactboard/internal/domain/issuelog"
	"github.com/edviva/impactboard/internal/domain/model"
	"github.com/edviva/impactboard/internal/domain/rollup"
	"github.com/edviva/impactboard/pkg/logger"
	"github.com/edviva/impactboard/pkg/metrics"
)

// Service orchestrates reconciliation runs over a record source. Each run
// builds a fresh aggregator and issue log; no reconciliation state is
// shared across runs.
type Service struct {
	mu sync.Mutex

	src   source.Source
	store *repository.Store

	cohorts          []string
	tables           []string
	identifierTables []string
	investmentTable  string
	aliases          map[string][]string
	fetchWorkers     int
	refreshInterval  time.Duration

	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the record source collaborator.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.src = src
		}
	}
}

// WithStore sets the bundle store shared with the HTTP layer.
func WithStore(store *repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCohorts sets the cohorts to reconcile.
func WithCohorts(cohorts []string) Option {
	return func(s *Service) {
		if len(cohorts) > 0 {
			s.cohorts = cohorts
		}
	}
}

// WithTables sets the source tables fetched per cohort.
func WithTables(tables []string) Option {
	return func(s *Service) {
		if len(tables) > 0 {
			s.tables = tables
		}
	}
}

// WithIdentifierTables sets the tables expected to carry an identifier.
func WithIdentifierTables(tables []string) Option {
	return func(s *Service) {
		s.identifierTables = tables
	}
}

// WithInvestmentTable sets the connections table funding records are
// extracted from; empty disables investment extraction.
func WithInvestmentTable(table string) Option {
	return func(s *Service) {
		s.investmentTable = table
	}
}

// WithAliases overrides field alias tables.
func WithAliases(aliases map[string][]string) Option {
	return func(s *Service) {
		s.aliases = aliases
	}
}

// WithFetchWorkers bounds concurrent fetches.
func WithFetchWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fetchWorkers = n
		}
	}
}

// WithRefreshInterval sets the periodic refresh interval; zero disables
// refresh after the initial run.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		src:          source.NewStaticSource(nil),
		store:        repository.NewStore(),
		cohorts:      []string{"Cohort 1", "Cohort 2", "Cohort 3", "Cohort 4"},
		tables:       []string{"Monthly reporting"},
		fetchWorkers: 4,
		stopCh:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.identifierTables == nil {
		s.identifierTables = s.tables
	}
	return s
}

// Reconcile performs one full reconciliation pass: fetch every cohort/table
// pair, merge the batches single-threaded, derive metrics and return the
// normalized bundle. It never fails because of data quality; every
// compromise lands in the bundle's issue list instead.
func (s *Service) Reconcile(ctx context.Context) model.Bundle {
	log := s.ensureLogger()
	start := time.Now()

	issues := issuelog.New()
	agg := aggregate.New(
		aggregate.WithIssueLog(issues),
		aggregate.WithAliases(s.aliases),
		aggregate.WithIdentifierTables(s.identifierTables),
		aggregate.WithLogger(log.Named("aggregate")),
	)

	fetcher := source.NewFetcher(s.src,
		source.WithWorkers(s.fetchWorkers),
		source.WithLogger(log.Named("fetcher")),
	)

	// Batches come back in deterministic task order; merging stays
	// single-threaded so the aggregator needs no locking.
	for _, batch := range fetcher.FetchAll(ctx, s.cohorts, s.tables) {
		if batch.Err != nil {
			issues.SourceUnavailable(batch.Cohort, batch.Table, batch.Err)
			continue
		}
		agg.Ingest(ctx, batch.Cohort, batch.Table, batch.Records)
	}

	entities := agg.Finalize()
	for _, e := range entities {
		derive.Classify(e)
	}

	var investments []model.Investment
	if s.investmentTable != "" {
		ext := invest.New(invest.WithAliases(s.aliases))
		for _, batch := range fetcher.FetchAll(ctx, s.cohorts, []string{s.investmentTable}) {
			if batch.Err != nil {
				issues.SourceUnavailable(batch.Cohort, batch.Table, batch.Err)
				continue
			}
			investments = append(investments, ext.Extract(batch.Cohort, batch.Records)...)
		}
	}

	cohortSeries, programSeries := rollup.Aggregate(entities)
	for cohort := range cohortSeries {
		cohortSeries[cohort] = derive.Enrich(cohortSeries[cohort])
	}
	programSeries = derive.Enrich(programSeries)

	summaries, programSummary := derive.CohortSummaries(entities)

	bundle := model.Bundle{
		RunID:          uuid.NewString(),
		GeneratedAt:    time.Now(),
		Entities:       entities,
		CohortSeries:   cohortSeries,
		ProgramSeries:  programSeries,
		Summaries:      summaries,
		ProgramSummary: programSummary,
		Demographics:   derive.Demographics(entities),
		Investments:    investments,
		Issues:         issues.Records(),
	}

	elapsed := time.Since(start)
	metrics.RecordRun(elapsed)
	metrics.UpdateEntityCount(len(bundle.Entities))
	metrics.UpdateIssueCount(len(bundle.Issues))
	metrics.UpdateLastRun(bundle.GeneratedAt)

	log.Info(ctx, "reconciliation run complete",
		logger.String("run_id", bundle.RunID),
		logger.Int("entities", len(bundle.Entities)),
		logger.Int("issues", len(bundle.Issues)),
		logger.Int("investments", len(bundle.Investments)),
		logger.Int("periods", len(bundle.ProgramSeries)),
		logger.Any("elapsed", elapsed),
	)

	return bundle
}

// Start runs the initial reconciliation and, when configured, a periodic
// refresh loop that keeps the stored bundle current.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	log := s.ensureLogger()

	s.store.Set(ctx, s.Reconcile(ctx))

	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go s.refreshLoop(ctx)
	}

	s.started = true
	log.Info(ctx, "reconciliation service started",
		logger.Int("cohorts", len(s.cohorts)),
		logger.Int("tables", len(s.tables)),
		logger.Int("fetch_workers", s.fetchWorkers),
	)
	return nil
}

func (s *Service) refreshLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.store.Set(ctx, s.Reconcile(ctx))
		}
	}
}

// Stop halts the refresh loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	s.wg.Wait()
	s.started = false
	s.ensureLogger().Info(context.Background(), "reconciliation service stopped")
}

// Bundle returns the latest reconciled bundle for the HTTP layer.
func (s *Service) Bundle(ctx context.Context) (model.Bundle, error) {
	return s.store.Get(ctx)
}

// LastRun returns the generation time of the latest bundle.
func (s *Service) LastRun(ctx context.Context) time.Time {
	return s.store.LastRun(ctx)
}

func (s *Service) ensureLogger() logger.Logger {
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}
	return s.logger
}
