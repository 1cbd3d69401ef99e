// Package aggregate groups raw records by reporting entity and cohort,
// building one time-ordered series of monthly observations per entity.
// An Aggregator is instantiated once per reconciliation run; no mutable
// state outlives the run.
package aggregate

import (
	"context"
	"sort"

	"github.com/edviva/impactboard/internal/domain/fieldres"
	"github.com/edviva/impactboard/internal/domain/issuelog"
	"github.com/edviva/impactboard/internal/domain/model"
	"github.com/edviva/impactboard/internal/domain/period"
	"github.com/edviva/impactboard/pkg/logger"
	"github.com/edviva/impactboard/pkg/metrics"
)

// Aggregator accumulates entities across ingested cohort/table batches.
type Aggregator struct {
	entities map[string]*model.Entity
	order    []string

	log      *issuelog.Log
	norm     *period.Normalizer
	aliases  map[string]fieldres.Query
	idTables map[string]struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithIssueLog sets the issue log the aggregator reports into. When unset a
// fresh log is created, reachable via Issues().
func WithIssueLog(log *issuelog.Log) Option {
	return func(a *Aggregator) {
		if log != nil {
			a.log = log
		}
	}
}

// WithNormalizer sets the period normalizer.
func WithNormalizer(n *period.Normalizer) Option {
	return func(a *Aggregator) {
		if n != nil {
			a.norm = n
		}
	}
}

// WithAliases overrides alias tables per logical field. Unlisted fields
// keep their built-in candidate lists.
func WithAliases(aliases map[string][]string) Option {
	return func(a *Aggregator) {
		for field, candidates := range aliases {
			if len(candidates) > 0 {
				a.aliases[field] = fieldres.Query(candidates)
			}
		}
	}
}

// WithIdentifierTables sets the tables expected to carry an entity
// identifier; only records from these tables produce missing_identifier
// issues when the identifier cannot be resolved.
func WithIdentifierTables(tables []string) Option {
	return func(a *Aggregator) {
		a.idTables = make(map[string]struct{}, len(tables))
		for _, t := range tables {
			a.idTables[t] = struct{}{}
		}
	}
}

// WithLogger sets a custom logger for the aggregator.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New constructs an Aggregator for one reconciliation run.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		entities: make(map[string]*model.Entity),
		aliases:  make(map[string]fieldres.Query),
		idTables: make(map[string]struct{}),
	}
	for field, candidates := range fieldres.DefaultAliases() {
		a.aliases[field] = fieldres.Query(candidates)
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.log == nil {
		a.log = issuelog.New()
	}
	if a.norm == nil {
		a.norm = period.NewNormalizer()
	}
	if a.logger == nil {
		a.logger = logger.Get().Named("aggregate")
	}
	return a
}

// query returns the alias query for a logical field.
func (a *Aggregator) query(field string) fieldres.Query {
	return a.aliases[field]
}

// num resolves a numeric logical field, defaulting to 0 when absent.
func (a *Aggregator) num(rec model.RawRecord, field string) float64 {
	n, _ := fieldres.Number(rec, a.query(field))
	return n
}

// Ingest folds one cohort/table batch into the entity map. Records without
// a resolvable identifier cannot be attributed and are dropped; everything
// else becomes exactly one observation.
func (a *Aggregator) Ingest(ctx context.Context, cohort, table string, records []model.RawRecord) {
	idQuery := a.query(fieldres.FieldIdentifier)

	for _, rec := range records {
		name, idRes := fieldres.Text(rec, idQuery)
		if name == "" {
			if _, expected := a.idTables[table]; expected {
				a.log.MissingIdentifier(cohort, table, idQuery.Primary(), rec)
			}
			metrics.RecordRecordDropped()
			continue
		}

		if idRes.Fallback(idQuery) {
			if a.log.FallbackUsed(cohort, table, idQuery.Primary(), idRes.SourceField) {
				a.logger.Debug(ctx, "identifier resolved via fallback alias",
					logger.String("cohort", cohort),
					logger.String("table", table),
					logger.String("field", idRes.SourceField),
				)
			}
		}

		rawPeriod, _ := fieldres.Text(rec, a.query(fieldres.FieldPeriod))
		key := a.norm.Normalize(rawPeriod)

		entity := a.entity(cohort, name)
		entity.Observations = append(entity.Observations, a.observation(rec, key))
		entity.MonthsOfData++
		metrics.RecordRecordProcessed()
	}
}

// entity returns the entity for (cohort, name), creating it on first sight.
func (a *Aggregator) entity(cohort, name string) *model.Entity {
	key := cohort + "\x00" + name
	if e, ok := a.entities[key]; ok {
		return e
	}
	e := &model.Entity{Name: name, Cohort: cohort, Phase: model.PhaseI}
	a.entities[key] = e
	a.order = append(a.order, key)
	return e
}

// observation builds one reporting-period snapshot from a record. Composite
// fields are explicit sums of sub-fields: no single source field reliably
// carries total jobs or total subscribers.
func (a *Aggregator) observation(rec model.RawRecord, key period.Key) model.Observation {
	opJobs := a.num(rec, fieldres.FieldOperationalJobs)
	eduJobs := a.num(rec, fieldres.FieldEducationalJobs)
	opFemale := a.num(rec, fieldres.FieldOperationalJobsFemale)
	eduFemale := a.num(rec, fieldres.FieldEducationalJobsFemale)

	learners := a.num(rec, fieldres.FieldLearners)
	educators := a.num(rec, fieldres.FieldEducators)
	newSubs := a.num(rec, fieldres.FieldNewSubscribers)

	return model.Observation{
		Period:  key.Label,
		SortKey: key.Sort,
		Date:    key.Date,

		Sales:  a.num(rec, fieldres.FieldSales),
		Profit: a.num(rec, fieldres.FieldProfit),

		TotalJobs:  opJobs + eduJobs,
		FemaleJobs: opFemale + eduFemale,
		YouthJobs:  a.num(rec, fieldres.FieldYouthJobs),

		TotalSubscribers: learners + educators,
		NewSubscribers:   newSubs,
		// No source field separates new learners from new educators; new
		// subscribers are attributed to learners as a proxy.
		NewLearners:  newSubs,
		NewEducators: 0,
		Learners:     learners,
		Educators:    educators,

		Schools:    a.num(rec, fieldres.FieldSchools),
		Q13Schools: a.num(rec, fieldres.FieldQ13Schools),
		SASchools:  a.num(rec, fieldres.FieldSASchools),

		FemaleLearners:     a.num(rec, fieldres.FieldFemaleLearners),
		RuralLearners:      a.num(rec, fieldres.FieldRuralLearners),
		DisabilityLearners: a.num(rec, fieldres.FieldDisabilityLearners),
	}
}

// Finalize sorts each entity's observations by calendar date ascending
// (stable, ties keep insertion order) and returns the entities in first-seen
// order. This is the canonical chronological order downstream metrics assume.
func (a *Aggregator) Finalize() []*model.Entity {
	out := make([]*model.Entity, 0, len(a.order))
	for _, key := range a.order {
		e := a.entities[key]
		sort.SliceStable(e.Observations, func(i, j int) bool {
			return e.Observations[i].Date.Before(e.Observations[j].Date)
		})
		out = append(out, e)
	}
	return out
}

// Issues returns the issue log contents accumulated so far.
func (a *Aggregator) Issues() []model.IssueRecord {
	return a.log.Records()
}
