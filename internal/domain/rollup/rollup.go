// Package rollup combines per-entity observation series into per-cohort and
// whole-program monthly time series. Output is recomputed from scratch on
// every call; there is no incremental state.
package rollup

import (
	"sort"

	"github.com/edviva/impactboard/internal/domain/model"
)

// series buckets observations by period sort key for one scope.
type series struct {
	buckets map[int]*model.Point
}

func newSeries() *series {
	return &series{buckets: make(map[int]*model.Point)}
}

// add folds one observation into the bucket for its sort key. The first
// label seen for a bucket wins as its display label.
func (s *series) add(obs model.Observation) {
	p, ok := s.buckets[obs.SortKey]
	if !ok {
		p = &model.Point{Period: obs.Period, SortKey: obs.SortKey}
		s.buckets[obs.SortKey] = p
	}
	p.Sales += obs.Sales
	p.Profit += obs.Profit
	p.TotalJobs += obs.TotalJobs
	p.FemaleJobs += obs.FemaleJobs
	p.YouthJobs += obs.YouthJobs
	p.TotalSubscribers += obs.TotalSubscribers
	p.NewSubscribers += obs.NewSubscribers
	p.Learners += obs.Learners
	p.Educators += obs.Educators
	p.Schools += obs.Schools
}

// points returns the buckets ordered by sort key ascending.
func (s *series) points() []model.Point {
	keys := make([]int, 0, len(s.buckets))
	for k := range s.buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]model.Point, 0, len(keys))
	for _, k := range keys {
		out = append(out, *s.buckets[k])
	}
	return out
}

// Aggregate buckets all observations by period sort key, summing each
// numeric field: within a cohort for the cohort series, across all entities
// for the program series.
func Aggregate(entities []*model.Entity) (map[string][]model.Point, []model.Point) {
	cohorts := make(map[string]*series)
	program := newSeries()

	for _, e := range entities {
		cs, ok := cohorts[e.Cohort]
		if !ok {
			cs = newSeries()
			cohorts[e.Cohort] = cs
		}
		for _, obs := range e.Observations {
			cs.add(obs)
			program.add(obs)
		}
	}

	cohortSeries := make(map[string][]model.Point, len(cohorts))
	for name, cs := range cohorts {
		cohortSeries[name] = cs.points()
	}
	return cohortSeries, program.points()
}
