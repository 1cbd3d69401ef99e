// Package derive computes growth, phase classification, red flags and
// cross-entity summaries from time-ordered series. Everything here is a
// pure function of the ordered input, recomputed every run.
package derive

import (
	"math"

	"github.com/edviva/impactboard/internal/domain/model"
)

// Phase classification boundaries, in months of data.
const (
	phaseIMax   = 6
	phaseIIMax  = 12
	phaseIIIMax = 18
)

const percent = 100

// Phase classifies reporting maturity by observation count.
func Phase(months int) model.Phase {
	switch {
	case months <= phaseIMax:
		return model.PhaseI
	case months <= phaseIIMax:
		return model.PhaseII
	case months <= phaseIIIMax:
		return model.PhaseIII
	default:
		return model.PhaseIV
	}
}

// Classify sets the entity's phase and red flag in place. The flag looks
// only at the most recent observation: one bad month flags the entity
// regardless of trend. Observations must already be in chronological order.
func Classify(e *model.Entity) {
	e.Phase = Phase(len(e.Observations))
	e.Flagged = false
	if last, ok := latest(e); ok && last.Profit < 0 {
		e.Flagged = true
	}
}

// Growth returns the period-over-period growth percentage, guarded to 0
// when the baseline is zero rather than propagating infinities.
func Growth(current, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (current - baseline) / baseline * percent
}

// GrowthSeries maps an ordered value series to its growth series; index 0
// has no predecessor and is defined as 0.
func GrowthSeries(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		out[i] = Growth(values[i], values[i-1])
	}
	return out
}

// Enrich attaches sales/profit growth and cumulative new-subscriber totals
// to an ordered series. The cumulative sum starts at 0 for each call and is
// never carried across series.
func Enrich(points []model.Point) []model.Point {
	var cumulative float64
	for i := range points {
		if i > 0 {
			points[i].SalesGrowth = Growth(points[i].Sales, points[i-1].Sales)
			points[i].ProfitGrowth = Growth(points[i].Profit, points[i-1].Profit)
		}
		cumulative += points[i].NewSubscribers
		points[i].CumulativeNewSubscribers = cumulative
	}
	return points
}

// latest returns the chronologically last observation of an entity.
func latest(e *model.Entity) (model.Observation, bool) {
	if len(e.Observations) == 0 {
		return model.Observation{}, false
	}
	return e.Observations[len(e.Observations)-1], true
}

func first(e *model.Entity) (model.Observation, bool) {
	if len(e.Observations) == 0 {
		return model.Observation{}, false
	}
	return e.Observations[0], true
}

// CohortSummaries folds entities into one last-vs-first summary per cohort
// plus a program-wide total. "New X" figures are net change over each
// entity's observed lifetime; single-observation entities contribute 0 by
// construction. Cohorts appear in first-seen entity order.
func CohortSummaries(entities []*model.Entity) ([]model.CohortSummary, model.CohortSummary) {
	byCohort := make(map[string]*model.CohortSummary)
	initialJobs := make(map[string]float64)
	var order []string

	for _, e := range entities {
		s, ok := byCohort[e.Cohort]
		if !ok {
			s = &model.CohortSummary{Cohort: e.Cohort}
			byCohort[e.Cohort] = s
			order = append(order, e.Cohort)
		}

		last, ok := latest(e)
		if !ok {
			continue
		}
		head, _ := first(e)

		s.CurrentTotalJobs += last.TotalJobs
		s.NewJobsCreated += last.TotalJobs - head.TotalJobs
		s.NewFemaleJobs += last.FemaleJobs - head.FemaleJobs
		s.YouthJobs += last.YouthJobs
		initialJobs[e.Cohort] += head.TotalJobs

		s.TotalLearners += last.Learners
		s.TotalEducators += last.Educators
		s.TotalSubscribers += last.TotalSubscribers
		s.SASchools += last.SASchools
		s.Q13Schools += last.Q13Schools

		for _, obs := range e.Observations {
			s.NewLearners += obs.NewLearners
			s.NewEducators += obs.NewEducators
			s.SalesTotal += obs.Sales
			s.ProfitTotal += obs.Profit
		}
	}

	summaries := make([]model.CohortSummary, 0, len(order))
	var program model.CohortSummary
	var programInitialJobs float64
	program.Cohort = "Overall"

	for _, cohort := range order {
		s := byCohort[cohort]
		s.PercentChangeJobs = Growth(initialJobs[cohort]+s.NewJobsCreated, initialJobs[cohort])
		summaries = append(summaries, *s)

		program.CurrentTotalJobs += s.CurrentTotalJobs
		program.NewJobsCreated += s.NewJobsCreated
		program.NewFemaleJobs += s.NewFemaleJobs
		program.YouthJobs += s.YouthJobs
		program.TotalLearners += s.TotalLearners
		program.TotalEducators += s.TotalEducators
		program.NewLearners += s.NewLearners
		program.NewEducators += s.NewEducators
		program.TotalSubscribers += s.TotalSubscribers
		program.SASchools += s.SASchools
		program.Q13Schools += s.Q13Schools
		program.SalesTotal += s.SalesTotal
		program.ProfitTotal += s.ProfitTotal
		programInitialJobs += initialJobs[cohort]
	}
	program.PercentChangeJobs = Growth(programInitialJobs+program.NewJobsCreated, programInitialJobs)

	return summaries, program
}

// Demographics computes per-cohort female/rural/disability learner shares.
// Learner totals come from each entity's latest observation; demographic
// counts use the maximum ever reported per entity, since cohorts report
// them sporadically.
func Demographics(entities []*model.Entity) []model.Demographics {
	type tally struct {
		learners   float64
		female     float64
		rural      float64
		disability float64
	}
	byCohort := make(map[string]*tally)
	var order []string

	for _, e := range entities {
		t, ok := byCohort[e.Cohort]
		if !ok {
			t = &tally{}
			byCohort[e.Cohort] = t
			order = append(order, e.Cohort)
		}

		last, ok := latest(e)
		if !ok {
			continue
		}
		t.learners += last.Learners

		var maxFemale, maxRural, maxDisability float64
		for _, obs := range e.Observations {
			maxFemale = math.Max(maxFemale, obs.FemaleLearners)
			maxRural = math.Max(maxRural, obs.RuralLearners)
			maxDisability = math.Max(maxDisability, obs.DisabilityLearners)
		}
		t.female += maxFemale
		t.rural += maxRural
		t.disability += maxDisability
	}

	out := make([]model.Demographics, 0, len(order))
	for _, cohort := range order {
		t := byCohort[cohort]
		out = append(out, model.Demographics{
			Cohort:        cohort,
			Learners:      t.learners,
			FemalePct:     pct(t.female, t.learners),
			RuralPct:      pct(t.rural, t.learners),
			DisabilityPct: pct(t.disability, t.learners),
		})
	}
	return out
}

func pct(part, whole float64) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(part / whole * percent))
}
