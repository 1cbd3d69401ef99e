package derive_test

import (
	"testing"

	"github.com/edviva/impactboard/internal/domain/derive"
	"github.com/edviva/impactboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func entityWithObservations(n int, lastProfit float64) *model.Entity {
	e := &model.Entity{Name: "Acme", Cohort: "Cohort 1"}
	for i := 0; i < n; i++ {
		e.Observations = append(e.Observations, model.Observation{SortKey: i + 1})
	}
	if n > 0 {
		e.Observations[n-1].Profit = lastProfit
	}
	e.MonthsOfData = n
	return e
}

func TestPhase(t *testing.T) {
	Convey("Given the phase boundaries", t, func() {
		cases := map[int]model.Phase{
			0:  model.PhaseI,
			6:  model.PhaseI,
			7:  model.PhaseII,
			12: model.PhaseII,
			13: model.PhaseIII,
			18: model.PhaseIII,
			19: model.PhaseIV,
			30: model.PhaseIV,
		}

		Convey("Then each month count maps to its phase", func() {
			for months, want := range cases {
				So(derive.Phase(months), ShouldEqual, want)
			}
		})
	})
}

func TestClassify(t *testing.T) {
	Convey("Given entities with varying latest profit", t, func() {
		Convey("When the latest observation has profit -1", func() {
			e := entityWithObservations(3, -1)
			derive.Classify(e)

			Convey("Then the entity is red-flagged", func() {
				So(e.Flagged, ShouldBeTrue)
				So(e.Phase, ShouldEqual, model.PhaseI)
			})
		})

		Convey("When the latest observation has profit 0", func() {
			e := entityWithObservations(3, 0)
			derive.Classify(e)

			Convey("Then the entity is not flagged", func() {
				So(e.Flagged, ShouldBeFalse)
			})
		})

		Convey("When only an earlier observation was negative", func() {
			e := entityWithObservations(3, 50)
			e.Observations[0].Profit = -500
			derive.Classify(e)

			Convey("Then only the latest period counts", func() {
				So(e.Flagged, ShouldBeFalse)
			})
		})

		Convey("When the entity has no observations", func() {
			e := entityWithObservations(0, 0)
			derive.Classify(e)

			So(e.Flagged, ShouldBeFalse)
			So(e.Phase, ShouldEqual, model.PhaseI)
		})
	})
}

func TestGrowthSeries(t *testing.T) {
	Convey("Given the series [100, 150, 0, 50]", t, func() {
		growth := derive.GrowthSeries([]float64{100, 150, 0, 50})

		Convey("Then growth is [0, 50, -100, 0] with zero baselines guarded", func() {
			So(growth, ShouldResemble, []float64{0, 50, -100, 0})
		})
	})

	Convey("Given an empty or single-element series", t, func() {
		So(derive.GrowthSeries(nil), ShouldHaveLength, 0)
		So(derive.GrowthSeries([]float64{42}), ShouldResemble, []float64{0})
	})
}

func TestEnrich(t *testing.T) {
	Convey("Given an ordered series of points", t, func() {
		points := []model.Point{
			{Period: "Jan", SortKey: 1, Sales: 100, Profit: 10, NewSubscribers: 5},
			{Period: "Feb", SortKey: 2, Sales: 150, Profit: 0, NewSubscribers: 10},
			{Period: "Mar", SortKey: 3, Sales: 0, Profit: 20, NewSubscribers: 0},
		}

		Convey("When enriching", func() {
			out := derive.Enrich(points)

			Convey("Then growth and cumulative figures are attached", func() {
				So(out[0].SalesGrowth, ShouldEqual, 0.0)
				So(out[1].SalesGrowth, ShouldEqual, 50.0)
				So(out[2].SalesGrowth, ShouldEqual, -100.0)
				So(out[1].ProfitGrowth, ShouldEqual, -100.0)
				So(out[2].ProfitGrowth, ShouldEqual, 0.0) // baseline 0 guarded

				So(out[0].CumulativeNewSubscribers, ShouldEqual, 5.0)
				So(out[1].CumulativeNewSubscribers, ShouldEqual, 15.0)
				So(out[2].CumulativeNewSubscribers, ShouldEqual, 15.0)
			})
		})
	})
}

func TestCohortSummaries(t *testing.T) {
	Convey("Given entities with first and last observations", t, func() {
		entities := []*model.Entity{
			{
				Name: "Acme", Cohort: "Cohort 1",
				Observations: []model.Observation{
					{TotalJobs: 4, FemaleJobs: 1, Sales: 100, Profit: 10, NewLearners: 5, Learners: 50},
					{TotalJobs: 10, FemaleJobs: 4, YouthJobs: 2, Sales: 200, Profit: -5, NewLearners: 7, Learners: 80, Educators: 8, TotalSubscribers: 88, SASchools: 3, Q13Schools: 1},
				},
			},
			{
				Name: "Solo", Cohort: "Cohort 1",
				Observations: []model.Observation{
					{TotalJobs: 2, Sales: 30, Learners: 10},
				},
			},
		}

		Convey("When summarizing", func() {
			summaries, program := derive.CohortSummaries(entities)

			Convey("Then new figures are last minus first per entity", func() {
				So(summaries, ShouldHaveLength, 1)
				s := summaries[0]
				So(s.Cohort, ShouldEqual, "Cohort 1")
				So(s.CurrentTotalJobs, ShouldEqual, 12.0) // 10 + 2
				So(s.NewJobsCreated, ShouldEqual, 6.0)    // (10-4) + (2-2)
				So(s.NewFemaleJobs, ShouldEqual, 3.0)
				So(s.YouthJobs, ShouldEqual, 2.0)
				So(s.PercentChangeJobs, ShouldEqual, 100.0) // 6 new over 6 initial
			})

			Convey("Then lifetime figures sum every observation", func() {
				s := summaries[0]
				So(s.SalesTotal, ShouldEqual, 330.0)
				So(s.ProfitTotal, ShouldEqual, 5.0)
				So(s.NewLearners, ShouldEqual, 12.0)
			})

			Convey("Then current figures use only the latest observation", func() {
				s := summaries[0]
				So(s.TotalLearners, ShouldEqual, 90.0)
				So(s.TotalEducators, ShouldEqual, 8.0)
				So(s.SASchools, ShouldEqual, 3.0)
			})

			Convey("Then single-observation entities contribute zero new jobs", func() {
				So(program.NewJobsCreated, ShouldEqual, 6.0)
			})

			Convey("Then the program total mirrors the single cohort", func() {
				So(program.Cohort, ShouldEqual, "Overall")
				So(program.CurrentTotalJobs, ShouldEqual, summaries[0].CurrentTotalJobs)
				So(program.SalesTotal, ShouldEqual, summaries[0].SalesTotal)
			})
		})
	})
}

func TestDemographics(t *testing.T) {
	Convey("Given a cohort with sporadic demographic reporting", t, func() {
		entities := []*model.Entity{
			{
				Name: "Acme", Cohort: "Cohort 1",
				Observations: []model.Observation{
					{Learners: 60, FemaleLearners: 30, RuralLearners: 10},
					{Learners: 100, FemaleLearners: 0, RuralLearners: 20, DisabilityLearners: 5},
				},
			},
		}

		Convey("When computing demographics", func() {
			out := derive.Demographics(entities)

			Convey("Then shares use latest learners and max demographic counts", func() {
				So(out, ShouldHaveLength, 1)
				d := out[0]
				So(d.Learners, ShouldEqual, 100.0)
				So(d.FemalePct, ShouldEqual, 30) // max 30 of latest 100
				So(d.RuralPct, ShouldEqual, 20)
				So(d.DisabilityPct, ShouldEqual, 5)
			})
		})
	})

	Convey("Given a cohort with no learners", t, func() {
		entities := []*model.Entity{
			{Name: "Empty", Cohort: "Cohort 2", Observations: []model.Observation{{}}},
		}
		out := derive.Demographics(entities)

		Convey("Then percentages are guarded to 0", func() {
			So(out[0].FemalePct, ShouldEqual, 0)
		})
	})
}
