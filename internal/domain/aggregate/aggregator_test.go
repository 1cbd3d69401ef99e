package aggregate_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/edviva/impactboard/internal/domain/aggregate"
	"github.com/edviva/impactboard/internal/domain/issuelog"
	"github.com/edviva/impactboard/internal/domain/model"
	"github.com/edviva/impactboard/internal/domain/period"
	"github.com/edviva/impactboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

func fixedClock() func() time.Time {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func newAggregator(log *issuelog.Log) *aggregate.Aggregator {
	return aggregate.New(
		aggregate.WithIssueLog(log),
		aggregate.WithNormalizer(period.NewNormalizer(period.WithClock(fixedClock()))),
		aggregate.WithIdentifierTables([]string{"Monthly reporting"}),
	)
}

func monthlyRecords() []model.RawRecord {
	return []model.RawRecord{
		{
			"Business name":                           "Acme",
			"Reporting month":                         "Report 2 - Feb 2024",
			"Monthly Sales":                           2000.0,
			"Monthly net profit":                      -10.0,
			"Operational jobs - Total":                4.0,
			"Educational resourcing jobs -Total":      2.0,
			"Operational jobs - female":               2.0,
			"Educational resourcing jobs - Female":    1.0,
			"Youth operational jobs":                  1.0,
			"Total Subscribers -Students":             100.0,
			"Total Subscribers - Educators":           20.0,
			"Net new monthly subscribers  - students": 15.0,
		},
		{
			"Business name":      "Acme",
			"Reporting month":    "Report 1 - Jan 2024",
			"Monthly Sales":      1000.0,
			"Monthly net profit": 100.0,
		},
	}
}

func TestIngest(t *testing.T) {
	Convey("Given a fresh aggregator", t, func() {
		log := issuelog.New()
		agg := newAggregator(log)
		ctx := context.Background()

		Convey("When ingesting two records for the same entity", func() {
			agg.Ingest(ctx, "Cohort 1", "Monthly reporting", monthlyRecords())
			entities := agg.Finalize()

			Convey("Then one entity exists with both observations in date order", func() {
				So(entities, ShouldHaveLength, 1)
				e := entities[0]
				So(e.Name, ShouldEqual, "Acme")
				So(e.Cohort, ShouldEqual, "Cohort 1")
				So(e.MonthsOfData, ShouldEqual, 2)
				So(e.Observations, ShouldHaveLength, 2)
				So(e.Observations[0].Period, ShouldEqual, "Jan 2024")
				So(e.Observations[1].Period, ShouldEqual, "Feb 2024")
				So(e.Observations[0].SortKey, ShouldEqual, 1)
				So(e.Observations[1].SortKey, ShouldEqual, 2)
			})

			Convey("Then composite fields are explicit sums of sub-fields", func() {
				obs := entities[0].Observations[1]
				So(obs.TotalJobs, ShouldEqual, 6.0)
				So(obs.FemaleJobs, ShouldEqual, 3.0)
				So(obs.TotalSubscribers, ShouldEqual, 120.0)
				So(obs.Learners, ShouldEqual, 100.0)
				So(obs.Educators, ShouldEqual, 20.0)
				So(obs.NewLearners, ShouldEqual, 15.0)
				So(obs.NewEducators, ShouldEqual, 0.0)
			})

			Convey("Then absent numerics default to 0, never nil", func() {
				obs := entities[0].Observations[0]
				So(obs.TotalJobs, ShouldEqual, 0.0)
				So(obs.Schools, ShouldEqual, 0.0)
			})

			Convey("Then the identifier fallback is logged exactly once", func() {
				var fallbacks []model.IssueRecord
				for _, rec := range log.Records() {
					if rec.Kind == model.IssueFallbackUsed {
						fallbacks = append(fallbacks, rec)
					}
				}
				So(fallbacks, ShouldHaveLength, 1)
				So(fallbacks[0].Cohort, ShouldEqual, "Cohort 1")
				So(fallbacks[0].Details, ShouldContainSubstring, "Business name")
			})
		})

		Convey("When a record has no resolvable identifier", func() {
			rec := model.RawRecord{"Reporting month": "Report 1 - Jan 2024", "Monthly Sales": 5.0}

			Convey("And the table is expected to carry one", func() {
				agg.Ingest(ctx, "Cohort 1", "Monthly reporting", []model.RawRecord{rec})

				Convey("Then the record is dropped and the drop is logged", func() {
					So(agg.Finalize(), ShouldHaveLength, 0)
					recs := log.Records()
					So(recs, ShouldHaveLength, 1)
					So(recs[0].Kind, ShouldEqual, model.IssueMissingIdentifier)
					So(recs[0].Details, ShouldContainSubstring, "Reporting month")
				})
			})

			Convey("And the table is not expected to carry one", func() {
				agg.Ingest(ctx, "Cohort 1", "Connections", []model.RawRecord{rec})

				Convey("Then the record is dropped silently", func() {
					So(agg.Finalize(), ShouldHaveLength, 0)
					So(log.Len(), ShouldEqual, 0)
				})
			})
		})

		Convey("When the same entity name appears in two cohorts", func() {
			rec := model.RawRecord{"Company name": "Acme", "Reporting month": "Report 1 - Jan 2024"}
			agg.Ingest(ctx, "Cohort 1", "Monthly reporting", []model.RawRecord{rec})
			agg.Ingest(ctx, "Cohort 2", "Monthly reporting", []model.RawRecord{rec})

			Convey("Then they remain distinct entities", func() {
				So(agg.Finalize(), ShouldHaveLength, 2)
			})
		})

		Convey("When the same period appears in two source rows", func() {
			rec := model.RawRecord{"Company name": "Acme", "Reporting month": "Report 1 - Jan 2024"}
			agg.Ingest(ctx, "Cohort 1", "Monthly reporting", []model.RawRecord{rec, rec})

			Convey("Then both rows keep their own observation", func() {
				entities := agg.Finalize()
				So(entities[0].Observations, ShouldHaveLength, 2)
				So(entities[0].MonthsOfData, ShouldEqual, 2)
			})
		})
	})
}

func TestIngestIdempotence(t *testing.T) {
	Convey("Given the same immutable input batch", t, func() {
		records := monthlyRecords()
		run := func() ([]*model.Entity, []model.IssueRecord) {
			log := issuelog.New()
			agg := newAggregator(log)
			agg.Ingest(context.Background(), "Cohort 1", "Monthly reporting", records)
			return agg.Finalize(), log.Records()
		}

		Convey("When running two fresh aggregations over it", func() {
			entitiesA, issuesA := run()
			entitiesB, issuesB := run()

			Convey("Then entity sets, observation order and issues are identical", func() {
				So(entitiesB, ShouldHaveLength, len(entitiesA))
				for i := range entitiesA {
					So(*entitiesB[i], ShouldResemble, *entitiesA[i])
				}
				So(issuesB, ShouldResemble, issuesA)
			})
		})
	})
}

func TestAliasOverrides(t *testing.T) {
	Convey("Given an aggregator with overridden alias tables", t, func() {
		log := issuelog.New()
		agg := aggregate.New(
			aggregate.WithIssueLog(log),
			aggregate.WithNormalizer(period.NewNormalizer(period.WithClock(fixedClock()))),
			aggregate.WithAliases(map[string][]string{
				"sales": {"Revenue (ZAR)"},
			}),
		)

		Convey("When a record uses the new literal name", func() {
			agg.Ingest(context.Background(), "Cohort 4", "Monthly reporting", []model.RawRecord{
				{"Company name": "Beta", "Reporting month": "Report 1 - Jan 2024", "Revenue (ZAR)": 777.0},
			})

			Convey("Then aggregation picks it up without code changes", func() {
				entities := agg.Finalize()
				So(entities, ShouldHaveLength, 1)
				So(entities[0].Observations[0].Sales, ShouldEqual, 777.0)
			})
		})
	})
}
