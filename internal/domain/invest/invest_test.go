package invest_test

import (
	"testing"

	"github.com/edviva/impactboard/internal/domain/invest"
	"github.com/edviva/impactboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func connectionRecords() []model.RawRecord {
	return []model.RawRecord{
		{
			"Connection type":                   "Investment/ funding",
			"Company name (fellow)":             []any{"Acme"},
			"Amount":                            50000.0,
			"Date":                              "March 2024",
			"Company/ person name (Connection)": "Impact Capital",
		},
		{
			"Connection type":       "Mentorship",
			"Company name (fellow)": "Acme",
			"Amount":                1.0,
		},
		{
			"Connection type":       "Investment/ funding",
			"Company name (fellow)": "Beta",
			"Value":                 12000.0,
		},
	}
}

func TestExtract(t *testing.T) {
	Convey("Given a connections batch mixing connection types", t, func() {
		ext := invest.New()

		Convey("When extracting investments for a cohort", func() {
			investments := ext.Extract("Cohort 1", connectionRecords())

			Convey("Then only funding rows survive, in source order", func() {
				So(investments, ShouldHaveLength, 2)
				So(investments[0].FellowName, ShouldEqual, "Acme")
				So(investments[1].FellowName, ShouldEqual, "Beta")
			})

			Convey("Then lookup-wrapped fellow names unwrap to their element", func() {
				So(investments[0].FellowName, ShouldEqual, "Acme")
				So(investments[0].Cohort, ShouldEqual, "Cohort 1")
			})

			Convey("Then the full funding row resolves every field", func() {
				So(investments[0].Amount, ShouldEqual, 50000.0)
				So(investments[0].Investor, ShouldEqual, "Impact Capital")
				So(investments[0].MonthSecured, ShouldEqual, "March 2024")
			})

			Convey("Then the amount falls back from Amount to Value", func() {
				So(investments[1].Amount, ShouldEqual, 12000.0)
			})

			Convey("Then unresolved names get placeholder labels", func() {
				So(investments[1].Investor, ShouldEqual, "Unknown Investor")
				So(investments[1].MonthSecured, ShouldEqual, "")
			})
		})

		Convey("When a funding row carries no counterpart fields at all", func() {
			investments := ext.Extract("Cohort 2", []model.RawRecord{
				{"Connection type": "Investment/ funding"},
			})

			Convey("Then the row is kept with placeholders and a zero amount", func() {
				So(investments, ShouldHaveLength, 1)
				So(investments[0].FellowName, ShouldEqual, "Unknown Fellow")
				So(investments[0].Investor, ShouldEqual, "Unknown Investor")
				So(investments[0].Amount, ShouldEqual, 0.0)
			})
		})

		Convey("When the connection type label has drifted casing or spacing", func() {
			investments := ext.Extract("Cohort 1", []model.RawRecord{
				{"Connection type": " investment/ FUNDING ", "Company name (fellow)": "Gamma"},
			})

			Convey("Then the row still counts as funding", func() {
				So(investments, ShouldHaveLength, 1)
				So(investments[0].FellowName, ShouldEqual, "Gamma")
			})
		})

		Convey("When the batch holds no funding rows", func() {
			investments := ext.Extract("Cohort 1", []model.RawRecord{
				{"Connection type": "Partnership"},
			})

			Convey("Then the result is empty", func() {
				So(investments, ShouldBeEmpty)
			})
		})
	})
}

func TestExtractAliasOverrides(t *testing.T) {
	Convey("Given an extractor with overridden alias tables", t, func() {
		ext := invest.New(invest.WithAliases(map[string][]string{
			"investment_amount": {"Funding (ZAR)"},
		}))

		Convey("When a funding row uses the new literal name", func() {
			investments := ext.Extract("Cohort 4", []model.RawRecord{
				{
					"Connection type":       "Investment/ funding",
					"Company name (fellow)": "Delta",
					"Funding (ZAR)":         777.0,
				},
			})

			Convey("Then extraction picks it up without code changes", func() {
				So(investments, ShouldHaveLength, 1)
				So(investments[0].Amount, ShouldEqual, 777.0)
			})
		})
	})
}
