// Package model contains domain models passed between layers.
package model

import "time"

// RawRecord is one source row as delivered by the record source: an
// unordered mapping from field name to value. Values are numbers, strings,
// or single-element collections of either (rollup/lookup artifacts).
// RawRecords are borrowed from the source and never mutated.
type RawRecord map[string]any

// Phase classifies an entity's reporting maturity by months of data.
type Phase string

// Phase values, ordered by reporting maturity.
const (
	PhaseI   Phase = "i"   // up to 6 months of data
	PhaseII  Phase = "ii"  // 7-12 months
	PhaseIII Phase = "iii" // 13-18 months
	PhaseIV  Phase = "iv"  // 19+ months
)

// Observation is one reporting-period snapshot for one entity. Numeric
// fields default to 0 when unresolved; absence is recorded in the issue
// log, never in the observation itself.
type Observation struct {
	Period  string    `json:"period"`
	SortKey int       `json:"sort_key"`
	Date    time.Time `json:"date"`

	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`

	TotalJobs  float64 `json:"total_jobs"`
	FemaleJobs float64 `json:"female_jobs"`
	YouthJobs  float64 `json:"youth_jobs"`

	TotalSubscribers float64 `json:"total_subscribers"`
	NewSubscribers   float64 `json:"new_subscribers"`
	NewLearners      float64 `json:"new_learners"`
	NewEducators     float64 `json:"new_educators"`
	Learners         float64 `json:"learners"`
	Educators        float64 `json:"educators"`

	Schools    float64 `json:"schools"`
	Q13Schools float64 `json:"q1_3_schools"`
	SASchools  float64 `json:"sa_schools"`

	FemaleLearners     float64 `json:"female_learners"`
	RuralLearners      float64 `json:"rural_learners"`
	DisabilityLearners float64 `json:"disability_learners"`
}

// Entity is a single reporting participant tracked across monthly periods.
// Name is unique within a cohort; the entity owns its observation sequence
// for the lifetime of one reconciliation run.
type Entity struct {
	Name         string        `json:"name"`
	Cohort       string        `json:"cohort"`
	Observations []Observation `json:"observations"`
	MonthsOfData int           `json:"months_of_data"`
	Phase        Phase         `json:"phase"`
	Flagged      bool          `json:"flagged"`
}

// IssueKind classifies a data-quality event.
type IssueKind string

// Issue kinds.
const (
	IssueSourceUnavailable IssueKind = "source_unavailable"
	IssueFallbackUsed      IssueKind = "fallback_used"
	IssueMissingIdentifier IssueKind = "missing_identifier"
)

// IssueRecord describes one data-quality compromise made during a run.
type IssueRecord struct {
	Cohort  string    `json:"cohort"`
	Table   string    `json:"table"`
	Field   string    `json:"field"`
	Kind    IssueKind `json:"kind"`
	Details string    `json:"details"`
}

// Point is one period bucket in a cohort or program series: numeric fields
// summed across entities, plus derived growth and cumulative figures.
type Point struct {
	Period  string `json:"period"`
	SortKey int    `json:"sort_key"`

	Sales            float64 `json:"sales"`
	Profit           float64 `json:"profit"`
	TotalJobs        float64 `json:"total_jobs"`
	FemaleJobs       float64 `json:"female_jobs"`
	YouthJobs        float64 `json:"youth_jobs"`
	TotalSubscribers float64 `json:"total_subscribers"`
	NewSubscribers   float64 `json:"new_subscribers"`
	Learners         float64 `json:"learners"`
	Educators        float64 `json:"educators"`
	Schools          float64 `json:"schools"`

	SalesGrowth              float64 `json:"sales_growth"`
	ProfitGrowth             float64 `json:"profit_growth"`
	CumulativeNewSubscribers float64 `json:"cumulative_new_subscribers"`
}

// CohortSummary compares each entity's latest observation against its
// first: "new X" figures are net change over the observed lifetime.
type CohortSummary struct {
	Cohort string `json:"cohort"`

	CurrentTotalJobs  float64 `json:"current_total_jobs"`
	NewJobsCreated    float64 `json:"new_jobs_created"`
	PercentChangeJobs float64 `json:"percent_change_jobs"`
	NewFemaleJobs     float64 `json:"new_female_jobs"`
	YouthJobs         float64 `json:"youth_jobs"`

	TotalLearners    float64 `json:"total_learners"`
	TotalEducators   float64 `json:"total_educators"`
	NewLearners      float64 `json:"new_learners"`
	NewEducators     float64 `json:"new_educators"`
	TotalSubscribers float64 `json:"total_subscribers"`

	SASchools  float64 `json:"sa_schools"`
	Q13Schools float64 `json:"q1_3_schools"`

	SalesTotal  float64 `json:"sales_total"`
	ProfitTotal float64 `json:"profit_total"`
}

// Investment is one funding connection secured by a fellow, extracted from
// the connections table. MonthSecured keeps the source's free-text date
// verbatim.
type Investment struct {
	FellowName   string  `json:"fellow_name"`
	Cohort       string  `json:"cohort"`
	Amount       float64 `json:"amount"`
	Investor     string  `json:"investor"`
	MonthSecured string  `json:"month_secured"`
}

// Demographics holds per-cohort learner demographic shares. Percentages
// are computed against each cohort's latest learner totals.
type Demographics struct {
	Cohort        string  `json:"cohort"`
	Learners      float64 `json:"learners"`
	FemalePct     int     `json:"female_pct"`
	RuralPct      int     `json:"rural_pct"`
	DisabilityPct int     `json:"disability_pct"`
}

// Bundle is the normalized output of one reconciliation run. It holds no
// references back into raw source records.
type Bundle struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Entities      []*Entity          `json:"entities"`
	CohortSeries  map[string][]Point `json:"cohort_series"`
	ProgramSeries []Point            `json:"program_series"`

	Summaries      []CohortSummary `json:"summaries"`
	ProgramSummary CohortSummary   `json:"program_summary"`
	Demographics   []Demographics  `json:"demographics"`
	Investments    []Investment    `json:"investments"`

	Issues []IssueRecord `json:"issues"`
}
