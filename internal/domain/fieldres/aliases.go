package fieldres

// Logical field names used by the aggregation layer. Alias tables map each
// of these to an ordered candidate list; the tables are configuration data,
// not control flow, so new drifted names need no code change.
const (
	FieldIdentifier = "identifier"
	FieldPeriod     = "period"

	FieldSales  = "sales"
	FieldProfit = "profit"

	FieldOperationalJobs       = "operational_jobs"
	FieldEducationalJobs       = "educational_jobs"
	FieldOperationalJobsFemale = "operational_jobs_female"
	FieldEducationalJobsFemale = "educational_jobs_female"
	FieldYouthJobs             = "youth_jobs"

	FieldLearners       = "subscribers_students"
	FieldEducators      = "subscribers_educators"
	FieldNewSubscribers = "new_subscribers"

	FieldSchools    = "schools"
	FieldQ13Schools = "q1_3_schools"
	FieldSASchools  = "sa_schools"

	FieldFemaleLearners     = "female_learners"
	FieldRuralLearners      = "rural_learners"
	FieldDisabilityLearners = "disability_learners"

	FieldConnectionType     = "connection_type"
	FieldInvestmentFellow   = "investment_fellow"
	FieldInvestmentAmount   = "investment_amount"
	FieldInvestmentDate     = "investment_date"
	FieldInvestmentInvestor = "investment_investor"
)

// DefaultAliases returns the built-in alias tables, covering every literal
// field-name variant observed across the cohort bases so far. Callers get a
// fresh copy and may override entries freely.
func DefaultAliases() map[string][]string {
	return map[string][]string{
		FieldIdentifier: {"Company name", "Business name", "Name", "Fellow", "Startup", "Company"},
		FieldPeriod:     {"Reporting month", "Reporting Month", "Date"},

		FieldSales:  {"Monthly Sales", "Monthly sales"},
		FieldProfit: {"Monthly net profit", "Monthly Net Profit"},

		FieldOperationalJobs:       {"Operational jobs - Total"},
		FieldEducationalJobs:       {"Educational resourcing jobs -Total"},
		FieldOperationalJobsFemale: {"Operational jobs - female"},
		FieldEducationalJobsFemale: {"Educational resourcing jobs - Female"},
		FieldYouthJobs:             {"Youth operational jobs"},

		FieldLearners: {
			"Total Subscribers -Students",
			"Total Subscribers - Students",
			"Active users Students - Broad Definition",
			"Monthly Active users - Students",
			"Monthly Active users - Students ",
		},
		FieldEducators: {"Total Subscribers - Educators", "Total Subscribers -Educators"},
		FieldNewSubscribers: {
			"Net new monthly subscribers  - students",
			"New Monthly Subscribers - Students",
		},

		FieldSchools: {
			"Schools reached",
			"Total Schools",
			"Number of schools/learning institutions where EdTech solutions are being tested",
		},
		FieldQ13Schools: {
			"Q1-3 Schools",
			"Quintile 1-3 schools",
			"Quintile 1-3 Schools Students subscriptions",
			"Number of Quintile 1-3 schools",
		},
		FieldSASchools: {"Number of South African schools"},

		FieldFemaleLearners:     {"Female learners", "Female Users", "Total Subscribers - Female"},
		FieldRuralLearners:      {"Rural learners", "Rural Users"},
		FieldDisabilityLearners: {"Learners with disabilities", "Learners with disability", "Disability learners"},

		FieldConnectionType:     {"Connection type"},
		FieldInvestmentFellow:   {"Company name (fellow)"},
		FieldInvestmentAmount:   {"Amount", "Value"},
		FieldInvestmentDate:     {"Date"},
		FieldInvestmentInvestor: {"Company/ person name (Connection)"},
	}
}
