// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file and env vars.
// - External errors are wrapped via this package's sentinel kinds.
package config

import (
	"runtime"

	"github.com/edviva/impactboard/internal/domain/fieldres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// SnapshotPath points at the JSON record snapshot to reconcile. Empty
	// means the service starts with an empty source.
	SnapshotPath string `koanf:"snapshot_path"`

	// Cohorts lists the cohort identifiers to reconcile.
	Cohorts []string `koanf:"cohorts"`

	// Tables lists the source tables fetched per cohort.
	Tables []string `koanf:"tables"`

	// IdentifierTables lists the tables expected to carry an entity
	// identifier; only these produce missing_identifier issues.
	IdentifierTables []string `koanf:"identifier_tables"`

	// InvestmentTable names the connections table funding records are
	// extracted from. Empty disables investment extraction.
	InvestmentTable string `koanf:"investment_table"`

	// FetchWorkers bounds concurrent cohort/table fetches.
	FetchWorkers int `koanf:"fetch_workers"`

	// RefreshIntervalSeconds sets how often the bundle is recomputed.
	// Zero disables periodic refresh after the initial run.
	RefreshIntervalSeconds int `koanf:"refresh_interval_seconds"`

	// FieldAliases maps logical field names to ordered candidate lists.
	// This is the primary configuration surface for schema drift: new
	// literal names are added here, never in aggregation code.
	FieldAliases map[string][]string `koanf:"field_aliases"`
}

// Default refresh interval between reconciliation runs.
const defaultRefreshSeconds = 300

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":9090",
		SnapshotPath: "",
		Cohorts:      []string{"Cohort 1", "Cohort 2", "Cohort 3", "Cohort 4"},
		Tables: []string{
			"Monthly reporting",
			"Needs Assessment",
			"Post Program Reporting",
		},
		IdentifierTables: []string{
			"Monthly reporting",
			"Needs Assessment",
			"Post Program Reporting",
		},
		InvestmentTable:        "Connections",
		FetchWorkers:           runtime.NumCPU(),
		RefreshIntervalSeconds: defaultRefreshSeconds,
		FieldAliases:           fieldres.DefaultAliases(),
	}
}
