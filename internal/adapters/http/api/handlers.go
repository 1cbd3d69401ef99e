package api

import (
	"errors"
	"net/http"

	"github.com/edviva/impactboard/internal/adapters/repository"
	"github.com/edviva/impactboard/internal/domain/model"
)

// DashboardHandler serves the full normalized bundle.
type DashboardHandler struct {
	deps Dependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps Dependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// HandleDashboard handles GET /dashboard requests.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	bundle, ok := loadBundle(w, r, h.deps)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

// FellowsHandler serves per-entity series, optionally filtered by cohort.
type FellowsHandler struct {
	deps Dependencies
}

// NewFellowsHandler creates a new fellows handler.
func NewFellowsHandler(deps Dependencies) *FellowsHandler {
	return &FellowsHandler{deps: deps}
}

// HandleFellows handles GET /fellows?cohort=... requests.
func (h *FellowsHandler) HandleFellows(w http.ResponseWriter, r *http.Request) {
	bundle, ok := loadBundle(w, r, h.deps)
	if !ok {
		return
	}
	cohort := r.URL.Query().Get("cohort")
	if cohort == "" {
		writeJSON(w, http.StatusOK, bundle.Entities)
		return
	}
	filtered := make([]*model.Entity, 0, len(bundle.Entities))
	for _, e := range bundle.Entities {
		if e.Cohort == cohort {
			filtered = append(filtered, e)
		}
	}
	writeJSON(w, http.StatusOK, filtered)
}

// InvestmentsHandler serves funding records, optionally filtered by cohort.
type InvestmentsHandler struct {
	deps Dependencies
}

// NewInvestmentsHandler creates a new investments handler.
func NewInvestmentsHandler(deps Dependencies) *InvestmentsHandler {
	return &InvestmentsHandler{deps: deps}
}

// HandleInvestments handles GET /investments?cohort=... requests.
func (h *InvestmentsHandler) HandleInvestments(w http.ResponseWriter, r *http.Request) {
	bundle, ok := loadBundle(w, r, h.deps)
	if !ok {
		return
	}
	cohort := r.URL.Query().Get("cohort")
	if cohort == "" {
		writeJSON(w, http.StatusOK, bundle.Investments)
		return
	}
	filtered := make([]model.Investment, 0, len(bundle.Investments))
	for _, inv := range bundle.Investments {
		if inv.Cohort == cohort {
			filtered = append(filtered, inv)
		}
	}
	writeJSON(w, http.StatusOK, filtered)
}

// IssuesHandler serves the data-quality issue log of the latest run.
type IssuesHandler struct {
	deps Dependencies
}

// NewIssuesHandler creates a new issues handler.
func NewIssuesHandler(deps Dependencies) *IssuesHandler {
	return &IssuesHandler{deps: deps}
}

// HandleIssues handles GET /issues requests.
func (h *IssuesHandler) HandleIssues(w http.ResponseWriter, r *http.Request) {
	bundle, ok := loadBundle(w, r, h.deps)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, bundle.Issues)
}

// summaryResponse pairs per-cohort summaries with the program total.
type summaryResponse struct {
	Cohorts []model.CohortSummary `json:"cohorts"`
	Overall model.CohortSummary   `json:"overall"`
}

// SummaryHandler serves the last-vs-first cohort comparison.
type SummaryHandler struct {
	deps Dependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps Dependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleSummary handles GET /summary requests.
func (h *SummaryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	bundle, ok := loadBundle(w, r, h.deps)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Cohorts: bundle.Summaries,
		Overall: bundle.ProgramSummary,
	})
}

// loadBundle fetches the latest bundle, translating "no bundle yet" into
// 503 and rejecting non-GET methods.
func loadBundle(w http.ResponseWriter, r *http.Request, deps Dependencies) (model.Bundle, bool) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return model.Bundle{}, false
	}
	bundle, err := deps.Bundle(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNoBundle) {
			writeError(w, http.StatusServiceUnavailable, "not_ready", err)
			return model.Bundle{}, false
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return model.Bundle{}, false
	}
	return bundle, true
}
