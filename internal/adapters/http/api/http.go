// Package api declares HTTP contracts and route registration helpers. The
// API is read-only: the presentation layer consumes the normalized bundle
// and issue log; ingestion happens only through reconciliation runs.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/edviva/impactboard/internal/domain/model"
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the app service.
type Dependencies interface {
	// Bundle returns the latest reconciled bundle.
	Bundle(ctx context.Context) (model.Bundle, error)

	// LastRun returns the generation time of the latest bundle.
	LastRun(ctx context.Context) time.Time
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler      *HealthHandler
	dashboardHandler   *DashboardHandler
	fellowsHandler     *FellowsHandler
	investmentsHandler *InvestmentsHandler
	issuesHandler      *IssuesHandler
	summaryHandler     *SummaryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(deps),
		dashboardHandler:   NewDashboardHandler(deps),
		fellowsHandler:     NewFellowsHandler(deps),
		investmentsHandler: NewInvestmentsHandler(deps),
		issuesHandler:      NewIssuesHandler(deps),
		summaryHandler:     NewSummaryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/fellows", MetricsMiddleware(s.fellowsHandler.HandleFellows, "fellows"))
	mux.HandleFunc("/investments", MetricsMiddleware(s.investmentsHandler.HandleInvestments, "investments"))
	mux.HandleFunc("/issues", MetricsMiddleware(s.issuesHandler.HandleIssues, "issues"))
	mux.HandleFunc("/summary", MetricsMiddleware(s.summaryHandler.HandleSummary, "summary"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
