package api

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"github.com/v6census/ipv6-stats-server/internal/collector"
	"github.com/v6census/ipv6-stats-server/internal/logger"
	"github.com/v6census/ipv6-stats-server/internal/manager"
	"github.com/v6census/ipv6-stats-server/internal/sources"
)

// ListSourcesResponse represents the source list response
type ListSourcesResponse struct {
	Sources []string `json:"sources"`
	Total   int      `json:"total"`
}

// ListPagesResponse represents the page list response
type ListPagesResponse struct {
	Pages []string `json:"pages"`
	Total int      `json:"total"`
}

// RefreshResponse acknowledges an invalidation request
type RefreshResponse struct {
	Status      string `json:"status"`
	Invalidated string `json:"invalidated"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Routes defines the routes for the statistics API with dependency
// injection
type Routes struct {
	manager   *manager.Manager
	collector *collector.Collector
}

// NewRoutes creates a new Routes instance
func NewRoutes(mgr *manager.Manager, col *collector.Collector) *Routes {
	return &Routes{
		manager:   mgr,
		collector: col,
	}
}

// Router creates a new router for the statistics API
func Router(mgr *manager.Manager, col *collector.Collector) http.Handler {
	routes := NewRoutes(mgr, col)

	r := chi.NewRouter()

	r.Route("/sources", func(r chi.Router) {
		r.Get("/", routes.listSources)
		r.Get("/{name}", routes.getSource)
	})

	r.Route("/pages", func(r chi.Router) {
		r.Get("/", routes.listPages)
		r.Get("/{page}", routes.getPageData)
	})

	r.Get("/asn/{query}", routes.queryASN)
	r.Get("/countries/{country}", routes.getCountryAnalysis)
	r.Get("/trends/{kind}", routes.getTrends)
	r.Get("/stats", routes.getStats)
	r.Post("/refresh", routes.refresh)

	return r
}

// listSources handles GET /api/v0/sources
func (rr *Routes) listSources(w http.ResponseWriter, _ *http.Request) {
	rr.writeJSONResponse(w, ListSourcesResponse{
		Sources: sources.Names,
		Total:   len(sources.Names),
	})
}

// getSource handles GET /api/v0/sources/{name}
func (rr *Routes) getSource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !slices.Contains(sources.Names, name) {
		rr.writeErrorResponse(w, "Unknown source", http.StatusNotFound)
		return
	}

	rec, ok := rr.manager.Load(r.Context(), name)
	if !ok {
		rr.writeErrorResponse(w, "Failed to load source", http.StatusInternalServerError)
		return
	}
	rr.writeJSONResponse(w, rec)
}

// listPages handles GET /api/v0/pages
func (rr *Routes) listPages(w http.ResponseWriter, _ *http.Request) {
	pages := manager.PageNames()
	rr.writeJSONResponse(w, ListPagesResponse{Pages: pages, Total: len(pages)})
}

// getPageData handles GET /api/v0/pages/{page}
func (rr *Routes) getPageData(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")
	if !slices.Contains(manager.PageNames(), page) {
		rr.writeErrorResponse(w, "Unknown page", http.StatusNotFound)
		return
	}
	rr.writeJSONResponse(w, rr.manager.LoadPageData(r.Context(), page))
}

// queryASN handles GET /api/v0/asn/{query}
func (rr *Routes) queryASN(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	if query == "" {
		rr.writeErrorResponse(w, "Query is required", http.StatusBadRequest)
		return
	}
	rr.writeJSONResponse(w, rr.collector.QueryASN(r.Context(), query))
}

// getCountryAnalysis handles GET /api/v0/countries/{country}
func (rr *Routes) getCountryAnalysis(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")
	analysis := rr.collector.CountryAnalysis(country)
	analysis["country"] = country
	analysis["history"] = rr.collector.CountryHistoricalData(country)
	rr.writeJSONResponse(w, analysis)
}

// getTrends handles GET /api/v0/trends/{kind}?range=...
func (rr *Routes) getTrends(w http.ResponseWriter, r *http.Request) {
	timeRange := r.URL.Query().Get("range")
	if timeRange == "" {
		timeRange = "Last Year"
	}

	switch chi.URLParam(r, "kind") {
	case "global":
		rr.writeJSONResponse(w, rr.collector.GlobalHistoricalData(timeRange))
	case "regional":
		rr.writeJSONResponse(w, rr.collector.RegionalTrends(timeRange))
	case "bgp":
		rr.writeJSONResponse(w, rr.collector.BGPTimeline(timeRange))
	default:
		rr.writeErrorResponse(w, "Unknown trend kind. Supported: 'global', 'regional', 'bgp'", http.StatusNotFound)
	}
}

// getStats handles GET /api/v0/stats
func (rr *Routes) getStats(w http.ResponseWriter, _ *http.Request) {
	rr.writeJSONResponse(w, rr.manager.Stats())
}

// refresh handles POST /api/v0/refresh, invalidating one source or
// everything
func (rr *Routes) refresh(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source != "" && !slices.Contains(sources.Names, source) {
		rr.writeErrorResponse(w, "Unknown source", http.StatusNotFound)
		return
	}

	rr.manager.Invalidate(source)

	invalidated := source
	if invalidated == "" {
		invalidated = "all"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(RefreshResponse{Status: "accepted", Invalidated: invalidated}); err != nil {
		logger.Errorf("Failed to encode refresh response: %v", err)
	}
}

// writeJSONResponse writes a success response with a JSON body
func (*Routes) writeJSONResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func (*Routes) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	errorResp := ErrorResponse{
		Error: message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		logger.Errorf("Failed to encode error response: %v", err)
	}
}
