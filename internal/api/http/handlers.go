package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/affistats/insights-manager/internal/entity"
	"github.com/affistats/insights-manager/internal/provider"
	"github.com/affistats/insights-manager/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleSetProvider(w http.ResponseWriter, r *http.Request) {
	var cfg entity.DataProviderConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid provider config payload"})
		return
	}

	res := s.analytics.SetDataProvider(r.Context(), cfg)
	code := http.StatusOK
	if !res.Success {
		code = http.StatusUnprocessableEntity
	}
	writeJSON(w, code, res)
}

func (s *Server) handleTestProvider(w http.ResponseWriter, r *http.Request) {
	var cfg entity.DataProviderConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid provider config payload"})
		return
	}

	writeJSON(w, http.StatusOK, s.analytics.TestDataProvider(r.Context(), cfg))
}

type providerStatusResponse struct {
	Configured bool   `json:"configured"`
	Type       string `json:"type,omitempty"`
	Name       string `json:"name,omitempty"`
	Status     string `json:"status,omitempty"`
	Ready      bool   `json:"ready"`
	LastError  string `json:"last_error,omitempty"`
}

func (s *Server) handleProviderStatus(w http.ResponseWriter, r *http.Request) {
	p := s.analytics.CurrentProvider()
	if p == nil {
		writeJSON(w, http.StatusOK, providerStatusResponse{Configured: false})
		return
	}

	resp := providerStatusResponse{
		Configured: p.Config() != nil,
		Type:       p.Type().String(),
		Status:     string(p.Status()),
		Ready:      p.IsReady(),
	}
	if cfg := p.Config(); cfg != nil {
		resp.Name = cfg.Name
	}
	if err := p.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProviderColumns(w http.ResponseWriter, r *http.Request) {
	p := s.analytics.CurrentProvider()
	if p == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: service.ErrNoProvider.Error()})
		return
	}

	columns, err := p.AvailableColumns(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"columns": columns})
}

func (s *Server) handleDisconnectProvider(w http.ResponseWriter, r *http.Request) {
	if p := s.analytics.CurrentProvider(); p != nil {
		p.Disconnect()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := dashboardQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	data, err := s.analytics.GetDashboardData(r.Context(), q)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoProvider):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		case provider.CodeOf(err) == provider.CodeValidation:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// dashboardQuery builds an AnalyticsQuery from URL parameters. The range
// defaults to the last 30 days when from/to are omitted.
func dashboardQuery(r *http.Request) (entity.AnalyticsQuery, error) {
	var q entity.AnalyticsQuery
	params := r.URL.Query()

	now := time.Now().UTC()
	q.DateRange = entity.DateRange{From: now.AddDate(0, 0, -30), To: now}

	if v := params.Get("from"); v != "" {
		from, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return q, errors.New("invalid from date, expected YYYY-MM-DD")
		}
		q.DateRange.From = from
	}
	if v := params.Get("to"); v != "" {
		to, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return q, errors.New("invalid to date, expected YYYY-MM-DD")
		}
		// make the upper bound inclusive for the whole day
		q.DateRange.To = to.Add(24*time.Hour - time.Nanosecond)
	}

	if v := params.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return q, errors.New("invalid limit")
		}
		q.Limit = limit
	}
	if v := params.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return q, errors.New("invalid offset")
		}
		q.Offset = offset
	}

	if field := params.Get("sort"); field != "" {
		factor := entity.Ascending
		if params.Get("order") == "desc" {
			factor = entity.Descending
		}
		q.OrderBy = &entity.OrderBy{Field: field, Factor: factor}
	}

	filters := make(map[string]string)
	for _, field := range []string{entity.FieldCampaignID, entity.FieldSource, entity.FieldMedium} {
		if v := params.Get(field); v != "" {
			filters[field] = v
		}
	}
	if len(filters) > 0 {
		q.Filters = filters
	}

	return q, nil
}
