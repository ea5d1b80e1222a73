package web

import (
	"encoding/json"
	"net/http"

	"github.com/robinvdvleuten/capgains/errors"
	"github.com/robinvdvleuten/capgains/gains"
	"github.com/robinvdvleuten/capgains/ledger"
	"github.com/robinvdvleuten/capgains/report"
)

// writeJSONResponse writes a JSON response to the http.ResponseWriter.
// If encoding fails, it writes an error response.
func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// EventResponse is an event with its holding period.
type EventResponse struct {
	gains.Event
	Term gains.Term `json:"term"`
}

// GainsResponse is the JSON response structure for the gains endpoint.
type GainsResponse struct {
	File      string            `json:"file"`
	Method    string            `json:"method"`
	Events    []EventResponse   `json:"events"`
	Unmatched []gains.Unmatched `json:"unmatched"`
	Transfers int               `json:"transfers"`
	Summary   *report.Summary   `json:"summary"`
}

// PositionsResponse is the JSON response structure for the positions endpoint.
type PositionsResponse struct {
	Method    string            `json:"method"`
	Currency  string            `json:"currency"`
	Positions []report.Position `json:"positions"`
}

// ErrorsResponse lists the errors of the last load.
type ErrorsResponse struct {
	File   string             `json:"file"`
	Errors []errors.ErrorJSON `json:"errors"`
}

// resultFor returns the run to answer r with. A method query parameter other
// than the server's recomputes from the loaded transactions. On failure the
// response has already been written.
func (s *Server) resultFor(w http.ResponseWriter, r *http.Request) (*gains.Result, ledger.Method, bool) {
	s.mu.RLock()
	result, method, cfg := s.result, s.Method, s.config
	transactions, errs := s.transactions, s.errs
	s.mu.RUnlock()

	if len(errs) > 0 {
		writeJSONResponse(w, http.StatusUnprocessableEntity, s.errorsResponse())
		return nil, method, false
	}

	if name := r.URL.Query().Get("method"); name != "" {
		requested, err := ledger.ParseMethod(name)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil, method, false
		}
		if requested != method {
			result, err = gains.New(cfg).Run(r.Context(), transactions, requested)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return nil, method, false
			}
			method = requested
		}
	}

	return result, method, true
}

// handleGetGains handles GET requests to /api/gains.
//
// Query parameters:
//   - method: Booking method (fifo, lifo, hifo). Defaults to the server's method.
//   - term: Only return events of this holding period (short, long).
func (s *Server) handleGetGains(w http.ResponseWriter, r *http.Request) {
	var filter func(gains.Event) bool
	switch term := r.URL.Query().Get("term"); term {
	case "":
	case "short":
		filter = func(e gains.Event) bool { return e.Term() == gains.ShortTerm }
	case "long":
		filter = func(e gains.Event) bool { return e.Term() == gains.LongTerm }
	default:
		http.Error(w, "invalid term (expected short or long): "+term, http.StatusBadRequest)
		return
	}

	result, method, ok := s.resultFor(w, r)
	if !ok {
		return
	}

	s.mu.RLock()
	file, currency := s.rootFile, s.config.ReportingCurrency
	s.mu.RUnlock()

	events := make([]EventResponse, 0, len(result.Events))
	for _, e := range result.Events {
		if filter != nil && !filter(e) {
			continue
		}
		events = append(events, EventResponse{Event: e, Term: e.Term()})
	}
	unmatched := result.Unmatched
	if unmatched == nil {
		unmatched = []gains.Unmatched{}
	}

	writeJSONResponse(w, http.StatusOK, &GainsResponse{
		File:      file,
		Method:    method.String(),
		Events:    events,
		Unmatched: unmatched,
		Transfers: result.Transfers,
		Summary:   report.Summarize(result.Events, result.Unmatched, currency),
	})
}

// handleGetPositions handles GET requests to /api/positions. It accepts the
// same method parameter as /api/gains.
func (s *Server) handleGetPositions(w http.ResponseWriter, r *http.Request) {
	result, method, ok := s.resultFor(w, r)
	if !ok {
		return
	}

	s.mu.RLock()
	currency := s.config.ReportingCurrency
	s.mu.RUnlock()

	writeJSONResponse(w, http.StatusOK, &PositionsResponse{
		Method:    method.String(),
		Currency:  currency,
		Positions: report.Positions(result.Registry),
	})
}

// handleGetErrors handles GET requests to /api/errors.
func (s *Server) handleGetErrors(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, s.errorsResponse())
}

func (s *Server) errorsResponse() *ErrorsResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &ErrorsResponse{
		File:   s.rootFile,
		Errors: errors.NewJSONFormatter().FormatAllToSlice(s.errs),
	}
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, map[string]string{
		"version":    s.Version,
		"commit_sha": s.CommitSHA,
	})
}
