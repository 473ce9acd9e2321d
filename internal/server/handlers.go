package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/foliowatch/sentinel/internal/config"
)

const defaultHistoryLimit = 30

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "sentinel",
	})
}

// handleLatestEvaluation returns the most recent evaluation result held in
// memory. 404 before the first run of the day has happened.
func (s *Server) handleLatestEvaluation(w http.ResponseWriter, r *http.Request) {
	res := s.runner.LastResult()
	if res == nil {
		s.writeError(w, http.StatusNotFound, "no evaluation has run yet")
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// handleRunEvaluation triggers a full evaluation synchronously and returns
// the result.
func (s *Server) handleRunEvaluation(w http.ResponseWriter, r *http.Request) {
	s.log.Info().Msg("Manual evaluation triggered")

	res, err := s.runner.Run()
	if err != nil {
		s.log.Error().Err(err).Msg("Manual evaluation failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, res)
}

// handleHistory returns recent persisted evaluation summaries, newest first.
// A ?date=YYYY-MM-DD parameter looks up that single day instead.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("date"); raw != "" {
		s.handleHistoryForDate(w, raw)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := s.history.Recent(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to query history")
		s.writeError(w, http.StatusInternalServerError, "failed to query history")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"entries": entries,
	})
}

// handleHistoryForDate returns the persisted summary for one day.
func (s *Server) handleHistoryForDate(w http.ResponseWriter, raw string) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	entry, err := s.history.ForDate(date)
	if err != nil {
		s.log.Error().Err(err).Str("date", raw).Msg("Failed to query history")
		s.writeError(w, http.StatusInternalServerError, "failed to query history")
		return
	}
	if entry == nil {
		s.writeError(w, http.StatusNotFound, "no evaluation recorded for "+raw)
		return
	}

	s.writeJSON(w, http.StatusOK, entry)
}

// handlePortfolio returns the configured holdings and position rules.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := config.LoadPortfolio(s.cfg.PortfolioPath)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load portfolio")
		s.writeError(w, http.StatusInternalServerError, "failed to load portfolio")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"holdings": portfolio.HoldingList(),
		"rules":    portfolio.Rules,
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
