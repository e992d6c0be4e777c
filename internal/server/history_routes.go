package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const defaultHistoryLimit = 50

// handleHistoryList lists stored analyses, most recent first
func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "history storage not configured")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	records, err := s.history.List(limit)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list history")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

// handleHistoryGet returns one stored analysis with its decoded payload
func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "history storage not configured")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid history id")
		return
	}

	record, err := s.history.Get(id)
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("Failed to get history record")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if record == nil {
		s.writeError(w, http.StatusNotFound, "analysis not found")
		return
	}

	var payload interface{}
	if err := record.Decode(&payload); err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("Failed to decode history payload")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"record": record,
		"result": payload,
	})
}

// handleHistoryDelete deletes one stored analysis
func (s *Server) handleHistoryDelete(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.writeError(w, http.StatusServiceUnavailable, "history storage not configured")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid history id")
		return
	}

	deleted, err := s.history.Delete(id)
	if err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("Failed to delete history record")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "analysis not found")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}
