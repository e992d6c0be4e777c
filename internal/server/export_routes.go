package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lankastocks/cse-analyzer/internal/modules/recommendation"
)

// handleHistoryExport renders a stored recommendation as a downloadable
// report. Only full recommendation records carry enough structure to export.
func (s *Server) handleHistoryExport(w http.ResponseWriter, r *http.Request) {
	if s.history == nil || s.exporter == nil {
		s.writeError(w, http.StatusServiceUnavailable, "export not configured")
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
	if record.AnalysisType != "recommendation" {
		s.writeError(w, http.StatusUnprocessableEntity, "only recommendation records can be exported")
		return
	}

	var result recommendation.Result
	if err := record.Decode(&result); err != nil {
		s.log.Error().Err(err).Int64("id", id).Msg("Failed to decode history payload")
		s.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	var path string
	switch format {
	case "csv":
		path, err = s.exporter.CSV(&result)
	case "xlsx":
		path, err = s.exporter.XLSX(&result)
	case "pdf":
		path, err = s.exporter.PDF(&result)
	default:
		s.writeError(w, http.StatusBadRequest, "format must be csv, xlsx or pdf")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("format", format).Msg("Export failed")
		s.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	http.ServeFile(w, r, path)
}
