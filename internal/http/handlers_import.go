package http

import (
	"net/http"

	"planner/internal/core"
)

// handleImportPreview parses a raw CSV upload and returns categorized
// rows without persisting anything. The body is the statement itself.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	data, ok := readBody(w, r)
	if !ok {
		return
	}
	preview, err := s.importer.Preview(r.Context(), data)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

type importRecategorizeRequest struct {
	Rows        []core.Transaction `json:"rows"`
	Description string             `json:"description"`
	Category    core.Category      `json:"category"`
}

func (s *Server) handleImportRecategorize(w http.ResponseWriter, r *http.Request) {
	var req importRecategorizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Description == "" {
		writeError(w, http.StatusBadRequest, "description is required")
		return
	}
	rows, err := s.importer.Recategorize(r.Context(), req.Rows, req.Description, req.Category)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	writeJSON(w, http.StatusOK, rows)
}

type importCommitRequest struct {
	Rows              []core.Transaction `json:"rows"`
	IncludeDuplicates bool               `json:"includeDuplicates"`
}

type importCommitResponse struct {
	Imported int `json:"imported"`
}

func (s *Server) handleImportCommit(w http.ResponseWriter, r *http.Request) {
	var req importCommitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	count, err := s.importer.Commit(r.Context(), req.Rows, req.IncludeDuplicates)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	writeJSON(w, http.StatusOK, importCommitResponse{Imported: count})
}
