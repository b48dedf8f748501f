package api

import (
	"net/http"
	"strconv"

	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// finishedJob resolves the job in the URL and writes the error response when
// it has no result.
func (s *Server) finishedJob(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return nil, false
	}
	res := job.Result()
	if res == nil {
		snap := job.Snapshot()
		if snap.Status == pipeline.StatusFailed {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "job failed",
				"errors": snap.Progress.Errors,
			})
			return nil, false
		}
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "job not finished",
			"status": snap.Status,
		})
		return nil, false
	}
	return res, true
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	res, ok := s.finishedJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleAnchors lists the anchors of one document. An unknown document index
// yields an empty object.
func (s *Server) handleAnchors(w http.ResponseWriter, r *http.Request) {
	doc, err := strconv.Atoi(chi.URLParam(r, "doc"))
	if err != nil {
		jsonError(w, "document index must be an integer", http.StatusBadRequest)
		return
	}
	res, ok := s.finishedJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res.Anchors(doc))
}

func (s *Server) handlePageParams(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		jsonError(w, "page must be an integer", http.StatusBadRequest)
		return
	}
	res, ok := s.finishedJob(w, r)
	if !ok {
		return
	}
	params, ok := res.Params(page)
	if !ok {
		jsonError(w, "page out of range", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, params)
}
