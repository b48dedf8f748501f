package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/docoutline/internal/logfields"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleSubmit queues one outline job for all uploaded files. The files are
// outlined in the order they appear in the form.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	maxFiles := int64(s.cfg.MaxFilesPerJob)
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*maxFiles+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if len(headers) > s.cfg.MaxFilesPerJob {
		jsonError(w, fmt.Sprintf("too many files (max %d)", s.cfg.MaxFilesPerJob), http.StatusBadRequest)
		return
	}

	settings, err := s.settingsFromForm(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files := make([]pipeline.File, 0, len(headers))
	for _, fh := range headers {
		f, status, err := s.readUpload(fh)
		if err != nil {
			jsonError(w, err.Error(), status)
			return
		}
		files = append(files, f)
	}

	job := pipeline.NewJob(files, settings)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Info("job submitted", logfields.JobID(job.ID), "files", len(files))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/outline/%s/status", job.ID),
	})
}

func (s *Server) readUpload(fh *multipart.FileHeader) (pipeline.File, int, error) {
	filename := sanitizeFilename(fh.Filename)
	if !parser.IsSupportedExtension(filename) {
		return pipeline.File{}, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	f, err := fh.Open()
	if err != nil {
		return pipeline.File{}, http.StatusInternalServerError, fmt.Errorf("failed to open %s", filename)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return pipeline.File{}, http.StatusInternalServerError, fmt.Errorf("failed to read %s", filename)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return pipeline.File{}, http.StatusRequestEntityTooLarge, fmt.Errorf("%s exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes)
	}
	return pipeline.File{Name: filename, Data: data}, 0, nil
}

// settingsFromForm applies the optional outline, depth and page_offset
// fields on top of the configured defaults.
func (s *Server) settingsFromForm(r *http.Request) (outline.Settings, error) {
	settings := s.cfg.OutlineSettings()
	if v := r.FormValue("outline"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return settings, fmt.Errorf("outline must be a boolean")
		}
		settings.Outline = b
	}
	if v := r.FormValue("depth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return settings, fmt.Errorf("depth must be a non-negative integer")
		}
		settings.Depth = n
	}
	if v := r.FormValue("page_offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return settings, fmt.Errorf("page_offset must be an integer")
		}
		settings.PageOffset = n
	}
	return settings, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
