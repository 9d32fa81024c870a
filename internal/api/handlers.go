package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"

	"lipidflow/app"
	"lipidflow/domain/core"
	"lipidflow/domain/resolve"
)

const maxUploadBytes = 64 << 20 // 64 MiB

// handleImport accepts a multipart upload and runs the import pipeline.
//
// Form fields: "file" (required), "lipid_column" (index or name),
// "sample_columns" (comma-separated indices or names), "groups" (JSON map
// of group label to sample IDs), "validate" (bool), "delimiter".
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	opts, err := parseImportOptions(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// The loader works from paths, so stage the upload in a temp file with
	// the original extension preserved for delimiter detection.
	tmpDir, err := os.MkdirTemp("", "lipidflow-upload-")
	if err != nil {
		writeError(w, err)
		return
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, filepath.Base(header.Filename))
	dst, err := os.Create(tmpPath)
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		writeError(w, err)
		return
	}
	dst.Close()

	result, err := s.service.Import(r.Context(), tmpPath, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func parseImportOptions(r *http.Request) (app.Options, error) {
	var opts app.Options

	if raw := strings.TrimSpace(r.FormValue("lipid_column")); raw != "" {
		opts.LipidColumn = parseColumnSpec(raw)
	}
	if raw := strings.TrimSpace(r.FormValue("sample_columns")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			opts.SampleColumns = append(opts.SampleColumns, parseColumnSpec(strings.TrimSpace(part)))
		}
	}
	if raw := strings.TrimSpace(r.FormValue("groups")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts.GroupMapping); err != nil {
			return opts, fmt.Errorf("groups must be a JSON object of label to sample IDs: %w", err)
		}
	}
	if raw := r.FormValue("validate"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("validate must be a boolean, got %q", raw)
		}
		opts.Validate = v
	}
	if raw := r.FormValue("delimiter"); raw != "" {
		runes := []rune(raw)
		if len(runes) != 1 {
			return opts, fmt.Errorf("delimiter must be a single character, got %q", raw)
		}
		opts.Delimiter = runes[0]
	}

	return opts, nil
}

// parseColumnSpec treats integer-shaped values as indices and everything
// else as header names
func parseColumnSpec(raw string) resolve.ColumnSpec {
	if i, err := strconv.Atoi(raw); err == nil {
		return resolve.ByIndex(i)
	}
	return resolve.ByName(raw)
}

func (s *Server) handleListDatasets(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	datasets, err := s.repo.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"datasets": datasets})
}

func (s *Server) handleGetDataset(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseDatasetID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ds, report, err := s.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app.ImportResult{Dataset: ds, Report: report})
}

// handleGetReport serves the validation report as json (default), markdown
// or rendered html.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseDatasetID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	_, report, err := s.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no validation report stored for dataset " + id.String()})
		return
	}

	switch r.URL.Query().Get("format") {
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		_, _ = w.Write([]byte(report.Markdown()))
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(markdown.ToHTML([]byte(report.Markdown()), nil, nil))
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *Server) handleGroupStatistics(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseDatasetID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	ds, _, err := s.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ds.GroupStatistics())
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
		return v
	}
	return fallback
}
