// Package handlers exposes the normalization engine over HTTP: a
// synchronous upload-and-normalize endpoint and an asynchronous jobs
// surface backed by the in-process queue.
package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-normalizer/internal/api/middleware"
	"github.com/dvloznov/statement-normalizer/internal/jobs"
	"github.com/dvloznov/statement-normalizer/internal/normalizer"
	"github.com/dvloznov/statement-normalizer/internal/reader"
	"github.com/dvloznov/statement-normalizer/internal/writer"
)

// maxUploadBytes caps statement uploads at 32 MiB.
const maxUploadBytes = 32 << 20

// NormalizeHandler handles synchronous normalization of uploaded files.
type NormalizeHandler struct {
	scanLimit int
	log       zerolog.Logger
}

// NewNormalizeHandler creates the synchronous normalization handler.
// scanLimit 0 keeps the engine default.
func NewNormalizeHandler(scanLimit int, log zerolog.Logger) *NormalizeHandler {
	return &NormalizeHandler{scanLimit: scanLimit, log: log}
}

// Normalize handles POST /api/normalize. It accepts a multipart upload
// under the "file" field and responds with the normalized CSV.
func (h *NormalizeHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Multipart field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	matrix, err := reader.ReadBytes(data, filepath.Ext(header.Filename))
	if err != nil {
		h.log.Warn().Err(err).Str("filename", header.Filename).Msg("Failed to decode upload")
		middleware.WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	records := normalizer.NormalizeWithScanLimit(matrix, h.scanLimit)

	h.log.Info().
		Str("filename", header.Filename).
		Int("records", len(records)).
		Msg("Statement normalized")

	stem := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "normalized_"+stem+".csv"))
	if err := writer.Write(w, records); err != nil {
		h.log.Error().Err(err).Msg("Failed to write CSV response")
	}
}

// JobsHandler handles the asynchronous normalization surface.
type JobsHandler struct {
	publisher jobs.Publisher
	store     jobs.JobStore
	outDir    string
	log       zerolog.Logger
}

// NewJobsHandler creates the jobs handler. outDir is the default output
// directory for jobs that do not name one.
func NewJobsHandler(publisher jobs.Publisher, store jobs.JobStore, outDir string, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{publisher: publisher, store: store, outDir: outDir, log: log}
}

// Enqueue handles POST /api/jobs.
func (h *JobsHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input  string `json:"input"`
		OutDir string `json:"out_dir"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Input == "" {
		middleware.WriteError(w, http.StatusBadRequest, "input is required")
		return
	}
	if req.OutDir == "" {
		req.OutDir = h.outDir
	}

	job := &jobs.NormalizeJob{Input: req.Input, OutDir: req.OutDir}
	if err := h.publisher.PublishNormalize(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("input", job.Input).Msg("Normalization job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"status": string(job.Status),
	})
}

// Get handles GET /api/jobs/{id}.
func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, job)
}

// List handles GET /api/jobs with an optional status filter.
func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := jobs.JobFilter{
		Status: jobs.JobStatus(r.URL.Query().Get("status")),
		Limit:  100,
	}
	list, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}
