package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"

	"github.com/local/pdftranslator/internal/config"
	"github.com/local/pdftranslator/internal/filetype"
	"github.com/local/pdftranslator/internal/jobcache"
	"github.com/local/pdftranslator/internal/metrics"
	"github.com/local/pdftranslator/internal/statuscheck"
	"github.com/local/pdftranslator/internal/store"
)

// PipelineRunner is the translation pipeline as seen from the HTTP
// boundary.
type PipelineRunner interface {
	Run(ctx context.Context, filename string, pdf []byte) (jobcache.Job, error)
}

// Orchestrator owns the HTTP API.
type Orchestrator struct {
	cfg      config.Config
	pipeline PipelineRunner
	cache    *jobcache.Cache
	status   store.StatusStore
	detector *filetype.Detector
	checker  *statuscheck.Checker
}

func New(cfg config.Config, pipeline PipelineRunner, cache *jobcache.Cache, status store.StatusStore, checker *statuscheck.Checker) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		pipeline: pipeline,
		cache:    cache,
		status:   status,
		detector: filetype.New(),
		checker:  checker,
	}
}

func (o *Orchestrator) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/translate", o.handleTranslate)
	mux.HandleFunc("/api/download/", o.handleDownload)
	mux.HandleFunc("/api/progress/", o.handleProgress)
	mux.HandleFunc("/health", o.handleHealth)
	mux.HandleFunc("/statuscheck", o.handleStatusCheck)
	mux.Handle("/metrics", metrics.Handler())
}

type translateResponse struct {
	JobID           string   `json:"job_id"`
	Filename        string   `json:"filename"`
	PageCount       int      `json:"page_count"`
	ExtractedTexts  []string `json:"extracted_texts"`
	TranslatedTexts []string `json:"translated_texts"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (o *Orchestrator) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, o.cfg.Server.MaxUploadBytes)
	if err := r.ParseMultipartForm(o.cfg.Server.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	info, err := o.detector.Detect(data)
	if err != nil || !info.IsPDF {
		writeError(w, http.StatusBadRequest, "only PDF uploads are accepted")
		return
	}

	pageCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil || pageCount < 1 {
		writeError(w, http.StatusBadRequest, "invalid or empty PDF")
		return
	}

	log.Info().Str("file", hdr.Filename).Int("size", len(data)).Int("pages", pageCount).Msg("accepted translation upload")

	job, err := o.pipeline.Run(r.Context(), hdr.Filename, data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, translateResponse{
		JobID:           job.ID,
		Filename:        job.Filename,
		PageCount:       job.PageCount,
		ExtractedTexts:  job.ExtractedTexts,
		TranslatedTexts: job.TranslatedTexts,
	})
}

func (o *Orchestrator) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	jobID := strings.TrimPrefix(r.URL.Path, "/api/download/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusBadRequest, "missing job id")
		return
	}

	job, ok := o.cache.Lookup(jobID)
	if !ok {
		writeError(w, http.StatusNotFound, "job not found or expired")
		return
	}

	filename := strings.TrimSuffix(job.Filename, ".pdf") + "_translated.pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(job.Document)
}

func (o *Orchestrator) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	jobID := strings.TrimPrefix(r.URL.Path, "/api/progress/")
	if jobID == "" || strings.Contains(jobID, "/") {
		writeError(w, http.StatusBadRequest, "missing job id")
		return
	}

	st, ok, err := o.status.Get(r.Context(), jobID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "status store unavailable")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (o *Orchestrator) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (o *Orchestrator) handleStatusCheck(w http.ResponseWriter, r *http.Request) {
	if o.checker == nil {
		writeError(w, http.StatusNotFound, "status checks not configured")
		return
	}
	writeJSON(w, http.StatusOK, o.checker.Summary(r.Context()))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorResponse{Error: msg})
}
