package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zombar/reviewinsights/internal/analyzer"
	"github.com/zombar/reviewinsights/internal/ingest"
	"github.com/zombar/reviewinsights/internal/metrics"
	"github.com/zombar/reviewinsights/internal/models"
	"github.com/zombar/reviewinsights/internal/queue"
	"github.com/zombar/reviewinsights/internal/tracing"
	"github.com/zombar/reviewinsights/pkg/logging"
)

// DefaultMaxUploadBytes caps multipart uploads when Options leaves it unset
const DefaultMaxUploadBytes = 10 << 20

// JobQueue is the background analysis queue as seen by the API
type JobQueue interface {
	EnqueueAnalyzeReviews(ctx context.Context, jobID string, reviews []models.Review, minCount int) (string, error)
	JobStatus(ctx context.Context, jobID string) (*queue.JobStatus, error)
}

// Options tunes the handler
type Options struct {
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Handler handles HTTP requests
type Handler struct {
	analyzer *analyzer.Analyzer
	queue    JobQueue
	metrics  *metrics.BusinessMetrics
	validate *validator.Validate
	logger   *slog.Logger
	maxBytes int64
	mux      *http.ServeMux
}

type analyzeRequest struct {
	Rows     []ingest.Row `json:"rows" validate:"required"`
	MinCount int          `json:"min_count" validate:"gte=0"`
}

type sentimentRequest struct {
	Text string `json:"text" validate:"required"`
}

type searchRequest struct {
	Rows  []ingest.Row         `json:"rows" validate:"required"`
	Query analyzer.ReviewQuery `json:"query"`
}

// NewHandler creates a new API handler with CORS support. q and m may be nil;
// without a queue the job endpoints answer 503.
func NewHandler(a *analyzer.Analyzer, q JobQueue, m *metrics.BusinessMetrics, opts Options) http.Handler {
	h := newHandler(a, q, m, opts)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(h.mux)
}

func newHandler(a *analyzer.Analyzer, q JobQueue, m *metrics.BusinessMetrics, opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	h := &Handler{
		analyzer: a,
		queue:    q,
		metrics:  m,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   opts.Logger,
		maxBytes: opts.MaxUploadBytes,
		mux:      http.NewServeMux(),
	}
	h.setupRoutes()
	return h
}

// setupRoutes configures all API routes
func (h *Handler) setupRoutes() {
	h.mux.Handle("/metrics", promhttp.Handler())
	h.mux.HandleFunc("/health", h.handleHealth)
	h.mux.HandleFunc("/api/sentiment", h.handleSentiment)
	h.mux.HandleFunc("/api/analyze", h.handleAnalyze)
	h.mux.HandleFunc("/api/upload", h.handleUpload)
	h.mux.HandleFunc("/api/reviews/search", h.handleSearchReviews)
	h.mux.HandleFunc("/api/jobs", h.handleCreateJob)
	h.mux.HandleFunc("/api/jobs/", h.handleJobStatus)
}

// handleHealth handles health check requests
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleSentiment scores a single text
func (h *Handler) handleSentiment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req sentimentRequest
	if !h.decode(w, r, &req) {
		return
	}

	result := analyzer.ScoreSentiment(req.Text)
	tracing.SetSpanAttributes(r.Context(),
		attribute.Int("text.length", len(req.Text)),
		attribute.String("sentiment.label", string(result.Label)))

	respondJSON(w, result, http.StatusOK)
}

// handleAnalyze runs the pipeline over posted rows
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req analyzeRequest
	if !h.decode(w, r, &req) {
		return
	}

	report := h.runAnalysis(r.Context(), "api", ingest.Records(req.Rows), req.MinCount)
	respondJSON(w, report, http.StatusOK)
}

// handleUpload ingests a spreadsheet, CSV or JSON file and analyzes it
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tooLargeMsg := fmt.Sprintf("File exceeds %d bytes", h.maxBytes)
	if r.ContentLength > h.maxBytes {
		h.fail(w, r, tooLargeMsg, http.StatusRequestEntityTooLarge, nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, tooLargeMsg, http.StatusRequestEntityTooLarge, err)
			return
		}
		h.fail(w, r, "Invalid multipart form", http.StatusBadRequest, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, "File field is required", http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	minCount := 0
	if v := r.FormValue("min_count"); v != "" {
		minCount, err = strconv.Atoi(v)
		if err != nil || minCount < 0 {
			h.fail(w, r, "min_count must be a non-negative integer", http.StatusBadRequest, err)
			return
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, r, "Failed to read upload", http.StatusBadRequest, err)
		return
	}

	tracing.SetSpanAttributes(r.Context(),
		attribute.String("upload.filename", header.Filename),
		attribute.Int("upload.size", len(data)))

	reviews, err := ingest.Load(data, header.Filename)
	if err != nil {
		h.metrics.IngestionFailed("upload")
		tracing.RecordError(r.Context(), err)
		if errors.Is(err, ingest.ErrIngestionFailed) {
			h.fail(w, r, err.Error(), http.StatusUnprocessableEntity, err)
			return
		}
		h.fail(w, r, "Failed to ingest upload", http.StatusInternalServerError, err)
		return
	}

	report := h.runAnalysis(r.Context(), "upload", reviews, minCount)
	respondJSON(w, report, http.StatusOK)
}

// handleSearchReviews scores posted rows and returns one filtered, sorted page
func (h *Handler) handleSearchReviews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req searchRequest
	if !h.decode(w, r, &req) {
		return
	}

	reviews := ingest.Records(req.Rows)
	scored := make([]models.Review, 0, len(reviews))
	for _, review := range reviews {
		result := analyzer.ScoreSentiment(review.Text)
		review.Sentiment = result.Label
		review.Confidence = result.Confidence
		scored = append(scored, review)
	}

	respondJSON(w, analyzer.QueryReviews(scored, req.Query), http.StatusOK)
}

// handleCreateJob queues a background analysis
func (h *Handler) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.queue == nil {
		respondError(w, "Background analysis is not configured", http.StatusServiceUnavailable)
		return
	}

	var req analyzeRequest
	if !h.decode(w, r, &req) {
		return
	}

	jobID := uuid.NewString()
	reviews := ingest.Records(req.Rows)

	tracing.SetSpanAttributes(r.Context(),
		attribute.String("job.id", jobID),
		attribute.Int("reviews.count", len(reviews)))

	taskID, err := h.queue.EnqueueAnalyzeReviews(r.Context(), jobID, reviews, req.MinCount)
	if err != nil {
		tracing.RecordError(r.Context(), err)
		h.fail(w, r, fmt.Sprintf("Failed to enqueue analysis: %v", err), http.StatusInternalServerError, err)
		return
	}
	h.metrics.JobEnqueued()

	respondJSON(w, map[string]interface{}{
		"job_id":  jobID,
		"task_id": taskID,
		"status":  "queued",
		"message": "Analysis queued for processing",
	}, http.StatusAccepted)
}

// handleJobStatus handles job status requests
func (h *Handler) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.queue == nil {
		respondError(w, "Background analysis is not configured", http.StatusServiceUnavailable)
		return
	}

	jobID := r.URL.Path[len("/api/jobs/"):]
	if idx := strings.Index(jobID, "/"); idx != -1 {
		jobID = jobID[:idx]
	}

	if jobID == "" {
		respondError(w, "Job ID is required", http.StatusBadRequest)
		return
	}

	status, err := h.queue.JobStatus(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, queue.ErrJobNotFound) {
			respondJSON(w, map[string]interface{}{
				"job_id":  jobID,
				"status":  "not_found",
				"message": "Job not found - it may have expired",
			}, http.StatusNotFound)
			return
		}
		h.fail(w, r, err.Error(), http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, status, http.StatusOK)
}

// runAnalysis runs the pipeline inside a span and records business metrics
func (h *Handler) runAnalysis(ctx context.Context, source string, reviews []models.Review, minCount int) models.Report {
	ctx, span := tracing.StartSpan(ctx, "reviews.analyze",
		attribute.String("analysis.source", source),
		attribute.Int("reviews.count", len(reviews)))
	defer span.End()

	if minCount <= 0 {
		minCount = h.analyzer.MinKeywordCount()
	}

	start := time.Now()
	report := h.analyzer.AnalyzeWithMinCount(reviews, minCount)
	h.metrics.ObserveReport(source, report, time.Since(start))

	tracing.SetSpanAttributes(ctx,
		attribute.Int("stats.total_reviews", report.Stats.TotalReviews),
		attribute.Int("stats.negative_reviews", report.Stats.NegativeReviews),
		attribute.Int("keywords.count", len(report.Keywords)),
		attribute.Int("suggestions.count", len(report.Suggestions.Suggestions)))

	return report
}

// decode reads a size-limited JSON body into dst and validates it, writing a 4xx on failure
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, fmt.Sprintf("Request body exceeds %d bytes", h.maxBytes), http.StatusRequestEntityTooLarge, err)
			return false
		}
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			respondError(w, fmt.Sprintf("Field %s failed %s validation", fe.Field(), fe.Tag()), http.StatusBadRequest)
			return false
		}
		respondError(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// fail logs the error with request context and sends an error response
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, statusCode int, err error) {
	if err == nil {
		err = errors.New(message)
	}
	logging.HTTPErrorLogger(h.logger, statusCode, err, r)
	respondError(w, message, statusCode)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}
