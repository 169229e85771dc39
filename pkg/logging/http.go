// Package logging provides structured HTTP access and error logging.
package logging

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/zombar/reviewinsights/internal/tracing"
)

// statusRecorder wraps http.ResponseWriter to capture status and size
type statusRecorder struct {
	http.ResponseWriter
	status       int
	bytesWritten int64
	wroteHeader  bool
}

func (rw *statusRecorder) WriteHeader(status int) {
	if !rw.wroteHeader {
		rw.status = status
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// HTTPLoggingMiddleware logs one structured record per request. Server
// errors are logged at error level, client errors at warn.
func HTTPLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			level := slog.LevelInfo
			switch {
			case wrapped.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case wrapped.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http_request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("query", r.URL.RawQuery),
				slog.Int("status", wrapped.status),
				slog.Int64("bytes", wrapped.bytesWritten),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("user_agent", r.UserAgent()),
				slog.String("trace_id", tracing.TraceIDFromContext(r.Context())),
				slog.String("span_id", tracing.SpanIDFromContext(r.Context())),
			)
		})
	}
}

// HTTPErrorLogger logs a handler failure with its trace context
func HTTPErrorLogger(logger *slog.Logger, statusCode int, err error, r *http.Request) {
	logger.LogAttrs(r.Context(), slog.LevelError, "http_error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("trace_id", tracing.TraceIDFromContext(r.Context())),
		slog.String("span_id", tracing.SpanIDFromContext(r.Context())),
	)
}
