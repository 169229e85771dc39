package main

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombar/reviewinsights/internal/analyzer"
	"github.com/zombar/reviewinsights/internal/config"
	"github.com/zombar/reviewinsights/internal/metrics"
)

func TestMetricsEndpoint(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	// the /metrics route serves the default registry
	m := metrics.NewBusinessMetrics(metricsNamespace, prometheus.DefaultRegisterer)
	a := analyzer.New(analyzer.WithLogger(logger))
	handler := newServerHandler(logger, a, nil, m, config.Default())

	analyze := httptest.NewRequest(http.MethodPost, "/api/analyze",
		strings.NewReader(`{"rows":[{"review":"terrible service"},{"review":"great value"}]}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, analyze)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")

	body := w.Body.String()
	expectedMetrics := []string{
		"go_goroutines",
		"go_info",
		"promhttp_metric_handler",
		`reviewinsights_reviews_analyzed_total{sentiment="negative"} 1`,
		`reviewinsights_reviews_analyzed_total{sentiment="positive"} 1`,
		`reviewinsights_analysis_duration_seconds_count{source="api"} 1`,
	}
	for _, metric := range expectedMetrics {
		assert.Contains(t, body, metric)
	}

	// both requests went through the access log
	assert.Equal(t, 2, strings.Count(logs.String(), `"msg":"http_request"`))
}
