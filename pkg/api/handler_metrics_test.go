package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlacforge/promptimprove/pkg/metrics"
)

func sampleMetricsBatch() []metrics.PromptMetrics {
	now := time.Now().UTC()
	batch := make([]metrics.PromptMetrics, 0, 6)
	for i := 0; i < 6; i++ {
		batch = append(batch, metrics.PromptMetrics{
			PromptID:     "prompt-" + string(rune('a'+i)),
			OriginalIdea: "idea",
			Quality: metrics.QualityMetrics{
				CoherenceScore: 0.8, RelevanceScore: 0.8,
				CompletenessScore: 0.8, ClarityScore: 0.8,
			},
			Performance: metrics.PerformanceMetrics{LatencyMS: 500, TotalTokens: 100},
			MeasuredAt:  now.Add(time.Duration(i) * time.Hour),
		})
	}
	return batch
}

func TestMetricsSummaryHandlerReturnsAggregates(t *testing.T) {
	repo := &fakeMetricsRepo{saved: sampleMetricsBatch()}
	s := newTestServer(fakeLLMClient{provider: "openai", model: "gpt-4"}, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics/summary", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	err := s.metricsSummaryHandler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp MetricsSummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.TotalPrompts)
	assert.Greater(t, resp.AverageQuality, 0.0)
}

func TestMetricsTrendsHandlerRejectsNonPositiveDays(t *testing.T) {
	s := newTestServer(fakeLLMClient{provider: "openai", model: "gpt-4"}, &fakeMetricsRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics/trends?days=-7", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	err := s.metricsTrendsHandler(c)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	env, ok := httpErr.Message.(ErrorEnvelope)
	require.True(t, ok)
	assert.Equal(t, "invalid_parameter", env.Error)
	assert.Equal(t, "days must be a positive integer", env.Detail)
}

func TestMetricsTrendsHandlerReturnsTrendsForValidDays(t *testing.T) {
	repo := &fakeMetricsRepo{saved: sampleMetricsBatch()}
	s := newTestServer(fakeLLMClient{provider: "openai", model: "gpt-4"}, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/metrics/trends?days=7", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	err := s.metricsTrendsHandler(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp MetricsTrendsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Periods, 2)
	assert.Contains(t, resp.Trends, "quality")
}
