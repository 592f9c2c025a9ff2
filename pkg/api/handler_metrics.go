package api

import (
	"net/http"
	"strconv"
	"time"

	echo "github.com/labstack/echo/v5"
)

const metricsPageSize = 500

// metricsSummaryHandler handles GET /api/v1/metrics/summary: pulls the
// most recent page of persisted metrics and reports per-dimension
// means and a grade distribution.
func (s *Server) metricsSummaryHandler(c *echo.Context) error {
	ctx := c.Request().Context()

	result := s.metricsRepo.GetAll(ctx, metricsPageSize, 0)
	batch, ok := result.Value()
	if !ok {
		derr, _ := result.Error()
		return mapDomainError(derr)
	}

	summary := s.analyzer.Summarize(batch)

	dist := make(map[string]int, len(summary.GradeDistribution))
	for grade, count := range summary.GradeDistribution {
		dist[string(grade)] = count
	}

	return c.JSON(http.StatusOK, &MetricsSummaryResponse{
		TotalPrompts:       summary.Count,
		AverageQuality:     summary.QualityMean,
		AveragePerformance: summary.PerformanceMean,
		AverageImpact:      summary.ImpactMean,
		GradeDistribution:  dist,
	})
}

// metricsTrendsHandler handles GET /api/v1/metrics/trends: requires a
// positive "days" query parameter and reports trend direction per
// dimension over that window.
func (s *Server) metricsTrendsHandler(c *echo.Context) error {
	daysParam := c.QueryParam("days")
	days, err := strconv.Atoi(daysParam)
	if err != nil || days <= 0 {
		return badRequest("invalid_parameter", "days must be a positive integer")
	}

	ctx := c.Request().Context()
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	result := s.metricsRepo.GetByDateRange(ctx, from, to)
	batch, ok := result.Value()
	if !ok {
		derr, _ := result.Error()
		return mapDomainError(derr)
	}

	report := s.analyzer.AnalyzeTrends(batch)

	periods := []string{from.Format("2006-01-02"), to.Format("2006-01-02")}
	trends := map[string]any{
		"quality":         string(report.Quality),
		"performance":     string(report.Performance),
		"impact":          string(report.Impact),
		"recommendations": report.Recommendations,
	}

	return c.JSON(http.StatusOK, &MetricsTrendsResponse{
		Periods: periods,
		Trends:  trends,
	})
}
