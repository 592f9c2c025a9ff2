package api

import (
	"net/http"

	echo "github.com/labstack/echo/v5"
)

const (
	healthStatusHealthy  = "healthy"
	healthStatusDegraded = "degraded"
)

// healthHandler handles GET /health. It reports the configured LLM
// provider/model and whether a real (non-deterministic) client is
// wired, per spec §6 — 503 only when the provider is entirely
// unreachable, which here means no client was configured at all.
func (s *Server) healthHandler(c *echo.Context) error {
	configured := s.llmClient != nil && s.llmClient.Provider() != "none"

	status := healthStatusHealthy
	httpStatus := http.StatusOK
	if !configured {
		status = healthStatusDegraded
	}
	if s.llmClient == nil {
		httpStatus = http.StatusServiceUnavailable
	}

	provider, model := "none", "none"
	if s.llmClient != nil {
		provider, model = s.llmClient.Provider(), s.llmClient.Model()
	}

	return c.JSON(httpStatus, &HealthResponse{
		Status:         status,
		Provider:       provider,
		Model:          model,
		DSPyConfigured: configured,
	})
}
