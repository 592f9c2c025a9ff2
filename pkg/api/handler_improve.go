package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	echo "github.com/labstack/echo/v5"

	"github.com/nlacforge/promptimprove/pkg/domainerr"
	"github.com/nlacforge/promptimprove/pkg/metrics"
	"github.com/nlacforge/promptimprove/pkg/strategy"
)

// improvePromptHandler handles POST /api/v1/improve-prompt: selects a
// strategy by mode and complexity, runs the improvement pipeline,
// validates the result, persists metrics, and responds with the
// improved prompt plus any degradation flags.
func (s *Server) improvePromptHandler(c *echo.Context) error {
	var req ImprovePromptRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid_request", "request body must be valid JSON")
	}

	if isBlank(req.Idea) {
		derr := domainerr.New(domainerr.CategoryValidation, "idea must be a non-empty string",
			domainerr.ValidationFailed, map[string]string{"field": "idea"})
		return mapDomainError(derr)
	}

	if s.llmClient == nil || s.llmClient.Provider() == "none" {
		derr := domainerr.New(domainerr.CategoryLLMProvider, "no LLM provider configured",
			domainerr.LLMConnectionFailed, map[string]string{"provider": "none"})
		return mapDomainError(derr)
	}

	selector := s.selectorForMode(req.Mode)
	selected, err := selector.Select(req.Idea, req.Context)
	if err != nil {
		derr := domainerr.New(domainerr.CategoryValidation, err.Error(), domainerr.ValidationFailed, nil)
		return mapDomainError(derr)
	}

	reqCtx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	pred, err := selected.Improve(reqCtx, req.Idea, req.Context)
	if err != nil {
		llmErr := domainerr.MapLLMError(err, "unknown", "unknown", len(req.Idea))
		return mapDomainError(llmErr.DomainError)
	}

	if len(req.Guardrails) > 0 {
		pred.Guardrails = append(pred.Guardrails, req.Guardrails...)
	}

	validation := s.validator.Validate(pred.ImprovedPrompt)

	degradationFlags := flagNames(selector.DegradationFlags())

	promptID := uuid.NewString()
	result := metrics.PromptResult{
		ImprovedPrompt: pred.ImprovedPrompt,
		Role:           pred.Role,
		Directive:      pred.Directive,
		Framework:      pred.Framework,
		Guardrails:     pred.Guardrails,
		Provider:       s.llmClient.Provider(),
		Model:          s.llmClient.Model(),
		Backend:        selected.Name(),
	}
	m := s.evaluator.Calculate(promptID, req.Idea, result, nil)

	if saveResult := s.metricsRepo.Save(reqCtx, m); saveResult.IsFailure() {
		derr, _ := saveResult.Error()
		slog.Warn("metrics persistence failed, degrading", "error", derr.Error(), "prompt_id", promptID)
		degradationFlags = append(degradationFlags, "metrics_persistence_failed")
	}

	return c.JSON(http.StatusOK, &ImprovePromptResponse{
		ImprovedPrompt:   pred.ImprovedPrompt,
		Role:             pred.Role,
		Directive:        pred.Directive,
		Framework:        pred.Framework,
		Guardrails:       pred.Guardrails,
		Reasoning:        pred.Reasoning,
		Confidence:       pred.Confidence,
		QualityGate:      validation.Passed,
		DegradationFlags: degradationFlags,
		Backend:          selected.Name(),
	})
}

func (s *Server) selectorForMode(mode string) *strategy.Selector {
	if mode == "" {
		mode = s.defaultMode
	}
	if mode == "legacy" {
		return s.legacySelector
	}
	return s.nlacSelector
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func flagNames(flags map[string]bool) []string {
	names := make([]string, 0, len(flags))
	for name, set := range flags {
		if set {
			names = append(names, name)
		}
	}
	return names
}
