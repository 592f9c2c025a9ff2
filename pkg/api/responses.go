package api

// ImprovePromptResponse is returned by POST /api/v1/improve-prompt.
type ImprovePromptResponse struct {
	ImprovedPrompt   string   `json:"improved_prompt"`
	Role             string   `json:"role"`
	Directive        string   `json:"directive"`
	Framework        string   `json:"framework"`
	Guardrails       []string `json:"guardrails"`
	Reasoning        string   `json:"reasoning,omitempty"`
	Confidence       float64  `json:"confidence"`
	QualityGate      bool     `json:"quality_gate"`
	DegradationFlags []string `json:"degradation_flags"`
	Backend          string   `json:"backend"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status          string `json:"status"`
	Provider        string `json:"provider"`
	Model           string `json:"model"`
	DSPyConfigured  bool   `json:"dspy_configured"`
}

// MetricsSummaryResponse is returned by GET /api/v1/metrics/summary.
type MetricsSummaryResponse struct {
	TotalPrompts       int            `json:"total_prompts"`
	AverageQuality     float64        `json:"average_quality"`
	AveragePerformance float64        `json:"average_performance"`
	AverageImpact      float64        `json:"average_impact"`
	GradeDistribution  map[string]int `json:"grade_distribution"`
}

// MetricsTrendsResponse is returned by GET /api/v1/metrics/trends.
type MetricsTrendsResponse struct {
	Periods []string       `json:"periods"`
	Trends  map[string]any `json:"trends"`
}
