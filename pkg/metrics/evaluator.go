package metrics

import (
	"math"
	"strings"
)

// PromptResult is the strategy output the evaluator scores.
type PromptResult struct {
	ImprovedPrompt string
	Role           string
	Directive      string
	Framework      string
	Guardrails     []string
	LatencyMS      int
	TotalTokens    int
	CostUSD        float64
	Provider       string
	Model          string
	Backend        string
}

// ImpactData is the optional post-delivery signal passed to Calculate.
type ImpactData struct {
	CopyCount         int
	RegenerationCount int
	FeedbackScore     *int
	ReuseCount        int
}

// rate is the per-(provider, model) cost-per-token table used to
// estimate cost when the result doesn't report one directly.
type rate struct {
	provider, model string
	usdPerToken      float64
}

var costRates = []rate{
	{"openai", "gpt-4o", 0.000005},
	{"openai", "gpt-4o-mini", 0.0000005},
	{"anthropic", "claude-3-5-sonnet", 0.000006},
}

func costFor(provider, model string, tokens int) float64 {
	for _, r := range costRates {
		if strings.EqualFold(r.provider, provider) && strings.EqualFold(r.model, model) {
			return float64(tokens) * r.usdPerToken
		}
	}
	return float64(tokens) * 0.000003
}

// maxGuardrailsConfigured bounds guardrails_count before it's stored.
const maxGuardrailsConfigured = 10

// Evaluator computes PromptMetrics from an idea/result pair.
type Evaluator struct {
	PerfThresholds PerformanceThresholds
}

// NewEvaluator wires an Evaluator with the default performance
// thresholds.
func NewEvaluator() *Evaluator {
	return &Evaluator{PerfThresholds: DefaultPerformanceThresholds}
}

// Calculate derives quality/performance/impact metrics for one
// improvement result.
func (e *Evaluator) Calculate(promptID, originalIdea string, result PromptResult, impact *ImpactData) PromptMetrics {
	quality := e.calculateQuality(originalIdea, result)
	performance := e.calculatePerformance(result)
	impactMetrics := e.calculateImpact(impact)

	return PromptMetrics{
		PromptID:       promptID,
		OriginalIdea:   originalIdea,
		ImprovedPrompt: result.ImprovedPrompt,
		Quality:        quality,
		Performance:    performance,
		Impact:         impactMetrics,
		Framework:      ParseFramework(result.Framework),
		Provider:       result.Provider,
		Model:          result.Model,
		Backend:        result.Backend,
	}
}

func (e *Evaluator) calculateQuality(originalIdea string, result PromptResult) QualityMetrics {
	prompt := result.ImprovedPrompt
	lower := strings.ToLower(prompt)

	hasRoleHeader := strings.Contains(lower, "# role") || result.Role != ""
	hasDirectiveHeader := strings.Contains(lower, "# directive") || result.Directive != ""
	sectionCount := strings.Count(prompt, "\n#")

	coherence := sectionScore(sectionCount)
	completeness := structuralCompletenessScore(hasRoleHeader, hasDirectiveHeader, result.Framework, result.Guardrails)
	relevance := keywordDensity(originalIdea, prompt)
	clarity := clarityScore(prompt)

	guardrailsCount := len(result.Guardrails)
	if guardrailsCount > maxGuardrailsConfigured {
		guardrailsCount = maxGuardrailsConfigured
	}

	hasRequiredStructure := result.Role != "" && result.Directive != "" && result.Framework != "" && len(result.Guardrails) > 0

	return QualityMetrics{
		CoherenceScore:       coherence,
		RelevanceScore:       relevance,
		CompletenessScore:    completeness,
		ClarityScore:         clarity,
		GuardrailsCount:      guardrailsCount,
		HasRequiredStructure: hasRequiredStructure,
	}
}

func sectionScore(sectionCount int) float64 {
	return math.Min(float64(sectionCount)*0.25, 1.0)
}

func structuralCompletenessScore(hasRole, hasDirective bool, framework string, guardrails []string) float64 {
	score := 0.0
	if hasRole {
		score += 0.3
	}
	if hasDirective {
		score += 0.3
	}
	if framework != "" {
		score += 0.2
	}
	if len(guardrails) > 0 {
		score += 0.2
	}
	return score
}

// keywordDensity is the fraction of the original idea's significant
// words (len > 3) that reappear in the improved prompt, a cheap proxy
// for relevance without calling an LLM judge.
func keywordDensity(idea, prompt string) float64 {
	words := strings.Fields(strings.ToLower(idea))
	loweredPrompt := strings.ToLower(prompt)

	significant := 0
	found := 0
	for _, w := range words {
		w = strings.Trim(w, ".,;:!?")
		if len(w) <= 3 {
			continue
		}
		significant++
		if strings.Contains(loweredPrompt, w) {
			found++
		}
	}
	if significant == 0 {
		return 1.0
	}
	return float64(found) / float64(significant)
}

// clarityScore penalizes very short or unpunctuated prompts as a
// stand-in for ambiguity.
func clarityScore(prompt string) float64 {
	trimmed := strings.TrimSpace(prompt)
	if len(trimmed) < 20 {
		return 0.3
	}
	sentences := strings.FieldsFunc(trimmed, func(r rune) bool { return r == '.' || r == '\n' })
	if len(sentences) == 0 {
		return 0.5
	}
	avgLen := float64(len(trimmed)) / float64(len(sentences))
	switch {
	case avgLen > 300:
		return 0.5
	case avgLen > 150:
		return 0.8
	default:
		return 1.0
	}
}

func (e *Evaluator) calculatePerformance(result PromptResult) PerformanceMetrics {
	tokens := result.TotalTokens
	if tokens == 0 {
		tokens = EstimateTokens(len(result.ImprovedPrompt))
	}
	cost := result.CostUSD
	if cost == 0 {
		cost = costFor(result.Provider, result.Model, tokens)
	}
	return PerformanceMetrics{
		LatencyMS:   result.LatencyMS,
		TotalTokens: tokens,
		CostUSD:     cost,
		Provider:    result.Provider,
		Model:       result.Model,
		Backend:     result.Backend,
	}
}

func (e *Evaluator) calculateImpact(data *ImpactData) ImpactMetrics {
	if data == nil {
		return ImpactMetrics{}
	}
	return ImpactMetrics{
		CopyCount:         data.CopyCount,
		RegenerationCount: data.RegenerationCount,
		FeedbackScore:     data.FeedbackScore,
		ReuseCount:        data.ReuseCount,
	}
}
