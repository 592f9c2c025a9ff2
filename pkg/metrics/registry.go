package metrics

import (
	"strings"
	"sync"
)

// MetricThreshold defines the min_acceptable/target/excellent bands a
// single metric dimension is graded against.
type MetricThreshold struct {
	MinAcceptable float64
	Target        float64
	Excellent     float64
}

// GetGrade maps a value to a coarse four-level grade (A+/A/C/F),
// matching the registry's own simplified per-dimension grading; the
// ten-level scale in dimensions.go is reserved for the composite
// PromptMetrics grade.
func (t MetricThreshold) GetGrade(value float64) Grade {
	switch {
	case value >= t.Excellent:
		return GradeAPlus
	case value >= t.Target:
		return GradeA
	case value >= t.MinAcceptable:
		return GradeC
	default:
		return GradeF
	}
}

// MetricDefinition carries display metadata plus whether lower values
// are better (latency, tokens, cost) or higher (everything else).
type MetricDefinition struct {
	Name            string
	Description     string
	Unit            string
	Threshold       MetricThreshold
	HigherIsBetter  bool
}

// Registry is the centralized source of per-dimension thresholds and
// metric metadata.
type Registry struct {
	thresholds  map[string]MetricThreshold
	definitions map[string]MetricDefinition
}

var defaultThresholds = map[string]MetricThreshold{
	"quality":     {MinAcceptable: 0.60, Target: 0.80, Excellent: 0.90},
	"performance": {MinAcceptable: 0.40, Target: 0.70, Excellent: 0.85},
	"impact":      {MinAcceptable: 0.50, Target: 0.75, Excellent: 0.90},
	"overall":     {MinAcceptable: 0.60, Target: 0.80, Excellent: 0.90},
}

var defaultDefinitions = map[string]MetricDefinition{
	"quality.coherence": {
		Name: "Coherence", Description: "Logical flow and structure of the prompt",
		Unit: "score", Threshold: defaultThresholds["quality"], HigherIsBetter: true,
	},
	"quality.relevance": {
		Name: "Relevance", Description: "Alignment with original intent",
		Unit: "score", Threshold: defaultThresholds["quality"], HigherIsBetter: true,
	},
	"quality.completeness": {
		Name: "Completeness", Description: "Presence of required sections",
		Unit: "score", Threshold: defaultThresholds["quality"], HigherIsBetter: true,
	},
	"quality.clarity": {
		Name: "Clarity", Description: "Absence of ambiguity",
		Unit: "score", Threshold: defaultThresholds["quality"], HigherIsBetter: true,
	},
	"performance.latency": {
		Name: "Latency", Description: "Time to generate improved prompt",
		Unit: "ms", Threshold: MetricThreshold{MinAcceptable: 30000, Target: 10000, Excellent: 5000}, HigherIsBetter: false,
	},
	"performance.tokens": {
		Name: "Token Usage", Description: "Total tokens consumed",
		Unit: "tokens", Threshold: MetricThreshold{MinAcceptable: 5000, Target: 2000, Excellent: 1000}, HigherIsBetter: false,
	},
	"performance.cost": {
		Name: "Cost", Description: "Estimated API cost in USD",
		Unit: "usd", Threshold: MetricThreshold{MinAcceptable: 0.10, Target: 0.03, Excellent: 0.01}, HigherIsBetter: false,
	},
	"impact.success_rate": {
		Name: "Success Rate", Description: "First-attempt acceptance rate",
		Unit: "score", Threshold: defaultThresholds["impact"], HigherIsBetter: true,
	},
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the shared, process-wide metrics registry,
// built on first access.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = &Registry{thresholds: defaultThresholds, definitions: defaultDefinitions}
	})
	return defaultRegistry
}

// GetThreshold resolves "quality.coherence" to its base dimension
// ("quality") threshold, falling back to "overall" when unknown.
func (r *Registry) GetThreshold(metricName string) MetricThreshold {
	base, _, _ := strings.Cut(metricName, ".")
	if t, ok := r.thresholds[base]; ok {
		return t
	}
	return r.thresholds["overall"]
}

// GetDefinition returns metadata for a fully-qualified metric name.
func (r *Registry) GetDefinition(metricName string) (MetricDefinition, bool) {
	def, ok := r.definitions[metricName]
	return def, ok
}

// IsAcceptable reports whether value clears the dimension's minimum
// acceptable threshold, respecting direction (higher/lower is better).
func (r *Registry) IsAcceptable(metricName string, value float64) bool {
	threshold := r.GetThreshold(metricName)
	higherIsBetter := true
	if def, ok := r.GetDefinition(metricName); ok {
		higherIsBetter = def.HigherIsBetter
	}
	if higherIsBetter {
		return value >= threshold.MinAcceptable
	}
	return value <= threshold.MinAcceptable
}

// GetGrade returns the coarse grade for value under metricName's
// threshold.
func (r *Registry) GetGrade(metricName string, value float64) Grade {
	return r.GetThreshold(metricName).GetGrade(value)
}
