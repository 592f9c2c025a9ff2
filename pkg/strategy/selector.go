package strategy

import (
	"log/slog"

	"github.com/nlacforge/promptimprove/pkg/complexity"
	"github.com/nlacforge/promptimprove/pkg/domainerr"
)

// Selector routes a request to a strategy. It is stateless per
// request: it calls the Complexity Analyzer for routing metadata, then
// hands control to the chosen strategy, never holding per-request
// state itself.
type Selector struct {
	analyzer *complexity.Analyzer

	useNLaC      bool
	nlacStrategy PromptImproverStrategy

	simple   *SimpleStrategy
	moderate *ModerateStrategy
	complex  *ComplexStrategy

	complexAvailable bool
	degradationFlags map[string]bool
}

// NewLegacySelector wires the three legacy strategies. complexStrategy
// may be nil when its dependencies (e.g. a trainset file) failed to
// load; the selector then falls back to ModerateStrategy for COMPLEX
// inputs and records complex_strategy_disabled. Construction-time
// degradation is reported on the returned Result per spec.md §4.6/§9 —
// the Selector itself keeps its own copy so per-request callers can
// still read it via DegradationFlags without re-deriving it.
func NewLegacySelector(simple *SimpleStrategy, moderate *ModerateStrategy, complexStrategy *ComplexStrategy) domainerr.Result[*Selector] {
	flags := map[string]bool{"knn_disabled": false, "complex_strategy_disabled": complexStrategy == nil}
	if complexStrategy == nil {
		slog.Warn("ComplexStrategy unavailable at selector construction, legacy routing will fall back to moderate")
	}
	sel := &Selector{
		analyzer:         complexity.NewAnalyzer(),
		simple:           simple,
		moderate:         moderate,
		complex:          complexStrategy,
		complexAvailable: complexStrategy != nil,
		degradationFlags: flags,
	}
	return domainerr.Success(sel, flags)
}

// NewNLaCSelector wires the unified NLaC strategy. knnDisabled records
// whether KNN retrieval failed to initialize upstream so callers can
// surface it alongside other degradation flags.
func NewNLaCSelector(nlacStrategy PromptImproverStrategy, knnDisabled bool) domainerr.Result[*Selector] {
	flags := map[string]bool{
		"knn_disabled":              knnDisabled,
		"complex_strategy_disabled": false,
	}
	sel := &Selector{
		analyzer:         complexity.NewAnalyzer(),
		useNLaC:          true,
		nlacStrategy:     nlacStrategy,
		degradationFlags: flags,
	}
	return domainerr.Success(sel, flags)
}

// Select validates the inputs, then routes: NLaC mode always returns
// the unified strategy regardless of complexity; legacy mode routes by
// complexity level, falling back to moderate when complex is disabled.
func (s *Selector) Select(originalIdea, context string) (PromptImproverStrategy, error) {
	if err := ValidateInputs(originalIdea); err != nil {
		return nil, err
	}

	if s.useNLaC {
		return s.nlacStrategy, nil
	}

	level, _, _ := s.analyzer.Analyze(originalIdea, context)
	switch level {
	case complexity.Simple:
		return s.simple, nil
	case complexity.Moderate:
		return s.moderate, nil
	default:
		if s.complexAvailable {
			return s.complex, nil
		}
		slog.Warn("ComplexStrategy unavailable, using ModerateStrategy fallback")
		return s.moderate, nil
	}
}

// GetComplexity exposes the routing-only complexity level for logging
// and metrics, without selecting a strategy.
func (s *Selector) GetComplexity(originalIdea, context string) (complexity.Level, error) {
	if err := ValidateInputs(originalIdea); err != nil {
		return "", err
	}
	level, _, _ := s.analyzer.Analyze(originalIdea, context)
	return level, nil
}

// DegradationFlags returns a copy of the selector's initialization
// degradation flags for monitoring.
func (s *Selector) DegradationFlags() map[string]bool {
	cp := make(map[string]bool, len(s.degradationFlags))
	for k, v := range s.degradationFlags {
		cp[k] = v
	}
	return cp
}
