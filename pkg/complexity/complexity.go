// Package complexity classifies an idea+context pair into SIMPLE,
// MODERATE, or COMPLEX via a weighted multi-dimensional score.
package complexity

import (
	"regexp"
	"strings"

	"github.com/nlacforge/promptimprove/pkg/domainerr"
)

// Level is the tagged complexity variant.
type Level string

const (
	Simple   Level = "simple"
	Moderate Level = "moderate"
	Complex  Level = "complex"
)

const (
	simpleMaxLength   = 50
	moderateMaxLength = 150
	autoComplexLength = 300
)

// technicalTerms indicates domain complexity; matched with word
// boundaries so "api" doesn't fire inside "capacity" (see spec.md's
// word-boundary redesign flag).
var technicalTerms = []string{
	"framework", "arquitectura", "patrón", "diseño",
	"metrics", "metrica", "evaluación", "calidad", "optimización",
	"sistema", "componente", "integración", "pipeline", "api",
	"repositorio", "adaptador", "dominio", "infraestructura",
}

var termPatterns = buildTermPatterns(technicalTerms)

func buildTermPatterns(terms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(terms))
	for i, term := range terms {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
	}
	return out
}

// Analyzer computes a Level from combined idea+context text.
type Analyzer struct{}

// NewAnalyzer returns a stateless Analyzer.
func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Analyze classifies the (idea, context) pair. Both must be strings;
// callers passing non-string-able input should fail VALIDATION before
// calling Analyze — Go's type system already excludes that case, so
// Analyze performs no validation of its own (an empty idea is a
// legitimate SIMPLE classification, not a validation error).
func (a *Analyzer) Analyze(idea, context string) (Level, domainerr.DomainError, bool) {
	totalLength := len(idea) + len(context)
	combined := strings.ToLower(idea + " " + context)

	var lengthScore float64
	switch {
	case totalLength <= simpleMaxLength:
		lengthScore = 0.0
	case totalLength <= moderateMaxLength:
		lengthScore = 0.5
	default:
		lengthScore = 1.0
	}

	technicalCount := 0
	for _, pattern := range termPatterns {
		if pattern.MatchString(combined) {
			technicalCount++
		}
	}
	technicalScore := min(float64(technicalCount)*0.5, 1.0)

	punctuationCount := strings.Count(combined, ".") + strings.Count(combined, ",") + strings.Count(combined, ";")
	structureScore := min(float64(punctuationCount)*0.1, 1.0)

	contextScore := 0.0
	if strings.TrimSpace(context) != "" {
		contextScore = 1.0
	}

	totalScore := lengthScore*0.40 + technicalScore*0.30 + structureScore*0.20 + contextScore*0.10

	switch {
	case totalLength > autoComplexLength:
		return Complex, domainerr.DomainError{}, false
	case totalScore < 0.25:
		return Simple, domainerr.DomainError{}, false
	case totalScore < 0.60:
		return Moderate, domainerr.DomainError{}, false
	default:
		return Complex, domainerr.DomainError{}, false
	}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Validate fails VALIDATION when idea or context is missing entirely —
// the closest Go analogue to the source's None-input guard, since a Go
// string parameter can never be a non-string value.
func Validate(ideaProvided, contextProvided bool) (domainerr.DomainError, bool) {
	if !ideaProvided {
		return domainerr.New(domainerr.CategoryValidation, "original_idea is required", domainerr.ValidationFailed, nil), true
	}
	if !contextProvided {
		return domainerr.New(domainerr.CategoryValidation, "context is required", domainerr.ValidationFailed, nil), true
	}
	return domainerr.DomainError{}, false
}
