// Package validator scores a prompt string against a set of
// constraint predicates, the simplified IFEval-style checks that can
// run without calling an LLM.
package validator

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Constraint evaluates one pass/fail rule against a prompt.
type Constraint func(prompt string) (bool, string)

// ValidationResult is the outcome of running every constraint.
type ValidationResult struct {
	Score   float64
	Passed  bool
	Details map[string]ConstraintResult
}

// ConstraintResult pairs a constraint's pass status with its reason.
type ConstraintResult struct {
	Passed bool
	Reason string
}

// DefaultMinChars is the default floor for the min-length constraint.
const DefaultMinChars = 50

var actionVerbs = []string{"create", "implement", "write", "build", "develop", "add"}

var actionVerbPatterns = compileActionVerbPatterns(actionVerbs)

func compileActionVerbPatterns(verbs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(verbs))
	for i, v := range verbs {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(v) + `\b`)
	}
	return out
}

// MinLengthConstraint passes when the trimmed prompt is at least
// minChars long.
func MinLengthConstraint(minChars int) Constraint {
	return func(prompt string) (bool, string) {
		length := len(strings.TrimSpace(prompt))
		if length >= minChars {
			return true, fmt.Sprintf("length %d >= %d", length, minChars)
		}
		return false, fmt.Sprintf("length %d < %d", length, minChars)
	}
}

// ActionVerbConstraint passes when the prompt contains at least one
// recognized action verb as a whole word, case-insensitive.
func ActionVerbConstraint(prompt string) (bool, string) {
	for i, pattern := range actionVerbPatterns {
		if pattern.MatchString(prompt) {
			return true, fmt.Sprintf("found action verb %q", actionVerbs[i])
		}
	}
	return false, "no recognized action verb found"
}

// JSONFormatConstraint passes when the prompt either isn't JSON-shaped
// (permissive) or, if it is, parses as valid JSON.
func JSONFormatConstraint(prompt string) (bool, string) {
	trimmed := strings.TrimSpace(prompt)
	looksLikeJSON := strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
	if !looksLikeJSON {
		return true, "not JSON-shaped, constraint is permissive"
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, "valid JSON"
}

// DefaultConstraints returns the three mandatory constraints (min
// length, action verbs, JSON format) keyed by name; the map carries no
// order, and New fixes the evaluation order separately.
func DefaultConstraints(minChars int) map[string]Constraint {
	if minChars <= 0 {
		minChars = DefaultMinChars
	}
	return map[string]Constraint{
		"min_length":  MinLengthConstraint(minChars),
		"action_verb": ActionVerbConstraint,
		"json_format": JSONFormatConstraint,
	}
}

// Validator scores prompts against a fixed set of named constraints
// and a pass/fail threshold.
type Validator struct {
	constraints map[string]Constraint
	// order preserves deterministic iteration for details and logging.
	order     []string
	threshold float64
}

// New builds a Validator. Additional constraints beyond the default
// three may be registered; the default three are always present for
// seed compatibility.
func New(threshold float64, extra map[string]Constraint) *Validator {
	constraints := DefaultConstraints(DefaultMinChars)
	order := []string{"min_length", "action_verb", "json_format"}
	for name, c := range extra {
		if _, exists := constraints[name]; !exists {
			order = append(order, name)
		}
		constraints[name] = c
	}
	return &Validator{constraints: constraints, order: order, threshold: threshold}
}

// Validate runs every registered constraint against prompt and returns
// the fraction passed as score, with passed = score >= threshold.
func (v *Validator) Validate(prompt string) ValidationResult {
	details := make(map[string]ConstraintResult, len(v.order))
	passedCount := 0
	for _, name := range v.order {
		ok, reason := v.constraints[name](prompt)
		details[name] = ConstraintResult{Passed: ok, Reason: reason}
		if ok {
			passedCount++
		}
	}
	score := 0.0
	if len(v.order) > 0 {
		score = float64(passedCount) / float64(len(v.order))
	}
	return ValidationResult{Score: score, Passed: score >= v.threshold, Details: details}
}

// calibrationData mirrors the offline bootstrap artifact's JSON shape.
type calibrationData struct {
	CalibratedThreshold float64 `json:"calibrated_threshold"`
}

// LoadCalibratedThreshold reads the threshold written by the offline
// calibration bootstrap, falling back to 0.7 when the file is absent
// or unreadable — the IFEval Validator must never fail to construct
// because calibration data hasn't been generated yet.
func LoadCalibratedThreshold(calibrationPath string) float64 {
	const fallback = 0.7
	data, err := os.ReadFile(calibrationPath)
	if err != nil {
		return fallback
	}
	var parsed calibrationData
	if err := json.Unmarshal(data, &parsed); err != nil {
		return fallback
	}
	if parsed.CalibratedThreshold <= 0 {
		return fallback
	}
	return parsed.CalibratedThreshold
}
