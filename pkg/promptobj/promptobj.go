// Package promptobj defines the PromptObject the NLaC Builder produces
// and the OPRO Optimizer refines. It is deliberately dependency-light
// so both packages can depend on it without forming a cycle.
package promptobj

import (
	"time"

	"github.com/nlacforge/promptimprove/pkg/intent"
)

// Constraints bound how a candidate template must be shaped.
type Constraints struct {
	MaxTokens          int
	Format             *string
	IncludeExamples    bool
	IncludeExplanation bool
}

// PromptObject is immutable after construction; Refine returns a new
// instance rather than mutating the receiver.
type PromptObject struct {
	ID           string
	Version      string
	IntentType   intent.Type
	Template     string
	StrategyMeta map[string]any
	Constraints  Constraints
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New builds a PromptObject, copying strategyMeta so the caller can't
// mutate it afterward.
func New(id, version string, intentType intent.Type, template string, strategyMeta map[string]any, constraints Constraints) PromptObject {
	now := time.Now().UTC()
	return PromptObject{
		ID:           id,
		Version:      version,
		IntentType:   intentType,
		Template:     template,
		StrategyMeta: copyMeta(strategyMeta),
		Constraints:  constraints,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Refine returns a new PromptObject with an updated template and a
// fresh UpdatedAt, leaving the receiver untouched.
func (p PromptObject) Refine(template string) PromptObject {
	cp := p
	cp.Template = template
	cp.StrategyMeta = copyMeta(p.StrategyMeta)
	cp.UpdatedAt = time.Now().UTC()
	return cp
}

// Meta returns a copy of the strategy metadata map.
func (p PromptObject) Meta() map[string]any {
	return copyMeta(p.StrategyMeta)
}

func copyMeta(m map[string]any) map[string]any {
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}
