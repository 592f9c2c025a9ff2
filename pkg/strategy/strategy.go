// Package strategy implements the prompt improvement strategy family:
// three length-bounded legacy strategies and the shared truncation
// rule they apply to their output.
package strategy

import (
	"context"
	"fmt"
	"strings"

	"github.com/nlacforge/promptimprove/pkg/llmclient"
)

// truncationThresholdRatio gates whether a sentence/line boundary is
// close enough to max_length to prefer over a hard cut.
const truncationThresholdRatio = 0.7

// Prediction is the shared output shape every strategy produces.
type Prediction struct {
	ImprovedPrompt string
	Role           string
	Directive      string
	Framework      string
	Guardrails     []string
	Reasoning      string
	Confidence     float64
}

// PromptImproverStrategy is implemented by every strategy variant.
type PromptImproverStrategy interface {
	Improve(ctx context.Context, originalIdea, userContext string) (Prediction, error)
	Name() string
}

// ValidateInputs rejects a strategy call with a blank idea — the Go
// equivalent of the source's None/type check, since Go's type system
// already rules out a non-string argument.
func ValidateInputs(originalIdea string) error {
	if strings.TrimSpace(originalIdea) == "" {
		return fmt.Errorf("original_idea must be a non-empty string")
	}
	return nil
}

// truncateAtSentence cuts text to max_length, preferring to end at the
// last sentence boundary, then the last line boundary, each only if it
// falls after truncationThresholdRatio of max_length; otherwise a hard
// cut, with an optional "..." suffix.
func truncateAtSentence(text string, maxLength int, addSuffix bool) string {
	if len(text) <= maxLength {
		return text
	}
	truncated := text[:maxLength]
	threshold := float64(maxLength) * truncationThresholdRatio

	if lastPeriod := strings.LastIndexByte(truncated, '.'); float64(lastPeriod) > threshold {
		return truncated[:lastPeriod+1]
	}
	if lastNewline := strings.LastIndexByte(truncated, '\n'); float64(lastNewline) > threshold {
		return truncated[:lastNewline]
	}
	if addSuffix {
		return truncated + "..."
	}
	return truncated
}

// scaffold builds a deterministic draft Prediction from role/directive
// scaffolding, used as the base prompt before any LLM-backed
// refinement and as the whole answer when no LLMClient is configured.
func scaffold(originalIdea, context, role, directive, framework string, guardrails []string) Prediction {
	var b strings.Builder
	fmt.Fprintf(&b, "# Role\n%s\n\n# Directive\n%s\n\n", role, directive)
	fmt.Fprintf(&b, "# Task\n%s\n", originalIdea)
	if strings.TrimSpace(context) != "" {
		fmt.Fprintf(&b, "\n# Context\n%s\n", context)
	}
	if len(guardrails) > 0 {
		b.WriteString("\n# Guardrails\n")
		for _, g := range guardrails {
			fmt.Fprintf(&b, "- %s\n", g)
		}
	}
	return Prediction{
		ImprovedPrompt: b.String(),
		Role:           role,
		Directive:      directive,
		Framework:      framework,
		Guardrails:     guardrails,
	}
}

// refine calls client.Generate with a meta-prompt built from the
// scaffold when an LLMClient is configured, falling back to the
// scaffold unchanged on any client error or when client is nil —
// mirroring the OPRO optimizer's graceful degradation policy.
func refine(ctx context.Context, client llmclient.LLMClient, draft Prediction) Prediction {
	if client == nil {
		return draft
	}
	metaPrompt := "Improve the following prompt while keeping its role, directive, and guardrails intact:\n\n" + draft.ImprovedPrompt
	generated, err := client.Generate(ctx, metaPrompt)
	if err != nil || strings.TrimSpace(generated) == "" {
		return draft
	}
	draft.ImprovedPrompt = generated
	return draft
}
