package strategy

import (
	"context"
	"fmt"

	"github.com/nlacforge/promptimprove/pkg/intent"
	"github.com/nlacforge/promptimprove/pkg/knn"
	"github.com/nlacforge/promptimprove/pkg/llmclient"
)

// SimpleStrategy is the ultra-concise variant for trivial inputs: zero
// retrieval, tight length bound, and the only variant that appends a
// "..." suffix on hard truncation.
type SimpleStrategy struct {
	MaxLength int
	Client    llmclient.LLMClient
}

// NewSimpleStrategy returns a SimpleStrategy with an 800-char bound
// unless maxLength overrides it.
func NewSimpleStrategy(maxLength int, client llmclient.LLMClient) *SimpleStrategy {
	if maxLength <= 0 {
		maxLength = 800
	}
	return &SimpleStrategy{MaxLength: maxLength, Client: client}
}

func (s *SimpleStrategy) Name() string { return "simple" }

func (s *SimpleStrategy) Improve(ctx context.Context, originalIdea, userContext string) (Prediction, error) {
	if err := ValidateInputs(originalIdea); err != nil {
		return Prediction{}, err
	}
	draft := scaffold(originalIdea, userContext, "assistant",
		fmt.Sprintf("Answer directly and concisely: %s", originalIdea),
		"zero-shot", []string{"concise", "direct", "no_preamble"})
	result := refine(ctx, s.Client, draft)
	result.ImprovedPrompt = truncateAtSentence(result.ImprovedPrompt, s.MaxLength, true)
	return result, nil
}

// ModerateStrategy applies a chain-of-thought scaffold for inputs of
// middling complexity.
type ModerateStrategy struct {
	MaxLength int
	Client    llmclient.LLMClient
}

// NewModerateStrategy returns a ModerateStrategy with a 2000-char
// bound unless maxLength overrides it.
func NewModerateStrategy(maxLength int, client llmclient.LLMClient) *ModerateStrategy {
	if maxLength <= 0 {
		maxLength = 2000
	}
	return &ModerateStrategy{MaxLength: maxLength, Client: client}
}

func (s *ModerateStrategy) Name() string { return "moderate" }

func (s *ModerateStrategy) Improve(ctx context.Context, originalIdea, userContext string) (Prediction, error) {
	if err := ValidateInputs(originalIdea); err != nil {
		return Prediction{}, err
	}
	draft := scaffold(originalIdea, userContext, "assistant",
		fmt.Sprintf("Work through the request step by step before answering: %s", originalIdea),
		"chain-of-thought", []string{"step_by_step", "show_reasoning", "verify_before_answering"})
	result := refine(ctx, s.Client, draft)
	result.ImprovedPrompt = truncateAtSentence(result.ImprovedPrompt, s.MaxLength, false)
	return result, nil
}

// ComplexStrategy applies a few-shot scaffold enriched with exemplars
// retrieved from a KNN provider, for inputs with substantial technical
// or structural complexity.
type ComplexStrategy struct {
	MaxLength   int
	Client      llmclient.LLMClient
	KNNProvider *knn.Provider
	Classifier  *intent.Classifier
	K           int
}

// NewComplexStrategy returns a ComplexStrategy with a 5000-char bound
// unless maxLength overrides it. knnProvider may be nil — the
// strategy degrades to a plain scaffold when retrieval is unavailable.
func NewComplexStrategy(maxLength int, client llmclient.LLMClient, knnProvider *knn.Provider, k int) *ComplexStrategy {
	if maxLength <= 0 {
		maxLength = 5000
	}
	if k <= 0 {
		k = 3
	}
	return &ComplexStrategy{MaxLength: maxLength, Client: client, KNNProvider: knnProvider, Classifier: intent.NewClassifier(), K: k}
}

func (s *ComplexStrategy) Name() string { return "complex" }

func (s *ComplexStrategy) Improve(ctx context.Context, originalIdea, userContext string) (Prediction, error) {
	if err := ValidateInputs(originalIdea); err != nil {
		return Prediction{}, err
	}

	guardrails := []string{"decompose_task", "cite_assumptions", "include_examples"}
	directive := fmt.Sprintf("Break the request into sub-tasks, solve each with supporting examples, then synthesize: %s", originalIdea)

	draft := scaffold(originalIdea, userContext, "assistant", directive, "decomposition", guardrails)

	if s.KNNProvider != nil {
		detectedIntent := s.Classifier.Classify(originalIdea, userContext)
		result := s.KNNProvider.FindExamples(string(detectedIntent), "complex", s.K, false, originalIdea, 0)
		if examples, ok := result.Value(); ok && len(examples) > 0 {
			draft.ImprovedPrompt += "\n# Examples\n"
			for _, ex := range examples {
				draft.ImprovedPrompt += fmt.Sprintf("- %s -> %s\n", ex.InputIdea, ex.ImprovedPrompt)
			}
		}
	}

	result := refine(ctx, s.Client, draft)
	result.ImprovedPrompt = truncateAtSentence(result.ImprovedPrompt, s.MaxLength, false)
	return result, nil
}
