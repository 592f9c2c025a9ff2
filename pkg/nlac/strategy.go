package nlac

import (
	"context"
	"fmt"

	"github.com/nlacforge/promptimprove/pkg/complexity"
	"github.com/nlacforge/promptimprove/pkg/intent"
	"github.com/nlacforge/promptimprove/pkg/optimizer"
	"github.com/nlacforge/promptimprove/pkg/strategy"
)

// Strategy is the unified NLaC prompt improvement strategy: it builds
// a PromptObject via the Builder, runs it through the OPRO optimizer,
// then maps the OptimizeResponse into a strategy.Prediction.
//
// Strategy implements strategy.PromptImproverStrategy.
type Strategy struct {
	Builder    *Builder
	Optimizer  *optimizer.Optimizer
	Classifier *intent.Classifier
	Analyzer   *complexity.Analyzer
}

// NewStrategy wires the NLaC pipeline.
func NewStrategy(builder *Builder, opt *optimizer.Optimizer) *Strategy {
	return &Strategy{
		Builder:    builder,
		Optimizer:  opt,
		Classifier: intent.NewClassifier(),
		Analyzer:   complexity.NewAnalyzer(),
	}
}

func (s *Strategy) Name() string { return "nlac" }

// Improve classifies intent/complexity, builds a PromptObject, runs
// the OPRO loop, and maps the result into a strategy.Prediction.
func (s *Strategy) Improve(ctx context.Context, originalIdea, userContext string) (strategy.Prediction, error) {
	if err := strategy.ValidateInputs(originalIdea); err != nil {
		return strategy.Prediction{}, err
	}

	detectedIntent := s.Classifier.Classify(originalIdea, userContext)
	level, _, _ := s.Analyzer.Analyze(originalIdea, userContext)

	obj := s.Builder.Build(Request{
		OriginalIdea: originalIdea,
		Context:      userContext,
		Intent:       detectedIntent,
		Complexity:   level,
	})

	resp := s.Optimizer.RunLoop(ctx, obj)

	role, _ := obj.Meta()["role"].(string)
	framework := "decomposition"
	if level == complexity.Simple {
		framework = "chain-of-thought"
	}

	guardrails := []string{
		fmt.Sprintf("max_tokens=%d", obj.Constraints.MaxTokens),
		fmt.Sprintf("include_examples=%t", obj.Constraints.IncludeExamples),
		fmt.Sprintf("include_explanation=%t", obj.Constraints.IncludeExplanation),
	}

	return strategy.Prediction{
		ImprovedPrompt: resp.FinalInstruction,
		Role:           role,
		Directive:      fmt.Sprintf("nlac + %s", detectedIntent),
		Framework:      framework,
		Guardrails:     guardrails,
		Confidence:     resp.FinalScore,
	}, nil
}
