// Package nlac implements the unified Natural-Language-as-Code
// pipeline: a Builder that assembles a PromptObject from a role/intent
// scaffold plus retrieved exemplars, and a Strategy that hands that
// PromptObject to the OPRO optimizer and maps the result back into a
// strategy.Prediction.
package nlac

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nlacforge/promptimprove/pkg/complexity"
	"github.com/nlacforge/promptimprove/pkg/intent"
	"github.com/nlacforge/promptimprove/pkg/knn"
	"github.com/nlacforge/promptimprove/pkg/promptobj"
)

// fewshotK is the number of exemplars the Builder retrieves per build.
const fewshotK = 3

// roleScaffolds gives each intent a default role header; a request can
// override this via Request.Role.
var roleScaffolds = map[intent.Type]string{
	intent.Generate: "a senior software engineer",
	intent.Debug:    "a meticulous debugger",
	intent.Refactor: "a refactoring specialist",
	intent.Explain:  "a clear technical explainer",
}

// Request is the Builder's input: the user's idea and context, plus
// the routing metadata already computed upstream.
type Request struct {
	OriginalIdea string
	Context      string
	Intent       intent.Type
	Complexity   complexity.Level
	Role         string
}

// Builder assembles template + retrieved exemplars + constraints into
// a PromptObject. KNNProvider is optional — when nil, the build
// proceeds without exemplars and records knn_enabled=false.
type Builder struct {
	KNNProvider *knn.Provider
}

// NewBuilder wires a Builder. knnProvider may be nil.
func NewBuilder(knnProvider *knn.Provider) *Builder {
	return &Builder{KNNProvider: knnProvider}
}

// Build assembles a PromptObject for req.
func (b *Builder) Build(req Request) promptobj.PromptObject {
	role := req.Role
	if role == "" {
		role = roleScaffolds[req.Intent]
		if role == "" {
			role = roleScaffolds[intent.Generate]
		}
	}

	var template strings.Builder
	fmt.Fprintf(&template, "# Role\nYou are %s.\n\n# Task\n%s\n", role, req.OriginalIdea)
	if strings.TrimSpace(req.Context) != "" {
		fmt.Fprintf(&template, "\n# Context\n%s\n", req.Context)
	}

	knnEnabled := b.KNNProvider != nil
	fewshotCount := 0

	if knnEnabled {
		hasExpectedOutput := req.Intent == intent.Refactor
		result := b.KNNProvider.FindExamples(string(req.Intent), string(req.Complexity), fewshotK, hasExpectedOutput, req.OriginalIdea, 0)
		examples, ok := result.Value()
		if !ok {
			derr, _ := result.Error()
			knn.DescribeFailure("nlac_builder", derr)
			knnEnabled = false
		} else if len(examples) > 0 {
			fewshotCount = len(examples)
			template.WriteString("\n# Examples\n")
			for _, ex := range examples {
				fmt.Fprintf(&template, "- Input: %s\n  Output: %s\n", ex.InputIdea, ex.ImprovedPrompt)
			}
		}
	}

	includeExamples := fewshotCount > 0
	maxTokens := maxTokensFor(req.Complexity)

	strategyMeta := map[string]any{
		"role":          role,
		"strategy":      "nlac",
		"intent":        string(req.Intent),
		"complexity":    string(req.Complexity),
		"knn_enabled":   knnEnabled,
		"fewshot_count": fewshotCount,
	}

	constraints := promptobj.Constraints{
		MaxTokens:          maxTokens,
		IncludeExamples:    includeExamples,
		IncludeExplanation: req.Intent == intent.Explain,
	}

	return promptobj.New(uuid.NewString(), "1.0.0", req.Intent, template.String(), strategyMeta, constraints)
}

func maxTokensFor(level complexity.Level) int {
	switch level {
	case complexity.Simple:
		return 800
	case complexity.Moderate:
		return 2000
	default:
		return 5000
	}
}
