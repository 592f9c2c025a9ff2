// Package optimizer implements the OPRO-style iterative refinement
// loop: evaluate, refine, re-evaluate, with early stopping once a
// candidate meets the quality threshold.
package optimizer

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/nlacforge/promptimprove/pkg/knn"
	"github.com/nlacforge/promptimprove/pkg/llmclient"
	"github.com/nlacforge/promptimprove/pkg/promptobj"
)

// MaxIterations bounds how many candidates run_loop will try.
const MaxIterations = 3

// QualityThreshold is the score at which a candidate is accepted early.
const QualityThreshold = 1.0

// OPROIteration is one trajectory entry.
type OPROIteration struct {
	IterationNumber      int
	MetaPromptUsed       string
	GeneratedInstruction string
	Score                float64
	Feedback             string
}

// KNNFailure summarizes KNN outages observed during candidate generation.
type KNNFailure struct {
	Count     int
	ErrorType string
}

// OptimizeResponse is the loop's final outcome.
type OptimizeResponse struct {
	PromptID        string
	FinalInstruction string
	FinalScore      float64
	IterationCount  int
	EarlyStopped    bool
	Trajectory      []OPROIteration
	KNNFailure      *KNNFailure
	Backend         string
	Model           string
}

// ImprovedPrompt is an alias for FinalInstruction, matching the
// source's response shape.
func (r OptimizeResponse) ImprovedPrompt() string { return r.FinalInstruction }

// Optimizer runs the refinement loop. Client and KNNProvider are both
// optional: without a client, refinement falls back to a deterministic
// transform; without a KNN provider, no exemplars are injected during
// refinement.
type Optimizer struct {
	Client      llmclient.LLMClient
	KNNProvider *knn.Provider
}

// New wires an Optimizer. Either dependency may be nil.
func New(client llmclient.LLMClient, knnProvider *knn.Provider) *Optimizer {
	return &Optimizer{Client: client, KNNProvider: knnProvider}
}

// RunLoop runs the algorithm in spec.md §4.9: iteration 1 evaluates the
// original template unchanged; iterations 2..MaxIterations evaluate a
// refined candidate; the loop stops early once a candidate meets
// QualityThreshold, otherwise it returns the best-scoring candidate
// after MaxIterations.
func (o *Optimizer) RunLoop(ctx context.Context, obj promptobj.PromptObject) OptimizeResponse {
	var trajectory []OPROIteration
	knnFailures := 0
	var knnErrorType string

	feedback := ""
	var best OPROIteration
	bestSet := false

	for i := 1; i <= MaxIterations; i++ {
		var candidate promptobj.PromptObject
		var metaPrompt string

		if i == 1 {
			candidate = obj
			metaPrompt = obj.Template
		} else {
			candidate, metaPrompt = o.generateCandidate(ctx, obj, feedback, &knnFailures, &knnErrorType)
		}

		score, fb := o.evaluate(candidate)
		feedback = fb
		iter := OPROIteration{
			IterationNumber:      i,
			MetaPromptUsed:       metaPrompt,
			GeneratedInstruction: candidate.Template,
			Score:                score,
			Feedback:             fb,
		}

		if score >= QualityThreshold {
			if i > 1 {
				trajectory = append(trajectory, iter)
			}
			return o.buildResponse(obj.ID, candidate.Template, score, i, true, trajectory, knnFailures, knnErrorType)
		}

		trajectory = append(trajectory, iter)
		if !bestSet || score > best.Score {
			best = iter
			bestSet = true
		}
	}

	return o.buildResponse(obj.ID, best.GeneratedInstruction, best.Score, MaxIterations, false, trajectory, knnFailures, knnErrorType)
}

func (o *Optimizer) buildResponse(promptID, finalInstruction string, finalScore float64, iterationCount int, earlyStopped bool, trajectory []OPROIteration, knnFailures int, knnErrorType string) OptimizeResponse {
	resp := OptimizeResponse{
		PromptID:         promptID,
		FinalInstruction: finalInstruction,
		FinalScore:       finalScore,
		IterationCount:   iterationCount,
		EarlyStopped:     earlyStopped,
		Trajectory:       trajectory,
	}
	if o.Client != nil {
		resp.Backend = "llm"
		resp.Model = o.Client.Model()
	} else {
		resp.Backend = "deterministic"
		resp.Model = "none"
	}
	if knnFailures > 0 {
		resp.KNNFailure = &KNNFailure{Count: knnFailures, ErrorType: knnErrorType}
	}
	return resp
}

// generateCandidate produces iteration i's candidate: an LLM-generated
// refinement when a client is configured, degrading to a deterministic
// refinement on any client failure, per the optimizer's graceful
// degradation policy.
func (o *Optimizer) generateCandidate(ctx context.Context, original promptobj.PromptObject, feedback string, knnFailures *int, knnErrorType *string) (promptobj.PromptObject, string) {
	metaPrompt := buildMetaPrompt(original, feedback)

	if o.Client != nil {
		generated, err := o.Client.Generate(ctx, metaPrompt)
		if err == nil && strings.TrimSpace(generated) != "" {
			return original.Refine(generated), metaPrompt
		}
		slog.Warn("OPRO LLM refinement failed, falling back to deterministic refinement", "error", err)
	}

	refined := o.simpleRefinement(original, feedback, knnFailures, knnErrorType)
	return original.Refine(refined), metaPrompt
}

func buildMetaPrompt(original promptobj.PromptObject, feedback string) string {
	var b strings.Builder
	b.WriteString("Improve this instruction based on feedback.\n\nOriginal instruction:\n")
	b.WriteString(original.Template)
	if feedback != "" {
		b.WriteString("\n\nFeedback from the last evaluation:\n")
		b.WriteString(feedback)
	}
	return b.String()
}

// simpleRefinement deterministically patches the template to satisfy
// whatever constraint the last evaluation flagged, adding missing
// structure or examples instead of calling an LLM. When the optimizer
// has a KNN provider wired and the template still needs an example, it
// retrieves one instead of emitting a placeholder; a retrieval failure
// is recorded via knnFailures/knnErrorType rather than aborting.
func (o *Optimizer) simpleRefinement(obj promptobj.PromptObject, feedback string, knnFailures *int, knnErrorType *string) string {
	template := obj.Template
	lowerFeedback := strings.ToLower(feedback)

	if obj.Constraints.Format != nil && strings.Contains(strings.ToLower(*obj.Constraints.Format), "code") && !hasCodeMarker(template) {
		template += "\n\n```\n// implementation goes here\n```"
	}
	if obj.Constraints.IncludeExamples && !strings.Contains(strings.ToLower(template), "example") {
		template += o.exampleSnippet(obj, knnFailures, knnErrorType)
	}
	if obj.Constraints.IncludeExplanation && !hasExplanationSentence(template) {
		template += "\n\nExplanation: this approach was chosen because it directly satisfies the stated requirements and is straightforward to verify."
	}
	if strings.Contains(lowerFeedback, "too long") && obj.Constraints.MaxTokens > 0 {
		if len(template) > obj.Constraints.MaxTokens {
			template = template[:obj.Constraints.MaxTokens]
		}
	}
	if len(strings.TrimSpace(template)) <= 50 {
		template += " Provide a complete, actionable response with concrete steps."
	}
	return template
}

// exampleSnippet retrieves a relevant exemplar via the optimizer's KNN
// provider; it degrades to a generic placeholder when no provider is
// wired or retrieval fails, recording the failure for KNNFailure.
func (o *Optimizer) exampleSnippet(obj promptobj.PromptObject, knnFailures *int, knnErrorType *string) string {
	if o.KNNProvider == nil {
		return "\n\nExample: demonstrate the expected output for a representative input."
	}
	result := o.KNNProvider.FindExamples(string(obj.IntentType), "moderate", 1, false, obj.Template, 0)
	examples, ok := result.Value()
	if !ok || len(examples) == 0 {
		*knnFailures++
		*knnErrorType = "retrieval_failed"
		return "\n\nExample: demonstrate the expected output for a representative input."
	}
	return "\n\nExample: " + examples[0].ImprovedPrompt
}

var codeMarkerPattern = regexp.MustCompile("```|<code>")

func hasCodeMarker(template string) bool {
	return codeMarkerPattern.MatchString(template)
}

// hasExplanationSentence checks for a sentence longer than 30 chars
// beyond the first sentence.
func hasExplanationSentence(template string) bool {
	sentences := strings.Split(template, ".")
	if len(sentences) <= 1 {
		return false
	}
	for _, s := range sentences[1:] {
		if len(strings.TrimSpace(s)) > 30 {
			return true
		}
	}
	return false
}

// evaluate scores a candidate against its own constraints, returning
// the fraction of applicable checks passed and a feedback string
// naming the first failing check.
func (o *Optimizer) evaluate(obj promptobj.PromptObject) (float64, string) {
	trimmed := strings.TrimSpace(obj.Template)

	checks := 0
	passed := 0
	var failures []string

	checks++
	if obj.Constraints.MaxTokens <= 0 || len(trimmed) <= obj.Constraints.MaxTokens {
		passed++
	} else {
		failures = append(failures, "template too long")
	}

	if obj.Constraints.Format != nil && strings.Contains(strings.ToLower(*obj.Constraints.Format), "code") {
		checks++
		if hasCodeMarker(trimmed) {
			passed++
		} else {
			failures = append(failures, "missing code block")
		}
	}

	if obj.Constraints.IncludeExamples {
		checks++
		if strings.Contains(strings.ToLower(trimmed), "example") {
			passed++
		} else {
			failures = append(failures, "missing example")
		}
	}

	if obj.Constraints.IncludeExplanation {
		checks++
		if hasExplanationSentence(trimmed) {
			passed++
		} else {
			failures = append(failures, "missing explanation")
		}
	}

	checks++
	if len(trimmed) > 50 {
		passed++
	} else {
		failures = append(failures, "basic quality")
	}

	score := float64(passed) / float64(checks)
	feedback := "all checks passed"
	if len(failures) > 0 {
		feedback = strings.Join(failures, "; ")
	}
	return score, feedback
}
