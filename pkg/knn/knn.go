// Package knn retrieves semantically similar few-shot exemplars from a
// catalog using cosine similarity over bigram vectors. It's the
// "memory" layer for the NLaC pipeline: real curated examples instead
// of bare templates.
package knn

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/nlacforge/promptimprove/pkg/catalog"
	"github.com/nlacforge/promptimprove/pkg/domainerr"
	"github.com/nlacforge/promptimprove/pkg/vectorizer"
)

// MinSimilarityThreshold is the default relevance cutoff. Character
// bigram similarity is coarser than embeddings, so the default is
// conservative.
const MinSimilarityThreshold = 0.1

// FewShotExample is a retrieval-facing view of a catalog.Exemplar.
type FewShotExample struct {
	InputIdea      string
	InputContext   string
	ImprovedPrompt string
	Role           string
	Directive      string
	Framework      string
	Guardrails     []string
	ExpectedOutput *string
	Metadata       map[string]any
}

func (e FewShotExample) HasExpectedOutput() bool { return e.ExpectedOutput != nil }

func fromExemplar(ex catalog.Exemplar) FewShotExample {
	return FewShotExample{
		InputIdea:      ex.InputIdea,
		InputContext:   ex.InputContext,
		ImprovedPrompt: ex.ImprovedPrompt,
		Role:           ex.Role,
		Directive:      ex.Directive,
		Framework:      ex.Framework,
		Guardrails:     ex.Guardrails,
		ExpectedOutput: ex.ExpectedOutput,
		Metadata:       ex.Metadata,
	}
}

var recognizedIntents = map[string]bool{
	"generate": true, "debug": true, "refactor": true, "explain": true,
}

var recognizedComplexities = map[string]bool{
	"simple": true, "moderate": true, "complex": true,
}

// FindMetadata carries the diagnostic fields find_examples_with_metadata
// returns in spec.md §4.3.
type FindMetadata struct {
	HighestSimilarity float64
	TotalCandidates   int
	MetThreshold      bool
	Empty             bool
}

// Provider answers semantic few-shot retrieval queries against a
// catalog loaded once at construction. Vectors for the full catalog are
// precomputed once; a filtered query reuses the cached rows of the
// filtered subset and vectorizes only the query text.
type Provider struct {
	catalog        []catalog.Exemplar
	vectorizer     *vectorizer.BigramVectorizer
	catalogVectors [][]float64
	defaultK       int
}

// FindResult bundles the retrieved exemplars with their diagnostic
// metadata — the payload carried by a successful find Result.
type FindResult struct {
	Examples []FewShotExample
	Meta     FindMetadata
}

// NewProvider loads a catalog through repo, builds the catalog (with
// the skip-rate policy from catalog.Load), fits a vectorizer on every
// idea in the catalog, and precomputes catalog vectors. The catalog's
// own degradation flags (e.g. "catalog_quality_degraded") are carried
// through onto the returned Result.
//
// defaultK is the retrieval width used when callers don't override k.
func NewProvider(repo catalog.Repository, defaultK int) domainerr.Result[*Provider] {
	loaded := catalog.Load(repo)
	cat, ok := loaded.Value()
	if !ok {
		derr, _ := loaded.Error()
		return domainerr.Failure[*Provider](derr)
	}

	vec := vectorizer.NewBigramVectorizer()
	ideas := make([]string, len(cat.Exemplars))
	for i, ex := range cat.Exemplars {
		ideas[i] = ex.InputIdea
	}
	vec.Fit(ideas)
	catalogVectors := vec.Transform(ideas)

	slog.Info("KNN provider initialized", "vocab_size", vec.Dim(), "catalog_size", len(cat.Exemplars))

	provider := &Provider{
		catalog:        cat.Exemplars,
		vectorizer:     vec,
		catalogVectors: catalogVectors,
		defaultK:       defaultK,
	}
	return domainerr.Success(provider, loaded.DegradationFlags())
}

// FindExamples retrieves up to k exemplars relevant to (intent,
// complexity, user_input). See spec.md §4.3 for the full algorithm.
func (p *Provider) FindExamples(intent, complexity string, k int, hasExpectedOutput bool, userInput string, minSimilarity float64) domainerr.Result[[]FewShotExample] {
	result := p.findExamples(intent, complexity, k, hasExpectedOutput, userInput, minSimilarity)
	found, ok := result.Value()
	if !ok {
		derr, _ := result.Error()
		return domainerr.Failure[[]FewShotExample](derr)
	}
	return domainerr.Success(found.Examples, result.DegradationFlags())
}

// FindExamplesWithMetadata is FindExamples plus the diagnostic fields
// spec.md §4.3 calls for.
func (p *Provider) FindExamplesWithMetadata(intent, complexity string, k int, hasExpectedOutput bool, userInput string, minSimilarity float64) domainerr.Result[FindResult] {
	return p.findExamples(intent, complexity, k, hasExpectedOutput, userInput, minSimilarity)
}

func (p *Provider) findExamples(intent, complexity string, k int, hasExpectedOutput bool, userInput string, minSimilarity float64) domainerr.Result[FindResult] {
	if !recognizedIntents[strings.ToLower(intent)] {
		return domainerr.Failure[FindResult](domainerr.New(domainerr.CategoryValidation,
			fmt.Sprintf("unrecognized intent %q", intent), domainerr.ValidationFailed, nil))
	}
	if !recognizedComplexities[strings.ToLower(complexity)] {
		return domainerr.Failure[FindResult](domainerr.New(domainerr.CategoryValidation,
			fmt.Sprintf("unrecognized complexity %q", complexity), domainerr.ValidationFailed, nil))
	}
	if k <= 0 {
		k = p.defaultK
	}
	if minSimilarity <= 0 {
		minSimilarity = MinSimilarityThreshold
	}

	candidates := p.catalog
	candidateVectors := p.catalogVectors
	if hasExpectedOutput {
		candidates = nil
		candidateVectors = nil
		for i, ex := range p.catalog {
			if ex.HasExpectedOutput() {
				candidates = append(candidates, ex)
				candidateVectors = append(candidateVectors, p.catalogVectors[i])
			}
		}
	}

	if len(candidates) == 0 {
		slog.Warn("no examples found", "reason", "catalog empty or filtered out")
		return domainerr.Success(FindResult{Meta: FindMetadata{Empty: true}}, nil)
	}

	queryParts := []string{strings.ToLower(intent), strings.ToLower(complexity)}
	if trimmed := strings.TrimSpace(userInput); trimmed != "" {
		queryParts = append(queryParts, trimmed)
	}
	queryText := strings.Join(queryParts, " ")

	// Candidate rows (filtered or not) come from the catalog-wide vector
	// cache; the vocabulary is frozen, so vectorizer.Transform gives the
	// query the same fixed dimension without needing a re-fit.
	queryVector := p.vectorizer.Transform([]string{queryText})[0]

	similarities := make([]float64, len(candidates))
	for i, vec := range candidateVectors {
		sim, bad := cosineSimilarity(vec, queryVector)
		if bad {
			return domainerr.Failure[FindResult](domainerr.New(domainerr.CategoryValidation,
				"similarity computation produced NaN or infinite value", domainerr.ValidationFailed, nil))
		}
		similarities[i] = sim
	}

	// Every returned exemplar must clear minSimilarity (spec.md §8) —
	// this gate runs unconditionally, even when there are k or fewer
	// candidates overall.
	highest := 0.0
	type scored struct {
		idx int
		sim float64
	}
	var relevant []scored
	for i, sim := range similarities {
		if sim > highest {
			highest = sim
		}
		if sim >= minSimilarity {
			relevant = append(relevant, scored{idx: i, sim: sim})
		}
	}

	if len(relevant) == 0 {
		slog.Warn("no examples met similarity threshold", "threshold", minSimilarity, "highest_similarity", highest)
		return domainerr.Success(FindResult{Meta: FindMetadata{HighestSimilarity: highest, TotalCandidates: len(candidates), MetThreshold: false, Empty: true}}, nil)
	}

	sortScoredDesc(relevant, func(a, b scored) bool { return a.sim > b.sim })
	if len(relevant) > k {
		relevant = relevant[:k]
	}

	out := make([]FewShotExample, len(relevant))
	for i, s := range relevant {
		out[i] = fromExemplar(candidates[s.idx])
	}

	return domainerr.Success(FindResult{Examples: out, Meta: FindMetadata{HighestSimilarity: highest, TotalCandidates: len(candidates), MetThreshold: true}}, nil)
}

// cosineSimilarity returns (dot / (|a|*|b|)), 0 for a zero-norm vector,
// and reports true if either vector contains NaN or ±Inf.
func cosineSimilarity(a, b []float64) (float64, bool) {
	var dot, normA, normB float64
	for i := range a {
		if math.IsNaN(a[i]) || math.IsInf(a[i], 0) || math.IsNaN(b[i]) || math.IsInf(b[i], 0) {
			return 0, true
		}
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	normA = math.Sqrt(normA)
	normB = math.Sqrt(normB)
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (normA * normB), false
}

func sortScoredDesc[T any](items []T, less func(a, b T) bool) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && less(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

// DescribeFailure reports a uniform (failed, message) pair for any KNN
// call site that needs to degrade gracefully instead of aborting —
// ported from the original retrieval layer's failure helper so every
// caller logs and narrates KNN outages the same way.
func DescribeFailure(context string, err error) (bool, string) {
	msg := fmt.Sprintf("KNN failure in %s: %v", context, err)
	slog.Error(msg, "context", context, "proceeding_without_examples", true)
	return true, msg
}
