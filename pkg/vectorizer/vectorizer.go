// Package vectorizer turns text into numeric feature vectors for the
// KNN retrieval engine. The two modes (bigram, embedding) share one
// interface so the KNN provider never needs to know which is active.
package vectorizer

import "strings"

// Vectorizer fits a vocabulary from a text corpus (a no-op in embedding
// mode) and transforms texts into fixed-dimension vectors over that
// vocabulary.
type Vectorizer interface {
	Fit(texts []string) Vectorizer
	Transform(texts []string) [][]float64
	Dim() int
}

// Vectorize is the `__call__` equivalent: transform after fitting when
// the vectorizer hasn't seen a vocabulary yet.
func Vectorize(v Vectorizer, texts []string) [][]float64 {
	if v.Dim() == 0 {
		v.Fit(texts)
	}
	return v.Transform(texts)
}

// BigramVectorizer builds a fixed vocabulary of character bigrams from
// the first corpus it's fit on, in first-sight insertion order, then
// transforms texts into L1-normalized bigram count vectors.
type BigramVectorizer struct {
	vocab    []string
	vocabIdx map[string]int
}

// NewBigramVectorizer returns an unfit vectorizer; call Fit before
// Transform, or use Vectorize to do both in one call.
func NewBigramVectorizer() *BigramVectorizer {
	return &BigramVectorizer{vocabIdx: make(map[string]int)}
}

func (b *BigramVectorizer) Dim() int {
	return len(b.vocab)
}

// Fit builds the vocabulary once, in first-sight order across the
// whole corpus. Calling Fit again on an already-fit vectorizer is a
// no-op — per spec.md's Vectorizer State invariant, vocabulary never
// changes after the first fit.
func (b *BigramVectorizer) Fit(texts []string) Vectorizer {
	if len(b.vocab) > 0 {
		return b
	}
	for _, text := range texts {
		for _, bg := range bigrams(text) {
			if _, seen := b.vocabIdx[bg]; !seen {
				b.vocabIdx[bg] = len(b.vocab)
				b.vocab = append(b.vocab, bg)
			}
		}
	}
	return b
}

// Transform counts bigrams per text over the fixed vocabulary and
// L1-normalizes each row. Bigrams outside the vocabulary are ignored.
// A text with zero vocabulary bigrams transforms to an all-zero row.
func (b *BigramVectorizer) Transform(texts []string) [][]float64 {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		row := make([]float64, len(b.vocab))
		for _, bg := range bigrams(text) {
			if idx, ok := b.vocabIdx[bg]; ok {
				row[idx]++
			}
		}
		sum := 0.0
		for _, c := range row {
			sum += c
		}
		if sum > 0 {
			for i := range row {
				row[i] /= sum
			}
		}
		out[i] = row
	}
	return out
}

// bigrams enumerates all overlapping 2-rune windows of the lowercased
// text, e.g. "Hi!" -> ["hi", "i!"].
func bigrams(text string) []string {
	lower := strings.ToLower(text)
	runes := []rune(lower)
	if len(runes) < 2 {
		return nil
	}
	out := make([]string, 0, len(runes)-1)
	for i := 0; i < len(runes)-1; i++ {
		out = append(out, string(runes[i:i+2]))
	}
	return out
}

// EmbeddingVectorizer is a stub for a future dense-embedding backend.
// Fit is a no-op (embedding spaces are pretrained, not fit from the
// corpus); Transform delegates to an injected embed function so tests
// and callers can supply a deterministic stand-in.
type EmbeddingVectorizer struct {
	dim   int
	embed func(text string) []float64
}

// NewEmbeddingVectorizer wires a fixed dimension and an embedding
// function (e.g. a call to an external embedding service).
func NewEmbeddingVectorizer(dim int, embed func(text string) []float64) *EmbeddingVectorizer {
	return &EmbeddingVectorizer{dim: dim, embed: embed}
}

func (e *EmbeddingVectorizer) Dim() int { return e.dim }

func (e *EmbeddingVectorizer) Fit(texts []string) Vectorizer { return e }

func (e *EmbeddingVectorizer) Transform(texts []string) [][]float64 {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = e.embed(text)
	}
	return out
}
