package vectorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigramVectorizerVocabularyIsInsertionOrdered(t *testing.T) {
	v := NewBigramVectorizer()
	v.Fit([]string{"ab", "bc"})
	assert.Equal(t, []string{"ab", "bc"}, v.vocab)
}

func TestBigramVectorizerVocabularyFreezesAfterFirstFit(t *testing.T) {
	v := NewBigramVectorizer()
	v.Fit([]string{"ab"})
	v.Fit([]string{"xy", "zz"})
	assert.Equal(t, []string{"ab"}, v.vocab)
}

func TestBigramVectorizerTransformIsL1Normalized(t *testing.T) {
	v := NewBigramVectorizer()
	v.Fit([]string{"aaa"})
	rows := v.Transform([]string{"aaa"})
	require.Len(t, rows, 1)
	sum := 0.0
	for _, c := range rows[0] {
		sum += c
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestBigramVectorizerZeroSumStaysZero(t *testing.T) {
	v := NewBigramVectorizer()
	v.Fit([]string{"ab"})
	rows := v.Transform([]string{"zzzz"})
	require.Len(t, rows, 1)
	for _, c := range rows[0] {
		assert.Equal(t, 0.0, c)
	}
}

func TestBigramVectorizerIsCaseInsensitive(t *testing.T) {
	v := NewBigramVectorizer()
	v.Fit([]string{"AB"})
	rows := v.Transform([]string{"ab"})
	assert.Equal(t, 1.0, rows[0][0])
}

func TestBigramVectorizerShortTextHasNoBigrams(t *testing.T) {
	v := NewBigramVectorizer()
	v.Fit([]string{"a", ""})
	assert.Equal(t, 0, v.Dim())
}

func TestVectorizeFitsOnceThenTransforms(t *testing.T) {
	v := NewBigramVectorizer()
	rows := Vectorize(v, []string{"hi there"})
	require.Len(t, rows, 1)
	assert.Greater(t, v.Dim(), 0)
}

func TestEmbeddingVectorizerFitIsNoOp(t *testing.T) {
	v := NewEmbeddingVectorizer(3, func(text string) []float64 { return []float64{1, 2, 3} })
	v.Fit([]string{"anything"})
	assert.Equal(t, 3, v.Dim())
	rows := v.Transform([]string{"x"})
	assert.Equal(t, []float64{1, 2, 3}, rows[0])
}
