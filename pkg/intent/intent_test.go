package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyExplainEnglish(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, Explain, c.Classify("explain how does recursion work", ""))
}

func TestClassifySpanishReviewKeywordsMapToExplain(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, Explain, c.Classify("necesito revisar y auditoría del sistema", ""))
	assert.Equal(t, Explain, c.Classify("analizar este código por favor", ""))
}

func TestClassifyDebug(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, Debug, c.Classify("fix this bug in the login flow", ""))
}

func TestClassifyRefactor(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, Refactor, c.Classify("refactor and clean up this module", ""))
}

func TestClassifyDefaultsToGenerate(t *testing.T) {
	c := NewClassifier()
	assert.Equal(t, Generate, c.Classify("write a new onboarding email", ""))
}

func TestClassifyPrecedenceExplainBeatsDebug(t *testing.T) {
	c := NewClassifier()
	// Contains both an EXPLAIN and a DEBUG keyword; EXPLAIN wins.
	assert.Equal(t, Explain, c.Classify("explain why this bug keeps happening", ""))
}

func TestClassifyWordBoundaryAvoidsSubstringMatch(t *testing.T) {
	c := NewClassifier()
	// Keywords match whole words only, so "error" inside "errorless"
	// does not count as a DEBUG keyword.
	assert.NotEqual(t, Debug, c.Classify("write an errorless greeting card", ""))
}
