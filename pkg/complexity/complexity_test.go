package complexity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeShortPlainIdeaIsSimple(t *testing.T) {
	a := NewAnalyzer()
	level, _, failed := a.Analyze("write a function", "")
	assert.False(t, failed)
	assert.Equal(t, Simple, level)
}

func TestAnalyzeTechnicalTermsPushTowardComplex(t *testing.T) {
	a := NewAnalyzer()
	level, _, failed := a.Analyze("design a pipeline architecture with metrics and api integration", "this is the system context, with components.")
	assert.False(t, failed)
	assert.NotEqual(t, Simple, level)
}

func TestAnalyzeWordBoundaryExcludesSubstringMatch(t *testing.T) {
	a := NewAnalyzer()
	// "api" must not match inside "capacity".
	level1, _, _ := a.Analyze("increase the capacity of the warehouse for the holiday season", "")
	level2, _, _ := a.Analyze("increase the api surface of the warehouse for the holiday season", "")
	assert.Equal(t, level1, Simple)
	assert.NotEqual(t, level1, level2)
}

func TestAnalyzeLongInputIsAutomaticallyComplex(t *testing.T) {
	a := NewAnalyzer()
	idea := strings.Repeat("a", 301)
	level, _, failed := a.Analyze(idea, "")
	assert.False(t, failed)
	assert.Equal(t, Complex, level)
}

func TestAnalyzeBoundaryJustUnderAutoComplexLength(t *testing.T) {
	a := NewAnalyzer()
	idea := strings.Repeat("a", 300)
	level, _, failed := a.Analyze(idea, "")
	assert.False(t, failed)
	// 300 exactly doesn't trigger the >300 auto-complex rule, but the
	// resulting length_score=1.0 alone isn't enough to reach COMPLEX
	// without other dimensions contributing.
	assert.NotEqual(t, "", string(level))
}

func TestAnalyzeContextPresencePushesScoreUp(t *testing.T) {
	a := NewAnalyzer()
	withoutContext, _, _ := a.Analyze("build a small tool", "")
	withContext, _, _ := a.Analyze("build a small tool", "some useful context here")
	assert.LessOrEqual(t, indexOf(withoutContext), indexOf(withContext))
}

func indexOf(l Level) int {
	switch l {
	case Simple:
		return 0
	case Moderate:
		return 1
	default:
		return 2
	}
}

func TestValidateRequiresBothFields(t *testing.T) {
	_, failed := Validate(false, true)
	assert.True(t, failed)

	_, failed = Validate(true, false)
	assert.True(t, failed)

	_, failed = Validate(true, true)
	assert.False(t, failed)
}
