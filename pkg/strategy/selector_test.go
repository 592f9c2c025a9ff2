package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacySelectorRoutesByComplexity(t *testing.T) {
	result := NewLegacySelector(NewSimpleStrategy(0, nil), NewModerateStrategy(0, nil), NewComplexStrategy(0, nil, nil, 0))
	sel, ok := result.Value()
	require.True(t, ok)

	chosen, err := sel.Select("hi", "")
	require.NoError(t, err)
	assert.Equal(t, "simple", chosen.Name())
}

func TestLegacySelectorFallsBackWhenComplexDisabled(t *testing.T) {
	result := NewLegacySelector(NewSimpleStrategy(0, nil), NewModerateStrategy(0, nil), nil)
	sel, ok := result.Value()
	require.True(t, ok)
	assert.True(t, sel.DegradationFlags()["complex_strategy_disabled"])
	assert.True(t, result.DegradationFlags()["complex_strategy_disabled"])

	longIdea := "design a pipeline architecture with metrics and api integration across multiple components and domains, this needs careful structure and context, with many commas, clauses, and sentences."
	chosen, err := sel.Select(longIdea, "plenty of context here as well to push complexity up further")
	require.NoError(t, err)
	assert.Equal(t, "moderate", chosen.Name())
}

func TestNLaCSelectorAlwaysReturnsUnifiedStrategy(t *testing.T) {
	stub := &stubStrategy{}
	result := NewNLaCSelector(stub, true)
	sel, ok := result.Value()
	require.True(t, ok)
	assert.True(t, sel.DegradationFlags()["knn_disabled"])

	chosen, err := sel.Select("anything at all", "")
	require.NoError(t, err)
	assert.Same(t, PromptImproverStrategy(stub), chosen)
}

type stubStrategy struct{}

func (s *stubStrategy) Improve(ctx context.Context, originalIdea, userContext string) (Prediction, error) {
	return Prediction{ImprovedPrompt: "stub"}, nil
}

func (s *stubStrategy) Name() string { return "nlac" }
