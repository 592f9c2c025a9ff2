package nlac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlacforge/promptimprove/pkg/optimizer"
)

func TestStrategyImproveProducesPrediction(t *testing.T) {
	builder := NewBuilder(nil)
	opt := optimizer.New(nil, nil)
	s := NewStrategy(builder, opt)

	pred, err := s.Improve(context.Background(), "write a new onboarding flow for customers", "internal tool")
	require.NoError(t, err)
	assert.NotEmpty(t, pred.ImprovedPrompt)
	assert.Len(t, pred.Guardrails, 3)
	assert.Equal(t, "nlac", s.Name())
}

func TestStrategyImproveRejectsEmptyIdea(t *testing.T) {
	builder := NewBuilder(nil)
	opt := optimizer.New(nil, nil)
	s := NewStrategy(builder, opt)

	_, err := s.Improve(context.Background(), "  ", "")
	assert.Error(t, err)
}
