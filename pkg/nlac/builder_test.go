package nlac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlacforge/promptimprove/pkg/catalog"
	"github.com/nlacforge/promptimprove/pkg/complexity"
	"github.com/nlacforge/promptimprove/pkg/intent"
	"github.com/nlacforge/promptimprove/pkg/knn"
)

func strp(s string) *string { return &s }

func testKNNProvider(t *testing.T) *knn.Provider {
	t.Helper()
	records := []catalog.RawExemplar{
		catalog.NewRawExemplar("refactor this legacy module", "ctx", "improved refactor prompt", "assistant", "", "", nil, strp("expected output"), nil),
		catalog.NewRawExemplar("write a new onboarding flow", "ctx", "improved generate prompt", "assistant", "", "", nil, nil, nil),
	}
	result := knn.NewProvider(&catalog.StaticRepository{Records: records}, 3)
	p, ok := result.Value()
	require.True(t, ok)
	return p
}

func TestBuildWithoutKNNProvider(t *testing.T) {
	b := NewBuilder(nil)
	obj := b.Build(Request{OriginalIdea: "write a function", Intent: intent.Generate, Complexity: complexity.Simple})
	assert.False(t, obj.Meta()["knn_enabled"].(bool))
	assert.Equal(t, 0, obj.Meta()["fewshot_count"].(int))
	assert.Equal(t, 800, obj.Constraints.MaxTokens)
}

func TestBuildWithKNNProviderInjectsExamples(t *testing.T) {
	b := NewBuilder(testKNNProvider(t))
	obj := b.Build(Request{OriginalIdea: "write a new onboarding flow", Intent: intent.Generate, Complexity: complexity.Moderate})
	assert.True(t, obj.Meta()["knn_enabled"].(bool))
	assert.Contains(t, obj.Template, "# Examples")
}

func TestBuildFiltersExpectedOutputForRefactor(t *testing.T) {
	b := NewBuilder(testKNNProvider(t))
	obj := b.Build(Request{OriginalIdea: "refactor this module", Intent: intent.Refactor, Complexity: complexity.Moderate})
	count, _ := obj.Meta()["fewshot_count"].(int)
	assert.LessOrEqual(t, count, 1)
}
