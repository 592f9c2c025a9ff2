package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleMetrics(qualityScores []float64) []PromptMetrics {
	out := make([]PromptMetrics, len(qualityScores))
	for i, q := range qualityScores {
		out[i] = PromptMetrics{
			PromptID: "p",
			Quality:  QualityMetrics{CoherenceScore: q, RelevanceScore: q, CompletenessScore: q, ClarityScore: q},
		}
	}
	return out
}

func TestSummarizeEmptyBatchReturnsZeroSummary(t *testing.T) {
	a := NewAnalyzer()
	s := a.Summarize(nil)
	assert.Equal(t, 0, s.Count)
	assert.Empty(t, s.GradeDistribution)
}

func TestSummarizeComputesMeans(t *testing.T) {
	a := NewAnalyzer()
	batch := sampleMetrics([]float64{1.0, 0.5})
	s := a.Summarize(batch)
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 0.75, s.QualityMean, 0.001)
}

func TestAnalyzeTrendsSmallBatchIsStable(t *testing.T) {
	a := NewAnalyzer()
	r := a.AnalyzeTrends(sampleMetrics([]float64{0.2, 0.9}))
	assert.Equal(t, TrendStable, r.Quality)
}

func TestAnalyzeTrendsDetectsDecline(t *testing.T) {
	a := NewAnalyzer()
	batch := sampleMetrics([]float64{0.9, 0.9, 0.2, 0.2})
	r := a.AnalyzeTrends(batch)
	assert.Equal(t, TrendDeclining, r.Quality)
	assert.Contains(t, r.Recommendations[0], "quality is declining")
}

func TestCompareVersionsPicksTreatmentWinner(t *testing.T) {
	a := NewAnalyzer()
	baseline := sampleMetrics([]float64{0.3, 0.3})
	treatment := sampleMetrics([]float64{0.9, 0.9})
	result := a.CompareVersions(baseline, treatment)
	assert.Equal(t, "treatment", result.Winner)
	assert.Greater(t, result.QualityDelta, 0.0)
}

func TestCompareVersionsInconclusiveWithinMargin(t *testing.T) {
	a := NewAnalyzer()
	baseline := sampleMetrics([]float64{0.70, 0.70})
	treatment := sampleMetrics([]float64{0.705, 0.705})
	result := a.CompareVersions(baseline, treatment)
	assert.Equal(t, "inconclusive", result.Winner)
}
