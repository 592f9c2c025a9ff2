package metricsstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nlacforge/promptimprove/pkg/metrics"
)

// newTestRepository starts a throwaway Postgres container, applies the
// package's embedded migrations against it through NewClient, and
// returns a PostgresRepository backed by it.
func newTestRepository(t *testing.T) *PostgresRepository {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := Config{
		Host:            host,
		Port:            port.Int(),
		User:            "test",
		Password:        "test",
		Database:        "test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 15 * time.Minute,
	}

	client, err := NewClient(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return NewPostgresRepository(client)
}

func sampleMetrics(promptID string) metrics.PromptMetrics {
	feedback := 4
	return metrics.PromptMetrics{
		PromptID:       promptID,
		OriginalIdea:   "write a function",
		ImprovedPrompt: "You are an expert...",
		Quality: metrics.QualityMetrics{
			CoherenceScore:       0.9,
			RelevanceScore:       0.8,
			CompletenessScore:    0.85,
			ClarityScore:         0.95,
			GuardrailsCount:      2,
			HasRequiredStructure: true,
		},
		Performance: metrics.PerformanceMetrics{
			LatencyMS:   120,
			TotalTokens: 256,
			CostUSD:     0.002,
		},
		Impact: metrics.ImpactMetrics{
			CopyCount:         1,
			RegenerationCount: 0,
			FeedbackScore:     &feedback,
			ReuseCount:        3,
		},
		Framework:  metrics.FrameworkChainOfThought,
		Provider:   "openai",
		Model:      "gpt-4",
		Backend:    "legacy",
		MeasuredAt: time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
	}
}

// save(m); get_by_id(m.prompt_id) == m, the round-trip invariant
// spec.md's metrics repository contract requires.
func TestSaveThenGetByIDRoundTrips(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	m := sampleMetrics("prompt-roundtrip-1")
	saveResult := repo.Save(ctx, m)
	require.True(t, saveResult.IsSuccess())

	getResult := repo.GetByID(ctx, m.PromptID)
	got, ok := getResult.Value()
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, m.PromptID, got.PromptID)
	assert.Equal(t, m.OriginalIdea, got.OriginalIdea)
	assert.Equal(t, m.ImprovedPrompt, got.ImprovedPrompt)
	assert.Equal(t, m.Quality, got.Quality)
	assert.Equal(t, m.Performance, got.Performance)
	assert.Equal(t, m.Impact, got.Impact)
	assert.Equal(t, m.Framework, got.Framework)
	assert.Equal(t, m.Provider, got.Provider)
	assert.Equal(t, m.Model, got.Model)
	assert.Equal(t, m.Backend, got.Backend)
	assert.True(t, m.MeasuredAt.Equal(got.MeasuredAt))
}

func TestSaveUpsertsByPromptID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	m := sampleMetrics("prompt-upsert-1")
	require.True(t, repo.Save(ctx, m).IsSuccess())

	m.ImprovedPrompt = "a revised improved prompt"
	m.Quality.CoherenceScore = 0.5
	require.True(t, repo.Save(ctx, m).IsSuccess())

	result := repo.GetByID(ctx, m.PromptID)
	got, ok := result.Value()
	require.True(t, ok)
	require.NotNil(t, got)
	assert.Equal(t, "a revised improved prompt", got.ImprovedPrompt)
	assert.Equal(t, 0.5, got.Quality.CoherenceScore)
}

func TestGetByIDReturnsSuccessWithNilWhenNotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	result := repo.GetByID(ctx, "does-not-exist")
	got, ok := result.Value()
	require.True(t, ok)
	assert.Nil(t, got)
}

func TestGetAllOrdersMostRecentFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	older := sampleMetrics("prompt-older")
	older.MeasuredAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleMetrics("prompt-newer")
	newer.MeasuredAt = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	require.True(t, repo.Save(ctx, older).IsSuccess())
	require.True(t, repo.Save(ctx, newer).IsSuccess())

	result := repo.GetAll(ctx, 10, 0)
	batch, ok := result.Value()
	require.True(t, ok)
	require.Len(t, batch, 2)
	assert.Equal(t, "prompt-newer", batch[0].PromptID)
	assert.Equal(t, "prompt-older", batch[1].PromptID)
}

func TestGetByDateRangeOrdersChronologically(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	early := sampleMetrics("prompt-early")
	early.MeasuredAt = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	late := sampleMetrics("prompt-late")
	late.MeasuredAt = time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	outside := sampleMetrics("prompt-outside")
	outside.MeasuredAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.True(t, repo.Save(ctx, early).IsSuccess())
	require.True(t, repo.Save(ctx, late).IsSuccess())
	require.True(t, repo.Save(ctx, outside).IsSuccess())

	from := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)
	result := repo.GetByDateRange(ctx, from, to)
	batch, ok := result.Value()
	require.True(t, ok)
	require.Len(t, batch, 2)
	assert.Equal(t, "prompt-early", batch[0].PromptID)
	assert.Equal(t, "prompt-late", batch[1].PromptID)
}
