package metricsstore

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nlacforge/promptimprove/pkg/domainerr"
	"github.com/nlacforge/promptimprove/pkg/metrics"
)

// Repository persists and retrieves PromptMetrics. GetByID's Result
// carries a nil *metrics.PromptMetrics on Success to mean "no row
// found" — that is not itself a failure.
type Repository interface {
	Save(ctx context.Context, m metrics.PromptMetrics) domainerr.Result[struct{}]
	GetByID(ctx context.Context, promptID string) domainerr.Result[*metrics.PromptMetrics]
	GetAll(ctx context.Context, limit, offset int) domainerr.Result[[]metrics.PromptMetrics]
	GetByDateRange(ctx context.Context, from, to time.Time) domainerr.Result[[]metrics.PromptMetrics]
}

// PostgresRepository is the pgx-backed Repository implementation.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository wires a PostgresRepository onto an open Client.
func NewPostgresRepository(client *Client) *PostgresRepository {
	return &PostgresRepository{pool: client.Pool()}
}

const upsertSQL = `
INSERT INTO prompt_metrics (
	prompt_id, original_idea, improved_prompt,
	coherence_score, relevance_score, completeness_score, clarity_score,
	guardrails_count, has_required_structure,
	latency_ms, total_tokens, cost_usd,
	copy_count, regeneration_count, feedback_score, reuse_count,
	framework, provider, model, backend, measured_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
)
ON CONFLICT (prompt_id) DO UPDATE SET
	original_idea = EXCLUDED.original_idea,
	improved_prompt = EXCLUDED.improved_prompt,
	coherence_score = EXCLUDED.coherence_score,
	relevance_score = EXCLUDED.relevance_score,
	completeness_score = EXCLUDED.completeness_score,
	clarity_score = EXCLUDED.clarity_score,
	guardrails_count = EXCLUDED.guardrails_count,
	has_required_structure = EXCLUDED.has_required_structure,
	latency_ms = EXCLUDED.latency_ms,
	total_tokens = EXCLUDED.total_tokens,
	cost_usd = EXCLUDED.cost_usd,
	copy_count = EXCLUDED.copy_count,
	regeneration_count = EXCLUDED.regeneration_count,
	feedback_score = EXCLUDED.feedback_score,
	reuse_count = EXCLUDED.reuse_count,
	framework = EXCLUDED.framework,
	provider = EXCLUDED.provider,
	model = EXCLUDED.model,
	backend = EXCLUDED.backend,
	measured_at = EXCLUDED.measured_at
`

// Save upserts m by prompt_id.
func (r *PostgresRepository) Save(ctx context.Context, m metrics.PromptMetrics) domainerr.Result[struct{}] {
	measuredAt := m.MeasuredAt
	if measuredAt.IsZero() {
		measuredAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx, upsertSQL,
		m.PromptID, m.OriginalIdea, m.ImprovedPrompt,
		m.Quality.CoherenceScore, m.Quality.RelevanceScore, m.Quality.CompletenessScore, m.Quality.ClarityScore,
		m.Quality.GuardrailsCount, m.Quality.HasRequiredStructure,
		m.Performance.LatencyMS, m.Performance.TotalTokens, m.Performance.CostUSD,
		m.Impact.CopyCount, m.Impact.RegenerationCount, m.Impact.FeedbackScore, m.Impact.ReuseCount,
		string(m.Framework), m.Provider, m.Model, m.Backend, measuredAt,
	)
	if err != nil {
		return domainerr.Failure[struct{}](domainerr.MapDatabaseError(err, "save", "prompt_metrics", "PromptMetrics", m.PromptID).DomainError)
	}
	return domainerr.Success(struct{}{}, nil)
}

const selectColumns = `
	prompt_id, original_idea, improved_prompt,
	coherence_score, relevance_score, completeness_score, clarity_score,
	guardrails_count, has_required_structure,
	latency_ms, total_tokens, cost_usd,
	copy_count, regeneration_count, feedback_score, reuse_count,
	framework, provider, model, backend, measured_at
`

func scanRow(row pgx.Row) (metrics.PromptMetrics, error) {
	var m metrics.PromptMetrics
	var framework string
	err := row.Scan(
		&m.PromptID, &m.OriginalIdea, &m.ImprovedPrompt,
		&m.Quality.CoherenceScore, &m.Quality.RelevanceScore, &m.Quality.CompletenessScore, &m.Quality.ClarityScore,
		&m.Quality.GuardrailsCount, &m.Quality.HasRequiredStructure,
		&m.Performance.LatencyMS, &m.Performance.TotalTokens, &m.Performance.CostUSD,
		&m.Impact.CopyCount, &m.Impact.RegenerationCount, &m.Impact.FeedbackScore, &m.Impact.ReuseCount,
		&framework, &m.Provider, &m.Model, &m.Backend, &m.MeasuredAt,
	)
	if err != nil {
		return metrics.PromptMetrics{}, err
	}
	m.Framework = metrics.ParseFramework(framework)
	return m, nil
}

// GetByID returns the metrics row for promptID. A Success with a nil
// value means no row exists; that is not a failure.
func (r *PostgresRepository) GetByID(ctx context.Context, promptID string) domainerr.Result[*metrics.PromptMetrics] {
	row := r.pool.QueryRow(ctx, "SELECT "+selectColumns+" FROM prompt_metrics WHERE prompt_id = $1", promptID)
	m, err := scanRow(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domainerr.Success[*metrics.PromptMetrics](nil, nil)
		}
		return domainerr.Failure[*metrics.PromptMetrics](domainerr.MapDatabaseError(err, "get_by_id", "prompt_metrics", "PromptMetrics", promptID).DomainError)
	}
	return domainerr.Success(&m, nil)
}

// GetAll returns a page of metrics ordered most-recent-first.
func (r *PostgresRepository) GetAll(ctx context.Context, limit, offset int) domainerr.Result[[]metrics.PromptMetrics] {
	rows, err := r.pool.Query(ctx,
		"SELECT "+selectColumns+" FROM prompt_metrics ORDER BY measured_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return domainerr.Failure[[]metrics.PromptMetrics](domainerr.MapDatabaseError(err, "get_all", "prompt_metrics", "PromptMetrics", "").DomainError)
	}
	defer rows.Close()
	return collectRows(rows)
}

// GetByDateRange returns metrics measured within [from, to], ordered
// chronologically (ascending), suited for trend analysis.
func (r *PostgresRepository) GetByDateRange(ctx context.Context, from, to time.Time) domainerr.Result[[]metrics.PromptMetrics] {
	rows, err := r.pool.Query(ctx,
		"SELECT "+selectColumns+" FROM prompt_metrics WHERE measured_at BETWEEN $1 AND $2 ORDER BY measured_at ASC",
		from, to)
	if err != nil {
		return domainerr.Failure[[]metrics.PromptMetrics](domainerr.MapDatabaseError(err, "get_by_date_range", "prompt_metrics", "PromptMetrics", "").DomainError)
	}
	defer rows.Close()
	return collectRows(rows)
}

func collectRows(rows pgx.Rows) domainerr.Result[[]metrics.PromptMetrics] {
	var out []metrics.PromptMetrics
	for rows.Next() {
		m, err := scanRow(rows)
		if err != nil {
			return domainerr.Failure[[]metrics.PromptMetrics](domainerr.MapDatabaseError(err, "scan_row", "prompt_metrics", "PromptMetrics", "").DomainError)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return domainerr.Failure[[]metrics.PromptMetrics](domainerr.MapDatabaseError(err, "iterate_rows", "prompt_metrics", "PromptMetrics", "").DomainError)
	}
	return domainerr.Success(out, nil)
}
