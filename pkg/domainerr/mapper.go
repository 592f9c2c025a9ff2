package domainerr

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
)

// maxTraceLines bounds the stack trace attached to mapped errors to
// roughly 10 frames worth of text, matching the Python mapper's
// traceback.format_exc(limit=10).
const maxTraceLines = 10

func boundedTrace() string {
	lines := strings.SplitN(string(debug.Stack()), "\n", maxTraceLines*2+1)
	if len(lines) > maxTraceLines*2 {
		lines = lines[:maxTraceLines*2]
	}
	return strings.Join(lines, "\n")
}

// MapLLMError converts a raw error from an LLM provider call into an
// LLMProviderError, preserving provider/model/prompt-length context.
//
// context.DeadlineExceeded takes precedence over errors.Is(err, context.Canceled)
// checks a caller might also run, and is labeled "asyncio.TimeoutError" to
// keep parity with the Python source's label for both asyncio and builtin
// timeouts — see spec.md §9's open question on that collapse.
func MapLLMError(err error, provider, model string, promptLength int) LLMProviderError {
	var errorID, originalException string
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		errorID = LLMTimeout
		originalException = "asyncio.TimeoutError"
	case isConnectionError(err):
		errorID = LLMConnectionFailed
		originalException = "ConnectionError"
	case errors.Is(err, context.Canceled):
		errorID = LLMTimeout
		originalException = "asyncio.TimeoutError"
	default:
		errorID = LLMUnknownError
		originalException = "UnknownError"
	}

	ctx := map[string]string{
		"provider":            provider,
		"model":               model,
		"prompt_length":       strconv.Itoa(promptLength),
		"original_exception":  originalException,
		"traceback":           boundedTrace(),
	}

	de := New(CategoryLLMProvider, "LLM request failed: "+err.Error(), errorID, ctx)
	slog.Error("LLM error", "provider", provider, "model", model, "error_type", originalException,
		"error", err, "error_id", errorID)

	return LLMProviderError{DomainError: de, Provider: provider, Model: model, OriginalException: originalException}
}

// timeoutish is implemented by net.OpError and similar; we avoid importing
// net here and instead match on common sentinel-ish behavior via
// errors.As against the minimal interface below.
type timeoutish interface {
	Timeout() bool
}

func isConnectionError(err error) bool {
	var t timeoutish
	if errors.As(err, &t) {
		return !t.Timeout()
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection")
}

// MapCacheError converts a raw cache backend error into a CacheError.
// cacheKey is truncated to 8 characters in the context map, matching
// the Python mapper's logging convention.
func MapCacheError(err error, operation, cacheKey string) CacheError {
	errorID := CacheSetFailed
	originalException := "CacheError"
	if strings.Contains(strings.ToLower(err.Error()), "constraint") {
		errorID = CacheConstraintViolation
		originalException = "IntegrityError"
	}

	truncated := cacheKey
	if len(truncated) > 8 {
		truncated = truncated[:8]
	}

	ctx := map[string]string{
		"operation":           operation,
		"cache_key":           truncated,
		"original_exception":  originalException,
		"traceback":           boundedTrace(),
	}

	de := New(CategoryCacheOperation, "Cache "+operation+" failed: "+err.Error(), errorID, ctx)
	slog.Error("Cache error", "operation", operation, "cache_key", truncated, "error", err, "error_id", errorID)

	return CacheError{DomainError: de, CacheKey: cacheKey, Operation: operation}
}

// MapDatabaseError converts a raw database/sql or pgx error into a
// PersistenceError with a DATABASE category.
func MapDatabaseError(err error, operation, dbPath, entityType, queryContext string) PersistenceError {
	errorID := DBQueryFailed
	originalException := "UnknownDBError"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		errorID = DBOperationalError
		originalException = "OperationalError"
	case strings.Contains(strings.ToLower(err.Error()), "permission"):
		errorID = DBPermissionDenied
		originalException = "PermissionError"
	case strings.Contains(strings.ToLower(err.Error()), "corrupt"):
		errorID = DBCorruption
		originalException = "DatabaseError"
	}

	if len(queryContext) > 200 {
		queryContext = queryContext[:200]
	}

	ctx := map[string]string{
		"operation":           operation,
		"db_path":             dbPath,
		"original_exception":  originalException,
		"query_context":       queryContext,
		"traceback":           boundedTrace(),
	}

	de := New(CategoryDatabase, "Database "+operation+" failed: "+err.Error(), errorID, ctx)
	slog.Error("Database error", "operation", operation, "error", err, "error_id", errorID)

	return PersistenceError{DomainError: de, EntityType: entityType, Operation: operation}
}
