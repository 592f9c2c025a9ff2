package domainerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultSuccessXorFailure(t *testing.T) {
	ok := Success(42, map[string]bool{"knn_disabled": true})
	failed := Failure[int](New(CategoryValidation, "bad input", ValidationFailed, nil))

	assert.True(t, ok.IsSuccess())
	assert.False(t, ok.IsFailure())
	assert.True(t, failed.IsFailure())
	assert.False(t, failed.IsSuccess())

	v, ok2 := ok.Value()
	assert.True(t, ok2)
	assert.Equal(t, 42, v)

	_, ok3 := failed.Value()
	assert.False(t, ok3)

	_, hasErr := ok.Error()
	assert.False(t, hasErr)

	e, hasErr2 := failed.Error()
	assert.True(t, hasErr2)
	assert.Equal(t, ValidationFailed, e.ErrorID())
}

func TestResultDegradationFlagsAreCopied(t *testing.T) {
	flags := map[string]bool{"knn_disabled": true}
	r := Success("value", flags)
	flags["knn_disabled"] = false

	got := r.DegradationFlags()
	assert.True(t, got["knn_disabled"], "mutating the caller's map must not affect the Result")
}

func TestErrorIDsAreRegistered(t *testing.T) {
	ids := []string{
		LLMConnectionFailed, LLMTimeout, LLMUnknownError,
		CacheGetFailed, CacheSetFailed, CacheUpdateFailed, CacheConstraintViolation,
		DataCorruptionMetrics, DataCorruptionGuardrails, DataCorruptionCatalog,
		DBQueryFailed, DBOperationalError, DBCorruption, DBPermissionDenied, DBInitFailed, DBMigrationFailed,
		FileReadFailed, FileNotFound, FilePermissionDenied, FileUnicodeError,
		ValidationFailed,
	}
	for _, id := range ids {
		assert.True(t, IsRegistered(id), "id %s should be registered", id)
	}
	assert.False(t, IsRegistered("BOGUS-999"))
}

func TestDomainErrorToMapHoistsContext(t *testing.T) {
	de := New(CategoryFileIO, "not found", FileNotFound, map[string]string{"path": "/tmp/x.json"})
	m := de.ToMap()
	assert.Equal(t, "file_io", m["category"])
	assert.Equal(t, FileNotFound, m["error_id"])
	assert.Equal(t, "/tmp/x.json", m["path"])
}
