// Package domainerr implements the error taxonomy, Result type, and
// exception-to-domain mapping shared by every component in the
// improvement pipeline.
package domainerr

// ErrorIDs is the centralized Error ID registry. Every ID must be
// unique and match ^[A-Z]+-\d+$. IDs are assigned once and never
// reused, even if the condition they describe is later removed.
const (
	LLMConnectionFailed = "LLM-001"
	LLMTimeout          = "LLM-002"
	LLMUnknownError     = "LLM-003"

	CacheGetFailed           = "CACHE-001"
	CacheSetFailed           = "CACHE-002"
	CacheUpdateFailed        = "CACHE-003"
	CacheConstraintViolation = "CACHE-004"

	DataCorruptionMetrics    = "DATA-001"
	DataCorruptionGuardrails = "DATA-002"
	DataCorruptionCatalog    = "DATA-003"

	DBQueryFailed       = "DB-001"
	DBOperationalError  = "DB-002"
	DBCorruption        = "DB-003"
	DBPermissionDenied  = "DB-004"
	DBInitFailed        = "DB-005"
	DBMigrationFailed   = "DB-006"

	FileReadFailed       = "IO-001"
	FileNotFound         = "IO-002"
	FilePermissionDenied = "IO-003"
	FileUnicodeError     = "IO-004"

	ValidationFailed = "VAL-001"
)

// registry lists every Error ID ever minted, so the mapper and tests
// can assert that an emitted ID is a known one instead of a typo.
var registry = map[string]bool{
	LLMConnectionFailed: true,
	LLMTimeout:          true,
	LLMUnknownError:     true,

	CacheGetFailed:           true,
	CacheSetFailed:           true,
	CacheUpdateFailed:        true,
	CacheConstraintViolation: true,

	DataCorruptionMetrics:    true,
	DataCorruptionGuardrails: true,
	DataCorruptionCatalog:    true,

	DBQueryFailed:      true,
	DBOperationalError: true,
	DBCorruption:       true,
	DBPermissionDenied: true,
	DBInitFailed:       true,
	DBMigrationFailed:  true,

	FileReadFailed:       true,
	FileNotFound:         true,
	FilePermissionDenied: true,
	FileUnicodeError:     true,

	ValidationFailed: true,
}

// IsRegistered reports whether id was minted via this registry.
func IsRegistered(id string) bool {
	return registry[id]
}
