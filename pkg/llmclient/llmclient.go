// Package llmclient defines the boundary contract for the pluggable
// LLM provider used by the OPRO optimizer and the strategy family. The
// concrete provider wiring (HTTP, gRPC, SDK) is outside this module's
// scope — callers plug in whatever adapter fits their deployment.
package llmclient

import "context"

// LLMClient generates text from a prompt. Implementations are
// responsible for provider-specific auth, retries, and timeouts.
// The OPRO optimizer and the strategy family fall back to their
// deterministic paths on any Generate error; they do not tell
// deadline or connection failures apart from other errors, and no
// Generate error propagates out of them.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
}

// Deterministic is a zero-dependency LLMClient used when no real
// provider is configured — e.g. in tests, or as the fallback path the
// OPRO optimizer and strategy family use when Generate is unavailable.
// It never calls out; Generate always returns an error so callers fall
// through to their deterministic refinement logic.
type Deterministic struct{}

func (Deterministic) Generate(ctx context.Context, prompt string) (string, error) {
	return "", errNotConfigured
}

func (Deterministic) Provider() string { return "none" }
func (Deterministic) Model() string    { return "none" }

var errNotConfigured = &notConfiguredError{}

type notConfiguredError struct{}

func (*notConfiguredError) Error() string { return "llmclient: no provider configured" }
