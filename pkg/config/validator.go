package config

import "fmt"

// Validator validates a loaded Config comprehensively with clear
// error messages.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll performs comprehensive validation, fail-fast at the
// first error.
func (v *Validator) ValidateAll() error {
	if err := v.validateServer(); err != nil {
		return fmt.Errorf("server validation failed: %w", err)
	}
	if err := v.validateCatalog(); err != nil {
		return fmt.Errorf("catalog validation failed: %w", err)
	}
	if err := v.validatePipeline(); err != nil {
		return fmt.Errorf("pipeline validation failed: %w", err)
	}
	return nil
}

func (v *Validator) validateServer() error {
	s := v.cfg.Server
	if s.Port < 1 || s.Port > 65535 {
		return NewValidationError("server.port", fmt.Errorf("%w: must be in [1,65535], got %d", ErrInvalidValue, s.Port))
	}
	return nil
}

func (v *Validator) validateCatalog() error {
	if v.cfg.Catalog.Path == "" {
		return NewValidationError("catalog.path", ErrMissingRequiredField)
	}
	return nil
}

func (v *Validator) validatePipeline() error {
	p := v.cfg.Pipeline
	if p.DefaultMode != "legacy" && p.DefaultMode != "nlac" {
		return NewValidationError("pipeline.default_mode", fmt.Errorf("%w: must be \"legacy\" or \"nlac\", got %q", ErrInvalidValue, p.DefaultMode))
	}
	if p.KNNDefaultK < 1 {
		return NewValidationError("pipeline.knn_default_k", fmt.Errorf("%w: must be >= 1, got %d", ErrInvalidValue, p.KNNDefaultK))
	}
	if p.ValidatorThreshold != nil && (*p.ValidatorThreshold < 0 || *p.ValidatorThreshold > 1) {
		return NewValidationError("pipeline.validator_threshold", fmt.Errorf("%w: must be in [0,1], got %f", ErrInvalidValue, *p.ValidatorThreshold))
	}
	return nil
}
