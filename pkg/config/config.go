// Package config loads and validates promptimprove's YAML+env
// configuration: server listener, catalog/calibration artifact paths,
// LLM provider selection, and pipeline defaults.
package config

// Config is the immutable, fully-resolved configuration returned by
// Initialize. It has no exported setters; Initialize is the only
// constructor.
type Config struct {
	configDir string

	Server      ServerConfig
	Catalog     CatalogConfig
	Calibration CalibrationConfig
	LLMProvider LLMProviderConfig
	Pipeline    PipelineConfig
}

// ConfigDir returns the directory Initialize loaded YAML from.
func (c *Config) ConfigDir() string { return c.configDir }

// Stats summarizes the loaded configuration for startup logging.
type Stats struct {
	DefaultMode string
	Provider    string
	Model       string
	KNNDefaultK int
}

// Stats returns configuration statistics for logging/monitoring.
func (c *Config) Stats() Stats {
	return Stats{
		DefaultMode: c.Pipeline.DefaultMode,
		Provider:    c.LLMProvider.Provider,
		Model:       c.LLMProvider.Model,
		KNNDefaultK: c.Pipeline.KNNDefaultK,
	}
}

// ValidatorThreshold resolves the configured IFEval pass threshold,
// falling back to the validator package's own calibration-driven
// default (nil means "use calibration file or 0.7").
func (c *Config) ValidatorThreshold() *float64 {
	return c.Pipeline.ValidatorThreshold
}
