package config

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
}

// CatalogConfig resolves where the exemplar catalog artifact lives.
type CatalogConfig struct {
	Path string `yaml:"path,omitempty"`
}

// CalibrationConfig resolves where the IFEval calibration artifact
// lives; missing/malformed files fall back to validator.LoadCalibratedThreshold's
// default of 0.7.
type CalibrationConfig struct {
	Path string `yaml:"path,omitempty"`
}

// LLMProviderConfig names the configured provider/model and the
// environment variable holding its API key. The concrete HTTP/SDK
// client is wired in cmd/promptimprove; this config only describes it.
type LLMProviderConfig struct {
	Provider       string `yaml:"provider,omitempty"`
	Model          string `yaml:"model,omitempty"`
	APIKeyEnv      string `yaml:"api_key_env,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty" validate:"omitempty,min=1"`
}

// PipelineConfig controls which strategy mode new requests use by
// default and KNN retrieval breadth.
type PipelineConfig struct {
	DefaultMode      string `yaml:"default_mode,omitempty"` // "legacy" | "nlac"
	KNNDefaultK      int    `yaml:"knn_default_k,omitempty" validate:"omitempty,min=1"`
	ValidatorThreshold *float64 `yaml:"validator_threshold,omitempty"`
}
