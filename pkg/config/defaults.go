package config

// DefaultServer is the built-in listener configuration used when the
// YAML file doesn't override it.
var DefaultServer = ServerConfig{
	Host: "0.0.0.0",
	Port: 8080,
}

// DefaultCatalog points at the bundled seed catalog shipped alongside
// the binary.
var DefaultCatalog = CatalogConfig{
	Path: "data/catalog.json",
}

// DefaultCalibration points at the offline-bootstrap calibration
// artifact; LoadCalibratedThreshold falls back to 0.7 when it's absent.
var DefaultCalibration = CalibrationConfig{
	Path: "data/calibration.json",
}

// DefaultLLMProvider leaves provider/model unset — llmclient.Deterministic
// is used until a real provider is configured.
var DefaultLLMProvider = LLMProviderConfig{
	Provider:       "none",
	Model:          "none",
	TimeoutSeconds: 30,
}

// DefaultPipeline mirrors the spec's NLaC-first default and the KNN
// Provider's typical few-shot breadth.
var DefaultPipeline = PipelineConfig{
	DefaultMode: "nlac",
	KNNDefaultK: 3,
}

// GetBuiltinConfig returns the complete set of built-in defaults,
// merged with user YAML by the loader.
func GetBuiltinConfig() BuiltinConfig {
	return BuiltinConfig{
		Server:      DefaultServer,
		Catalog:     DefaultCatalog,
		Calibration: DefaultCalibration,
		LLMProvider: DefaultLLMProvider,
		Pipeline:    DefaultPipeline,
	}
}

// BuiltinConfig groups the built-in defaults for merging against the
// loaded YAML document.
type BuiltinConfig struct {
	Server      ServerConfig
	Catalog     CatalogConfig
	Calibration CalibrationConfig
	LLMProvider LLMProviderConfig
	Pipeline    PipelineConfig
}
