package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the complete promptimprove.yaml file structure.
// Every field is optional; unset fields fall back to the built-in
// defaults via mergo.
type YAMLConfig struct {
	Server      *ServerConfig      `yaml:"server"`
	Catalog     *CatalogConfig     `yaml:"catalog"`
	Calibration *CalibrationConfig `yaml:"calibration"`
	LLMProvider *LLMProviderConfig `yaml:"llm_provider"`
	Pipeline    *PipelineConfig    `yaml:"pipeline"`
}

// Initialize loads, validates, and returns ready-to-use configuration.
// This is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load promptimprove.yaml from configDir (tolerating a missing file)
//  2. Expand environment variables
//  3. Merge built-in defaults with user overrides
//  4. Validate the result
func Initialize(_ context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("initializing configuration")

	yamlCfg, err := loadYAMLConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg := mergeWithDefaults(configDir, yamlCfg)

	if err := NewValidator(cfg).ValidateAll(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("configuration initialized",
		"default_mode", stats.DefaultMode,
		"provider", stats.Provider,
		"model", stats.Model,
		"knn_default_k", stats.KNNDefaultK)

	return cfg, nil
}

// loadYAMLConfig reads promptimprove.yaml, returning a zero-value
// YAMLConfig (not an error) when the file doesn't exist — every field
// is optional and filled from built-in defaults.
func loadYAMLConfig(configDir string) (*YAMLConfig, error) {
	path := filepath.Join(configDir, "promptimprove.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &YAMLConfig{}, nil
		}
		return nil, err
	}

	data = ExpandEnv(data)

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return &cfg, nil
}

// mergeWithDefaults overlays user YAML onto the built-in defaults,
// field by field, so that a YAML document specifying only one setting
// doesn't zero out the rest.
func mergeWithDefaults(configDir string, yamlCfg *YAMLConfig) *Config {
	builtin := GetBuiltinConfig()

	server := builtin.Server
	if yamlCfg.Server != nil {
		_ = mergo.Merge(&server, *yamlCfg.Server, mergo.WithOverride)
	}

	catalog := builtin.Catalog
	if yamlCfg.Catalog != nil {
		_ = mergo.Merge(&catalog, *yamlCfg.Catalog, mergo.WithOverride)
	}

	calibration := builtin.Calibration
	if yamlCfg.Calibration != nil {
		_ = mergo.Merge(&calibration, *yamlCfg.Calibration, mergo.WithOverride)
	}

	llmProvider := builtin.LLMProvider
	if yamlCfg.LLMProvider != nil {
		_ = mergo.Merge(&llmProvider, *yamlCfg.LLMProvider, mergo.WithOverride)
	}

	pipeline := builtin.Pipeline
	if yamlCfg.Pipeline != nil {
		_ = mergo.Merge(&pipeline, *yamlCfg.Pipeline, mergo.WithOverride)
	}

	return &Config{
		configDir:   configDir,
		Server:      server,
		Catalog:     catalog,
		Calibration: calibration,
		LLMProvider: llmProvider,
		Pipeline:    pipeline,
	}
}
