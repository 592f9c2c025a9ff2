package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeUsesBuiltinDefaultsWhenYAMLMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultServer.Port, cfg.Server.Port)
	assert.Equal(t, "nlac", cfg.Pipeline.DefaultMode)
}

func TestInitializeMergesPartialYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	yamlBody := "server:\n  port: 9090\npipeline:\n  default_mode: legacy\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "promptimprove.yaml"), []byte(yamlBody), 0o644))

	cfg, err := Initialize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "legacy", cfg.Pipeline.DefaultMode)
	assert.Equal(t, DefaultCatalog.Path, cfg.Catalog.Path)
}

func TestInitializeRejectsInvalidDefaultMode(t *testing.T) {
	dir := t.TempDir()
	yamlBody := "pipeline:\n  default_mode: bogus\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "promptimprove.yaml"), []byte(yamlBody), 0o644))

	_, err := Initialize(context.Background(), dir)
	assert.Error(t, err)
}

func TestInitializeRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "promptimprove.yaml"), []byte("server: [this is not a map"), 0o644))

	_, err := Initialize(context.Background(), dir)
	assert.Error(t, err)
}
