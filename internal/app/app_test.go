package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
component "audio.Oscillator" {
  version = 1

  property "inputs:frequency" {
    io      = "input"
    type    = "float"
    default = 440
  }
  property "outputs:value" {
    io   = "output"
    type = "float"
  }
}
`

const testGraph = `
graph "/World/graph" {
  node "osc" {
    type    = "audio.Oscillator"
    version = 1
  }
}
`

func writeTree(t *testing.T, manifest, graph string) *Config {
	t.Helper()
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "manifests")
	graphPath := filepath.Join(dir, "graphs")
	require.NoError(t, os.MkdirAll(manifestPath, 0o755))
	require.NoError(t, os.MkdirAll(graphPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(manifestPath, "components.hcl"), []byte(manifest), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(graphPath, "scene.hcl"), []byte(graph), 0o644))

	cfg, err := NewConfig(Config{
		GraphPath:    graphPath,
		ManifestPath: manifestPath,
		LogFormat:    "text",
		LogLevel:     "error",
	})
	require.NoError(t, err)
	return cfg
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{ManifestPath: "m"})
	assert.ErrorContains(t, err, "GraphPath")

	_, err = NewConfig(Config{GraphPath: "g"})
	assert.ErrorContains(t, err, "ManifestPath")

	cfg, err := NewConfig(Config{GraphPath: "g", ManifestPath: "m"})
	require.NoError(t, err)
	assert.Equal(t, "g", cfg.GraphPath)
}

func TestAppRun(t *testing.T) {
	t.Run("resolves a well-formed tree", func(t *testing.T) {
		cfg := writeTree(t, testManifest, testGraph)
		var out bytes.Buffer
		a := NewApp(&out, cfg)
		assert.Equal(t, 1, a.Registry().Len())
		assert.NoError(t, a.Run(context.Background(), cfg))
	})

	t.Run("bad manifest panics at startup", func(t *testing.T) {
		cfg := writeTree(t, `component "broken" {`, testGraph)
		var out bytes.Buffer
		assert.Panics(t, func() { NewApp(&out, cfg) })
	})

	t.Run("bad graph document fails Run", func(t *testing.T) {
		cfg := writeTree(t, testManifest, `graph "/g" {`)
		var out bytes.Buffer
		a := NewApp(&out, cfg)
		assert.Error(t, a.Run(context.Background(), cfg))
	})
}
