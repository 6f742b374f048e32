package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontoplan/ontoplan/pkg/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Ontology.Path = "../../pkg/ontology/testdata/ontology.yaml"
	return cfg
}

func TestBuildRuntimeWiresLayer(t *testing.T) {
	rt, err := buildRuntime(testConfig())
	require.NoError(t, err)

	assert.Len(t, rt.layer.Tools(), 8)
	assert.NotNil(t, rt.pipeline)
	assert.NotNil(t, rt.registry)
}

func TestBuildRuntimeRoutesNamedProviders(t *testing.T) {
	cfg := testConfig()
	cfg.Providers = map[string]config.LLMConfig{
		"local": {Model: "qwen2.5-coder", BaseURL: "http://localhost:11434/v1"},
	}
	cfg.Pipeline.PlannerProvider = "local"
	cfg.SetDefaults()

	_, err := buildRuntime(cfg)
	require.NoError(t, err)

	providers, err := buildProviders(cfg)
	require.NoError(t, err)
	local, err := providers.Provider("local")
	require.NoError(t, err)
	assert.Equal(t, "qwen2.5-coder", local.ModelName())

	fallback, err := providers.Provider(config.DefaultProviderName)
	require.NoError(t, err)
	assert.Equal(t, cfg.LLM.Model, fallback.ModelName())
}

func TestBuildRuntimeUnknownProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Pipeline.ExtractionProvider = "missing"

	_, err := buildRuntime(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}
