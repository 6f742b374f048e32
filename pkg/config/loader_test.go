package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
ontology:
  path: testdata/ontology.yaml
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("LLM.Model = %q, want default gpt-4o", cfg.LLM.Model)
	}
	if cfg.Pipeline.RelevanceBatchSize != 4 {
		t.Errorf("RelevanceBatchSize = %d, want 4", cfg.Pipeline.RelevanceBatchSize)
	}
	if cfg.Pipeline.RelevanceConcurrency != 4 {
		t.Errorf("RelevanceConcurrency = %d, want 4", cfg.Pipeline.RelevanceConcurrency)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Ontology.Path != "testdata/ontology.yaml" {
		t.Errorf("Ontology.Path = %q", cfg.Ontology.Path)
	}
}

func TestParseExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_ONTOPLAN_KEY", "sk-test-123")

	cfg, err := Parse([]byte(`
llm:
  api_key: ${TEST_ONTOPLAN_KEY}
  base_url: ${TEST_ONTOPLAN_HOST:-http://localhost:11434/v1}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LLM.APIKey != "sk-test-123" {
		t.Errorf("APIKey = %q, want expanded value", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("BaseURL = %q, want fallback default", cfg.LLM.BaseURL)
	}
}

func TestParseNamedProviders(t *testing.T) {
	cfg, err := Parse([]byte(`
providers:
  local:
    model: qwen2.5-coder
    base_url: http://localhost:11434/v1
pipeline:
  planner_provider: local
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	local, ok := cfg.Providers["local"]
	if !ok {
		t.Fatal("provider local missing")
	}
	if local.Model != "qwen2.5-coder" {
		t.Errorf("Model = %q", local.Model)
	}
	if local.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want defaulted 3", local.MaxRetries)
	}
	if cfg.Pipeline.PlannerProvider != "local" {
		t.Errorf("PlannerProvider = %q", cfg.Pipeline.PlannerProvider)
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "bad_port", yaml: "server:\n  port: 99999\n"},
		{name: "bad_temperature", yaml: "llm:\n  temperature: 3.5\n"},
		{name: "bad_batch_size", yaml: "pipeline:\n  relevance_batch_size: -1\n"},
		{name: "unknown_provider", yaml: "pipeline:\n  codegen_provider: missing\n"},
		{name: "reserved_provider_name", yaml: "providers:\n  default:\n    model: gpt-4o\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
llm:
  model: qwen2.5-coder
  base_url: http://localhost:11434/v1
ontology:
  path: /etc/ontoplan/ontology.yaml
logging:
  level: debug
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LLM.Model != "qwen2.5-coder" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
