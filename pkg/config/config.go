// Package config defines the application configuration: LLM provider
// settings, ontology source, pipeline tuning, logging, and the HTTP
// surface. Config is loaded from YAML with environment variable expansion.
package config

import "fmt"

// Config is the root configuration document.
type Config struct {
	LLM      LLMConfig      `yaml:"llm,omitempty"`
	Ontology OntologyConfig `yaml:"ontology,omitempty"`
	Pipeline PipelineConfig `yaml:"pipeline,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Server   ServerConfig   `yaml:"server,omitempty"`

	// Providers holds additional named LLM provider configurations.
	// Pipeline stages reference them by name; the "default" name is
	// reserved for the top-level llm section.
	Providers map[string]LLMConfig `yaml:"providers,omitempty"`
}

// DefaultProviderName is the registry name of the top-level llm section.
const DefaultProviderName = "default"

// OntologyConfig points at the ontology source: a YAML file or a directory
// of fragments.
type OntologyConfig struct {
	Path string `yaml:"path,omitempty"`
}

// PipelineConfig tunes the grounding and planning stages.
type PipelineConfig struct {
	// RelevanceBatchSize is the number of candidate relations per oracle
	// classification call.
	RelevanceBatchSize int `yaml:"relevance_batch_size,omitempty"`

	// RelevanceConcurrency bounds how many classification batches are in
	// flight at once.
	RelevanceConcurrency int `yaml:"relevance_concurrency,omitempty"`

	// OracleTimeout is the per-oracle-call timeout in seconds.
	OracleTimeout int `yaml:"oracle_timeout,omitempty"`

	// ExtractionProvider selects a named provider for query understanding.
	// Empty means the default llm provider. The remaining fields do the
	// same for the other oracle-backed stages.
	ExtractionProvider string `yaml:"extraction_provider,omitempty"`
	RelevanceProvider  string `yaml:"relevance_provider,omitempty"`
	PlannerProvider    string `yaml:"planner_provider,omitempty"`
	CodegenProvider    string `yaml:"codegen_provider,omitempty"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`
}

// SetDefaults applies default values to every section.
func (c *Config) SetDefaults() {
	c.LLM.SetDefaults()
	for name, provider := range c.Providers {
		provider.SetDefaults()
		c.Providers[name] = provider
	}

	if c.Ontology.Path == "" {
		c.Ontology.Path = "ontology.yaml"
	}
	if c.Pipeline.RelevanceBatchSize == 0 {
		c.Pipeline.RelevanceBatchSize = 4
	}
	if c.Pipeline.RelevanceConcurrency == 0 {
		c.Pipeline.RelevanceConcurrency = 4
	}
	if c.Pipeline.OracleTimeout == 0 {
		c.Pipeline.OracleTimeout = 60
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	for name, provider := range c.Providers {
		if name == DefaultProviderName {
			return fmt.Errorf("providers: %q is reserved for the llm section", DefaultProviderName)
		}
		if err := provider.Validate(); err != nil {
			return fmt.Errorf("providers.%s: %w", name, err)
		}
	}
	stageProviders := []struct {
		field string
		name  string
	}{
		{"extraction_provider", c.Pipeline.ExtractionProvider},
		{"relevance_provider", c.Pipeline.RelevanceProvider},
		{"planner_provider", c.Pipeline.PlannerProvider},
		{"codegen_provider", c.Pipeline.CodegenProvider},
	}
	for _, sp := range stageProviders {
		if sp.name == "" || sp.name == DefaultProviderName {
			continue
		}
		if _, ok := c.Providers[sp.name]; !ok {
			return fmt.Errorf("pipeline: %s references unknown provider %q", sp.field, sp.name)
		}
	}
	if c.Ontology.Path == "" {
		return fmt.Errorf("ontology: path is required")
	}
	if c.Pipeline.RelevanceBatchSize < 1 {
		return fmt.Errorf("pipeline: relevance_batch_size must be positive")
	}
	if c.Pipeline.RelevanceConcurrency < 1 {
		return fmt.Errorf("pipeline: relevance_concurrency must be positive")
	}
	if c.Pipeline.OracleTimeout < 1 {
		return fmt.Errorf("pipeline: oracle_timeout must be positive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: port %d out of range", c.Server.Port)
	}
	return nil
}
