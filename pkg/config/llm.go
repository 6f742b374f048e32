package config

import (
	"fmt"
	"os"
)

// LLMConfig configures the OpenAI-compatible chat provider behind the
// oracles.
type LLMConfig struct {
	// Model identifier (e.g. "gpt-4o").
	Model string `yaml:"model,omitempty"`

	// APIKey for authentication. Supports ${VAR} expansion.
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL overrides the default API endpoint; any OpenAI-compatible
	// host works.
	BaseURL string `yaml:"base_url,omitempty"`

	// Temperature for generation.
	Temperature *float64 `yaml:"temperature,omitempty"`

	// MaxTokens limits response length.
	MaxTokens int `yaml:"max_tokens,omitempty"`

	// Timeout is the HTTP timeout in seconds.
	Timeout int `yaml:"timeout,omitempty"`

	// MaxRetries bounds transport-level retries.
	MaxRetries int `yaml:"max_retries,omitempty"`

	// RetryDelay is the base retry backoff in seconds.
	RetryDelay int `yaml:"retry_delay,omitempty"`
}

// SetDefaults applies default values.
func (c *LLMConfig) SetDefaults() {
	if c.Model == "" {
		c.Model = "gpt-4o"
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Temperature == nil {
		t := 0.0
		c.Temperature = &t
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 4096
	}
	if c.Timeout == 0 {
		c.Timeout = 60
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = 2
	}
}

// Validate checks provider settings.
func (c *LLMConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("temperature %v out of range [0, 2]", *c.Temperature)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive")
	}
	return nil
}
