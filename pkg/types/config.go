// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Every external call in the
	// pipeline goes through a client carrying this timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "research-assistant/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the paper repository adapter.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the maximum number of results to request (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// MemoryConfig holds settings for the memory store and query enrichment.
type MemoryConfig struct {
	// Path is the SQLite database file for the memory store
	// (e.g. "memory/research.db").
	Path string `json:"path" yaml:"path"`

	// RelevantLimit is the maximum number of memory entries used to
	// enrich a query (default 3).
	RelevantLimit int `json:"relevant_limit" yaml:"relevant_limit"`

	// Enrich controls whether queries are augmented with memory context
	// before searching. When false the enricher passes queries through
	// unchanged; memory is still recorded after successful searches.
	Enrich bool `json:"enrich" yaml:"enrich"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the sampling temperature for generation calls.
	// Formatting uses a low value (default 0.2) to favor deterministic
	// structure.
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// FormatConfig holds settings for the result formatter.
type FormatConfig struct {
	AIConfig `yaml:",inline"`

	// UseAI selects the generation path. When false, or when no API key
	// is configured, the deterministic fallback renders results.
	UseAI bool `json:"use_ai" yaml:"use_ai"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Search SearchConfig `json:"search" yaml:"search"`
	Memory MemoryConfig `json:"memory" yaml:"memory"`
	Format FormatConfig `json:"format" yaml:"format"`
}
