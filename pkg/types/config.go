// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "craaper/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds settings for the LLM assessment call.
type AIConfig struct {
	// Model is the model identifier (e.g. "gpt-4-turbo-preview").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxOutputTokens caps the structured response size (default 1000).
	MaxOutputTokens int `json:"max_output_tokens" yaml:"max_output_tokens"`

	// Rates price the call for cost reporting.
	Rates Rates `json:"rates" yaml:"rates"`
}

// CacheConfig holds settings for the analysis cache.
type CacheConfig struct {
	// Dir is the cache directory. Empty selects the user cache directory
	// (e.g. ~/.cache/craaper).
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
}

// AnalyzeConfig groups everything the analyzer needs for a run.
type AnalyzeConfig struct {
	HTTPConfig `yaml:",inline"`
	AI         AIConfig    `json:"ai" yaml:"ai"`
	Cache      CacheConfig `json:"cache" yaml:"cache"`

	// FetchEnabled controls the best-effort page fetch used to enrich the
	// prompt with content from entry URLs.
	FetchEnabled bool `json:"fetch_enabled" yaml:"fetch_enabled"`
}
