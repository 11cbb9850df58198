// Package config provides configuration loading for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the file-backed configuration. All fields are optional;
// missing values fall back to defaults or CLI flags.
type Config struct {
	// Server
	ListenAddr  string `json:"listen_addr,omitempty"`  // host:port for the HTTP server
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Collaborator
	APIKey string `json:"api_key,omitempty"` // Gemini API key

	// Rendering
	Template           string `json:"template,omitempty"`             // default template preset id
	MaxBullets         int    `json:"max_bullets,omitempty"`          // bullets per role
	MaxBulletLength    int    `json:"max_bullet_length,omitempty"`    // characters per bullet
	MaxSummaryLength   int    `json:"max_summary_length,omitempty"`   // characters per role summary
	MaxObjectiveLength int    `json:"max_objective_length,omitempty"` // characters for the objective

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required fields
// are enforced later, after flag merging.
func (c *Config) Validate() error {
	if c.MaxBullets < 0 {
		return fmt.Errorf("config error: 'max_bullets' must be non-negative")
	}
	if c.MaxBulletLength < 0 {
		return fmt.Errorf("config error: 'max_bullet_length' must be non-negative")
	}
	if c.MaxSummaryLength < 0 {
		return fmt.Errorf("config error: 'max_summary_length' must be non-negative")
	}
	if c.MaxObjectiveLength < 0 {
		return fmt.Errorf("config error: 'max_objective_length' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a copy with zero-value fields filled in from
// defaults. Used to let a config file provide flag defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.ListenAddr == "" {
		result.ListenAddr = defaults.ListenAddr
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.MaxBullets == 0 {
		result.MaxBullets = defaults.MaxBullets
	}
	if result.MaxBulletLength == 0 {
		result.MaxBulletLength = defaults.MaxBulletLength
	}
	if result.MaxSummaryLength == 0 {
		result.MaxSummaryLength = defaults.MaxSummaryLength
	}
	if result.MaxObjectiveLength == 0 {
		result.MaxObjectiveLength = defaults.MaxObjectiveLength
	}

	return result
}
