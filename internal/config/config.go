// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Candidate Info
	ProfileID string `json:"profile_id,omitempty"` // Stored profile UUID for DB-based runs
	Name      string `json:"name,omitempty"`       // Candidate name
	Summary   string `json:"summary,omitempty"`    // Candidate profile summary
	Email     string `json:"email,omitempty"`      // Candidate email
	Phone     string `json:"phone,omitempty"`      // Candidate phone

	// Generation
	Kind         string   `json:"kind,omitempty"`         // Document kind: cover_letter, executive_summary, interview_prep
	Language     string   `json:"language,omitempty"`     // Output language: en or da
	Documents    []string `json:"documents,omitempty"`    // Paths to source document files
	Instructions string   `json:"instructions,omitempty"` // Custom style instructions

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty"`         // HTTP server port
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

// validKinds and validLanguages mirror the closed sets the generator
// accepts; catching typos here beats a late validation error mid-run.
var validKinds = map[string]bool{
	"cover_letter":      true,
	"executive_summary": true,
	"interview_prep":    true,
}

var validLanguages = map[string]bool{"en": true, "da": true}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Kind != "" && !validKinds[c.Kind] {
		return fmt.Errorf("config error: unknown kind %q", c.Kind)
	}
	if c.Language != "" && !validLanguages[c.Language] {
		return fmt.Errorf("config error: unknown language %q", c.Language)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	// Validate file paths exist (if specified)
	for _, doc := range c.Documents {
		if _, err := os.Stat(doc); os.IsNotExist(err) {
			return fmt.Errorf("config error: document file not found: %s", doc)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.ProfileID == "" {
		result.ProfileID = defaults.ProfileID
	}
	if result.Name == "" {
		result.Name = defaults.Name
	}
	if result.Summary == "" {
		result.Summary = defaults.Summary
	}
	if result.Email == "" {
		result.Email = defaults.Email
	}
	if result.Phone == "" {
		result.Phone = defaults.Phone
	}
	if result.Kind == "" {
		result.Kind = defaults.Kind
	}
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.Instructions == "" {
		result.Instructions = defaults.Instructions
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if len(result.Documents) == 0 {
		result.Documents = defaults.Documents
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
