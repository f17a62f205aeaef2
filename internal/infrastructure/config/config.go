// Package config provides project configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/madnessandcourage/fantranslate/internal/domain/entities"
)

const (
	// DefaultProjectFile is the project settings file name.
	DefaultProjectFile = "project.yml"
	// DefaultCharactersFile is the character collection snapshot file name.
	DefaultCharactersFile = "characters.json"
)

// Config holds the project settings read from project.yml.
type Config struct {
	// Languages are the translation target codes. TranslateFrom must not
	// appear here; TranslateTo must.
	Languages     []string `yaml:"languages" validate:"required,min=1,dive,required"`
	TranslateFrom string   `yaml:"translate_from" validate:"required"`
	TranslateTo   string   `yaml:"translate_to" validate:"required"`

	AI AIConfig `yaml:"ai,omitempty"`
}

// AIConfig holds configuration for the AI collaborator.
type AIConfig struct {
	BaseURL string `yaml:"base_url,omitempty" validate:"omitempty,url"`
	Model   string `yaml:"model,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
	// TimeoutSeconds bounds each AI round-trip.
	TimeoutSeconds int `yaml:"timeout,omitempty" validate:"omitempty,min=1,max=3600"`
	// RequestsPerMinute throttles calls client-side.
	RequestsPerMinute int `yaml:"requests_per_minute,omitempty" validate:"omitempty,min=1"`
}

// Default returns a Config with default AI settings and no languages.
func Default() *Config {
	return &Config{
		AI: AIConfig{
			BaseURL:           "https://openrouter.ai/api/v1",
			Model:             "openai/gpt-4o-mini",
			TimeoutSeconds:    120,
			RequestsPerMinute: 30,
		},
	}
}

// Load reads project.yml from the given directory, applies defaults and
// environment overrides, and validates the result.
func Load(basePath string) (*Config, error) {
	projectFile := filepath.Join(basePath, DefaultProjectFile)

	data, err := os.ReadFile(projectFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s not found in %s", DefaultProjectFile, basePath)
	}
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing project file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" && c.AI.APIKey == "" {
		c.AI.APIKey = key
	}
	if model := os.Getenv("DEFAULT_AI_MODEL"); model != "" {
		c.AI.Model = model
	}
}

// Validate checks struct tags plus the cross-field language rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validating project file: %w", err)
	}
	for _, lang := range c.Languages {
		if lang == c.TranslateFrom {
			return fmt.Errorf("'translate_from' (%s) must not be in 'languages'", c.TranslateFrom)
		}
	}
	for _, lang := range c.Languages {
		if lang == c.TranslateTo {
			return nil
		}
	}
	return fmt.Errorf("'translate_to' (%s) must be in 'languages'", c.TranslateTo)
}

// ProjectLanguages returns the language setup for building collections.
func (c *Config) ProjectLanguages() entities.Languages {
	return entities.Languages{
		Original:     c.TranslateFrom,
		Translations: c.Languages,
	}
}

// CharactersFilePath returns the collection snapshot path for a project.
func CharactersFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultCharactersFile)
}
