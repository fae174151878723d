// Package config loads runtime configuration from the environment.
//
// A .env file in the working directory is honoured when present, matching
// common local-development setups. Process environment variables take
// precedence over .env values.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration for the assistant.
type Config struct {
	// LLM settings
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
	Model         string `envconfig:"CALCHAT_MODEL" default:"gpt-4o-mini"`

	// Calendar settings
	Account    string `envconfig:"CALCHAT_ACCOUNT" default:"default"`
	CalendarID string `envconfig:"CALCHAT_CALENDAR_ID" default:"primary"`
	TimeZone   string `envconfig:"CALCHAT_TIMEZONE" default:"UTC"`

	// OAuth settings. The scope list is configurable so deployments can
	// narrow access to read-only scopes.
	GoogleClientID     string   `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string   `envconfig:"GOOGLE_CLIENT_SECRET"`
	OAuthScopes        []string `envconfig:"CALCHAT_OAUTH_SCOPES"`

	// Agent loop settings
	MaxIterations    int           `envconfig:"CALCHAT_MAX_ITERATIONS" default:"10"`
	ToolTimeout      time.Duration `envconfig:"CALCHAT_TOOL_TIMEOUT" default:"30s"`
	SystemPromptFile string        `envconfig:"CALCHAT_SYSTEM_PROMPT_FILE"`
}

// Load reads configuration from a .env file (if present) and the process
// environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
