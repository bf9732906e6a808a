package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the runtime configuration read from the environment. The API
// key is the only credential; everything else has a workable default.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	Provider     string `env:"STUDYSCOUT_PROVIDER" envDefault:"gemini"`
	Model        string `env:"STUDYSCOUT_MODEL"`
	Endpoint     string `env:"STUDYSCOUT_ENDPOINT"`
	ConfigDir    string `env:"STUDYSCOUT_CONFIG_DIR"`
	Theme        string `env:"STUDYSCOUT_THEME"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
