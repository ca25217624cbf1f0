package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the environment-driven configuration shared by the CLI and the
// emulator binaries.
type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	TranslationURL  string `envconfig:"LEXICORE_TRANSLATION_URL" default:""`
	TextToSpeechURL string `envconfig:"LEXICORE_TTS_URL" default:""`
	Username        string `envconfig:"LEXICORE_USERNAME" default:""`
	Password        string `envconfig:"LEXICORE_PASSWORD" default:""`
	APIKey          string `envconfig:"LEXICORE_API_KEY" default:""`

	HTTPTimeout time.Duration `envconfig:"LEXICORE_HTTP_TIMEOUT" default:"90s"`

	EmulatorHost         string `envconfig:"LEXICORE_EMULATOR_HOST" default:"127.0.0.1"`
	EmulatorPort         int    `envconfig:"LEXICORE_EMULATOR_PORT" default:"8632"`
	EmulatorUsername     string `envconfig:"LEXICORE_EMULATOR_USERNAME" default:""`
	EmulatorPasswordHash string `envconfig:"LEXICORE_EMULATOR_PASSWORD_HASH" default:""`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTPTimeout < time.Second {
		return fmt.Errorf("LEXICORE_HTTP_TIMEOUT must be at least 1s")
	}
	if c.EmulatorPort < 1 || c.EmulatorPort > 65535 {
		return fmt.Errorf("LEXICORE_EMULATOR_PORT must be a valid port, got %d", c.EmulatorPort)
	}
	if strings.TrimSpace(c.EmulatorPasswordHash) != "" && strings.TrimSpace(c.EmulatorUsername) == "" {
		return fmt.Errorf("LEXICORE_EMULATOR_USERNAME is required when a password hash is set")
	}
	return nil
}

// HasCredentials reports whether any remote credential is configured.
func (c *Config) HasCredentials() bool {
	if c == nil {
		return false
	}
	return strings.TrimSpace(c.APIKey) != "" || strings.TrimSpace(c.Username) != ""
}
