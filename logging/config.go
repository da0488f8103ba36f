package logging

import (
	"strings"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config with env tags so the logger can be configured
// without code changes.
type envConfig struct {
	Level     string `env:"COLLAB_LOG_LEVEL" envDefault:"info"`
	Format    string `env:"COLLAB_LOG_FORMAT" envDefault:"text"`
	AddSource bool   `env:"COLLAB_LOG_ADD_SOURCE" envDefault:"false"`
}

// GetConfigFromEnv creates a logger configuration from environment
// variables, falling back to DefaultConfig on parse failure.
func GetConfigFromEnv() Config {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return DefaultConfig
	}
	return Config{
		Level:     strings.ToLower(ec.Level),
		Format:    strings.ToLower(ec.Format),
		AddSource: ec.AddSource,
	}
}
