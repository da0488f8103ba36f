package collab

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/cubeforge/collab/logging"
	"github.com/cubeforge/collab/resolve"
)

// Config tunes an engine instance.
type Config struct {
	// MaxPendingActions bounds the not-yet-synchronized queue; the oldest
	// entry is evicted when the bound is exceeded.
	MaxPendingActions int `env:"COLLAB_MAX_PENDING_ACTIONS" envDefault:"100"`

	// ConflictPolicy selects how incoming actions that collide with
	// pending ones are reconciled.
	ConflictPolicy resolve.Policy `env:"COLLAB_CONFLICT_POLICY" envDefault:"last_write_wins"`

	// CursorInterval is the period of the cursor broadcast ticker.
	CursorInterval time.Duration `env:"COLLAB_CURSOR_INTERVAL" envDefault:"150ms"`

	// DefaultMaxParticipants seeds new sessions' participant cap. Zero
	// means unlimited.
	DefaultMaxParticipants int `env:"COLLAB_DEFAULT_MAX_PARTICIPANTS" envDefault:"8"`

	// Logger receives the engine's structured log records. Nil discards
	// them.
	Logger *logging.Logger `env:"-"`
}

// DefaultConfig returns the configuration used when the caller provides
// none.
func DefaultConfig() *Config {
	return &Config{
		MaxPendingActions:      100,
		ConflictPolicy:         resolve.PolicyLastWriteWins,
		CursorInterval:         150 * time.Millisecond,
		DefaultMaxParticipants: 8,
	}
}

// ConfigFromEnv builds a configuration from environment variables.
func ConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if _, err := resolve.ParsePolicy(string(cfg.ConflictPolicy)); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) withDefaults() *Config {
	if c == nil {
		return DefaultConfig()
	}
	cp := *c
	if cp.MaxPendingActions <= 0 {
		cp.MaxPendingActions = 100
	}
	if cp.ConflictPolicy == "" {
		cp.ConflictPolicy = resolve.PolicyLastWriteWins
	}
	if cp.CursorInterval <= 0 {
		cp.CursorInterval = 150 * time.Millisecond
	}
	return &cp
}
