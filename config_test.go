package collab

import (
	"testing"
	"time"

	"github.com/cubeforge/collab/resolve"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxPendingActions != 100 {
		t.Errorf("MaxPendingActions = %d, want 100", cfg.MaxPendingActions)
	}
	if cfg.ConflictPolicy != resolve.PolicyLastWriteWins {
		t.Errorf("ConflictPolicy = %q, want last_write_wins", cfg.ConflictPolicy)
	}
	if cfg.CursorInterval != 150*time.Millisecond {
		t.Errorf("CursorInterval = %v, want 150ms", cfg.CursorInterval)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("COLLAB_MAX_PENDING_ACTIONS", "25")
	t.Setenv("COLLAB_CONFLICT_POLICY", "merge")
	t.Setenv("COLLAB_CURSOR_INTERVAL", "75ms")
	t.Setenv("COLLAB_DEFAULT_MAX_PARTICIPANTS", "3")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}
	if cfg.MaxPendingActions != 25 {
		t.Errorf("MaxPendingActions = %d, want 25", cfg.MaxPendingActions)
	}
	if cfg.ConflictPolicy != resolve.PolicyMerge {
		t.Errorf("ConflictPolicy = %q, want merge", cfg.ConflictPolicy)
	}
	if cfg.CursorInterval != 75*time.Millisecond {
		t.Errorf("CursorInterval = %v, want 75ms", cfg.CursorInterval)
	}
	if cfg.DefaultMaxParticipants != 3 {
		t.Errorf("DefaultMaxParticipants = %d, want 3", cfg.DefaultMaxParticipants)
	}
}

func TestConfigFromEnvRejectsUnknownPolicy(t *testing.T) {
	t.Setenv("COLLAB_CONFLICT_POLICY", "quorum")
	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("ConfigFromEnv accepted an unknown policy")
	}
}

func TestNewRejectsUnknownPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConflictPolicy = "quorum"
	if _, err := New(nil, cfg); err == nil {
		t.Fatal("New accepted an unknown policy")
	}
}
