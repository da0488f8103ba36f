package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cubeforge/collab/errors"
)

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, Config{Level: "warn", Format: "text"})

	log.Info("should be filtered")
	log.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn record missing from output")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, Config{Level: "info", Format: "json"})

	log.Info("hello", "key", "value")

	if !strings.Contains(buf.String(), `"key":"value"`) {
		t.Errorf("expected JSON output, got %s", buf.String())
	}
}

func TestLogErrorExpandsEngineError(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, Config{Level: "info", Format: "json"})

	err := errors.NewWithComponent(errors.OpReceive, "pipeline", errors.KindNotFound, nil)
	log.LogError(context.Background(), err, "receive failed")

	out := buf.String()
	for _, part := range []string{"engine_error", "receive", "pipeline", "NOT_FOUND"} {
		if !strings.Contains(out, part) {
			t.Errorf("output missing %q: %s", part, out)
		}
	}
}

func TestWithOperationAndComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, Config{Level: "info", Format: "text"})

	log.WithOperation(errors.OpApply).WithComponent("pipeline").Info("applied")

	out := buf.String()
	if !strings.Contains(out, "operation=apply") || !strings.Contains(out, "component=pipeline") {
		t.Errorf("child logger attrs missing: %s", out)
	}
}

func TestDiscard(t *testing.T) {
	// Must not panic and must accept records.
	Discard().Info("dropped")
}
