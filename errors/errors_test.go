package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestEngineErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *EngineError
		want []string
	}{
		{
			name: "op only",
			err:  New(OpApply, errors.New("boom")),
			want: []string{"apply", "boom"},
		},
		{
			name: "op with component and kind",
			err:  NewWithComponent(OpSave, "storage", KindStorageFailure, errors.New("disk full")),
			want: []string{"save", "storage", "STORAGE_FAILURE", "disk full"},
		},
		{
			name: "kind without cause",
			err:  &EngineError{Op: OpJoinSession, Kind: KindSessionFull},
			want: []string{"join_session", "SESSION_FULL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, part := range tt.want {
				if !strings.Contains(msg, part) {
					t.Errorf("message %q missing %q", msg, part)
				}
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	err := PermissionDenied(OpUpdateSettings, "editor")
	if got := KindOf(err); got != KindPermissionDenied {
		t.Errorf("KindOf = %q, want %q", got, KindPermissionDenied)
	}

	// Kind survives wrapping with %w.
	wrapped := fmt.Errorf("outer: %w", err)
	if !IsKind(wrapped, KindPermissionDenied) {
		t.Error("IsKind should see through fmt.Errorf wrapping")
	}

	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewStorageError(OpLoad, cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, OpApply, "pipeline") != nil {
		t.Error("Wrap(nil) should return nil")
	}
	if WrapKind(nil, OpApply, "pipeline", KindInternal) != nil {
		t.Error("WrapKind(nil) should return nil")
	}
}

func TestWrapPreservesKind(t *testing.T) {
	inner := NotFound(OpReceive, "c1")
	outer := Wrap(inner, OpReceive, "pipeline")
	if !IsKind(outer, KindNotFound) {
		t.Error("Wrap should carry the inner kind outward")
	}
}
