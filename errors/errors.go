// Package errors provides the structured error types used across the
// collaboration engine.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error. Callers branch on kinds instead of
// matching error strings.
type Kind string

const (
	KindNotInSession     Kind = "NOT_IN_SESSION"
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	KindNotFound         Kind = "NOT_FOUND"
	KindSessionFull      Kind = "SESSION_FULL"
	KindSessionClosed    Kind = "SESSION_CLOSED"
	KindInvalidCode      Kind = "INVALID_CODE"
	KindInvalidAction    Kind = "INVALID_ACTION"
	KindStorageFailure   Kind = "STORAGE_FAILURE"
	KindListenerFailure  Kind = "LISTENER_FAILURE"
	KindEngineClosed     Kind = "ENGINE_CLOSED"
	KindInternal         Kind = "INTERNAL"
)

// Operation identifies the engine operation during which an error occurred.
type Operation string

const (
	OpCreateSession  Operation = "create_session"
	OpJoinSession    Operation = "join_session"
	OpLeaveSession   Operation = "leave_session"
	OpUpdateSettings Operation = "update_settings"
	OpUpdateRole     Operation = "update_role"
	OpKick           Operation = "kick_participant"
	OpApply          Operation = "apply"
	OpReceive        Operation = "receive"
	OpResolve        Operation = "conflict_resolve"
	OpBroadcast      Operation = "cursor_broadcast"
	OpSetConnection  Operation = "set_connection"
	OpLoad           Operation = "load"
	OpSave           Operation = "save"
	OpEmit           Operation = "emit"
	OpClose          Operation = "close"
)

// EngineError is the error type returned by every public engine operation.
type EngineError struct {
	// Operation during which the error occurred
	Op Operation

	// Component that generated the error (e.g., "registry", "storage")
	Component string

	// Kind classifies the failure
	Kind Kind

	// Underlying error
	Err error

	// Metadata for additional context
	Metadata map[string]any
}

func (e *EngineError) Error() string {
	msg := string(e.Op)
	if e.Component != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Component)
	}
	if e.Kind != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Kind)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// New creates a new EngineError for the given operation.
func New(op Operation, err error) *EngineError {
	return &EngineError{Op: op, Err: err}
}

// NewKind creates a new EngineError with an explicit kind.
func NewKind(op Operation, kind Kind, err error) *EngineError {
	return &EngineError{Op: op, Kind: kind, Err: err}
}

// NewWithComponent creates a new EngineError with component information.
func NewWithComponent(op Operation, component string, kind Kind, err error) *EngineError {
	return &EngineError{Op: op, Component: component, Kind: kind, Err: err}
}

// NotInSession reports a mutating call made with no active session.
func NotInSession(op Operation) *EngineError {
	return &EngineError{Op: op, Kind: KindNotInSession, Err: errors.New("no active session")}
}

// PermissionDenied reports a role-gated operation attempted by a
// participant whose role does not allow it.
func PermissionDenied(op Operation, role string) *EngineError {
	return &EngineError{
		Op:       op,
		Kind:     KindPermissionDenied,
		Err:      fmt.Errorf("role %q may not perform this operation", role),
		Metadata: map[string]any{"role": role},
	}
}

// NotFound reports an absent target participant or document object.
func NotFound(op Operation, id string) *EngineError {
	return &EngineError{
		Op:       op,
		Kind:     KindNotFound,
		Err:      fmt.Errorf("target %q not found", id),
		Metadata: map[string]any{"target": id},
	}
}

// NewStorageError wraps a persistence read/write failure.
func NewStorageError(op Operation, cause error) *EngineError {
	return &EngineError{Op: op, Component: "storage", Kind: KindStorageFailure, Err: cause}
}

// KindOf extracts the Kind from an error chain, or "" if the chain holds
// no EngineError.
func KindOf(err error) Kind {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Kind
	}
	return ""
}

// IsKind reports whether the error chain contains an EngineError of the
// given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
