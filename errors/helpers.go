package errors

// Wrap provides a convenience helper to wrap errors with consistent Op and
// Component propagation. If err is nil, returns nil.
func Wrap(err error, op Operation, component string) error {
	if err == nil {
		return nil
	}
	return &EngineError{Op: op, Component: component, Kind: KindOf(err), Err: err}
}

// WrapKind wraps an error with Op, Component, and Kind. If err is nil,
// returns nil.
func WrapKind(err error, op Operation, component string, kind Kind) error {
	if err == nil {
		return nil
	}
	return &EngineError{Op: op, Component: component, Kind: kind, Err: err}
}
