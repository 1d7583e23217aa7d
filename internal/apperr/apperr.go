// Package apperr defines the typed error taxonomy from spec §7: a small,
// closed set of Kinds, each tagged as surfacing to the caller as either a
// protocol-level JSON-RPC error or a response-level UniversalResponse
// failure. Handlers and transports consult Kind.IsProtocolLevel to decide
// how to surface a failure; they never string-match an error message.
package apperr

// Kind is one of the error kinds from spec §7's error table.
type Kind string

const (
	// Protocol-level kinds: surfaced as a top-level JSON-RPC error.
	UnsupportedProtocol Kind = "unsupported_protocol"
	ToolNotFound        Kind = "tool_not_found"
	InvalidParameters   Kind = "invalid_parameters"
	OperationCancelled  Kind = "operation_cancelled"
	SerializationError  Kind = "serialization_error"

	// Response-level kinds: surfaced inside a successful protocol envelope
	// as UniversalResponse{success=false, error=...}.
	ExecutionFailed    Kind = "execution_failed"
	ConfigurationError Kind = "configuration_error"
	DatabaseError      Kind = "database_error"
	ValidationFailed   Kind = "validation_failed"
	NoToken            Kind = "no_token"
)

// protocolKinds is the subset of Kind that a protocol adapter promotes to a
// top-level JSON-RPC error rather than a nested tool-result payload.
var protocolKinds = map[Kind]bool{
	UnsupportedProtocol: true,
	ToolNotFound:        true,
	InvalidParameters:   true,
	OperationCancelled:  true,
	SerializationError:  true,
}

// IsProtocolLevel reports whether k surfaces as a protocol-level error.
func (k Kind) IsProtocolLevel() bool {
	return protocolKinds[k]
}

// Error is a Kind-tagged error, errors.Is/errors.As-friendly via Unwrap and
// Is, following the teacher's wrapping convention throughout its runtime
// packages.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New builds an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error carrying err as its cause; Message defaults to
// err.Error().
func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Message: err.Error(), Err: err}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches target against e by Kind, so callers can write
// errors.Is(err, apperr.New(apperr.NoToken, "")) to test the kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
