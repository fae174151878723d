package tools

import (
	"errors"
	"fmt"
)

// Kind classifies a tool failure. The classification decides how the
// orchestrator recovers: parse and validation failures are surfaced to the
// user with a corrective example, schema failures are reported back to the
// model so it can self-correct, and gateway failures are retried once when
// retryable.
type Kind int

const (
	// KindParse marks unintelligible date/time/user input.
	KindParse Kind = iota
	// KindValidation marks logically invalid arguments (e.g. end before start).
	KindValidation
	// KindGateway marks a failed calendar provider call.
	KindGateway
	// KindSchema marks an unknown tool or arguments that do not match the
	// tool's schema.
	KindSchema
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindValidation:
		return "validation"
	case KindGateway:
		return "gateway"
	case KindSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// Error is a classified tool failure, propagated as a value.
type Error struct {
	Kind      Kind
	Message   string
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewParseError builds a parse failure. The message should name the problem
// and include a concrete corrective example.
func NewParseError(format string, args ...any) *Error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

// NewValidationError builds a validation failure.
func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NewGatewayError wraps a calendar provider failure with its retryability
// classification.
func NewGatewayError(err error, retryable bool, format string, args ...any) *Error {
	return &Error{Kind: KindGateway, Message: fmt.Sprintf(format, args...), Retryable: retryable, Err: err}
}

// NewSchemaError builds a schema failure for an unknown tool or malformed
// arguments.
func NewSchemaError(format string, args ...any) *Error {
	return &Error{Kind: KindSchema, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts a classified *Error from err, or wraps it as a terminal
// gateway failure when it carries no classification.
func AsError(err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return &Error{Kind: KindGateway, Message: err.Error(), Err: err}
}

// IsRetryable reports whether err is a retryable gateway failure.
func IsRetryable(err error) bool {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind == KindGateway && te.Retryable
	}
	return false
}
