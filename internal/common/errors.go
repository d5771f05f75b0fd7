package common

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure. The set is closed: every error that
// crosses the pipeline boundary carries exactly one Kind.
type Kind string

const (
	KindInvalidMode       Kind = "INVALID_MODE"
	KindUnsupportedFormat Kind = "UNSUPPORTED_FORMAT"
	KindEmptyExtraction   Kind = "EMPTY_EXTRACTION"
	KindUpstreamFailure   Kind = "UPSTREAM_FAILURE"
	KindMalformedResponse Kind = "MALFORMED_RESPONSE"
	KindInternal          Kind = "INTERNAL"
)

// ClientFault reports whether the kind is attributable to the request
// rather than to the backend or the model.
func (k Kind) ClientFault() bool {
	switch k {
	case KindInvalidMode, KindUnsupportedFormat, KindEmptyExtraction:
		return true
	}
	return false
}

// Error represents application-specific errors
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Detail renders the human-readable string surfaced in the error
// envelope: the message plus the cause when one exists.
func (e *Error) Detail() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Error constructors, one per kind.

func NewInvalidMode(input string) *Error {
	return &Error{Kind: KindInvalidMode, Message: fmt.Sprintf("invalid mode %q", input)}
}

func NewUnsupportedFormat(message string) *Error {
	return &Error{Kind: KindUnsupportedFormat, Message: message}
}

func NewEmptyExtraction() *Error {
	return &Error{Kind: KindEmptyExtraction, Message: "no readable text found"}
}

func NewUpstreamFailure(message string, cause error) *Error {
	return &Error{Kind: KindUpstreamFailure, Message: message, Cause: cause}
}

func NewMalformedResponse(message string, cause error) *Error {
	return &Error{Kind: KindMalformedResponse, Message: message, Cause: cause}
}

func NewInternal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

// Classify returns the typed error carried by err, wrapping anything
// unclassified as an internal server fault. Nil stays nil.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindInternal, Message: "internal error", Cause: err}
}

// KindOf returns the classification for err, or "" when err carries none.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ErrorEnvelope is the uniform failure payload surfaced to clients.
type ErrorEnvelope struct {
	Error string `json:"error"`
}

// EnvelopeFor renders any error into the uniform envelope.
func EnvelopeFor(err error) ErrorEnvelope {
	return ErrorEnvelope{Error: Classify(err).Detail()}
}
