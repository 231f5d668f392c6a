package service

import (
	"errors"

	domainservice "github.com/helixml/kommit/domain/service"
)

// ErrClientClosed indicates the client has been closed.
var ErrClientClosed = errors.New("kommit: client is closed")

// FailureClass names the kind of failure a generation ended with.
type FailureClass string

// Failure classes reported to callers.
const (
	ClassPayloadTooLarge FailureClass = "payload_too_large"
	ClassProviderFailure FailureClass = "provider_failure"
)

// Human-readable messages returned for each failure class.
const (
	MessagePayloadTooLarge = "Diff too large. Try a smaller change."
	MessageProviderFailure = "AI is tired. Try again in 10 sec."
)

// GenerateError is the classified failure of a commit message generation.
// The cause is kept for logging and errors.Is; callers show Message.
type GenerateError struct {
	class FailureClass
	cause error
}

// NewGenerateError creates a GenerateError.
func NewGenerateError(class FailureClass, cause error) *GenerateError {
	return &GenerateError{class: class, cause: cause}
}

// Error implements the error interface.
func (e *GenerateError) Error() string {
	if e.cause != nil {
		return string(e.class) + ": " + e.cause.Error()
	}
	return string(e.class)
}

// Unwrap returns the underlying cause.
func (e *GenerateError) Unwrap() error { return e.cause }

// Class returns the failure class.
func (e *GenerateError) Class() FailureClass { return e.class }

// Message returns the human-readable message for the failure class.
func (e *GenerateError) Message() string {
	if e.class == ClassPayloadTooLarge {
		return MessagePayloadTooLarge
	}
	return MessageProviderFailure
}

// Classify maps any error to a GenerateError. A provider rejection for
// payload size becomes ClassPayloadTooLarge; everything else, including
// cancellation and tokenizer failures, is ClassProviderFailure. A nil error
// yields nil.
func Classify(err error) *GenerateError {
	if err == nil {
		return nil
	}

	var genErr *GenerateError
	if errors.As(err, &genErr) {
		return genErr
	}

	if errors.Is(err, domainservice.ErrPayloadTooLarge) {
		return NewGenerateError(ClassPayloadTooLarge, err)
	}
	return NewGenerateError(ClassProviderFailure, err)
}
