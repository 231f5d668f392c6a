package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/helixml/kommit/application/service"
	"github.com/helixml/kommit/infrastructure/api/v1/dto"
)

// Error codes reported in the "error" field of failure responses.
const (
	CodeValidation     = "validation"
	CodeAuthentication = "authentication"
)

// Base API errors as sentinels.
var (
	// ErrAuthentication indicates authentication failure.
	ErrAuthentication = errors.New("authentication failed")

	// ErrValidation indicates a malformed request.
	ErrValidation = errors.New("validation failed")
)

// APIError represents an HTTP failure with an explicit status code.
type APIError struct {
	code    int
	message string
	cause   error
}

// NewAPIError creates a new APIError.
func NewAPIError(code int, message string, cause error) *APIError {
	return &APIError{
		code:    code,
		message: message,
		cause:   cause,
	}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Code returns the HTTP status code.
func (e *APIError) Code() int {
	return e.code
}

// Message returns the error message.
func (e *APIError) Message() string {
	return e.message
}

// AuthenticationError represents an authentication failure.
type AuthenticationError struct {
	message string
}

// NewAuthenticationError creates a new AuthenticationError.
func NewAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{message: message}
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.message)
}

// Unwrap returns the base authentication error for errors.Is compatibility.
func (e *AuthenticationError) Unwrap() error {
	return ErrAuthentication
}

// Message returns the error message.
func (e *AuthenticationError) Message() string {
	return e.message
}

// ValidationError represents a request that could not be accepted as sent.
type ValidationError struct {
	message string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.message)
}

// Unwrap returns the base validation error for errors.Is compatibility.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Message returns the error message.
func (e *ValidationError) Message() string {
	return e.message
}

// WriteError writes a failure response of the form
// {"message": "...", "error": "<code>"} and logs the underlying error.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status, resp := errorResponse(err)

	if logger != nil {
		logger.ErrorContext(r.Context(), "request error",
			slog.Int("status", status),
			slog.String("code", resp.Error),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}

	WriteJSON(w, status, resp)
}

func errorResponse(err error) (int, dto.GenerateResponse) {
	var (
		genErr  *service.GenerateError
		authErr *AuthenticationError
		valErr  *ValidationError
		apiErr  *APIError
	)

	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, dto.GenerateResponse{Message: authErr.Message(), Error: CodeAuthentication}
	case errors.As(err, &valErr):
		return http.StatusBadRequest, dto.GenerateResponse{Message: valErr.Message(), Error: CodeValidation}
	case errors.As(err, &apiErr):
		return apiErr.Code(), dto.GenerateResponse{Message: apiErr.Message(), Error: statusCode(apiErr.Code())}
	}

	genErr = service.Classify(err)
	status := http.StatusInternalServerError
	if genErr.Class() == service.ClassPayloadTooLarge {
		status = http.StatusBadRequest
	}
	return status, dto.GenerateResponse{Message: genErr.Message(), Error: string(genErr.Class())}
}

// statusCode turns an HTTP status into a snake_case error code.
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
