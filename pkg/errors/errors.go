package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType categorizes different error types
type ErrorType string

const (
	// Network errors
	ErrorTypeNetwork  ErrorType = "network"
	ErrorTypeTimeout  ErrorType = "timeout"
	ErrorTypeCanceled ErrorType = "canceled"

	// Session errors
	ErrorTypeNotLoggedIn  ErrorType = "not_logged_in"
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	ErrorTypeForbidden    ErrorType = "forbidden"

	// Validation errors
	ErrorTypeValidation   ErrorType = "validation"
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileSize     ErrorType = "file_size"

	// Server errors
	ErrorTypeBadRequest ErrorType = "bad_request"
	ErrorTypeServer     ErrorType = "server"
	ErrorTypeNotFound   ErrorType = "not_found"

	ErrorTypeUnknown ErrorType = "unknown"
)

// StatusCoder is implemented by errors that carry an HTTP status code.
type StatusCoder interface {
	HTTPStatus() int
}

// CLIError represents a structured error with context
type CLIError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Suggestion string
	StatusCode int
}

// Error implements the error interface
func (e *CLIError) Error() string {
	return e.Message
}

// WithSuggestion adds a helpful suggestion to the error
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestion = suggestion
	return e
}

// HasSuggestion returns true if the error has a suggestion
func (e *CLIError) HasSuggestion() bool {
	return e.Suggestion != ""
}

// Unwrap returns the underlying error
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewCLIError creates a new CLI error
func NewCLIError(errorType ErrorType, message string, cause error) *CLIError {
	return &CLIError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NetworkError creates a network error
func NetworkError(message string) *CLIError {
	err := NewCLIError(ErrorTypeNetwork, message, nil)
	err.Suggestion = "Check that the PenFolio server is running and reachable (api.base_url)."
	return err
}

// TimeoutError creates a timeout error
func TimeoutError() *CLIError {
	err := NewCLIError(ErrorTypeTimeout, "Request timed out", nil)
	err.Suggestion = "The server is taking too long to respond. Try again in a moment."
	return err
}

// CanceledError reports a request abandoned by its caller.
func CanceledError() *CLIError {
	return NewCLIError(ErrorTypeCanceled, "Request canceled", nil)
}

// NotLoggedInError is returned by anything that needs a session.
func NotLoggedInError() *CLIError {
	err := NewCLIError(ErrorTypeNotLoggedIn, "Not logged in", nil)
	err.Suggestion = "Run 'penfolio auth login' first."
	return err
}

// UnauthorizedError creates an unauthorized error
func UnauthorizedError(message string) *CLIError {
	if message == "" {
		message = "Invalid credentials. Please try again."
	}
	return NewCLIError(ErrorTypeUnauthorized, message, nil)
}

// ForbiddenError creates a forbidden error
func ForbiddenError(message string) *CLIError {
	if message == "" {
		message = "Access denied"
	}
	return NewCLIError(ErrorTypeForbidden, message, nil)
}

// ValidationError creates a validation error carrying a ready-to-show message.
func ValidationError(message string) *CLIError {
	return NewCLIError(ErrorTypeValidation, message, nil)
}

// FieldError creates a validation error for a single field.
func FieldError(field, reason string) *CLIError {
	return ValidationError(fmt.Sprintf("Validation error: %s - %s", field, reason))
}

// FileNotFoundError creates a file not found error
func FileNotFoundError(path string) *CLIError {
	err := NewCLIError(ErrorTypeFileNotFound, fmt.Sprintf("File not found: %s", path), nil)
	err.Suggestion = "Check the file path and try again."
	return err
}

// FileSizeError reports an upload over the client-side limit.
func FileSizeError(message string) *CLIError {
	return NewCLIError(ErrorTypeFileSize, message, nil)
}

// ServerError creates a server error
func ServerError(message string) *CLIError {
	if message == "" {
		message = "Server error"
	}
	err := NewCLIError(ErrorTypeServer, message, nil)
	err.Suggestion = "The server encountered an error. Try again in a few moments."
	return err
}

// NotFoundError creates a not found error
func NotFoundError(resourceType, identifier string) *CLIError {
	return NewCLIError(ErrorTypeNotFound,
		fmt.Sprintf("%s not found: %s", resourceType, identifier),
		nil)
}

// CategorizeError converts a standard error into a CLIError
func CategorizeError(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	switch {
	case errors.Is(err, context.Canceled):
		return wrap(CanceledError(), err)
	case errors.Is(err, context.DeadlineExceeded):
		return wrap(TimeoutError(), err)
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		return wrap(fromStatus(sc.HTTPStatus(), err.Error()), err)
	}

	errMsg := err.Error()
	switch {
	case strings.Contains(errMsg, "connection refused"):
		return wrap(NetworkError("Could not connect to server. Make sure it's running."), err)
	case strings.Contains(errMsg, "no such host"):
		return wrap(NetworkError("Could not resolve the server address."), err)
	case strings.Contains(errMsg, "timeout"):
		return wrap(TimeoutError(), err)
	default:
		return NewCLIError(ErrorTypeUnknown, errMsg, err)
	}
}

func fromStatus(status int, message string) *CLIError {
	var e *CLIError
	switch {
	case status == 400:
		e = NewCLIError(ErrorTypeBadRequest, message, nil)
	case status == 401:
		e = UnauthorizedError(message)
	case status == 403:
		e = ForbiddenError(message)
	case status == 404:
		e = NewCLIError(ErrorTypeNotFound, message, nil)
	case status >= 500:
		e = ServerError(message)
	default:
		e = NewCLIError(ErrorTypeUnknown, message, nil)
	}
	e.StatusCode = status
	return e
}

func wrap(e *CLIError, cause error) *CLIError {
	e.Cause = cause
	return e
}

// FormatError returns a user-friendly error message
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	cliErr := CategorizeError(err)
	var sb strings.Builder

	sb.WriteString("✗ Error")
	if cliErr.Type != ErrorTypeUnknown {
		sb.WriteString(" (")
		sb.WriteString(string(cliErr.Type))
		sb.WriteString(")")
	}
	sb.WriteString(": ")
	sb.WriteString(cliErr.Message)
	sb.WriteString("\n")

	if cliErr.HasSuggestion() {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(cliErr.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// IsType reports whether err categorizes as t.
func IsType(err error, t ErrorType) bool {
	if err == nil {
		return false
	}
	return CategorizeError(err).Type == t
}
