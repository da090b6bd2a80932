package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of fetch failures
type ErrorType string

const (
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Sentinel errors shared by the fetcher, the calculator and both front-ends.
var (
	// ErrEmptyUsername is returned before any fetch when the username is blank.
	ErrEmptyUsername = errors.New("username is required")

	// ErrNotAccessible groups every "no usable data" outcome. Match it with errors.Is.
	ErrNotAccessible = errors.New("profile data is not accessible")

	ErrProfileNotFound = fmt.Errorf("%w: profile not found", ErrNotAccessible)
	ErrProfilePrivate  = fmt.Errorf("%w: profile is private", ErrNotAccessible)
	ErrNoVisiblePosts  = fmt.Errorf("%w: no visible posts", ErrNotAccessible)

	// ErrInvalidSnapshot means a caller handed the calculator data it must never see.
	ErrInvalidSnapshot = errors.New("invalid profile snapshot")
)

// Error represents a fetch failure with type information.
// It is the only error type that crosses the fetcher boundary for
// transport, parsing or platform-blocking problems.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a typed fetch error
func New(errorType ErrorType, code int, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Code:    code,
	}
}

// Wrap creates a typed fetch error that keeps cause in the chain
func Wrap(errorType ErrorType, code int, cause error, message string) *Error {
	return &Error{
		Type:    errorType,
		Message: fmt.Sprintf("%s: %v", message, cause),
		Code:    code,
		Cause:   cause,
	}
}

// IsFetchError reports whether err carries a typed fetch error
func IsFetchError(err error) bool {
	var fetchErr *Error
	return errors.As(err, &fetchErr)
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown when err is not a fetch error
func TypeOf(err error) ErrorType {
	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		return fetchErr.Type
	}
	return ErrorTypeUnknown
}

// IsBlocked checks if an error type means the platform refused to serve the data
func IsBlocked(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeAuth, ErrorTypeRateLimit, ErrorTypeParsing:
		return true
	default:
		return false
	}
}

// Is, As and Join are re-exported so callers importing this package under the
// name "errors" keep access to the standard helpers.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func Join(errs ...error) error { return errors.Join(errs...) }
