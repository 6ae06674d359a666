package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Repository errors
	ErrCodeNotGitRepo ErrorCode = "NOT_GIT_REPO"
	ErrCodeGitFailed  ErrorCode = "GIT_FAILED"

	// Command execution errors
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"

	// Message generation errors
	ErrCodeGenerationFailed ErrorCode = "GENERATION_FAILED"
	ErrCodeNoAPIKey         ErrorCode = "NO_API_KEY"

	// Watcher and daemon errors
	ErrCodeWatchInitFailed  ErrorCode = "WATCH_INIT_FAILED"
	ErrCodeDaemonRunning    ErrorCode = "DAEMON_RUNNING"
	ErrCodeDaemonNotRunning ErrorCode = "DAEMON_NOT_RUNNING"

	// General errors
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// PhantomitError represents a structured error with context
type PhantomitError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *PhantomitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PhantomitError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *PhantomitError) WithDetail(key string, value interface{}) *PhantomitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *PhantomitError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new PhantomitError
func New(code ErrorCode, message string) *PhantomitError {
	return &PhantomitError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a PhantomitError
func Wrap(err error, code ErrorCode, message string) *PhantomitError {
	return &PhantomitError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error is a specific PhantomitError code
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from the first PhantomitError in the chain
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	pErr, ok := err.(*PhantomitError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return pErr.Code
}

// As returns the first PhantomitError in the chain, if any.
func As(err error) (*PhantomitError, bool) {
	for err != nil {
		if pErr, ok := err.(*PhantomitError); ok {
			return pErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}
