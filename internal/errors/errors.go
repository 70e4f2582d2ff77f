package errors

import (
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeSessionLoad    ErrorCode = "SESSION-001"
	ErrCodeSessionSave    ErrorCode = "SESSION-002"
	ErrCodeSessionInvalid ErrorCode = "SESSION-003"
	ErrCodeSessionExpired ErrorCode = "SESSION-004"

	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeAuthRequired          ErrorCode = "AUTH-001"
	ErrCodeAuthLoginFailed       ErrorCode = "AUTH-002"
	ErrCodeAuthNeedsVerification ErrorCode = "AUTH-003"
	ErrCodeAuthRefreshFailed     ErrorCode = "AUTH-004"
	ErrCodeAuthRegisterFailed    ErrorCode = "AUTH-005"

	// API errors (API-001 to API-099)
	ErrCodeAPIRequest     ErrorCode = "API-001"
	ErrCodeAPIDecode      ErrorCode = "API-002"
	ErrCodeAPIUnreachable ErrorCode = "API-003"

	// Validation errors (VALIDATE-001 to VALIDATE-099)
	ErrCodeValidationFailed ErrorCode = "VALIDATE-001"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigRead    ErrorCode = "CONFIG-001"
	ErrCodeConfigInvalid ErrorCode = "CONFIG-002"
	ErrCodeConfigWrite   ErrorCode = "CONFIG-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
)

// TrackerError represents an enhanced error with code, suggestions, and documentation
type TrackerError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	DocsURL     string
	Cause       error
}

// Error implements the error interface
func (e *TrackerError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	if e.DocsURL != "" {
		b.WriteString(fmt.Sprintf("\n\nDocumentation: %s", e.DocsURL))
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *TrackerError) Unwrap() error {
	return e.Cause
}

// New creates a new TrackerError
func New(code ErrorCode, message string) *TrackerError {
	return &TrackerError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new TrackerError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *TrackerError {
	return &TrackerError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *TrackerError) WithSuggestion(suggestion string) *TrackerError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *TrackerError) WithSuggestions(suggestions ...string) *TrackerError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// WithDocs adds a documentation URL to the error
func (e *TrackerError) WithDocs(url string) *TrackerError {
	e.DocsURL = url
	return e
}

// Common error constructors for frequently used errors

// NewAuthRequiredError creates an error for commands that need a logged-in user
func NewAuthRequiredError() *TrackerError {
	return New(ErrCodeAuthRequired, "you are not logged in").
		WithSuggestion("Run 'gametracker auth login' to authenticate").
		WithSuggestion("Run 'gametracker auth register' to create an account")
}

// NewSessionExpiredError creates an error for a session torn down after a failed refresh
func NewSessionExpiredError(cause error) *TrackerError {
	return Wrap(ErrCodeAuthRefreshFailed, "your session has expired", cause).
		WithSuggestion("Run 'gametracker auth login' to sign in again")
}

// NewNeedsVerificationError creates an error for login attempts on unverified accounts
func NewNeedsVerificationError(email string) *TrackerError {
	return New(ErrCodeAuthNeedsVerification, "your email address has not been verified").
		WithSuggestion(fmt.Sprintf("Run 'gametracker auth resend-verification --email %s'", email)).
		WithSuggestion("Check your inbox for the verification email")
}

// NewAPIUnreachableError creates an error for transport-level request failures
func NewAPIUnreachableError(baseURL string, cause error) *TrackerError {
	return Wrap(ErrCodeAPIUnreachable, fmt.Sprintf("could not reach the GameTracker API at %s", baseURL), cause).
		WithSuggestion("Check your network connection").
		WithSuggestion("Verify the api_url setting in your config file")
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string) *TrackerError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Run 'gametracker config init --force' to regenerate the default config").
		WithSuggestion("Run 'gametracker config show' to inspect the effective settings")
}

// NewValidationError creates a pre-submission input validation error
func NewValidationError(field, reason string) *TrackerError {
	return New(ErrCodeValidationFailed, fmt.Sprintf("invalid value for %s: %s", field, reason))
}

// NewFileWriteError creates a file write error
func NewFileWriteError(path string, cause error) *TrackerError {
	return Wrap(ErrCodeFileWriteFailed, fmt.Sprintf("failed to write file: %s", path), cause).
		WithSuggestion("Check that the directory exists and is writable")
}
