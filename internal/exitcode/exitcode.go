// Package exitcode maps errors to process exit codes so scripts can
// tell authentication problems from network ones.
package exitcode

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/gametracker/gametracker/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates a missing, invalid, or expired session
	AuthError = 3

	// NetworkError indicates the API could not be reached
	NetworkError = 4

	// ConfigError indicates an unreadable or invalid configuration
	ConfigError = 5

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	var trackerErr *errors.TrackerError
	if stderrors.As(err, &trackerErr) {
		switch {
		case strings.HasPrefix(string(trackerErr.Code), "AUTH"),
			strings.HasPrefix(string(trackerErr.Code), "SESSION"):
			return AuthError
		case strings.HasPrefix(string(trackerErr.Code), "API"):
			return NetworkError
		case strings.HasPrefix(string(trackerErr.Code), "VALIDATE"):
			return UsageError
		case strings.HasPrefix(string(trackerErr.Code), "CONFIG"):
			return ConfigError
		}
	}

	errMsg := strings.ToLower(err.Error())

	if strings.Contains(errMsg, "unauthorized") || strings.Contains(errMsg, "expired") {
		return AuthError
	}
	if strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "unreachable") {
		return NetworkError
	}
	if strings.Contains(errMsg, "unknown command") || strings.Contains(errMsg, "unknown flag") ||
		strings.Contains(errMsg, "invalid input") || strings.Contains(errMsg, "required flag") {
		return UsageError
	}

	return GeneralError
}

// Description returns a human-readable description of an exit code
func Description(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case ConfigError:
		return "Configuration error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
