package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeSessionInvalid, "test error message")

	if err.Code != ErrCodeSessionInvalid {
		t.Errorf("expected code %s, got %s", ErrCodeSessionInvalid, err.Code)
	}

	if err.Message != "test error message" {
		t.Errorf("expected message 'test error message', got '%s'", err.Message)
	}

	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("underlying error")
	err := Wrap(ErrCodeFileReadFailed, "failed to read file", cause)

	if err.Code != ErrCodeFileReadFailed {
		t.Errorf("expected code %s, got %s", ErrCodeFileReadFailed, err.Code)
	}

	if err.Cause != cause {
		t.Errorf("expected cause to be set")
	}

	// Test unwrapping
	if !errors.Is(err, cause) {
		t.Errorf("Wrap should support errors.Is")
	}
}

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *TrackerError
		wantCode string
		wantMsg  string
	}{
		{
			name:     "simple error",
			err:      New(ErrCodeConfigInvalid, "invalid config"),
			wantCode: "CONFIG-002",
			wantMsg:  "invalid config",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeFileReadFailed, "read failed", fmt.Errorf("permission denied")),
			wantCode: "IO-002",
			wantMsg:  "permission denied",
		},
		{
			name:     "auth error",
			err:      New(ErrCodeAuthLoginFailed, "invalid credentials"),
			wantCode: "AUTH-002",
			wantMsg:  "invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()

			if !strings.Contains(errStr, tt.wantCode) {
				t.Errorf("error string should contain code %s, got: %s", tt.wantCode, errStr)
			}

			if !strings.Contains(errStr, tt.wantMsg) {
				t.Errorf("error string should contain message '%s', got: %s", tt.wantMsg, errStr)
			}
		})
	}
}

func TestWithSuggestion(t *testing.T) {
	err := New(ErrCodeAuthRequired, "not logged in").
		WithSuggestion("Run 'gametracker auth login'")

	if len(err.Suggestions) != 1 {
		t.Errorf("expected 1 suggestion, got %d", len(err.Suggestions))
	}

	if err.Suggestions[0] != "Run 'gametracker auth login'" {
		t.Errorf("unexpected suggestion: %s", err.Suggestions[0])
	}

	errStr := err.Error()
	if !strings.Contains(errStr, "Suggestions:") {
		t.Errorf("error string should contain suggestions section")
	}

	if !strings.Contains(errStr, "Run 'gametracker auth login'") {
		t.Errorf("error string should contain suggestion text")
	}
}

func TestWithSuggestions(t *testing.T) {
	err := New(ErrCodeConfigRead, "cannot read config").
		WithSuggestions("First suggestion", "Second suggestion")

	if len(err.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(err.Suggestions))
	}
}

func TestWithDocs(t *testing.T) {
	err := New(ErrCodeAPIRequest, "request failed").
		WithDocs("https://example.com/docs")

	if err.DocsURL != "https://example.com/docs" {
		t.Errorf("unexpected docs URL: %s", err.DocsURL)
	}

	if !strings.Contains(err.Error(), "Documentation: https://example.com/docs") {
		t.Errorf("error string should contain documentation link")
	}
}

func TestErrorsAs(t *testing.T) {
	var target *TrackerError

	err := fmt.Errorf("outer: %w", New(ErrCodeSessionExpired, "session expired"))
	if !errors.As(err, &target) {
		t.Fatalf("errors.As should find TrackerError in chain")
	}

	if target.Code != ErrCodeSessionExpired {
		t.Errorf("expected code %s, got %s", ErrCodeSessionExpired, target.Code)
	}
}

func TestNewAuthRequiredError(t *testing.T) {
	err := NewAuthRequiredError()

	if err.Code != ErrCodeAuthRequired {
		t.Errorf("expected code %s, got %s", ErrCodeAuthRequired, err.Code)
	}

	if len(err.Suggestions) == 0 {
		t.Errorf("expected login suggestion")
	}
}

func TestNewSessionExpiredError(t *testing.T) {
	cause := fmt.Errorf("refresh token rejected")
	err := NewSessionExpiredError(cause)

	if err.Code != ErrCodeAuthRefreshFailed {
		t.Errorf("expected code %s, got %s", ErrCodeAuthRefreshFailed, err.Code)
	}

	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be preserved")
	}
}

func TestNewNeedsVerificationError(t *testing.T) {
	err := NewNeedsVerificationError("alice@example.com")

	if err.Code != ErrCodeAuthNeedsVerification {
		t.Errorf("expected code %s, got %s", ErrCodeAuthNeedsVerification, err.Code)
	}

	if !strings.Contains(err.Error(), "alice@example.com") {
		t.Errorf("expected email in resend suggestion")
	}
}
