package idp

import (
	"errors"
	"fmt"
	"testing"
)

func TestCodeFromWire(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Code
	}{
		{"invalid password", "INVALID_PASSWORD", CodeWrongPassword},
		{"new-style credentials code", "INVALID_LOGIN_CREDENTIALS", CodeWrongPassword},
		{"email not found", "EMAIL_NOT_FOUND", CodeUserNotFound},
		{"rate limited", "TOO_MANY_ATTEMPTS_TRY_LATER", CodeTooManyRequests},
		// The provider appends explanations after " : " for some codes.
		{"rate limited with suffix", "TOO_MANY_ATTEMPTS_TRY_LATER : Try again later.", CodeTooManyRequests},
		{"weak password with suffix", "WEAK_PASSWORD : Password should be at least 6 characters", CodeWeakPassword},
		{"invalid email", "INVALID_EMAIL", CodeInvalidEmail},
		{"email exists", "EMAIL_EXISTS", CodeEmailInUse},
		{"unmapped code", "OPERATION_NOT_ALLOWED", CodeUnknown},
		{"empty", "", CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := codeFromWire(tt.message); got != tt.want {
				t.Errorf("codeFromWire(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(nil); got != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", got)
	}
	if got := CodeOf(errors.New("plain")); got != CodeUnknown {
		t.Errorf("CodeOf(plain error) = %q, want %q", got, CodeUnknown)
	}

	err := NewError(CodeWrongPassword, "INVALID_PASSWORD")
	if got := CodeOf(err); got != CodeWrongPassword {
		t.Errorf("CodeOf = %q, want %q", got, CodeWrongPassword)
	}
	// Wrapped provider errors still classify.
	if got := CodeOf(fmt.Errorf("sign in: %w", err)); got != CodeWrongPassword {
		t.Errorf("CodeOf(wrapped) = %q, want %q", got, CodeWrongPassword)
	}
}
