package idp

import (
	"errors"
	"strings"
)

// Code identifies a provider rejection. Codes are normalized from the
// provider's wire-level error messages so the rest of the application
// never matches on raw provider strings.
type Code string

const (
	CodeWrongPassword   Code = "wrong-password"
	CodeUserNotFound    Code = "user-not-found"
	CodeTooManyRequests Code = "too-many-requests"
	CodeInvalidEmail    Code = "invalid-email"
	CodeEmailInUse      Code = "email-already-in-use"
	CodeWeakPassword    Code = "weak-password"
	CodeNetworkFailure  Code = "network-request-failed"
	CodePopupFailed     Code = "popup-failed"

	// CodeUnknown covers provider errors outside the enumerated set.
	CodeUnknown Code = "unknown"
)

// Error is a classified provider rejection.
type Error struct {
	Code Code
	// Raw is the provider's wire-level message, kept for logs only.
	// It must never be shown to users.
	Raw string
}

func (e *Error) Error() string {
	if e.Raw == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Raw
}

// NewError builds a provider error with the given code.
func NewError(code Code, raw string) *Error {
	return &Error{Code: code, Raw: raw}
}

// CodeOf extracts the provider code from err, or CodeUnknown if err is
// not a provider error. A nil err yields an empty code.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Code
	}
	return CodeUnknown
}

// codeFromWire maps the provider's wire message to a Code. Some wire
// messages carry a trailing explanation after " : ", so matching is on
// the leading token.
func codeFromWire(message string) Code {
	token := message
	if i := strings.Index(token, " :"); i >= 0 {
		token = token[:i]
	}
	token = strings.TrimSpace(token)

	switch token {
	case "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return CodeWrongPassword
	case "EMAIL_NOT_FOUND", "USER_NOT_FOUND":
		return CodeUserNotFound
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return CodeTooManyRequests
	case "INVALID_EMAIL", "MISSING_EMAIL":
		return CodeInvalidEmail
	case "EMAIL_EXISTS":
		return CodeEmailInUse
	case "WEAK_PASSWORD":
		return CodeWeakPassword
	default:
		return CodeUnknown
	}
}
