package flow

import "regexp"

// MinPasswordLength mirrors the provider's own minimum so registration
// fails fast instead of round-tripping a weak password.
const MinPasswordLength = 6

// emailPattern is the standard local-part@domain check. Anything
// stricter rejects addresses the provider accepts.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether email looks like an address worth sending
// to the provider.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validateLogin runs the sign-in screen's local checks in order and
// returns the first failure message, or "" when the input may be
// submitted.
func validateLogin(email, password string) string {
	if email == "" || password == "" {
		return "Please fill all fields"
	}
	if !ValidEmail(email) {
		return "Please enter a valid email address"
	}
	return ""
}

// validateRegister runs the registration screen's checks in order.
func validateRegister(email, password, confirm string) string {
	if email == "" || password == "" || confirm == "" {
		return "All fields are required"
	}
	if !ValidEmail(email) {
		return "Please enter a valid email address"
	}
	if len(password) < MinPasswordLength {
		return "Password must be at least 6 characters"
	}
	if password != confirm {
		return "Passwords do not match"
	}
	return ""
}

// validateReset runs the password-reset screen's checks.
func validateReset(email string) string {
	if email == "" {
		return "Please enter your email address"
	}
	if !ValidEmail(email) {
		return "Please enter a valid email address"
	}
	return ""
}
