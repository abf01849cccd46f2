package flow

import "github.com/tkerns/gatehouse/internal/idp"

// Operation names the provider call whose failure is being classified.
type Operation string

const (
	OpSignIn Operation = "sign-in"
	OpSignUp Operation = "sign-up"
	OpReset  Operation = "reset"
	OpPopup  Operation = "popup"
)

// messages maps provider codes to user-facing text per operation.
// The sign-in table is deliberately empty: every sign-in failure
// collapses to the same message so the screen never reveals whether the
// email or the password was wrong.
var messages = map[Operation]map[idp.Code]string{
	OpSignIn: {},
	OpSignUp: {
		idp.CodeEmailInUse:   "Email is already registered. Please use a different email or login.",
		idp.CodeWeakPassword: "Password is too weak. Please choose a stronger password.",
	},
	OpReset: {
		idp.CodeUserNotFound:    "This email is not registered. Please check your email or create a new account.",
		idp.CodeInvalidEmail:    "Invalid email address format.",
		idp.CodeTooManyRequests: "Too many requests. Please wait a moment before trying again.",
		idp.CodeNetworkFailure:  "Network error. Please check your internet connection and try again.",
	},
	OpPopup: {},
}

// fallbacks is the per-operation generic message for unmapped codes.
var fallbacks = map[Operation]string{
	OpSignIn: "Invalid email or password. Please try again.",
	OpSignUp: "Registration failed. Please try again.",
	OpReset:  "Failed to send reset email. Please try again later.",
	OpPopup:  "Google sign-in failed. Please try again.",
}

// Classify maps a provider error code to the message shown on screen.
// Unknown codes fall through to the operation's generic retry message;
// no provider code ever reaches the user verbatim.
func Classify(op Operation, code idp.Code) string {
	if msg, ok := messages[op][code]; ok {
		return msg
	}
	if msg, ok := fallbacks[op]; ok {
		return msg
	}
	return "Something went wrong. Please try again."
}
