package flow

import (
	"context"

	"github.com/tkerns/gatehouse/internal/idp"
	"github.com/tkerns/gatehouse/internal/logger"
)

// probePassword is the deliberately wrong password used by the
// existence probe. It only needs to be something no real account uses.
const probePassword = "gatehouse-existence-probe"

// EmailRegistered infers whether an email has an account by attempting a
// sign-in with a known-wrong password and classifying the rejection.
//
// This is a heuristic, not a reliable existence check: the provider
// offers no direct query (to prevent enumeration), so the probe reads
// the tea leaves of a real failed authentication attempt. It is biased
// fail-open — any code outside the two "definitely absent" ones counts
// as registered, so a congested or misbehaving provider lets the reset
// attempt proceed rather than blocking a legitimate user. The attempt
// is real and counts against the provider's rate limits, which is why
// too-many-requests also maps to "registered".
func EmailRegistered(ctx context.Context, client idp.Client, email string) bool {
	_, err := client.SignIn(ctx, email, probePassword)
	if err == nil {
		// The probe password matched. Vanishingly unlikely, but it
		// proves the account exists.
		logger.Warn("existence probe signed in with the probe password", "email", email)
		return true
	}

	switch idp.CodeOf(err) {
	case idp.CodeWrongPassword, idp.CodeTooManyRequests:
		return true
	case idp.CodeUserNotFound, idp.CodeInvalidEmail:
		return false
	default:
		return true
	}
}
