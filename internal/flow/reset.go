package flow

import (
	"context"

	"github.com/tkerns/gatehouse/internal/idp"
	"github.com/tkerns/gatehouse/internal/logger"
	"github.com/tkerns/gatehouse/internal/notify"
)

// Reset drives the password-reset screen. Unlike the other flows it
// never navigates: success clears the input and shows a persistent
// message, and both outcomes raise a toast.
type Reset struct {
	client idp.Client
	toasts *notify.Center
	state  state
}

// NewReset creates the password-reset flow.
func NewReset(client idp.Client, toasts *notify.Center) *Reset {
	return &Reset{client: client, toasts: toasts}
}

// Submit runs one reset cycle: validate the email locally, probe
// whether it has an account, then ask the provider to send the reset
// link. The probe short-circuits the cycle when it reports the email as
// unregistered, so no reset email is dispatched for unknown addresses.
func (r *Reset) Submit(ctx context.Context, email string) Result {
	if !r.state.enter() {
		return Result{}
	}

	if msg := validateReset(email); msg != "" {
		r.state.settle(PhaseFailed)
		return Result{Error: msg}
	}

	r.state.submit()

	if !EmailRegistered(ctx, r.client, email) {
		r.state.settle(PhaseFailed)
		r.toasts.Push("Email not registered!", notify.SeverityError)
		return Result{Error: Classify(OpReset, idp.CodeUserNotFound)}
	}

	if err := r.client.SendPasswordReset(ctx, email); err != nil {
		code := idp.CodeOf(err)
		logger.Debug("reset email rejected", "code", code)
		r.state.settle(PhaseFailed)
		r.toasts.Push(resetToast(code), notify.SeverityError)
		return Result{Error: Classify(OpReset, code)}
	}

	r.state.settle(PhaseSucceeded)
	r.toasts.Push("Reset link sent to your email!", notify.SeveritySuccess)
	return Result{
		Message:    "Password reset email sent successfully! Please check your inbox and spam folder.",
		ClearInput: true,
	}
}

// Phase exposes the flow's current phase.
func (r *Reset) Phase() Phase {
	return r.state.Phase()
}

// resetToast picks the short toast line for a failed dispatch.
func resetToast(code idp.Code) string {
	switch code {
	case idp.CodeUserNotFound:
		return "Email not registered!"
	case idp.CodeInvalidEmail:
		return "Invalid email format!"
	case idp.CodeTooManyRequests:
		return "Too many attempts. Wait before trying again!"
	case idp.CodeNetworkFailure:
		return "Network error. Check your connection!"
	default:
		return "Failed to send reset email!"
	}
}
