package flow

import (
	"context"

	"github.com/tkerns/gatehouse/internal/idp"
	"github.com/tkerns/gatehouse/internal/logger"
)

// Login drives the sign-in screen.
type Login struct {
	client idp.Client
	state  state
}

// NewLogin creates the sign-in flow around the given provider client.
func NewLogin(client idp.Client) *Login {
	return &Login{client: client}
}

// Submit runs one submission cycle: validate locally, then sign in with
// the provider. A submission arriving while another is in flight is a
// no-op and keeps the screen unchanged.
func (l *Login) Submit(ctx context.Context, email, password string) Result {
	if !l.state.enter() {
		return Result{}
	}

	if msg := validateLogin(email, password); msg != "" {
		l.state.settle(PhaseFailed)
		return Result{Error: msg}
	}

	l.state.submit()
	_, err := l.client.SignIn(ctx, email, password)
	if err != nil {
		logger.Debug("sign-in rejected", "code", idp.CodeOf(err))
		l.state.settle(PhaseFailed)
		return Result{Error: Classify(OpSignIn, idp.CodeOf(err))}
	}

	l.state.settle(PhaseSucceeded)
	return Result{Redirect: "/dashboard"}
}

// Phase exposes the flow's current phase.
func (l *Login) Phase() Phase {
	return l.state.Phase()
}
