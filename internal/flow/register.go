package flow

import (
	"context"

	"github.com/tkerns/gatehouse/internal/idp"
	"github.com/tkerns/gatehouse/internal/logger"
)

// Register drives the account-creation screen.
type Register struct {
	client idp.Client
	state  state
}

// NewRegister creates the registration flow around the given provider
// client.
func NewRegister(client idp.Client) *Register {
	return &Register{client: client}
}

// Submit runs one registration cycle. Local checks run in fixed order
// (required fields, email shape, password length, confirmation match);
// the first failure stops the cycle before any provider call.
func (r *Register) Submit(ctx context.Context, email, password, confirm string) Result {
	if !r.state.enter() {
		return Result{}
	}

	if msg := validateRegister(email, password, confirm); msg != "" {
		r.state.settle(PhaseFailed)
		return Result{Error: msg}
	}

	r.state.submit()
	_, err := r.client.SignUp(ctx, email, password)
	if err != nil {
		logger.Debug("sign-up rejected", "code", idp.CodeOf(err))
		r.state.settle(PhaseFailed)
		return Result{Error: Classify(OpSignUp, idp.CodeOf(err))}
	}

	r.state.settle(PhaseSucceeded)
	return Result{Redirect: "/dashboard"}
}

// Phase exposes the flow's current phase.
func (r *Register) Phase() Phase {
	return r.state.Phase()
}
