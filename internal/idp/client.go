package idp

import (
	"context"

	"github.com/tkerns/gatehouse/internal/session"
)

// Client is the surface of the hosted identity provider that gatehouse
// consumes. Every credential check, password hash, token mint and reset
// email happens on the provider's side; implementations only carry
// requests across and report the provider's verdict.
type Client interface {
	// SignIn validates email+password with the provider. On success the
	// returned session becomes current.
	SignIn(ctx context.Context, email, password string) (*session.Session, error)

	// SignUp creates an account and signs it in.
	SignUp(ctx context.Context, email, password string) (*session.Session, error)

	// SendPasswordReset asks the provider to email a reset link.
	SendPasswordReset(ctx context.Context, email string) error

	// SignOut discards the current session.
	SignOut(ctx context.Context) error
}
