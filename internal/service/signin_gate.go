package service

import (
	"context"
	"errors"
	"log/slog"

	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
	"github.com/wayfarer-travel/wayfarer-go/internal/ports"
)

// SignInGate is the pre-session check that may refuse to let an IdP callback
// establish a session at all.
//
// The policy is asymmetric on purpose: a directory error for a known email
// fails closed (deny), while an identity carrying no usable email fails open
// (allow, since there is nothing to match an account against). Unifying the
// two branches is a policy question for the product owners, not something to
// change quietly here.
type SignInGate struct {
	directory ports.UserDirectory
	logger    *slog.Logger
}

// NewSignInGate constructs a gate over the given directory.
func NewSignInGate(directory ports.UserDirectory, logger *slog.Logger) *SignInGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &SignInGate{directory: directory, logger: logger}
}

// CanSignIn decides whether the identity returned by the provider may
// establish a session. Denial carries no reason back to the caller.
func (g *SignInGate) CanSignIn(ctx context.Context, identity domainauth.Identity) bool {
	if identity.Email == "" {
		return true
	}

	record, err := g.directory.ByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			// First-time sign-in; account materialization happens after
			// the gate.
			return true
		}
		g.logger.WarnContext(ctx, "sign-in gate lookup failed, denying", "error", err)
		return false
	}

	if !record.Active {
		g.logger.InfoContext(ctx, "sign-in refused for inactive account", "user_id", record.ID)
		return false
	}

	return true
}
