package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration
// in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
	"github.com/wayfarer-travel/wayfarer-go/internal/domain/model"
)

// ErrUserNotFound is returned by UserDirectory lookups when no account row
// exists. Implementations must map their driver's no-rows condition to this
// sentinel so callers can distinguish absence from lookup failure.
var ErrUserNotFound = errors.New("user not found")

// UserDirectory reads and touches canonical account rows. All reads are
// single, idempotent queries; no caching is permitted behind this interface.
type UserDirectory interface {
	// ByID returns the account row for a principal id, or ErrUserNotFound.
	ByID(ctx context.Context, id string) (*model.UserRecord, error)

	// ByEmail returns the account row for an email, or ErrUserNotFound.
	ByEmail(ctx context.Context, email string) (*model.UserRecord, error)

	// EnsureUser returns the row matching the identity's email, creating it
	// on first sign-in. Creation races resolve to the existing row.
	EnsureUser(ctx context.Context, identity domainauth.Identity) (*model.UserRecord, error)

	// TouchLastLogin stamps the account's last-login time.
	TouchLastLogin(ctx context.Context, id string) error
}

// SessionStore persists and retrieves server-side session rows.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error

	// DeleteForUser removes every session row belonging to the user.
	DeleteForUser(ctx context.Context, userID string) error
}

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}
