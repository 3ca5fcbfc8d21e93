package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
	"github.com/wayfarer-travel/wayfarer-go/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider  ports.AuthProvider
	Sessions  ports.SessionStore
	Directory ports.UserDirectory
	Logger    *slog.Logger
}

// AuthService orchestrates authentication flows: it runs the sign-in gate
// before any session is created, materializes sessions through the validator
// on every read, and performs the fire-and-forget lifecycle side effects.
type AuthService struct {
	provider  ports.AuthProvider
	sessions  ports.SessionStore
	directory ports.UserDirectory
	validator *SessionValidator
	gate      *SignInGate
	logger    *slog.Logger
}

// ErrSessionExpired is returned when a presented session has passed its expiry.
var ErrSessionExpired = errors.New("session expired")

// ErrSignInRefused is returned when the sign-in gate denies a provider callback.
var ErrSignInRefused = errors.New("sign-in refused")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider:  opts.Provider,
		sessions:  opts.Sessions,
		directory: opts.Directory,
		validator: NewSessionValidator(opts.Directory),
		gate:      NewSignInGate(opts.Directory, logger),
		logger:    logger,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates an authentication flow and returns the provider auth
// URL with state and nonce.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin completes an authentication flow: it exchanges the code for
// an identity, runs the sign-in gate, materializes the account row on first
// sign-in, persists a session, and stamps the last-login time (best effort;
// a failed stamp never blocks sign-in).
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  input.Code,
		State: input.State,
		Nonce: input.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	if !s.gate.CanSignIn(ctx, identity) {
		return nil, ErrSignInRefused
	}

	record, err := s.directory.EnsureUser(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("ensure user record: %w", err)
	}

	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    record.ID,
		Name:      identity.Name,
		Email:     identity.Email,
		Image:     identity.Image,
		ExpiresAt: identity.ExpiresAt,
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	if touchErr := s.directory.TouchLastLogin(ctx, record.ID); touchErr != nil {
		s.logger.WarnContext(ctx, "last-login stamp failed", "user_id", record.ID, "error", touchErr)
	}

	return &CompleteLoginResult{Session: session}, nil
}

// ResolveSession materializes the session snapshot for a session ID. Every
// materialization re-validates the principal against the live account row;
// there is no other constructor for a snapshot, so no snapshot escapes
// without having passed validation.
//
// A missing or expired session returns (nil, error): the caller is simply
// not logged in. A present session whose account fails validation returns a
// snapshot carrying only the error tag.
func (s *AuthService) ResolveSession(ctx context.Context, sessionID string) (*domainauth.SessionSnapshot, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	validity := s.validator.Validate(ctx, session.Principal().ID)
	snapshot := validity.Snapshot()
	return &snapshot, nil
}

// Logout removes the presented session and, as cleanup, every other session
// row belonging to the same principal. No authorization decision is involved.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to log out.
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		// Unknown session; still clear the presented ID.
		return s.sessions.Delete(ctx, sessionID)
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if err := s.sessions.DeleteForUser(ctx, session.UserID); err != nil {
		return fmt.Errorf("delete sessions for user: %w", err)
	}

	return nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
