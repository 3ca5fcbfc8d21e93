package service

import (
	"context"
	"errors"

	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
	"github.com/wayfarer-travel/wayfarer-go/internal/domain/model"
	"github.com/wayfarer-travel/wayfarer-go/internal/ports"
)

// SessionValidator re-validates a session's principal against the live
// account row. It runs on every session materialization, never once per
// login: a user deactivated after signing in loses access on their next
// session read. Results are never cached across calls.
type SessionValidator struct {
	directory ports.UserDirectory
}

// NewSessionValidator constructs a validator over the given directory.
func NewSessionValidator(directory ports.UserDirectory) *SessionValidator {
	return &SessionValidator{directory: directory}
}

// Validate reads the account row for principalID and computes a validity
// verdict. Storage errors are folded into the verdict; callers never see raw
// lookup failures.
func (v *SessionValidator) Validate(ctx context.Context, principalID string) domainauth.Validity {
	record, err := v.directory.ByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return domainauth.Invalid(domainauth.ReasonUserNotFound)
		}
		return domainauth.Invalid(domainauth.ReasonLookupFailed)
	}

	if !record.Active {
		return domainauth.Invalid(domainauth.ReasonUserInactive)
	}

	return domainauth.Valid(normalizeUser(record))
}

// normalizeUser is the one place that owns nullable-to-strict coercion of
// account fields.
func normalizeUser(r *model.UserRecord) domainauth.User {
	return domainauth.User{
		ID:         r.ID,
		Name:       derefString(r.Name),
		Email:      r.Email,
		Image:      derefString(r.Image),
		IsAdmin:    derefBool(r.IsAdmin),
		IsAgent:    derefBool(r.IsAgent),
		WishlistID: derefString(r.WishlistID),
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	return b != nil && *b
}
