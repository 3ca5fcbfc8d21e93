package auth

// Package auth contains domain-level types for authentication, sessions, and
// access control. It is pure and free of framework/adapter concerns.

import "time"

// Principal is the authenticated identity attached to an active session,
// prior to re-validation against the user directory.
type Principal struct {
	ID    string
	Name  string
	Email string
	Image string
}

// Identity represents the authenticated principal returned by an IdP.
// Adapters map provider-specific claims into this shape.
type Identity struct {
	UserID    string // stable user identifier (e.g., sub)
	Name      string
	Email     string
	Image     string
	ExpiresAt time.Time // absolute expiry from IdP token
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     string    `json:"image,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Principal returns the principal view of the session row.
func (s Session) Principal() Principal {
	return Principal{ID: s.UserID, Name: s.Name, Email: s.Email, Image: s.Image}
}

// InvalidityReason classifies why a principal's backing account is unusable.
// The string values are the wire tags exposed on SessionSnapshot.Error.
type InvalidityReason string

const (
	ReasonUserNotFound InvalidityReason = "user-not-found"
	ReasonUserInactive InvalidityReason = "user-inactive"
	ReasonLookupFailed InvalidityReason = "database-error"
)

// User is the normalized account carried by a valid session. The nullable
// admin/agent flags from storage are coerced to strict booleans exactly once,
// when this value is constructed.
type User struct {
	ID         string
	Name       string
	Email      string
	Image      string
	IsAdmin    bool
	IsAgent    bool
	WishlistID string
}

// Validity is the re-computed, non-cached verdict on whether a principal's
// backing account is currently usable. Either User is set (valid) or Reason
// is set (invalid); never both.
type Validity struct {
	User   *User
	Reason InvalidityReason
}

// Valid constructs a Validity carrying the normalized user.
func Valid(u User) Validity { return Validity{User: &u} }

// Invalid constructs a Validity carrying a failure reason.
func Invalid(reason InvalidityReason) Validity { return Validity{Reason: reason} }

// IsValid reports whether the backing account passed validation.
func (v Validity) IsValid() bool { return v.Reason == "" && v.User != nil }

// SessionSnapshot is the boundary shape handed to the rest of the
// application. Error is the sole channel by which validity failures reach
// consumers; a snapshot carrying Error must never be treated as
// authenticated, even if a stale User is present.
type SessionSnapshot struct {
	User  *SnapshotUser    `json:"user,omitempty"`
	Error InvalidityReason `json:"error,omitempty"`
}

// SnapshotUser is the serialized user sub-object of a SessionSnapshot.
type SnapshotUser struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email"`
	Image      string `json:"image,omitempty"`
	IsAdmin    bool   `json:"isAdmin"`
	IsAgent    bool   `json:"isAgent"`
	WishlistID string `json:"wishlistId,omitempty"`
}

// Snapshot serializes the validity verdict into the boundary shape.
func (v Validity) Snapshot() SessionSnapshot {
	if !v.IsValid() {
		return SessionSnapshot{Error: v.Reason}
	}
	u := v.User
	return SessionSnapshot{User: &SnapshotUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Image:      u.Image,
		IsAdmin:    u.IsAdmin,
		IsAgent:    u.IsAgent,
		WishlistID: u.WishlistID,
	}}
}

// Authenticated reports whether the snapshot represents a usable session.
func (s SessionSnapshot) Authenticated() bool { return s.Error == "" && s.User != nil }

// Validity reconstructs the validation verdict the snapshot was built from,
// for callers (the access-control middleware) that feed it into Decide.
func (s SessionSnapshot) Validity() Validity {
	if s.Error != "" {
		return Invalid(s.Error)
	}
	if s.User == nil {
		return Validity{}
	}
	u := s.User
	return Valid(User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Image:      u.Image,
		IsAdmin:    u.IsAdmin,
		IsAgent:    u.IsAgent,
		WishlistID: u.WishlistID,
	})
}
