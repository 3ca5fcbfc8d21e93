package httpx

import (
	"context"

	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
)

// snapshotKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type snapshotKey struct{}

// SetSnapshotInContext returns a child context that carries the given session
// snapshot. If snapshot is nil, the original ctx is returned unchanged.
func SetSnapshotInContext(ctx context.Context, snapshot *domainauth.SessionSnapshot) context.Context {
	if snapshot == nil {
		return ctx
	}
	return context.WithValue(ctx, snapshotKey{}, snapshot)
}

// SnapshotFromContext returns the session snapshot from context and a boolean
// indicating presence.
func SnapshotFromContext(ctx context.Context) (*domainauth.SessionSnapshot, bool) {
	if snapshot, ok := ctx.Value(snapshotKey{}).(*domainauth.SessionSnapshot); ok && snapshot != nil {
		return snapshot, true
	}
	return nil, false
}

// IsAuthenticated reports whether the current request context carries a
// validated session.
func IsAuthenticated(ctx context.Context) bool {
	s, ok := SnapshotFromContext(ctx)
	return ok && s.Authenticated()
}
