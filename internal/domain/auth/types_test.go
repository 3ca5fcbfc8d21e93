package auth

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidity_Snapshot_ValidCarriesUser(t *testing.T) {
	v := Valid(User{
		ID:         "u1",
		Name:       "Ada Agent",
		Email:      "ada@example.com",
		IsAgent:    true,
		WishlistID: "w1",
	})

	snap := v.Snapshot()
	require.NotNil(t, snap.User)
	assert.Empty(t, snap.Error)
	assert.True(t, snap.Authenticated())
	assert.Equal(t, "u1", snap.User.ID)
	assert.True(t, snap.User.IsAgent)
	assert.False(t, snap.User.IsAdmin)
	assert.Equal(t, "w1", snap.User.WishlistID)
}

func TestValidity_Snapshot_InvalidCarriesOnlyError(t *testing.T) {
	for _, reason := range []InvalidityReason{ReasonUserNotFound, ReasonUserInactive, ReasonLookupFailed} {
		snap := Invalid(reason).Snapshot()
		assert.Nil(t, snap.User, "reason %s", reason)
		assert.Equal(t, reason, snap.Error)
		assert.False(t, snap.Authenticated())
	}
}

func TestSessionSnapshot_JSONShape(t *testing.T) {
	snap := Valid(User{ID: "u1", Email: "ada@example.com", IsAdmin: true}).Snapshot()

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":{"id":"u1","email":"ada@example.com","isAdmin":true,"isAgent":false}}`, string(raw))
}

func TestSessionSnapshot_JSONShape_Error(t *testing.T) {
	raw, err := json.Marshal(Invalid(ReasonLookupFailed).Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"database-error"}`, string(raw))
}

func TestSessionSnapshot_JSONShape_Empty(t *testing.T) {
	raw, err := json.Marshal(SessionSnapshot{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestSessionSnapshot_Validity_RoundTrip(t *testing.T) {
	valid := Valid(User{ID: "u1", Email: "ada@example.com", IsAgent: true})
	assert.Equal(t, valid, valid.Snapshot().Validity())

	invalid := Invalid(ReasonUserInactive)
	assert.Equal(t, invalid, invalid.Snapshot().Validity())
}

func TestSession_Principal(t *testing.T) {
	s := Session{
		ID:        "sess-1",
		UserID:    "u1",
		Name:      "Ada Agent",
		Email:     "ada@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	p := s.Principal()
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "ada@example.com", p.Email)
}
