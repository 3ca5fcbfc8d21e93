package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validUser() Validity {
	return Valid(User{ID: "u1", Email: "agent@example.com"})
}

func TestDecide_PublicAlwaysAllowed(t *testing.T) {
	assert.True(t, Decide(CategoryPublic, false, Validity{}, "/about").Allowed())
	assert.True(t, Decide(CategoryPublic, true, validUser(), "/about").Allowed())
	assert.True(t, Decide(CategoryPublic, true, Invalid(ReasonUserInactive), "/about").Allowed())
}

func TestDecide_DefaultAlwaysAllowed(t *testing.T) {
	assert.True(t, Decide(CategoryDefault, false, Validity{}, "/api/trips").Allowed())
	assert.True(t, Decide(CategoryDefault, true, validUser(), "/api/trips").Allowed())
}

func TestDecide_AuthRoute_RedirectsHomeWhenAuthenticated(t *testing.T) {
	v := Decide(CategoryAuth, true, validUser(), "/login")
	assert.False(t, v.Allowed())
	assert.Equal(t, "/", v.RedirectURL)
}

func TestDecide_AuthRoute_AllowedWhenLoggedOut(t *testing.T) {
	assert.True(t, Decide(CategoryAuth, false, Validity{}, "/login").Allowed())
}

func TestDecide_AuthRoute_AllowedWhenSessionInvalid(t *testing.T) {
	// A session whose account failed re-validation is not authenticated, so
	// the login screen stays reachable.
	for _, reason := range []InvalidityReason{ReasonUserNotFound, ReasonUserInactive, ReasonLookupFailed} {
		v := Decide(CategoryAuth, true, Invalid(reason), "/login")
		assert.True(t, v.Allowed(), "reason %s", reason)
	}
}

func TestDecide_ProtectedRoute_RedirectsToLoginWithCallback(t *testing.T) {
	v := Decide(CategoryProtected, false, Validity{}, "/dashboard")
	assert.False(t, v.Allowed())
	assert.Equal(t, "/login?callbackUrl=%2Fdashboard", v.RedirectURL)
}

func TestDecide_ProtectedRoute_CallbackPreservesQuery(t *testing.T) {
	v := Decide(CategoryProtected, false, Validity{}, "/dashboard/trips?page=2")
	assert.Equal(t, "/login?callbackUrl=%2Fdashboard%2Ftrips%3Fpage%3D2", v.RedirectURL)
}

func TestDecide_ProtectedRoute_AllowedWhenAuthenticated(t *testing.T) {
	assert.True(t, Decide(CategoryProtected, true, validUser(), "/dashboard").Allowed())
}

func TestDecide_ProtectedRoute_InvalidSessionTreatedAsLoggedOut(t *testing.T) {
	for _, reason := range []InvalidityReason{ReasonUserNotFound, ReasonUserInactive, ReasonLookupFailed} {
		v := Decide(CategoryProtected, true, Invalid(reason), "/dashboard")
		assert.Equal(t, "/login?callbackUrl=%2Fdashboard", v.RedirectURL, "reason %s", reason)
	}
}

func TestDecide_AdminRoute_RequiresAuthenticationOnly(t *testing.T) {
	// Any authenticated user passes the admin category; the admin flag is
	// not consulted.
	nonAdmin := Valid(User{ID: "u1", Email: "agent@example.com", IsAdmin: false})
	assert.True(t, Decide(CategoryAdmin, true, nonAdmin, "/das").Allowed())

	admin := Valid(User{ID: "u2", Email: "boss@example.com", IsAdmin: true})
	assert.True(t, Decide(CategoryAdmin, true, admin, "/das").Allowed())
}

func TestDecide_AdminRoute_RedirectsToLoginWhenLoggedOut(t *testing.T) {
	v := Decide(CategoryAdmin, false, Validity{}, "/das")
	assert.Equal(t, "/login?callbackUrl=%2Fdas", v.RedirectURL)
}

func TestDecide_IsPure_NoReasonDistinction(t *testing.T) {
	// Every invalidity reason yields the identical verdict per category.
	for _, cat := range []RouteCategory{CategoryAuth, CategoryPublic, CategoryAdmin, CategoryProtected, CategoryDefault} {
		base := Decide(cat, true, Invalid(ReasonUserNotFound), "/p")
		for _, reason := range []InvalidityReason{ReasonUserInactive, ReasonLookupFailed} {
			assert.Equal(t, base, Decide(cat, true, Invalid(reason), "/p"), "category %s reason %s", cat, reason)
		}
	}
}

func TestLoginURL_EscapesPath(t *testing.T) {
	assert.Equal(t, "/login?callbackUrl=%2Fsettings%2Fbilling", LoginURL("/settings/billing"))
}
