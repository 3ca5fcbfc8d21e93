package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
	"github.com/wayfarer-travel/wayfarer-go/internal/service"
)

func cookieByName(t *testing.T, res *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthHandlers_Login_SetsOAuthCookiesAndRedirects(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/dashboard", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example.com/authorize", rec.Header().Get("Location"))

	res := rec.Result()
	defer func() { _ = res.Body.Close() }()

	state := cookieByName(t, res, "oauth_state")
	require.NotNil(t, state)
	assert.Equal(t, "state-1", state.Value)
	assert.True(t, state.HttpOnly)

	nonce := cookieByName(t, res, "oauth_nonce")
	require.NotNil(t, nonce)
	assert.Equal(t, "nonce-1", nonce.Value)

	redirect := cookieByName(t, res, "post_login_redirect")
	require.NotNil(t, redirect)
	assert.Equal(t, "/dashboard", redirect.Value)
}

func TestAuthHandlers_Login_RejectsAbsoluteRedirect(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=https://evil.example.com/", nil)
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	res := rec.Result()
	defer func() { _ = res.Body.Close() }()

	redirect := cookieByName(t, res, "post_login_redirect")
	require.NotNil(t, redirect)
	assert.Equal(t, "/", redirect.Value, "absolute URLs collapse to the root path")
}

func TestAuthHandlers_Callback_Success(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	auth := &mockAuthService{
		CompleteLoginFunc: func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			assert.Equal(t, "code-1", input.Code)
			assert.Equal(t, "state-1", input.State)
			assert.Equal(t, "nonce-1", input.Nonce)
			return &service.CompleteLoginResult{
				Session: domainauth.Session{ID: "sess-1", UserID: "u1", Email: "ada@example.com", ExpiresAt: expiry},
			}, nil
		},
	}
	h := &AuthHandlers{Svc: auth}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=code-1&state=state-1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nonce-1"})
	req.AddCookie(&http.Cookie{Name: "post_login_redirect", Value: "/dashboard"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	res := rec.Result()
	defer func() { _ = res.Body.Close() }()

	sess := cookieByName(t, res, SessionCookieName)
	require.NotNil(t, sess)
	assert.Equal(t, "sess-1", sess.Value)
	assert.True(t, sess.HttpOnly)
	assert.Positive(t, sess.MaxAge)

	// The temporary OAuth cookies are cleared.
	state := cookieByName(t, res, "oauth_state")
	require.NotNil(t, state)
	assert.Negative(t, state.MaxAge)
}

func TestAuthHandlers_Callback_MissingCode(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=state-1", nil)
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlers_Callback_StateMismatch(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=code-1&state=tampered", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlers_Callback_RefusedSignInRedirectsToErrorPage(t *testing.T) {
	auth := &mockAuthService{
		CompleteLoginFunc: func(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error) {
			return nil, service.ErrSignInRefused
		},
	}
	h := &AuthHandlers{Svc: auth}

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?code=code-1&state=state-1", nil)
	req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "state-1"})
	req.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nonce-1"})
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/error?error=AccessDenied", rec.Header().Get("Location"))

	res := rec.Result()
	defer func() { _ = res.Body.Close() }()
	assert.Nil(t, cookieByName(t, res, SessionCookieName), "no session cookie for a refused sign-in")
}

func TestAuthHandlers_Logout_ClearsCookieAndDeletesSessions(t *testing.T) {
	var loggedOut string
	auth := &mockAuthService{
		LogoutFunc: func(ctx context.Context, sessionID string) error {
			loggedOut = sessionID
			return nil
		},
	}
	h := &AuthHandlers{Svc: auth}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(sessionCookie("sess-1"))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, "sess-1", loggedOut)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	res := rec.Result()
	defer func() { _ = res.Body.Close() }()

	sess := cookieByName(t, res, SessionCookieName)
	require.NotNil(t, sess)
	assert.Empty(t, sess.Value)
	assert.Negative(t, sess.MaxAge)
}

func TestAuthHandlers_Logout_ServerErrorStillClearsCookie(t *testing.T) {
	auth := &mockAuthService{
		LogoutFunc: func(ctx context.Context, sessionID string) error {
			return assert.AnError
		},
	}
	h := &AuthHandlers{Svc: auth}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(sessionCookie("sess-1"))
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)

	res := rec.Result()
	defer func() { _ = res.Body.Close() }()
	sess := cookieByName(t, res, SessionCookieName)
	require.NotNil(t, sess)
	assert.Negative(t, sess.MaxAge)
}

func TestAuthHandlers_Logout_JSONResponseWhenRequested(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout?redirect_uri=/about", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","redirect_to":"/about"}`, rec.Body.String())
}

func TestAuthHandlers_Session_NoCookie(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	rec := httptest.NewRecorder()
	h.Session(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestAuthHandlers_Session_ValidSession(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{ResolveSessionFunc: resolveValidUser}}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(sessionCookie("sess-1"))
	rec := httptest.NewRecorder()
	h.Session(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":{"id":"u1","email":"ada@example.com","isAdmin":false,"isAgent":false}}`, rec.Body.String())
}

func TestAuthHandlers_Session_InvalidAccountCarriesErrorTag(t *testing.T) {
	auth := &mockAuthService{
		ResolveSessionFunc: func(ctx context.Context, sessionID string) (*domainauth.SessionSnapshot, error) {
			snap := domainauth.Invalid(domainauth.ReasonLookupFailed).Snapshot()
			return &snap, nil
		},
	}
	h := &AuthHandlers{Svc: auth}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(sessionCookie("sess-1"))
	rec := httptest.NewRecorder()
	h.Session(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"database-error"}`, rec.Body.String())
}

func TestAuthHandlers_Session_ExpiredSessionClearsCookie(t *testing.T) {
	h := &AuthHandlers{Svc: &mockAuthService{}} // ResolveSession errors by default

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(sessionCookie("stale"))
	rec := httptest.NewRecorder()
	h.Session(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	res := rec.Result()
	defer func() { _ = res.Body.Close() }()
	sess := cookieByName(t, res, SessionCookieName)
	require.NotNil(t, sess)
	assert.Negative(t, sess.MaxAge)
}

func TestNewRouter_HealthEndpointBypassesAuth(t *testing.T) {
	router := NewRouter(RouterServices{Auth: &mockAuthService{}, Routes: testRouteTable()})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestNewRouter_GatesAppRoutes(t *testing.T) {
	router := NewRouter(RouterServices{Auth: &mockAuthService{}, Routes: testRouteTable()})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fdashboard", rec.Header().Get("Location"))
}
