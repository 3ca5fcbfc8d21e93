package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/wayfarer-travel/wayfarer-go/internal/domain/auth"
)

func loadFromEnv(t *testing.T, vars map[string]string) *AppConfig {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	return &cfg
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := loadFromEnv(t, nil)

	assert.False(t, cfg.IsDev)
	assert.Equal(t, AuthModeOAuth, cfg.Auth.Mode)
	assert.Equal(t, 8*time.Hour, cfg.Auth.SessionDuration)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "wayfarer", cfg.Postgres.User)
	assert.Equal(t, "localhost:8125", cfg.Observability.StatsdAddr)
}

func TestAppConfig_DefaultRouteLists(t *testing.T) {
	cfg := loadFromEnv(t, nil)

	assert.Equal(t, []string{"/login", "/register", "/auth/signin", "/auth/signup", "/auth/error", "/auth/verify-request"}, cfg.Routes.Auth)
	assert.Equal(t, []string{"/", "/about", "/contact", "/pricing", "/features", "/blog", "/terms", "/privacy"}, cfg.Routes.Public)
	assert.Equal(t, []string{"/das"}, cfg.Routes.Admin)
	assert.Equal(t, []string{"/dashboard", "/profile", "/settings", "/account"}, cfg.Routes.Protected)
}

func TestRoutesConfig_TableClassifiesDefaults(t *testing.T) {
	table := loadFromEnv(t, nil).Routes.Table()

	assert.Equal(t, domainauth.CategoryAuth, table.Classify("/login"))
	assert.Equal(t, domainauth.CategoryPublic, table.Classify("/about"))
	assert.Equal(t, domainauth.CategoryAdmin, table.Classify("/das"))
	assert.Equal(t, domainauth.CategoryProtected, table.Classify("/dashboard"))
	assert.Equal(t, domainauth.CategoryDefault, table.Classify("/api/trips"))
}

func TestRoutesConfig_OverrideAndSanitize(t *testing.T) {
	cfg := loadFromEnv(t, map[string]string{
		"ROUTES_PROTECTED": "/bookings,/itineraries,",
	})

	assert.Equal(t, []string{"/bookings", "/itineraries"}, cfg.Routes.Protected,
		"trailing commas must not leave empty patterns")
	assert.Equal(t, domainauth.CategoryProtected, cfg.Routes.Table().Classify("/bookings/42"))
}

func TestAuthMode_UnmarshalText(t *testing.T) {
	var m AuthMode
	require.NoError(t, m.UnmarshalText([]byte("MOCK")))
	assert.Equal(t, AuthModeMock, m)

	require.NoError(t, m.UnmarshalText([]byte("oauth")))
	assert.Equal(t, AuthModeOAuth, m)

	assert.Error(t, m.UnmarshalText([]byte("saml")))
}

func TestAppConfig_AuthModeFromEnv(t *testing.T) {
	cfg := loadFromEnv(t, map[string]string{
		"AUTH_MODE":           "mock",
		"DEV_AUTH_EMAIL":      "tester@example.com",
		"OAUTH_DISCOVERY_URL": "https://idp.example.com",
	})

	assert.Equal(t, AuthModeMock, cfg.Auth.Mode)
	assert.Equal(t, "tester@example.com", cfg.Auth.DevAuth.Email)
	assert.Equal(t, "https://idp.example.com", cfg.Auth.OAuth.DiscoveryURL)
}

func TestAppConfig_DevModeFromNodeEnv(t *testing.T) {
	cfg := loadFromEnv(t, map[string]string{"NODE_ENV": "development"})
	assert.True(t, cfg.IsDev)
}

func TestHTTPConfig_SanitizeClampsShutdownTimeout(t *testing.T) {
	cfg := loadFromEnv(t, map[string]string{"HTTP_SHUTDOWN_TIMEOUT": "0s"})
	assert.Positive(t, cfg.HTTP.ShutdownTimeout)
}
