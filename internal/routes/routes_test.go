package routes

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db := testutil.NewDB(t)
	users := services.NewUserService(db)
	tokens := services.NewTokenService("secret", time.Hour)
	verifier := services.NewGoogleVerifierWithKeyfunc(nil, time.Second)

	app := fiber.New()
	Setup(app, Handlers{
		Auth:        handlers.NewAuthHandler(services.NewAuthService(verifier, users, tokens, ""), nil),
		Health:      handlers.NewHealthHandler(db),
		Connections: handlers.NewConnectionHandler(services.NewConnectionService(db)),
		Preferences: handlers.NewPreferenceHandler(services.NewPreferenceService(db), services.NewOnboardingService(db)),
	}, middleware.Authenticate(middleware.AuthConfig{Tokens: tokens, Users: users}))
	return app
}

func TestSetup_ProtectedRoutesRequireCredential(t *testing.T) {
	app := newApp(t)

	for _, route := range []struct{ method, path string }{
		{"GET", "/api/v1/connections"},
		{"POST", "/api/v1/connections"},
		{"GET", "/api/v1/connections/abc"},
		{"PUT", "/api/v1/connections/abc"},
		{"PATCH", "/api/v1/connections/abc"},
		{"DELETE", "/api/v1/connections/abc"},
		{"GET", "/api/v1/user_preferences"},
		{"PUT", "/api/v1/user_preferences"},
		{"PATCH", "/api/v1/user_preferences"},
		{"GET", "/api/v1/onboarding"},
	} {
		resp, err := app.Test(httptest.NewRequest(route.method, route.path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, route.method+" "+route.path)
	}
}

func TestSetup_PublicRoutes(t *testing.T) {
	app := newApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/up", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// No client id configured: sign-in reaches the handler and reports a server fault.
	req := httptest.NewRequest("POST", "/api/v1/auth/google", bytes.NewBufferString(`{"auth":{"id_token":"x"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestSetup_SignInRateLimit(t *testing.T) {
	app := newApp(t)

	var last int
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest("POST", "/api/v1/auth/google", bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		last = resp.StatusCode
	}
	assert.Equal(t, fiber.StatusTooManyRequests, last)
}
