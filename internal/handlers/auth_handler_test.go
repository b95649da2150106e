package handlers

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signInBody(token string) map[string]any {
	return map[string]any{"auth": map[string]any{"id_token": token}}
}

func TestGoogleSignIn_CreatesThenUpdatesUser(t *testing.T) {
	env := newTestEnv(t)
	env.verifier.identity = &services.VerifiedIdentity{
		Issuer: models.ProviderGoogle, Subject: "12345", Email: "a@b.com", Name: "A", Picture: "https://example.com/a.jpg",
	}

	status, body := env.do(t, "POST", "/api/v1/auth/google", "", signInBody("google-token"))
	require.Equal(t, fiber.StatusOK, status, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, "A", user["name"])
	assert.Equal(t, "https://example.com/a.jpg", user["avatar_url"])
	firstID := user["id"]

	claims, err := env.tokens.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, firstID, claims.UserID)

	env.verifier.identity.Name = "B"
	status, body = env.do(t, "POST", "/api/v1/auth/google", "", signInBody("google-token"))
	require.Equal(t, fiber.StatusOK, status)
	user = body["user"].(map[string]any)
	assert.Equal(t, firstID, user["id"])
	assert.Equal(t, "B", user["name"])

	var stored []models.User
	require.NoError(t, env.db.Find(&stored).Error)
	require.Len(t, stored, 1)
	assert.Equal(t, "google", stored[0].Provider)
	assert.Equal(t, "12345", stored[0].ProviderID)
	assert.Equal(t, []string{"success", "success"}, env.recorder.signIns)
}

func TestGoogleSignIn_RequestShape(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name    string
		body    any
		message string
	}{
		{"empty body", "{}", "Missing auth parameter"},
		{"malformed json", "{", "Missing auth parameter"},
		{"null auth", map[string]any{"auth": nil}, "Missing auth parameter"},
		{"missing id token", map[string]any{"auth": map[string]any{}}, "Missing ID token"},
		{"blank id token", signInBody("   "), "Missing ID token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := env.do(t, "POST", "/api/v1/auth/google", "", tc.body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, tc.message, body["error"])
		})
	}
	assert.Zero(t, env.verifier.calls)
}

func TestGoogleSignIn_VerifierFailures(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{services.ErrAssertionInvalid, fiber.StatusUnauthorized, "Invalid or expired token"},
		{services.ErrIncompletePayload, fiber.StatusUnauthorized, "Invalid token payload"},
		{services.ErrEmailUnverified, fiber.StatusUnauthorized, "Email not verified with Google"},
		{services.ErrVerifierUnavailable, fiber.StatusInternalServerError, "Authentication service unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			env := newTestEnv(t)
			env.verifier.err = tc.err

			status, body := env.do(t, "POST", "/api/v1/auth/google", "", signInBody("google-token"))
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.message, body["error"])

			var count int64
			require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestGoogleSignIn_RejectionDoesNotMutateExistingUser(t *testing.T) {
	for _, rejection := range []error{services.ErrEmailUnverified, services.ErrIncompletePayload} {
		t.Run(rejection.Error(), func(t *testing.T) {
			env := newTestEnv(t)
			env.verifier.identity = &services.VerifiedIdentity{
				Issuer: models.ProviderGoogle, Subject: "12345", Email: "a@b.com", Name: "A", Picture: "https://example.com/a.jpg",
			}
			status, _ := env.do(t, "POST", "/api/v1/auth/google", "", signInBody("google-token"))
			require.Equal(t, fiber.StatusOK, status)

			var before models.User
			require.NoError(t, env.db.First(&before).Error)

			env.verifier.identity = &services.VerifiedIdentity{
				Issuer: models.ProviderGoogle, Subject: "12345", Email: "new@b.com", Name: "B", Picture: "https://example.com/b.jpg",
			}
			env.verifier.err = rejection
			status, _ = env.do(t, "POST", "/api/v1/auth/google", "", signInBody("google-token"))
			assert.Equal(t, fiber.StatusUnauthorized, status)

			var stored []models.User
			require.NoError(t, env.db.Find(&stored).Error)
			require.Len(t, stored, 1)
			assert.Equal(t, before.ID, stored[0].ID)
			assert.Equal(t, "a@b.com", stored[0].Email)
			assert.Equal(t, "A", stored[0].Name)
			require.NotNil(t, stored[0].AvatarURL)
			assert.Equal(t, "https://example.com/a.jpg", *stored[0].AvatarURL)
			assert.True(t, before.UpdatedAt.Equal(stored[0].UpdatedAt))
		})
	}
}

func TestGoogleSignIn_UserValidationFailure(t *testing.T) {
	env := newTestEnv(t)
	env.verifier.identity = &services.VerifiedIdentity{
		Issuer: models.ProviderGoogle, Subject: "12345", Email: "not-an-email", Name: "A",
	}

	status, body := env.do(t, "POST", "/api/v1/auth/google", "", signInBody("google-token"))
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "User validation failed", body["error"])
	assert.Equal(t, []any{"Email must be in a valid format"}, body["details"])
	assert.Equal(t, []string{"invalid_user"}, env.recorder.signIns)
}

func TestGoogleSignIn_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signIn(t, "other-subject", "a@b.com")
	env.verifier.identity = &services.VerifiedIdentity{
		Issuer: models.ProviderGoogle, Subject: "12345", Email: "a@b.com", Name: "A",
	}

	status, body := env.do(t, "POST", "/api/v1/auth/google", "", signInBody("google-token"))
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "User creation failed due to duplicate data", body["error"])
}

func TestGoogleSignIn_MissingSigningSecret(t *testing.T) {
	env := newTestEnv(t)
	verifier := &verifierStub{identity: &services.VerifiedIdentity{
		Issuer: models.ProviderGoogle, Subject: "12345", Email: "a@b.com", Name: "A",
	}}
	tokens := services.NewTokenService("", 0)
	handler := NewAuthHandler(services.NewAuthService(verifier, env.users, tokens, "cid"), nil)
	app := fiber.New()
	app.Post("/google", handler.GoogleSignIn)
	env.app = app

	status, body := env.do(t, "POST", "/google", "", signInBody("google-token"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Token generation failed", body["error"])
}

func TestWriteAuthError_HidesUnexpectedDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeAuthError(c, assert.AnError)
	})
	env := &testEnv{app: app}

	status, body := env.do(t, "GET", "/", "", nil)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Authentication failed", body["error"])
	assert.NotContains(t, body, "details")
}
