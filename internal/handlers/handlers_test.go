package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test_jwt_secret_key"

type verifierStub struct {
	identity *services.VerifiedIdentity
	err      error
	calls    int
}

func (v *verifierStub) Verify(_ context.Context, _, _ string) (*services.VerifiedIdentity, error) {
	v.calls++
	return v.identity, v.err
}

type recorderStub struct {
	signIns []string
}

func (r *recorderStub) RecordSignIn(outcome string) { r.signIns = append(r.signIns, outcome) }
func (r *recorderStub) RecordAuthRejection(string)  {}

// testEnv wires the handlers against an in-memory database.
type testEnv struct {
	app      *fiber.App
	db       *gorm.DB
	users    *services.UserService
	tokens   *services.TokenService
	verifier *verifierStub
	recorder *recorderStub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	env := &testEnv{
		app:      fiber.New(),
		db:       db,
		users:    services.NewUserService(db),
		tokens:   services.NewTokenService(testSecret, time.Hour),
		verifier: &verifierStub{},
		recorder: &recorderStub{},
	}

	auth := NewAuthHandler(services.NewAuthService(env.verifier, env.users, env.tokens, "cid"), env.recorder)
	connections := NewConnectionHandler(services.NewConnectionService(db))
	preferences := NewPreferenceHandler(services.NewPreferenceService(db), services.NewOnboardingService(db))
	authenticate := middleware.Authenticate(middleware.AuthConfig{Tokens: env.tokens, Users: env.users})

	env.app.Post("/api/v1/auth/google", auth.GoogleSignIn)
	env.app.Get("/api/v1/connections", authenticate, connections.List)
	env.app.Post("/api/v1/connections", authenticate, connections.Create)
	env.app.Get("/api/v1/connections/:id", authenticate, connections.Get)
	env.app.Patch("/api/v1/connections/:id", authenticate, connections.Update)
	env.app.Delete("/api/v1/connections/:id", authenticate, connections.Delete)
	env.app.Get("/api/v1/user_preferences", authenticate, preferences.GetPreferences)
	env.app.Put("/api/v1/user_preferences", authenticate, preferences.UpdatePreferences)
	env.app.Get("/api/v1/onboarding", authenticate, preferences.GetOnboarding)
	env.app.Get("/up", NewHealthHandler(db).Check)
	return env
}

// signIn creates a user directly and returns a bearer header for it.
func (e *testEnv) signIn(t *testing.T, subject, email string) (*models.User, string) {
	t.Helper()
	user, err := e.users.ResolveOrCreate(context.Background(), services.IdentityProfile{
		Issuer: models.ProviderGoogle, Subject: subject, Email: email, Name: "User " + subject,
	})
	require.NoError(t, err)
	token, err := e.tokens.Issue(user.ID, user.Email)
	require.NoError(t, err)
	return user, "Bearer " + token
}

func (e *testEnv) do(t *testing.T, method, path, authorization string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}
