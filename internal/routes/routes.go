package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/handlers"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Handlers groups everything Setup mounts.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Health      *handlers.HealthHandler
	Connections *handlers.ConnectionHandler
	Preferences *handlers.PreferenceHandler
	Metrics     fiber.Handler
}

func Setup(app *fiber.App, h Handlers, authenticate fiber.Handler) {
	app.Get("/up", h.Health.Check)
	if h.Metrics != nil {
		app.Get("/metrics", h.Metrics)
	}

	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	v1 := api.Group("/v1")

	// Sign-in: 10 req/min per IP (stricter)
	auth := v1.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/google", h.Auth.GoogleSignIn)

	// Protected routes: the authenticator is applied per route so the public
	// sign-in endpoint is never gated.
	v1.Get("/connections", authenticate, h.Connections.List)
	v1.Post("/connections", authenticate, h.Connections.Create)
	v1.Get("/connections/:id", authenticate, h.Connections.Get)
	v1.Put("/connections/:id", authenticate, h.Connections.Update)
	v1.Patch("/connections/:id", authenticate, h.Connections.Update)
	v1.Delete("/connections/:id", authenticate, h.Connections.Delete)

	v1.Get("/user_preferences", authenticate, h.Preferences.GetPreferences)
	v1.Put("/user_preferences", authenticate, h.Preferences.UpdatePreferences)
	v1.Patch("/user_preferences", authenticate, h.Preferences.UpdatePreferences)

	v1.Get("/onboarding", authenticate, h.Preferences.GetOnboarding)
}
