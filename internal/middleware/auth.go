package middleware

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	bearerPattern = regexp.MustCompile(`(?i)^Bearer\s+(.+)$`)
	jwtPattern    = regexp.MustCompile(`^[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+$`)
)

// UserLoader resolves the user referenced by a session credential.
type UserLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type AuthConfig struct {
	Tokens  *services.TokenService
	Users   UserLoader
	Metrics metrics.Recorder
	Now     func() time.Time
}

// Authenticate rejects requests without a valid session credential and
// attaches the resolved user to the request otherwise.
func Authenticate(cfg AuthConfig) fiber.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	reject := func(c *fiber.Ctx, reason, message string) error {
		cfg.Metrics.RecordAuthRejection(reason)
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: message})
	}

	return func(c *fiber.Ctx) error {
		token := ExtractToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return reject(c, "missing_token", "Missing authorization token")
		}

		if !cfg.Tokens.Configured() {
			slog.Error("JWT secret key not configured", "path", c.Path())
			cfg.Metrics.RecordAuthRejection("unavailable")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: "Authentication service unavailable",
			})
		}

		claims, err := cfg.Tokens.Decode(token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTokenExpired):
				return reject(c, "expired", "Token expired")
			case errors.Is(err, services.ErrMissingClaim):
				slog.Error("JWT payload missing user_id")
				return reject(c, "invalid_format", "Invalid token format")
			default:
				slog.Error("JWT decode error", "error", err)
				return reject(c, "invalid_token", "Invalid token")
			}
		}

		if claims.Expired(cfg.Now()) {
			return reject(c, "expired", "Token expired")
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			slog.Error("user not found for token", "user_id", claims.UserID)
			return reject(c, "unknown_user", "User not found")
		}

		user, err := cfg.Users.FindByID(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, services.ErrUnknownUser) {
				slog.Error("user not found for token", "user_id", claims.UserID)
				return reject(c, "unknown_user", "User not found")
			}
			slog.Error("authentication error", "error", err)
			return reject(c, "error", "Authentication failed")
		}

		if !user.IsActive() {
			slog.Warn("inactive user attempted access", "email", user.Email)
			return reject(c, "inactive", "Account inactive")
		}

		session.SetCurrentUser(c, user)
		return c.Next()
	}
}

// ExtractToken accepts "Bearer <token>" (any case), a bare JWT, or a legacy
// "<scheme> <token>" pair.
func ExtractToken(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	if m := bearerPattern.FindStringSubmatch(header); m != nil {
		return strings.TrimSpace(m[1])
	}
	if jwtPattern.MatchString(header) {
		return header
	}
	parts := strings.Fields(header)
	if len(parts) == 2 {
		return parts[1]
	}
	return ""
}
