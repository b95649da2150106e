package handlers

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
	metrics     metrics.Recorder
}

func NewAuthHandler(authService *services.AuthService, recorder metrics.Recorder) *AuthHandler {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &AuthHandler{authService: authService, metrics: recorder}
}

// GoogleSignIn exchanges a Google ID token for a session token.
func (h *AuthHandler) GoogleSignIn(c *fiber.Ctx) error {
	var req dto.GoogleSignInRequest
	if err := c.BodyParser(&req); err != nil || req.Auth == nil {
		h.metrics.RecordSignIn("bad_request")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Missing auth parameter",
		})
	}
	if req.Auth.IDToken == nil || strings.TrimSpace(*req.Auth.IDToken) == "" {
		h.metrics.RecordSignIn("bad_request")
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Missing ID token",
		})
	}

	resp, err := h.authService.GoogleSignIn(c.UserContext(), *req.Auth.IDToken)
	if err != nil {
		h.metrics.RecordSignIn(signInOutcome(err))
		return writeAuthError(c, err)
	}

	h.metrics.RecordSignIn("success")
	return c.JSON(resp)
}

func signInOutcome(err error) string {
	switch services.KindOf(err) {
	case services.KindClientInput:
		return "bad_request"
	case services.KindUnauthenticated:
		return "rejected"
	case services.KindValidation, services.KindConflict:
		return "invalid_user"
	case services.KindUnavailable:
		return "unavailable"
	default:
		return "error"
	}
}
