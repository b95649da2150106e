package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/services"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// authErrorMessages holds the client-facing message for each sign-in failure.
var authErrorMessages = []struct {
	err     error
	message string
}{
	{services.ErrMissingIDToken, "Missing ID token"},
	{services.ErrVerifierUnavailable, "Authentication service unavailable"},
	{services.ErrAssertionInvalid, "Invalid or expired token"},
	{services.ErrIncompletePayload, "Invalid token payload"},
	{services.ErrEmailUnverified, "Email not verified with Google"},
	{services.ErrValidationFailed, "User validation failed"},
	{services.ErrDuplicateIdentity, "User creation failed due to duplicate data"},
	{services.ErrSigningUnavailable, "Token generation failed"},
	{services.ErrInvalidSubject, "Token generation failed"},
}

func statusForKind(kind services.Kind) int {
	switch kind {
	case services.KindClientInput:
		return fiber.StatusBadRequest
	case services.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindConflict:
		return fiber.StatusConflict
	case services.KindValidation:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// writeAuthError maps a sign-in failure to its status and client message.
// Internal detail never reaches the response body.
func writeAuthError(c *fiber.Ctx, err error) error {
	message := "Authentication failed"
	for _, m := range authErrorMessages {
		if errors.Is(err, m.err) {
			message = m.message
			break
		}
	}

	status := statusForKind(services.KindOf(err))
	resp := dto.ErrorResponse{Error: message}

	switch {
	case errors.Is(err, services.ErrVerifierUnavailable):
		slog.Error("google client id not configured", "path", c.Path())
	case errors.Is(err, services.ErrSigningUnavailable):
		slog.Error("JWT secret key not configured", "path", c.Path())
	case errors.Is(err, services.ErrInvalidSubject):
		slog.Error("JWT generation error", "error", err.Error())
	case errors.Is(err, services.ErrValidationFailed):
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			resp.Details = verr.Messages()
		}
		slog.Error("user validation failed", "error", err.Error())
	case errors.Is(err, services.ErrDuplicateIdentity):
		slog.Error("user creation failed due to duplicate data", "error", err.Error())
	case status == fiber.StatusUnauthorized:
		slog.Warn("google sign in rejected", "reason", err.Error())
	case status >= fiber.StatusInternalServerError:
		status = fiber.StatusInternalServerError
		reportUnexpected(c, err)
	}

	return c.Status(status).JSON(resp)
}

// reportUnexpected logs err with a stack trace and forwards it to Sentry
// through the request hub when one is attached.
func reportUnexpected(c *fiber.Ctx, err error) {
	slog.Error("unexpected error",
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
		"stack", string(debug.Stack()),
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}

// writeResourceError renders failures of the per-user resource endpoints in
// the {success:false} envelope.
func writeResourceError(c *fiber.Ctx, err error, notFound string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.Envelope{
			Success: false,
			Errors:  verr.Messages(),
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Envelope{
			Success: false,
			Error:   notFound,
		})
	default:
		reportUnexpected(c, fmt.Errorf("%s %s: %w", c.Method(), c.Route().Path, err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Envelope{
			Success: false,
			Error:   "Internal server error",
		})
	}
}

func missingParameter(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Envelope{
		Success: false,
		Error:   "Missing " + name + " parameter",
	})
}
