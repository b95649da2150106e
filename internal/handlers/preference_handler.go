package handlers

import (
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type PreferenceHandler struct {
	preferences *services.PreferenceService
	onboarding  *services.OnboardingService
}

func NewPreferenceHandler(preferences *services.PreferenceService, onboarding *services.OnboardingService) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferences, onboarding: onboarding}
}

func (h *PreferenceHandler) GetPreferences(c *fiber.Ctx) error {
	userID, err := session.CurrentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	pref, err := h.preferences.Get(c.UserContext(), userID)
	if err != nil {
		return writeResourceError(c, err, "User preferences not found")
	}
	return c.JSON(dto.Envelope{Success: true, Data: services.UserPreferenceResponse(pref)})
}

func (h *PreferenceHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID, err := session.CurrentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	var req dto.UserPreferenceRequest
	if err := c.BodyParser(&req); err != nil || req.UserPreference == nil {
		return missingParameter(c, "user_preference")
	}

	pref, err := h.preferences.Update(c.UserContext(), userID, req.UserPreference)
	if err != nil {
		return writeResourceError(c, err, "User preferences not found")
	}
	return c.JSON(dto.Envelope{
		Success: true,
		Data:    services.UserPreferenceResponse(pref),
		Message: "User preferences updated successfully",
	})
}

func (h *PreferenceHandler) GetOnboarding(c *fiber.Ctx) error {
	userID, err := session.CurrentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	onboarding, err := h.onboarding.Get(c.UserContext(), userID)
	if err != nil {
		return writeResourceError(c, err, "Onboarding not found")
	}
	return c.JSON(dto.Envelope{Success: true, Data: services.OnboardingResponse(onboarding)})
}
