package dto

import (
	"time"

	"github.com/google/uuid"
)

// Envelope is the response shape shared by the resource endpoints.
type Envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

type ConnectionRequest struct {
	Connection *ConnectionParams `json:"connection"`
}

// ConnectionParams uses pointers so updates only touch the fields sent.
type ConnectionParams struct {
	Name         *string `json:"name"`
	PhoneNumber  *string `json:"phone_number"`
	Relationship *string `json:"relationship"`
}

type ConnectionResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	Relationship string    `json:"relationship"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserPreferenceRequest struct {
	UserPreference *UserPreferenceParams `json:"user_preference"`
}

type UserPreferenceParams struct {
	NotificationTime *string `json:"notification_time"`
	Timezone         *string `json:"timezone"`
}

type UserPreferenceResponse struct {
	ID               uuid.UUID `json:"id"`
	NotificationTime *string   `json:"notification_time"`
	Timezone         *string   `json:"timezone"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type OnboardingResponse struct {
	ID                      uuid.UUID `json:"id"`
	NotificationTimeSetting *string   `json:"notification_time_setting"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}
