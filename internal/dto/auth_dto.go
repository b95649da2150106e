package dto

import "github.com/google/uuid"

// GoogleSignInRequest is the sign-in body: {"auth": {"id_token": "..."}}.
type GoogleSignInRequest struct {
	Auth *GoogleSignInAuth `json:"auth"`
}

type GoogleSignInAuth struct {
	IDToken *string `json:"id_token"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
