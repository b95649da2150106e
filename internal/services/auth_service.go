package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/models"
)

// AuthService turns a verified Google identity into a local user and a
// session credential.
type AuthService struct {
	verifier IdentityVerifier
	users    *UserService
	tokens   *TokenService
	clientID string
}

func NewAuthService(verifier IdentityVerifier, users *UserService, tokens *TokenService, clientID string) *AuthService {
	return &AuthService{
		verifier: verifier,
		users:    users,
		tokens:   tokens,
		clientID: clientID,
	}
}

func (s *AuthService) GoogleSignIn(ctx context.Context, idToken string) (*dto.AuthResponse, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, ErrMissingIDToken
	}
	if s.clientID == "" {
		return nil, ErrVerifierUnavailable
	}

	identity, err := s.verifier.Verify(ctx, idToken, s.clientID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.ResolveOrCreate(ctx, IdentityProfile{
		Issuer:    identity.Issuer,
		Subject:   identity.Subject,
		Email:     identity.Email,
		Name:      identity.Name,
		AvatarURL: identity.Picture,
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	slog.Info("successful google sign in", "user_id", user.ID.String(), "email", user.Email)

	return &dto.AuthResponse{
		Token: token,
		User:  UserResponse(user),
	}, nil
}

func UserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}
