package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is the payload of a session credential.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Expired reports whether the claims are past their expiry at now.
func (c *SessionClaims) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time)
}

// TokenService issues and decodes HS256 session credentials.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Configured reports whether a signing secret is available.
func (s *TokenService) Configured() bool {
	return len(s.secret) > 0
}

func (s *TokenService) Issue(userID uuid.UUID, email string) (string, error) {
	if !s.Configured() {
		return "", ErrSigningUnavailable
	}
	if userID == uuid.Nil {
		return "", ErrInvalidSubject
	}

	now := s.now()
	claims := SessionClaims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and algorithm, then checks expiry against the
// service clock on top of the library's own check.
func (s *TokenService) Decode(tokenString string) (*SessionClaims, error) {
	if !s.Configured() {
		return nil, ErrSigningUnavailable
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	if claims.Expired(s.now()) {
		return nil, ErrTokenExpired
	}
	if claims.UserID == "" {
		return nil, ErrMissingClaim
	}
	return claims, nil
}
