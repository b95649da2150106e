package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// VerifiedIdentity is the subset of a verified identity assertion the rest of
// the system relies on.
type VerifiedIdentity struct {
	Issuer  string
	Subject string
	Email   string
	Name    string
	Picture string
}

// IdentityVerifier validates an externally issued identity assertion.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawAssertion, audience string) (*VerifiedIdentity, error)
}

type GoogleClaims struct {
	Email         string   `json:"email"`
	EmailVerified flexBool `json:"email_verified"`
	Name          string   `json:"name"`
	Picture       string   `json:"picture"`
	jwt.RegisteredClaims
}

// flexBool accepts both JSON booleans and the strings "true"/"false".
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true":
		*b = true
	case "false", "null", "":
		*b = false
	default:
		return fmt.Errorf("invalid boolean value %s", data)
	}
	return nil
}

// GoogleVerifier checks Google ID tokens against Google's published JWKS.
type GoogleVerifier struct {
	jwksURL string
	timeout time.Duration

	mu      sync.Mutex
	jwks    *keyfunc.JWKS
	keyfunc jwt.Keyfunc
}

// NewGoogleVerifier returns a verifier that fetches signing keys lazily on
// first use and refreshes them in the background afterwards.
func NewGoogleVerifier(jwksURL string, timeout time.Duration) *GoogleVerifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &GoogleVerifier{
		jwksURL: jwksURL,
		timeout: timeout,
	}
}

// NewGoogleVerifierWithKeyfunc uses a fixed key lookup instead of the remote JWKS.
func NewGoogleVerifierWithKeyfunc(kf jwt.Keyfunc, timeout time.Duration) *GoogleVerifier {
	v := NewGoogleVerifier("", timeout)
	v.keyfunc = kf
	return v
}

func (v *GoogleVerifier) keys() (jwt.Keyfunc, error) {
	if v.keyfunc != nil {
		return v.keyfunc, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		return v.jwks.Keyfunc, nil
	}

	jwks, err := keyfunc.Get(v.jwksURL, keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			slog.Error("google jwks refresh failed", "error", err)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    v.timeout,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch google JWKS: %w", err)
	}
	v.jwks = jwks
	return jwks.Keyfunc, nil
}

// Close stops the background key refresh.
func (v *GoogleVerifier) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

func (v *GoogleVerifier) Verify(ctx context.Context, rawAssertion, audience string) (*VerifiedIdentity, error) {
	if audience == "" {
		return nil, ErrVerifierUnavailable
	}
	if strings.TrimSpace(rawAssertion) == "" {
		return nil, fmt.Errorf("%w: empty assertion", ErrAssertionInvalid)
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	type result struct {
		claims *GoogleClaims
		err    error
	}
	done := make(chan result, 1)
	go func() {
		claims, err := v.parse(rawAssertion, audience)
		done <- result{claims: claims, err: err}
	}()

	var claims *GoogleClaims
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrAssertionInvalid, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		claims = r.claims
	}

	if strings.TrimSpace(claims.Subject) == "" ||
		strings.TrimSpace(claims.Email) == "" ||
		strings.TrimSpace(claims.Name) == "" {
		return nil, ErrIncompletePayload
	}
	if !claims.EmailVerified {
		slog.Warn("unverified email attempted sign in", "email", claims.Email)
		return nil, ErrEmailUnverified
	}

	return &VerifiedIdentity{
		Issuer:  models.ProviderGoogle,
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

func (v *GoogleVerifier) parse(rawAssertion, audience string) (*GoogleClaims, error) {
	kf, err := v.keys()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssertionInvalid, err)
	}

	claims := &GoogleClaims{}
	_, err = jwt.ParseWithClaims(rawAssertion, claims, kf,
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssertionInvalid, err)
	}

	if !validIssuer(claims.Issuer) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrAssertionInvalid, claims.Issuer)
	}
	return claims, nil
}

func validIssuer(iss string) bool {
	for _, candidate := range googleIssuers {
		if iss == candidate {
			return true
		}
	}
	return false
}
