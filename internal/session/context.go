// Package session carries the authenticated user through a single request.
package session

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type currentUserKey struct{}

var ErrNoCurrentUser = errors.New("no authenticated user in request")

// SetCurrentUser attaches user to the request locals and to the request's
// user context so services reached through c.UserContext() can see it.
func SetCurrentUser(c *fiber.Ctx, user *models.User) {
	c.Locals(currentUserKey{}, user)
	c.SetUserContext(WithUser(c.UserContext(), user))
}

// CurrentUser returns the user attached by the authentication middleware.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(currentUserKey{}).(*models.User)
	if !ok || user == nil {
		return nil, ErrNoCurrentUser
	}
	return user, nil
}

// CurrentUserID is a shortcut for handlers that only need the id.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	user, err := CurrentUser(c)
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, currentUserKey{}, user)
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(currentUserKey{}).(*models.User)
	return user, ok && user != nil
}
