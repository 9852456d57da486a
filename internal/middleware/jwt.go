package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/talktrade/internal/auth"
	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

// Context keys set by JWT.
const (
	KeyUser   = "user"
	KeyUserID = "user_id"
	KeyRole   = "role"
)

type UserLookup interface {
	GetUser(ctx context.Context, id string) (*marketplace.User, error)
}

// JWT authenticates the bearer token and loads the user it names, so role
// changes apply without a new login. Websocket clients may pass the token
// as ?token= since browsers cannot set headers on the upgrade request.
func JWT(tokens *auth.Tokens, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, ok := bearerToken(c)
			if !ok {
				return unauthorized(c, "missing Authorization header")
			}
			claims, err := tokens.Parse(tokenStr)
			if err != nil {
				return unauthorized(c, "invalid or expired token")
			}
			u, err := users.GetUser(c.Request().Context(), claims.UserID)
			if errors.Is(err, marketplace.ErrNotFound) {
				return unauthorized(c, "user no longer exists")
			}
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load user", "code": marketplace.CodeInternal})
			}

			c.Set(KeyUser, u)
			c.Set(KeyUserID, u.ID)
			c.Set(KeyRole, u.Role())
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	const prefix = "Bearer "
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, prefix) && len(header) > len(prefix) {
		return header[len(prefix):], true
	}
	if t := c.QueryParam("token"); t != "" {
		return t, true
	}
	return "", false
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg, "code": marketplace.CodeUnauthenticated})
}

// CurrentUser returns the user JWT stored on the context, or nil.
func CurrentUser(c echo.Context) *marketplace.User {
	u, _ := c.Get(KeyUser).(*marketplace.User)
	return u
}
