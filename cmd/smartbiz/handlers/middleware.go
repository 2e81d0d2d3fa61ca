package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/smartbiz-gst/smartbiz/pkg/api/types/errors"
	"github.com/smartbiz-gst/smartbiz/pkg/auth"
	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	domerr "github.com/smartbiz-gst/smartbiz/pkg/domain/errors"
	kuser "github.com/smartbiz-gst/smartbiz/pkg/domain/user/db"
)

// key of echo.Context for the authenticated *domain.User.
const contextUser = "smartbiz.user"

// TokenVerifier verifies bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// TokenIssuer issues bearer tokens.
type TokenIssuer interface {
	Issue(userId string, email string) (string, error)
}

// extract a token from "Authorization: Bearer TOKEN".
func bearer(c echo.Context) (string, bool) {
	scheme, token, ok := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authenticate the token and load its user freshly.
func authenticate(ctx context.Context, tokens TokenVerifier, users kuser.UserInterface, token string) (*domain.User, error) {
	claims, err := tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := users.Get(ctx, claims.UserID())
	if errors.Is(err, domerr.ErrMissing) {
		return nil, apierr.Unauthorized("User not found or inactive", err)
	} else if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apierr.Unauthorized("User not found or inactive", nil)
	}
	return user, nil
}

// RequireAuth rejects requests without a valid bearer token of an active user with 401.
func RequireAuth(tokens TokenVerifier, users kuser.UserInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearer(c)
			if !ok {
				return apierr.Unauthorized("Access token required", nil)
			}
			user, err := authenticate(c.Request().Context(), tokens, users, token)
			if err != nil {
				return err
			}
			c.Set(contextUser, user)
			return next(c)
		}
	}
}

// OptionalAuth authenticates the caller when possible.
//
// Requests without a token, or with a token not accepted, go on as anonymous.
func OptionalAuth(tokens TokenVerifier, users kuser.UserInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearer(c)
			if !ok {
				return next(c)
			}
			user, err := authenticate(c.Request().Context(), tokens, users, token)
			if err != nil {
				c.Logger().Debugf("continue as anonymous: %s", err)
				return next(c)
			}
			c.Set(contextUser, user)
			return next(c)
		}
	}
}

// AdminOnly rejects non-admin users with 403. It should be used after RequireAuth.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return apierr.Unauthorized("Access token required", nil)
		}
		if !user.IsAdmin() {
			return apierr.Forbidden("Admin access required")
		}
		return next(c)
	}
}

// CurrentUser is the authenticated user, or nil for anonymous requests.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(contextUser).(*domain.User)
	return u
}

// id of the current user, or nil for anonymous requests.
func viewerOf(c echo.Context) *string {
	if u := CurrentUser(c); u != nil {
		id := u.ID
		return &id
	}
	return nil
}
