package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/smartbiz-gst/smartbiz/pkg/api/types/envelope"
	apierr "github.com/smartbiz-gst/smartbiz/pkg/api/types/errors"
	apiusers "github.com/smartbiz-gst/smartbiz/pkg/api/types/users"
	"github.com/smartbiz-gst/smartbiz/pkg/auth"
	domerr "github.com/smartbiz-gst/smartbiz/pkg/domain/errors"
	kuser "github.com/smartbiz-gst/smartbiz/pkg/domain/user/db"
	xe "github.com/smartbiz-gst/smartbiz/pkg/errors"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) error
}

type bcryptHasher struct{}

func (bcryptHasher) Hash(password string) (string, error) {
	return auth.HashPassword(password)
}

func (bcryptHasher) Verify(hash string, password string) error {
	return auth.VerifyPassword(hash, password)
}

// Bcrypt hashes passwords with auth.PasswordCost.
var Bcrypt PasswordHasher = bcryptHasher{}

func RegisterHandler(users kuser.UserInterface, hasher PasswordHasher, tokens TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apiusers.RegisterRequest)
		if err := bind(c, req); err != nil {
			return err
		}

		hash, err := hasher.Hash(req.Password)
		if err != nil {
			return xe.Wrap(err)
		}

		user, err := users.Register(c.Request().Context(), req.Spec(hash))
		if errors.Is(err, domerr.ErrConflict) {
			return apierr.Conflict("User with this email already exists", apierr.WithError(err))
		} else if err != nil {
			return err
		}

		token, err := tokens.Issue(user.ID, user.Email)
		if err != nil {
			return xe.Wrap(err)
		}

		return c.JSON(http.StatusCreated, envelope.OK(
			"User registered successfully",
			apiusers.Session{User: apiusers.ComposeDetail(*user), Token: token},
		))
	}
}

func LoginHandler(users kuser.UserInterface, hasher PasswordHasher, tokens TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := new(apiusers.LoginRequest)
		if err := bind(c, req); err != nil {
			return err
		}

		user, err := users.GetByEmail(c.Request().Context(), req.Email)
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.Unauthorized("Invalid email or password", err)
		} else if err != nil {
			return err
		}

		if !user.IsActive {
			return apierr.Unauthorized("Account is deactivated", nil)
		}

		if err := hasher.Verify(user.PasswordHash, req.Password); errors.Is(err, auth.ErrPasswordMismatch) {
			return apierr.Unauthorized("Invalid email or password", err)
		} else if err != nil {
			return xe.Wrap(err)
		}

		token, err := tokens.Issue(user.ID, user.Email)
		if err != nil {
			return xe.Wrap(err)
		}

		return c.JSON(http.StatusOK, envelope.OK(
			"Login successful",
			apiusers.Session{User: apiusers.ComposeDetail(*user), Token: token},
		))
	}
}

func GetProfileHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return apierr.Unauthorized("Access token required", nil)
		}
		return c.JSON(http.StatusOK, envelope.OK("", apiusers.ComposeDetail(*user)))
	}
}

func UpdateProfileHandler(users kuser.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return apierr.Unauthorized("Access token required", nil)
		}

		req := new(apiusers.ProfileUpdateRequest)
		if err := bind(c, req); err != nil {
			return err
		}
		update := req.Update()
		if update.IsEmpty() {
			return apierr.BadRequest("No fields to update", nil)
		}

		updated, err := users.UpdateProfile(c.Request().Context(), user.ID, update)
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound("User not found")
		} else if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, envelope.OK(
			"Profile updated successfully", apiusers.ComposeDetail(*updated),
		))
	}
}

func ChangePasswordHandler(users kuser.UserInterface, hasher PasswordHasher) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return apierr.Unauthorized("Access token required", nil)
		}

		req := new(apiusers.ChangePasswordRequest)
		if err := bind(c, req); err != nil {
			return err
		}

		if err := hasher.Verify(user.PasswordHash, req.CurrentPassword); errors.Is(err, auth.ErrPasswordMismatch) {
			return apierr.BadRequest("Current password is incorrect", err)
		} else if err != nil {
			return xe.Wrap(err)
		}

		hash, err := hasher.Hash(req.NewPassword)
		if err != nil {
			return xe.Wrap(err)
		}
		if err := users.SetPasswordHash(c.Request().Context(), user.ID, hash); errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound("User not found")
		} else if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, envelope.OK("Password changed successfully", nil))
	}
}
