package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/smartbiz-gst/smartbiz/pkg/api/types/envelope"
	apierr "github.com/smartbiz-gst/smartbiz/pkg/api/types/errors"
	apiusers "github.com/smartbiz-gst/smartbiz/pkg/api/types/users"
	domerr "github.com/smartbiz-gst/smartbiz/pkg/domain/errors"
	kuser "github.com/smartbiz-gst/smartbiz/pkg/domain/user/db"
)

// read a path parameter as uuid. It is 400 "Validation failed" when malformed.
func uuidParam(c echo.Context, name string, message string) (string, error) {
	raw := c.Param(name)
	if _, err := uuid.Parse(raw); err != nil {
		return "", apierr.Validation(apierr.FieldError{Field: name, Message: message})
	}
	return raw, nil
}

func ListUsersHandler(users kuser.UserInterface) echo.HandlerFunc {
	return func(c echo.Context) error {
		q := new(apiusers.ListQuery)
		if err := bind(c, q); err != nil {
			return err
		}

		query := q.FindQuery()
		found, err := users.Find(c.Request().Context(), query)
		if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, envelope.Paginated(query.Page, found, apiusers.ComposeSummary))
	}
}

func GetUserHandler(users kuser.UserInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuidParam(c, paramKey, "Invalid user ID")
		if err != nil {
			return err
		}

		if me := CurrentUser(c); me == nil || !me.CanAccess(id) {
			return apierr.AccessDenied()
		}

		user, err := users.Get(c.Request().Context(), id)
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound("User not found")
		} else if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, envelope.OK("", apiusers.ComposeDetail(*user)))
	}
}

// SetUserActiveHandler activates (active = true) or deactivates users.
func SetUserActiveHandler(users kuser.UserInterface, paramKey string, active bool) echo.HandlerFunc {
	already, done := "User is already deactivated", "User deactivated successfully"
	if active {
		already, done = "User is already active", "User activated successfully"
	}

	return func(c echo.Context) error {
		id, err := uuidParam(c, paramKey, "Invalid user ID")
		if err != nil {
			return err
		}

		_, err = users.SetActive(c.Request().Context(), id, active)
		if errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound("User not found")
		} else if errors.Is(err, domerr.ErrInvalidState) {
			return apierr.BadRequest(already, err)
		} else if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, envelope.OK(done, nil))
	}
}

func DeleteUserHandler(users kuser.UserInterface, paramKey string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuidParam(c, paramKey, "Invalid user ID")
		if err != nil {
			return err
		}

		if err := users.Delete(c.Request().Context(), id); errors.Is(err, domerr.ErrMissing) {
			return apierr.NotFound("User not found")
		} else if err != nil {
			return err
		}

		return c.JSON(http.StatusOK, envelope.OK("User deleted successfully", nil))
	}
}
