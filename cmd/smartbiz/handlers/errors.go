package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/labstack/echo/v4"
	"github.com/smartbiz-gst/smartbiz/pkg/api/types/envelope"
	apierr "github.com/smartbiz-gst/smartbiz/pkg/api/types/errors"
	"github.com/smartbiz-gst/smartbiz/pkg/auth"
	domerr "github.com/smartbiz-gst/smartbiz/pkg/domain/errors"
	xe "github.com/smartbiz-gst/smartbiz/pkg/errors"
	"github.com/smartbiz-gst/smartbiz/pkg/upload"
)

// ErrorHandler renders errors returned from handlers into the response envelope.
//
// Unless production, responses carry the error text and its stack.
func ErrorHandler(production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := Render(err)
		if http.StatusInternalServerError <= code {
			c.Logger().Errorf("%s %s: %+v", c.Request().Method, c.Request().URL, err)
		} else {
			c.Logger().Debugf("%s %s: %+v", c.Request().Method, c.Request().URL, err)
		}

		if !production {
			body.Error = err.Error()
			body.Stack = xe.Trace(err)
		}

		var rerr error
		if c.Request().Method == http.MethodHead {
			rerr = c.NoContent(code)
		} else {
			rerr = c.JSON(code, body)
		}
		if rerr != nil {
			c.Logger().Error(rerr)
		}
	}
}

// Render maps an error to the status code and the response body.
func Render(err error) (int, envelope.Envelope) {
	if herr := new(echo.HTTPError); errors.As(err, &herr) {
		switch m := herr.Message.(type) {
		case apierr.ErrorMessage:
			return herr.Code, envelope.Failure(m.Message, m.Errors...)
		case string:
			return herr.Code, envelope.Failure(m)
		default:
			return herr.Code, envelope.Failure(http.StatusText(herr.Code))
		}
	}

	if verrs := (validator.ValidationErrors{}); errors.As(err, &verrs) {
		fields := make([]apierr.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apierr.FieldError{Field: fe.Field(), Message: fe.Error()})
		}
		return http.StatusBadRequest, envelope.Failure("Validation failed", fields...)
	}

	if errors.Is(err, auth.ErrTokenExpired) {
		return http.StatusUnauthorized, envelope.Failure("Token expired")
	}
	if errors.Is(err, auth.ErrInvalidToken) {
		return http.StatusUnauthorized, envelope.Failure("Invalid token")
	}

	if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) {
		switch pgerr.Code {
		case pgerrcode.UniqueViolation:
			return http.StatusConflict, envelope.Failure("Duplicate entry. This record already exists.")
		case pgerrcode.ForeignKeyViolation:
			return http.StatusBadRequest, envelope.Failure("Referenced record not found.")
		case pgerrcode.NotNullViolation:
			return http.StatusBadRequest, envelope.Failure("Required field is missing.")
		case pgerrcode.InvalidTextRepresentation:
			return http.StatusBadRequest, envelope.Failure("Invalid input syntax.")
		}
	}

	if uerr := new(upload.Error); errors.As(err, &uerr) {
		return http.StatusBadRequest, envelope.Failure(uerr.Message)
	}

	if errors.Is(err, domerr.ErrMissing) {
		return http.StatusNotFound, envelope.Failure("Not found")
	}

	return http.StatusInternalServerError, envelope.Failure("Internal Server Error")
}
