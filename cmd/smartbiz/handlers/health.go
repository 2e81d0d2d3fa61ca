package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/smartbiz-gst/smartbiz/pkg/api/types/envelope"
	apierr "github.com/smartbiz-gst/smartbiz/pkg/api/types/errors"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds 200 while the database is reachable, otherwise 503.
func HealthHandler(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := db.Ping(c.Request().Context()); err != nil {
			return apierr.ServiceUnavailable("Database is unavailable", err)
		}
		return c.JSON(http.StatusOK, envelope.OK("ok", nil))
	}
}
