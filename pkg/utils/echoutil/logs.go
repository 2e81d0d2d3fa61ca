package echoutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// LogHandlerFunc logs each request and its response.
//
// Responses with status 5xx are logged as error, others as info.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		meth, path := req.Method, req.URL.RequestURI()
		begin := time.Now()
		c.Logger().Debugf("< request %s %s from %s", meth, path, c.RealIP())

		err := next(c)
		if err != nil {
			// render now, so that the status below is what the client gets.
			c.Error(err)
		}

		status := c.Response().Status
		logf := c.Logger().Infof
		if 500 <= status {
			logf = c.Logger().Errorf
		}
		logf("> response %d for %s %s in %v", status, meth, path, time.Since(begin))
		return nil
	}
}

// ParseLevel parses "debug", "info", "warn", "error" or "off", in any case.
//
// Empty string is "info".
func ParseLevel(level string) (log.Lvl, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG, nil
	case "info", "":
		return log.INFO, nil
	case "warn", "warning":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	default:
		return log.INFO, fmt.Errorf("unknown log level: %s", level)
	}
}

// SetLevel sets the level of e.Logger. Unknown levels fall back to info with a warning.
func SetLevel(e *echo.Echo, level string) {
	lvl, err := ParseLevel(level)
	e.Logger.SetLevel(lvl)
	if err != nil {
		e.Logger.Warnf("%s. fall back to info", err)
	}
}
