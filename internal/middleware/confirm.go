package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireConfirm rejects destructive requests that do not carry
// confirm=true with 428 before any handler work.
func RequireConfirm(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.QueryParam("confirm") != "true" {
			return echo.NewHTTPError(http.StatusPreconditionRequired, "confirmation required: repeat with confirm=true")
		}
		return next(c)
	}
}
