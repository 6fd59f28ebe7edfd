package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as {"message": ...}. Validation failures
// also list the failed rule per field.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		_ = c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "validation failed", Errors: fields})
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
		if he.Internal != nil {
			log.Printf("[HTTP] %s %s: %v", c.Request().Method, c.Request().URL.Path, he.Internal)
		}
	} else {
		log.Printf("[HTTP] %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
