package handler

import (
	"errors"
	"net/http"

	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var statusBySentinel = []struct {
	err  error
	code int
}{
	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotHostelOwner, http.StatusForbidden},

	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrStudentNotFound, http.StatusNotFound},
	{service.ErrRoomNotFound, http.StatusNotFound},
	{service.ErrBookingNotFound, http.StatusNotFound},
	{service.ErrNoActiveRoom, http.StatusNotFound},
	{service.ErrMenuNotFound, http.StatusNotFound},
	{service.ErrHostelNotFound, http.StatusNotFound},
	{service.ErrPhotoNotFound, http.StatusNotFound},
	{service.ErrComplaintNotFound, http.StatusNotFound},

	{service.ErrEmailTaken, http.StatusConflict},
	{service.ErrRoleAlreadySet, http.StatusConflict},
	{service.ErrStudentHasBookings, http.StatusConflict},
	{service.ErrRoomNumberTaken, http.StatusConflict},
	{service.ErrRoomOccupied, http.StatusConflict},
	{service.ErrCapacityBelowActive, http.StatusConflict},
	{service.ErrRoomFull, http.StatusConflict},
	{service.ErrAlreadyAssigned, http.StatusConflict},
	{service.ErrMenuExists, http.StatusConflict},
	{service.ErrHostelExists, http.StatusConflict},

	{service.ErrInvalidRole, http.StatusBadRequest},
	{service.ErrInvalidDates, http.StatusBadRequest},
	{service.ErrInvalidStatus, http.StatusBadRequest},
	{service.ErrInvalidDay, http.StatusBadRequest},
	{service.ErrInvalidMeal, http.StatusBadRequest},
	{service.ErrInvalidCategory, http.StatusBadRequest},
	{service.ErrInvalidImage, http.StatusUnsupportedMediaType},
	{service.ErrNoStorage, http.StatusServiceUnavailable},
}

// toHTTPError maps service sentinels to their status. Anything else is a
// 500 whose cause is logged by the error handler but not shown.
func toHTTPError(err error) error {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return echo.NewHTTPError(s.code, s.err.Error())
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
}

func parseID(c echo.Context, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+what+" id")
	}
	return id, nil
}

// bindAndValidate binds the body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}

func viewer(c echo.Context) service.Viewer {
	return service.Viewer{UserID: middleware.UserID(c), Role: middleware.Role(c)}
}
