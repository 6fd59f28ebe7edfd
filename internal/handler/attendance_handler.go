package handler

import (
	"net/http"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type AttendanceHandler struct {
	svc service.AttendanceService
}

func NewAttendanceHandler(svc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{svc: svc}
}

func (h *AttendanceHandler) RegisterRoutes(v1 *echo.Group, mw Guards) {
	g := v1.Group("/attendance", mw.Auth)
	markers := middleware.RequireRole(models.RoleSecurity, models.RoleAdmin, models.RoleStudent)

	g.GET("", h.List, middleware.RequireRole(models.RoleSecurity, models.RoleAdmin))
	g.POST("/check-in", h.CheckIn, markers)
	g.POST("/check-out", h.CheckOut, markers)
}

func (h *AttendanceHandler) CheckIn(c echo.Context) error {
	target, err := h.target(c)
	if err != nil {
		return err
	}
	row, err := h.svc.CheckIn(c.Request().Context(), target)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToAttendanceResponse(row))
}

func (h *AttendanceHandler) CheckOut(c echo.Context) error {
	target, err := h.target(c)
	if err != nil {
		return err
	}
	row, err := h.svc.CheckOut(c.Request().Context(), target)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToAttendanceResponse(row))
}

func (h *AttendanceHandler) List(c echo.Context) error {
	var date *datatypes.Date
	if raw := c.QueryParam("date"); raw != "" {
		d, err := dto.ParseDate(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		date = &d
	}
	rows, err := h.svc.List(c.Request().Context(), date, c.QueryParam("q"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.MapSlice(rows, dto.ToAttendanceResponse))
}

// target resolves whose attendance is marked. Students only mark
// themselves; staff must name the student.
func (h *AttendanceHandler) target(c echo.Context) (uuid.UUID, error) {
	var req dto.AttendanceMarkRequest
	if c.Request().ContentLength > 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return uuid.Nil, err
		}
	}
	self := middleware.UserID(c)

	if middleware.Role(c) == models.RoleStudent {
		if req.UserID != "" && req.UserID != self.String() {
			return uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "students can only mark their own attendance")
		}
		return self, nil
	}
	if req.UserID == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}
	return uuid.MustParse(req.UserID), nil
}
