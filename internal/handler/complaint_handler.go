package handler

import (
	"net/http"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/labstack/echo/v4"
)

type ComplaintHandler struct {
	svc service.ComplaintService
}

func NewComplaintHandler(svc service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{svc: svc}
}

func (h *ComplaintHandler) RegisterRoutes(v1 *echo.Group, mw Guards) {
	g := v1.Group("/complaints", mw.Auth)
	g.POST("", h.Create, middleware.RequireRole(models.RoleStudent))
	g.GET("", h.List, middleware.RequireRole(models.RoleStudent, models.RoleAdmin))
	g.PATCH("/:id/status", h.UpdateStatus, middleware.RequireRole(models.RoleAdmin))
}

func (h *ComplaintHandler) Create(c echo.Context) error {
	var req dto.CreateComplaintRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	complaint, err := h.svc.Create(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToComplaintResponse(complaint))
}

func (h *ComplaintHandler) List(c echo.Context) error {
	complaints, err := h.svc.List(c.Request().Context(), viewer(c))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.MapSlice(complaints, dto.ToComplaintResponse))
}

func (h *ComplaintHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "complaint")
	if err != nil {
		return err
	}
	var req dto.UpdateComplaintStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	complaint, err := h.svc.UpdateStatus(c.Request().Context(), id, models.ComplaintStatus(req.Status))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToComplaintResponse(complaint))
}
