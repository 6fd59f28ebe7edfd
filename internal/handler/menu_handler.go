package handler

import (
	"net/http"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/labstack/echo/v4"
)

type MenuHandler struct {
	svc service.MenuService
}

func NewMenuHandler(svc service.MenuService) *MenuHandler {
	return &MenuHandler{svc: svc}
}

func (h *MenuHandler) RegisterRoutes(v1 *echo.Group, mw Guards) {
	g := v1.Group("/mess-menu", mw.Auth)
	staff := middleware.RequireRole(models.RoleMess, models.RoleAdmin)

	g.GET("", h.List)
	g.GET("/today", h.Today)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, staff)
	g.PUT("/:id", h.Update, staff)
	g.DELETE("/:id", h.Delete, staff, middleware.RequireConfirm)
}

// List returns the week in day then meal order.
func (h *MenuHandler) List(c echo.Context) error {
	menus, err := h.svc.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.MapSlice(menus, dto.ToMenuResponse))
}

func (h *MenuHandler) Today(c echo.Context) error {
	today, err := h.svc.Today(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, today)
}

func (h *MenuHandler) Get(c echo.Context) error {
	id, err := parseID(c, "menu")
	if err != nil {
		return err
	}
	menu, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToMenuResponse(menu))
}

func (h *MenuHandler) Create(c echo.Context) error {
	var req dto.MenuRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	menu, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToMenuResponse(menu))
}

func (h *MenuHandler) Update(c echo.Context) error {
	id, err := parseID(c, "menu")
	if err != nil {
		return err
	}
	var req dto.MenuRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	menu, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToMenuResponse(menu))
}

func (h *MenuHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "menu")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
