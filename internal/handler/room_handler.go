package handler

import (
	"net/http"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/labstack/echo/v4"
)

type RoomHandler struct {
	svc service.RoomService
}

func NewRoomHandler(svc service.RoomService) *RoomHandler {
	return &RoomHandler{svc: svc}
}

func (h *RoomHandler) RegisterRoutes(v1 *echo.Group, mw Guards) {
	g := v1.Group("/rooms", mw.Auth)
	admin := middleware.RequireRole(models.RoleAdmin)

	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create, admin)
	g.PUT("/:id", h.Update, admin)
	g.DELETE("/:id", h.Delete, admin, middleware.RequireConfirm)
}

func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.svc.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.MapSlice(rooms, dto.ToRoomResponse))
}

func (h *RoomHandler) Get(c echo.Context) error {
	id, err := parseID(c, "room")
	if err != nil {
		return err
	}
	room, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

func (h *RoomHandler) Create(c echo.Context) error {
	var req dto.CreateRoomRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	room, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToRoomResponse(room))
}

func (h *RoomHandler) Update(c echo.Context) error {
	id, err := parseID(c, "room")
	if err != nil {
		return err
	}
	var req dto.UpdateRoomRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	room, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "room")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
