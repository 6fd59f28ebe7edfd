package handler

import (
	"net/http"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/labstack/echo/v4"
)

type StudentHandler struct {
	svc service.StudentService
}

func NewStudentHandler(svc service.StudentService) *StudentHandler {
	return &StudentHandler{svc: svc}
}

func (h *StudentHandler) RegisterRoutes(v1 *echo.Group, mw Guards) {
	g := v1.Group("/students", mw.Auth, middleware.RequireRole(models.RoleAdmin))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete, middleware.RequireConfirm)

	v1.GET("/me/room", h.MyRoom, mw.Auth, middleware.RequireRole(models.RoleStudent))
}

func (h *StudentHandler) List(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.MapSlice(users, dto.ToUserResponse))
}

func (h *StudentHandler) Get(c echo.Context) error {
	id, err := parseID(c, "student")
	if err != nil {
		return err
	}
	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *StudentHandler) Create(c echo.Context) error {
	var req dto.CreateStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

func (h *StudentHandler) Update(c echo.Context) error {
	id, err := parseID(c, "student")
	if err != nil {
		return err
	}
	var req dto.UpdateStudentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

func (h *StudentHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "student")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *StudentHandler) MyRoom(c echo.Context) error {
	mine, err := h.svc.MyRoom(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return toHTTPError(err)
	}
	resp := dto.MyRoomResponse{
		Booking:   dto.ToBookingResponse(mine.Booking),
		Roommates: dto.MapSlice(mine.Roommates, dto.ToUserResponse),
	}
	if mine.Room != nil {
		resp.Room = dto.ToRoomResponse(mine.Room)
	}
	return c.JSON(http.StatusOK, resp)
}
