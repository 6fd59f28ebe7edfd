package handler

import (
	"net/http"
	"strings"

	"github.com/Eursukkul/dormmate-service/internal/dto"
	"github.com/Eursukkul/dormmate-service/internal/middleware"
	"github.com/Eursukkul/dormmate-service/internal/models"
	"github.com/Eursukkul/dormmate-service/internal/repository"
	"github.com/Eursukkul/dormmate-service/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(v1 *echo.Group, mw Guards) {
	g := v1.Group("/bookings", mw.Auth, middleware.RequireRole(models.RoleAdmin))
	g.GET("", h.ListBookings)
	g.POST("", h.CreateBooking)
	g.GET("/:id", h.GetBooking)
	g.PUT("/:id", h.UpdateBooking)
	g.DELETE("/:id", h.DeleteBooking, middleware.RequireConfirm)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}
	var req dto.UpdateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := parseID(c, "booking")
	if err != nil {
		return err
	}
	booking, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

// ListBookings accepts user_id, room_id and a comma separated status list
// besides the q search.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	var filter repository.BookingFilter
	for param, dst := range map[string]**uuid.UUID{"user_id": &filter.UserID, "room_id": &filter.RoomID} {
		raw := c.QueryParam(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid "+param)
		}
		*dst = &id
	}
	if raw := c.QueryParam("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status := models.BookingStatus(strings.TrimSpace(s))
			if !status.Valid() {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	bookings, err := h.svc.List(c.Request().Context(), filter, c.QueryParam("q"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.MapSlice(bookings, dto.ToBookingResponse))
}
