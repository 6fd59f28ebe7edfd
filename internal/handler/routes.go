package handler

import (
	"github.com/labstack/echo/v4"
)

// Guards are the middlewares route groups pick from.
type Guards struct {
	// Auth rejects requests without a valid access token.
	Auth echo.MiddlewareFunc
	// Optional reads a token when present.
	Optional echo.MiddlewareFunc
	Limit    echo.MiddlewareFunc
}

type Handlers struct {
	Auth       *AuthHandler
	Students   *StudentHandler
	Rooms      *RoomHandler
	Bookings   *BookingHandler
	Attendance *AttendanceHandler
	Menu       *MenuHandler
	Hostels    *HostelHandler
	Complaints *ComplaintHandler
	Dashboard  *DashboardHandler
	Chat       *ChatHandler
	Realtime   *RealtimeHandler
}

// Register mounts every API route under /v1.
func Register(e *echo.Echo, h Handlers, mw Guards) {
	v1 := e.Group("/v1")

	h.Auth.RegisterRoutes(v1, mw)
	h.Students.RegisterRoutes(v1, mw)
	h.Rooms.RegisterRoutes(v1, mw)
	h.Bookings.RegisterRoutes(v1, mw)
	h.Attendance.RegisterRoutes(v1, mw)
	h.Menu.RegisterRoutes(v1, mw)
	h.Hostels.RegisterRoutes(v1, mw)
	h.Complaints.RegisterRoutes(v1, mw)
	h.Dashboard.RegisterRoutes(v1, mw)
	h.Chat.RegisterRoutes(e, v1, mw)
	h.Realtime.RegisterRoutes(v1, mw)
}
